package costing

import (
	"time"

	"github.com/shopspring/decimal"
)

// MenuItemPriceResolver devolve o preço atual de um item de cardápio dentro
// do escopo do restaurante.
type MenuItemPriceResolver interface {
	MenuItemPrice(restaurantID, menuItemID uint) (price decimal.Decimal, found bool, err error)
}

type ComboItemInput struct {
	MenuItemID uint
	Quantity   int
	Discount   *decimal.Decimal // percentual 0-100, opcional
}

type ComboItemCost struct {
	MenuItemID         uint
	UnitPrice          decimal.Decimal
	OriginalSubtotal   decimal.Decimal
	DiscountedSubtotal decimal.Decimal
}

type ComboCost struct {
	Items              []ComboItemCost
	TotalOriginalPrice decimal.Decimal
	TotalSavings       decimal.Decimal
}

// BuildCombo soma os subtotais originais dos itens e calcula a economia do
// combo. TotalSavings pode ser negativo quando o combo custa mais que a soma
// das partes; quem consome não deve assumir valor não negativo.
func BuildCombo(resolver MenuItemPriceResolver, restaurantID uint, comboPrice decimal.Decimal, items []ComboItemInput) (*ComboCost, error) {
	if len(items) == 0 {
		return nil, newValidationError("combo precisa de pelo menos um item")
	}
	if comboPrice.IsNegative() {
		return nil, newValidationError("preço do combo não pode ser negativo")
	}

	result := &ComboCost{
		Items:              make([]ComboItemCost, 0, len(items)),
		TotalOriginalPrice: decimal.Zero,
	}

	for _, item := range items {
		if item.Quantity < 1 {
			return nil, newValidationError("quantidade do item %d deve ser no mínimo 1", item.MenuItemID)
		}

		discount := decimal.Zero
		if item.Discount != nil {
			discount = *item.Discount
			if discount.IsNegative() || discount.GreaterThan(hundred) {
				return nil, newValidationError("desconto do item %d deve estar entre 0 e 100", item.MenuItemID)
			}
		}

		price, found, err := resolver.MenuItemPrice(restaurantID, item.MenuItemID)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, newValidationError("item de cardápio %d não encontrado", item.MenuItemID)
		}

		originalSubtotal := price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		discountedSubtotal := originalSubtotal.Mul(decimal.NewFromInt(1).Sub(discount.Div(hundred)))

		result.Items = append(result.Items, ComboItemCost{
			MenuItemID:         item.MenuItemID,
			UnitPrice:          price,
			OriginalSubtotal:   originalSubtotal,
			DiscountedSubtotal: discountedSubtotal,
		})
		result.TotalOriginalPrice = result.TotalOriginalPrice.Add(originalSubtotal)
	}

	result.TotalSavings = result.TotalOriginalPrice.Sub(comboPrice)
	return result, nil
}

// ComboCurrentlyValid avalia a janela de validade do combo no instante
// informado, inclusiva nas duas pontas e aberta quando um dos limites não
// está definido. Sempre reavaliado na leitura, nunca persistido.
func ComboCurrentlyValid(validFrom, validTo *time.Time, now time.Time) bool {
	if validFrom != nil && now.Before(*validFrom) {
		return false
	}
	if validTo != nil && now.After(*validTo) {
		return false
	}
	return true
}
