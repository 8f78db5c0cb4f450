package costing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Pricing é a variante de precificação de um item de cardápio: preço manual
// digitado pela equipe ou preço derivado da margem desejada. Construa com
// ManualPrice ou FromMargin; o zero value não é válido.
type Pricing struct {
	manual        bool
	manualPrice   decimal.Decimal
	desiredMargin decimal.Decimal
}

func ManualPrice(price decimal.Decimal) Pricing {
	return Pricing{manual: true, manualPrice: price}
}

func FromMargin(desiredMargin decimal.Decimal) Pricing {
	return Pricing{manual: false, desiredMargin: desiredMargin}
}

type MenuPrice struct {
	Price          decimal.Decimal
	SuggestedPrice decimal.Decimal
	CostPrice      decimal.Decimal
	GrossProfit    decimal.Decimal
	ActualMargin   decimal.Decimal
	ManualPricing  bool
}

// PriceMenuItem precifica um item a partir do custo por rendimento da ficha
// técnica. Na variante por margem: preco = custo / (1 - margem/100), o que
// exige margem < 100. ActualMargin com preço zero é 0 por definição (item
// rascunho sem preço é estado válido, não erro).
func PriceMenuItem(costPerYield decimal.Decimal, pricing Pricing) (*MenuPrice, error) {
	if costPerYield.IsNegative() {
		return nil, newValidationError("custo não pode ser negativo")
	}

	result := &MenuPrice{
		CostPrice:     costPerYield,
		ManualPricing: pricing.manual,
	}

	if pricing.manual {
		if pricing.manualPrice.IsNegative() {
			return nil, newValidationError("preço não pode ser negativo")
		}
		result.Price = pricing.manualPrice
		result.SuggestedPrice = pricing.manualPrice
	} else {
		if pricing.desiredMargin.IsNegative() {
			return nil, newValidationError("margem desejada não pode ser negativa")
		}
		if pricing.desiredMargin.GreaterThanOrEqual(hundred) {
			return nil, newValidationError("margem desejada deve ser menor que 100")
		}
		denominator := decimal.NewFromInt(1).Sub(pricing.desiredMargin.Div(hundred))
		result.SuggestedPrice = costPerYield.Div(denominator)
		result.Price = result.SuggestedPrice
	}

	result.GrossProfit = result.Price.Sub(result.CostPrice)
	if result.Price.GreaterThan(decimal.Zero) {
		result.ActualMargin = result.GrossProfit.Div(result.Price).Mul(hundred)
	} else {
		result.ActualMargin = decimal.Zero
	}

	return result, nil
}
