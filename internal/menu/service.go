package menu

import (
	"donmenu-backend/internal/costing"
	"donmenu-backend/internal/database"
	"donmenu-backend/internal/models"

	"github.com/shopspring/decimal"
)

// applyPricing roda o motor de precificação sobre o item e grava os campos
// derivados na struct, respeitando a variante (manual ou por margem).
func applyPricing(item *models.MenuItem, costPerYield decimal.Decimal) error {
	var pricing costing.Pricing
	if item.ManualPricing {
		pricing = costing.ManualPrice(item.Price)
	} else {
		pricing = costing.FromMargin(item.DesiredMargin)
	}

	mp, err := costing.PriceMenuItem(costPerYield, pricing)
	if err != nil {
		return err
	}

	item.Price = mp.Price
	item.SuggestedPrice = mp.SuggestedPrice
	item.CostPrice = mp.CostPrice
	item.GrossProfit = mp.GrossProfit
	item.ActualMargin = mp.ActualMargin
	return nil
}

// RepriceByRecipe reprecifica todos os itens ligados à ficha técnica depois
// de uma mudança de custo. Itens com preço manual mantêm o preço e só
// atualizam custo/margem realizada.
func RepriceByRecipe(restaurantID, recipeID uint) error {
	var r models.Recipe
	if err := database.DB.Where("restaurant_id = ?", restaurantID).
		First(&r, "id = ?", recipeID).Error; err != nil {
		return err
	}

	var items []models.MenuItem
	if err := database.DB.Where("restaurant_id = ? AND recipe_id = ?", restaurantID, recipeID).
		Find(&items).Error; err != nil {
		return err
	}

	for i := range items {
		if err := applyPricing(&items[i], r.CostPerYield); err != nil {
			return err
		}
		if err := database.DB.Save(&items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
