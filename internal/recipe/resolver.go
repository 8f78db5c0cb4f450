package recipe

import (
	"errors"

	"donmenu-backend/internal/database"
	"donmenu-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CostResolver implementa costing.IngredientCostResolver em cima do banco,
// sempre dentro do escopo do restaurante.
type CostResolver struct{}

func (CostResolver) IngredientCost(restaurantID, ingredientID uint) (decimal.Decimal, bool, error) {
	var ing models.Ingredient
	err := database.DB.
		Where("restaurant_id = ? AND id = ?", restaurantID, ingredientID).
		First(&ing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, err
	}
	return ing.CostPerUnit, true, nil
}
