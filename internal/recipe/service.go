package recipe

import (
	"donmenu-backend/internal/costing"
	"donmenu-backend/internal/database"
	"donmenu-backend/internal/menu"
	"donmenu-backend/internal/models"

	"gorm.io/gorm"
)

// Recompute roda o motor de custos sobre as linhas informadas e preenche os
// campos derivados da ficha. Não persiste nada.
func Recompute(r *models.Recipe, lines []costing.RecipeLineInput) (*costing.RecipeCost, error) {
	cost, err := costing.BuildRecipe(CostResolver{}, r.RestaurantID, r.YieldQuantity, lines)
	if err != nil {
		return nil, err
	}
	r.TotalCost = cost.TotalCost
	r.CostPerYield = cost.CostPerYield
	return cost, nil
}

// RecomputeByIngredient refaz o custo de todas as fichas que usam o insumo
// e reprecifica os itens de cardápio derivados delas. Chamado quando o custo
// unitário do insumo muda.
func RecomputeByIngredient(restaurantID, ingredientID uint) error {
	var recipeIDs []uint
	err := database.DB.Model(&models.RecipeLine{}).
		Joins("JOIN recipes ON recipes.id = recipe_lines.recipe_id").
		Where("recipe_lines.ingredient_id = ? AND recipes.restaurant_id = ?", ingredientID, restaurantID).
		Distinct("recipe_lines.recipe_id").
		Pluck("recipe_lines.recipe_id", &recipeIDs).Error
	if err != nil {
		return err
	}

	for _, recipeID := range recipeIDs {
		if err := recomputeStored(restaurantID, recipeID); err != nil {
			return err
		}
		if err := menu.RepriceByRecipe(restaurantID, recipeID); err != nil {
			return err
		}
	}
	return nil
}

// recomputeStored recarrega a ficha do banco, refaz o cálculo a partir das
// linhas gravadas e persiste os novos custos.
func recomputeStored(restaurantID, recipeID uint) error {
	var r models.Recipe
	if err := database.DB.Preload("Lines").
		Where("restaurant_id = ?", restaurantID).
		First(&r, "id = ?", recipeID).Error; err != nil {
		return err
	}

	inputs := make([]costing.RecipeLineInput, 0, len(r.Lines))
	for _, line := range r.Lines {
		inputs = append(inputs, costing.RecipeLineInput{
			IngredientID: line.IngredientID,
			Quantity:     line.Quantity,
			Unit:         line.Unit,
		})
	}

	cost, err := Recompute(&r, inputs)
	if err != nil {
		return err
	}

	return database.DB.Transaction(func(tx *gorm.DB) error {
		for i := range r.Lines {
			r.Lines[i].LineCost = cost.Lines[i].LineCost
			if err := tx.Model(&models.RecipeLine{}).
				Where("id = ?", r.Lines[i].ID).
				Update("line_cost", r.Lines[i].LineCost).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.Recipe{}).
			Where("id = ?", r.ID).
			Updates(map[string]any{
				"total_cost":     r.TotalCost,
				"cost_per_yield": r.CostPerYield,
			}).Error
	})
}
