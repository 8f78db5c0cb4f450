package costing

import "github.com/shopspring/decimal"

// IngredientCostResolver devolve o custo unitário de um insumo dentro do
// escopo do restaurante. found=false quando o insumo não existe nesse
// escopo; err só para falha de infraestrutura (banco fora etc.).
type IngredientCostResolver interface {
	IngredientCost(restaurantID, ingredientID uint) (cost decimal.Decimal, found bool, err error)
}

type RecipeLineInput struct {
	IngredientID uint
	Quantity     decimal.Decimal
	Unit         string
}

type RecipeLineCost struct {
	IngredientID uint
	LineCost     decimal.Decimal
}

type RecipeCost struct {
	Lines        []RecipeLineCost
	TotalCost    decimal.Decimal
	CostPerYield decimal.Decimal
}

// BuildRecipe calcula o custo total da ficha técnica e o custo por unidade
// de rendimento. yieldQuantity deve ser > 0 (divisão); cada linha precisa de
// quantidade > 0 e insumo resolvível.
func BuildRecipe(resolver IngredientCostResolver, restaurantID uint, yieldQuantity decimal.Decimal, lines []RecipeLineInput) (*RecipeCost, error) {
	if yieldQuantity.LessThanOrEqual(decimal.Zero) {
		return nil, newValidationError("rendimento deve ser maior que zero")
	}

	result := &RecipeCost{
		Lines:     make([]RecipeLineCost, 0, len(lines)),
		TotalCost: decimal.Zero,
	}

	for _, line := range lines {
		if line.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, newValidationError("quantidade do insumo %d deve ser maior que zero", line.IngredientID)
		}

		costPerUnit, found, err := resolver.IngredientCost(restaurantID, line.IngredientID)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, &NotFoundError{Entity: "insumo", ID: line.IngredientID}
		}

		lineCost := costPerUnit.Mul(line.Quantity)
		result.Lines = append(result.Lines, RecipeLineCost{
			IngredientID: line.IngredientID,
			LineCost:     lineCost,
		})
		result.TotalCost = result.TotalCost.Add(lineCost)
	}

	result.CostPerYield = result.TotalCost.Div(yieldQuantity)
	return result, nil
}
