package costing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

type stubIngredients map[uint]decimal.Decimal

func (s stubIngredients) IngredientCost(_, ingredientID uint) (decimal.Decimal, bool, error) {
	cost, ok := s[ingredientID]
	return cost, ok, nil
}

type stubMenuItems map[uint]decimal.Decimal

func (s stubMenuItems) MenuItemPrice(_, menuItemID uint) (decimal.Decimal, bool, error) {
	price, ok := s[menuItemID]
	return price, ok, nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimalEqual(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(expected).Equal(actual), "esperado %s, veio %s", expected, actual)
}

// ── BuildRecipe ───────────────────────────────────────────────────────────────

func TestBuildRecipeScenario(t *testing.T) {
	// insumo a 25.00/kg, receita usa 0.15kg, rendimento 1
	ingredients := stubIngredients{1: dec("25.00")}

	cost, err := BuildRecipe(ingredients, 1, dec("1"), []RecipeLineInput{
		{IngredientID: 1, Quantity: dec("0.15"), Unit: "kg"},
	})
	require.NoError(t, err)

	assertDecimalEqual(t, "3.75", cost.TotalCost)
	assertDecimalEqual(t, "3.75", cost.CostPerYield)
	require.Len(t, cost.Lines, 1)
	assertDecimalEqual(t, "3.75", cost.Lines[0].LineCost)
}

func TestBuildRecipeCostPerYieldRoundTrip(t *testing.T) {
	ingredients := stubIngredients{1: dec("2.50"), 2: dec("1.20")}

	yield := dec("3")
	cost, err := BuildRecipe(ingredients, 1, yield, []RecipeLineInput{
		{IngredientID: 1, Quantity: dec("2"), Unit: "kg"},
		{IngredientID: 2, Quantity: dec("4.1666"), Unit: "l"},
	})
	require.NoError(t, err)

	// cost_per_yield * yield_quantity == total_cost (com tolerância)
	roundTrip := cost.CostPerYield.Mul(yield)
	diff := roundTrip.Sub(cost.TotalCost).Abs()
	assert.True(t, diff.LessThan(dec("0.0001")), "diferença %s", diff)
}

func TestBuildRecipeRejectsNonPositiveYield(t *testing.T) {
	ingredients := stubIngredients{1: dec("10")}

	for _, yield := range []string{"0", "-1"} {
		_, err := BuildRecipe(ingredients, 1, dec(yield), []RecipeLineInput{
			{IngredientID: 1, Quantity: dec("1"), Unit: "kg"},
		})
		var ve *ValidationError
		require.ErrorAs(t, err, &ve, "rendimento %s deveria falhar", yield)
	}
}

func TestBuildRecipeRejectsNonPositiveLineQuantity(t *testing.T) {
	ingredients := stubIngredients{1: dec("10")}

	_, err := BuildRecipe(ingredients, 1, dec("1"), []RecipeLineInput{
		{IngredientID: 1, Quantity: dec("0"), Unit: "kg"},
	})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestBuildRecipeUnknownIngredient(t *testing.T) {
	ingredients := stubIngredients{}

	_, err := BuildRecipe(ingredients, 1, dec("1"), []RecipeLineInput{
		{IngredientID: 99, Quantity: dec("1"), Unit: "kg"},
	})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, uint(99), nf.ID)
}

func TestBuildRecipeEmptyLines(t *testing.T) {
	cost, err := BuildRecipe(stubIngredients{}, 1, dec("2"), nil)
	require.NoError(t, err)
	assertDecimalEqual(t, "0", cost.TotalCost)
	assertDecimalEqual(t, "0", cost.CostPerYield)
}

// ── PriceMenuItem ─────────────────────────────────────────────────────────────

func TestPriceMenuItemFromMarginScenario(t *testing.T) {
	// custo 3.75, margem desejada 60 → sugerido 3.75 / 0.4 = 9.375
	price, err := PriceMenuItem(dec("3.75"), FromMargin(dec("60")))
	require.NoError(t, err)

	assertDecimalEqual(t, "9.375", price.Price)
	assertDecimalEqual(t, "9.375", price.SuggestedPrice)
	assertDecimalEqual(t, "3.75", price.CostPrice)
	assertDecimalEqual(t, "5.625", price.GrossProfit)
	assert.False(t, price.ManualPricing)
	assert.InDelta(t, 60.0, price.ActualMargin.InexactFloat64(), 0.0001)
}

func TestPriceMenuItemMarginRoundTrip(t *testing.T) {
	// a fórmula é invertível: actual_margin ≈ desired_margin
	for _, margin := range []string{"0", "10", "33.3", "50", "75", "99.9"} {
		price, err := PriceMenuItem(dec("7.31"), FromMargin(dec(margin)))
		require.NoError(t, err)

		diff := price.ActualMargin.Sub(dec(margin)).Abs()
		assert.True(t, diff.LessThan(dec("0.0001")), "margem %s: veio %s", margin, price.ActualMargin)
	}
}

func TestPriceMenuItemMarginHundredFails(t *testing.T) {
	_, err := PriceMenuItem(dec("3.75"), FromMargin(dec("100")))
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	_, err = PriceMenuItem(dec("3.75"), FromMargin(dec("150")))
	require.ErrorAs(t, err, &ve)
}

func TestPriceMenuItemNegativeMarginFails(t *testing.T) {
	_, err := PriceMenuItem(dec("3.75"), FromMargin(dec("-5")))
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestPriceMenuItemManual(t *testing.T) {
	price, err := PriceMenuItem(dec("3.75"), ManualPrice(dec("12.90")))
	require.NoError(t, err)

	assertDecimalEqual(t, "12.90", price.Price)
	assertDecimalEqual(t, "3.75", price.CostPrice)
	assertDecimalEqual(t, "9.15", price.GrossProfit)
	assert.True(t, price.ManualPricing)
}

func TestPriceMenuItemZeroPriceMarginIsZero(t *testing.T) {
	// preço zero é estado válido (rascunho); margem definida como 0, não NaN
	price, err := PriceMenuItem(dec("0"), ManualPrice(dec("0")))
	require.NoError(t, err)
	assertDecimalEqual(t, "0", price.ActualMargin)
	assertDecimalEqual(t, "0", price.GrossProfit)
}

func TestPriceMenuItemManualBelowCost(t *testing.T) {
	// vender abaixo do custo é permitido; margem sai negativa
	price, err := PriceMenuItem(dec("10"), ManualPrice(dec("8")))
	require.NoError(t, err)
	assertDecimalEqual(t, "-2", price.GrossProfit)
	assert.True(t, price.ActualMargin.IsNegative())
}

// ── BuildCombo ────────────────────────────────────────────────────────────────

func TestBuildComboScenario(t *testing.T) {
	// itens a 25.90 e 12.90 vendidos juntos por 32.90
	menu := stubMenuItems{1: dec("25.90"), 2: dec("12.90")}

	cost, err := BuildCombo(menu, 1, dec("32.90"), []ComboItemInput{
		{MenuItemID: 1, Quantity: 1},
		{MenuItemID: 2, Quantity: 1},
	})
	require.NoError(t, err)

	assertDecimalEqual(t, "38.80", cost.TotalOriginalPrice)
	assertDecimalEqual(t, "5.90", cost.TotalSavings)
}

func TestBuildComboNegativeSavingsAccepted(t *testing.T) {
	menu := stubMenuItems{1: dec("10.00")}

	cost, err := BuildCombo(menu, 1, dec("15.00"), []ComboItemInput{
		{MenuItemID: 1, Quantity: 1},
	})
	require.NoError(t, err)
	assertDecimalEqual(t, "-5", cost.TotalSavings)
}

func TestBuildComboItemDiscount(t *testing.T) {
	menu := stubMenuItems{1: dec("20.00")}
	discount := dec("25")

	cost, err := BuildCombo(menu, 1, dec("30.00"), []ComboItemInput{
		{MenuItemID: 1, Quantity: 2, Discount: &discount},
	})
	require.NoError(t, err)

	require.Len(t, cost.Items, 1)
	assertDecimalEqual(t, "40", cost.Items[0].OriginalSubtotal)
	assertDecimalEqual(t, "30", cost.Items[0].DiscountedSubtotal)
	assertDecimalEqual(t, "40", cost.TotalOriginalPrice)
}

func TestBuildComboEmptyItemsFails(t *testing.T) {
	_, err := BuildCombo(stubMenuItems{}, 1, dec("10"), nil)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestBuildComboUnknownMenuItemFails(t *testing.T) {
	_, err := BuildCombo(stubMenuItems{}, 1, dec("10"), []ComboItemInput{
		{MenuItemID: 42, Quantity: 1},
	})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestBuildComboQuantityBelowOneFails(t *testing.T) {
	menu := stubMenuItems{1: dec("10")}
	_, err := BuildCombo(menu, 1, dec("10"), []ComboItemInput{
		{MenuItemID: 1, Quantity: 0},
	})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestComboCurrentlyValid(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	before := now.Add(-24 * time.Hour)
	after := now.Add(24 * time.Hour)

	assert.True(t, ComboCurrentlyValid(nil, nil, now))
	assert.True(t, ComboCurrentlyValid(&before, &after, now))
	assert.True(t, ComboCurrentlyValid(&before, nil, now))
	assert.True(t, ComboCurrentlyValid(nil, &after, now))
	// limites inclusivos
	assert.True(t, ComboCurrentlyValid(&now, &now, now))

	assert.False(t, ComboCurrentlyValid(&after, nil, now))
	assert.False(t, ComboCurrentlyValid(nil, &before, now))
}

// ── ComputeCMV ────────────────────────────────────────────────────────────────

func TestComputeCMVScenario(t *testing.T) {
	report := ComputeCMV([]SaleLineInput{
		{ProductID: 1, ProductName: "X-Burger", Quantity: 1, UnitPrice: dec("25.90"), CostPrice: dec("3.75")},
	})

	assertDecimalEqual(t, "25.90", report.Faturamento)
	assertDecimalEqual(t, "3.75", report.CustoTotal)
	assert.InDelta(t, 14.48, report.CMVGeral.InexactFloat64(), 0.01)
}

func TestComputeCMVEmptyInput(t *testing.T) {
	report := ComputeCMV(nil)

	assertDecimalEqual(t, "0", report.CMVGeral)
	assertDecimalEqual(t, "0", report.Faturamento)
	assertDecimalEqual(t, "0", report.CustoTotal)
	assert.Empty(t, report.Products)
}

func TestComputeCMVPerProductAndOrdering(t *testing.T) {
	report := ComputeCMV([]SaleLineInput{
		{ProductID: 1, ProductName: "X-Burger", Quantity: 2, UnitPrice: dec("25.90"), CostPrice: dec("3.75")},
		{ProductID: 2, ProductName: "Suco", Quantity: 5, UnitPrice: dec("8.00"), CostPrice: dec("2.00")},
		{ProductID: 1, ProductName: "X-Burger", Quantity: 1, UnitPrice: dec("25.90"), CostPrice: dec("3.75")},
	})

	require.Len(t, report.Products, 2)
	// mais vendidos primeiro
	assert.Equal(t, "Suco", report.Products[0].ProductName)
	assert.Equal(t, 5, report.Products[0].Vendas)
	assert.Equal(t, "X-Burger", report.Products[1].ProductName)
	assert.Equal(t, 3, report.Products[1].Vendas)

	assert.InDelta(t, 25.0, report.Products[0].CMV.InexactFloat64(), 0.0001)
	assertDecimalEqual(t, "77.70", report.Products[1].Faturamento)
}

func TestComputeCMVZeroRevenueProduct(t *testing.T) {
	// cortesia: custo sem receita; o grupo fica com CMV 0 por definição
	report := ComputeCMV([]SaleLineInput{
		{ProductID: 1, ProductName: "Cortesia", Quantity: 1, UnitPrice: dec("0"), CostPrice: dec("3.00")},
	})

	require.Len(t, report.Products, 1)
	assertDecimalEqual(t, "0", report.Products[0].CMV)
	assertDecimalEqual(t, "0", report.CMVGeral)
	assertDecimalEqual(t, "3.00", report.CustoTotal)
}
