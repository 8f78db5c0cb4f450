package menu

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"donmenu-backend/internal/auth"
	"donmenu-backend/internal/database"
	"donmenu-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db
}

// testApp monta as rotas de cardápio com um middleware que injeta as claims
// de um restaurant_admin, sem passar por JWT.
func testApp(restaurantID uint) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		rid := restaurantID
		c.Locals(auth.CtxUserIDKey, uint(1))
		c.Locals(auth.CtxUserRoleKey, models.RoleRestaurantAdmin)
		c.Locals(auth.CtxRestaurantIDKey, &rid)
		return c.Next()
	})
	app.Post("/menu-items", CreateMenuItemHandler())
	app.Get("/menu-items/:id", GetMenuItemHandler())
	app.Put("/menu-items/:id", UpdateMenuItemHandler())
	app.Post("/menu-items/:id/reprice", RepriceMenuItemHandler())
	return app
}

func seedRestaurant(t *testing.T) models.Restaurant {
	t.Helper()
	r := models.Restaurant{Name: "Cantina da Nona"}
	require.NoError(t, database.DB.Create(&r).Error)
	u := models.User{Name: "Dona Maria", Email: "maria@cantina.com", PasswordHash: "x", Role: models.RoleRestaurantAdmin, RestaurantID: &r.ID}
	require.NoError(t, database.DB.Create(&u).Error)
	return r
}

func seedRecipe(t *testing.T, restaurantID uint, costPerYield string) models.Recipe {
	t.Helper()
	r := models.Recipe{
		RestaurantID:  restaurantID,
		Name:          "Molho base",
		YieldQuantity: decimal.NewFromInt(1),
		TotalCost:     decimal.RequireFromString(costPerYield),
		CostPerYield:  decimal.RequireFromString(costPerYield),
	}
	require.NoError(t, database.DB.Create(&r).Error)
	return r
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeItem(t *testing.T, resp *http.Response) MenuItemResponse {
	t.Helper()
	var item MenuItemResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&item))
	return item
}

func TestCreateMenuItemManualPrice(t *testing.T) {
	setupTestDB(t)
	r := seedRestaurant(t)
	app := testApp(r.ID)

	price := decimal.RequireFromString("25.90")
	resp := doJSON(t, app, fiber.MethodPost, "/menu-items", fiber.Map{
		"name":         "Pizza Margherita",
		"manual_price": price,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	item := decodeItem(t, resp)
	assert.True(t, item.ManualPricing)
	assert.True(t, item.Price.Equal(price))
	assert.True(t, item.SuggestedPrice.Equal(price))
	assert.True(t, item.CostPrice.IsZero())
}

func TestCreateMenuItemFromMargin(t *testing.T) {
	setupTestDB(t)
	r := seedRestaurant(t)
	recipe := seedRecipe(t, r.ID, "3.75")
	app := testApp(r.ID)

	resp := doJSON(t, app, fiber.MethodPost, "/menu-items", fiber.Map{
		"name":           "Prato do dia",
		"recipe_id":      recipe.ID,
		"desired_margin": 60,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	item := decodeItem(t, resp)
	assert.False(t, item.ManualPricing)
	// 3.75 / (1 - 0.60) = 9.375
	assert.True(t, item.Price.Equal(decimal.RequireFromString("9.375")), "price = %s", item.Price)
	assert.True(t, item.CostPrice.Equal(decimal.RequireFromString("3.75")))
	assert.True(t, item.ActualMargin.Equal(decimal.NewFromInt(60)), "actual margin = %s", item.ActualMargin)
}

func TestCreateMenuItemWithoutPriceSource(t *testing.T) {
	setupTestDB(t)
	r := seedRestaurant(t)
	app := testApp(r.ID)

	resp := doJSON(t, app, fiber.MethodPost, "/menu-items", fiber.Map{
		"name": "Item sem preço",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCreateMenuItemMarginOutOfRange(t *testing.T) {
	setupTestDB(t)
	r := seedRestaurant(t)
	recipe := seedRecipe(t, r.ID, "5.00")
	app := testApp(r.ID)

	resp := doJSON(t, app, fiber.MethodPost, "/menu-items", fiber.Map{
		"name":           "Margem impossível",
		"recipe_id":      recipe.ID,
		"desired_margin": 100,
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUpdateMarginPricingRequiresRecipe(t *testing.T) {
	setupTestDB(t)
	r := seedRestaurant(t)
	app := testApp(r.ID)

	resp := doJSON(t, app, fiber.MethodPost, "/menu-items", fiber.Map{
		"name":         "Suco",
		"manual_price": "8.00",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	item := decodeItem(t, resp)

	resp = doJSON(t, app, fiber.MethodPut, fmt.Sprintf("/menu-items/%d", item.ID), fiber.Map{
		"desired_margin": 50,
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRepriceReturnsToMarginPrice(t *testing.T) {
	setupTestDB(t)
	r := seedRestaurant(t)
	recipe := seedRecipe(t, r.ID, "4.00")
	app := testApp(r.ID)

	resp := doJSON(t, app, fiber.MethodPost, "/menu-items", fiber.Map{
		"name":           "Lasanha",
		"recipe_id":      recipe.ID,
		"desired_margin": 50,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	item := decodeItem(t, resp)
	require.True(t, item.Price.Equal(decimal.NewFromInt(8)), "price = %s", item.Price)

	// Dono força um preço manual
	resp = doJSON(t, app, fiber.MethodPut, fmt.Sprintf("/menu-items/%d", item.ID), fiber.Map{
		"manual_price": "10.00",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	item = decodeItem(t, resp)
	require.True(t, item.ManualPricing)
	require.True(t, item.Price.Equal(decimal.NewFromInt(10)))

	// Reprecificar volta ao preço derivado da margem
	resp = doJSON(t, app, fiber.MethodPost, fmt.Sprintf("/menu-items/%d/reprice", item.ID), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	item = decodeItem(t, resp)
	assert.False(t, item.ManualPricing)
	assert.True(t, item.Price.Equal(decimal.NewFromInt(8)), "price = %s", item.Price)
}

func TestRepriceByRecipeKeepsManualPrice(t *testing.T) {
	setupTestDB(t)
	r := seedRestaurant(t)
	recipe := seedRecipe(t, r.ID, "4.00")
	app := testApp(r.ID)

	respMargin := doJSON(t, app, fiber.MethodPost, "/menu-items", fiber.Map{
		"name":           "Por margem",
		"recipe_id":      recipe.ID,
		"desired_margin": 50,
	})
	require.Equal(t, fiber.StatusCreated, respMargin.StatusCode)
	marginItem := decodeItem(t, respMargin)

	respManual := doJSON(t, app, fiber.MethodPost, "/menu-items", fiber.Map{
		"name":         "Manual",
		"recipe_id":    recipe.ID,
		"manual_price": "12.00",
	})
	require.Equal(t, fiber.StatusCreated, respManual.StatusCode)
	manualItem := decodeItem(t, respManual)

	// Custo da ficha sobe de 4.00 para 5.00
	require.NoError(t, database.DB.Model(&models.Recipe{}).Where("id = ?", recipe.ID).
		Updates(map[string]any{
			"total_cost":     decimal.NewFromInt(5),
			"cost_per_yield": decimal.NewFromInt(5),
		}).Error)
	require.NoError(t, RepriceByRecipe(r.ID, recipe.ID))

	resp := doJSON(t, app, fiber.MethodGet, fmt.Sprintf("/menu-items/%d", marginItem.ID), nil)
	got := decodeItem(t, resp)
	assert.True(t, got.Price.Equal(decimal.NewFromInt(10)), "margem segue o custo, price = %s", got.Price)

	resp = doJSON(t, app, fiber.MethodGet, fmt.Sprintf("/menu-items/%d", manualItem.ID), nil)
	got = decodeItem(t, resp)
	assert.True(t, got.Price.Equal(decimal.NewFromInt(12)), "preço manual não muda, price = %s", got.Price)
	assert.True(t, got.CostPrice.Equal(decimal.NewFromInt(5)), "custo acompanha a ficha")
}
