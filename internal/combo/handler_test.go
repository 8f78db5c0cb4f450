package combo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

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

func testApp(restaurantID uint) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		rid := restaurantID
		c.Locals(auth.CtxUserIDKey, uint(1))
		c.Locals(auth.CtxUserRoleKey, models.RoleRestaurantAdmin)
		c.Locals(auth.CtxRestaurantIDKey, &rid)
		return c.Next()
	})
	app.Post("/combos", CreateComboHandler())
	app.Get("/combos", ListCombosHandler())
	app.Get("/combos/:id", GetComboHandler())
	return app
}

func seedMenuItem(t *testing.T, restaurantID uint, name, price string) models.MenuItem {
	t.Helper()
	item := models.MenuItem{
		RestaurantID:  restaurantID,
		Name:          name,
		Price:         decimal.RequireFromString(price),
		ManualPricing: true,
		Active:        true,
	}
	require.NoError(t, database.DB.Create(&item).Error)
	return item
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

func TestCreateComboComputesTotals(t *testing.T) {
	setupTestDB(t)
	r := models.Restaurant{Name: "Lanchonete"}
	require.NoError(t, database.DB.Create(&r).Error)
	app := testApp(r.ID)

	burger := seedMenuItem(t, r.ID, "X-Salada", "15.90")
	fries := seedMenuItem(t, r.ID, "Batata", "7.00")

	resp := doJSON(t, app, fiber.MethodPost, "/combos", fiber.Map{
		"name":  "Combo Lanche",
		"price": "32.90",
		"items": []fiber.Map{
			{"menu_item_id": burger.ID, "quantity": 2},
			{"menu_item_id": fries.ID, "quantity": 1},
		},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var cb ComboResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cb))

	// 2*15.90 + 7.00 = 38.80; economia 38.80 - 32.90 = 5.90
	assert.True(t, cb.TotalOriginalPrice.Equal(decimal.RequireFromString("38.80")), "original = %s", cb.TotalOriginalPrice)
	assert.True(t, cb.TotalSavings.Equal(decimal.RequireFromString("5.90")), "savings = %s", cb.TotalSavings)
}

func TestCreateComboAcceptsNegativeSavings(t *testing.T) {
	setupTestDB(t)
	r := models.Restaurant{Name: "Caro"}
	require.NoError(t, database.DB.Create(&r).Error)
	app := testApp(r.ID)

	item := seedMenuItem(t, r.ID, "Espetinho", "10.00")

	resp := doJSON(t, app, fiber.MethodPost, "/combos", fiber.Map{
		"name":  "Combo às avessas",
		"price": "12.00",
		"items": []fiber.Map{{"menu_item_id": item.ID, "quantity": 1}},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var cb ComboResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cb))
	assert.True(t, cb.TotalSavings.Equal(decimal.NewFromInt(-2)), "savings = %s", cb.TotalSavings)
}

func TestCreateComboUnknownItemFails(t *testing.T) {
	setupTestDB(t)
	r := models.Restaurant{Name: "Vazio"}
	require.NoError(t, database.DB.Create(&r).Error)
	app := testApp(r.ID)

	resp := doJSON(t, app, fiber.MethodPost, "/combos", fiber.Map{
		"name":  "Combo fantasma",
		"price": "10.00",
		"items": []fiber.Map{{"menu_item_id": 999, "quantity": 1}},
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestListCombosOnlyValidFilter(t *testing.T) {
	setupTestDB(t)
	r := models.Restaurant{Name: "Sazonal"}
	require.NoError(t, database.DB.Create(&r).Error)
	app := testApp(r.ID)

	item := seedMenuItem(t, r.ID, "Caldo", "9.00")

	past := time.Now().AddDate(0, 0, -10)
	yesterday := time.Now().AddDate(0, 0, -1)

	for _, c := range []fiber.Map{
		{
			"name":  "Combo vigente",
			"price": "8.00",
			"items": []fiber.Map{{"menu_item_id": item.ID, "quantity": 1}},
		},
		{
			"name":       "Combo expirado",
			"price":      "8.00",
			"valid_from": past,
			"valid_to":   yesterday,
			"items":      []fiber.Map{{"menu_item_id": item.ID, "quantity": 1}},
		},
	} {
		resp := doJSON(t, app, fiber.MethodPost, "/combos", c)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	resp := doJSON(t, app, fiber.MethodGet, "/combos", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var all []ComboResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&all))
	require.Len(t, all, 2)

	resp = doJSON(t, app, fiber.MethodGet, "/combos?only_valid=true", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var valid []ComboResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&valid))
	require.Len(t, valid, 1)
	assert.Equal(t, "Combo vigente", valid[0].Name)
	assert.True(t, valid[0].CurrentlyValid)
}
