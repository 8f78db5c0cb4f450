package cmv

import (
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
	app.Get("/cmv/summary", SummaryHandler())
	app.Get("/cmv/export", ExportHandler())
	return app
}

func seedSale(t *testing.T, restaurantID uint, status models.SaleStatus, date time.Time, lines []models.SaleLine) {
	t.Helper()
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	sale := models.Sale{
		RestaurantID: restaurantID,
		Date:         date,
		Status:       status,
		Channel:      models.SaleChannelCounter,
		Total:        total,
		Lines:        lines,
	}
	require.NoError(t, database.DB.Create(&sale).Error)
}

func getSummary(t *testing.T, app *fiber.App, path string) SummaryResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var summary SummaryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	return summary
}

func TestSummaryAggregatesPaidSales(t *testing.T) {
	setupTestDB(t)

	r := models.Restaurant{Name: "Bar do Zé"}
	require.NoError(t, database.DB.Create(&r).Error)
	app := testApp(r.ID)

	itemID := uint(10)
	date := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	// 50 unidades a 9.375 com custo 3.75: faturamento 468.75, custo 187.50
	seedSale(t, r.ID, models.SaleStatusPaid, date, []models.SaleLine{{
		MenuItemID:  &itemID,
		ProductName: "Prato do dia",
		Quantity:    50,
		UnitPrice:   decimal.RequireFromString("9.375"),
		CostPrice:   decimal.RequireFromString("3.75"),
	}})

	// Venda aberta fica fora do relatório
	seedSale(t, r.ID, models.SaleStatusOpen, date, []models.SaleLine{{
		MenuItemID:  &itemID,
		ProductName: "Prato do dia",
		Quantity:    99,
		UnitPrice:   decimal.RequireFromString("9.375"),
		CostPrice:   decimal.RequireFromString("3.75"),
	}})

	summary := getSummary(t, app, "/cmv/summary?from=2026-03-01&to=2026-03-31")

	assert.True(t, summary.Faturamento.Equal(decimal.RequireFromString("468.75")), "faturamento = %s", summary.Faturamento)
	assert.True(t, summary.CustoTotal.Equal(decimal.RequireFromString("187.5")), "custo = %s", summary.CustoTotal)
	assert.True(t, summary.CMVGeral.Equal(decimal.NewFromInt(40)), "cmv = %s", summary.CMVGeral)
	require.Len(t, summary.Products, 1)
	assert.Equal(t, "Prato do dia", summary.Products[0].ProductName)
	assert.Equal(t, 50, summary.Products[0].Vendas)
}

func TestSummaryEmptyPeriodIsAllZero(t *testing.T) {
	setupTestDB(t)

	r := models.Restaurant{Name: "Recém aberto"}
	require.NoError(t, database.DB.Create(&r).Error)
	app := testApp(r.ID)

	summary := getSummary(t, app, "/cmv/summary?from=2026-01-01&to=2026-01-31")

	assert.True(t, summary.Faturamento.IsZero())
	assert.True(t, summary.CustoTotal.IsZero())
	assert.True(t, summary.CMVGeral.IsZero())
	assert.Empty(t, summary.Products)
}

func TestSummarySeparatesCombosFromItems(t *testing.T) {
	setupTestDB(t)

	r := models.Restaurant{Name: "Combo House"}
	require.NoError(t, database.DB.Create(&r).Error)
	app := testApp(r.ID)

	sameID := uint(7)
	date := time.Date(2026, 3, 5, 19, 0, 0, 0, time.UTC)
	seedSale(t, r.ID, models.SaleStatusPaid, date, []models.SaleLine{
		{
			MenuItemID:  &sameID,
			ProductName: "X-Burger",
			Quantity:    3,
			UnitPrice:   decimal.RequireFromString("18.00"),
			CostPrice:   decimal.RequireFromString("6.00"),
		},
		{
			ComboID:     &sameID,
			ProductName: "Combo Casal",
			Quantity:    2,
			UnitPrice:   decimal.RequireFromString("49.90"),
			CostPrice:   decimal.RequireFromString("20.00"),
		},
	})

	summary := getSummary(t, app, "/cmv/summary?from=2026-03-01&to=2026-03-31")

	// IDs iguais em tabelas diferentes não podem virar um único produto
	require.Len(t, summary.Products, 2)
	names := []string{summary.Products[0].ProductName, summary.Products[1].ProductName}
	assert.Contains(t, names, "X-Burger")
	assert.Contains(t, names, "Combo Casal")
}

func TestSummaryInvalidPeriod(t *testing.T) {
	setupTestDB(t)

	r := models.Restaurant{Name: "Qualquer"}
	require.NoError(t, database.DB.Create(&r).Error)
	app := testApp(r.ID)

	req := httptest.NewRequest(http.MethodGet, "/cmv/summary?from=2026-03-31&to=2026-03-01", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestExportReturnsSpreadsheet(t *testing.T) {
	setupTestDB(t)

	r := models.Restaurant{Name: "Planilha"}
	require.NoError(t, database.DB.Create(&r).Error)
	app := testApp(r.ID)

	itemID := uint(3)
	seedSale(t, r.ID, models.SaleStatusPaid, time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC), []models.SaleLine{{
		MenuItemID:  &itemID,
		ProductName: "Feijoada",
		Quantity:    10,
		UnitPrice:   decimal.RequireFromString("32.00"),
		CostPrice:   decimal.RequireFromString("11.00"),
	}})

	req := httptest.NewRequest(http.MethodGet, "/cmv/export?from=2026-03-01&to=2026-03-31", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "cmv_2026-03-01_2026-03-31.xlsx")
}
