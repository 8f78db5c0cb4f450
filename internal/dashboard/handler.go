package dashboard

import (
	"time"

	"donmenu-backend/internal/auth"
	"donmenu-backend/internal/cmv"
	"donmenu-backend/internal/database"
	"donmenu-backend/internal/logger"
	"donmenu-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type DayRevenue struct {
	Date  string          `json:"date"`
	Total decimal.Decimal `json:"total"`
}

type TopSeller struct {
	ProductName string          `json:"product_name"`
	Vendas      int             `json:"vendas"`
	Faturamento decimal.Decimal `json:"faturamento"`
}

type OverviewResponse struct {
	Month        string          `json:"month"`
	MonthRevenue decimal.Decimal `json:"month_revenue"`
	MonthCost    decimal.Decimal `json:"month_cost"`
	MonthCMV     decimal.Decimal `json:"month_cmv"`
	OpenSales    int64           `json:"open_sales"`
	RevenueChart []DayRevenue    `json:"revenue_chart"`
	TopSellers   []TopSeller     `json:"top_sellers"`
}

// GET /api/dashboard - visão do mês corrente: faturamento por dia das
// vendas pagas, mais vendidos e CMV.
func OverviewHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDForRequest(c, nil)
		if err != nil {
			return err
		}

		now := time.Now()
		from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		to := from.AddDate(0, 1, 0)

		var sales []models.Sale
		if err := database.DB.
			Where("restaurant_id = ? AND status = ? AND date >= ? AND date < ?",
				restaurantID, models.SaleStatusPaid, from, to).
			Find(&sales).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível montar o painel")
		}

		byDay := make(map[string]decimal.Decimal)
		for _, sale := range sales {
			key := sale.Date.Format("2006-01-02")
			byDay[key] = byDay[key].Add(sale.Total)
		}

		chart := make([]DayRevenue, 0)
		for day := from; day.Before(to) && !day.After(now); day = day.AddDate(0, 0, 1) {
			key := day.Format("2006-01-02")
			total, ok := byDay[key]
			if !ok {
				total = decimal.Zero
			}
			chart = append(chart, DayRevenue{Date: key, Total: total})
		}

		report, err := cmv.ReportForPeriod(restaurantID, from, to)
		if err != nil {
			logger.LogError("dashboard", "OverviewHandler", "falha ao montar CMV do mês", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível montar o painel")
		}

		top := make([]TopSeller, 0, 5)
		for i, p := range report.Products {
			if i == 5 {
				break
			}
			top = append(top, TopSeller{
				ProductName: p.ProductName,
				Vendas:      p.Vendas,
				Faturamento: p.Faturamento,
			})
		}

		var openSales int64
		database.DB.Model(&models.Sale{}).
			Where("restaurant_id = ? AND status = ?", restaurantID, models.SaleStatusOpen).
			Count(&openSales)

		return c.JSON(OverviewResponse{
			Month:        from.Format("2006-01"),
			MonthRevenue: report.Faturamento,
			MonthCost:    report.CustoTotal,
			MonthCMV:     report.CMVGeral,
			OpenSales:    openSales,
			RevenueChart: chart,
			TopSellers:   top,
		})
	}
}
