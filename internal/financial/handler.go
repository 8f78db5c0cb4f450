package financial

import (
	"strings"
	"time"

	"donmenu-backend/internal/auth"
	"donmenu-backend/internal/cmv"
	"donmenu-backend/internal/database"
	"donmenu-backend/internal/expense"
	"donmenu-backend/internal/logger"
	"donmenu-backend/internal/models"
	"donmenu-backend/internal/revenue"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type SummaryResponse struct {
	Month         string          `json:"month"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	CMV           decimal.Decimal `json:"cmv"`
	NetProfit     decimal.Decimal `json:"net_profit"`
}

type CloseMonthRequest struct {
	Month        string `json:"month"` // AAAA-MM, default mês anterior
	Note         string `json:"note"`
	RestaurantID *uint  `json:"restaurant_id"` // super_admin
}

type MonthlyReportResponse struct {
	ID            uint            `json:"id"`
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	CMV           decimal.Decimal `json:"cmv"`
	NetProfit     decimal.Decimal `json:"net_profit"`
	Note          string          `json:"note,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

func toReportResponse(r models.MonthlyReport) MonthlyReportResponse {
	return MonthlyReportResponse{
		ID:            r.ID,
		Year:          r.Year,
		Month:         r.Month,
		TotalRevenue:  r.TotalRevenue,
		TotalExpenses: r.TotalExpenses,
		TotalCost:     r.TotalCost,
		CMV:           r.CMV,
		NetProfit:     r.NetProfit,
		Note:          r.Note,
		CreatedAt:     r.CreatedAt,
	}
}

// summarize consolida o mês: faturamento lançado, despesas, custo de
// mercadoria das vendas pagas e lucro líquido.
func summarize(restaurantID uint, from time.Time) (*SummaryResponse, error) {
	to := from.AddDate(0, 1, 0)

	totalRevenue, err := revenue.TotalForPeriod(restaurantID, from, to)
	if err != nil {
		return nil, err
	}
	totalExpenses, err := expense.TotalForPeriod(restaurantID, from, to)
	if err != nil {
		return nil, err
	}
	report, err := cmv.ReportForPeriod(restaurantID, from, to)
	if err != nil {
		return nil, err
	}

	return &SummaryResponse{
		Month:         from.Format("2006-01"),
		TotalRevenue:  totalRevenue,
		TotalExpenses: totalExpenses,
		TotalCost:     report.CustoTotal,
		CMV:           report.CMVGeral,
		NetProfit:     totalRevenue.Sub(totalExpenses).Sub(report.CustoTotal),
	}, nil
}

// GET /api/financial/summary?month=AAAA-MM
func SummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDForRequest(c, nil)
		if err != nil {
			return err
		}

		month := c.Query("month", time.Now().Format("2006-01"))
		from, err := time.Parse("2006-01", month)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Mês inválido, use AAAA-MM")
		}

		summary, err := summarize(restaurantID, from)
		if err != nil {
			logger.LogError("financial", "SummaryHandler", "falha ao consolidar o mês", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível montar o resumo financeiro")
		}

		return c.JSON(summary)
	}
}

// POST /api/financial/close - grava a fotografia do mês; um fechamento por
// mês por restaurante.
func CloseMonthHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CloseMonthRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados inválidos")
		}

		restaurantID, err := auth.RestaurantIDForRequest(c, body.RestaurantID)
		if err != nil {
			return err
		}

		month := body.Month
		if month == "" {
			month = time.Now().AddDate(0, -1, 0).Format("2006-01")
		}
		from, err := time.Parse("2006-01", month)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Mês inválido, use AAAA-MM")
		}

		var count int64
		database.DB.Model(&models.MonthlyReport{}).
			Where("restaurant_id = ? AND year = ? AND month = ?", restaurantID, from.Year(), int(from.Month())).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Mês já foi fechado")
		}

		summary, err := summarize(restaurantID, from)
		if err != nil {
			logger.LogError("financial", "CloseMonthHandler", "falha ao consolidar o mês", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível fechar o mês")
		}

		report := models.MonthlyReport{
			RestaurantID:  restaurantID,
			Year:          from.Year(),
			Month:         int(from.Month()),
			TotalRevenue:  summary.TotalRevenue,
			TotalExpenses: summary.TotalExpenses,
			TotalCost:     summary.TotalCost,
			CMV:           summary.CMV,
			NetProfit:     summary.NetProfit,
			Note:          strings.TrimSpace(body.Note),
		}
		if err := database.DB.Create(&report).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível fechar o mês")
		}

		return c.Status(fiber.StatusCreated).JSON(toReportResponse(report))
	}
}

// GET /api/financial/reports
func ListReportsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDForRequest(c, nil)
		if err != nil {
			return err
		}

		var reports []models.MonthlyReport
		if err := database.DB.Where("restaurant_id = ?", restaurantID).
			Order("year desc, month desc").Find(&reports).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os fechamentos")
		}

		res := make([]MonthlyReportResponse, 0, len(reports))
		for _, report := range reports {
			res = append(res, toReportResponse(report))
		}
		return c.JSON(res)
	}
}
