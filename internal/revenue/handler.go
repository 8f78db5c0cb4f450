package revenue

import (
	"strings"
	"time"

	"donmenu-backend/internal/auth"
	"donmenu-backend/internal/database"
	"donmenu-backend/internal/models"
	"donmenu-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type CreateRevenueRequest struct {
	Date         string               `json:"date" validate:"required"` // AAAA-MM-DD
	Method       models.RevenueMethod `json:"method" validate:"required"`
	Amount       decimal.Decimal      `json:"amount" validate:"required"`
	Description  string               `json:"description"`
	RestaurantID *uint                `json:"restaurant_id"` // super_admin
}

type UpdateRevenueRequest struct {
	Date        *string               `json:"date"`
	Method      *models.RevenueMethod `json:"method"`
	Amount      *decimal.Decimal      `json:"amount"`
	Description *string               `json:"description"`
}

type RevenueResponse struct {
	ID          uint                 `json:"id"`
	Date        string               `json:"date"`
	Method      models.RevenueMethod `json:"method"`
	Amount      decimal.Decimal      `json:"amount"`
	Description string               `json:"description,omitempty"`
}

type MonthlySummaryResponse struct {
	Month    string                                 `json:"month"`
	Total    decimal.Decimal                        `json:"total"`
	ByMethod map[models.RevenueMethod]decimal.Decimal `json:"by_method"`
}

func toResponse(r models.Revenue) RevenueResponse {
	return RevenueResponse{
		ID:          r.ID,
		Date:        r.Date.Format("2006-01-02"),
		Method:      r.Method,
		Amount:      r.Amount,
		Description: r.Description,
	}
}

func validMethod(m models.RevenueMethod) bool {
	switch m {
	case models.RevenueMethodCash, models.RevenueMethodCard, models.RevenueMethodPix, models.RevenueMethodIFood:
		return true
	}
	return false
}

// POST /api/revenues
func CreateRevenueHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateRevenueRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados inválidos")
		}
		if err := validation.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if !validMethod(body.Method) {
			return fiber.NewError(fiber.StatusBadRequest, "Meio de pagamento inválido")
		}
		if body.Amount.LessThanOrEqual(decimal.Zero) {
			return fiber.NewError(fiber.StatusBadRequest, "Valor deve ser maior que zero")
		}

		date, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Data inválida, use AAAA-MM-DD")
		}

		restaurantID, err := auth.RestaurantIDForRequest(c, body.RestaurantID)
		if err != nil {
			return err
		}

		rev := models.Revenue{
			RestaurantID: restaurantID,
			Date:         date,
			Method:       body.Method,
			Amount:       body.Amount,
			Description:  strings.TrimSpace(body.Description),
		}
		if err := database.DB.Create(&rev).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível registrar o faturamento")
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(rev))
	}
}

// GET /api/revenues?from=&to=&method=
func ListRevenuesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDForRequest(c, nil)
		if err != nil {
			return err
		}

		query := database.DB.Where("restaurant_id = ?", restaurantID)
		if method := c.Query("method"); method != "" {
			query = query.Where("method = ?", method)
		}
		if from := c.Query("from"); from != "" {
			if t, err := time.Parse("2006-01-02", from); err == nil {
				query = query.Where("date >= ?", t)
			}
		}
		if to := c.Query("to"); to != "" {
			if t, err := time.Parse("2006-01-02", to); err == nil {
				query = query.Where("date < ?", t.AddDate(0, 0, 1))
			}
		}

		var revenues []models.Revenue
		if err := query.Order("date desc, id desc").Limit(500).Find(&revenues).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os faturamentos")
		}

		res := make([]RevenueResponse, 0, len(revenues))
		for _, rev := range revenues {
			res = append(res, toResponse(rev))
		}
		return c.JSON(res)
	}
}

// PUT /api/revenues/:id
func UpdateRevenueHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDForRequest(c, nil)
		if err != nil {
			return err
		}

		var rev models.Revenue
		if err := database.DB.Where("restaurant_id = ?", restaurantID).
			First(&rev, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Faturamento não encontrado")
		}

		var body UpdateRevenueRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados inválidos")
		}

		if body.Date != nil {
			date, err := time.Parse("2006-01-02", *body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Data inválida, use AAAA-MM-DD")
			}
			rev.Date = date
		}
		if body.Method != nil {
			if !validMethod(*body.Method) {
				return fiber.NewError(fiber.StatusBadRequest, "Meio de pagamento inválido")
			}
			rev.Method = *body.Method
		}
		if body.Amount != nil {
			if body.Amount.LessThanOrEqual(decimal.Zero) {
				return fiber.NewError(fiber.StatusBadRequest, "Valor deve ser maior que zero")
			}
			rev.Amount = *body.Amount
		}
		if body.Description != nil {
			rev.Description = strings.TrimSpace(*body.Description)
		}

		if err := database.DB.Save(&rev).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar o faturamento")
		}

		return c.JSON(toResponse(rev))
	}
}

// DELETE /api/revenues/:id
func DeleteRevenueHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDForRequest(c, nil)
		if err != nil {
			return err
		}

		var rev models.Revenue
		if err := database.DB.Where("restaurant_id = ?", restaurantID).
			First(&rev, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Faturamento não encontrado")
		}

		if err := database.DB.Delete(&rev).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir o faturamento")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/revenues/summary?month=AAAA-MM
func MonthlySummaryHandler() fiber.Handler {
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
		to := from.AddDate(0, 1, 0)

		var revenues []models.Revenue
		if err := database.DB.
			Where("restaurant_id = ? AND date >= ? AND date < ?", restaurantID, from, to).
			Find(&revenues).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível montar o resumo")
		}

		summary := MonthlySummaryResponse{
			Month:    month,
			Total:    decimal.Zero,
			ByMethod: make(map[models.RevenueMethod]decimal.Decimal),
		}
		for _, rev := range revenues {
			summary.Total = summary.Total.Add(rev.Amount)
			summary.ByMethod[rev.Method] = summary.ByMethod[rev.Method].Add(rev.Amount)
		}

		return c.JSON(summary)
	}
}

// TotalForPeriod soma o faturamento lançado em [from, to). Usado pelo
// fechamento mensal e pelo dashboard.
func TotalForPeriod(restaurantID uint, from, to time.Time) (decimal.Decimal, error) {
	var revenues []models.Revenue
	if err := database.DB.
		Where("restaurant_id = ? AND date >= ? AND date < ?", restaurantID, from, to).
		Find(&revenues).Error; err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, rev := range revenues {
		total = total.Add(rev.Amount)
	}
	return total, nil
}
