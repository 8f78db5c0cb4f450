package expense

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

type CategoryResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type CreateCategoryRequest struct {
	Name         string `json:"name"`
	RestaurantID *uint  `json:"restaurant_id"` // super_admin
}

type CreateExpenseRequest struct {
	CategoryID   uint            `json:"category_id" validate:"required"`
	Date         string          `json:"date" validate:"required"` // AAAA-MM-DD
	Amount       decimal.Decimal `json:"amount" validate:"required"`
	Description  string          `json:"description"`
	RestaurantID *uint           `json:"restaurant_id"` // super_admin
}

type UpdateExpenseRequest struct {
	CategoryID  *uint            `json:"category_id"`
	Date        *string          `json:"date"`
	Amount      *decimal.Decimal `json:"amount"`
	Description *string          `json:"description"`
}

type ExpenseResponse struct {
	ID           uint            `json:"id"`
	CategoryID   uint            `json:"category_id"`
	CategoryName string          `json:"category_name,omitempty"`
	Date         string          `json:"date"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description,omitempty"`
}

type MonthlySummaryResponse struct {
	Month      string                     `json:"month"`
	Total      decimal.Decimal            `json:"total"`
	ByCategory map[string]decimal.Decimal `json:"by_category"`
}

func toResponse(e models.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:           e.ID,
		CategoryID:   e.CategoryID,
		CategoryName: e.Category.Name,
		Date:         e.Date.Format("2006-01-02"),
		Amount:       e.Amount,
		Description:  e.Description,
	}
}

// GET /api/expense-categories
func ListCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDForRequest(c, nil)
		if err != nil {
			return err
		}

		var categories []models.ExpenseCategory
		if err := database.DB.Where("restaurant_id = ?", restaurantID).
			Order("name asc").Find(&categories).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar as categorias")
		}

		res := make([]CategoryResponse, 0, len(categories))
		for _, cat := range categories {
			res = append(res, CategoryResponse{ID: cat.ID, Name: cat.Name})
		}
		return c.JSON(res)
	}
}

// POST /api/expense-categories
func CreateCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados inválidos")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nome é obrigatório")
		}

		restaurantID, err := auth.RestaurantIDForRequest(c, body.RestaurantID)
		if err != nil {
			return err
		}

		cat := models.ExpenseCategory{RestaurantID: restaurantID, Name: body.Name}
		if err := database.DB.Create(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar a categoria")
		}

		return c.Status(fiber.StatusCreated).JSON(CategoryResponse{ID: cat.ID, Name: cat.Name})
	}
}

// DELETE /api/expense-categories/:id - bloqueado enquanto houver despesas
func DeleteCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDForRequest(c, nil)
		if err != nil {
			return err
		}

		var cat models.ExpenseCategory
		if err := database.DB.Where("restaurant_id = ?", restaurantID).
			First(&cat, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Categoria não encontrada")
		}

		var count int64
		database.DB.Model(&models.Expense{}).Where("category_id = ?", cat.ID).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Categoria possui despesas lançadas")
		}

		if err := database.DB.Delete(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir a categoria")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/expenses
func CreateExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateExpenseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados inválidos")
		}
		if err := validation.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
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

		var cat models.ExpenseCategory
		if err := database.DB.Where("restaurant_id = ?", restaurantID).
			First(&cat, "id = ?", body.CategoryID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Categoria não encontrada")
		}

		exp := models.Expense{
			RestaurantID: restaurantID,
			CategoryID:   cat.ID,
			Category:     cat,
			Date:         date,
			Amount:       body.Amount,
			Description:  strings.TrimSpace(body.Description),
		}
		if err := database.DB.Create(&exp).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível registrar a despesa")
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(exp))
	}
}

// GET /api/expenses?from=&to=&category_id=
func ListExpensesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDForRequest(c, nil)
		if err != nil {
			return err
		}

		query := database.DB.Preload("Category").Where("restaurant_id = ?", restaurantID)
		if categoryID := c.Query("category_id"); categoryID != "" {
			query = query.Where("category_id = ?", categoryID)
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

		var expenses []models.Expense
		if err := query.Order("date desc, id desc").Limit(500).Find(&expenses).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar as despesas")
		}

		res := make([]ExpenseResponse, 0, len(expenses))
		for _, exp := range expenses {
			res = append(res, toResponse(exp))
		}
		return c.JSON(res)
	}
}

// PUT /api/expenses/:id
func UpdateExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDForRequest(c, nil)
		if err != nil {
			return err
		}

		var exp models.Expense
		if err := database.DB.Preload("Category").Where("restaurant_id = ?", restaurantID).
			First(&exp, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Despesa não encontrada")
		}

		var body UpdateExpenseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados inválidos")
		}

		if body.CategoryID != nil {
			var cat models.ExpenseCategory
			if err := database.DB.Where("restaurant_id = ?", restaurantID).
				First(&cat, "id = ?", *body.CategoryID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Categoria não encontrada")
			}
			exp.CategoryID = cat.ID
			exp.Category = cat
		}
		if body.Date != nil {
			date, err := time.Parse("2006-01-02", *body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Data inválida, use AAAA-MM-DD")
			}
			exp.Date = date
		}
		if body.Amount != nil {
			if body.Amount.LessThanOrEqual(decimal.Zero) {
				return fiber.NewError(fiber.StatusBadRequest, "Valor deve ser maior que zero")
			}
			exp.Amount = *body.Amount
		}
		if body.Description != nil {
			exp.Description = strings.TrimSpace(*body.Description)
		}

		if err := database.DB.Save(&exp).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar a despesa")
		}

		return c.JSON(toResponse(exp))
	}
}

// DELETE /api/expenses/:id
func DeleteExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDForRequest(c, nil)
		if err != nil {
			return err
		}

		var exp models.Expense
		if err := database.DB.Where("restaurant_id = ?", restaurantID).
			First(&exp, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Despesa não encontrada")
		}

		if err := database.DB.Delete(&exp).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir a despesa")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/expenses/summary?month=AAAA-MM
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

		var expenses []models.Expense
		if err := database.DB.Preload("Category").
			Where("restaurant_id = ? AND date >= ? AND date < ?", restaurantID, from, to).
			Find(&expenses).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível montar o resumo")
		}

		summary := MonthlySummaryResponse{
			Month:      month,
			Total:      decimal.Zero,
			ByCategory: make(map[string]decimal.Decimal),
		}
		for _, exp := range expenses {
			summary.Total = summary.Total.Add(exp.Amount)
			summary.ByCategory[exp.Category.Name] = summary.ByCategory[exp.Category.Name].Add(exp.Amount)
		}

		return c.JSON(summary)
	}
}

// TotalForPeriod soma as despesas lançadas em [from, to).
func TotalForPeriod(restaurantID uint, from, to time.Time) (decimal.Decimal, error) {
	var expenses []models.Expense
	if err := database.DB.
		Where("restaurant_id = ? AND date >= ? AND date < ?", restaurantID, from, to).
		Find(&expenses).Error; err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, exp := range expenses {
		total = total.Add(exp.Amount)
	}
	return total, nil
}
