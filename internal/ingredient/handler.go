package ingredient

import (
	"strings"

	"donmenu-backend/internal/audit"
	"donmenu-backend/internal/auth"
	"donmenu-backend/internal/database"
	"donmenu-backend/internal/logger"
	"donmenu-backend/internal/models"
	"donmenu-backend/internal/recipe"
	"donmenu-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type IngredientResponse struct {
	ID            uint            `json:"id"`
	RestaurantID  uint            `json:"restaurant_id"`
	Name          string          `json:"name"`
	Unit          string          `json:"unit"`
	CostPerUnit   decimal.Decimal `json:"cost_per_unit"`
	StockQuantity decimal.Decimal `json:"stock_quantity"`
	MinStock      decimal.Decimal `json:"min_stock"`
}

type CreateIngredientRequest struct {
	Name         string           `json:"name" validate:"required"`
	Unit         string           `json:"unit" validate:"required"`
	CostPerUnit  decimal.Decimal  `json:"cost_per_unit"`
	MinStock     *decimal.Decimal `json:"min_stock"`
	RestaurantID *uint            `json:"restaurant_id"` // super_admin
}

type UpdateIngredientRequest struct {
	Name        *string          `json:"name"`
	Unit        *string          `json:"unit"`
	CostPerUnit *decimal.Decimal `json:"cost_per_unit"`
	MinStock    *decimal.Decimal `json:"min_stock"`
}

func toResponse(i models.Ingredient) IngredientResponse {
	return IngredientResponse{
		ID:            i.ID,
		RestaurantID:  i.RestaurantID,
		Name:          i.Name,
		Unit:          i.Unit,
		CostPerUnit:   i.CostPerUnit,
		StockQuantity: i.StockQuantity,
		MinStock:      i.MinStock,
	}
}

// GET /api/ingredients?search=farinha
func ListIngredientsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDForRequest(c, nil)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.Ingredient{}).Where("restaurant_id = ?", restaurantID)
		if search := strings.TrimSpace(c.Query("search")); search != "" {
			dbq = dbq.Where("name ILIKE ?", "%"+search+"%")
		}

		var ingredients []models.Ingredient
		if err := dbq.Order("name asc").Find(&ingredients).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os insumos")
		}

		res := make([]IngredientResponse, 0, len(ingredients))
		for _, i := range ingredients {
			res = append(res, toResponse(i))
		}
		return c.JSON(res)
	}
}

// POST /api/ingredients
func CreateIngredientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateIngredientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados inválidos")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.Unit = strings.TrimSpace(body.Unit)
		if err := validation.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if body.CostPerUnit.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "Custo unitário não pode ser negativo")
		}

		restaurantID, err := auth.RestaurantIDForRequest(c, body.RestaurantID)
		if err != nil {
			return err
		}

		ing := models.Ingredient{
			RestaurantID: restaurantID,
			Name:         body.Name,
			Unit:         body.Unit,
			CostPerUnit:  body.CostPerUnit,
		}
		if body.MinStock != nil {
			ing.MinStock = *body.MinStock
		}

		if err := database.DB.Create(&ing).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar o insumo")
		}

		writeAudit(c, ing, models.AuditActionCreate, nil)

		return c.Status(fiber.StatusCreated).JSON(toResponse(ing))
	}
}

// PUT /api/ingredients/:id
func UpdateIngredientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDForRequest(c, nil)
		if err != nil {
			return err
		}

		id := c.Params("id")

		var ing models.Ingredient
		if err := database.DB.Where("restaurant_id = ?", restaurantID).First(&ing, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Insumo não encontrado")
		}

		before := toResponse(ing)

		var body UpdateIngredientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados inválidos")
		}

		costChanged := false
		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Nome não pode ser vazio")
			}
			ing.Name = name
		}
		if body.Unit != nil {
			unit := strings.TrimSpace(*body.Unit)
			if unit == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Unidade não pode ser vazia")
			}
			ing.Unit = unit
		}
		if body.CostPerUnit != nil {
			if body.CostPerUnit.IsNegative() {
				return fiber.NewError(fiber.StatusBadRequest, "Custo unitário não pode ser negativo")
			}
			costChanged = !ing.CostPerUnit.Equal(*body.CostPerUnit)
			ing.CostPerUnit = *body.CostPerUnit
		}
		if body.MinStock != nil {
			ing.MinStock = *body.MinStock
		}

		if err := database.DB.Save(&ing).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar o insumo")
		}

		// Custo mudou: fichas técnicas e itens derivados precisam de recálculo
		if costChanged {
			if err := recipe.RecomputeByIngredient(restaurantID, ing.ID); err != nil {
				logger.LogError("ingredient", "UpdateIngredientHandler", "recálculo em cascata falhou", err)
			}
		}

		writeAudit(c, ing, models.AuditActionUpdate, before)

		return c.JSON(toResponse(ing))
	}
}

// DELETE /api/ingredients/:id
func DeleteIngredientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDForRequest(c, nil)
		if err != nil {
			return err
		}

		id := c.Params("id")

		var ing models.Ingredient
		if err := database.DB.Where("restaurant_id = ?", restaurantID).First(&ing, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Insumo não encontrado")
		}

		var lineCount int64
		database.DB.Model(&models.RecipeLine{}).Where("ingredient_id = ?", ing.ID).Count(&lineCount)
		if lineCount > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Insumo usado em fichas técnicas; remova as linhas antes")
		}

		if err := database.DB.Delete(&ing).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir o insumo")
		}

		writeAudit(c, ing, models.AuditActionDelete, toResponse(ing))

		return c.SendStatus(fiber.StatusNoContent)
	}
}

func writeAudit(c *fiber.Ctx, ing models.Ingredient, action models.AuditAction, before any) {
	userID, userName, err := auth.UserInfo(c)
	if err != nil {
		return
	}

	var after any
	if action != models.AuditActionDelete {
		after = toResponse(ing)
	}

	if logErr := audit.WriteLog(audit.LogOptions{
		RestaurantID: &ing.RestaurantID,
		UserID:       userID,
		UserName:     userName,
		EntityType:   "ingredient",
		EntityID:     ing.ID,
		Action:       action,
		Description:  "Insumo: " + ing.Name,
		Before:       before,
		After:        after,
	}); logErr != nil {
		logger.LogError("ingredient", "writeAudit", "falha ao gravar auditoria", logErr)
	}
}
