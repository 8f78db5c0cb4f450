package recipe

import (
	"strings"

	"donmenu-backend/internal/audit"
	"donmenu-backend/internal/auth"
	"donmenu-backend/internal/costing"
	"donmenu-backend/internal/database"
	"donmenu-backend/internal/httperr"
	"donmenu-backend/internal/logger"
	"donmenu-backend/internal/menu"
	"donmenu-backend/internal/models"
	"donmenu-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RecipeLineRequest struct {
	IngredientID uint            `json:"ingredient_id" validate:"required"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
}

type CreateRecipeRequest struct {
	Name          string              `json:"name" validate:"required"`
	YieldQuantity decimal.Decimal     `json:"yield_quantity"`
	YieldUnit     string              `json:"yield_unit" validate:"required"`
	Lines         []RecipeLineRequest `json:"lines" validate:"dive"`
	RestaurantID  *uint               `json:"restaurant_id"` // super_admin
}

type UpdateRecipeRequest struct {
	Name          *string             `json:"name"`
	YieldQuantity *decimal.Decimal    `json:"yield_quantity"`
	YieldUnit     *string             `json:"yield_unit"`
	Lines         []RecipeLineRequest `json:"lines" validate:"dive"` // substitui todas as linhas
}

type RecipeLineResponse struct {
	ID             uint            `json:"id"`
	IngredientID   uint            `json:"ingredient_id"`
	IngredientName string          `json:"ingredient_name"`
	Quantity       decimal.Decimal `json:"quantity"`
	Unit           string          `json:"unit"`
	LineCost       decimal.Decimal `json:"line_cost"`
}

type RecipeResponse struct {
	ID            uint                 `json:"id"`
	RestaurantID  uint                 `json:"restaurant_id"`
	Name          string               `json:"name"`
	YieldQuantity decimal.Decimal      `json:"yield_quantity"`
	YieldUnit     string               `json:"yield_unit"`
	TotalCost     decimal.Decimal      `json:"total_cost"`
	CostPerYield  decimal.Decimal      `json:"cost_per_yield"`
	Lines         []RecipeLineResponse `json:"lines,omitempty"`
}

func toResponse(r models.Recipe, withLines bool) RecipeResponse {
	resp := RecipeResponse{
		ID:            r.ID,
		RestaurantID:  r.RestaurantID,
		Name:          r.Name,
		YieldQuantity: r.YieldQuantity,
		YieldUnit:     r.YieldUnit,
		TotalCost:     r.TotalCost,
		CostPerYield:  r.CostPerYield,
	}
	if withLines {
		resp.Lines = make([]RecipeLineResponse, 0, len(r.Lines))
		for _, line := range r.Lines {
			resp.Lines = append(resp.Lines, RecipeLineResponse{
				ID:             line.ID,
				IngredientID:   line.IngredientID,
				IngredientName: line.Ingredient.Name,
				Quantity:       line.Quantity,
				Unit:           line.Unit,
				LineCost:       line.LineCost,
			})
		}
	}
	return resp
}

func toLineInputs(lines []RecipeLineRequest) []costing.RecipeLineInput {
	inputs := make([]costing.RecipeLineInput, 0, len(lines))
	for _, line := range lines {
		inputs = append(inputs, costing.RecipeLineInput{
			IngredientID: line.IngredientID,
			Quantity:     line.Quantity,
			Unit:         line.Unit,
		})
	}
	return inputs
}

// POST /api/recipes
func CreateRecipeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateRecipeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados inválidos")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.YieldUnit = strings.TrimSpace(body.YieldUnit)
		if err := validation.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		restaurantID, err := auth.RestaurantIDForRequest(c, body.RestaurantID)
		if err != nil {
			return err
		}

		r := models.Recipe{
			RestaurantID:  restaurantID,
			Name:          body.Name,
			YieldQuantity: body.YieldQuantity,
			YieldUnit:     body.YieldUnit,
		}

		cost, err := Recompute(&r, toLineInputs(body.Lines))
		if err != nil {
			return httperr.FromCosting(err)
		}

		r.Lines = make([]models.RecipeLine, 0, len(body.Lines))
		for i, line := range body.Lines {
			r.Lines = append(r.Lines, models.RecipeLine{
				IngredientID: line.IngredientID,
				Quantity:     line.Quantity,
				Unit:         line.Unit,
				LineCost:     cost.Lines[i].LineCost,
			})
		}

		if err := database.DB.Create(&r).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar a ficha técnica")
		}

		writeAudit(c, r, models.AuditActionCreate, nil)

		return c.Status(fiber.StatusCreated).JSON(toResponse(r, false))
	}
}

// GET /api/recipes
func ListRecipesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDForRequest(c, nil)
		if err != nil {
			return err
		}

		var recipes []models.Recipe
		if err := database.DB.Where("restaurant_id = ?", restaurantID).
			Order("name asc").Find(&recipes).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar as fichas técnicas")
		}

		res := make([]RecipeResponse, 0, len(recipes))
		for _, r := range recipes {
			res = append(res, toResponse(r, false))
		}
		return c.JSON(res)
	}
}

// GET /api/recipes/:id
func GetRecipeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDForRequest(c, nil)
		if err != nil {
			return err
		}

		var r models.Recipe
		if err := database.DB.Preload("Lines.Ingredient").
			Where("restaurant_id = ?", restaurantID).
			First(&r, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ficha técnica não encontrada")
		}

		return c.JSON(toResponse(r, true))
	}
}

// PUT /api/recipes/:id - substitui as linhas e recalcula os custos
func UpdateRecipeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDForRequest(c, nil)
		if err != nil {
			return err
		}

		var r models.Recipe
		if err := database.DB.Preload("Lines").
			Where("restaurant_id = ?", restaurantID).
			First(&r, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ficha técnica não encontrada")
		}

		before := toResponse(r, false)

		var body UpdateRecipeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados inválidos")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Nome não pode ser vazio")
			}
			r.Name = name
		}
		if body.YieldQuantity != nil {
			r.YieldQuantity = *body.YieldQuantity
		}
		if body.YieldUnit != nil {
			unit := strings.TrimSpace(*body.YieldUnit)
			if unit == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Unidade de rendimento não pode ser vazia")
			}
			r.YieldUnit = unit
		}

		// Linhas novas quando enviadas; senão recalcula sobre as existentes
		// (o rendimento pode ter mudado)
		lineReqs := body.Lines
		if lineReqs == nil {
			lineReqs = make([]RecipeLineRequest, 0, len(r.Lines))
			for _, line := range r.Lines {
				lineReqs = append(lineReqs, RecipeLineRequest{
					IngredientID: line.IngredientID,
					Quantity:     line.Quantity,
					Unit:         line.Unit,
				})
			}
		}

		cost, err := Recompute(&r, toLineInputs(lineReqs))
		if err != nil {
			return httperr.FromCosting(err)
		}

		newLines := make([]models.RecipeLine, 0, len(lineReqs))
		for i, line := range lineReqs {
			newLines = append(newLines, models.RecipeLine{
				RecipeID:     r.ID,
				IngredientID: line.IngredientID,
				Quantity:     line.Quantity,
				Unit:         line.Unit,
				LineCost:     cost.Lines[i].LineCost,
			})
		}

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("recipe_id = ?", r.ID).Delete(&models.RecipeLine{}).Error; err != nil {
				return err
			}
			if len(newLines) > 0 {
				if err := tx.Create(&newLines).Error; err != nil {
					return err
				}
			}
			return tx.Model(&models.Recipe{}).Where("id = ?", r.ID).Updates(map[string]any{
				"name":           r.Name,
				"yield_quantity": r.YieldQuantity,
				"yield_unit":     r.YieldUnit,
				"total_cost":     r.TotalCost,
				"cost_per_yield": r.CostPerYield,
			}).Error
		})
		if txErr != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar a ficha técnica")
		}

		// Itens de cardápio derivados desta ficha precisam de novo preço
		if err := menu.RepriceByRecipe(restaurantID, r.ID); err != nil {
			logger.LogError("recipe", "UpdateRecipeHandler", "reprecificação em cascata falhou", err)
		}

		writeAudit(c, r, models.AuditActionUpdate, before)

		return c.JSON(toResponse(r, false))
	}
}

// DELETE /api/recipes/:id
func DeleteRecipeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDForRequest(c, nil)
		if err != nil {
			return err
		}

		var r models.Recipe
		if err := database.DB.Where("restaurant_id = ?", restaurantID).
			First(&r, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ficha técnica não encontrada")
		}

		var itemCount int64
		database.DB.Model(&models.MenuItem{}).Where("recipe_id = ?", r.ID).Count(&itemCount)
		if itemCount > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Ficha técnica usada por itens de cardápio")
		}

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("recipe_id = ?", r.ID).Delete(&models.RecipeLine{}).Error; err != nil {
				return err
			}
			return tx.Delete(&r).Error
		})
		if txErr != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir a ficha técnica")
		}

		writeAudit(c, r, models.AuditActionDelete, toResponse(r, false))

		return c.SendStatus(fiber.StatusNoContent)
	}
}

func writeAudit(c *fiber.Ctx, r models.Recipe, action models.AuditAction, before any) {
	userID, userName, err := auth.UserInfo(c)
	if err != nil {
		return
	}

	var after any
	if action != models.AuditActionDelete {
		after = toResponse(r, false)
	}

	if logErr := audit.WriteLog(audit.LogOptions{
		RestaurantID: &r.RestaurantID,
		UserID:       userID,
		UserName:     userName,
		EntityType:   "recipe",
		EntityID:     r.ID,
		Action:       action,
		Description:  "Ficha técnica: " + r.Name,
		Before:       before,
		After:        after,
	}); logErr != nil {
		logger.LogError("recipe", "writeAudit", "falha ao gravar auditoria", logErr)
	}
}
