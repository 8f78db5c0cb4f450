package admin

import (
	"strings"

	"donmenu-backend/internal/database"
	"donmenu-backend/internal/models"
	"donmenu-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type PlanResponse struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	PriceMonthly decimal.Decimal `json:"price_monthly"`
	Description  string          `json:"description"`
	Features     []string        `json:"features"`
	Active       bool            `json:"active"`
}

type CreatePlanRequest struct {
	Name         string          `json:"name" validate:"required"`
	PriceMonthly decimal.Decimal `json:"price_monthly"`
	Description  string          `json:"description"`
	Features     []string        `json:"features"`
}

type UpdatePlanRequest struct {
	Name         *string          `json:"name"`
	PriceMonthly *decimal.Decimal `json:"price_monthly"`
	Description  *string          `json:"description"`
	Features     []string         `json:"features"`
	Active       *bool            `json:"active"`
}

func PlanToResponse(p models.Plan) PlanResponse {
	features := []string{}
	for _, f := range strings.Split(p.Features, "\n") {
		if f = strings.TrimSpace(f); f != "" {
			features = append(features, f)
		}
	}
	return PlanResponse{
		ID:           p.ID,
		Name:         p.Name,
		PriceMonthly: p.PriceMonthly,
		Description:  p.Description,
		Features:     features,
		Active:       p.Active,
	}
}

// POST /api/admin/plans
func CreatePlanHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePlanRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados inválidos")
		}

		body.Name = strings.TrimSpace(body.Name)
		if err := validation.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if body.PriceMonthly.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "Preço mensal não pode ser negativo")
		}

		plan := models.Plan{
			Name:         body.Name,
			PriceMonthly: body.PriceMonthly,
			Description:  body.Description,
			Features:     strings.Join(body.Features, "\n"),
			Active:       true,
		}

		if err := database.DB.Create(&plan).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar o plano")
		}

		return c.Status(fiber.StatusCreated).JSON(PlanToResponse(plan))
	}
}

// PUT /api/admin/plans/:id
func UpdatePlanHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var plan models.Plan
		if err := database.DB.First(&plan, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Plano não encontrado")
		}

		var body UpdatePlanRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados inválidos")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Nome não pode ser vazio")
			}
			plan.Name = name
		}
		if body.PriceMonthly != nil {
			if body.PriceMonthly.IsNegative() {
				return fiber.NewError(fiber.StatusBadRequest, "Preço mensal não pode ser negativo")
			}
			plan.PriceMonthly = *body.PriceMonthly
		}
		if body.Description != nil {
			plan.Description = *body.Description
		}
		if body.Features != nil {
			plan.Features = strings.Join(body.Features, "\n")
		}
		if body.Active != nil {
			plan.Active = *body.Active
		}

		if err := database.DB.Save(&plan).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar o plano")
		}

		return c.JSON(PlanToResponse(plan))
	}
}

// DELETE /api/admin/plans/:id
func DeletePlanHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var count int64
		database.DB.Model(&models.Subscription{}).Where("plan_id = ?", id).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Plano possui assinaturas; desative em vez de excluir")
		}

		if err := database.DB.Delete(&models.Plan{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir o plano")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
