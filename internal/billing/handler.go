package billing

import (
	"time"

	"donmenu-backend/internal/admin"
	"donmenu-backend/internal/auth"
	"donmenu-backend/internal/database"
	"donmenu-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type SubscribeRequest struct {
	PlanID       uint  `json:"plan_id"`
	RestaurantID *uint `json:"restaurant_id"` // super_admin
}

type SubscriptionResponse struct {
	ID               uint                      `json:"id"`
	Plan             admin.PlanResponse        `json:"plan"`
	Status           models.SubscriptionStatus `json:"status"`
	CurrentPeriodEnd time.Time                 `json:"current_period_end"`
}

func toSubscriptionResponse(s models.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		ID:               s.ID,
		Plan:             admin.PlanToResponse(s.Plan),
		Status:           s.Status,
		CurrentPeriodEnd: s.CurrentPeriodEnd,
	}
}

// GET /api/plans - público, só planos ativos
func PublicPlansHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var plans []models.Plan
		if err := database.DB.Where("active = ?", true).
			Order("price_monthly asc").Find(&plans).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os planos")
		}

		res := make([]admin.PlanResponse, 0, len(plans))
		for _, p := range plans {
			res = append(res, admin.PlanToResponse(p))
		}
		return c.JSON(res)
	}
}

// GET /api/roadmap - público
func PublicRoadmapHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var items []models.RoadmapItem
		if err := database.DB.Order("sort_order asc, id asc").Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar o roadmap")
		}

		res := make([]admin.RoadmapItemResponse, 0, len(items))
		for _, item := range items {
			res = append(res, admin.RoadmapItemToResponse(item))
		}
		return c.JSON(res)
	}
}

// POST /api/billing/subscribe - troca de plano cancela a assinatura vigente
func SubscribeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SubscribeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados inválidos")
		}

		restaurantID, err := auth.RestaurantIDForRequest(c, body.RestaurantID)
		if err != nil {
			return err
		}

		var plan models.Plan
		if err := database.DB.Where("active = ?", true).
			First(&plan, "id = ?", body.PlanID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Plano não encontrado")
		}

		// Uma assinatura ativa por restaurante
		if err := database.DB.Model(&models.Subscription{}).
			Where("restaurant_id = ? AND status = ?", restaurantID, models.SubscriptionActive).
			Update("status", models.SubscriptionCancelled).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar a assinatura")
		}

		sub := models.Subscription{
			RestaurantID:     restaurantID,
			PlanID:           plan.ID,
			Plan:             plan,
			Status:           models.SubscriptionActive,
			CurrentPeriodEnd: time.Now().AddDate(0, 1, 0),
		}
		if err := database.DB.Create(&sub).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar a assinatura")
		}

		return c.Status(fiber.StatusCreated).JSON(toSubscriptionResponse(sub))
	}
}

// GET /api/billing/subscription
func MySubscriptionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDForRequest(c, nil)
		if err != nil {
			return err
		}

		var sub models.Subscription
		if err := database.DB.Preload("Plan").
			Where("restaurant_id = ? AND status = ?", restaurantID, models.SubscriptionActive).
			Order("id desc").First(&sub).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Nenhuma assinatura ativa")
		}

		return c.JSON(toSubscriptionResponse(sub))
	}
}

// POST /api/billing/cancel
func CancelSubscriptionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDForRequest(c, nil)
		if err != nil {
			return err
		}

		var sub models.Subscription
		if err := database.DB.Preload("Plan").
			Where("restaurant_id = ? AND status = ?", restaurantID, models.SubscriptionActive).
			Order("id desc").First(&sub).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Nenhuma assinatura ativa")
		}

		sub.Status = models.SubscriptionCancelled
		if err := database.DB.Save(&sub).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível cancelar a assinatura")
		}

		return c.JSON(toSubscriptionResponse(sub))
	}
}
