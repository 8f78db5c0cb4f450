package audit

import (
	"time"

	"donmenu-backend/internal/auth"
	"donmenu-backend/internal/database"
	"donmenu-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type AuditLogResponse struct {
	ID           uint               `json:"id"`
	RestaurantID *uint              `json:"restaurant_id"`
	UserID       uint               `json:"user_id"`
	UserName     string             `json:"user_name"`
	EntityType   string             `json:"entity_type"`
	EntityID     uint               `json:"entity_id"`
	Action       models.AuditAction `json:"action"`
	Description  string             `json:"description"`
	CreatedAt    string             `json:"created_at"`
}

// GET /api/audit-logs?entity_type=menu_item&from=2026-01-01&to=2026-01-31
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDForRequest(c, nil)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.AuditLog{}).Where("restaurant_id = ?", restaurantID)

		if entityType := c.Query("entity_type"); entityType != "" {
			dbq = dbq.Where("entity_type = ?", entityType)
		}
		if fromStr := c.Query("from"); fromStr != "" {
			from, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "data 'from' inválida")
			}
			dbq = dbq.Where("created_at >= ?", from)
		}
		if toStr := c.Query("to"); toStr != "" {
			to, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "data 'to' inválida")
			}
			dbq = dbq.Where("created_at < ?", to.AddDate(0, 0, 1))
		}

		var logs []models.AuditLog
		if err := dbq.Order("created_at desc, id desc").Limit(200).Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os logs")
		}

		resp := make([]AuditLogResponse, 0, len(logs))
		for _, l := range logs {
			resp = append(resp, AuditLogResponse{
				ID:           l.ID,
				RestaurantID: l.RestaurantID,
				UserID:       l.UserID,
				UserName:     l.UserName,
				EntityType:   l.EntityType,
				EntityID:     l.EntityID,
				Action:       l.Action,
				Description:  l.Description,
				CreatedAt:    l.CreatedAt.Format(time.RFC3339),
			})
		}
		return c.JSON(resp)
	}
}
