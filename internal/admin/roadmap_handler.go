package admin

import (
	"strings"

	"donmenu-backend/internal/database"
	"donmenu-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type RoadmapItemResponse struct {
	ID          uint                 `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Status      models.RoadmapStatus `json:"status"`
	Quarter     string               `json:"quarter"`
	SortOrder   int                  `json:"sort_order"`
}

type CreateRoadmapItemRequest struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Status      models.RoadmapStatus `json:"status"`
	Quarter     string               `json:"quarter"`
	SortOrder   int                  `json:"sort_order"`
}

type UpdateRoadmapItemRequest struct {
	Title       *string               `json:"title"`
	Description *string               `json:"description"`
	Status      *models.RoadmapStatus `json:"status"`
	Quarter     *string               `json:"quarter"`
	SortOrder   *int                  `json:"sort_order"`
}

func RoadmapItemToResponse(i models.RoadmapItem) RoadmapItemResponse {
	return RoadmapItemResponse{
		ID:          i.ID,
		Title:       i.Title,
		Description: i.Description,
		Status:      i.Status,
		Quarter:     i.Quarter,
		SortOrder:   i.SortOrder,
	}
}

func validRoadmapStatus(s models.RoadmapStatus) bool {
	switch s {
	case models.RoadmapPlanned, models.RoadmapInProgress, models.RoadmapDone:
		return true
	}
	return false
}

// POST /api/admin/roadmap
func CreateRoadmapItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateRoadmapItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados inválidos")
		}

		body.Title = strings.TrimSpace(body.Title)
		if body.Title == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Título é obrigatório")
		}
		if body.Status == "" {
			body.Status = models.RoadmapPlanned
		}
		if !validRoadmapStatus(body.Status) {
			return fiber.NewError(fiber.StatusBadRequest, "Status inválido (planejado|em_andamento|entregue)")
		}

		item := models.RoadmapItem{
			Title:       body.Title,
			Description: body.Description,
			Status:      body.Status,
			Quarter:     body.Quarter,
			SortOrder:   body.SortOrder,
		}

		if err := database.DB.Create(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar o item do roadmap")
		}

		return c.Status(fiber.StatusCreated).JSON(RoadmapItemToResponse(item))
	}
}

// PUT /api/admin/roadmap/:id
func UpdateRoadmapItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var item models.RoadmapItem
		if err := database.DB.First(&item, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Item do roadmap não encontrado")
		}

		var body UpdateRoadmapItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados inválidos")
		}

		if body.Title != nil {
			title := strings.TrimSpace(*body.Title)
			if title == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Título não pode ser vazio")
			}
			item.Title = title
		}
		if body.Description != nil {
			item.Description = *body.Description
		}
		if body.Status != nil {
			if !validRoadmapStatus(*body.Status) {
				return fiber.NewError(fiber.StatusBadRequest, "Status inválido (planejado|em_andamento|entregue)")
			}
			item.Status = *body.Status
		}
		if body.Quarter != nil {
			item.Quarter = *body.Quarter
		}
		if body.SortOrder != nil {
			item.SortOrder = *body.SortOrder
		}

		if err := database.DB.Save(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar o item do roadmap")
		}

		return c.JSON(RoadmapItemToResponse(item))
	}
}

// DELETE /api/admin/roadmap/:id
func DeleteRoadmapItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		if err := database.DB.Delete(&models.RoadmapItem{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir o item do roadmap")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
