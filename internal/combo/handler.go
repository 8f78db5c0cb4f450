package combo

import (
	"strings"
	"time"

	"donmenu-backend/internal/audit"
	"donmenu-backend/internal/auth"
	"donmenu-backend/internal/costing"
	"donmenu-backend/internal/database"
	"donmenu-backend/internal/httperr"
	"donmenu-backend/internal/logger"
	"donmenu-backend/internal/models"
	"donmenu-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ComboItemRequest struct {
	MenuItemID uint             `json:"menu_item_id" validate:"required"`
	Quantity   int              `json:"quantity" validate:"min=1"`
	Discount   *decimal.Decimal `json:"discount"` // percentual 0-100, opcional
}

type CreateComboRequest struct {
	Name         string             `json:"name" validate:"required"`
	Description  string             `json:"description"`
	Price        decimal.Decimal    `json:"price"`
	Discount     *decimal.Decimal   `json:"discount"`
	ValidFrom    *time.Time         `json:"valid_from"`
	ValidTo      *time.Time         `json:"valid_to"`
	Items        []ComboItemRequest `json:"items" validate:"required,min=1,dive"`
	RestaurantID *uint              `json:"restaurant_id"` // super_admin
}

type UpdateComboRequest struct {
	Name        *string            `json:"name"`
	Description *string            `json:"description"`
	Price       *decimal.Decimal   `json:"price"`
	Discount    *decimal.Decimal   `json:"discount"`
	ValidFrom   *time.Time         `json:"valid_from"`
	ValidTo     *time.Time         `json:"valid_to"`
	Items       []ComboItemRequest `json:"items" validate:"dive"` // substitui todos os itens
	Active      *bool              `json:"active"`
}

type ComboItemResponse struct {
	ID                 uint             `json:"id"`
	MenuItemID         uint             `json:"menu_item_id"`
	MenuItemName       string           `json:"menu_item_name"`
	Quantity           int              `json:"quantity"`
	Discount           *decimal.Decimal `json:"discount"`
	OriginalSubtotal   decimal.Decimal  `json:"original_subtotal"`
	DiscountedSubtotal decimal.Decimal  `json:"discounted_subtotal"`
}

type ComboResponse struct {
	ID                 uint                `json:"id"`
	RestaurantID       uint                `json:"restaurant_id"`
	Name               string              `json:"name"`
	Description        string              `json:"description"`
	Price              decimal.Decimal     `json:"price"`
	Discount           *decimal.Decimal    `json:"discount"`
	ValidFrom          *time.Time          `json:"valid_from"`
	ValidTo            *time.Time          `json:"valid_to"`
	TotalOriginalPrice decimal.Decimal     `json:"total_original_price"`
	TotalSavings       decimal.Decimal     `json:"total_savings"`
	CurrentlyValid     bool                `json:"currently_valid"`
	Active             bool                `json:"active"`
	Items              []ComboItemResponse `json:"items,omitempty"`
}

func toResponse(cb models.Combo, withItems bool) ComboResponse {
	resp := ComboResponse{
		ID:                 cb.ID,
		RestaurantID:       cb.RestaurantID,
		Name:               cb.Name,
		Description:        cb.Description,
		Price:              cb.Price,
		Discount:           cb.Discount,
		ValidFrom:          cb.ValidFrom,
		ValidTo:            cb.ValidTo,
		TotalOriginalPrice: cb.TotalOriginalPrice,
		TotalSavings:       cb.TotalSavings,
		// sempre reavaliado na leitura, nunca persistido
		CurrentlyValid: costing.ComboCurrentlyValid(cb.ValidFrom, cb.ValidTo, time.Now()),
		Active:         cb.Active,
	}
	if withItems {
		resp.Items = make([]ComboItemResponse, 0, len(cb.Items))
		for _, item := range cb.Items {
			resp.Items = append(resp.Items, ComboItemResponse{
				ID:                 item.ID,
				MenuItemID:         item.MenuItemID,
				MenuItemName:       item.MenuItem.Name,
				Quantity:           item.Quantity,
				Discount:           item.Discount,
				OriginalSubtotal:   item.OriginalSubtotal,
				DiscountedSubtotal: item.DiscountedSubtotal,
			})
		}
	}
	return resp
}

func toItemInputs(items []ComboItemRequest) []costing.ComboItemInput {
	inputs := make([]costing.ComboItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, costing.ComboItemInput{
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
			Discount:   item.Discount,
		})
	}
	return inputs
}

// POST /api/combos
func CreateComboHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateComboRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados inválidos")
		}

		body.Name = strings.TrimSpace(body.Name)
		if err := validation.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if body.ValidFrom != nil && body.ValidTo != nil && body.ValidTo.Before(*body.ValidFrom) {
			return fiber.NewError(fiber.StatusBadRequest, "valid_to não pode ser antes de valid_from")
		}

		restaurantID, err := auth.RestaurantIDForRequest(c, body.RestaurantID)
		if err != nil {
			return err
		}

		cost, err := costing.BuildCombo(PriceResolver{}, restaurantID, body.Price, toItemInputs(body.Items))
		if err != nil {
			return httperr.FromCosting(err)
		}

		cb := models.Combo{
			RestaurantID:       restaurantID,
			Name:               body.Name,
			Description:        body.Description,
			Price:              body.Price,
			Discount:           body.Discount,
			ValidFrom:          body.ValidFrom,
			ValidTo:            body.ValidTo,
			TotalOriginalPrice: cost.TotalOriginalPrice,
			TotalSavings:       cost.TotalSavings,
			Active:             true,
		}
		cb.Items = make([]models.ComboItem, 0, len(body.Items))
		for i, item := range body.Items {
			cb.Items = append(cb.Items, models.ComboItem{
				MenuItemID:         item.MenuItemID,
				Quantity:           item.Quantity,
				Discount:           item.Discount,
				OriginalSubtotal:   cost.Items[i].OriginalSubtotal,
				DiscountedSubtotal: cost.Items[i].DiscountedSubtotal,
			})
		}

		if err := database.DB.Create(&cb).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar o combo")
		}

		writeAudit(c, cb, models.AuditActionCreate, nil)

		return c.Status(fiber.StatusCreated).JSON(toResponse(cb, false))
	}
}

// GET /api/combos?only_valid=true
func ListCombosHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDForRequest(c, nil)
		if err != nil {
			return err
		}

		var combos []models.Combo
		if err := database.DB.Where("restaurant_id = ?", restaurantID).
			Order("name asc").Find(&combos).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os combos")
		}

		onlyValid := c.Query("only_valid") == "true"
		now := time.Now()

		res := make([]ComboResponse, 0, len(combos))
		for _, cb := range combos {
			if onlyValid && !costing.ComboCurrentlyValid(cb.ValidFrom, cb.ValidTo, now) {
				continue
			}
			res = append(res, toResponse(cb, false))
		}
		return c.JSON(res)
	}
}

// GET /api/combos/:id
func GetComboHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDForRequest(c, nil)
		if err != nil {
			return err
		}

		var cb models.Combo
		if err := database.DB.Preload("Items.MenuItem").
			Where("restaurant_id = ?", restaurantID).
			First(&cb, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Combo não encontrado")
		}

		return c.JSON(toResponse(cb, true))
	}
}

// PUT /api/combos/:id - recalcula sempre; itens só mudam quando enviados
func UpdateComboHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDForRequest(c, nil)
		if err != nil {
			return err
		}

		var cb models.Combo
		if err := database.DB.Preload("Items").
			Where("restaurant_id = ?", restaurantID).
			First(&cb, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Combo não encontrado")
		}

		before := toResponse(cb, false)

		var body UpdateComboRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados inválidos")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Nome não pode ser vazio")
			}
			cb.Name = name
		}
		if body.Description != nil {
			cb.Description = *body.Description
		}
		if body.Price != nil {
			cb.Price = *body.Price
		}
		if body.Discount != nil {
			cb.Discount = body.Discount
		}
		if body.ValidFrom != nil {
			cb.ValidFrom = body.ValidFrom
		}
		if body.ValidTo != nil {
			cb.ValidTo = body.ValidTo
		}
		if body.Active != nil {
			cb.Active = *body.Active
		}
		if cb.ValidFrom != nil && cb.ValidTo != nil && cb.ValidTo.Before(*cb.ValidFrom) {
			return fiber.NewError(fiber.StatusBadRequest, "valid_to não pode ser antes de valid_from")
		}

		itemReqs := body.Items
		if itemReqs == nil {
			itemReqs = make([]ComboItemRequest, 0, len(cb.Items))
			for _, item := range cb.Items {
				itemReqs = append(itemReqs, ComboItemRequest{
					MenuItemID: item.MenuItemID,
					Quantity:   item.Quantity,
					Discount:   item.Discount,
				})
			}
		}

		cost, err := costing.BuildCombo(PriceResolver{}, restaurantID, cb.Price, toItemInputs(itemReqs))
		if err != nil {
			return httperr.FromCosting(err)
		}

		cb.TotalOriginalPrice = cost.TotalOriginalPrice
		cb.TotalSavings = cost.TotalSavings

		newItems := make([]models.ComboItem, 0, len(itemReqs))
		for i, item := range itemReqs {
			newItems = append(newItems, models.ComboItem{
				ComboID:            cb.ID,
				MenuItemID:         item.MenuItemID,
				Quantity:           item.Quantity,
				Discount:           item.Discount,
				OriginalSubtotal:   cost.Items[i].OriginalSubtotal,
				DiscountedSubtotal: cost.Items[i].DiscountedSubtotal,
			})
		}

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("combo_id = ?", cb.ID).Delete(&models.ComboItem{}).Error; err != nil {
				return err
			}
			if err := tx.Create(&newItems).Error; err != nil {
				return err
			}
			return tx.Model(&models.Combo{}).Where("id = ?", cb.ID).Updates(map[string]any{
				"name":                 cb.Name,
				"description":          cb.Description,
				"price":                cb.Price,
				"discount":             cb.Discount,
				"valid_from":           cb.ValidFrom,
				"valid_to":             cb.ValidTo,
				"total_original_price": cb.TotalOriginalPrice,
				"total_savings":        cb.TotalSavings,
				"active":               cb.Active,
			}).Error
		})
		if txErr != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar o combo")
		}

		writeAudit(c, cb, models.AuditActionUpdate, before)

		return c.JSON(toResponse(cb, false))
	}
}

// DELETE /api/combos/:id
func DeleteComboHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDForRequest(c, nil)
		if err != nil {
			return err
		}

		var cb models.Combo
		if err := database.DB.Where("restaurant_id = ?", restaurantID).
			First(&cb, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Combo não encontrado")
		}

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("combo_id = ?", cb.ID).Delete(&models.ComboItem{}).Error; err != nil {
				return err
			}
			return tx.Delete(&cb).Error
		})
		if txErr != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir o combo")
		}

		writeAudit(c, cb, models.AuditActionDelete, toResponse(cb, false))

		return c.SendStatus(fiber.StatusNoContent)
	}
}

func writeAudit(c *fiber.Ctx, cb models.Combo, action models.AuditAction, before any) {
	userID, userName, err := auth.UserInfo(c)
	if err != nil {
		return
	}

	var after any
	if action != models.AuditActionDelete {
		after = toResponse(cb, false)
	}

	if logErr := audit.WriteLog(audit.LogOptions{
		RestaurantID: &cb.RestaurantID,
		UserID:       userID,
		UserName:     userName,
		EntityType:   "combo",
		EntityID:     cb.ID,
		Action:       action,
		Description:  "Combo: " + cb.Name,
		Before:       before,
		After:        after,
	}); logErr != nil {
		logger.LogError("combo", "writeAudit", "falha ao gravar auditoria", logErr)
	}
}
