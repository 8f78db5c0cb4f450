package menu

import (
	"strings"

	"donmenu-backend/internal/audit"
	"donmenu-backend/internal/auth"
	"donmenu-backend/internal/database"
	"donmenu-backend/internal/httperr"
	"donmenu-backend/internal/logger"
	"donmenu-backend/internal/models"
	"donmenu-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type MenuItemResponse struct {
	ID             uint            `json:"id"`
	RestaurantID   uint            `json:"restaurant_id"`
	CategoryID     *uint           `json:"category_id"`
	RecipeID       *uint           `json:"recipe_id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	SuggestedPrice decimal.Decimal `json:"suggested_price"`
	DesiredMargin  decimal.Decimal `json:"desired_margin"`
	ManualPricing  bool            `json:"manual_pricing"`
	CostPrice      decimal.Decimal `json:"cost_price"`
	GrossProfit    decimal.Decimal `json:"gross_profit"`
	ActualMargin   decimal.Decimal `json:"actual_margin"`
	Active         bool            `json:"active"`
}

type CreateMenuItemRequest struct {
	Name          string           `json:"name" validate:"required"`
	Description   string           `json:"description"`
	CategoryID    *uint            `json:"category_id"`
	RecipeID      *uint            `json:"recipe_id"`
	DesiredMargin decimal.Decimal  `json:"desired_margin"`
	ManualPrice   *decimal.Decimal `json:"manual_price"` // presença define precificação manual
	RestaurantID  *uint            `json:"restaurant_id"` // super_admin
}

type UpdateMenuItemRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	CategoryID    *uint            `json:"category_id"`
	RecipeID      *uint            `json:"recipe_id"`
	DesiredMargin *decimal.Decimal `json:"desired_margin"`
	ManualPrice   *decimal.Decimal `json:"manual_price"`
	Active        *bool            `json:"active"`
}

func toItemResponse(m models.MenuItem) MenuItemResponse {
	return MenuItemResponse{
		ID:             m.ID,
		RestaurantID:   m.RestaurantID,
		CategoryID:     m.CategoryID,
		RecipeID:       m.RecipeID,
		Name:           m.Name,
		Description:    m.Description,
		Price:          m.Price,
		SuggestedPrice: m.SuggestedPrice,
		DesiredMargin:  m.DesiredMargin,
		ManualPricing:  m.ManualPricing,
		CostPrice:      m.CostPrice,
		GrossProfit:    m.GrossProfit,
		ActualMargin:   m.ActualMargin,
		Active:         m.Active,
	}
}

// recipeCostFor busca o custo por rendimento da ficha no escopo do
// restaurante; sem ficha o custo é zero.
func recipeCostFor(restaurantID uint, recipeID *uint) (decimal.Decimal, error) {
	if recipeID == nil {
		return decimal.Zero, nil
	}
	var r models.Recipe
	if err := database.DB.Where("restaurant_id = ?", restaurantID).
		First(&r, "id = ?", *recipeID).Error; err != nil {
		return decimal.Zero, fiber.NewError(fiber.StatusNotFound, "Ficha técnica não encontrada")
	}
	return r.CostPerYield, nil
}

// GET /api/menu-items?category_id=2&active=true
func ListMenuItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDForRequest(c, nil)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.MenuItem{}).Where("restaurant_id = ?", restaurantID)
		if categoryID := c.Query("category_id"); categoryID != "" {
			dbq = dbq.Where("category_id = ?", categoryID)
		}
		if active := c.Query("active"); active != "" {
			dbq = dbq.Where("active = ?", active == "true")
		}

		var items []models.MenuItem
		if err := dbq.Order("name asc").Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os itens")
		}

		res := make([]MenuItemResponse, 0, len(items))
		for _, m := range items {
			res = append(res, toItemResponse(m))
		}
		return c.JSON(res)
	}
}

// GET /api/menu-items/:id
func GetMenuItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDForRequest(c, nil)
		if err != nil {
			return err
		}

		var m models.MenuItem
		if err := database.DB.Where("restaurant_id = ?", restaurantID).
			First(&m, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Item não encontrado")
		}

		return c.JSON(toItemResponse(m))
	}
}

// POST /api/menu-items
func CreateMenuItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateMenuItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados inválidos")
		}

		body.Name = strings.TrimSpace(body.Name)
		if err := validation.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		restaurantID, err := auth.RestaurantIDForRequest(c, body.RestaurantID)
		if err != nil {
			return err
		}

		// Sem preço manual e sem ficha técnica não há de onde derivar preço
		if body.ManualPrice == nil && body.RecipeID == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Informe um preço manual ou uma ficha técnica")
		}

		if body.CategoryID != nil {
			var cat models.MenuCategory
			if err := database.DB.Where("restaurant_id = ?", restaurantID).
				First(&cat, "id = ?", *body.CategoryID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Categoria não encontrada")
			}
		}

		costPerYield, err := recipeCostFor(restaurantID, body.RecipeID)
		if err != nil {
			return err
		}

		m := models.MenuItem{
			RestaurantID:  restaurantID,
			CategoryID:    body.CategoryID,
			RecipeID:      body.RecipeID,
			Name:          body.Name,
			Description:   body.Description,
			DesiredMargin: body.DesiredMargin,
			ManualPricing: body.ManualPrice != nil,
			Active:        true,
		}
		if body.ManualPrice != nil {
			m.Price = *body.ManualPrice
		}

		if err := applyPricing(&m, costPerYield); err != nil {
			return httperr.FromCosting(err)
		}

		if err := database.DB.Create(&m).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar o item")
		}

		writeAudit(c, m, models.AuditActionCreate, nil)

		return c.Status(fiber.StatusCreated).JSON(toItemResponse(m))
	}
}

// PUT /api/menu-items/:id
func UpdateMenuItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDForRequest(c, nil)
		if err != nil {
			return err
		}

		var m models.MenuItem
		if err := database.DB.Where("restaurant_id = ?", restaurantID).
			First(&m, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Item não encontrado")
		}

		before := toItemResponse(m)

		var body UpdateMenuItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados inválidos")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Nome não pode ser vazio")
			}
			m.Name = name
		}
		if body.Description != nil {
			m.Description = *body.Description
		}
		if body.CategoryID != nil {
			var cat models.MenuCategory
			if err := database.DB.Where("restaurant_id = ?", restaurantID).
				First(&cat, "id = ?", *body.CategoryID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Categoria não encontrada")
			}
			m.CategoryID = body.CategoryID
		}
		if body.RecipeID != nil {
			m.RecipeID = body.RecipeID
		}
		if body.DesiredMargin != nil {
			m.DesiredMargin = *body.DesiredMargin
			m.ManualPricing = false
		}
		if body.ManualPrice != nil {
			m.Price = *body.ManualPrice
			m.ManualPricing = true
		}
		if body.Active != nil {
			m.Active = *body.Active
		}

		if !m.ManualPricing && m.RecipeID == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Precificação por margem exige ficha técnica")
		}

		costPerYield, err := recipeCostFor(restaurantID, m.RecipeID)
		if err != nil {
			return err
		}

		if err := applyPricing(&m, costPerYield); err != nil {
			return httperr.FromCosting(err)
		}

		if err := database.DB.Save(&m).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar o item")
		}

		writeAudit(c, m, models.AuditActionUpdate, before)

		return c.JSON(toItemResponse(m))
	}
}

// POST /api/menu-items/:id/reprice - volta o item para preço derivado da
// margem desejada, a partir do custo atual da ficha
func RepriceMenuItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDForRequest(c, nil)
		if err != nil {
			return err
		}

		var m models.MenuItem
		if err := database.DB.Where("restaurant_id = ?", restaurantID).
			First(&m, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Item não encontrado")
		}

		if m.RecipeID == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Item sem ficha técnica não pode ser reprecificado")
		}

		costPerYield, err := recipeCostFor(restaurantID, m.RecipeID)
		if err != nil {
			return err
		}

		m.ManualPricing = false
		if err := applyPricing(&m, costPerYield); err != nil {
			return httperr.FromCosting(err)
		}

		if err := database.DB.Save(&m).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível reprecificar o item")
		}

		return c.JSON(toItemResponse(m))
	}
}

// DELETE /api/menu-items/:id
func DeleteMenuItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDForRequest(c, nil)
		if err != nil {
			return err
		}

		var m models.MenuItem
		if err := database.DB.Where("restaurant_id = ?", restaurantID).
			First(&m, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Item não encontrado")
		}

		var comboCount int64
		database.DB.Model(&models.ComboItem{}).Where("menu_item_id = ?", m.ID).Count(&comboCount)
		if comboCount > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Item usado em combos; remova dos combos antes")
		}

		if err := database.DB.Delete(&m).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir o item")
		}

		writeAudit(c, m, models.AuditActionDelete, toItemResponse(m))

		return c.SendStatus(fiber.StatusNoContent)
	}
}

func writeAudit(c *fiber.Ctx, m models.MenuItem, action models.AuditAction, before any) {
	userID, userName, err := auth.UserInfo(c)
	if err != nil {
		return
	}

	var after any
	if action != models.AuditActionDelete {
		after = toItemResponse(m)
	}

	if logErr := audit.WriteLog(audit.LogOptions{
		RestaurantID: &m.RestaurantID,
		UserID:       userID,
		UserName:     userName,
		EntityType:   "menu_item",
		EntityID:     m.ID,
		Action:       action,
		Description:  "Item de cardápio: " + m.Name,
		Before:       before,
		After:        after,
	}); logErr != nil {
		logger.LogError("menu", "writeAudit", "falha ao gravar auditoria", logErr)
	}
}
