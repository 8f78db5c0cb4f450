package stock

import (
	"strings"
	"time"

	"donmenu-backend/internal/auth"
	"donmenu-backend/internal/database"
	"donmenu-backend/internal/models"
	"donmenu-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateMovementRequest struct {
	IngredientID uint                  `json:"ingredient_id" validate:"required"`
	Direction    models.StockDirection `json:"direction" validate:"required"`
	Quantity     decimal.Decimal       `json:"quantity" validate:"required"`
	Date         *time.Time            `json:"date"`
	Description  string                `json:"description"`
	RestaurantID *uint                 `json:"restaurant_id"` // super_admin
}

type MovementResponse struct {
	ID             uint                  `json:"id"`
	IngredientID   uint                  `json:"ingredient_id"`
	IngredientName string                `json:"ingredient_name,omitempty"`
	Date           time.Time             `json:"date"`
	Direction      models.StockDirection `json:"direction"`
	Quantity       decimal.Decimal       `json:"quantity"`
	Description    string                `json:"description,omitempty"`
}

type CreateWasteRequest struct {
	IngredientID uint            `json:"ingredient_id" validate:"required"`
	Quantity     decimal.Decimal `json:"quantity" validate:"required"`
	Date         *time.Time      `json:"date"`
	Reason       string          `json:"reason"`
	RestaurantID *uint           `json:"restaurant_id"` // super_admin
}

type WasteResponse struct {
	ID             uint            `json:"id"`
	IngredientID   uint            `json:"ingredient_id"`
	IngredientName string          `json:"ingredient_name,omitempty"`
	Date           time.Time       `json:"date"`
	Quantity       decimal.Decimal `json:"quantity"`
	WasteValue     decimal.Decimal `json:"waste_value"`
	Reason         string          `json:"reason,omitempty"`
}

func toMovementResponse(m models.StockMovement) MovementResponse {
	return MovementResponse{
		ID:             m.ID,
		IngredientID:   m.IngredientID,
		IngredientName: m.Ingredient.Name,
		Date:           m.Date,
		Direction:      m.Direction,
		Quantity:       m.Quantity,
		Description:    m.Description,
	}
}

func toWasteResponse(w models.WasteEntry) WasteResponse {
	return WasteResponse{
		ID:             w.ID,
		IngredientID:   w.IngredientID,
		IngredientName: w.Ingredient.Name,
		Date:           w.Date,
		Quantity:       w.Quantity,
		WasteValue:     w.WasteValue,
		Reason:         w.Reason,
	}
}

// POST /api/stock/movements - a movimentação atualiza o saldo do insumo na
// mesma transação.
func CreateMovementHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateMovementRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados inválidos")
		}
		if err := validation.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if body.Direction != models.StockDirectionIn && body.Direction != models.StockDirectionOut {
			return fiber.NewError(fiber.StatusBadRequest, "Direção inválida, use entrada ou saida")
		}
		if body.Quantity.LessThanOrEqual(decimal.Zero) {
			return fiber.NewError(fiber.StatusBadRequest, "Quantidade deve ser maior que zero")
		}

		restaurantID, err := auth.RestaurantIDForRequest(c, body.RestaurantID)
		if err != nil {
			return err
		}

		var ing models.Ingredient
		if err := database.DB.Where("restaurant_id = ?", restaurantID).
			First(&ing, "id = ?", body.IngredientID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Insumo não encontrado")
		}

		date := time.Now()
		if body.Date != nil {
			date = *body.Date
		}

		mov := models.StockMovement{
			RestaurantID: restaurantID,
			IngredientID: ing.ID,
			Ingredient:   ing,
			Date:         date,
			Direction:    body.Direction,
			Quantity:     body.Quantity,
			Description:  strings.TrimSpace(body.Description),
		}

		newStock := ing.StockQuantity
		if body.Direction == models.StockDirectionIn {
			newStock = newStock.Add(body.Quantity)
		} else {
			newStock = newStock.Sub(body.Quantity)
			if newStock.IsNegative() {
				return fiber.NewError(fiber.StatusConflict, "Estoque insuficiente para a saída")
			}
		}

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&mov).Error; err != nil {
				return err
			}
			return tx.Model(&models.Ingredient{}).Where("id = ?", ing.ID).
				Update("stock_quantity", newStock).Error
		})
		if txErr != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível registrar a movimentação")
		}

		return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
	}
}

// GET /api/stock/movements?ingredient_id=&from=&to=
func ListMovementsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDForRequest(c, nil)
		if err != nil {
			return err
		}

		query := database.DB.Preload("Ingredient").Where("restaurant_id = ?", restaurantID)
		if ingredientID := c.Query("ingredient_id"); ingredientID != "" {
			query = query.Where("ingredient_id = ?", ingredientID)
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

		var movements []models.StockMovement
		if err := query.Order("date desc, id desc").Limit(500).Find(&movements).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar as movimentações")
		}

		res := make([]MovementResponse, 0, len(movements))
		for _, mov := range movements {
			res = append(res, toMovementResponse(mov))
		}
		return c.JSON(res)
	}
}

// POST /api/stock/waste - o valor do desperdício é congelado com o custo do
// insumo no momento do registro e o saldo é baixado junto.
func CreateWasteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateWasteRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados inválidos")
		}
		if err := validation.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if body.Quantity.LessThanOrEqual(decimal.Zero) {
			return fiber.NewError(fiber.StatusBadRequest, "Quantidade deve ser maior que zero")
		}

		restaurantID, err := auth.RestaurantIDForRequest(c, body.RestaurantID)
		if err != nil {
			return err
		}

		var ing models.Ingredient
		if err := database.DB.Where("restaurant_id = ?", restaurantID).
			First(&ing, "id = ?", body.IngredientID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Insumo não encontrado")
		}

		date := time.Now()
		if body.Date != nil {
			date = *body.Date
		}

		waste := models.WasteEntry{
			RestaurantID: restaurantID,
			IngredientID: ing.ID,
			Ingredient:   ing,
			Date:         date,
			Quantity:     body.Quantity,
			WasteValue:   body.Quantity.Mul(ing.CostPerUnit),
			Reason:       strings.TrimSpace(body.Reason),
		}

		newStock := ing.StockQuantity.Sub(body.Quantity)
		if newStock.IsNegative() {
			newStock = decimal.Zero
		}

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&waste).Error; err != nil {
				return err
			}
			return tx.Model(&models.Ingredient{}).Where("id = ?", ing.ID).
				Update("stock_quantity", newStock).Error
		})
		if txErr != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível registrar o desperdício")
		}

		return c.Status(fiber.StatusCreated).JSON(toWasteResponse(waste))
	}
}

// GET /api/stock/waste?from=&to=
func ListWasteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDForRequest(c, nil)
		if err != nil {
			return err
		}

		query := database.DB.Preload("Ingredient").Where("restaurant_id = ?", restaurantID)
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

		var entries []models.WasteEntry
		if err := query.Order("date desc, id desc").Limit(500).Find(&entries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os desperdícios")
		}

		res := make([]WasteResponse, 0, len(entries))
		for _, entry := range entries {
			res = append(res, toWasteResponse(entry))
		}
		return c.JSON(res)
	}
}

// GET /api/stock/low - insumos com saldo abaixo do mínimo configurado
func LowStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDForRequest(c, nil)
		if err != nil {
			return err
		}

		var ingredients []models.Ingredient
		if err := database.DB.
			Where("restaurant_id = ? AND min_stock > 0 AND stock_quantity < min_stock", restaurantID).
			Order("name asc").Find(&ingredients).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar o estoque baixo")
		}

		type lowStockItem struct {
			ID            uint            `json:"id"`
			Name          string          `json:"name"`
			Unit          string          `json:"unit"`
			StockQuantity decimal.Decimal `json:"stock_quantity"`
			MinStock      decimal.Decimal `json:"min_stock"`
		}
		res := make([]lowStockItem, 0, len(ingredients))
		for _, ing := range ingredients {
			res = append(res, lowStockItem{
				ID:            ing.ID,
				Name:          ing.Name,
				Unit:          ing.Unit,
				StockQuantity: ing.StockQuantity,
				MinStock:      ing.MinStock,
			})
		}
		return c.JSON(res)
	}
}
