package order

import (
	"strings"
	"time"

	"donmenu-backend/internal/audit"
	"donmenu-backend/internal/auth"
	"donmenu-backend/internal/database"
	"donmenu-backend/internal/logger"
	"donmenu-backend/internal/models"
	"donmenu-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleLineRequest struct {
	MenuItemID *uint `json:"menu_item_id"`
	ComboID    *uint `json:"combo_id"`
	Quantity   int   `json:"quantity" validate:"min=1"`
}

type CreateSaleRequest struct {
	Date         *time.Time         `json:"date"`
	Channel      models.SaleChannel `json:"channel" validate:"required"`
	Note         string             `json:"note"`
	Lines        []SaleLineRequest  `json:"lines" validate:"required,min=1,dive"`
	RestaurantID *uint              `json:"restaurant_id"` // super_admin
}

type UpdateSaleStatusRequest struct {
	Status models.SaleStatus `json:"status" validate:"required"`
}

type SaleLineResponse struct {
	ID          uint            `json:"id"`
	MenuItemID  *uint           `json:"menu_item_id,omitempty"`
	ComboID     *uint           `json:"combo_id,omitempty"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	GrossProfit decimal.Decimal `json:"gross_profit"`
	Margin      decimal.Decimal `json:"margin"`
}

type SaleResponse struct {
	ID           uint               `json:"id"`
	RestaurantID uint               `json:"restaurant_id"`
	Date         time.Time          `json:"date"`
	Status       models.SaleStatus  `json:"status"`
	Channel      models.SaleChannel `json:"channel"`
	Total        decimal.Decimal    `json:"total"`
	Note         string             `json:"note,omitempty"`
	Lines        []SaleLineResponse `json:"lines,omitempty"`
}

func toResponse(sale models.Sale, withLines bool) SaleResponse {
	resp := SaleResponse{
		ID:           sale.ID,
		RestaurantID: sale.RestaurantID,
		Date:         sale.Date,
		Status:       sale.Status,
		Channel:      sale.Channel,
		Total:        sale.Total,
		Note:         sale.Note,
	}
	if withLines {
		resp.Lines = make([]SaleLineResponse, 0, len(sale.Lines))
		for _, line := range sale.Lines {
			resp.Lines = append(resp.Lines, SaleLineResponse{
				ID:          line.ID,
				MenuItemID:  line.MenuItemID,
				ComboID:     line.ComboID,
				ProductName: line.ProductName,
				Quantity:    line.Quantity,
				UnitPrice:   line.UnitPrice,
				CostPrice:   line.CostPrice,
				GrossProfit: line.GrossProfit,
				Margin:      line.Margin,
			})
		}
	}
	return resp
}

func validChannel(ch models.SaleChannel) bool {
	switch ch {
	case models.SaleChannelCounter, models.SaleChannelDelivery, models.SaleChannelIFood:
		return true
	}
	return false
}

// snapshotLine congela preço e custo da linha no momento da venda. Para
// combos o custo é a soma dos custos dos itens vezes suas quantidades.
func snapshotLine(restaurantID uint, req SaleLineRequest) (*models.SaleLine, error) {
	if (req.MenuItemID == nil) == (req.ComboID == nil) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Cada linha precisa de menu_item_id ou combo_id, nunca ambos")
	}

	line := models.SaleLine{Quantity: req.Quantity}

	if req.MenuItemID != nil {
		var item models.MenuItem
		if err := database.DB.Where("restaurant_id = ?", restaurantID).
			First(&item, "id = ?", *req.MenuItemID).Error; err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Item de cardápio não encontrado")
		}
		line.MenuItemID = req.MenuItemID
		line.ProductName = item.Name
		line.UnitPrice = item.Price
		line.CostPrice = item.CostPrice
	} else {
		var cb models.Combo
		if err := database.DB.Preload("Items.MenuItem").
			Where("restaurant_id = ?", restaurantID).
			First(&cb, "id = ?", *req.ComboID).Error; err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Combo não encontrado")
		}
		cost := decimal.Zero
		for _, item := range cb.Items {
			cost = cost.Add(item.MenuItem.CostPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
		line.ComboID = req.ComboID
		line.ProductName = cb.Name
		line.UnitPrice = cb.Price
		line.CostPrice = cost
	}

	line.GrossProfit = line.UnitPrice.Sub(line.CostPrice)
	if line.UnitPrice.IsZero() {
		line.Margin = decimal.Zero
	} else {
		line.Margin = line.GrossProfit.Div(line.UnitPrice).Mul(decimal.NewFromInt(100))
	}
	return &line, nil
}

// POST /api/sales - a venda nasce aberta
func CreateSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSaleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados inválidos")
		}
		if err := validation.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if !validChannel(body.Channel) {
			return fiber.NewError(fiber.StatusBadRequest, "Canal de venda inválido")
		}

		restaurantID, err := auth.RestaurantIDForRequest(c, body.RestaurantID)
		if err != nil {
			return err
		}

		date := time.Now()
		if body.Date != nil {
			date = *body.Date
		}

		sale := models.Sale{
			RestaurantID: restaurantID,
			Date:         date,
			Status:       models.SaleStatusOpen,
			Channel:      body.Channel,
			Note:         strings.TrimSpace(body.Note),
		}

		total := decimal.Zero
		for _, lineReq := range body.Lines {
			line, err := snapshotLine(restaurantID, lineReq)
			if err != nil {
				return err
			}
			total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
			sale.Lines = append(sale.Lines, *line)
		}
		sale.Total = total

		if err := database.DB.Create(&sale).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível registrar a venda")
		}

		writeAudit(c, sale, models.AuditActionCreate, nil)

		return c.Status(fiber.StatusCreated).JSON(toResponse(sale, true))
	}
}

// GET /api/sales?status=&channel=&from=&to=
func ListSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDForRequest(c, nil)
		if err != nil {
			return err
		}

		query := database.DB.Where("restaurant_id = ?", restaurantID)
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}
		if channel := c.Query("channel"); channel != "" {
			query = query.Where("channel = ?", channel)
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

		var sales []models.Sale
		if err := query.Order("date desc, id desc").Limit(500).Find(&sales).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar as vendas")
		}

		res := make([]SaleResponse, 0, len(sales))
		for _, sale := range sales {
			res = append(res, toResponse(sale, false))
		}
		return c.JSON(res)
	}
}

// GET /api/sales/:id
func GetSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDForRequest(c, nil)
		if err != nil {
			return err
		}

		var sale models.Sale
		if err := database.DB.Preload("Lines").
			Where("restaurant_id = ?", restaurantID).
			First(&sale, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Venda não encontrada")
		}

		return c.JSON(toResponse(sale, true))
	}
}

// PATCH /api/sales/:id/status - aberta -> paga|cancelada; paga e cancelada
// são estados finais.
func UpdateSaleStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDForRequest(c, nil)
		if err != nil {
			return err
		}

		var sale models.Sale
		if err := database.DB.Where("restaurant_id = ?", restaurantID).
			First(&sale, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Venda não encontrada")
		}

		var body UpdateSaleStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados inválidos")
		}

		if body.Status != models.SaleStatusPaid && body.Status != models.SaleStatusCancelled {
			return fiber.NewError(fiber.StatusBadRequest, "Status inválido")
		}
		if sale.Status != models.SaleStatusOpen {
			return fiber.NewError(fiber.StatusConflict, "Venda já foi finalizada")
		}

		before := toResponse(sale, false)
		sale.Status = body.Status
		if err := database.DB.Save(&sale).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar a venda")
		}

		writeAudit(c, sale, models.AuditActionUpdate, before)

		return c.JSON(toResponse(sale, false))
	}
}

// DELETE /api/sales/:id - só enquanto aberta
func DeleteSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDForRequest(c, nil)
		if err != nil {
			return err
		}

		var sale models.Sale
		if err := database.DB.Where("restaurant_id = ?", restaurantID).
			First(&sale, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Venda não encontrada")
		}

		if sale.Status != models.SaleStatusOpen {
			return fiber.NewError(fiber.StatusConflict, "Somente vendas abertas podem ser excluídas")
		}

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("sale_id = ?", sale.ID).Delete(&models.SaleLine{}).Error; err != nil {
				return err
			}
			return tx.Delete(&sale).Error
		})
		if txErr != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir a venda")
		}

		writeAudit(c, sale, models.AuditActionDelete, toResponse(sale, false))

		return c.SendStatus(fiber.StatusNoContent)
	}
}

func writeAudit(c *fiber.Ctx, sale models.Sale, action models.AuditAction, before any) {
	userID, userName, err := auth.UserInfo(c)
	if err != nil {
		return
	}

	var after any
	if action != models.AuditActionDelete {
		after = toResponse(sale, false)
	}

	if logErr := audit.WriteLog(audit.LogOptions{
		RestaurantID: &sale.RestaurantID,
		UserID:       userID,
		UserName:     userName,
		EntityType:   "sale",
		EntityID:     sale.ID,
		Action:       action,
		Description:  "Venda " + string(sale.Channel),
		Before:       before,
		After:        after,
	}); logErr != nil {
		logger.LogError("order", "writeAudit", "falha ao gravar auditoria", logErr)
	}
}
