package combo

import (
	"errors"

	"donmenu-backend/internal/database"
	"donmenu-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PriceResolver implementa costing.MenuItemPriceResolver em cima do banco,
// no escopo do restaurante.
type PriceResolver struct{}

func (PriceResolver) MenuItemPrice(restaurantID, menuItemID uint) (decimal.Decimal, bool, error) {
	var item models.MenuItem
	err := database.DB.
		Where("restaurant_id = ? AND id = ?", restaurantID, menuItemID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, err
	}
	return item.Price, true, nil
}
