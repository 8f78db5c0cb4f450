package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Combo - conjunto de itens de cardápio vendidos por um preço único.
// TotalSavings pode ser negativo (combo mais caro que a soma dos itens);
// isso é aceito e exibido como está.
type Combo struct {
	ID                 uint `gorm:"primaryKey"`
	RestaurantID       uint `gorm:"index;not null"`
	Restaurant         Restaurant
	Name               string           `gorm:"size:100;not null"`
	Description        string           `gorm:"size:255"`
	Price              decimal.Decimal  `gorm:"type:decimal(20,4);not null"`
	Discount           *decimal.Decimal `gorm:"type:decimal(20,4)"` // percentual opcional, escala 0-100
	ValidFrom          *time.Time
	ValidTo            *time.Time
	TotalOriginalPrice decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	TotalSavings       decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Active             bool            `gorm:"not null;default:true"`
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Items []ComboItem `gorm:"constraint:OnDelete:CASCADE"`
}

type ComboItem struct {
	ID                 uint `gorm:"primaryKey"`
	ComboID            uint `gorm:"index;not null"`
	MenuItemID         uint `gorm:"index;not null"`
	MenuItem           MenuItem
	Quantity           int              `gorm:"not null"` // >= 1
	Discount           *decimal.Decimal `gorm:"type:decimal(20,4)"` // desconto do item, escala 0-100
	OriginalSubtotal   decimal.Decimal  `gorm:"type:decimal(20,4);not null"`
	DiscountedSubtotal decimal.Decimal  `gorm:"type:decimal(20,4);not null"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
