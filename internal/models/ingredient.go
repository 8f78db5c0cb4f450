package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Ingredient struct {
	ID            uint `gorm:"primaryKey"`
	RestaurantID  uint `gorm:"index;not null"`
	Restaurant    Restaurant
	Name          string          `gorm:"size:100;not null"`
	Unit          string          `gorm:"size:20;not null"`      // kg, l, un etc.
	CostPerUnit   decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	StockQuantity decimal.Decimal `gorm:"type:decimal(20,4);default:0"` // estoque opcional
	MinStock      decimal.Decimal `gorm:"type:decimal(20,4);default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
