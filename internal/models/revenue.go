package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type RevenueMethod string

const (
	RevenueMethodCash  RevenueMethod = "dinheiro"
	RevenueMethodCard  RevenueMethod = "cartao"
	RevenueMethodPix   RevenueMethod = "pix"
	RevenueMethodIFood RevenueMethod = "ifood"
)

// Revenue - lançamento de faturamento do dia, por meio de pagamento.
type Revenue struct {
	ID           uint `gorm:"primaryKey"`
	RestaurantID uint `gorm:"index;not null"`
	Restaurant   Restaurant
	Date         time.Time       `gorm:"index;not null"` // por dia
	Method       RevenueMethod   `gorm:"size:20;not null"`
	Amount       decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Description  string          `gorm:"size:255"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
