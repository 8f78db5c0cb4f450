package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type SaleStatus string

const (
	SaleStatusOpen      SaleStatus = "aberta"
	SaleStatusPaid      SaleStatus = "paga"
	SaleStatusCancelled SaleStatus = "cancelada"
)

type SaleChannel string

const (
	SaleChannelCounter  SaleChannel = "balcao"
	SaleChannelDelivery SaleChannel = "delivery"
	SaleChannelIFood    SaleChannel = "ifood"
)

type Sale struct {
	ID           uint `gorm:"primaryKey"`
	RestaurantID uint `gorm:"index;not null"`
	Restaurant   Restaurant
	Date         time.Time       `gorm:"index;not null"`
	Status       SaleStatus      `gorm:"size:20;not null"`
	Channel      SaleChannel     `gorm:"size:20;not null"`
	Total        decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Note         string          `gorm:"size:255"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Lines []SaleLine `gorm:"constraint:OnDelete:CASCADE"`
}

// SaleLine - congela preço e custo no momento da venda, para o CMV não
// mudar retroativamente quando o insumo ficar mais caro.
type SaleLine struct {
	ID          uint  `gorm:"primaryKey"`
	SaleID      uint  `gorm:"index;not null"`
	MenuItemID  *uint `gorm:"index"`
	ComboID     *uint `gorm:"index"`
	ProductName string          `gorm:"size:100;not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	CostPrice   decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	GrossProfit decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Margin      decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
