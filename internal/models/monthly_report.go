package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyReport - fechamento do mês gravado pelo dono. Os números são uma
// fotografia do momento do fechamento; relançamentos posteriores não o
// alteram.
type MonthlyReport struct {
	ID            uint `gorm:"primaryKey"`
	RestaurantID  uint `gorm:"index;not null"`
	Restaurant    Restaurant
	Year          int             `gorm:"not null"`
	Month         int             `gorm:"not null"`
	TotalRevenue  decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	TotalExpenses decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	TotalCost     decimal.Decimal `gorm:"type:decimal(20,4);not null"` // custo de mercadoria das vendas pagas
	CMV           decimal.Decimal `gorm:"type:decimal(20,4);not null"` // percentual
	NetProfit     decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Note          string          `gorm:"size:255"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
