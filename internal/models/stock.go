package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type StockDirection string

const (
	StockDirectionIn  StockDirection = "entrada"
	StockDirectionOut StockDirection = "saida"
)

type StockMovement struct {
	ID           uint `gorm:"primaryKey"`
	RestaurantID uint `gorm:"index;not null"`
	Restaurant   Restaurant
	IngredientID uint `gorm:"index;not null"`
	Ingredient   Ingredient
	Date         time.Time       `gorm:"index;not null"`
	Direction    StockDirection  `gorm:"size:10;not null"`
	Quantity     decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Description  string          `gorm:"size:255"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// WasteEntry - desperdício de insumo. O valor perdido entra na leitura de
// CMV do mês como custo sem receita correspondente.
type WasteEntry struct {
	ID           uint `gorm:"primaryKey"`
	RestaurantID uint `gorm:"index;not null"`
	Restaurant   Restaurant
	IngredientID uint `gorm:"index;not null"`
	Ingredient   Ingredient
	Date         time.Time       `gorm:"index;not null"`
	Quantity     decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	WasteValue   decimal.Decimal `gorm:"type:decimal(20,4);not null"` // quantity * cost_per_unit no momento do registro
	Reason       string          `gorm:"size:255"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
