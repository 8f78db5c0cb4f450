package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recipe - ficha técnica de um prato: insumos, quantidades e rendimento.
// TotalCost e CostPerYield são sempre recalculados pelo motor de custos,
// nunca gravados direto pelo cliente.
type Recipe struct {
	ID            uint `gorm:"primaryKey"`
	RestaurantID  uint `gorm:"index;not null"`
	Restaurant    Restaurant
	Name          string          `gorm:"size:100;not null"`
	YieldQuantity decimal.Decimal `gorm:"type:decimal(20,4);not null"` // deve ser > 0
	YieldUnit     string          `gorm:"size:20;not null"`
	TotalCost     decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	CostPerYield  decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Lines []RecipeLine `gorm:"constraint:OnDelete:CASCADE"`
}

type RecipeLine struct {
	ID           uint `gorm:"primaryKey"`
	RecipeID     uint `gorm:"index;not null"`
	IngredientID uint `gorm:"index;not null"`
	Ingredient   Ingredient
	Quantity     decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Unit         string          `gorm:"size:20;not null"`
	LineCost     decimal.Decimal `gorm:"type:decimal(20,4);not null"` // cost_per_unit * quantity no momento do cálculo
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
