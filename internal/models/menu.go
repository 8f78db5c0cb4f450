package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type MenuCategory struct {
	ID           uint `gorm:"primaryKey"`
	RestaurantID uint `gorm:"index;not null"`
	Restaurant   Restaurant
	Name         string `gorm:"size:100;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MenuItem - item de cardápio. Se ManualPricing=false e existe ficha técnica,
// Price é derivado da margem desejada; caso contrário Price foi digitado pela
// equipe e a margem vira apenas informativa.
type MenuItem struct {
	ID             uint `gorm:"primaryKey"`
	RestaurantID   uint `gorm:"index;not null"`
	Restaurant     Restaurant
	CategoryID     *uint `gorm:"index"`
	Category       *MenuCategory
	RecipeID       *uint `gorm:"index"`
	Recipe         *Recipe
	Name           string          `gorm:"size:100;not null"`
	Description    string          `gorm:"size:255"`
	Price          decimal.Decimal `gorm:"type:decimal(20,4);not null"` // preço cobrado
	SuggestedPrice decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	DesiredMargin  decimal.Decimal `gorm:"type:decimal(20,4);not null"` // escala 0-100
	ManualPricing  bool            `gorm:"not null;default:false"`
	CostPrice      decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	GrossProfit    decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	ActualMargin   decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Active         bool            `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
