package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ExpenseCategory struct {
	ID           uint `gorm:"primaryKey"`
	RestaurantID uint `gorm:"index;not null"`
	Restaurant   Restaurant
	Name         string `gorm:"size:100;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Expense struct {
	ID           uint `gorm:"primaryKey"`
	RestaurantID uint `gorm:"index;not null"`
	Restaurant   Restaurant
	CategoryID   uint `gorm:"index;not null"`
	Category     ExpenseCategory
	Date         time.Time       `gorm:"index;not null"`
	Amount       decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Description  string          `gorm:"size:255"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
