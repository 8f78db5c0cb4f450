package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Plan struct {
	ID           uint            `gorm:"primaryKey"`
	Name         string          `gorm:"size:100;not null;unique"`
	PriceMonthly decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Description  string          `gorm:"size:255"`
	Features     string          `gorm:"type:text"` // uma feature por linha
	Active       bool            `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "ativa"
	SubscriptionCancelled SubscriptionStatus = "cancelada"
)

type Subscription struct {
	ID               uint `gorm:"primaryKey"`
	RestaurantID     uint `gorm:"index;not null"`
	Restaurant       Restaurant
	PlanID           uint `gorm:"index;not null"`
	Plan             Plan
	Status           SubscriptionStatus `gorm:"size:20;not null"`
	CurrentPeriodEnd time.Time          `gorm:"not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type RoadmapStatus string

const (
	RoadmapPlanned    RoadmapStatus = "planejado"
	RoadmapInProgress RoadmapStatus = "em_andamento"
	RoadmapDone       RoadmapStatus = "entregue"
)

// RoadmapItem - item público do roadmap exibido no site institucional.
type RoadmapItem struct {
	ID          uint          `gorm:"primaryKey"`
	Title       string        `gorm:"size:100;not null"`
	Description string        `gorm:"size:255"`
	Status      RoadmapStatus `gorm:"size:20;not null"`
	Quarter     string        `gorm:"size:10"` // ex: "2026-Q1"
	SortOrder   int           `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
