package models

import "time"

type Restaurant struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null;unique"`
	Address   string `gorm:"size:255"`
	Phone     string `gorm:"size:50"` // Telefone opcional
	CNPJ      string `gorm:"size:20"` // Opcional
	CreatedAt time.Time
	UpdatedAt time.Time

	Users []User
}
