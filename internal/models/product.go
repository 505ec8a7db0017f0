package models

import "time"

type Product struct {
	ID           uint    `gorm:"primaryKey"`
	Code         string  `gorm:"size:50;uniqueIndex;not null"`
	Name         string  `gorm:"size:100;index;not null"`
	Price        float64 `gorm:"not null"`               // precio de lista actual; los pedidos guardan su propio precio
	IsReturnable bool    `gorm:"not null;default:false"` // controla el conteo de envases
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
