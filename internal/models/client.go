package models

import "time"

// Client - Cliente de la sodería.
// Balance y BottlesBalance son totales derivados: deben coincidir siempre
// con la suma de sus ClientTransaction. Solo se modifican dentro de la
// misma transacción que registra el movimiento en el libro.
type Client struct {
	ID             uint    `gorm:"primaryKey"`
	Name           string  `gorm:"size:100;index;not null"`
	Address        string  `gorm:"size:255;not null"`
	Phone          string  `gorm:"size:50"`
	Zone           string  `gorm:"size:100;index"`     // zona de reparto
	Balance        float64 `gorm:"not null;default:0"` // positivo = el cliente debe plata
	BottlesBalance int     `gorm:"not null;default:0"` // positivo = el cliente tiene envases prestados
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
