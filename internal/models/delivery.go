package models

import "time"

type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "PENDING"
	DeliveryInTransit DeliveryStatus = "IN_TRANSIT"
	DeliveryDelivered DeliveryStatus = "DELIVERED"
	DeliveryFailed    DeliveryStatus = "FAILED"
)

// Delivery - Reparto. Agrupa pedidos vía Order.DeliveryID; no es dueño
// de los pedidos, al borrarlo se desenganchan, nunca se borran en cascada.
type Delivery struct {
	ID        uint           `gorm:"primaryKey"`
	Status    DeliveryStatus `gorm:"size:20;not null;index"`
	Notes     string         `gorm:"size:500"`
	Orders    []Order        `gorm:"foreignKey:DeliveryID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
