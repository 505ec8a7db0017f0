package models

import "time"

type OrderStatus string

const (
	OrderConfirmed OrderStatus = "CONFIRMED"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
)

type PaymentMethod string

const (
	PaymentCash           PaymentMethod = "CASH"
	PaymentCurrentAccount PaymentMethod = "CURRENT_ACCOUNT"
	PaymentTransfer       PaymentMethod = "TRANSFER"
	PaymentMixed          PaymentMethod = "MIXED"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentPaid      PaymentStatus = "PAID"
	PaymentOnAccount PaymentStatus = "ON_ACCOUNT"
)

// Order - Pedido. TotalAmount se calcula al crearlo y no cambia más.
// DeliveryID es una referencia débil al reparto: el pedido existe por
// su cuenta y puede desengancharse.
type Order struct {
	ID            uint          `gorm:"primaryKey"`
	ClientID      uint          `gorm:"index;not null"`
	Client        Client        `gorm:"foreignKey:ClientID"`
	Status        OrderStatus   `gorm:"size:20;not null;index"`
	TotalAmount   float64       `gorm:"not null"`
	PaymentMethod PaymentMethod `gorm:"size:20"`
	PaymentStatus PaymentStatus `gorm:"size:20;not null;default:PENDING"`
	PaymentAmount float64       `gorm:"not null;default:0"` // lo cobrado en el momento
	Notes         string        `gorm:"size:500"`
	DeliveryID    *uint         `gorm:"index"`
	Items         []OrderItem   `gorm:"foreignKey:OrderID"`
	CreatedBy     uint          `gorm:"index"`
	PaidAt        *time.Time
	DeliveredAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type OrderItem struct {
	ID        uint    `gorm:"primaryKey"`
	OrderID   uint    `gorm:"index;not null"`
	ProductID uint    `gorm:"index;not null"`
	Product   Product `gorm:"foreignKey:ProductID"`
	Quantity  int     `gorm:"not null"`
	UnitPrice float64 `gorm:"not null"` // precio congelado al crear el pedido
	Subtotal  float64 `gorm:"not null"`
}
