package models

import "time"

type TransactionType string

const (
	TransactionDebit  TransactionType = "DEBIT"  // aumenta la deuda (venta a cuenta, cargo)
	TransactionCredit TransactionType = "CREDIT" // baja la deuda (pago recibido)
)

// ClientTransaction - Movimiento de cuenta corriente.
// Libro de solo-agregado: nunca se actualiza ni se borra.
type ClientTransaction struct {
	ID          uint            `gorm:"primaryKey"`
	ClientID    uint            `gorm:"index;not null"`
	Client      Client          `gorm:"foreignKey:ClientID"`
	Type        TransactionType `gorm:"size:10;not null;index"`
	Amount      float64         `gorm:"not null"` // siempre positivo, el tipo determina el signo
	Concept     string          `gorm:"size:255;not null"`
	Description string          `gorm:"size:500"`
	ReferenceID *uint           `gorm:"index"` // pedido que lo originó, si corresponde
	CreatedAt   time.Time
}
