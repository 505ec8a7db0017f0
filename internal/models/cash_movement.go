package models

import "time"

type CashMovementType string

const (
	CashIncome  CashMovementType = "INCOME"
	CashExpense CashMovementType = "EXPENSE"
)

// CashMovement - Movimiento de caja. Registro inmutable; el saldo diario
// se calcula sumando sobre el rango de fechas, no se mantiene acumulado.
type CashMovement struct {
	ID            uint             `gorm:"primaryKey"`
	Amount        float64          `gorm:"not null"`
	Type          CashMovementType `gorm:"size:10;not null;index"`
	Concept       string           `gorm:"size:255;not null"`
	PaymentMethod PaymentMethod    `gorm:"size:20"`
	ReferenceID   *uint            `gorm:"index"` // pedido que lo originó, si corresponde
	CreatedAt     time.Time        `gorm:"index"`
}
