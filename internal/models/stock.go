package models

import "time"

type Warehouse struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Stock - Existencia por depósito y producto. La cantidad puede quedar
// negativa: la venta nunca se bloquea por falta de stock.
type Stock struct {
	ID          uint      `gorm:"primaryKey"`
	WarehouseID uint      `gorm:"uniqueIndex:idx_stock_warehouse_product;not null"`
	Warehouse   Warehouse `gorm:"foreignKey:WarehouseID"`
	ProductID   uint      `gorm:"uniqueIndex:idx_stock_warehouse_product;not null"`
	Product     Product   `gorm:"foreignKey:ProductID"`
	Quantity    int       `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
