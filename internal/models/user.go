package models

import "time"

type UserRole string

const (
	RoleAdmin      UserRole = "ADMIN"
	RoleChofer     UserRole = "CHOFER"     // reparte pedidos
	RoleSecretaria UserRole = "SECRETARIA" // carga pedidos y cobros
)

type User struct {
	ID           uint     `gorm:"primaryKey"`
	Username     string   `gorm:"size:100;uniqueIndex;not null"`
	FullName     string   `gorm:"size:100"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null"`
	IsActive     bool     `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
