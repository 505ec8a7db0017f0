package database

import (
	"fmt"

	"soderia-backend/internal/config"
	"soderia-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open conecta a Postgres y corre las migraciones. La conexión se inyecta
// a cada servicio; no hay estado global compartido.
func Open(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("no se pudo conectar a la base de datos: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate aplica el esquema completo. Lo usan también las bases de prueba.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.ClientTransaction{},
		&models.Product{},
		&models.Warehouse{},
		&models.Stock{},
		&models.Order{},
		&models.OrderItem{},
		&models.Delivery{},
		&models.CashMovement{},
	)
	if err != nil {
		return fmt.Errorf("error en AutoMigrate: %w", err)
	}
	return nil
}
