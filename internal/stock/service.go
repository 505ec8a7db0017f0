package stock

import (
	"errors"

	"soderia-backend/internal/apperr"
	"soderia-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service lleva la existencia por depósito y producto. No hay reservas ni
// control de mínimos: la cantidad puede quedar negativa.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Levels() ([]models.Stock, error) {
	var result []models.Stock
	err := s.db.Preload("Product").Preload("Warehouse").
		Order("warehouse_id ASC, product_id ASC").Find(&result).Error
	if err != nil {
		return nil, apperr.Persistence("No se pudo leer el stock", err)
	}
	return result, nil
}

func (s *Service) Warehouses() ([]models.Warehouse, error) {
	var result []models.Warehouse
	if err := s.db.Order("id ASC").Find(&result).Error; err != nil {
		return nil, apperr.Persistence("No se pudieron listar los depósitos", err)
	}
	return result, nil
}

// Adjust suma delta a la existencia de (depósito, producto): busca la fila
// con lock y la actualiza, o la crea con delta si no existe todavía.
func (s *Service) Adjust(warehouseID, productID uint, delta int) (*models.Stock, error) {
	var count int64
	if err := s.db.Model(&models.Warehouse{}).Where("id = ?", warehouseID).Count(&count).Error; err != nil || count == 0 {
		if err != nil {
			return nil, apperr.Persistence("No se pudo verificar el depósito", err)
		}
		return nil, apperr.NotFound("Depósito no encontrado")
	}
	if err := s.db.Model(&models.Product{}).Where("id = ?", productID).Count(&count).Error; err != nil || count == 0 {
		if err != nil {
			return nil, apperr.Persistence("No se pudo verificar el producto", err)
		}
		return nil, apperr.NotFound("Producto no encontrado")
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, apperr.Persistence("No se pudo iniciar la transacción", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	var row models.Stock
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("warehouse_id = ? AND product_id = ?", warehouseID, productID).
		First(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = models.Stock{
			WarehouseID: warehouseID,
			ProductID:   productID,
			Quantity:    delta,
		}
		if err := tx.Create(&row).Error; err != nil {
			tx.Rollback()
			return nil, apperr.Persistence("No se pudo crear la fila de stock", err)
		}
	case err != nil:
		tx.Rollback()
		return nil, apperr.Persistence("No se pudo leer el stock", err)
	default:
		row.Quantity += delta
		if err := tx.Model(&models.Stock{}).Where("id = ?", row.ID).
			Update("quantity", row.Quantity).Error; err != nil {
			tx.Rollback()
			return nil, apperr.Persistence("No se pudo ajustar el stock", err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperr.Persistence("No se pudo confirmar el ajuste", err)
	}
	return &row, nil
}
