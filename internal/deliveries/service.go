package deliveries

import (
	"errors"
	"fmt"
	"time"

	"soderia-backend/internal/apperr"
	"soderia-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service arma los repartos y liquida las entregas. Deliver es la operación
// central del sistema: envases, stock, caja o cuenta corriente y estado del
// pedido se asientan en una sola transacción, o no se asienta nada.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type CreateInput struct {
	OrderIDs []uint `json:"order_ids"`
	Notes    string `json:"notes"`
}

type DeliverInput struct {
	PaymentMethod   models.PaymentMethod `json:"payment_method"`
	ReturnedBottles int                  `json:"returned_bottles"`
	Notes           string               `json:"notes"`
}

// Create arma el reparto y le engancha los pedidos en una sola transacción.
// No verifica que los pedidos estén sueltos ni CONFIRMED: eso es
// responsabilidad de quien arma el reparto.
func (s *Service) Create(in CreateInput) (*models.Delivery, error) {
	if len(in.OrderIDs) == 0 {
		return nil, apperr.Validation("El reparto necesita al menos un pedido")
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

	delivery := models.Delivery{
		Status: models.DeliveryPending,
		Notes:  in.Notes,
	}
	if err := tx.Create(&delivery).Error; err != nil {
		tx.Rollback()
		return nil, apperr.Persistence("No se pudo crear el reparto", err)
	}

	if err := tx.Model(&models.Order{}).Where("id IN ?", in.OrderIDs).
		Update("delivery_id", delivery.ID).Error; err != nil {
		tx.Rollback()
		return nil, apperr.Persistence("No se pudieron asignar los pedidos", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperr.Persistence("No se pudo confirmar el reparto", err)
	}
	return s.Get(delivery.ID)
}

func (s *Service) Get(id uint) (*models.Delivery, error) {
	var delivery models.Delivery
	err := s.db.Preload("Orders").Preload("Orders.Client").
		Preload("Orders.Items").Preload("Orders.Items.Product").
		First(&delivery, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Reparto no encontrado")
		}
		return nil, apperr.Persistence("No se pudo leer el reparto", err)
	}
	return &delivery, nil
}

func (s *Service) List() ([]models.Delivery, error) {
	var result []models.Delivery
	err := s.db.Preload("Orders").Preload("Orders.Client").
		Order("created_at DESC").Find(&result).Error
	if err != nil {
		return nil, apperr.Persistence("No se pudieron listar los repartos", err)
	}
	return result, nil
}

// Deliver liquida la entrega de un pedido:
//
//  1. Carga el pedido con lock de fila; si ya está DELIVERED devuelve sin
//     tocar nada, así un reintento es inocuo.
//  2. Cuenta los envases retornables que se llevó el cliente.
//  3. Descuenta stock del depósito por cada renglón (puede quedar negativo).
//  4. CURRENT_ACCOUNT asienta un DEBIT y sube la deuda; cualquier otro medio
//     asienta un ingreso de caja. En ambos casos ajusta el saldo de envases.
//  5. Pasa el pedido a DELIVERED con sus datos de cobro.
//
// Todo dentro de una transacción: si un paso falla no queda ningún asiento.
func (s *Service) Deliver(orderID uint, in DeliverInput) (*models.Order, error) {
	switch in.PaymentMethod {
	case models.PaymentCash, models.PaymentCurrentAccount, models.PaymentTransfer, models.PaymentMixed:
		// ok
	default:
		return nil, apperr.Validation("Medio de pago inválido (CASH|CURRENT_ACCOUNT|TRANSFER|MIXED)")
	}
	if in.ReturnedBottles < 0 {
		return nil, apperr.Validation("Los envases devueltos no pueden ser negativos")
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

	// El chequeo de DELIVERED va adentro de la transacción, sobre la fila
	// lockeada: dos entregas concurrentes del mismo pedido se serializan acá.
	var order models.Order
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, orderID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Pedido no encontrado")
		}
		return nil, apperr.Persistence("No se pudo leer el pedido", err)
	}

	if order.Status == models.OrderDelivered {
		tx.Rollback()
		return s.loadOrder(orderID)
	}

	var items []models.OrderItem
	if err := tx.Preload("Product").Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		tx.Rollback()
		return nil, apperr.Persistence("No se pudieron leer los renglones", err)
	}

	var client models.Client
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&client, order.ClientID).Error; err != nil {
		tx.Rollback()
		return nil, apperr.Persistence("No se pudo leer el cliente", err)
	}

	borrowedBottles := 0
	for _, it := range items {
		if it.Product.IsReturnable {
			borrowedBottles += it.Quantity
		}
	}

	warehouse, err := s.defaultWarehouse(tx)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	for _, it := range items {
		if err := decrementStock(tx, warehouse.ID, it.ProductID, it.Quantity); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	now := time.Now()
	totalAmount := order.TotalAmount
	bottlesDelta := borrowedBottles - in.ReturnedBottles

	var paymentStatus models.PaymentStatus
	var paymentAmount float64

	if in.PaymentMethod == models.PaymentCurrentAccount {
		paymentStatus = models.PaymentOnAccount
		paymentAmount = 0

		entry := models.ClientTransaction{
			ClientID:    client.ID,
			Type:        models.TransactionDebit,
			Amount:      totalAmount,
			Concept:     fmt.Sprintf("Pedido #%d (Entregado)", order.ID),
			Description: orDefault(in.Notes, "Venta a Cuenta Corriente"),
			ReferenceID: &order.ID,
		}
		if err := tx.Create(&entry).Error; err != nil {
			tx.Rollback()
			return nil, apperr.Persistence("No se pudo asentar la venta en cuenta corriente", err)
		}

		client.Balance += totalAmount
		client.BottlesBalance += bottlesDelta
		if err := tx.Model(&models.Client{}).Where("id = ?", client.ID).Updates(map[string]interface{}{
			"balance":         client.Balance,
			"bottles_balance": client.BottlesBalance,
		}).Error; err != nil {
			tx.Rollback()
			return nil, apperr.Persistence("No se pudo actualizar la cuenta del cliente", err)
		}
	} else {
		paymentStatus = models.PaymentPaid
		paymentAmount = totalAmount

		movement := models.CashMovement{
			Amount:        totalAmount,
			Type:          models.CashIncome,
			Concept:       fmt.Sprintf("Cobro Pedido #%d", order.ID),
			PaymentMethod: in.PaymentMethod,
			ReferenceID:   &order.ID,
		}
		if err := tx.Create(&movement).Error; err != nil {
			tx.Rollback()
			return nil, apperr.Persistence("No se pudo asentar el cobro en caja", err)
		}

		client.BottlesBalance += bottlesDelta
		if err := tx.Model(&models.Client{}).Where("id = ?", client.ID).
			Update("bottles_balance", client.BottlesBalance).Error; err != nil {
			tx.Rollback()
			return nil, apperr.Persistence("No se pudo actualizar el saldo de envases", err)
		}
	}

	if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
		"status":         models.OrderDelivered,
		"payment_method": in.PaymentMethod,
		"payment_status": paymentStatus,
		"payment_amount": paymentAmount,
		"paid_at":        now,
		"delivered_at":   now,
	}).Error; err != nil {
		tx.Rollback()
		return nil, apperr.Persistence("No se pudo actualizar el pedido", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperr.Persistence("No se pudo confirmar la entrega", err)
	}

	return s.loadOrder(orderID)
}

// Delete desengancha los pedidos del reparto y recién ahí lo borra. Los
// pedidos nunca se borran en cascada.
func (s *Service) Delete(id uint) error {
	var delivery models.Delivery
	if err := s.db.First(&delivery, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Reparto no encontrado")
		}
		return apperr.Persistence("No se pudo leer el reparto", err)
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return apperr.Persistence("No se pudo iniciar la transacción", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := tx.Model(&models.Order{}).Where("delivery_id = ?", id).
		Update("delivery_id", nil).Error; err != nil {
		tx.Rollback()
		return apperr.Persistence("No se pudieron desenganchar los pedidos", err)
	}
	if err := tx.Delete(&models.Delivery{}, id).Error; err != nil {
		tx.Rollback()
		return apperr.Persistence("No se pudo eliminar el reparto", err)
	}
	if err := tx.Commit().Error; err != nil {
		return apperr.Persistence("No se pudo confirmar el borrado", err)
	}
	return nil
}

// defaultWarehouse devuelve el depósito ancla de los movimientos de stock,
// creándolo la primera vez.
func (s *Service) defaultWarehouse(tx *gorm.DB) (*models.Warehouse, error) {
	var warehouse models.Warehouse
	err := tx.First(&warehouse).Error
	if err == nil {
		return &warehouse, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Persistence("No se pudo leer el depósito", err)
	}

	warehouse = models.Warehouse{Name: "Depósito Central"}
	if err := tx.Create(&warehouse).Error; err != nil {
		return nil, apperr.Persistence("No se pudo crear el depósito", err)
	}
	return &warehouse, nil
}

// decrementStock hace el upsert a mano: busca la fila con lock y resta, o
// la crea en negativo si no existe. La venta no se frena por falta de stock.
func decrementStock(tx *gorm.DB, warehouseID, productID uint, quantity int) error {
	var stock models.Stock
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("warehouse_id = ? AND product_id = ?", warehouseID, productID).
		First(&stock).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		stock = models.Stock{
			WarehouseID: warehouseID,
			ProductID:   productID,
			Quantity:    -quantity,
		}
		if err := tx.Create(&stock).Error; err != nil {
			return apperr.Persistence("No se pudo crear la fila de stock", err)
		}
		return nil
	}
	if err != nil {
		return apperr.Persistence("No se pudo leer el stock", err)
	}

	if err := tx.Model(&models.Stock{}).Where("id = ?", stock.ID).
		Update("quantity", stock.Quantity-quantity).Error; err != nil {
		return apperr.Persistence("No se pudo descontar el stock", err)
	}
	return nil
}

func (s *Service) loadOrder(id uint) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").Preload("Items.Product").Preload("Client").First(&order, id).Error
	if err != nil {
		return nil, apperr.Persistence("No se pudo releer el pedido", err)
	}
	return &order, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
