package orders

import (
	"errors"
	"fmt"

	"soderia-backend/internal/apperr"
	"soderia-backend/internal/models"

	"gorm.io/gorm"
)

// Service maneja el ciclo de vida del pedido: CONFIRMED -> DELIVERED
// (vía reparto) o CONFIRMED -> CANCELLED. Los renglones y el total quedan
// congelados al crearlo.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type ItemInput struct {
	ProductID uint    `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"` // si viene en 0 se congela el precio de lista actual
}

type CreateInput struct {
	ClientID  uint        `json:"client_id"`
	Items     []ItemInput `json:"items"`
	Notes     string      `json:"notes"`
	CreatedBy uint        `json:"-"`
}

func (s *Service) Create(in CreateInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, apperr.Validation("El pedido necesita al menos un renglón")
	}

	var client models.Client
	if err := s.db.First(&client, in.ClientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Cliente no encontrado")
		}
		return nil, apperr.Persistence("No se pudo leer el cliente", err)
	}

	// El precio unitario se congela acá: el del pedido, o el de lista si no vino
	var totalAmount float64
	items := make([]models.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return nil, apperr.Validation("La cantidad debe ser mayor a 0")
		}
		var product models.Product
		if err := s.db.First(&product, it.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.Validation(fmt.Sprintf("Producto %d no encontrado", it.ProductID))
			}
			return nil, apperr.Persistence("No se pudo leer el producto", err)
		}

		unitPrice := it.UnitPrice
		if unitPrice <= 0 {
			unitPrice = product.Price
		}
		subtotal := float64(it.Quantity) * unitPrice
		totalAmount += subtotal

		items = append(items, models.OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: unitPrice,
			Subtotal:  subtotal,
		})
	}

	order := models.Order{
		ClientID:      in.ClientID,
		Status:        models.OrderConfirmed,
		TotalAmount:   totalAmount,
		PaymentStatus: models.PaymentPending,
		Notes:         in.Notes,
		Items:         items,
		CreatedBy:     in.CreatedBy,
	}

	// Pedido y renglones en una sola transacción
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

	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		return nil, apperr.Persistence("No se pudo crear el pedido", err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperr.Persistence("No se pudo confirmar el pedido", err)
	}

	return s.Get(order.ID)
}

func (s *Service) Get(id uint) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").Preload("Items.Product").Preload("Client").First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Pedido no encontrado")
		}
		return nil, apperr.Persistence("No se pudo leer el pedido", err)
	}
	return &order, nil
}

func (s *Service) List(clientID uint, status models.OrderStatus) ([]models.Order, error) {
	q := s.db.Preload("Items").Preload("Items.Product").Preload("Client")
	if clientID != 0 {
		q = q.Where("client_id = ?", clientID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var result []models.Order
	if err := q.Order("created_at DESC").Find(&result).Error; err != nil {
		return nil, apperr.Persistence("No se pudieron listar los pedidos", err)
	}
	return result, nil
}

// Cancel marca el pedido CANCELLED. Un pedido entregado ya asentó plata y
// stock, cancelarlo dejaría todo sin revertir: se rechaza.
func (s *Service) Cancel(id uint) (*models.Order, error) {
	order, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	switch order.Status {
	case models.OrderDelivered:
		return nil, apperr.InvalidState("No se puede cancelar un pedido entregado")
	case models.OrderCancelled:
		return order, nil
	}

	if err := s.db.Model(&models.Order{}).Where("id = ?", id).
		Update("status", models.OrderCancelled).Error; err != nil {
		return nil, apperr.Persistence("No se pudo cancelar el pedido", err)
	}
	order.Status = models.OrderCancelled
	return order, nil
}

// Delete borra renglones y pedido juntos. Un pedido entregado no se borra.
func (s *Service) Delete(id uint) error {
	order, err := s.Get(id)
	if err != nil {
		return err
	}
	if order.Status == models.OrderDelivered {
		return apperr.InvalidState("No se puede eliminar un pedido entregado")
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

	if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
		tx.Rollback()
		return apperr.Persistence("No se pudieron eliminar los renglones", err)
	}
	if err := tx.Delete(&models.Order{}, id).Error; err != nil {
		tx.Rollback()
		return apperr.Persistence("No se pudo eliminar el pedido", err)
	}
	if err := tx.Commit().Error; err != nil {
		return apperr.Persistence("No se pudo confirmar el borrado", err)
	}
	return nil
}
