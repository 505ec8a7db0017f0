package products

import (
	"errors"
	"strings"

	"soderia-backend/internal/apperr"
	"soderia-backend/internal/models"

	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type CreateInput struct {
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	IsReturnable bool    `json:"is_returnable"`
}

type UpdateInput struct {
	Code         *string  `json:"code"`
	Name         *string  `json:"name"`
	Price        *float64 `json:"price"`
	IsReturnable *bool    `json:"is_returnable"`
}

func (s *Service) Create(in CreateInput) (*models.Product, error) {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	if in.Code == "" || in.Name == "" {
		return nil, apperr.Validation("Código y nombre son obligatorios")
	}
	if in.Price < 0 {
		return nil, apperr.Validation("El precio no puede ser negativo")
	}

	var count int64
	if err := s.db.Model(&models.Product{}).Where("code = ?", in.Code).Count(&count).Error; err != nil {
		return nil, apperr.Persistence("No se pudo verificar el código", err)
	}
	if count > 0 {
		return nil, apperr.Validation("Ya existe un producto con ese código")
	}

	product := models.Product{
		Code:         in.Code,
		Name:         in.Name,
		Price:        in.Price,
		IsReturnable: in.IsReturnable,
	}
	if err := s.db.Create(&product).Error; err != nil {
		return nil, apperr.Persistence("No se pudo crear el producto", err)
	}
	return &product, nil
}

func (s *Service) Get(id uint) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Producto no encontrado")
		}
		return nil, apperr.Persistence("No se pudo leer el producto", err)
	}
	return &product, nil
}

func (s *Service) List() ([]models.Product, error) {
	var result []models.Product
	if err := s.db.Order("name ASC").Find(&result).Error; err != nil {
		return nil, apperr.Persistence("No se pudieron listar los productos", err)
	}
	return result, nil
}

func (s *Service) Update(id uint, in UpdateInput) (*models.Product, error) {
	product, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if in.Code != nil {
		code := strings.TrimSpace(*in.Code)
		if code == "" {
			return nil, apperr.Validation("El código no puede quedar vacío")
		}
		var count int64
		if err := s.db.Model(&models.Product{}).Where("code = ? AND id <> ?", code, id).Count(&count).Error; err != nil {
			return nil, apperr.Persistence("No se pudo verificar el código", err)
		}
		if count > 0 {
			return nil, apperr.Validation("Ya existe un producto con ese código")
		}
		product.Code = code
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperr.Validation("El nombre no puede quedar vacío")
		}
		product.Name = name
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, apperr.Validation("El precio no puede ser negativo")
		}
		product.Price = *in.Price
	}
	if in.IsReturnable != nil {
		product.IsReturnable = *in.IsReturnable
	}

	if err := s.db.Save(product).Error; err != nil {
		return nil, apperr.Persistence("No se pudo actualizar el producto", err)
	}
	return product, nil
}

// Delete rechaza el borrado si algún pedido referencia al producto; los
// renglones históricos necesitan su producto.
func (s *Service) Delete(id uint) error {
	product, err := s.Get(id)
	if err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&models.OrderItem{}).Where("product_id = ?", id).Count(&count).Error; err != nil {
		return apperr.Persistence("No se pudieron verificar los pedidos", err)
	}
	if count > 0 {
		return apperr.InvalidState("No se puede eliminar un producto con pedidos registrados")
	}

	if err := s.db.Delete(product).Error; err != nil {
		return apperr.Persistence("No se pudo eliminar el producto", err)
	}
	return nil
}
