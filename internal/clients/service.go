package clients

import (
	"errors"
	"unicode/utf8"

	"soderia-backend/internal/apperr"
	"soderia-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service opera la cuenta corriente de clientes. Todas las mutaciones de
// saldo pasan por acá y escriben primero el movimiento en el libro.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type CreateInput struct {
	Name           string  `json:"name"`
	Address        string  `json:"address"`
	Phone          string  `json:"phone"`
	Zone           string  `json:"zone"`
	Balance        float64 `json:"balance"`
	BottlesBalance int     `json:"bottles_balance"`
}

type UpdateInput struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
	Zone    *string `json:"zone"`
}

// Create valida los campos y aplica el control anti-duplicado: si ya existe
// un cliente con el mismo nombre y dirección devuelve ese registro en vez
// de crear otro.
func (s *Service) Create(in CreateInput) (*models.Client, error) {
	if utf8.RuneCountInString(in.Name) < 2 {
		return nil, apperr.Validation("El nombre debe tener al menos 2 caracteres")
	}
	if utf8.RuneCountInString(in.Address) < 5 {
		return nil, apperr.Validation("La dirección es demasiado corta")
	}

	var existing models.Client
	err := s.db.Where("name = ? AND address = ?", in.Name, in.Address).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Persistence("No se pudo verificar el cliente", err)
	}

	client := models.Client{
		Name:           in.Name,
		Address:        in.Address,
		Phone:          in.Phone,
		Zone:           in.Zone,
		Balance:        in.Balance,
		BottlesBalance: in.BottlesBalance,
	}
	if err := s.db.Create(&client).Error; err != nil {
		return nil, apperr.Persistence("No se pudo crear el cliente", err)
	}
	return &client, nil
}

func (s *Service) Get(id uint) (*models.Client, error) {
	var client models.Client
	if err := s.db.First(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Cliente no encontrado")
		}
		return nil, apperr.Persistence("No se pudo leer el cliente", err)
	}
	return &client, nil
}

// List busca por nombre o dirección y ordena por nombre, o por deuda
// descendente si sortByDebt es true.
func (s *Service) List(search string, sortByDebt bool) ([]models.Client, error) {
	q := s.db.Model(&models.Client{})
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("name LIKE ? OR address LIKE ?", like, like)
	}
	if sortByDebt {
		q = q.Order("balance DESC")
	} else {
		q = q.Order("name ASC")
	}

	var result []models.Client
	if err := q.Find(&result).Error; err != nil {
		return nil, apperr.Persistence("No se pudieron listar los clientes", err)
	}
	return result, nil
}

func (s *Service) Update(id uint, in UpdateInput) (*models.Client, error) {
	client, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if utf8.RuneCountInString(*in.Name) < 2 {
			return nil, apperr.Validation("El nombre debe tener al menos 2 caracteres")
		}
		client.Name = *in.Name
	}
	if in.Address != nil {
		if utf8.RuneCountInString(*in.Address) < 5 {
			return nil, apperr.Validation("La dirección es demasiado corta")
		}
		client.Address = *in.Address
	}
	if in.Phone != nil {
		client.Phone = *in.Phone
	}
	if in.Zone != nil {
		client.Zone = *in.Zone
	}

	if err := s.db.Save(client).Error; err != nil {
		return nil, apperr.Persistence("No se pudo actualizar el cliente", err)
	}
	return client, nil
}

// Delete rechaza el borrado mientras existan movimientos o pedidos que
// referencien al cliente; el libro nunca queda huérfano.
func (s *Service) Delete(id uint) error {
	client, err := s.Get(id)
	if err != nil {
		return err
	}

	var txCount int64
	if err := s.db.Model(&models.ClientTransaction{}).Where("client_id = ?", id).Count(&txCount).Error; err != nil {
		return apperr.Persistence("No se pudo verificar la cuenta corriente", err)
	}
	var orderCount int64
	if err := s.db.Model(&models.Order{}).Where("client_id = ?", id).Count(&orderCount).Error; err != nil {
		return apperr.Persistence("No se pudieron verificar los pedidos", err)
	}
	if txCount > 0 || orderCount > 0 {
		return apperr.InvalidState("No se puede eliminar un cliente con movimientos o pedidos registrados")
	}

	if err := s.db.Delete(client).Error; err != nil {
		return apperr.Persistence("No se pudo eliminar el cliente", err)
	}
	return nil
}

// RegisterPayment asienta un CREDIT en el libro y baja el saldo del cliente,
// las dos escrituras en una sola transacción.
func (s *Service) RegisterPayment(clientID uint, amount float64, description string) (*models.Client, error) {
	return s.postEntry(clientID, models.TransactionCredit, amount, "Pago recibido", orDefault(description, "Pago a cuenta"))
}

// RegisterCharge asienta un DEBIT en el libro y sube el saldo del cliente.
func (s *Service) RegisterCharge(clientID uint, amount float64, description string) (*models.Client, error) {
	return s.postEntry(clientID, models.TransactionDebit, amount, "Cargo manual", orDefault(description, "Cargo extra"))
}

func (s *Service) postEntry(clientID uint, txType models.TransactionType, amount float64, concept, description string) (*models.Client, error) {
	if amount <= 0 {
		return nil, apperr.Validation("El monto debe ser mayor a 0")
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

	var client models.Client
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&client, clientID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Cliente no encontrado")
		}
		return nil, apperr.Persistence("No se pudo leer el cliente", err)
	}

	entry := models.ClientTransaction{
		ClientID:    clientID,
		Type:        txType,
		Amount:      amount,
		Concept:     concept,
		Description: description,
	}
	if err := tx.Create(&entry).Error; err != nil {
		tx.Rollback()
		return nil, apperr.Persistence("No se pudo registrar el movimiento", err)
	}

	switch txType {
	case models.TransactionCredit:
		client.Balance -= amount
	case models.TransactionDebit:
		client.Balance += amount
	}
	if err := tx.Model(&models.Client{}).Where("id = ?", clientID).
		Update("balance", client.Balance).Error; err != nil {
		tx.Rollback()
		return nil, apperr.Persistence("No se pudo actualizar el saldo", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperr.Persistence("No se pudo confirmar la operación", err)
	}
	return &client, nil
}

// Transactions devuelve el libro del cliente, el movimiento más nuevo primero.
func (s *Service) Transactions(clientID uint) ([]models.ClientTransaction, error) {
	if _, err := s.Get(clientID); err != nil {
		return nil, err
	}
	var entries []models.ClientTransaction
	if err := s.db.Where("client_id = ?", clientID).Order("created_at DESC, id DESC").Find(&entries).Error; err != nil {
		return nil, apperr.Persistence("No se pudo leer la cuenta corriente", err)
	}
	return entries, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
