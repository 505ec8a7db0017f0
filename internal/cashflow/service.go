package cashflow

import (
	"time"

	"soderia-backend/internal/apperr"
	"soderia-backend/internal/models"

	"gorm.io/gorm"
)

// Service registra los movimientos de caja. Cada registro es inmutable y el
// saldo se calcula sumando sobre el rango pedido, nunca como acumulado.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type CreateInput struct {
	Amount        float64                 `json:"amount"`
	Type          models.CashMovementType `json:"type"`
	Concept       string                  `json:"concept"`
	PaymentMethod models.PaymentMethod    `json:"payment_method"`
}

type DailySummary struct {
	Date    string  `json:"date"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Net     float64 `json:"net"`
	Count   int     `json:"count"`
}

func (s *Service) Create(in CreateInput) (*models.CashMovement, error) {
	if in.Amount <= 0 {
		return nil, apperr.Validation("El monto debe ser mayor a 0")
	}
	if in.Type != models.CashIncome && in.Type != models.CashExpense {
		return nil, apperr.Validation("Tipo de movimiento inválido (INCOME|EXPENSE)")
	}
	if in.Concept == "" {
		return nil, apperr.Validation("El concepto es obligatorio")
	}

	movement := models.CashMovement{
		Amount:        in.Amount,
		Type:          in.Type,
		Concept:       in.Concept,
		PaymentMethod: in.PaymentMethod,
	}
	if err := s.db.Create(&movement).Error; err != nil {
		return nil, apperr.Persistence("No se pudo registrar el movimiento", err)
	}
	return &movement, nil
}

// ListByDay devuelve los movimientos del día indicado (hoy si no se indica),
// el más nuevo primero.
func (s *Service) ListByDay(day time.Time) ([]models.CashMovement, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var result []models.CashMovement
	err := s.db.Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at DESC, id DESC").Find(&result).Error
	if err != nil {
		return nil, apperr.Persistence("No se pudieron listar los movimientos", err)
	}
	return result, nil
}

// Balance calcula ingresos menos egresos de toda la caja.
func (s *Service) Balance() (float64, error) {
	income, err := s.sumByType(models.CashIncome)
	if err != nil {
		return 0, err
	}
	expense, err := s.sumByType(models.CashExpense)
	if err != nil {
		return 0, err
	}
	return income - expense, nil
}

// SummaryByDay arma el cierre del día: totales por tipo y neto.
func (s *Service) SummaryByDay(day time.Time) (*DailySummary, error) {
	movements, err := s.ListByDay(day)
	if err != nil {
		return nil, err
	}

	summary := DailySummary{Date: day.Format("2006-01-02"), Count: len(movements)}
	for _, m := range movements {
		switch m.Type {
		case models.CashIncome:
			summary.Income += m.Amount
		case models.CashExpense:
			summary.Expense += m.Amount
		}
	}
	summary.Net = summary.Income - summary.Expense
	return &summary, nil
}

func (s *Service) sumByType(t models.CashMovementType) (float64, error) {
	var total *float64
	err := s.db.Model(&models.CashMovement{}).
		Select("SUM(amount)").Where("type = ?", t).Scan(&total).Error
	if err != nil {
		return 0, apperr.Persistence("No se pudo calcular el saldo de caja", err)
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}
