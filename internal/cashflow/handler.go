package cashflow

import (
	"time"

	"soderia-backend/internal/apperr"
	"soderia-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CashMovementResponse struct {
	ID            uint    `json:"id"`
	Amount        float64 `json:"amount"`
	Type          string  `json:"type"`
	Concept       string  `json:"concept"`
	PaymentMethod string  `json:"payment_method"`
	ReferenceID   *uint   `json:"reference_id"`
	CreatedAt     string  `json:"created_at"`
}

func toMovementResponse(m *models.CashMovement) CashMovementResponse {
	return CashMovementResponse{
		ID:            m.ID,
		Amount:        m.Amount,
		Type:          string(m.Type),
		Concept:       m.Concept,
		PaymentMethod: string(m.PaymentMethod),
		ReferenceID:   m.ReferenceID,
		CreatedAt:     m.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// parseDay interpreta ?date=2026-08-29, hoy si falta.
func parseDay(c *fiber.Ctx) (time.Time, error) {
	dateStr := c.Query("date")
	if dateStr == "" {
		return time.Now(), nil
	}
	day, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
	if err != nil {
		return time.Time{}, apperr.Validation("Fecha inválida, el formato es 'YYYY-MM-DD'")
	}
	return day, nil
}

// POST /api/cash-movements
func CreateCashMovementHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateInput
		if err := c.BodyParser(&body); err != nil {
			return apperr.Validation("Cuerpo de la petición inválido")
		}

		movement, err := svc.Create(body)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"data":    toMovementResponse(movement),
		})
	}
}

// GET /api/cash-movements?date=2026-08-29
func ListCashMovementsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		day, err := parseDay(c)
		if err != nil {
			return err
		}

		result, err := svc.ListByDay(day)
		if err != nil {
			return err
		}

		resp := make([]CashMovementResponse, 0, len(result))
		for i := range result {
			resp = append(resp, toMovementResponse(&result[i]))
		}
		return c.JSON(fiber.Map{"success": true, "data": resp})
	}
}

// GET /api/cash-movements/balance
func CashBalanceHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		balance, err := svc.Balance()
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"balance": balance}})
	}
}

// GET /api/cash-movements/summary/daily?date=2026-08-29
func DailySummaryHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		day, err := parseDay(c)
		if err != nil {
			return err
		}

		summary, err := svc.SummaryByDay(day)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true, "data": summary})
	}
}
