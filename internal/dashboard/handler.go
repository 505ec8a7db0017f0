package dashboard

import (
	"time"

	"soderia-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SummaryResponse struct {
	TodayIncome      float64 `json:"today_income"`
	TodayMovements   int64   `json:"today_movements"`
	PendingOrders    int64   `json:"pending_orders"`
	TotalReceivables float64 `json:"total_receivables"`
	BottlesLent      int64   `json:"bottles_lent"`
}

type DebtorResponse struct {
	ID             uint    `json:"id"`
	Name           string  `json:"name"`
	Address        string  `json:"address"`
	Phone          string  `json:"phone"`
	Zone           string  `json:"zone"`
	Balance        float64 `json:"balance"`
	BottlesBalance int     `json:"bottles_balance"`
}

// GET /api/dashboard/summary
func SummaryHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		now := time.Now()
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		end := start.AddDate(0, 0, 1)

		var resp SummaryResponse

		var income *float64
		if err := db.Model(&models.CashMovement{}).
			Select("SUM(amount)").
			Where("type = ? AND created_at >= ? AND created_at < ?", models.CashIncome, start, end).
			Scan(&income).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo calcular la caja del día")
		}
		if income != nil {
			resp.TodayIncome = *income
		}

		if err := db.Model(&models.CashMovement{}).
			Where("created_at >= ? AND created_at < ?", start, end).
			Count(&resp.TodayMovements).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron contar los movimientos")
		}

		if err := db.Model(&models.Order{}).
			Where("status = ?", models.OrderConfirmed).
			Count(&resp.PendingOrders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron contar los pedidos")
		}

		var receivables *float64
		if err := db.Model(&models.Client{}).
			Select("SUM(balance)").Where("balance > 0").
			Scan(&receivables).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo calcular la deuda total")
		}
		if receivables != nil {
			resp.TotalReceivables = *receivables
		}

		var bottles *int64
		if err := db.Model(&models.Client{}).
			Select("SUM(bottles_balance)").Where("bottles_balance > 0").
			Scan(&bottles).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron contar los envases")
		}
		if bottles != nil {
			resp.BottlesLent = *bottles
		}

		return c.JSON(fiber.Map{"success": true, "data": resp})
	}
}

// GET /api/dashboard/debtors
func DebtorsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var debtors []models.Client
		if err := db.Where("balance > 0").Order("balance DESC").Find(&debtors).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar los deudores")
		}

		resp := make([]DebtorResponse, 0, len(debtors))
		for _, d := range debtors {
			resp = append(resp, DebtorResponse{
				ID:             d.ID,
				Name:           d.Name,
				Address:        d.Address,
				Phone:          d.Phone,
				Zone:           d.Zone,
				Balance:        d.Balance,
				BottlesBalance: d.BottlesBalance,
			})
		}
		return c.JSON(fiber.Map{"success": true, "data": resp})
	}
}
