package clients

import (
	"soderia-backend/internal/apperr"
	"soderia-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ClientResponse struct {
	ID             uint    `json:"id"`
	Name           string  `json:"name"`
	Address        string  `json:"address"`
	Phone          string  `json:"phone"`
	Zone           string  `json:"zone"`
	Balance        float64 `json:"balance"`
	BottlesBalance int     `json:"bottles_balance"`
	CreatedAt      string  `json:"created_at"`
}

type TransactionResponse struct {
	ID          uint    `json:"id"`
	ClientID    uint    `json:"client_id"`
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Concept     string  `json:"concept"`
	Description string  `json:"description"`
	ReferenceID *uint   `json:"reference_id"`
	CreatedAt   string  `json:"created_at"`
}

type LedgerEntryRequest struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

func toClientResponse(c *models.Client) ClientResponse {
	return ClientResponse{
		ID:             c.ID,
		Name:           c.Name,
		Address:        c.Address,
		Phone:          c.Phone,
		Zone:           c.Zone,
		Balance:        c.Balance,
		BottlesBalance: c.BottlesBalance,
		CreatedAt:      c.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func toTransactionResponse(t *models.ClientTransaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		ClientID:    t.ClientID,
		Type:        string(t.Type),
		Amount:      t.Amount,
		Concept:     t.Concept,
		Description: t.Description,
		ReferenceID: t.ReferenceID,
		CreatedAt:   t.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// POST /api/clients
func CreateClientHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateInput
		if err := c.BodyParser(&body); err != nil {
			return apperr.Validation("Cuerpo de la petición inválido")
		}

		client, err := svc.Create(body)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"data":    toClientResponse(client),
		})
	}
}

// GET /api/clients?search=juan&sort_by_debt=true
func ListClientsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		search := c.Query("search")
		sortByDebt := c.QueryBool("sort_by_debt", false)

		result, err := svc.List(search, sortByDebt)
		if err != nil {
			return err
		}

		resp := make([]ClientResponse, 0, len(result))
		for i := range result {
			resp = append(resp, toClientResponse(&result[i]))
		}
		return c.JSON(fiber.Map{"success": true, "data": resp})
	}
}

// GET /api/clients/:id
func GetClientHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return apperr.Validation("ID de cliente inválido")
		}

		client, err := svc.Get(uint(id))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true, "data": toClientResponse(client)})
	}
}

// PUT /api/clients/:id
func UpdateClientHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return apperr.Validation("ID de cliente inválido")
		}

		var body UpdateInput
		if err := c.BodyParser(&body); err != nil {
			return apperr.Validation("Cuerpo de la petición inválido")
		}

		client, err := svc.Update(uint(id), body)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true, "data": toClientResponse(client)})
	}
}

// DELETE /api/clients/:id
func DeleteClientHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return apperr.Validation("ID de cliente inválido")
		}

		if err := svc.Delete(uint(id)); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true})
	}
}

// POST /api/clients/:id/payments
func RegisterPaymentHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return apperr.Validation("ID de cliente inválido")
		}

		var body LedgerEntryRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.Validation("Cuerpo de la petición inválido")
		}

		client, err := svc.RegisterPayment(uint(id), body.Amount, body.Description)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"data":    toClientResponse(client),
		})
	}
}

// POST /api/clients/:id/charges
func RegisterChargeHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return apperr.Validation("ID de cliente inválido")
		}

		var body LedgerEntryRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.Validation("Cuerpo de la petición inválido")
		}

		client, err := svc.RegisterCharge(uint(id), body.Amount, body.Description)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"data":    toClientResponse(client),
		})
	}
}

// GET /api/clients/:id/transactions
func ListTransactionsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return apperr.Validation("ID de cliente inválido")
		}

		entries, err := svc.Transactions(uint(id))
		if err != nil {
			return err
		}

		resp := make([]TransactionResponse, 0, len(entries))
		for i := range entries {
			resp = append(resp, toTransactionResponse(&entries[i]))
		}
		return c.JSON(fiber.Map{"success": true, "data": resp})
	}
}
