package orders

import (
	"soderia-backend/internal/apperr"
	"soderia-backend/internal/auth"
	"soderia-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ItemResponse struct {
	ID          uint    `json:"id"`
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Subtotal    float64 `json:"subtotal"`
}

type OrderResponse struct {
	ID            uint           `json:"id"`
	ClientID      uint           `json:"client_id"`
	ClientName    string         `json:"client_name"`
	Status        string         `json:"status"`
	TotalAmount   float64        `json:"total_amount"`
	PaymentMethod string         `json:"payment_method"`
	PaymentStatus string         `json:"payment_status"`
	PaymentAmount float64        `json:"payment_amount"`
	Notes         string         `json:"notes"`
	DeliveryID    *uint          `json:"delivery_id"`
	Items         []ItemResponse `json:"items"`
	PaidAt        *string        `json:"paid_at"`
	DeliveredAt   *string        `json:"delivered_at"`
	CreatedAt     string         `json:"created_at"`
}

func ToOrderResponse(o *models.Order) OrderResponse {
	items := make([]ItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, ItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.Product.Name,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		})
	}

	resp := OrderResponse{
		ID:            o.ID,
		ClientID:      o.ClientID,
		ClientName:    o.Client.Name,
		Status:        string(o.Status),
		TotalAmount:   o.TotalAmount,
		PaymentMethod: string(o.PaymentMethod),
		PaymentStatus: string(o.PaymentStatus),
		PaymentAmount: o.PaymentAmount,
		Notes:         o.Notes,
		DeliveryID:    o.DeliveryID,
		Items:         items,
		CreatedAt:     o.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if o.PaidAt != nil {
		s := o.PaidAt.Format("2006-01-02 15:04:05")
		resp.PaidAt = &s
	}
	if o.DeliveredAt != nil {
		s := o.DeliveredAt.Format("2006-01-02 15:04:05")
		resp.DeliveredAt = &s
	}
	return resp
}

// POST /api/orders
func CreateOrderHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateInput
		if err := c.BodyParser(&body); err != nil {
			return apperr.Validation("Cuerpo de la petición inválido")
		}

		if userID, ok := c.Locals(auth.CtxUserIDKey).(uint); ok {
			body.CreatedBy = userID
		}

		order, err := svc.Create(body)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"data":    ToOrderResponse(order),
		})
	}
}

// GET /api/orders?client_id=1&status=CONFIRMED
func ListOrdersHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		clientID := c.QueryInt("client_id", 0)
		status := models.OrderStatus(c.Query("status"))

		result, err := svc.List(uint(clientID), status)
		if err != nil {
			return err
		}

		resp := make([]OrderResponse, 0, len(result))
		for i := range result {
			resp = append(resp, ToOrderResponse(&result[i]))
		}
		return c.JSON(fiber.Map{"success": true, "data": resp})
	}
}

// GET /api/orders/:id
func GetOrderHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return apperr.Validation("ID de pedido inválido")
		}

		order, err := svc.Get(uint(id))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true, "data": ToOrderResponse(order)})
	}
}

// POST /api/orders/:id/cancel
func CancelOrderHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return apperr.Validation("ID de pedido inválido")
		}

		order, err := svc.Cancel(uint(id))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true, "data": ToOrderResponse(order)})
	}
}

// DELETE /api/orders/:id
func DeleteOrderHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return apperr.Validation("ID de pedido inválido")
		}

		if err := svc.Delete(uint(id)); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true})
	}
}
