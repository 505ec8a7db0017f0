package deliveries

import (
	"soderia-backend/internal/apperr"
	"soderia-backend/internal/models"
	"soderia-backend/internal/orders"

	"github.com/gofiber/fiber/v2"
)

type DeliveryResponse struct {
	ID             uint                   `json:"id"`
	Status         string                 `json:"status"`
	Notes          string                 `json:"notes"`
	OrdersCount    int                    `json:"orders_count"`
	DeliveredCount int                    `json:"delivered_count"`
	Orders         []orders.OrderResponse `json:"orders"`
	CreatedAt      string                 `json:"created_at"`
}

func toDeliveryResponse(d *models.Delivery) DeliveryResponse {
	delivered := 0
	list := make([]orders.OrderResponse, 0, len(d.Orders))
	for i := range d.Orders {
		if d.Orders[i].Status == models.OrderDelivered {
			delivered++
		}
		list = append(list, orders.ToOrderResponse(&d.Orders[i]))
	}
	return DeliveryResponse{
		ID:             d.ID,
		Status:         string(d.Status),
		Notes:          d.Notes,
		OrdersCount:    len(d.Orders),
		DeliveredCount: delivered,
		Orders:         list,
		CreatedAt:      d.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// POST /api/deliveries
func CreateDeliveryHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateInput
		if err := c.BodyParser(&body); err != nil {
			return apperr.Validation("Cuerpo de la petición inválido")
		}

		delivery, err := svc.Create(body)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"data":    toDeliveryResponse(delivery),
		})
	}
}

// GET /api/deliveries
func ListDeliveriesHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		result, err := svc.List()
		if err != nil {
			return err
		}

		resp := make([]DeliveryResponse, 0, len(result))
		for i := range result {
			resp = append(resp, toDeliveryResponse(&result[i]))
		}
		return c.JSON(fiber.Map{"success": true, "data": resp})
	}
}

// GET /api/deliveries/:id
func GetDeliveryHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return apperr.Validation("ID de reparto inválido")
		}

		delivery, err := svc.Get(uint(id))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true, "data": toDeliveryResponse(delivery)})
	}
}

// POST /api/deliveries/orders/:orderId/deliver
func DeliverOrderHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		orderID, err := c.ParamsInt("orderId")
		if err != nil || orderID <= 0 {
			return apperr.Validation("ID de pedido inválido")
		}

		var body DeliverInput
		if err := c.BodyParser(&body); err != nil {
			return apperr.Validation("Cuerpo de la petición inválido")
		}

		order, err := svc.Deliver(uint(orderID), body)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true, "data": orders.ToOrderResponse(order)})
	}
}

// DELETE /api/deliveries/:id
func DeleteDeliveryHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return apperr.Validation("ID de reparto inválido")
		}

		if err := svc.Delete(uint(id)); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true})
	}
}
