package stock

import (
	"soderia-backend/internal/apperr"
	"soderia-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type StockResponse struct {
	ID            uint   `json:"id"`
	WarehouseID   uint   `json:"warehouse_id"`
	WarehouseName string `json:"warehouse_name"`
	ProductID     uint   `json:"product_id"`
	ProductName   string `json:"product_name"`
	Quantity      int    `json:"quantity"`
}

type WarehouseResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type AdjustRequest struct {
	WarehouseID uint `json:"warehouse_id"`
	ProductID   uint `json:"product_id"`
	Delta       int  `json:"delta"`
}

func toStockResponse(st *models.Stock) StockResponse {
	return StockResponse{
		ID:            st.ID,
		WarehouseID:   st.WarehouseID,
		WarehouseName: st.Warehouse.Name,
		ProductID:     st.ProductID,
		ProductName:   st.Product.Name,
		Quantity:      st.Quantity,
	}
}

// GET /api/stock
func ListStockHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		result, err := svc.Levels()
		if err != nil {
			return err
		}

		resp := make([]StockResponse, 0, len(result))
		for i := range result {
			resp = append(resp, toStockResponse(&result[i]))
		}
		return c.JSON(fiber.Map{"success": true, "data": resp})
	}
}

// GET /api/warehouses
func ListWarehousesHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		result, err := svc.Warehouses()
		if err != nil {
			return err
		}

		resp := make([]WarehouseResponse, 0, len(result))
		for _, w := range result {
			resp = append(resp, WarehouseResponse{ID: w.ID, Name: w.Name})
		}
		return c.JSON(fiber.Map{"success": true, "data": resp})
	}
}

// POST /api/stock/adjust
func AdjustStockHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body AdjustRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.Validation("Cuerpo de la petición inválido")
		}
		if body.WarehouseID == 0 || body.ProductID == 0 {
			return apperr.Validation("warehouse_id y product_id son obligatorios")
		}
		if body.Delta == 0 {
			return apperr.Validation("El ajuste no puede ser 0")
		}

		row, err := svc.Adjust(body.WarehouseID, body.ProductID, body.Delta)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
			"id":           row.ID,
			"warehouse_id": row.WarehouseID,
			"product_id":   row.ProductID,
			"quantity":     row.Quantity,
		}})
	}
}
