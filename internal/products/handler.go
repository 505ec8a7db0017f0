package products

import (
	"soderia-backend/internal/apperr"
	"soderia-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ProductResponse struct {
	ID           uint    `json:"id"`
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	IsReturnable bool    `json:"is_returnable"`
}

func toProductResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Code:         p.Code,
		Name:         p.Name,
		Price:        p.Price,
		IsReturnable: p.IsReturnable,
	}
}

// POST /api/products
func CreateProductHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateInput
		if err := c.BodyParser(&body); err != nil {
			return apperr.Validation("Cuerpo de la petición inválido")
		}

		product, err := svc.Create(body)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"data":    toProductResponse(product),
		})
	}
}

// GET /api/products
func ListProductsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		result, err := svc.List()
		if err != nil {
			return err
		}

		resp := make([]ProductResponse, 0, len(result))
		for i := range result {
			resp = append(resp, toProductResponse(&result[i]))
		}
		return c.JSON(fiber.Map{"success": true, "data": resp})
	}
}

// PUT /api/products/:id
func UpdateProductHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return apperr.Validation("ID de producto inválido")
		}

		var body UpdateInput
		if err := c.BodyParser(&body); err != nil {
			return apperr.Validation("Cuerpo de la petición inválido")
		}

		product, err := svc.Update(uint(id), body)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true, "data": toProductResponse(product)})
	}
}

// DELETE /api/products/:id
func DeleteProductHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return apperr.Validation("ID de producto inválido")
		}

		if err := svc.Delete(uint(id)); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true})
	}
}
