package main

import (
	"errors"
	"log"
	"strings"

	"soderia-backend/internal/apperr"
	"soderia-backend/internal/auth"
	"soderia-backend/internal/cashflow"
	"soderia-backend/internal/clients"
	"soderia-backend/internal/config"
	"soderia-backend/internal/dashboard"
	"soderia-backend/internal/database"
	"soderia-backend/internal/deliveries"
	"soderia-backend/internal/models"
	"soderia-backend/internal/orders"
	"soderia-backend/internal/products"
	"soderia-backend/internal/stock"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Error inicializando la base de datos: %v", err)
	}

	app := fiber.New(fiber.Config{
		// Contrato uniforme: toda falla sale como {"success": false, "error": ...}
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var appErr *apperr.Error
			if errors.As(err, &appErr) {
				return c.Status(apperr.StatusCode(appErr)).JSON(fiber.Map{
					"success": false,
					"error":   appErr.Message,
				})
			}
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"success": false,
					"error":   e.Message,
				})
			}
			log.Println("Error inesperado:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   "Error inesperado del servidor",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	clientSvc := clients.NewService(db)
	productSvc := products.NewService(db)
	orderSvc := orders.NewService(db)
	deliverySvc := deliveries.NewService(db)
	stockSvc := stock.NewService(db)
	cashSvc := cashflow.NewService(db)

	api := app.Group("/api")

	// Auth pública
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(db, cfg))
	api.Post("/auth/login", auth.LoginHandler(db, cfg))

	// Todo lo demás requiere token
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler(db))

	// Gestión de usuarios, solo ADMIN
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))
	adminRoutes.Post("/users", auth.CreateUserHandler(db))
	adminRoutes.Get("/users", auth.ListUsersHandler(db))

	// Clientes y cuenta corriente
	protected.Post("/clients", clients.CreateClientHandler(clientSvc))
	protected.Get("/clients", clients.ListClientsHandler(clientSvc))
	protected.Get("/clients/:id", clients.GetClientHandler(clientSvc))
	protected.Put("/clients/:id", clients.UpdateClientHandler(clientSvc))
	protected.Delete("/clients/:id", clients.DeleteClientHandler(clientSvc))
	protected.Post("/clients/:id/payments", clients.RegisterPaymentHandler(clientSvc))
	protected.Post("/clients/:id/charges", clients.RegisterChargeHandler(clientSvc))
	protected.Get("/clients/:id/transactions", clients.ListTransactionsHandler(clientSvc))

	// Productos (alta/baja/modificación solo ADMIN)
	protected.Get("/products", products.ListProductsHandler(productSvc))
	adminRoutes.Post("/products", products.CreateProductHandler(productSvc))
	adminRoutes.Put("/products/:id", products.UpdateProductHandler(productSvc))
	adminRoutes.Delete("/products/:id", products.DeleteProductHandler(productSvc))

	// Pedidos
	protected.Post("/orders", orders.CreateOrderHandler(orderSvc))
	protected.Get("/orders", orders.ListOrdersHandler(orderSvc))
	protected.Get("/orders/:id", orders.GetOrderHandler(orderSvc))
	protected.Post("/orders/:id/cancel", orders.CancelOrderHandler(orderSvc))
	protected.Delete("/orders/:id", orders.DeleteOrderHandler(orderSvc))

	// Repartos y entrega
	protected.Post("/deliveries", deliveries.CreateDeliveryHandler(deliverySvc))
	protected.Get("/deliveries", deliveries.ListDeliveriesHandler(deliverySvc))
	protected.Get("/deliveries/:id", deliveries.GetDeliveryHandler(deliverySvc))
	protected.Delete("/deliveries/:id", deliveries.DeleteDeliveryHandler(deliverySvc))
	protected.Post("/deliveries/orders/:orderId/deliver", deliveries.DeliverOrderHandler(deliverySvc))

	// Stock y depósitos
	protected.Get("/stock", stock.ListStockHandler(stockSvc))
	protected.Post("/stock/adjust", stock.AdjustStockHandler(stockSvc))
	protected.Get("/warehouses", stock.ListWarehousesHandler(stockSvc))

	// Caja
	protected.Post("/cash-movements", cashflow.CreateCashMovementHandler(cashSvc))
	protected.Get("/cash-movements", cashflow.ListCashMovementsHandler(cashSvc))
	protected.Get("/cash-movements/balance", cashflow.CashBalanceHandler(cashSvc))
	protected.Get("/cash-movements/summary/daily", cashflow.DailySummaryHandler(cashSvc))

	// Dashboard
	protected.Get("/dashboard/summary", dashboard.SummaryHandler(db))
	protected.Get("/dashboard/debtors", dashboard.DebtorsHandler(db))

	log.Println("Servidor escuchando en el puerto", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
