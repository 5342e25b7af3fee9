package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/almacen-api/internal/application/analytics"
	"github.com/tu-usuario/almacen-api/internal/application/stock"
	"github.com/tu-usuario/almacen-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC    *usecase.ProductUseCase
	WarehouseUC  *usecase.WarehouseUseCase
	StockEngine  *stock.Engine
	StockQueries *stock.QueryUseCase
	DashboardUC  *analytics.DashboardUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Health (público)
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/low-stock", productHandler.LowStock)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Remove)

	// Warehouses (protegido)
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", warehouseHandler.Update)
	warehouses.Delete("/:id", warehouseHandler.Remove)

	// Stock: movimientos, traslados, ajustes y saldos (protegido)
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockEngine, deps.StockQueries)
	stockGroup.Post("/movements", stockHandler.CreateMovement)
	stockGroup.Get("/movements", stockHandler.ListMovements)
	stockGroup.Get("/movements/:id", stockHandler.GetMovement)
	stockGroup.Post("/transfers", stockHandler.Transfer)
	stockGroup.Post("/adjustments", stockHandler.Adjust)
	stockGroup.Get("/levels/warehouse/:id", stockHandler.ListLevelsByWarehouse)
	stockGroup.Get("/levels/product/:id", stockHandler.ListLevelsByProduct)

	// Dashboard (protegido)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard", dashboardHandler.Get)
}
