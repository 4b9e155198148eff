package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lataller/inventario-api/internal/application/inventory"
	"github.com/lataller/inventario-api/internal/application/production"
	"github.com/lataller/inventario-api/internal/application/purchasing"
	"github.com/lataller/inventario-api/internal/application/reconciliation"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger    *inventory.LedgerUseCase
	Receive   *purchasing.ReceiveUseCase
	Consume   *production.ConsumeUseCase
	Reconcile *reconciliation.UseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Libro de inventario (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.Reconcile)
	invGroup.Post("/transactions", RequireRole("admin", "almacenista"), inventoryHandler.AppendTransaction)
	invGroup.Get("/transactions", inventoryHandler.ListTransactions)
	invGroup.Get("/items/:id", inventoryHandler.GetItem)
	invGroup.Get("/reconciliation", RequireRole("admin"), inventoryHandler.Reconcile)

	// Órdenes de compra (protegido)
	orders := protected.Group("/purchase-orders")
	purchasingHandler := NewPurchasingHandler(deps.Receive)
	orders.Get("/:id", purchasingHandler.GetOrder)
	orders.Post("/:id/preview-receive", purchasingHandler.PreviewReceive)
	orders.Post("/:id/receive", RequireRole("admin", "almacenista"), purchasingHandler.Receive)
	orders.Post("/:id/place", RequireRole("admin"), purchasingHandler.Place)
	orders.Post("/:id/cancel", RequireRole("admin"), purchasingHandler.Cancel)

	// Lotes de producción (protegido)
	batches := protected.Group("/production-batches")
	productionHandler := NewProductionHandler(deps.Consume)
	batches.Get("/:id", productionHandler.GetBatch)
	batches.Get("/:id/preview-consumption", productionHandler.PreviewConsumption)
	batches.Post("/:id/consume", RequireRole("admin", "operario"), productionHandler.Consume)
	batches.Post("/:id/complete", RequireRole("admin", "operario"), productionHandler.Complete)
	batches.Post("/:id/cancel", RequireRole("admin"), productionHandler.CancelBatch)
}
