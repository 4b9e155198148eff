package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/lataller/inventario-api/internal/application/inventory"
	"github.com/lataller/inventario-api/internal/application/production"
	"github.com/lataller/inventario-api/internal/application/purchasing"
	"github.com/lataller/inventario-api/internal/application/reconciliation"
	"github.com/lataller/inventario-api/internal/infrastructure/postgres"
	httpRouter "github.com/lataller/inventario-api/internal/interfaces/http"
	"github.com/lataller/inventario-api/pkg/config"
	"github.com/lataller/inventario-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repositorios atados al pool: solo lecturas. Las mutaciones pasan por el
	// TxRunner, que ata los repositorios a la transacción.
	itemRepo := postgres.NewItemRepository(pool)
	txnRepo := postgres.NewTransactionRepository(pool)
	orderRepo := postgres.NewPurchaseOrderRepository(pool)
	batchRepo := postgres.NewBatchRepository(pool)
	bomRepo := postgres.NewBOMRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	ledgerUC := inventory.NewLedgerUseCase(txRunner, itemRepo, txnRepo)
	receiveUC := purchasing.NewReceiveUseCase(txRunner, orderRepo, itemRepo, ledgerUC)
	consumeUC := production.NewConsumeUseCase(txRunner, batchRepo, bomRepo, itemRepo, ledgerUC)
	reconcileUC := reconciliation.NewUseCase(itemRepo, txnRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventario API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Ledger:    ledgerUC,
		Receive:   receiveUC,
		Consume:   consumeUC,
		Reconcile: reconcileUC,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
