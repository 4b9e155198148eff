package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lataller/inventario-api/internal/application/inventory"
	"github.com/lataller/inventario-api/internal/application/production"
	"github.com/lataller/inventario-api/internal/application/purchasing"
	"github.com/lataller/inventario-api/internal/domain"
	"github.com/lataller/inventario-api/internal/domain/repository"
)

// Ensure TxRunner implements the application tx ports.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ purchasing.PurchasingTxRunner = (*TxRunner)(nil)
var _ production.ProductionTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Garantiza que una operación con deadline vencido quedó confirmada por
// completo o no quedó en absoluto: Commit o Rollback, nunca estado intermedio.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con los repositorios del libro de
// inventario atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	txnRepo repository.TransactionRepository,
) error) error {
	return r.run(ctx, func(q Querier) error {
		return fn(NewItemRepository(q), NewTransactionRepository(q))
	})
}

// RunPurchasing inicia una transacción con repositorios de inventario y órdenes
// de compra (para confirmar cada línea recibida como una unidad).
func (r *TxRunner) RunPurchasing(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	txnRepo repository.TransactionRepository,
	orderRepo repository.PurchaseOrderRepository,
) error) error {
	return r.run(ctx, func(q Querier) error {
		return fn(NewItemRepository(q), NewTransactionRepository(q), NewPurchaseOrderRepository(q))
	})
}

// RunProduction inicia una transacción con los repositorios del flujo de
// producción (consumo de lote todo-o-nada).
func (r *TxRunner) RunProduction(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	txnRepo repository.TransactionRepository,
	batchRepo repository.BatchRepository,
	bomRepo repository.BOMRepository,
) error) error {
	return r.run(ctx, func(q Querier) error {
		return fn(NewItemRepository(q), NewTransactionRepository(q), NewBatchRepository(q), NewBOMRepository(q))
	})
}

func (r *TxRunner) run(ctx context.Context, fn func(q Querier) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		if isLockConflict(err) {
			return fmt.Errorf("%w: %v", domain.ErrConcurrencyConflict, err)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
