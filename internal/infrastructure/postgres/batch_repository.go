package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lataller/inventario-api/internal/domain/entity"
	"github.com/lataller/inventario-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo implementación de BatchRepository sobre PostgreSQL.
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

// GetByID devuelve el lote con su desglose de consumos; nil si no existe.
func (r *BatchRepo) GetByID(id string) (*entity.ProductionBatch, error) {
	return r.get(id, false)
}

// GetForUpdate devuelve el lote bloqueando su fila para el consumo todo-o-nada.
func (r *BatchRepo) GetForUpdate(id string) (*entity.ProductionBatch, error) {
	return r.get(id, true)
}

func (r *BatchRepo) get(id string, lock bool) (*entity.ProductionBatch, error) {
	query := `
		SELECT id, model_id, status, planned_qty, produced_qty, allocated_charges,
		       realized_unit_cost, completed_at, created_at, updated_at
		FROM production_batches WHERE id = $1`
	if lock {
		query += " FOR UPDATE"
	}
	var b entity.ProductionBatch
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&b.ID, &b.ModelID, &b.Status, &b.PlannedQty, &b.ProducedQty, &b.AllocatedCharges,
		&b.RealizedUnitCost, &b.CompletedAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get production batch: %w", err)
	}

	rows, err := r.q.Query(context.Background(), `
		SELECT id, batch_id, item_id, quantity, unit_cost, total_cost, consumed_at
		FROM batch_consumptions WHERE batch_id = $1 ORDER BY consumed_at, id`, id)
	if err != nil {
		return nil, fmt.Errorf("get batch consumptions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c entity.BatchConsumption
		if err := rows.Scan(&c.ID, &c.BatchID, &c.ItemID, &c.Quantity, &c.UnitCost, &c.TotalCost, &c.ConsumedAt); err != nil {
			return nil, fmt.Errorf("scan batch consumption: %w", err)
		}
		b.Consumptions = append(b.Consumptions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &b, nil
}

// UpdateStatus escribe el estado del lote.
func (r *BatchRepo) UpdateStatus(batchID, status string) error {
	tag, err := r.q.Exec(context.Background(), `
		UPDATE production_batches SET status = $2, updated_at = now() WHERE id = $1`,
		batchID, status)
	if err != nil {
		return fmt.Errorf("update batch status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update batch status: lote %s no existe", batchID)
	}
	return nil
}

// AddConsumption registra una línea de consumo del lote.
func (r *BatchRepo) AddConsumption(c *entity.BatchConsumption) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	_, err := r.q.Exec(context.Background(), `
		INSERT INTO batch_consumptions (id, batch_id, item_id, quantity, unit_cost, total_cost, consumed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.BatchID, c.ItemID, c.Quantity, c.UnitCost, c.TotalCost, c.ConsumedAt)
	if err != nil {
		return fmt.Errorf("add batch consumption: %w", err)
	}
	return nil
}

// Complete fija ProducedQty, RealizedUnitCost, CompletedAt y estado DONE.
func (r *BatchRepo) Complete(batch *entity.ProductionBatch) error {
	tag, err := r.q.Exec(context.Background(), `
		UPDATE production_batches
		SET status = $2, produced_qty = $3, realized_unit_cost = $4,
		    completed_at = $5, updated_at = now()
		WHERE id = $1`,
		batch.ID, batch.Status, batch.ProducedQty, batch.RealizedUnitCost, batch.CompletedAt)
	if err != nil {
		return fmt.Errorf("complete batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("complete batch: lote %s no existe", batch.ID)
	}
	return nil
}
