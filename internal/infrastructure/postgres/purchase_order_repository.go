package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/lataller/inventario-api/internal/domain/entity"
	"github.com/lataller/inventario-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implementación de PurchaseOrderRepository sobre PostgreSQL.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// GetByID devuelve la orden con sus líneas; nil si no existe.
func (r *PurchaseOrderRepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	return r.get(id, false)
}

// GetForUpdate devuelve la orden bloqueando su fila. Las líneas se leen después
// del bloqueo, de modo que ningún otro receptor las modifica en paralelo.
func (r *PurchaseOrderRepo) GetForUpdate(id string) (*entity.PurchaseOrder, error) {
	return r.get(id, true)
}

func (r *PurchaseOrderRepo) get(id string, lock bool) (*entity.PurchaseOrder, error) {
	query := `
		SELECT id, supplier_id, status, created_at, updated_at
		FROM purchase_orders WHERE id = $1`
	if lock {
		query += " FOR UPDATE"
	}
	var o entity.PurchaseOrder
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&o.ID, &o.SupplierID, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}

	rows, err := r.q.Query(context.Background(), `
		SELECT id, order_id, item_id, ordered_qty, received_qty, unit_cost
		FROM purchase_order_lines WHERE order_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("get purchase order lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.PurchaseOrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ItemID, &l.OrderedQty, &l.ReceivedQty, &l.UnitCost); err != nil {
			return nil, fmt.Errorf("scan purchase order line: %w", err)
		}
		o.Lines = append(o.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &o, nil
}

// UpdateLineReceived fija la cantidad recibida acumulada de una línea.
func (r *PurchaseOrderRepo) UpdateLineReceived(lineID string, receivedQty decimal.Decimal) error {
	tag, err := r.q.Exec(context.Background(), `
		UPDATE purchase_order_lines SET received_qty = $2 WHERE id = $1`,
		lineID, receivedQty)
	if err != nil {
		return fmt.Errorf("update line received: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update line received: línea %s no existe", lineID)
	}
	return nil
}

// UpdateStatus escribe el estado base almacenado de la orden.
func (r *PurchaseOrderRepo) UpdateStatus(orderID, status string) error {
	tag, err := r.q.Exec(context.Background(), `
		UPDATE purchase_orders SET status = $2, updated_at = now() WHERE id = $1`,
		orderID, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update order status: orden %s no existe", orderID)
	}
	return nil
}
