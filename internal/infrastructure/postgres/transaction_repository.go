package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lataller/inventario-api/internal/domain/entity"
	"github.com/lataller/inventario-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo implementación del libro de transacciones sobre PostgreSQL.
// La tabla es append-only: este adaptador no expone Update ni Delete.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

const txnColumns = `id, item_id, direction, type, quantity, unit_cost, total_cost, reference_id, reason, created_at, created_by`

// Create persiste una transacción de stock.
func (r *TransactionRepo) Create(txn *entity.StockTransaction) error {
	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_transactions (` + txnColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	createdBy := (*string)(nil)
	if txn.CreatedBy != "" {
		createdBy = &txn.CreatedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		txn.ID, txn.ItemID, txn.Direction, txn.Type, txn.Quantity, txn.UnitCost,
		txn.TotalCost, txn.ReferenceID, txn.Reason, txn.CreatedAt, createdBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create stock transaction: id duplicado: %w", err)
		}
		return fmt.Errorf("create stock transaction: %w", err)
	}
	return nil
}

// GetByID obtiene una transacción por ID; nil si no existe.
func (r *TransactionRepo) GetByID(id string) (*entity.StockTransaction, error) {
	query := `SELECT ` + txnColumns + ` FROM stock_transactions WHERE id = $1`
	var t entity.StockTransaction
	var createdBy *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&t.ID, &t.ItemID, &t.Direction, &t.Type, &t.Quantity, &t.UnitCost,
		&t.TotalCost, &t.ReferenceID, &t.Reason, &t.CreatedAt, &createdBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock transaction: %w", err)
	}
	if createdBy != nil {
		t.CreatedBy = *createdBy
	}
	return &t, nil
}

// ListByItem lista el libro de un artículo en un rango de fechas, más recientes primero.
// Usa el índice secundario (item_id, created_at).
func (r *TransactionRepo) ListByItem(itemID string, from, to *time.Time, limit, offset int) ([]*entity.StockTransaction, error) {
	query := `SELECT ` + txnColumns + ` FROM stock_transactions WHERE item_id = $1`
	args := []any{itemID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockTransaction
	for rows.Next() {
		var t entity.StockTransaction
		var createdBy *string
		if err := rows.Scan(&t.ID, &t.ItemID, &t.Direction, &t.Type, &t.Quantity, &t.UnitCost,
			&t.TotalCost, &t.ReferenceID, &t.Reason, &t.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if createdBy != nil {
			t.CreatedBy = *createdBy
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

// TheoreticalBalances suma, por artículo, entradas menos salidas de todo el libro.
func (r *TransactionRepo) TheoreticalBalances() ([]repository.ItemBalance, error) {
	query := `
		SELECT item_id,
		       COALESCE(SUM(CASE WHEN direction = 'IN' THEN quantity ELSE -quantity END), 0)
		FROM stock_transactions
		GROUP BY item_id`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("theoretical balances: %w", err)
	}
	defer rows.Close()
	var list []repository.ItemBalance
	for rows.Next() {
		var b repository.ItemBalance
		if err := rows.Scan(&b.ItemID, &b.Balance); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}
