package postgres

import (
	"context"
	"fmt"

	"github.com/lataller/inventario-api/internal/domain/entity"
	"github.com/lataller/inventario-api/internal/domain/repository"
)

var _ repository.BOMRepository = (*BOMRepo)(nil)

// BOMRepo lectura de la lista de materiales sobre PostgreSQL.
type BOMRepo struct {
	q Querier
}

// NewBOMRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBOMRepository(q Querier) *BOMRepo {
	return &BOMRepo{q: q}
}

// ListByModel lista las líneas de receta de un modelo.
func (r *BOMRepo) ListByModel(modelID string) ([]*entity.BOMLine, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT model_id, component_item_id, quantity_per_unit
		FROM bom_lines WHERE model_id = $1 ORDER BY component_item_id`, modelID)
	if err != nil {
		return nil, fmt.Errorf("list bom lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.BOMLine
	for rows.Next() {
		var l entity.BOMLine
		if err := rows.Scan(&l.ModelID, &l.ComponentItemID, &l.QuantityPerUnit); err != nil {
			return nil, fmt.Errorf("scan bom line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
