package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/lataller/inventario-api/internal/domain/entity"
)

// AppendTransactionRequest body para POST /api/inventory/transactions.
// UnitCost solo aplica a entradas con costo (PURCHASE, INITIAL, ADJUSTMENT de
// entrada); las salidas y RELEASE no lo admiten.
type AppendTransactionRequest struct {
	ItemID      string           `json:"item_id" validate:"required"`
	Direction   string           `json:"direction" validate:"required,oneof=IN OUT"`
	Type        string           `json:"type" validate:"required,oneof=PURCHASE PRODUCTION ADJUSTMENT SALE RESERVE RELEASE INITIAL CORRECTION"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitCost    *decimal.Decimal `json:"unit_cost,omitempty"`
	ReferenceID string           `json:"reference_id,omitempty"`
	Reason      string           `json:"reason,omitempty"`
}

// TransactionResponse representación JSON de una transacción de stock.
type TransactionResponse struct {
	ID          string           `json:"id"`
	ItemID      string           `json:"item_id"`
	Direction   string           `json:"direction"`
	Type        string           `json:"type"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitCost    *decimal.Decimal `json:"unit_cost,omitempty"`
	TotalCost   decimal.Decimal  `json:"total_cost"`
	ReferenceID string           `json:"reference_id,omitempty"`
	Reason      string           `json:"reason,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	CreatedBy   string           `json:"created_by,omitempty"`
}

// NewTransactionResponse mapea la entidad a su representación JSON.
func NewTransactionResponse(t *entity.StockTransaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		ItemID:      t.ItemID,
		Direction:   t.Direction,
		Type:        t.Type,
		Quantity:    t.Quantity,
		UnitCost:    t.UnitCost,
		TotalCost:   t.TotalCost,
		ReferenceID: t.ReferenceID,
		Reason:      t.Reason,
		CreatedAt:   t.CreatedAt,
		CreatedBy:   t.CreatedBy,
	}
}

// ItemResponse artículo con su caché de cantidad y costo promedio.
type ItemResponse struct {
	ID             string          `json:"id"`
	SKU            string          `json:"sku"`
	Name           string          `json:"name"`
	QuantityOnHand decimal.Decimal `json:"quantity_on_hand"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	IsActive       bool            `json:"is_active"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// NewItemResponse mapea la entidad a su representación JSON.
func NewItemResponse(it *entity.InventoryItem) ItemResponse {
	return ItemResponse{
		ID:             it.ID,
		SKU:            it.SKU,
		Name:           it.Name,
		QuantityOnHand: it.QuantityOnHand,
		UnitCost:       it.UnitCost,
		IsActive:       it.IsActive,
		UpdatedAt:      it.UpdatedAt,
	}
}

// ReconciliationItemResponse discrepancia detectada entre libro y caché.
type ReconciliationItemResponse struct {
	ItemID             string          `json:"item_id"`
	SKU                string          `json:"sku"`
	TheoreticalBalance decimal.Decimal `json:"theoretical_balance"`
	CachedBalance      decimal.Decimal `json:"cached_balance"`
	Variance           decimal.Decimal `json:"variance"`
	VariancePercent    decimal.Decimal `json:"variance_percent"`
	Critical           bool            `json:"critical"`
}
