package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/lataller/inventario-api/internal/domain/entity"
)

// ReceiveLineRequest una línea a recibir. UnitCost nil usa el costo pactado en la orden.
type ReceiveLineRequest struct {
	LineID   string           `json:"line_id" validate:"required"`
	Quantity decimal.Decimal  `json:"quantity"`
	UnitCost *decimal.Decimal `json:"unit_cost,omitempty"`
}

// ReceiveRequest body para preview-receive y receive de una orden de compra.
type ReceiveRequest struct {
	Lines []ReceiveLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// ReceiveLineResultResponse resultado por línea de una recepción. Las líneas
// fallidas reportan Error; las previas quedan confirmadas.
type ReceiveLineResultResponse struct {
	LineID      string               `json:"line_id"`
	ItemID      string               `json:"item_id,omitempty"`
	Quantity    decimal.Decimal      `json:"quantity"`
	Transaction *TransactionResponse `json:"transaction,omitempty"`
	Error       string               `json:"error,omitempty"`
}

// ReceiveOutcomeResponse resultado agregado de una recepción.
type ReceiveOutcomeResponse struct {
	OrderID string                      `json:"order_id"`
	Status  string                      `json:"status"`
	Lines   []ReceiveLineResultResponse `json:"lines"`
}

// PurchaseOrderLineResponse línea de orden con su acumulado recibido.
type PurchaseOrderLineResponse struct {
	ID          string          `json:"id"`
	ItemID      string          `json:"item_id"`
	OrderedQty  decimal.Decimal `json:"ordered_qty"`
	ReceivedQty decimal.Decimal `json:"received_qty"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

// PurchaseOrderResponse orden de compra con estado derivado de sus líneas.
type PurchaseOrderResponse struct {
	ID         string                      `json:"id"`
	SupplierID string                      `json:"supplier_id"`
	Status     string                      `json:"status"`
	Lines      []PurchaseOrderLineResponse `json:"lines"`
	CreatedAt  time.Time                   `json:"created_at"`
	UpdatedAt  time.Time                   `json:"updated_at"`
}

// NewPurchaseOrderResponse mapea la orden a JSON con el estado derivado.
func NewPurchaseOrderResponse(o *entity.PurchaseOrder) PurchaseOrderResponse {
	resp := PurchaseOrderResponse{
		ID:         o.ID,
		SupplierID: o.SupplierID,
		Status:     o.DerivedStatus(),
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
	for _, l := range o.Lines {
		resp.Lines = append(resp.Lines, PurchaseOrderLineResponse{
			ID:          l.ID,
			ItemID:      l.ItemID,
			OrderedQty:  l.OrderedQty,
			ReceivedQty: l.ReceivedQty,
			UnitCost:    l.UnitCost,
		})
	}
	return resp
}
