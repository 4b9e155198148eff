package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra.
const (
	OrderStatusDRAFT     = "DRAFT"
	OrderStatusORDERED   = "ORDERED"
	OrderStatusPARTIAL   = "PARTIAL"
	OrderStatusRECEIVED  = "RECEIVED"
	OrderStatusCANCELLED = "CANCELLED"
)

// PurchaseOrder representa una orden de compra con sus líneas.
// El estado PARTIAL/RECEIVED no se almacena por separado: se deriva de las
// líneas en cada lectura (DeriveStatus) para evitar desfase entre el estado
// guardado y los datos reales.
type PurchaseOrder struct {
	ID         string
	SupplierID string
	Status     string // estado base almacenado: DRAFT, ORDERED o CANCELLED
	Lines      []PurchaseOrderLine
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PurchaseOrderLine línea de una orden de compra.
type PurchaseOrderLine struct {
	ID          string
	OrderID     string
	ItemID      string
	OrderedQty  decimal.Decimal
	ReceivedQty decimal.Decimal
	UnitCost    decimal.Decimal
}

// Remaining devuelve la cantidad pendiente de recibir de la línea.
func (l PurchaseOrderLine) Remaining() decimal.Decimal {
	return l.OrderedQty.Sub(l.ReceivedQty)
}

// DeriveStatus calcula el estado efectivo de la orden a partir del estado base
// y las cantidades recibidas por línea (función pura, re-derivada en cada lectura):
//   - CANCELLED y DRAFT se respetan tal cual.
//   - ORDERED sin recepciones -> ORDERED.
//   - Alguna línea incompleta con recepciones -> PARTIAL.
//   - Todas las líneas completas -> RECEIVED.
func DeriveStatus(base string, lines []PurchaseOrderLine) string {
	if base == OrderStatusCANCELLED || base == OrderStatusDRAFT {
		return base
	}
	if len(lines) == 0 {
		return base
	}
	anyReceived := false
	allComplete := true
	for _, l := range lines {
		if l.ReceivedQty.GreaterThan(decimal.Zero) {
			anyReceived = true
		}
		if l.ReceivedQty.LessThan(l.OrderedQty) {
			allComplete = false
		}
	}
	switch {
	case allComplete:
		return OrderStatusRECEIVED
	case anyReceived:
		return OrderStatusPARTIAL
	default:
		return OrderStatusORDERED
	}
}

// DerivedStatus aplica DeriveStatus sobre la propia orden.
func (o *PurchaseOrder) DerivedStatus() string {
	return DeriveStatus(o.Status, o.Lines)
}

// Receivable indica si la orden admite recepciones (ni RECEIVED ni CANCELLED ni DRAFT).
func (o *PurchaseOrder) Receivable() bool {
	s := o.DerivedStatus()
	return s == OrderStatusORDERED || s == OrderStatusPARTIAL
}
