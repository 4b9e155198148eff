package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dirección de una transacción de stock.
const (
	DirectionIN  = "IN"  // entrada
	DirectionOUT = "OUT" // salida
)

// Tipos de transacción de stock.
const (
	TransactionTypePURCHASE   = "PURCHASE"   // recepción de compra
	TransactionTypePRODUCTION = "PRODUCTION" // consumo de componentes / alta de producto terminado
	TransactionTypeADJUSTMENT = "ADJUSTMENT" // ajuste manual (requiere motivo)
	TransactionTypeSALE       = "SALE"       // venta
	TransactionTypeRESERVE    = "RESERVE"    // reserva temporal de stock
	TransactionTypeRELEASE    = "RELEASE"    // devolución de una reserva
	TransactionTypeINITIAL    = "INITIAL"    // carga inicial
	TransactionTypeCORRECTION = "CORRECTION" // compensación de una transacción errónea
)

// StockTransaction es un registro inmutable del libro de inventario.
// Se crea una vez y nunca se actualiza ni borra: las correcciones se modelan
// como nuevas transacciones de tipo CORRECTION que referencian la errónea.
type StockTransaction struct {
	ID          string
	ItemID      string
	Direction   string           // IN | OUT
	Type        string           // PURCHASE, PRODUCTION, ADJUSTMENT, ...
	Quantity    decimal.Decimal  // siempre positiva; el signo lo da Direction
	UnitCost    *decimal.Decimal // nil en salidas y en RELEASE
	TotalCost   decimal.Decimal
	ReferenceID string // orden de compra, lote o transacción que la originó
	Reason      string // obligatorio en ADJUSTMENT
	CreatedAt   time.Time
	CreatedBy   string // UserID
}

// ValidDirection verifica que la dirección sea IN u OUT.
func ValidDirection(d string) bool {
	return d == DirectionIN || d == DirectionOUT
}

// ValidTransactionType verifica que el tipo esté en el catálogo.
func ValidTransactionType(t string) bool {
	switch t {
	case TransactionTypePURCHASE, TransactionTypePRODUCTION, TransactionTypeADJUSTMENT,
		TransactionTypeSALE, TransactionTypeRESERVE, TransactionTypeRELEASE,
		TransactionTypeINITIAL, TransactionTypeCORRECTION:
		return true
	}
	return false
}

// AllowsNegativeStock indica si el tipo puede dejar el stock en negativo
// (override explícito para pérdidas conocidas y compensaciones).
func AllowsNegativeStock(t string) bool {
	return t == TransactionTypeADJUSTMENT || t == TransactionTypeCORRECTION
}

// SignedQuantity devuelve la cantidad con signo según la dirección.
func (t *StockTransaction) SignedQuantity() decimal.Decimal {
	if t.Direction == DirectionOUT {
		return t.Quantity.Neg()
	}
	return t.Quantity
}
