package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Todos son recuperables por el caller: reintento, corrección del usuario
// o una transacción compensatoria explícita.
var (
	ErrItemNotFound        = errors.New("artículo no encontrado")
	ErrOrderNotFound       = errors.New("orden de compra no encontrada")
	ErrBatchNotFound       = errors.New("lote de producción no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrInvalidQuantity     = errors.New("cantidad inválida")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrOverReceipt         = errors.New("recepción excede la cantidad ordenada")
	ErrOrderNotReceivable  = errors.New("la orden no admite recepciones en su estado actual")
	ErrInvalidBatchStatus  = errors.New("operación no válida para el estado del lote")
	ErrConcurrencyConflict = errors.New("conflicto de concurrencia: no se pudo adquirir el bloqueo")
)
