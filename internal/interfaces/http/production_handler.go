package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lataller/inventario-api/internal/application/dto"
	"github.com/lataller/inventario-api/internal/application/production"
)

// ProductionHandler maneja las peticiones HTTP de lotes de producción (protegido).
type ProductionHandler struct {
	uc *production.ConsumeUseCase
}

// NewProductionHandler construye el handler.
func NewProductionHandler(uc *production.ConsumeUseCase) *ProductionHandler {
	return &ProductionHandler{uc: uc}
}

// GetBatch godoc
// @Summary      Lote de producción con desglose de consumos
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Lote"
// @Success      200  {object}  dto.ProductionBatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/production-batches/{id} [get]
func (h *ProductionHandler) GetBatch(c *fiber.Ctx) error {
	batch, err := h.uc.GetBatch(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewProductionBatchResponse(batch))
}

// PreviewConsumption godoc
// @Summary      Factibilidad del consumo de un lote
// @Description  Expande la lista de materiales por la cantidad planificada y
//
//	verifica cada componente contra el stock actual. La insuficiencia
//	se reporta como dato, no como error.
//
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Lote"
// @Success      200  {object}  production.ConsumptionPreview
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/production-batches/{id}/preview-consumption [get]
func (h *ProductionHandler) PreviewConsumption(c *fiber.Ctx) error {
	preview, err := h.uc.PreviewConsumption(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(preview)
}

// Consume godoc
// @Summary      Consumir componentes del lote según la receta
// @Description  Descuenta todos los componentes en una sola transacción:
//
//	el primer componente insuficiente aborta todo sin confirmar nada.
//
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Lote"
// @Success      200  {object}  dto.ProductionBatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/production-batches/{id}/consume [post]
func (h *ProductionHandler) Consume(c *fiber.Ctx) error {
	batchID := c.Params("id")
	if err := h.uc.ConsumeProduction(c.Context(), batchID); err != nil {
		return respondError(c, err)
	}
	batch, err := h.uc.GetBatch(c.Context(), batchID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewProductionBatchResponse(batch))
}

// Complete godoc
// @Summary      Cerrar un lote y dar de alta el producto terminado
// @Description  Fija el costo unitario realizado = (valor consumido + cargos
//
//	asignados) / cantidad producida y registra la entrada del
//	producto terminado a ese costo.
//
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "Lote"
// @Param        body  body  dto.CompleteBatchRequest true  "produced_qty"
// @Success      200   {object}  dto.ProductionBatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/production-batches/{id}/complete [post]
func (h *ProductionHandler) Complete(c *fiber.Ctx) error {
	var in dto.CompleteBatchRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	batch, err := h.uc.CompleteBatch(c.Context(), c.Params("id"), in.ProducedQty)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewProductionBatchResponse(batch))
}

// CancelBatch godoc
// @Summary      Cancelar un lote
// @Description  No repone componentes ya consumidos: eso exige transacciones
//
//	CORRECTION explícitas para mantener la auditoría en el libro.
//
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Lote"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/production-batches/{id}/cancel [post]
func (h *ProductionHandler) CancelBatch(c *fiber.Ctx) error {
	if err := h.uc.CancelBatch(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "lote cancelado"})
}
