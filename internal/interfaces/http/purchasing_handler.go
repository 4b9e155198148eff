package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lataller/inventario-api/internal/application/dto"
	"github.com/lataller/inventario-api/internal/application/purchasing"
)

// PurchasingHandler maneja las peticiones HTTP de órdenes de compra (protegido).
type PurchasingHandler struct {
	uc *purchasing.ReceiveUseCase
}

// NewPurchasingHandler construye el handler.
func NewPurchasingHandler(uc *purchasing.ReceiveUseCase) *PurchasingHandler {
	return &PurchasingHandler{uc: uc}
}

// GetOrder godoc
// @Summary      Orden de compra con estado derivado
// @Tags         purchasing
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id} [get]
func (h *PurchasingHandler) GetOrder(c *fiber.Ctx) error {
	order, err := h.uc.GetOrder(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewPurchaseOrderResponse(order))
}

// PreviewReceive godoc
// @Summary      Previsualizar impacto en costos de una recepción
// @Description  Calcula cantidad y costo promedio resultantes por línea sin
//
//	escribir nada. Consultivo: no toma bloqueos.
//
// @Tags         purchasing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "Orden"
// @Param        body  body  dto.ReceiveRequest true  "líneas a recibir"
// @Success      200   {object}  purchasing.ReceivePreview
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/preview-receive [post]
func (h *PurchasingHandler) PreviewReceive(c *fiber.Ctx) error {
	var in dto.ReceiveRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	preview, err := h.uc.PreviewReceive(c.Context(), c.Params("id"), toReceiveLines(in))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(preview)
}

// Receive godoc
// @Summary      Confirmar recepción de líneas de una orden
// @Description  Cada línea se confirma de forma independiente; si una falla,
//
//	las anteriores quedan confirmadas y el fallo se reporta por línea.
//
// @Tags         purchasing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "Orden"
// @Param        body  body  dto.ReceiveRequest true  "líneas a recibir"
// @Success      200   {object}  dto.ReceiveOutcomeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/receive [post]
func (h *PurchasingHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	outcome, err := h.uc.ReceivePurchase(c.Context(), c.Params("id"), toReceiveLines(in))
	if err != nil {
		return respondError(c, err)
	}
	resp := dto.ReceiveOutcomeResponse{OrderID: outcome.OrderID, Status: outcome.Status}
	for _, lr := range outcome.Lines {
		out := dto.ReceiveLineResultResponse{
			LineID:   lr.LineID,
			ItemID:   lr.ItemID,
			Quantity: lr.Quantity,
		}
		if lr.Transaction != nil {
			t := dto.NewTransactionResponse(lr.Transaction)
			out.Transaction = &t
		}
		if lr.Err != nil {
			out.Error = lr.Err.Error()
		}
		resp.Lines = append(resp.Lines, out)
	}
	return c.JSON(resp)
}

// Place godoc
// @Summary      Emitir una orden (DRAFT -> ORDERED)
// @Tags         purchasing
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/place [post]
func (h *PurchasingHandler) Place(c *fiber.Ctx) error {
	order, err := h.uc.PlaceOrder(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewPurchaseOrderResponse(order))
}

// Cancel godoc
// @Summary      Cancelar una orden sin recepciones
// @Tags         purchasing
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/cancel [post]
func (h *PurchasingHandler) Cancel(c *fiber.Ctx) error {
	order, err := h.uc.CancelOrder(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewPurchaseOrderResponse(order))
}

func toReceiveLines(in dto.ReceiveRequest) []purchasing.ReceiveLine {
	lines := make([]purchasing.ReceiveLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, purchasing.ReceiveLine{
			LineID:   l.LineID,
			Quantity: l.Quantity,
			UnitCost: l.UnitCost,
		})
	}
	return lines
}
