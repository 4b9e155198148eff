package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lataller/inventario-api/internal/application/dto"
	"github.com/lataller/inventario-api/internal/application/inventory"
	"github.com/lataller/inventario-api/internal/application/reconciliation"
)

// InventoryHandler maneja las peticiones HTTP del libro de inventario (protegido).
type InventoryHandler struct {
	ledger    *inventory.LedgerUseCase
	reconcile *reconciliation.UseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.LedgerUseCase, reconcile *reconciliation.UseCase) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, reconcile: reconcile}
}

// AppendTransaction godoc
// @Summary      Registrar transacción de stock
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AppendTransactionRequest  true  "item_id, direction, type, quantity, unit_cost (entradas con costo), reference_id, reason"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transactions [post]
func (h *InventoryHandler) AppendTransaction(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AppendTransactionRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	txn, err := h.ledger.AppendTransaction(c.Context(), inventory.AppendTransactionInput{
		ItemID:      in.ItemID,
		Direction:   in.Direction,
		Type:        in.Type,
		Quantity:    in.Quantity,
		UnitCost:    in.UnitCost,
		ReferenceID: in.ReferenceID,
		Reason:      in.Reason,
		UserID:      userID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewTransactionResponse(txn))
}

// ListTransactions godoc
// @Summary      Libro de transacciones de un artículo
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        item_id  query  string  true   "Artículo"
// @Param        from     query  string  false  "Fecha inicial (RFC3339)"
// @Param        to       query  string  false  "Fecha final (RFC3339)"
// @Param        limit    query  int     false  "Máximo de filas (default 20)"
// @Param        offset   query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.TransactionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/transactions [get]
func (h *InventoryHandler) ListTransactions(c *fiber.Ctx) error {
	itemID := c.Query("item_id")
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()

	from, ok := parseTimeQuery(c, "from")
	if !ok {
		return nil
	}
	to, ok := parseTimeQuery(c, "to")
	if !ok {
		return nil
	}

	list, err := h.ledger.ListTransactions(c.Context(), itemID, from, to, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.TransactionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, dto.NewTransactionResponse(t))
	}
	return c.JSON(fiber.Map{
		"transactions": out,
		"page":         dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// GetItem godoc
// @Summary      Artículo con cantidad y costo promedio cacheados
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Artículo"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id} [get]
func (h *InventoryHandler) GetItem(c *fiber.Ctx) error {
	item, err := h.ledger.GetItem(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewItemResponse(item))
}

// Reconcile godoc
// @Summary      Reconciliación libro vs caché
// @Description  Recalcula el balance teórico de cada artículo activo desde el
//
//	libro y lo compara contra el caché. Solo diagnóstico: nunca corrige.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ReconciliationItemResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/reconciliation [get]
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	results, err := h.reconcile.ReconcileInventory(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.ReconciliationItemResponse, 0, len(results))
	for _, r := range results {
		out = append(out, dto.ReconciliationItemResponse{
			ItemID:             r.ItemID,
			SKU:                r.SKU,
			TheoreticalBalance: r.TheoreticalBalance,
			CachedBalance:      r.CachedBalance,
			Variance:           r.Variance,
			VariancePercent:    r.VariancePercent,
			Critical:           r.Critical(),
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "discrepancies": out})
}

// parseTimeQuery lee un query param RFC3339 opcional. Devuelve ok=false si ya
// respondió un 400.
func parseTimeQuery(c *fiber.Ctx, key string) (*time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: key + " debe ser RFC3339"})
		return nil, false
	}
	return &t, true
}
