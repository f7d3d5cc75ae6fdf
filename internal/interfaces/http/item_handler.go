package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/maestranza-stock/internal/application/dto"
	"github.com/jhoicas/maestranza-stock/internal/application/inventory"
	"github.com/jhoicas/maestranza-stock/pkg/logger"
)

// ItemHandler maneja las peticiones HTTP de ítems (protegido).
type ItemHandler struct {
	items     *inventory.ItemUseCase
	reconcile *inventory.ReconcileUseCase
	log       *logger.Logger
}

// NewItemHandler construye el handler.
func NewItemHandler(items *inventory.ItemUseCase, reconcile *inventory.ReconcileUseCase, log *logger.Logger) *ItemHandler {
	return &ItemHandler{items: items, reconcile: reconcile, log: log}
}

// Create godoc
// @Summary      Crear ítem de inventario
// @Description  La cantidad inicia en 0. Sin low_stock_threshold se usa 5.00; no_threshold=true lo deja en null.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateItemRequest  true  "name, description, serial_number, location, low_stock_threshold, expiration_date"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if details := validateStruct(in); details != nil {
		return validationFailed(c, details)
	}
	snap, err := h.items.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inventory.ToItemResponse(*snap))
}

// List godoc
// @Summary      Listar ítems
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        alert   query     string  false  "low_stock | expired | expiring_soon"
// @Param        limit   query     int     false  "Máximo de resultados (1-100, default 20)"
// @Param        offset  query     int     false  "Desplazamiento"
// @Success      200     {object}  dto.ItemListResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	if details := validateStruct(page); details != nil {
		return validationFailed(c, details)
	}
	list, err := h.items.List(c.UserContext(), c.Query("alert"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, h.log, err)
	}
	out := dto.ItemListResponse{
		Items: make([]dto.ItemResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, s := range list {
		out.Items = append(out.Items, inventory.ToItemResponse(s))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener ítem con sus alertas
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	snap, err := h.items.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(inventory.ToItemResponse(*snap))
}

// Reconcile godoc
// @Summary      Conciliar cantidad con el libro de movimientos
// @Description  Suma los deltas de los movimientos actuales del ítem. Con apply=true escribe esa suma como cantidad.
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id     path      string  true   "Item ID"
// @Param        apply  query     bool    false  "Aplicar la corrección"
// @Success      200    {object}  dto.ReconcileResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Failure      409    {object}  dto.ErrorResponse
// @Router       /api/items/{id}/reconcile [post]
func (h *ItemHandler) Reconcile(c *fiber.Ctx) error {
	rep, err := h.reconcile.Reconcile(c.UserContext(), c.Params("id"), c.QueryBool("apply"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	if rep.Applied {
		h.log.Warn().
			Str("item_id", rep.ItemID).
			Str("drift", rep.Drift.String()).
			Str("actor", GetUserID(c)).
			Msg("cantidad conciliada con el libro")
	}
	return c.JSON(dto.ReconcileResponse{
		ItemID:    rep.ItemID,
		Stored:    rep.Stored,
		Ledger:    rep.Ledger,
		Drift:     rep.Drift,
		Movements: rep.Movements,
		Applied:   rep.Applied,
	})
}
