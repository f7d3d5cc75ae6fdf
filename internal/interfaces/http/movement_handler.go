package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/maestranza-stock/internal/application/dto"
	"github.com/jhoicas/maestranza-stock/internal/application/inventory"
	"github.com/jhoicas/maestranza-stock/internal/domain/entity"
	"github.com/jhoicas/maestranza-stock/internal/domain/repository"
	"github.com/jhoicas/maestranza-stock/pkg/logger"
)

// MovementHandler maneja las peticiones HTTP de movimientos (protegido).
type MovementHandler struct {
	engine *inventory.Engine
	log    *logger.Logger
}

// NewMovementHandler construye el handler.
func NewMovementHandler(engine *inventory.Engine, log *logger.Logger) *MovementHandler {
	return &MovementHandler{engine: engine, log: log}
}

// Create godoc
// @Summary      Registrar movimiento
// @Description  Aplica el delta del movimiento a la cantidad del ítem en la misma transacción.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateMovementRequest  true  "item_id, movement_type (ENTRADA|SALIDA|TRANSFERENCIA|DEVOLUCION), quantity > 0"
// @Success      201   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if details := validateStruct(in); details != nil {
		return validationFailed(c, details)
	}
	res, err := h.engine.CreateFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inventory.ToMovementResultResponse(res))
}

// Update godoc
// @Summary      Editar movimiento
// @Description  Revierte el efecto anterior y aplica el nuevo. Si el estado previo no se pudo leer
// @Description  responde 200 con degraded=true y un warning: solo se aplicó el nuevo delta.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                     true  "Movement ID"
// @Param        body  body      dto.UpdateMovementRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [put]
func (h *MovementHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if details := validateStruct(in); details != nil {
		return validationFailed(c, details)
	}
	res, err := h.engine.UpdateFromRequest(c.UserContext(), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(inventory.ToMovementResultResponse(res))
}

// Delete godoc
// @Summary      Eliminar movimiento
// @Description  Revierte el efecto del movimiento sobre la cantidad del ítem.
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "Movement ID"
// @Success      200  {object}  dto.MovementResultResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [delete]
func (h *MovementHandler) Delete(c *fiber.Ctx) error {
	res, err := h.engine.OnMovementDeleted(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(inventory.ToMovementResultResponse(res))
}

// GetByID godoc
// @Summary      Obtener movimiento
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "Movement ID"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [get]
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	m, err := h.engine.GetMovement(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(inventory.ToMovementResponse(m))
}

// List godoc
// @Summary      Historial de movimientos
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        item_id        query     string  false  "Filtrar por ítem"
// @Param        movement_type  query     string  false  "ENTRADA | SALIDA | TRANSFERENCIA | DEVOLUCION"
// @Param        start_date     query     string  false  "Desde (YYYY-MM-DD, inclusive)"
// @Param        end_date       query     string  false  "Hasta (YYYY-MM-DD, inclusive)"
// @Param        limit          query     int     false  "Máximo de resultados (1-100, default 20)"
// @Param        offset         query     int     false  "Desplazamiento"
// @Success      200            {object}  dto.MovementListResponse
// @Failure      400            {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	if details := validateStruct(page); details != nil {
		return validationFailed(c, details)
	}

	filter := repository.MovementFilter{
		ItemID: c.Query("item_id"),
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	if raw := c.Query("movement_type"); raw != "" {
		mt, ok := entity.ParseMovementType(raw)
		if !ok {
			return validationFailed(c, map[string]string{"movement_type": "valor inválido"})
		}
		filter.Type = mt
	}
	if raw := c.Query("start_date"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return validationFailed(c, map[string]string{"start_date": "fecha con formato 2006-01-02"})
		}
		filter.From = &d
	}
	if raw := c.Query("end_date"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return validationFailed(c, map[string]string{"end_date": "fecha con formato 2006-01-02"})
		}
		// inclusive: hasta el final del día
		end := d.Add(24*time.Hour - time.Nanosecond)
		filter.To = &end
	}

	list, err := h.engine.ListMovements(c.UserContext(), filter)
	if err != nil {
		return respondError(c, h.log, err)
	}
	out := dto.MovementListResponse{
		Items: make([]dto.MovementResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, m := range list {
		out.Items = append(out.Items, inventory.ToMovementResponse(m))
	}
	return c.JSON(out)
}
