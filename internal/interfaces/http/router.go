package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/maestranza-stock/internal/application/inventory"
	"github.com/jhoicas/maestranza-stock/internal/domain/entity"
	"github.com/jhoicas/maestranza-stock/pkg/logger"
)

// Roles con permiso de escritura.
var (
	movementWriters = []string{entity.RoleAdmin, entity.RoleGestorInv, entity.RoleLogistica}
	itemWriters     = []string{entity.RoleAdmin, entity.RoleGestorInv}
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Items     *inventory.ItemUseCase
	Reconcile *inventory.ReconcileUseCase
	Engine    *inventory.Engine
	JWTSecret string
	Log       *logger.Logger
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret), RequireRole())

	items := api.Group("/items")
	itemHandler := NewItemHandler(deps.Items, deps.Reconcile, log)
	items.Post("/", RequireRole(itemWriters...), itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Post("/:id/reconcile", RequireRole(itemWriters...), itemHandler.Reconcile)

	movements := api.Group("/movements")
	movementHandler := NewMovementHandler(deps.Engine, log)
	movements.Post("/", RequireRole(movementWriters...), movementHandler.Create)
	movements.Get("/", movementHandler.List)
	movements.Get("/:id", movementHandler.GetByID)
	movements.Put("/:id", RequireRole(movementWriters...), movementHandler.Update)
	movements.Delete("/:id", RequireRole(movementWriters...), movementHandler.Delete)
}
