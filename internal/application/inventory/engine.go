package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/maestranza-stock/internal/domain"
	"github.com/jhoicas/maestranza-stock/internal/domain/entity"
	"github.com/jhoicas/maestranza-stock/internal/domain/repository"
	"github.com/jhoicas/maestranza-stock/internal/domain/stock"
)

// Engine motor de stock: cada alta, edición o baja de un movimiento pasa por exactamente
// una proyección, dentro de la misma transacción que bloquea la fila del ítem
// (SELECT FOR UPDATE) y escribe la nueva cantidad.
type Engine struct {
	txRunner TxRunner
	movRepo  repository.MovementRepository
	policy   stock.AlertPolicy
	sink     AlertSink
	now      func() time.Time
}

// NewEngine construye el motor. movRepo se usa solo para lecturas fuera de la transacción;
// sink puede ser nil.
func NewEngine(txRunner TxRunner, movRepo repository.MovementRepository, policy stock.AlertPolicy, sink AlertSink) *Engine {
	return &Engine{
		txRunner: txRunner,
		movRepo:  movRepo,
		policy:   policy,
		sink:     sink,
		now:      time.Now,
	}
}

// WithClock reemplaza el reloj (fecha de "hoy" para alertas y marcas de tiempo).
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// CreateMovementInput entrada de OnMovementCreated. ActorID lo provee el llamador (auth externa).
type CreateMovementInput struct {
	ItemID       string
	Type         entity.MovementType
	Quantity     decimal.Decimal
	ActorID      string
	Project      string
	Notes        string
	MovementDate *time.Time // nil = ahora
}

// UpdateMovementInput campos nuevos de un movimiento; nil = sin cambio.
// ItemID distinto al actual no está soportado (borrar y recrear en el otro ítem).
type UpdateMovementInput struct {
	ItemID   *string
	Type     *entity.MovementType
	Quantity *decimal.Decimal
	Project  *string
	Notes    *string
	ActorID  string
}

// MovementResult resultado de una transición confirmada.
type MovementResult struct {
	Movement *entity.Movement // nil tras un borrado
	Item     ItemSnapshot
	Kind     stock.Kind
	Delta    decimal.Decimal
	// Degraded indica que el estado previo no pudo leerse y solo se aplicó el delta nuevo.
	// La operación se confirmó; Warning describe la corrección aproximada para conciliar.
	Degraded bool
	Warning  string
}

// OnMovementCreated registra un movimiento nuevo y aplica current + Δ(new).
func (e *Engine) OnMovementCreated(ctx context.Context, in CreateMovementInput) (*MovementResult, error) {
	if in.ItemID == "" {
		return nil, domain.ErrInvalidInput
	}
	eff := stock.Effect{Type: in.Type, Quantity: in.Quantity}
	if err := eff.Validate(); err != nil {
		return nil, err
	}

	now := e.now()
	mov := &entity.Movement{
		ID:           uuid.New().String(),
		ItemID:       in.ItemID,
		Type:         in.Type,
		Quantity:     in.Quantity,
		MovedBy:      in.ActorID,
		MovementDate: now,
		Project:      in.Project,
		Notes:        in.Notes,
		UpdatedAt:    now,
	}
	if in.MovementDate != nil {
		mov.MovementDate = *in.MovementDate
	}

	var res *MovementResult
	err := e.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, movRepo repository.MovementRepository) error {
		item, err := itemRepo.GetForUpdate(ctx, in.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if err := NewLedger(movRepo).Append(ctx, mov); err != nil {
			return err
		}
		res, err = e.project(ctx, itemRepo, item, stock.Create(eff))
		return err
	})
	if err != nil {
		return nil, classify(err)
	}
	res.Movement = mov
	e.notify(ctx, mov.ID, res)
	return res, nil
}

// OnMovementUpdated edita un movimiento: current − Δ(old) + Δ(new).
// El movimiento nuevo se arma sobre la fila bloqueada dentro de la tx, no sobre la lectura previa.
// Si el estado previo no se puede leer aplica solo Δ(new) y devuelve Degraded=true.
func (e *Engine) OnMovementUpdated(ctx context.Context, movementID string, in UpdateMovementInput) (*MovementResult, error) {
	// Lectura sin bloqueo: solo ubica el ítem a bloquear y valida la reasignación.
	current, err := e.movRepo.GetByID(ctx, movementID)
	if err != nil {
		return nil, classify(err)
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}
	if in.ItemID != nil && *in.ItemID != current.ItemID {
		return nil, fmt.Errorf("%w: no se puede reasignar un movimiento a otro ítem", domain.ErrUnsupported)
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	var (
		res   *MovementResult
		draft entity.Movement
	)
	err = e.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, movRepo repository.MovementRepository) error {
		item, err := itemRepo.GetForUpdate(ctx, current.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}

		ledger := NewLedger(movRepo)
		stored, lerr := ledger.Lock(ctx, movementID)
		base := current
		if lerr == nil && stored != nil {
			base = stored
		}
		draft = in.apply(*base, e.now())
		eff := stock.EffectOf(&draft)
		if err := eff.Validate(); err != nil {
			return err
		}

		transition := stock.DegradedUpdate(eff)
		write := ledger.Replace
		warning := ""
		switch {
		case lerr != nil:
			warning = fmt.Sprintf("estado previo del movimiento %s no disponible (%v); se aplicó solo el nuevo delta", movementID, lerr)
		case stored == nil:
			// Borrado en paralelo: se vuelve a registrar con el nuevo efecto.
			write = ledger.Append
			warning = fmt.Sprintf("movimiento %s eliminado en paralelo; se registró de nuevo aplicando solo el nuevo delta", movementID)
		default:
			before, berr := Before(stored)
			if berr != nil {
				warning = fmt.Sprintf("estado previo del movimiento %s no reversible (%v); se aplicó solo el nuevo delta", movementID, berr)
			} else {
				transition = stock.Update(before.Effect, eff)
			}
		}

		if err := write(ctx, &draft); err != nil {
			return err
		}
		res, err = e.project(ctx, itemRepo, item, transition)
		if err != nil {
			return err
		}
		res.Warning = warning
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}
	res.Movement = &draft
	e.notify(ctx, movementID, res)
	return res, nil
}

// validate rechaza los campos nuevos inválidos antes de abrir la transacción.
func (in UpdateMovementInput) validate() error {
	if in.Type != nil && !in.Type.Valid() {
		return fmt.Errorf("%w: tipo %q desconocido", domain.ErrInvalidTransition, *in.Type)
	}
	if in.Quantity != nil {
		if err := (stock.Effect{Type: entity.MovementTypeEntrada, Quantity: *in.Quantity}).Validate(); err != nil {
			return err
		}
	}
	return nil
}

// apply copia sobre base los campos presentes en in.
func (in UpdateMovementInput) apply(base entity.Movement, now time.Time) entity.Movement {
	if in.Type != nil {
		base.Type = *in.Type
	}
	if in.Quantity != nil {
		base.Quantity = *in.Quantity
	}
	if in.Project != nil {
		base.Project = *in.Project
	}
	if in.Notes != nil {
		base.Notes = *in.Notes
	}
	if in.ActorID != "" {
		base.MovedBy = in.ActorID
	}
	base.UpdatedAt = now
	return base
}

// OnMovementDeleted elimina un movimiento y revierte su efecto: current − Δ(old).
func (e *Engine) OnMovementDeleted(ctx context.Context, movementID string) (*MovementResult, error) {
	current, err := e.movRepo.GetByID(ctx, movementID)
	if err != nil {
		return nil, classify(err)
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}

	var res *MovementResult
	err = e.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, movRepo repository.MovementRepository) error {
		item, err := itemRepo.GetForUpdate(ctx, current.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		ledger := NewLedger(movRepo)
		before, err := ledger.RecordBeforeUpdate(ctx, movementID)
		if err != nil {
			return err
		}
		if before == nil {
			// Borrado concurrente: ya no hay nada que revertir.
			return domain.ErrNotFound
		}
		if err := ledger.Remove(ctx, movementID); err != nil {
			return err
		}
		res, err = e.project(ctx, itemRepo, item, stock.Delete(before.Effect))
		return err
	})
	if err != nil {
		return nil, classify(err)
	}
	e.notify(ctx, movementID, res)
	return res, nil
}

// project aplica la transición sobre la cantidad bloqueada y la escribe en la misma tx.
func (e *Engine) project(ctx context.Context, itemRepo repository.ItemRepository, item *entity.InventoryItem, t stock.Transition) (*MovementResult, error) {
	p, err := stock.Project(item.Quantity, t)
	if err != nil {
		return nil, err
	}
	if err := itemRepo.SetQuantity(ctx, item.ID, p.Quantity); err != nil {
		return nil, err
	}
	updated := *item
	updated.Quantity = p.Quantity
	return &MovementResult{
		Item:     Snapshot(&updated, e.policy, e.now()),
		Kind:     p.Kind,
		Delta:    p.Delta(),
		Degraded: p.Degraded,
	}, nil
}

func (e *Engine) notify(ctx context.Context, movementID string, res *MovementResult) {
	if e.sink == nil {
		return
	}
	e.sink.Notify(ctx, StockEvent{
		Item:       res.Item,
		MovementID: movementID,
		Kind:       res.Kind,
		Delta:      res.Delta,
		Degraded:   res.Degraded,
		Warning:    res.Warning,
		At:         e.now(),
	})
}

// Snapshot congela el ítem junto con sus alertas evaluadas para today.
func Snapshot(item *entity.InventoryItem, policy stock.AlertPolicy, today time.Time) ItemSnapshot {
	return ItemSnapshot{Item: *item, Alerts: policy.Evaluate(item, today)}
}

// classify deja pasar los errores de dominio y envuelve el resto como fallo del almacén.
func classify(err error) error {
	for _, known := range []error{
		domain.ErrNotFound,
		domain.ErrInvalidInput,
		domain.ErrInvalidTransition,
		domain.ErrInconsistentState,
		domain.ErrUnsupported,
		domain.ErrStore,
		context.Canceled,
		context.DeadlineExceeded,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", domain.ErrStore, err)
}
