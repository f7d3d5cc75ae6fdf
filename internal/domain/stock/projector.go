package stock

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/maestranza-stock/internal/domain"
	"github.com/jhoicas/maestranza-stock/internal/domain/entity"
)

// MaxQuantity cota exclusiva de cantidades y saldos: NUMERIC(12,2) guarda |x| < 10^10.
var MaxQuantity = decimal.New(1, 10)

// InRange indica si q cabe en NUMERIC(12,2).
func InRange(q decimal.Decimal) bool {
	return q.Abs().LessThan(MaxQuantity)
}

// Sign devuelve +1 para ENTRADA y DEVOLUCION, -1 para SALIDA y TRANSFERENCIA.
// Es la única tabla de signos: creación y reversión pasan por aquí.
func Sign(t entity.MovementType) (int64, error) {
	switch t {
	case entity.MovementTypeEntrada, entity.MovementTypeDevolucion:
		return 1, nil
	case entity.MovementTypeSalida, entity.MovementTypeTransferencia:
		return -1, nil
	}
	return 0, fmt.Errorf("%w: tipo %q desconocido", domain.ErrInvalidTransition, t)
}

// Delta cambio con signo implicado por un movimiento: Sign(t) * qty.
func Delta(t entity.MovementType, qty decimal.Decimal) (decimal.Decimal, error) {
	s, err := Sign(t)
	if err != nil {
		return decimal.Zero, err
	}
	return qty.Mul(decimal.NewFromInt(s)), nil
}

// Effect par (tipo, cantidad) de un movimiento; es lo único que afecta al stock.
type Effect struct {
	Type     entity.MovementType
	Quantity decimal.Decimal
}

// EffectOf extrae el efecto de un movimiento persistido.
func EffectOf(m *entity.Movement) Effect {
	return Effect{Type: m.Type, Quantity: m.Quantity}
}

// Validate exige tipo conocido y cantidad positiva con a lo sumo 2 decimales.
func (e Effect) Validate() error {
	if !e.Type.Valid() {
		return fmt.Errorf("%w: tipo %q desconocido", domain.ErrInvalidTransition, e.Type)
	}
	if !e.Quantity.GreaterThan(decimal.Zero) {
		return fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidTransition)
	}
	if !e.Quantity.Equal(e.Quantity.Round(2)) {
		return fmt.Errorf("%w: la cantidad admite máximo 2 decimales", domain.ErrInvalidTransition)
	}
	if !InRange(e.Quantity) {
		return fmt.Errorf("%w: la cantidad debe ser menor que %s", domain.ErrInvalidTransition, MaxQuantity)
	}
	return nil
}

func (e Effect) delta() decimal.Decimal {
	d, _ := Delta(e.Type, e.Quantity)
	return d
}

// Kind clase de transición de un movimiento.
type Kind string

const (
	KindCreate Kind = "create"
	KindUpdate Kind = "update"
	KindDelete Kind = "delete"
)

// Transition describe el paso de un movimiento: none→new, old→new u old→none.
// BeforeMissing marca una actualización cuyo estado previo no pudo leerse:
// se aplica solo el efecto nuevo, sin reversión (consistencia degradada).
type Transition struct {
	Old           *Effect
	New           *Effect
	BeforeMissing bool
}

// Create transición de alta.
func Create(n Effect) Transition { return Transition{New: &n} }

// Update transición de edición con estado previo conocido.
func Update(old, n Effect) Transition { return Transition{Old: &old, New: &n} }

// DegradedUpdate edición sin estado previo disponible.
func DegradedUpdate(n Effect) Transition { return Transition{New: &n, BeforeMissing: true} }

// Delete transición de baja.
func Delete(old Effect) Transition { return Transition{Old: &old} }

// Kind clasifica la transición.
func (t Transition) Kind() (Kind, error) {
	switch {
	case t.New != nil && (t.Old != nil || t.BeforeMissing):
		return KindUpdate, nil
	case t.New != nil:
		return KindCreate, nil
	case t.Old != nil:
		return KindDelete, nil
	}
	return "", fmt.Errorf("%w: transición vacía", domain.ErrInvalidTransition)
}

// Projection resultado de proyectar una transición sobre la cantidad actual.
type Projection struct {
	Kind     Kind
	Previous decimal.Decimal // cantidad leída antes de aplicar
	Quantity decimal.Decimal // nueva cantidad autoritativa
	Reversed decimal.Decimal // delta del estado previo que se deshizo (0 si no aplica)
	Applied  decimal.Decimal // delta del estado nuevo que se aplicó (0 si no aplica)
	Degraded bool
}

// Delta cambio neto sobre la cantidad.
func (p Projection) Delta() decimal.Decimal {
	return p.Applied.Sub(p.Reversed)
}

// Project calcula la nueva cantidad:
//
//	create: current + Δ(new)
//	update: current − Δ(old) + Δ(new)   (degradada: current + Δ(new))
//	delete: current − Δ(old)
//
// No hay piso: la cantidad puede quedar negativa y se reporta vía alertas.
func Project(current decimal.Decimal, t Transition) (Projection, error) {
	kind, err := t.Kind()
	if err != nil {
		return Projection{}, err
	}
	p := Projection{
		Kind:     kind,
		Previous: current,
		Quantity: current,
		Reversed: decimal.Zero,
		Applied:  decimal.Zero,
		Degraded: kind == KindUpdate && t.Old == nil,
	}
	if t.Old != nil {
		if t.Old.Validate() != nil {
			// El estado previo viene del almacén: si no es válido no se puede revertir.
			return Projection{}, fmt.Errorf("%w: estado previo ilegible (%s, %s)",
				domain.ErrInconsistentState, t.Old.Type, t.Old.Quantity)
		}
		p.Reversed = t.Old.delta()
		p.Quantity = p.Quantity.Sub(p.Reversed)
	}
	if t.New != nil {
		if err := t.New.Validate(); err != nil {
			return Projection{}, err
		}
		p.Applied = t.New.delta()
		p.Quantity = p.Quantity.Add(p.Applied)
	}
	if !InRange(p.Quantity) {
		return Projection{}, fmt.Errorf("%w: el saldo %s excede el rango admitido", domain.ErrInvalidTransition, p.Quantity)
	}
	return p, nil
}
