package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/maestranza-stock/internal/application/inventory"
	"github.com/jhoicas/maestranza-stock/internal/domain"
	"github.com/jhoicas/maestranza-stock/internal/domain/entity"
	"github.com/jhoicas/maestranza-stock/internal/infrastructure/memory"
)

func TestReconcile_SinDiferencia(t *testing.T) {
	f := newFixture(nil)
	f.seedItem(t, "it-1")
	f.create(t, "it-1", entity.MovementTypeEntrada, "10")
	f.create(t, "it-1", entity.MovementTypeSalida, "2.5")

	rep, err := inventory.NewReconcileUseCase(f.store).Reconcile(context.Background(), "it-1", true)
	require.NoError(t, err)
	assertQty(t, "7.5", rep.Stored)
	assertQty(t, "7.5", rep.Ledger)
	assert.True(t, rep.Drift.IsZero())
	assert.Equal(t, 2, rep.Movements)
	assert.False(t, rep.Applied)
}

// Tras una edición degradada la cantidad guardada se desvía del libro;
// conciliar con apply la corrige.
func TestReconcile_CorrigeDesvioDeEdicionDegradada(t *testing.T) {
	ctx := context.Background()
	runner := &faultyRunner{}
	f := newFixture(func(st *memory.Store) inventory.TxRunner {
		runner.inner = st
		return runner
	})
	f.seedItem(t, "it-1")
	m := f.create(t, "it-1", entity.MovementTypeEntrada, "3")

	runner.beforeStateErr = errors.New("fila no disponible")
	q := dec("10")
	res, err := f.engine.OnMovementUpdated(ctx, m.Movement.ID, inventory.UpdateMovementInput{Quantity: &q})
	require.NoError(t, err)
	require.True(t, res.Degraded)

	uc := inventory.NewReconcileUseCase(f.store)
	dry, err := uc.Reconcile(ctx, "it-1", false)
	require.NoError(t, err)
	assertQty(t, "13", dry.Stored)
	assertQty(t, "10", dry.Ledger)
	assertQty(t, "3", dry.Drift)
	assert.False(t, dry.Applied)
	assertQty(t, "13", f.quantity(t, "it-1"))

	fixed, err := uc.Reconcile(ctx, "it-1", true)
	require.NoError(t, err)
	assert.True(t, fixed.Applied)
	assertQty(t, "10", f.quantity(t, "it-1"))
}

func TestReconcile_Errores(t *testing.T) {
	ctx := context.Background()
	f := newFixture(nil)
	uc := inventory.NewReconcileUseCase(f.store)

	_, err := uc.Reconcile(ctx, "nope", false)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	f.seedItem(t, "it-1")
	require.NoError(t, f.store.Movements().Create(ctx, &entity.Movement{
		ID: "legacy", ItemID: "it-1", Type: entity.MovementType("AJUSTE"), Quantity: dec("1"),
	}))
	_, err = uc.Reconcile(ctx, "it-1", true)
	assert.ErrorIs(t, err, domain.ErrInconsistentState)
}
