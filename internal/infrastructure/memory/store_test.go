package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/maestranza-stock/internal/domain"
	"github.com/jhoicas/maestranza-stock/internal/domain/entity"
	"github.com/jhoicas/maestranza-stock/internal/domain/repository"
	"github.com/jhoicas/maestranza-stock/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func seedItem(t *testing.T, s *memory.Store, id, name string) {
	t.Helper()
	require.NoError(t, s.Items().Create(context.Background(), &entity.InventoryItem{
		ID:       id,
		Name:     name,
		Quantity: decimal.Zero,
	}))
}

func movementAt(id, itemID string, mt entity.MovementType, qty int64, at time.Time) *entity.Movement {
	return &entity.Movement{
		ID:           id,
		ItemID:       itemID,
		Type:         mt,
		Quantity:     decimal.NewFromInt(qty),
		MovementDate: at,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Transacciones
// ──────────────────────────────────────────────────────────────────────────────

func TestRun_ConfirmaEscriturasSiFnTermina(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedItem(t, s, "it-1", "Guantes")

	err := s.Run(ctx, func(items repository.ItemRepository, movs repository.MovementRepository) error {
		if _, err := items.GetForUpdate(ctx, "it-1"); err != nil {
			return err
		}
		if err := movs.Create(ctx, movementAt("m-1", "it-1", entity.MovementTypeEntrada, 4, time.Now())); err != nil {
			return err
		}
		return items.SetQuantity(ctx, "it-1", decimal.NewFromInt(4))
	})
	require.NoError(t, err)

	it, err := s.Items().GetByID(ctx, "it-1")
	require.NoError(t, err)
	assert.True(t, it.Quantity.Equal(decimal.NewFromInt(4)))

	m, err := s.Movements().GetByID(ctx, "m-1")
	require.NoError(t, err)
	require.NotNil(t, m)
}

func TestRun_DescartaEscriturasSiFnFalla(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedItem(t, s, "it-1", "Guantes")
	boom := errors.New("boom")

	err := s.Run(ctx, func(items repository.ItemRepository, movs repository.MovementRepository) error {
		_ = movs.Create(ctx, movementAt("m-1", "it-1", entity.MovementTypeEntrada, 4, time.Now()))
		_ = items.SetQuantity(ctx, "it-1", decimal.NewFromInt(4))
		return boom
	})
	require.ErrorIs(t, err, boom)

	it, _ := s.Items().GetByID(ctx, "it-1")
	assert.True(t, it.Quantity.IsZero(), "la cantidad no debe cambiar tras un rollback")
	m, _ := s.Movements().GetByID(ctx, "m-1")
	assert.Nil(t, m, "el movimiento no debe persistir tras un rollback")
}

func TestRun_LeeSusPropiasEscrituras(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedItem(t, s, "it-1", "Guantes")
	require.NoError(t, s.Movements().Create(ctx, movementAt("m-1", "it-1", entity.MovementTypeEntrada, 2, time.Now())))

	err := s.Run(ctx, func(items repository.ItemRepository, movs repository.MovementRepository) error {
		require.NoError(t, items.SetQuantity(ctx, "it-1", decimal.NewFromInt(9)))
		it, err := items.GetForUpdate(ctx, "it-1")
		require.NoError(t, err)
		assert.True(t, it.Quantity.Equal(decimal.NewFromInt(9)))

		require.NoError(t, movs.Delete(ctx, "m-1"))
		m, err := movs.GetForUpdate(ctx, "m-1")
		require.NoError(t, err)
		assert.Nil(t, m)
		assert.ErrorIs(t, movs.Delete(ctx, "m-1"), domain.ErrNotFound)

		list, err := movs.List(ctx, repository.MovementFilter{ItemID: "it-1"})
		require.NoError(t, err)
		assert.Empty(t, list)
		return nil
	})
	require.NoError(t, err)
}

func TestRun_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := memory.NewStore().Run(ctx, func(repository.ItemRepository, repository.MovementRepository) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

// GetForUpdate serializa read-modify-write concurrentes sobre el mismo ítem.
func TestGetForUpdate_SerializaMismoItem(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedItem(t, s, "it-1", "Guantes")

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Run(ctx, func(items repository.ItemRepository, _ repository.MovementRepository) error {
				it, err := items.GetForUpdate(ctx, "it-1")
				if err != nil {
					return err
				}
				return items.SetQuantity(ctx, "it-1", it.Quantity.Add(decimal.NewFromInt(1)))
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	it, err := s.Items().GetByID(ctx, "it-1")
	require.NoError(t, err)
	assert.True(t, it.Quantity.Equal(decimal.NewFromInt(workers)), "got %s", it.Quantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios
// ──────────────────────────────────────────────────────────────────────────────

func TestItemRepo_NoExiste(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()

	it, err := s.Items().GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, it)
	assert.ErrorIs(t, s.Items().SetQuantity(ctx, "nope", decimal.NewFromInt(1)), domain.ErrNotFound)
}

func TestItemRepo_DevuelveCopias(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	th := decimal.NewFromInt(5)
	require.NoError(t, s.Items().Create(ctx, &entity.InventoryItem{ID: "it-1", Name: "A", LowStockThreshold: &th}))

	it, _ := s.Items().GetByID(ctx, "it-1")
	*it.LowStockThreshold = decimal.NewFromInt(99)

	again, _ := s.Items().GetByID(ctx, "it-1")
	assert.True(t, again.LowStockThreshold.Equal(decimal.NewFromInt(5)))
}

func TestItemRepo_ListOrdenaPorNombreYPagina(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedItem(t, s, "3", "Cascos")
	seedItem(t, s, "1", "Arneses")
	seedItem(t, s, "2", "Botas")

	all, err := s.Items().List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Arneses", "Botas", "Cascos"}, []string{all[0].Name, all[1].Name, all[2].Name})

	pg, err := s.Items().List(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, pg, 1)
	assert.Equal(t, "Botas", pg[0].Name)

	empty, err := s.Items().List(ctx, 10, 5)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMovementRepo_ListFiltraYOrdena(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	repo := s.Movements()
	require.NoError(t, repo.Create(ctx, movementAt("a", "it-1", entity.MovementTypeEntrada, 1, base)))
	require.NoError(t, repo.Create(ctx, movementAt("b", "it-1", entity.MovementTypeSalida, 1, base.Add(24*time.Hour))))
	require.NoError(t, repo.Create(ctx, movementAt("c", "it-2", entity.MovementTypeEntrada, 1, base.Add(48*time.Hour))))

	list, err := repo.List(ctx, repository.MovementFilter{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "c", list[0].ID, "más reciente primero")

	list, err = repo.List(ctx, repository.MovementFilter{ItemID: "it-1", Type: entity.MovementTypeSalida})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].ID)

	from := base.Add(12 * time.Hour)
	to := base.Add(36 * time.Hour)
	list, err = repo.List(ctx, repository.MovementFilter{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].ID)
}

func TestMovementRepo_UpdateNoExiste(t *testing.T) {
	err := memory.NewStore().Movements().Update(context.Background(),
		movementAt("x", "it-1", entity.MovementTypeEntrada, 1, time.Now()))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
