package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/maestranza-stock/internal/application/dto"
	"github.com/jhoicas/maestranza-stock/internal/application/inventory"
	"github.com/jhoicas/maestranza-stock/internal/domain"
	"github.com/jhoicas/maestranza-stock/internal/domain/entity"
	"github.com/jhoicas/maestranza-stock/internal/domain/stock"
	"github.com/jhoicas/maestranza-stock/internal/infrastructure/memory"
)

func newItemUseCase(st *memory.Store) *inventory.ItemUseCase {
	return inventory.NewItemUseCase(st.Items(), stock.DefaultAlertPolicy()).WithClock(fixedClock)
}

func TestItemUseCase_CreateUmbralPorDefecto(t *testing.T) {
	uc := newItemUseCase(memory.NewStore())

	snap, err := uc.Create(context.Background(), dto.CreateItemRequest{Name: "Arnés"})
	require.NoError(t, err)
	assert.NotEmpty(t, snap.Item.ID)
	assert.True(t, snap.Item.Quantity.IsZero())
	require.NotNil(t, snap.Item.LowStockThreshold)
	assert.True(t, snap.Item.LowStockThreshold.Equal(entity.DefaultLowStockThreshold))
	assert.True(t, snap.Alerts.LowStock, "0 <= 5")
}

func TestItemUseCase_CreateSinUmbral(t *testing.T) {
	uc := newItemUseCase(memory.NewStore())

	snap, err := uc.Create(context.Background(), dto.CreateItemRequest{Name: "Casco", NoThreshold: true})
	require.NoError(t, err)
	assert.Nil(t, snap.Item.LowStockThreshold)
	assert.False(t, snap.Alerts.LowStock)
}

func TestItemUseCase_CreateValidaEntrada(t *testing.T) {
	uc := newItemUseCase(memory.NewStore())
	neg := decimal.NewFromInt(-1)
	huge := decimal.New(1, 10)

	cases := map[string]dto.CreateItemRequest{
		"sin nombre":       {},
		"umbral negativo":  {Name: "A", LowStockThreshold: &neg},
		"umbral enorme":    {Name: "A", LowStockThreshold: &huge},
		"fecha mal formada": {Name: "A", ExpirationDate: "15/06/2025"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestItemUseCase_GetRecalculaAlertas(t *testing.T) {
	ctx := context.Background()
	uc := newItemUseCase(memory.NewStore())

	created, err := uc.Create(ctx, dto.CreateItemRequest{Name: "Suero", ExpirationDate: "2025-06-15"})
	require.NoError(t, err)

	got, err := uc.Get(ctx, created.Item.ID)
	require.NoError(t, err)
	assert.True(t, got.Alerts.Expired, "vence hoy")
	assert.False(t, got.Alerts.ExpiringSoon)

	_, err = uc.Get(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemUseCase_ListFiltraPorAlerta(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()
	uc := newItemUseCase(st)

	_, err := uc.Create(ctx, dto.CreateItemRequest{Name: "A vencido", NoThreshold: true, ExpirationDate: "2025-01-01"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateItemRequest{Name: "B por vencer", NoThreshold: true, ExpirationDate: "2025-09-01"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateItemRequest{Name: "C bajo stock"})
	require.NoError(t, err)

	all, err := uc.List(ctx, "", 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	expired, err := uc.List(ctx, inventory.AlertFilterExpired, 0, 0)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, "A vencido", expired[0].Item.Name)

	soon, err := uc.List(ctx, inventory.AlertFilterExpiringSoon, 0, 0)
	require.NoError(t, err)
	require.Len(t, soon, 1)
	assert.Equal(t, "B por vencer", soon[0].Item.Name)

	low, err := uc.List(ctx, inventory.AlertFilterLowStock, 10, 0)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "C bajo stock", low[0].Item.Name)

	empty, err := uc.List(ctx, inventory.AlertFilterLowStock, 10, 5)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = uc.List(ctx, "caducado", 0, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
