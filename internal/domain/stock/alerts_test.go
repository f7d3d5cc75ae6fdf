package stock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/maestranza-stock/internal/domain/entity"
	"github.com/jhoicas/maestranza-stock/internal/domain/stock"
)

var hoy = time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

func itemWith(qty, threshold string, exp *time.Time) *entity.InventoryItem {
	it := &entity.InventoryItem{ID: "it-1", Name: "Guantes", Quantity: dec(qty), ExpirationDate: exp}
	if threshold != "" {
		th := dec(threshold)
		it.LowStockThreshold = &th
	}
	return it
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestEvaluateAlerts_StockBajoIncluyeIgualdad(t *testing.T) {
	assert.True(t, stock.EvaluateAlerts(itemWith("5", "5", nil), hoy).LowStock)
	assert.True(t, stock.EvaluateAlerts(itemWith("-1", "5", nil), hoy).LowStock)
	assert.False(t, stock.EvaluateAlerts(itemWith("5.01", "5", nil), hoy).LowStock)
}

func TestEvaluateAlerts_SinUmbralNuncaEsBajo(t *testing.T) {
	assert.False(t, stock.EvaluateAlerts(itemWith("-100", "", nil), hoy).LowStock)
}

func TestEvaluateAlerts_VencidoTienePrecedencia(t *testing.T) {
	for _, exp := range []*time.Time{date(2025, 6, 15), date(2025, 1, 1), date(2020, 12, 31)} {
		a := stock.EvaluateAlerts(itemWith("10", "5", exp), hoy)
		assert.True(t, a.Expired, "vence %s", exp)
		assert.False(t, a.ExpiringSoon, "un ítem vencido no puede estar 'por vencer'")
	}
}

func TestEvaluateAlerts_PorVencerDentroDeLaVentana(t *testing.T) {
	a := stock.EvaluateAlerts(itemWith("10", "5", date(2025, 6, 16)), hoy)
	assert.False(t, a.Expired)
	assert.True(t, a.ExpiringSoon)

	// hoy + 180 días = 2025-12-12, todavía dentro
	a = stock.EvaluateAlerts(itemWith("10", "5", date(2025, 12, 12)), hoy)
	assert.True(t, a.ExpiringSoon)

	a = stock.EvaluateAlerts(itemWith("10", "5", date(2025, 12, 13)), hoy)
	assert.False(t, a.ExpiringSoon)
	assert.False(t, a.Any())
}

func TestAlertPolicy_VentanaConfigurable(t *testing.T) {
	p := stock.AlertPolicy{ExpiringSoonDays: 30}
	assert.False(t, p.Evaluate(itemWith("10", "5", date(2025, 8, 1)), hoy).ExpiringSoon)
	assert.True(t, p.Evaluate(itemWith("10", "5", date(2025, 7, 1)), hoy).ExpiringSoon)
}

// Evaluar dos veces el mismo ítem con la misma fecha da lo mismo y no lo modifica.
func TestEvaluateAlerts_Idempotente(t *testing.T) {
	it := itemWith("3", "5", date(2025, 7, 1))
	before := *it
	a1 := stock.EvaluateAlerts(it, hoy)
	a2 := stock.EvaluateAlerts(it, hoy)
	assert.Equal(t, a1, a2)
	assert.True(t, before.Quantity.Equal(it.Quantity))
	assert.Equal(t, before.ExpirationDate, it.ExpirationDate)
}
