package stock_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/maestranza-stock/internal/domain"
	"github.com/jhoicas/maestranza-stock/internal/domain/entity"
	"github.com/jhoicas/maestranza-stock/internal/domain/stock"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertQty(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "cantidad esperada %s, obtenida %s", want, got)
}

// ──────────────────────────────────────────────────────────────────────────────
// Sign / Delta
// ──────────────────────────────────────────────────────────────────────────────

func TestSign_TablaDeSignos(t *testing.T) {
	cases := map[entity.MovementType]int64{
		entity.MovementTypeEntrada:       1,
		entity.MovementTypeDevolucion:    1,
		entity.MovementTypeSalida:        -1,
		entity.MovementTypeTransferencia: -1,
	}
	for mt, want := range cases {
		got, err := stock.Sign(mt)
		require.NoError(t, err)
		assert.Equal(t, want, got, "signo de %s", mt)
	}
}

func TestSign_TipoDesconocido(t *testing.T) {
	_, err := stock.Sign("AJUSTE")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestDelta_AplicaSigno(t *testing.T) {
	d, err := stock.Delta(entity.MovementTypeSalida, dec("2.50"))
	require.NoError(t, err)
	assertQty(t, "-2.5", d)

	d, err = stock.Delta(entity.MovementTypeDevolucion, dec("4"))
	require.NoError(t, err)
	assertQty(t, "4", d)
}

// Crear y eliminar inmediatamente un movimiento idéntico deja la cantidad intacta.
func TestProject_CrearYEliminarEsNeutro(t *testing.T) {
	start := dec("7.25")
	for _, mt := range entity.MovementTypes {
		eff := stock.Effect{Type: mt, Quantity: dec("3.40")}

		created, err := stock.Project(start, stock.Create(eff))
		require.NoError(t, err)
		deleted, err := stock.Project(created.Quantity, stock.Delete(eff))
		require.NoError(t, err)

		assertQty(t, "7.25", deleted.Quantity)
		assert.Equal(t, stock.KindCreate, created.Kind)
		assert.Equal(t, stock.KindDelete, deleted.Kind)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Update: revertir antes de aplicar
// ──────────────────────────────────────────────────────────────────────────────

func TestProject_UpdateRevierteEfectoPrevio(t *testing.T) {
	q := dec("20")
	in := stock.Effect{Type: entity.MovementTypeEntrada, Quantity: dec("10")}
	out := stock.Effect{Type: entity.MovementTypeSalida, Quantity: dec("4")}

	created, err := stock.Project(q, stock.Create(in))
	require.NoError(t, err)
	assertQty(t, "30", created.Quantity)

	updated, err := stock.Project(created.Quantity, stock.Update(in, out))
	require.NoError(t, err)
	// Q+10−10−4 = Q−4, no Q+10−4
	assertQty(t, "16", updated.Quantity)
	assertQty(t, "10", updated.Reversed)
	assertQty(t, "-4", updated.Applied)
	assertQty(t, "-14", updated.Delta())
	assert.False(t, updated.Degraded)
}

func TestProject_UpdateSoloCantidad(t *testing.T) {
	old := stock.Effect{Type: entity.MovementTypeSalida, Quantity: dec("1")}
	n := stock.Effect{Type: entity.MovementTypeSalida, Quantity: dec("3")}
	p, err := stock.Project(dec("10"), stock.Update(old, n))
	require.NoError(t, err)
	assertQty(t, "8", p.Quantity)
}

func TestProject_UpdateDegradadoAplicaSoloNuevoDelta(t *testing.T) {
	n := stock.Effect{Type: entity.MovementTypeEntrada, Quantity: dec("10")}
	p, err := stock.Project(dec("2"), stock.DegradedUpdate(n))
	require.NoError(t, err)

	assert.Equal(t, stock.KindUpdate, p.Kind)
	assert.True(t, p.Degraded, "la proyección debe marcarse como degradada")
	assertQty(t, "12", p.Quantity)
	assertQty(t, "0", p.Reversed)
}

// ──────────────────────────────────────────────────────────────────────────────
// Validaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestProject_RechazaCantidadNoPositiva(t *testing.T) {
	for _, q := range []string{"0", "-1"} {
		_, err := stock.Project(dec("5"), stock.Create(stock.Effect{Type: entity.MovementTypeEntrada, Quantity: dec(q)}))
		assert.ErrorIs(t, err, domain.ErrInvalidTransition, "cantidad %s", q)
	}
}

func TestProject_RechazaMasDeDosDecimales(t *testing.T) {
	_, err := stock.Project(dec("5"), stock.Create(stock.Effect{Type: entity.MovementTypeEntrada, Quantity: dec("1.005")}))
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// ceros a la derecha no cuentan como precisión extra
	_, err = stock.Project(dec("5"), stock.Create(stock.Effect{Type: entity.MovementTypeEntrada, Quantity: dec("1.500")}))
	assert.NoError(t, err)
}

func TestProject_RespetaRangoNumeric12_2(t *testing.T) {
	entrada := func(q string) stock.Transition {
		return stock.Create(stock.Effect{Type: entity.MovementTypeEntrada, Quantity: dec(q)})
	}

	_, err := stock.Project(dec("0"), entrada("10000000000"))
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "la cantidad del movimiento no cabe")

	p, err := stock.Project(dec("0"), entrada("9999999999.99"))
	require.NoError(t, err, "máximo representable")
	assertQty(t, "9999999999.99", p.Quantity)

	_, err = stock.Project(dec("9999999999.99"), entrada("0.01"))
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "el saldo resultante no cabe")

	_, err = stock.Project(dec("-9999999999.99"),
		stock.Create(stock.Effect{Type: entity.MovementTypeSalida, Quantity: dec("1")}))
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "tampoco hacia negativo")

	assert.True(t, stock.InRange(dec("-9999999999.99")))
	assert.False(t, stock.InRange(stock.MaxQuantity))
}

func TestProject_EstadoPrevioIlegibleEsInconsistente(t *testing.T) {
	old := stock.Effect{Type: "LEGACY", Quantity: dec("1")}
	_, err := stock.Project(dec("5"), stock.Delete(old))
	assert.ErrorIs(t, err, domain.ErrInconsistentState)
}

func TestProject_TransicionVacia(t *testing.T) {
	_, err := stock.Project(dec("5"), stock.Transition{})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestProject_PermiteCantidadNegativa(t *testing.T) {
	p, err := stock.Project(dec("1"), stock.Create(stock.Effect{Type: entity.MovementTypeSalida, Quantity: dec("3")}))
	require.NoError(t, err)
	assertQty(t, "-2", p.Quantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario completo (cantidad inicial 0, umbral 5)
// ──────────────────────────────────────────────────────────────────────────────

func TestProject_EscenarioEntradaSalidaEdicionBorrado(t *testing.T) {
	threshold := dec("5")
	item := &entity.InventoryItem{Quantity: decimal.Zero, LowStockThreshold: &threshold}
	today := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	m1 := stock.Effect{Type: entity.MovementTypeEntrada, Quantity: dec("3")}
	m2 := stock.Effect{Type: entity.MovementTypeSalida, Quantity: dec("1")}

	p, err := stock.Project(item.Quantity, stock.Create(m1))
	require.NoError(t, err)
	item.Quantity = p.Quantity
	assertQty(t, "3", item.Quantity)
	assert.True(t, stock.EvaluateAlerts(item, today).LowStock)

	p, err = stock.Project(item.Quantity, stock.Create(m2))
	require.NoError(t, err)
	item.Quantity = p.Quantity
	assertQty(t, "2", item.Quantity)

	m1b := stock.Effect{Type: entity.MovementTypeEntrada, Quantity: dec("10")}
	p, err = stock.Project(item.Quantity, stock.Update(m1, m1b))
	require.NoError(t, err)
	item.Quantity = p.Quantity
	assertQty(t, "9", item.Quantity)
	assert.False(t, stock.EvaluateAlerts(item, today).LowStock)

	p, err = stock.Project(item.Quantity, stock.Delete(m2))
	require.NoError(t, err)
	assertQty(t, "10", p.Quantity)
}
