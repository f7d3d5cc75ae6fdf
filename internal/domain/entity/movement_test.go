package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/maestranza-stock/internal/domain/entity"
)

func TestParseMovementType_CodigosEtiquetasYAlias(t *testing.T) {
	cases := map[string]entity.MovementType{
		"ENTRADA":       entity.MovementTypeEntrada,
		"entrada":       entity.MovementTypeEntrada,
		"INBOUND":       entity.MovementTypeEntrada,
		" Salida ":      entity.MovementTypeSalida,
		"outbound":      entity.MovementTypeSalida,
		"Transferencia": entity.MovementTypeTransferencia,
		"TRANSFER":      entity.MovementTypeTransferencia,
		"Devolución":    entity.MovementTypeDevolucion,
		"DEVOLUCIÓN":    entity.MovementTypeDevolucion,
		"return":        entity.MovementTypeDevolucion,
	}
	for in, want := range cases {
		got, ok := entity.ParseMovementType(in)
		assert.True(t, ok, "debe reconocer %q", in)
		assert.Equal(t, want, got, "entrada %q", in)
	}
}

func TestParseMovementType_Desconocido(t *testing.T) {
	for _, in := range []string{"", "AJUSTE", "entradas"} {
		_, ok := entity.ParseMovementType(in)
		assert.False(t, ok, "no debe reconocer %q", in)
	}
}

func TestMovementType_Valid(t *testing.T) {
	for _, mt := range entity.MovementTypes {
		assert.True(t, mt.Valid())
	}
	assert.False(t, entity.MovementType("entrada").Valid(), "Valid compara contra el código persistido")
}
