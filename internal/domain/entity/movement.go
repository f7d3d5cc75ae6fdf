package entity

import (
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MovementType tipo de movimiento de inventario (códigos persistidos).
type MovementType string

const (
	MovementTypeEntrada       MovementType = "ENTRADA"       // inbound
	MovementTypeSalida        MovementType = "SALIDA"        // outbound
	MovementTypeTransferencia MovementType = "TRANSFERENCIA" // transfer
	MovementTypeDevolucion    MovementType = "DEVOLUCION"    // return
)

// MovementTypes lista los tipos válidos en orden estable.
var MovementTypes = []MovementType{
	MovementTypeEntrada,
	MovementTypeSalida,
	MovementTypeTransferencia,
	MovementTypeDevolucion,
}

// Valid indica si el tipo es uno de los cuatro conocidos.
func (t MovementType) Valid() bool {
	switch t {
	case MovementTypeEntrada, MovementTypeSalida, MovementTypeTransferencia, MovementTypeDevolucion:
		return true
	}
	return false
}

// ParseMovementType acepta el código persistido, la etiqueta en español con o sin tildes
// ("Devolución") y los alias en inglés (INBOUND, OUTBOUND, TRANSFER, RETURN).
func ParseMovementType(s string) (MovementType, bool) {
	// transform.Chain guarda estado interno: uno por llamada.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	clean, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		return "", false
	}
	switch strings.ToUpper(clean) {
	case "ENTRADA", "INBOUND", "IN":
		return MovementTypeEntrada, true
	case "SALIDA", "OUTBOUND", "OUT":
		return MovementTypeSalida, true
	case "TRANSFERENCIA", "TRANSFER":
		return MovementTypeTransferencia, true
	case "DEVOLUCION", "RETURN":
		return MovementTypeDevolucion, true
	}
	return "", false
}

// Movement representa un movimiento de stock sobre exactamente un ítem.
// Solo Type y Quantity afectan la cantidad del ítem al editarse.
type Movement struct {
	ID           string
	ItemID       string
	Type         MovementType
	Quantity     decimal.Decimal // siempre positiva; el signo lo da Type
	MovedBy      string          // UserID del actor (creación o última edición)
	MovementDate time.Time
	Project      string
	Notes        string
	UpdatedAt    time.Time
}
