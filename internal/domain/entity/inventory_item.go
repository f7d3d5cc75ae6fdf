package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultLowStockThreshold umbral asignado cuando el ítem se crea sin uno explícito.
var DefaultLowStockThreshold = decimal.NewFromInt(5)

// InventoryItem representa un ítem del catálogo con su cantidad actual.
// Quantity es derivada de los movimientos: solo la escribe el motor de stock.
type InventoryItem struct {
	ID                string
	Name              string
	Description       string
	SerialNumber      string
	Location          string
	Quantity          decimal.Decimal  // 2 decimales; puede quedar negativa por sobre-retiro
	LowStockThreshold *decimal.Decimal // nil = nunca se considera stock bajo
	ExpirationDate    *time.Time       // solo fecha; nil = no vence
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
