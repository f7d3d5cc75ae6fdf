package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest entrada para crear un ítem. La cantidad inicia en 0: el stock inicial
// se registra como un movimiento ENTRADA.
type CreateItemRequest struct {
	Name              string           `json:"name" validate:"required,min=1,max=255"`
	Description       string           `json:"description"`
	SerialNumber      string           `json:"serial_number" validate:"max=100"`
	Location          string           `json:"location" validate:"max=100"`
	LowStockThreshold *decimal.Decimal `json:"low_stock_threshold"` // ausente = 5.00
	NoThreshold       bool             `json:"no_threshold"`        // true = sin alerta de stock bajo
	ExpirationDate    string           `json:"expiration_date" validate:"omitempty,datetime=2006-01-02"`
}

// ItemResponse salida de un ítem con sus alertas derivadas (nunca persistidas).
type ItemResponse struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Description       string           `json:"description,omitempty"`
	SerialNumber      string           `json:"serial_number,omitempty"`
	Location          string           `json:"location,omitempty"`
	Quantity          decimal.Decimal  `json:"quantity"`
	LowStockThreshold *decimal.Decimal `json:"low_stock_threshold"`
	ExpirationDate    *string          `json:"expiration_date"`
	IsLowStock        bool             `json:"is_low_stock"`
	IsExpired         bool             `json:"is_expired"`
	IsExpiringSoon    bool             `json:"is_expiring_soon"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// ItemListResponse lista paginada de ítems.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// ReconcileResponse comparación entre la cantidad guardada y la suma del libro.
type ReconcileResponse struct {
	ItemID    string          `json:"item_id"`
	Stored    decimal.Decimal `json:"stored_quantity"`
	Ledger    decimal.Decimal `json:"ledger_quantity"`
	Drift     decimal.Decimal `json:"drift"`
	Movements int             `json:"movements"`
	Applied   bool            `json:"applied"`
}
