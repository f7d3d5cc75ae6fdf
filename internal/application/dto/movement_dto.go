package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMovementRequest body para POST /api/movements.
// movement_type acepta ENTRADA, SALIDA, TRANSFERENCIA, DEVOLUCION (con o sin tildes) o los alias en inglés.
type CreateMovementRequest struct {
	ItemID       string          `json:"item_id" validate:"required"`
	MovementType string          `json:"movement_type" validate:"required"`
	Quantity     decimal.Decimal `json:"quantity"`
	Project      string          `json:"project,omitempty" validate:"max=255"`
	Notes        string          `json:"notes,omitempty"`
	MovementDate *time.Time      `json:"movement_date,omitempty"`
}

// UpdateMovementRequest body para PUT /api/movements/{id}. Campos ausentes no cambian.
type UpdateMovementRequest struct {
	ItemID       *string          `json:"item_id,omitempty"`
	MovementType *string          `json:"movement_type,omitempty"`
	Quantity     *decimal.Decimal `json:"quantity,omitempty"`
	Project      *string          `json:"project,omitempty" validate:"omitempty,max=255"`
	Notes        *string          `json:"notes,omitempty"`
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID           string          `json:"id"`
	ItemID       string          `json:"item_id"`
	MovementType string          `json:"movement_type"`
	Quantity     decimal.Decimal `json:"quantity"`
	MovedBy      string          `json:"moved_by,omitempty"`
	MovementDate time.Time       `json:"movement_date"`
	Project      string          `json:"project,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// MovementResultResponse resultado de crear, editar o borrar un movimiento.
type MovementResultResponse struct {
	Movement   *MovementResponse `json:"movement,omitempty"`
	Item       ItemResponse      `json:"item"`
	Transition string            `json:"transition"` // create | update | delete
	Delta      decimal.Decimal   `json:"delta"`
	Degraded   bool              `json:"degraded"`
	Warning    string            `json:"warning,omitempty"`
}

// MovementListResponse historial paginado de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
