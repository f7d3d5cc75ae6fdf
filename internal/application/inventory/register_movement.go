package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/maestranza-stock/internal/application/dto"
	"github.com/jhoicas/maestranza-stock/internal/domain"
	"github.com/jhoicas/maestranza-stock/internal/domain/entity"
)

// CreateFromRequest adapta el request HTTP a OnMovementCreated. actorID sale del token.
func (e *Engine) CreateFromRequest(ctx context.Context, actorID string, in dto.CreateMovementRequest) (*MovementResult, error) {
	mt, ok := entity.ParseMovementType(in.MovementType)
	if !ok {
		return nil, fmt.Errorf("%w: tipo %q desconocido", domain.ErrInvalidTransition, in.MovementType)
	}
	return e.OnMovementCreated(ctx, CreateMovementInput{
		ItemID:       in.ItemID,
		Type:         mt,
		Quantity:     in.Quantity,
		ActorID:      actorID,
		Project:      in.Project,
		Notes:        in.Notes,
		MovementDate: in.MovementDate,
	})
}

// UpdateFromRequest adapta el request HTTP a OnMovementUpdated.
func (e *Engine) UpdateFromRequest(ctx context.Context, movementID, actorID string, in dto.UpdateMovementRequest) (*MovementResult, error) {
	input := UpdateMovementInput{
		ItemID:   in.ItemID,
		Quantity: in.Quantity,
		Project:  in.Project,
		Notes:    in.Notes,
		ActorID:  actorID,
	}
	if in.MovementType != nil {
		mt, ok := entity.ParseMovementType(*in.MovementType)
		if !ok {
			return nil, fmt.Errorf("%w: tipo %q desconocido", domain.ErrInvalidTransition, *in.MovementType)
		}
		input.Type = &mt
	}
	return e.OnMovementUpdated(ctx, movementID, input)
}

// ToMovementResultResponse convierte el resultado del motor a DTO.
func ToMovementResultResponse(res *MovementResult) dto.MovementResultResponse {
	out := dto.MovementResultResponse{
		Item:       ToItemResponse(res.Item),
		Transition: string(res.Kind),
		Delta:      res.Delta,
		Degraded:   res.Degraded,
		Warning:    res.Warning,
	}
	if res.Movement != nil {
		m := ToMovementResponse(res.Movement)
		out.Movement = &m
	}
	return out
}

// ToMovementResponse convierte un movimiento a DTO.
func ToMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:           m.ID,
		ItemID:       m.ItemID,
		MovementType: string(m.Type),
		Quantity:     m.Quantity,
		MovedBy:      m.MovedBy,
		MovementDate: m.MovementDate,
		Project:      m.Project,
		Notes:        m.Notes,
		UpdatedAt:    m.UpdatedAt,
	}
}

// ToItemResponse convierte un snapshot de ítem a DTO.
func ToItemResponse(s ItemSnapshot) dto.ItemResponse {
	it := s.Item
	out := dto.ItemResponse{
		ID:                it.ID,
		Name:              it.Name,
		Description:       it.Description,
		SerialNumber:      it.SerialNumber,
		Location:          it.Location,
		Quantity:          it.Quantity,
		LowStockThreshold: it.LowStockThreshold,
		IsLowStock:        s.Alerts.LowStock,
		IsExpired:         s.Alerts.Expired,
		IsExpiringSoon:    s.Alerts.ExpiringSoon,
		CreatedAt:         it.CreatedAt,
		UpdatedAt:         it.UpdatedAt,
	}
	if it.ExpirationDate != nil {
		d := it.ExpirationDate.Format(dateLayout)
		out.ExpirationDate = &d
	}
	return out
}
