package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/maestranza-stock/internal/application/dto"
	"github.com/jhoicas/maestranza-stock/internal/domain"
	"github.com/jhoicas/maestranza-stock/internal/domain/entity"
	"github.com/jhoicas/maestranza-stock/internal/domain/repository"
	"github.com/jhoicas/maestranza-stock/internal/domain/stock"
)

const dateLayout = "2006-01-02"

// Filtros de alerta aceptados por ListItems.
const (
	AlertFilterLowStock     = "low_stock"
	AlertFilterExpired      = "expired"
	AlertFilterExpiringSoon = "expiring_soon"
)

// ItemUseCase lecturas y alta de ítems. Las alertas se recalculan en cada lectura.
type ItemUseCase struct {
	repo   repository.ItemRepository
	policy stock.AlertPolicy
	now    func() time.Time
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository, policy stock.AlertPolicy) *ItemUseCase {
	return &ItemUseCase{repo: repo, policy: policy, now: time.Now}
}

// WithClock reemplaza el reloj usado para evaluar vencimientos.
func (uc *ItemUseCase) WithClock(now func() time.Time) *ItemUseCase {
	uc.now = now
	return uc
}

// Create crea un ítem con cantidad 0. Sin umbral explícito se usa 5.00.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*ItemSnapshot, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	var threshold *decimal.Decimal
	switch {
	case in.NoThreshold:
	case in.LowStockThreshold != nil:
		if in.LowStockThreshold.LessThan(decimal.Zero) || !stock.InRange(*in.LowStockThreshold) {
			return nil, domain.ErrInvalidInput
		}
		th := *in.LowStockThreshold
		threshold = &th
	default:
		th := entity.DefaultLowStockThreshold
		threshold = &th
	}
	var exp *time.Time
	if in.ExpirationDate != "" {
		d, err := time.Parse(dateLayout, in.ExpirationDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		exp = &d
	}
	now := uc.now()
	item := &entity.InventoryItem{
		ID:                uuid.New().String(),
		Name:              in.Name,
		Description:       in.Description,
		SerialNumber:      in.SerialNumber,
		Location:          in.Location,
		Quantity:          decimal.Zero,
		LowStockThreshold: threshold,
		ExpirationDate:    exp,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	snap := Snapshot(item, uc.policy, now)
	return &snap, nil
}

// Get devuelve el ítem con sus alertas. domain.ErrNotFound si no existe.
func (uc *ItemUseCase) Get(ctx context.Context, id string) (*ItemSnapshot, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	snap := Snapshot(item, uc.policy, uc.now())
	return &snap, nil
}

// List lista ítems. Con alert != "" filtra por la alerta derivada antes de paginar.
func (uc *ItemUseCase) List(ctx context.Context, alert string, limit, offset int) ([]ItemSnapshot, error) {
	if alert == "" {
		items, err := uc.repo.List(ctx, limit, offset)
		if err != nil {
			return nil, err
		}
		return uc.snapshots(items, nil), nil
	}

	var keep func(stock.Alerts) bool
	switch alert {
	case AlertFilterLowStock:
		keep = func(a stock.Alerts) bool { return a.LowStock }
	case AlertFilterExpired:
		keep = func(a stock.Alerts) bool { return a.Expired }
	case AlertFilterExpiringSoon:
		keep = func(a stock.Alerts) bool { return a.ExpiringSoon }
	default:
		return nil, domain.ErrInvalidInput
	}
	items, err := uc.repo.List(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	all := uc.snapshots(items, keep)
	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return []ItemSnapshot{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (uc *ItemUseCase) snapshots(items []*entity.InventoryItem, keep func(stock.Alerts) bool) []ItemSnapshot {
	today := uc.now()
	out := make([]ItemSnapshot, 0, len(items))
	for _, it := range items {
		s := Snapshot(it, uc.policy, today)
		if keep != nil && !keep(s.Alerts) {
			continue
		}
		out = append(out, s)
	}
	return out
}
