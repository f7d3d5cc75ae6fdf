// Package memory implementa los puertos de inventario en memoria del proceso.
// Sirve para desarrollo (STOCK_STORE=memory) y para pruebas: misma semántica que
// PostgreSQL, con un candado por ítem en lugar de SELECT FOR UPDATE y escrituras
// preparadas que solo se publican al confirmar.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/maestranza-stock/internal/domain"
	"github.com/jhoicas/maestranza-stock/internal/domain/entity"
	"github.com/jhoicas/maestranza-stock/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.ItemRepository     = (*ItemRepo)(nil)
	_ repository.MovementRepository = (*MovementRepo)(nil)
)

// Store almacén en memoria.
type Store struct {
	mu        sync.RWMutex
	items     map[string]entity.InventoryItem
	movements map[string]entity.Movement

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		items:     make(map[string]entity.InventoryItem),
		movements: make(map[string]entity.Movement),
		locks:     make(map[string]*sync.Mutex),
	}
}

// Items repositorio de ítems fuera de transacción (cada llamada es atómica).
func (s *Store) Items() *ItemRepo { return &ItemRepo{s: s} }

// Movements repositorio de movimientos fuera de transacción.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{s: s} }

// Run ejecuta fn en una transacción: las escrituras se publican solo si fn devuelve nil.
// Los candados de ítem tomados con GetForUpdate se liberan al terminar.
func (s *Store) Run(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	movRepo repository.MovementRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &tx{
		items:     make(map[string]entity.InventoryItem),
		movements: make(map[string]*entity.Movement),
		held:      make(map[string]*sync.Mutex),
	}
	defer tx.release()

	if err := fn(&ItemRepo{s: s, tx: tx}, &MovementRepo{s: s, tx: tx}); err != nil {
		return err
	}
	s.commit(tx)
	return nil
}

func (s *Store) lockFor(itemID string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	m, ok := s.locks[itemID]
	if !ok {
		m = &sync.Mutex{}
		s.locks[itemID] = m
	}
	return m
}

func (s *Store) commit(t *tx) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, it := range t.items {
		s.items[id] = it
	}
	for id, m := range t.movements {
		if m == nil {
			delete(s.movements, id)
			continue
		}
		s.movements[id] = *m
	}
}

// tx escrituras preparadas. Un movimiento nil en el mapa marca un borrado.
type tx struct {
	items     map[string]entity.InventoryItem
	movements map[string]*entity.Movement
	held      map[string]*sync.Mutex
}

func (t *tx) release() {
	for _, m := range t.held {
		m.Unlock()
	}
}

// ItemRepo implementación en memoria de ItemRepository.
type ItemRepo struct {
	s  *Store
	tx *tx
}

func (r *ItemRepo) get(id string) (entity.InventoryItem, bool) {
	if r.tx != nil {
		if it, ok := r.tx.items[id]; ok {
			return it, true
		}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	it, ok := r.s.items[id]
	return it, ok
}

func (r *ItemRepo) put(it entity.InventoryItem) {
	if r.tx != nil {
		r.tx.items[it.ID] = it
		return
	}
	r.s.mu.Lock()
	r.s.items[it.ID] = it
	r.s.mu.Unlock()
}

// Create persiste un ítem nuevo. domain.ErrInvalidInput si el id ya existe.
func (r *ItemRepo) Create(_ context.Context, item *entity.InventoryItem) error {
	if _, ok := r.get(item.ID); ok {
		return domain.ErrInvalidInput
	}
	r.put(cloneItem(*item))
	return nil
}

// GetByID obtiene un ítem por ID.
func (r *ItemRepo) GetByID(_ context.Context, id string) (*entity.InventoryItem, error) {
	it, ok := r.get(id)
	if !ok {
		return nil, nil
	}
	c := cloneItem(it)
	return &c, nil
}

// GetForUpdate toma el candado del ítem hasta el fin de la transacción y lo lee.
// Fuera de transacción equivale a GetByID.
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error) {
	if r.tx != nil {
		if _, held := r.tx.held[id]; !held {
			m := r.s.lockFor(id)
			m.Lock()
			r.tx.held[id] = m
		}
	}
	return r.GetByID(ctx, id)
}

// SetQuantity escribe la cantidad autoritativa del ítem.
func (r *ItemRepo) SetQuantity(_ context.Context, id string, quantity decimal.Decimal) error {
	it, ok := r.get(id)
	if !ok {
		return domain.ErrNotFound
	}
	it = cloneItem(it)
	it.Quantity = quantity
	r.put(it)
	return nil
}

// List lista ítems ordenados por nombre. limit 0 = todos.
func (r *ItemRepo) List(_ context.Context, limit, offset int) ([]*entity.InventoryItem, error) {
	r.s.mu.RLock()
	list := make([]*entity.InventoryItem, 0, len(r.s.items))
	for _, it := range r.s.items {
		c := cloneItem(it)
		list = append(list, &c)
	}
	r.s.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	return page(list, limit, offset), nil
}

// MovementRepo implementación en memoria de MovementRepository.
type MovementRepo struct {
	s  *Store
	tx *tx
}

func (r *MovementRepo) get(id string) (entity.Movement, bool) {
	if r.tx != nil {
		if m, ok := r.tx.movements[id]; ok {
			if m == nil {
				return entity.Movement{}, false
			}
			return *m, true
		}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.movements[id]
	return m, ok
}

func (r *MovementRepo) put(id string, m *entity.Movement) {
	if r.tx != nil {
		r.tx.movements[id] = m
		return
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if m == nil {
		delete(r.s.movements, id)
		return
	}
	r.s.movements[id] = *m
}

// Create persiste un movimiento.
func (r *MovementRepo) Create(_ context.Context, movement *entity.Movement) error {
	if _, ok := r.get(movement.ID); ok {
		return domain.ErrInvalidInput
	}
	m := *movement
	r.put(m.ID, &m)
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	m, ok := r.get(id)
	if !ok {
		return nil, nil
	}
	return &m, nil
}

// GetForUpdate lee el estado confirmado o preparado en esta tx. El candado del ítem
// dueño, tomado antes por el motor, ya serializa las escrituras sobre el movimiento.
func (r *MovementRepo) GetForUpdate(ctx context.Context, id string) (*entity.Movement, error) {
	return r.GetByID(ctx, id)
}

// Update sobrescribe un movimiento existente.
func (r *MovementRepo) Update(_ context.Context, movement *entity.Movement) error {
	if _, ok := r.get(movement.ID); !ok {
		return domain.ErrNotFound
	}
	m := *movement
	r.put(m.ID, &m)
	return nil
}

// Delete elimina un movimiento.
func (r *MovementRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.get(id); !ok {
		return domain.ErrNotFound
	}
	r.put(id, nil)
	return nil
}

// List historial filtrado, más recientes primero.
func (r *MovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	r.s.mu.RLock()
	merged := make(map[string]entity.Movement, len(r.s.movements))
	for id, m := range r.s.movements {
		merged[id] = m
	}
	r.s.mu.RUnlock()
	if r.tx != nil {
		for id, m := range r.tx.movements {
			if m == nil {
				delete(merged, id)
				continue
			}
			merged[id] = *m
		}
	}

	list := make([]*entity.Movement, 0, len(merged))
	for _, m := range merged {
		if f.ItemID != "" && m.ItemID != f.ItemID {
			continue
		}
		if f.Type != "" && m.Type != f.Type {
			continue
		}
		if f.From != nil && m.MovementDate.Before(*f.From) {
			continue
		}
		if f.To != nil && m.MovementDate.After(*f.To) {
			continue
		}
		c := m
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].MovementDate.Equal(list[j].MovementDate) {
			return list[i].MovementDate.After(list[j].MovementDate)
		}
		return list[i].ID < list[j].ID
	})
	return page(list, f.Limit, f.Offset), nil
}

func cloneItem(it entity.InventoryItem) entity.InventoryItem {
	if it.LowStockThreshold != nil {
		th := *it.LowStockThreshold
		it.LowStockThreshold = &th
	}
	if it.ExpirationDate != nil {
		d := *it.ExpirationDate
		it.ExpirationDate = &d
	}
	return it
}

func page[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
