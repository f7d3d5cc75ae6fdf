package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/maestranza-stock/internal/domain"
	"github.com/jhoicas/maestranza-stock/internal/domain/entity"
	"github.com/jhoicas/maestranza-stock/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, item_id, movement_type, quantity, moved_by, movement_date, project, notes, updated_at`

// MovementRepo implementación de MovementRepository sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO inventory_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ItemID, string(m.Type), m.Quantity, nullString(m.MovedBy),
		m.MovementDate, nullString(m.Project), nullString(m.Notes), m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID. (nil, nil) si no existe.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// GetForUpdate lee el movimiento bloqueando la fila (SELECT FOR UPDATE).
// Dentro de una tx la lectura va en un savepoint: si falla (lock_timeout, statement_timeout)
// se revierte solo el savepoint y la tx externa sigue usable para la edición degradada.
func (r *MovementRepo) GetForUpdate(ctx context.Context, id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements WHERE id = $1 FOR UPDATE`
	tx, ok := r.q.(pgx.Tx)
	if !ok {
		return lockedMovement(r.q.QueryRow(ctx, query, id))
	}

	sp, err := tx.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("savepoint movement: %w", err)
	}
	m, err := lockedMovement(sp.QueryRow(ctx, query, id))
	if err != nil {
		_ = sp.Rollback(ctx)
		return nil, err
	}
	// RELEASE SAVEPOINT conserva el bloqueo de la fila en la tx externa.
	if err := sp.Commit(ctx); err != nil {
		return nil, fmt.Errorf("release savepoint movement: %w", err)
	}
	return m, nil
}

func lockedMovement(row pgx.Row) (*entity.Movement, error) {
	m, err := scanMovement(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement for update: %w", err)
	}
	return m, nil
}

// Update sobrescribe tipo, cantidad, autor y datos descriptivos. item_id no cambia.
func (r *MovementRepo) Update(ctx context.Context, m *entity.Movement) error {
	query := `
		UPDATE inventory_movements
		SET movement_type = $2, quantity = $3, moved_by = $4, project = $5, notes = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		m.ID, string(m.Type), m.Quantity, nullString(m.MovedBy),
		nullString(m.Project), nullString(m.Notes), m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update movement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un movimiento.
func (r *MovementRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM inventory_movements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List historial filtrado, más recientes primero.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements WHERE 1=1`
	args := []any{}
	pos := 1
	if f.ItemID != "" {
		query += fmt.Sprintf(" AND item_id = $%d", pos)
		args = append(args, f.ItemID)
		pos++
	}
	if f.Type != "" {
		query += fmt.Sprintf(" AND movement_type = $%d", pos)
		args = append(args, string(f.Type))
		pos++
	}
	if f.From != nil {
		query += fmt.Sprintf(" AND movement_date >= $%d", pos)
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		query += fmt.Sprintf(" AND movement_date <= $%d", pos)
		args = append(args, *f.To)
		pos++
	}
	query += " ORDER BY movement_date DESC, id"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", pos)
		args = append(args, f.Limit)
		pos++
	}
	if f.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", pos)
		args = append(args, f.Offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	list := []*entity.Movement{}
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var movementType string
	var movedBy, project, notes *string
	if err := row.Scan(
		&m.ID, &m.ItemID, &movementType, &m.Quantity, &movedBy,
		&m.MovementDate, &project, &notes, &m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	// Sin validar: una fila con tipo desconocido la detecta el libro al revertirla.
	m.Type = entity.MovementType(movementType)
	m.MovedBy = deref(movedBy)
	m.Project = deref(project)
	m.Notes = deref(notes)
	return &m, nil
}
