package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Inventario-costeo/internal/domain"
	"github.com/jhoicas/Inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/Inventario-costeo/internal/domain/repository"
)

var _ repository.PhysicalCountRepository = (*PhysicalCountRepo)(nil)

// PhysicalCountRepo conteos físicos y sus líneas sobre PostgreSQL.
type PhysicalCountRepo struct {
	q Querier
}

// NewPhysicalCountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPhysicalCountRepository(q Querier) *PhysicalCountRepo {
	return &PhysicalCountRepo{q: q}
}

const countColumns = `id, date, warehouse_id, responsible_id, tolerance_percent, tolerance_units, state, notes,
	closed_by, closed_at, approved_by, approved_at, adjusted_at, created_at, updated_at`

// Create inserta la cabecera y las líneas iniciales.
func (r *PhysicalCountRepo) Create(ctx context.Context, c *entity.PhysicalCount) error {
	query := `INSERT INTO physical_counts (` + countColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Date, c.WarehouseID, c.ResponsibleID, c.TolerancePercent, c.ToleranceUnits,
		c.State, c.Notes, c.ClosedBy, c.ClosedAt, c.ApprovedBy, c.ApprovedAt, c.AdjustedAt,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return wrapErr("create physical count", err)
	}
	for i := range c.Lines {
		line := c.Lines[i]
		line.CountID = c.ID
		if err := r.UpsertLine(ctx, &line); err != nil {
			return err
		}
	}
	return nil
}

// GetByID devuelve el conteo con sus líneas ordenadas por insumo.
func (r *PhysicalCountRepo) GetByID(ctx context.Context, id string) (*entity.PhysicalCount, error) {
	return r.get(ctx, `SELECT `+countColumns+` FROM physical_counts WHERE id = $1`, id)
}

// GetForUpdate bloquea la cabecera; las líneas quedan serializadas por ese bloqueo.
func (r *PhysicalCountRepo) GetForUpdate(ctx context.Context, id string) (*entity.PhysicalCount, error) {
	return r.get(ctx, `SELECT `+countColumns+` FROM physical_counts WHERE id = $1 FOR UPDATE`, id)
}

func (r *PhysicalCountRepo) get(ctx context.Context, query, id string) (*entity.PhysicalCount, error) {
	var c entity.PhysicalCount
	err := r.q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Date, &c.WarehouseID, &c.ResponsibleID, &c.TolerancePercent, &c.ToleranceUnits,
		&c.State, &c.Notes, &c.ClosedBy, &c.ClosedAt, &c.ApprovedBy, &c.ApprovedAt, &c.AdjustedAt,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get physical count", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, count_id, item_id, counted_quantity, system_quantity, difference, within_tolerance
		FROM physical_count_lines WHERE count_id = $1 ORDER BY item_id`, id)
	if err != nil {
		return nil, wrapErr("get count lines", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.PhysicalCountLine
		if err := rows.Scan(&l.ID, &l.CountID, &l.ItemID, &l.CountedQuantity,
			&l.SystemQuantity, &l.Difference, &l.WithinTolerance); err != nil {
			return nil, wrapErr("scan count line", err)
		}
		c.Lines = append(c.Lines, l)
	}
	return &c, wrapErr("get count lines", rows.Err())
}

// UpdateHeader persiste estado, cierre, aprobación y ajuste.
func (r *PhysicalCountRepo) UpdateHeader(ctx context.Context, c *entity.PhysicalCount) error {
	query := `
		UPDATE physical_counts SET
			tolerance_percent = $2, tolerance_units = $3, state = $4, notes = $5,
			closed_by = $6, closed_at = $7, approved_by = $8, approved_at = $9,
			adjusted_at = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, c.ID, c.TolerancePercent, c.ToleranceUnits, c.State, c.Notes,
		c.ClosedBy, c.ClosedAt, c.ApprovedBy, c.ApprovedAt, c.AdjustedAt, c.UpdatedAt)
	if err != nil {
		return wrapErr("update physical count", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpsertLine guarda la cantidad contada y limpia el snapshot previo de la línea.
func (r *PhysicalCountRepo) UpsertLine(ctx context.Context, line *entity.PhysicalCountLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	query := `
		INSERT INTO physical_count_lines (id, count_id, item_id, counted_quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (count_id, item_id) DO UPDATE SET
			counted_quantity = EXCLUDED.counted_quantity,
			system_quantity = NULL,
			difference = NULL,
			within_tolerance = FALSE
		RETURNING id`
	err := r.q.QueryRow(ctx, query, line.ID, line.CountID, line.ItemID, line.CountedQuantity).Scan(&line.ID)
	if err != nil {
		return wrapErr("upsert count line", err)
	}
	line.SystemQuantity, line.Difference, line.WithinTolerance = nil, nil, false
	return nil
}

// DeleteLine elimina la línea del insumo; ErrNotFound si no existe.
func (r *PhysicalCountRepo) DeleteLine(ctx context.Context, countID, itemID string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM physical_count_lines WHERE count_id = $1 AND item_id = $2`, countID, itemID)
	if err != nil {
		return wrapErr("delete count line", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SaveSnapshot persiste cantidad de sistema, diferencia y tolerancia de la línea.
func (r *PhysicalCountRepo) SaveSnapshot(ctx context.Context, line *entity.PhysicalCountLine) error {
	query := `
		UPDATE physical_count_lines
		SET system_quantity = $3, difference = $4, within_tolerance = $5
		WHERE count_id = $1 AND item_id = $2`
	tag, err := r.q.Exec(ctx, query, line.CountID, line.ItemID, line.SystemQuantity, line.Difference, line.WithinTolerance)
	if err != nil {
		return wrapErr("save count snapshot", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
