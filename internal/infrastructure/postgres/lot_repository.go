package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/Inventario-costeo/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo implementación de LotRepository sobre PostgreSQL.
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

const lotColumns = `id, item_id, warehouse_id, lot_number, expiry_date, quantity, unit_cost, active, created_at, updated_at`

func scanLot(row pgx.Row) (*entity.Lot, error) {
	var l entity.Lot
	if err := row.Scan(&l.ID, &l.ItemID, &l.WarehouseID, &l.LotNumber, &l.ExpiryDate,
		&l.Quantity, &l.UnitCost, &l.Active, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

// GetForUpdate bloquea el lote por su clave natural (expiry NULL se compara como igual).
func (r *LotRepo) GetForUpdate(ctx context.Context, key entity.LotKey) (*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots
		WHERE item_id = $1 AND warehouse_id = $2 AND lot_number = $3
		  AND expiry_date IS NOT DISTINCT FROM $4::date
		FOR UPDATE`
	l, err := scanLot(r.q.QueryRow(ctx, query, key.ItemID, key.WarehouseID, key.LotNumber, key.ExpiryDate))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get lot for update", err)
	}
	return l, nil
}

// Upsert inserta el lote o actualiza cantidad y costo (último costo registrado).
func (r *LotRepo) Upsert(ctx context.Context, l *entity.Lot) error {
	query := `INSERT INTO lots (` + lotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			quantity = EXCLUDED.quantity,
			unit_cost = EXCLUDED.unit_cost,
			active = EXCLUDED.active,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query, l.ID, l.ItemID, l.WarehouseID, l.LotNumber, l.ExpiryDate,
		l.Quantity, l.UnitCost, l.Active, l.CreatedAt, l.UpdatedAt)
	return wrapErr("upsert lot", err)
}

// Find lotes activos con cantidad > 0 y vencimiento, ordenados por vencimiento y id.
func (r *LotRepo) Find(ctx context.Context, f repository.LotFilter) ([]*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots
		WHERE active AND quantity > 0 AND expiry_date IS NOT NULL`
	var args []any
	pos := 1
	add := func(cond string, v any) {
		query += fmt.Sprintf(cond, pos)
		args = append(args, v)
		pos++
	}
	if f.WarehouseID != nil {
		add(" AND warehouse_id = $%d", *f.WarehouseID)
	}
	if f.ExpiryFrom != nil {
		add(" AND expiry_date >= $%d::date", *f.ExpiryFrom)
	}
	if f.ExpiryTo != nil {
		add(" AND expiry_date <= $%d::date", *f.ExpiryTo)
	}
	if f.ExpiryBefore != nil {
		add(" AND expiry_date < $%d::date", *f.ExpiryBefore)
	}
	query += " ORDER BY expiry_date, id"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("find lots", err)
	}
	defer rows.Close()
	var list []*entity.Lot
	for rows.Next() {
		l, err := scanLot(rows)
		if err != nil {
			return nil, wrapErr("scan lot", err)
		}
		list = append(list, l)
	}
	return list, wrapErr("find lots", rows.Err())
}
