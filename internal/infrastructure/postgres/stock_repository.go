package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/Inventario-costeo/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `item_id, warehouse_id, quantity, unit_cost, updated_at`

func scanStock(row pgx.Row) (*entity.Stock, error) {
	var s entity.Stock
	if err := row.Scan(&s.ItemID, &s.WarehouseID, &s.Quantity, &s.UnitCost, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// Get obtiene el stock de un insumo en un almacén, sin bloquear.
func (r *StockRepo) Get(ctx context.Context, itemID, warehouseID string) (*entity.Stock, error) {
	query := `SELECT ` + stockColumns + ` FROM stock WHERE item_id = $1 AND warehouse_id = $2`
	s, err := scanStock(r.q.QueryRow(ctx, query, itemID, warehouseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get stock", err)
	}
	return s, nil
}

// GetForUpdate obtiene el stock y bloquea la fila para update (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, itemID, warehouseID string) (*entity.Stock, error) {
	query := `SELECT ` + stockColumns + ` FROM stock WHERE item_id = $1 AND warehouse_id = $2 FOR UPDATE`
	s, err := scanStock(r.q.QueryRow(ctx, query, itemID, warehouseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get stock for update", err)
	}
	return s, nil
}

// GetOrCreateForUpdate inserta la fila si no existe (ON CONFLICT DO NOTHING) y luego la bloquea.
// Dos transacciones que crean la misma fila a la vez terminan serializadas sobre ella.
func (r *StockRepo) GetOrCreateForUpdate(ctx context.Context, itemID, warehouseID string, initialCost decimal.Decimal) (*entity.Stock, error) {
	insert := `
		INSERT INTO stock (item_id, warehouse_id, quantity, unit_cost, updated_at)
		VALUES ($1, $2, 0, $3, now())
		ON CONFLICT (item_id, warehouse_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, itemID, warehouseID, initialCost); err != nil {
		return nil, wrapErr("create stock", err)
	}
	s, err := r.GetForUpdate(ctx, itemID, warehouseID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, wrapErr("create stock", pgx.ErrNoRows)
	}
	return s, nil
}

// Upsert inserta o actualiza cantidad y costo (por insumo y almacén).
func (r *StockRepo) Upsert(ctx context.Context, stock *entity.Stock) error {
	query := `
		INSERT INTO stock (item_id, warehouse_id, quantity, unit_cost, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (item_id, warehouse_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, unit_cost = EXCLUDED.unit_cost, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query, stock.ItemID, stock.WarehouseID, stock.Quantity, stock.UnitCost, stock.UpdatedAt)
	return wrapErr("upsert stock", err)
}

// ListByItem registros del insumo en todos los almacenes.
func (r *StockRepo) ListByItem(ctx context.Context, itemID string) ([]*entity.Stock, error) {
	query := `SELECT ` + stockColumns + ` FROM stock WHERE item_id = $1 ORDER BY warehouse_id`
	return r.list(ctx, "list stock by item", query, itemID)
}

// ListByWarehouse registros de un almacén.
func (r *StockRepo) ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.Stock, error) {
	query := `SELECT ` + stockColumns + ` FROM stock WHERE warehouse_id = $1 ORDER BY item_id`
	return r.list(ctx, "list stock by warehouse", query, warehouseID)
}

func (r *StockRepo) list(ctx context.Context, op, query string, arg string) ([]*entity.Stock, error) {
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()
	var list []*entity.Stock
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, wrapErr(op, err)
		}
		list = append(list, s)
	}
	return list, wrapErr(op, rows.Err())
}
