package postgres

import (
	"context"

	"github.com/jhoicas/Inventario-costeo/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de alertas de stock (solo lectura, sin bloqueos).
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador. Acepta pool o tx (Querier).
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

const alertSelect = `
	SELECT i.id, i.name, w.id, w.name, s.quantity, i.min_stock, i.max_stock
	FROM stock s
	JOIN items i ON i.id = s.item_id
	JOIN warehouses w ON w.id = s.warehouse_id
	WHERE i.active AND w.active
	  AND ($1::uuid IS NULL OR s.warehouse_id = $1::uuid)`

// StocksBelowMinimum stocks con min_stock > 0 y cantidad por debajo.
func (r *ReportRepo) StocksBelowMinimum(ctx context.Context, warehouseID *string) ([]repository.StockAlert, error) {
	query := alertSelect + ` AND i.min_stock > 0 AND s.quantity < i.min_stock ORDER BY w.name, i.name`
	return r.alerts(ctx, "stocks below minimum", query, warehouseID)
}

// StocksAboveMaximum stocks con max_stock > 0 y cantidad por encima.
func (r *ReportRepo) StocksAboveMaximum(ctx context.Context, warehouseID *string) ([]repository.StockAlert, error) {
	query := alertSelect + ` AND i.max_stock > 0 AND s.quantity > i.max_stock ORDER BY w.name, i.name`
	return r.alerts(ctx, "stocks above maximum", query, warehouseID)
}

func (r *ReportRepo) alerts(ctx context.Context, op, query string, warehouseID *string) ([]repository.StockAlert, error) {
	rows, err := r.q.Query(ctx, query, warehouseID)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()
	var list []repository.StockAlert
	for rows.Next() {
		var a repository.StockAlert
		if err := rows.Scan(&a.ItemID, &a.ItemName, &a.WarehouseID, &a.WarehouseName,
			&a.Quantity, &a.MinStock, &a.MaxStock); err != nil {
			return nil, wrapErr(op, err)
		}
		list = append(list, a)
	}
	return list, wrapErr(op, rows.Err())
}
