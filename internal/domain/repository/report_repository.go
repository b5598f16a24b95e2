package repository

import (
	"context"
)

// ReportRepository consultas de solo lectura sobre el modelo del motor.
// Las implementaciones no modifican datos.
type ReportRepository interface {
	// StocksBelowMinimum stocks con MinStock > 0 y cantidad < MinStock (insumos y almacenes activos).
	StocksBelowMinimum(ctx context.Context, warehouseID *string) ([]StockAlert, error)
	// StocksAboveMaximum stocks con MaxStock > 0 y cantidad > MaxStock (insumos y almacenes activos).
	StocksAboveMaximum(ctx context.Context, warehouseID *string) ([]StockAlert, error)
}
