package repository

import (
	"context"

	"github.com/jhoicas/Inventario-costeo/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// StockRepository define el puerto para consultar/actualizar stock por insumo+almacén.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	// Get devuelve nil, nil si no existe el registro.
	Get(ctx context.Context, itemID, warehouseID string) (*entity.Stock, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE). Devuelve nil, nil si no existe.
	GetForUpdate(ctx context.Context, itemID, warehouseID string) (*entity.Stock, error)
	// GetOrCreateForUpdate garantiza que la fila exista (cantidad 0, costo initialCost) y la bloquea.
	GetOrCreateForUpdate(ctx context.Context, itemID, warehouseID string, initialCost decimal.Decimal) (*entity.Stock, error)
	Upsert(ctx context.Context, stock *entity.Stock) error
	// ListByItem devuelve los registros del insumo en todos los almacenes.
	ListByItem(ctx context.Context, itemID string) ([]*entity.Stock, error)
	ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.Stock, error)
}

// StockAlert registro de stock fuera de umbrales junto con los datos del insumo.
type StockAlert struct {
	ItemID        string
	ItemName      string
	WarehouseID   string
	WarehouseName string
	Quantity      decimal.Decimal
	MinStock      decimal.Decimal
	MaxStock      *decimal.Decimal
}
