package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Inventario-costeo/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para insumos (DIP).
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	// GetForUpdate bloquea la fila del insumo; serializa el recálculo de su costo global.
	GetForUpdate(ctx context.Context, id string) (*entity.Item, error)
	// UpdateCost actualiza solo el costo promedio global (usado por el motor de inventario).
	UpdateCost(ctx context.Context, itemID string, cost decimal.Decimal) error
	List(ctx context.Context, limit, offset int) ([]*entity.Item, error)
}

// UnitRepository define el puerto de persistencia para unidades de medida.
type UnitRepository interface {
	Create(ctx context.Context, unit *entity.Unit) error
	GetByID(ctx context.Context, id string) (*entity.Unit, error)
	List(ctx context.Context) ([]*entity.Unit, error)
}
