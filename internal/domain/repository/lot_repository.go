package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-costeo/internal/domain/entity"
)

// LotFilter criterios de consulta de lotes activos con cantidad > 0.
// ExpiryFrom/ExpiryTo son inclusivos; ExpiryBefore es exclusivo.
type LotFilter struct {
	WarehouseID  *string
	ExpiryFrom   *time.Time
	ExpiryTo     *time.Time
	ExpiryBefore *time.Time
}

// LotRepository define el puerto de persistencia para lotes.
type LotRepository interface {
	// GetForUpdate bloquea el lote por su clave natural. Devuelve nil, nil si no existe.
	GetForUpdate(ctx context.Context, key entity.LotKey) (*entity.Lot, error)
	Upsert(ctx context.Context, lot *entity.Lot) error
	// Find devuelve lotes activos con cantidad > 0, ordenados por vencimiento y luego id.
	Find(ctx context.Context, filter LotFilter) ([]*entity.Lot, error)
}
