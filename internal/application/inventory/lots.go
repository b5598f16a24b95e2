package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-costeo/internal/domain"
	"github.com/jhoicas/Inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/Inventario-costeo/internal/domain/repository"
)

// LotTracker consultas de vencimiento sobre lotes activos con cantidad > 0.
// "Hoy" se toma del reloj inyectado, truncado a fecha.
type LotTracker struct {
	lotRepo repository.LotRepository
	now     func() time.Time
}

// NewLotTracker construye el caso de uso con el reloj del sistema.
func NewLotTracker(lotRepo repository.LotRepository) *LotTracker {
	return &LotTracker{lotRepo: lotRepo, now: time.Now}
}

// WithClock reemplaza el reloj (pruebas y procesos batch con fecha de corte).
func (t *LotTracker) WithClock(now func() time.Time) *LotTracker {
	t.now = now
	return t
}

// ExpiringWithin lotes con vencimiento en [hoy, hoy+days], ordenados por vencimiento.
func (t *LotTracker) ExpiringWithin(ctx context.Context, days int, warehouseID *string) ([]*entity.Lot, error) {
	if days < 0 {
		return nil, domain.ErrInvalidInput
	}
	today := entity.DateOnly(t.now())
	limit := today.AddDate(0, 0, days)
	return t.lotRepo.Find(ctx, repository.LotFilter{
		WarehouseID: warehouseID,
		ExpiryFrom:  &today,
		ExpiryTo:    &limit,
	})
}

// Expired lotes con vencimiento anterior a hoy.
func (t *LotTracker) Expired(ctx context.Context, warehouseID *string) ([]*entity.Lot, error) {
	today := entity.DateOnly(t.now())
	return t.lotRepo.Find(ctx, repository.LotFilter{
		WarehouseID:  warehouseID,
		ExpiryBefore: &today,
	})
}
