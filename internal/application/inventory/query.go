package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/Inventario-costeo/internal/domain/repository"
)

// LedgerQueryUseCase lecturas del libro de inventario para reportes. Sin bloqueos.
type LedgerQueryUseCase struct {
	stockRepo    repository.StockRepository
	movementRepo repository.InventoryMovementRepository
}

// NewLedgerQueryUseCase construye el caso de uso de consulta.
func NewLedgerQueryUseCase(stockRepo repository.StockRepository, movementRepo repository.InventoryMovementRepository) *LedgerQueryUseCase {
	return &LedgerQueryUseCase{stockRepo: stockRepo, movementRepo: movementRepo}
}

// StockByWarehouse registros de stock de un almacén.
func (uc *LedgerQueryUseCase) StockByWarehouse(ctx context.Context, warehouseID string) ([]*entity.Stock, error) {
	return uc.stockRepo.ListByWarehouse(ctx, warehouseID)
}

// StockByItem registros de stock de un insumo en todos los almacenes.
func (uc *LedgerQueryUseCase) StockByItem(ctx context.Context, itemID string) ([]*entity.Stock, error) {
	return uc.stockRepo.ListByItem(ctx, itemID)
}

// MovementsByItem kardex del insumo, más recientes primero.
func (uc *LedgerQueryUseCase) MovementsByItem(ctx context.Context, itemID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	return uc.movementRepo.ListByItem(ctx, itemID, from, to, limit, offset)
}

// MovementsByWarehouse movimientos de un almacén, más recientes primero.
func (uc *LedgerQueryUseCase) MovementsByWarehouse(ctx context.Context, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	return uc.movementRepo.ListByWarehouse(ctx, warehouseID, from, to, limit, offset)
}
