package ports

import (
	"context"

	"github.com/jhoicas/Inventario-costeo/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción de BD.
type TxRepos struct {
	Movements repository.InventoryMovementRepository
	Stock     repository.StockRepository
	Items     repository.ItemRepository
	Lots      repository.LotRepository
	Dishes    repository.DishRepository
	Counts    repository.PhysicalCountRepository
	Purchases repository.PurchaseDocumentRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de inventario: si fn devuelve error se hace Rollback
// y ninguna escritura parcial queda visible.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx TxRepos) error) error
}
