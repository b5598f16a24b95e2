package repository

import (
	"context"

	"github.com/jhoicas/Inventario-costeo/internal/domain/entity"
)

// SupplierRepository define el puerto de persistencia para proveedores.
// Un nombre repetido devuelve domain.ErrDuplicate.
type SupplierRepository interface {
	Create(ctx context.Context, s *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	Update(ctx context.Context, s *entity.Supplier) error
	// List ordena por nombre; search filtra por nombre sin distinguir mayúsculas.
	List(ctx context.Context, search string, limit, offset int) ([]*entity.Supplier, error)
}

// CategoryRepository define el puerto de persistencia para categorías de insumos.
type CategoryRepository interface {
	Create(ctx context.Context, c *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	List(ctx context.Context) ([]*entity.Category, error)
}
