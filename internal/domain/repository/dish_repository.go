package repository

import (
	"context"

	"github.com/jhoicas/Inventario-costeo/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// DishRepository define el puerto de persistencia para platos y sus recetas.
type DishRepository interface {
	Create(ctx context.Context, dish *entity.Dish) error
	// GetByID devuelve el plato con sus líneas de receta.
	GetByID(ctx context.Context, id string) (*entity.Dish, error)
	ReplaceLines(ctx context.Context, dishID string, lines []entity.RecipeLine) error
	// UpdateHeader guarda nombre, descripción, precio, categoría y estado; no toca líneas ni costo.
	UpdateHeader(ctx context.Context, dish *entity.Dish) error
	UpdateRecipeCost(ctx context.Context, dishID string, cost decimal.Decimal) error
	// ListByItem devuelve los ids de platos cuya receta usa el insumo.
	ListByItem(ctx context.Context, itemID string) ([]string, error)
}
