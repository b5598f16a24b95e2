package recipe

import (
	"context"

	"github.com/jhoicas/Inventario-costeo/internal/domain"
	"github.com/jhoicas/Inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/Inventario-costeo/internal/domain/inventory"
	"github.com/jhoicas/Inventario-costeo/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// CostingUseCase calcula el costo de receta de un plato a partir del costo global vigente
// de cada insumo. Solo escribe Dish.RecipeCost.
type CostingUseCase struct {
	dishRepo repository.DishRepository
	itemRepo repository.ItemRepository
	log      zerolog.Logger
}

// NewCostingUseCase construye el caso de uso de costeo.
func NewCostingUseCase(dishRepo repository.DishRepository, itemRepo repository.ItemRepository, log zerolog.Logger) *CostingUseCase {
	return &CostingUseCase{dishRepo: dishRepo, itemRepo: itemRepo, log: log}
}

// Indicators indicadores de costo de un plato.
type Indicators struct {
	RecipeCost         decimal.Decimal
	FoodCostPercent    *decimal.Decimal // nil si precio de venta <= 0
	GrossMargin        decimal.Decimal
	GrossMarginPercent *decimal.Decimal // nil si precio de venta <= 0
}

// ComputeCost Σ(cantidad × costo del insumo) sobre las líneas con cantidad > 0, a 4 decimales.
// Con persist=true guarda el resultado en el plato.
func (uc *CostingUseCase) ComputeCost(ctx context.Context, dishID string, persist bool) (decimal.Decimal, error) {
	dish, err := uc.dishRepo.GetByID(ctx, dishID)
	if err != nil {
		return decimal.Zero, err
	}
	if dish == nil {
		return decimal.Zero, domain.ErrNotFound
	}
	cost, err := uc.costOf(ctx, dish)
	if err != nil {
		return decimal.Zero, err
	}
	if persist {
		if err := uc.dishRepo.UpdateRecipeCost(ctx, dishID, cost); err != nil {
			return decimal.Zero, err
		}
		uc.log.Debug().Str("dish_id", dishID).Str("recipe_cost", cost.String()).Msg("costo de receta actualizado")
	}
	return cost, nil
}

func (uc *CostingUseCase) costOf(ctx context.Context, dish *entity.Dish) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, l := range dish.PositiveLines() {
		item, err := uc.itemRepo.GetByID(ctx, l.ItemID)
		if err != nil {
			return decimal.Zero, err
		}
		if item == nil {
			return decimal.Zero, domain.ErrNotFound
		}
		total = total.Add(l.Quantity.Mul(item.Cost))
	}
	return inventory.Round4(total), nil
}

// IndicatorsFor calcula los indicadores a partir del costo de receta y el precio de venta.
func IndicatorsFor(recipeCost, salePrice decimal.Decimal) Indicators {
	ind := Indicators{
		RecipeCost:  recipeCost,
		GrossMargin: inventory.Round4(salePrice.Sub(recipeCost)),
	}
	if pct, ok := inventory.Percent(recipeCost, salePrice); ok {
		ind.FoodCostPercent = &pct
	}
	if pct, ok := inventory.Percent(ind.GrossMargin, salePrice); ok {
		ind.GrossMarginPercent = &pct
	}
	return ind
}

// Indicators recalcula el costo (sin persistir) y devuelve los indicadores del plato.
func (uc *CostingUseCase) Indicators(ctx context.Context, dishID string) (*Indicators, error) {
	dish, err := uc.dishRepo.GetByID(ctx, dishID)
	if err != nil {
		return nil, err
	}
	if dish == nil {
		return nil, domain.ErrNotFound
	}
	cost, err := uc.costOf(ctx, dish)
	if err != nil {
		return nil, err
	}
	ind := IndicatorsFor(cost, dish.SalePrice)
	return &ind, nil
}

// RecomputeForItem recalcula y persiste el costo de todos los platos que usan el insumo.
// Devuelve cuántos platos se actualizaron.
func (uc *CostingUseCase) RecomputeForItem(ctx context.Context, itemID string) (int, error) {
	dishIDs, err := uc.dishRepo.ListByItem(ctx, itemID)
	if err != nil {
		return 0, err
	}
	for _, id := range dishIDs {
		if _, err := uc.ComputeCost(ctx, id, true); err != nil {
			return 0, err
		}
	}
	if len(dishIDs) > 0 {
		uc.log.Info().Str("item_id", itemID).Int("dishes", len(dishIDs)).Msg("costos de receta recalculados")
	}
	return len(dishIDs), nil
}
