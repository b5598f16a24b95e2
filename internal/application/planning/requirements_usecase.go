// Package planning calcula necesidades de insumos para un plan de menú. Solo lectura.
package planning

import (
	"context"
	"sort"

	"github.com/jhoicas/Inventario-costeo/internal/application/dto"
	"github.com/jhoicas/Inventario-costeo/internal/domain"
	"github.com/jhoicas/Inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/Inventario-costeo/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// RequirementsUseCase suma cantidad de receta × porciones planificadas por insumo.
type RequirementsUseCase struct {
	dishRepo  repository.DishRepository
	itemRepo  repository.ItemRepository
	stockRepo repository.StockRepository
}

// NewRequirementsUseCase construye el caso de uso.
func NewRequirementsUseCase(dishRepo repository.DishRepository, itemRepo repository.ItemRepository, stockRepo repository.StockRepository) *RequirementsUseCase {
	return &RequirementsUseCase{dishRepo: dishRepo, itemRepo: itemRepo, stockRepo: stockRepo}
}

// Calculate devuelve las necesidades ordenadas por nombre de insumo. Si el plan indica
// almacén, agrega la cantidad disponible y el faltante (nunca negativo).
func (uc *RequirementsUseCase) Calculate(ctx context.Context, plan entity.MenuPlan) ([]dto.RequirementDTO, error) {
	required := make(map[string]decimal.Decimal)
	for _, pi := range plan.Items {
		if pi.PlannedPortions.IsNegative() {
			return nil, domain.ErrInvalidQuantity
		}
		if pi.PlannedPortions.IsZero() {
			continue
		}
		dish, err := uc.dishRepo.GetByID(ctx, pi.DishID)
		if err != nil {
			return nil, err
		}
		if dish == nil {
			return nil, domain.ErrNotFound
		}
		for _, l := range dish.PositiveLines() {
			required[l.ItemID] = required[l.ItemID].Add(l.Quantity.Mul(pi.PlannedPortions))
		}
	}

	out := make([]dto.RequirementDTO, 0, len(required))
	for itemID, qty := range required {
		item, err := uc.itemRepo.GetByID(ctx, itemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, domain.ErrNotFound
		}
		r := dto.RequirementDTO{ItemID: itemID, ItemName: item.Name, Required: qty}
		if plan.WarehouseID != nil {
			available := decimal.Zero
			s, err := uc.stockRepo.Get(ctx, itemID, *plan.WarehouseID)
			if err != nil {
				return nil, err
			}
			if s != nil {
				available = s.Quantity
			}
			shortfall := decimal.Max(qty.Sub(available), decimal.Zero)
			r.Available = &available
			r.Shortfall = &shortfall
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ItemName != out[j].ItemName {
			return out[i].ItemName < out[j].ItemName
		}
		return out[i].ItemID < out[j].ItemID
	})
	return out, nil
}
