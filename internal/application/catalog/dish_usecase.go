package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Inventario-costeo/internal/application/dto"
	"github.com/jhoicas/Inventario-costeo/internal/application/ports"
	"github.com/jhoicas/Inventario-costeo/internal/application/recipe"
	"github.com/jhoicas/Inventario-costeo/internal/domain"
	"github.com/jhoicas/Inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/Inventario-costeo/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// DishUseCase alta de platos y mantenimiento de recetas. Tras cada cambio de receta
// recalcula y persiste el costo del plato.
type DishUseCase struct {
	txRunner ports.TxRunner
	dishRepo repository.DishRepository
	itemRepo repository.ItemRepository
	costing  *recipe.CostingUseCase
}

// NewDishUseCase construye el caso de uso.
func NewDishUseCase(txRunner ports.TxRunner, dishRepo repository.DishRepository, itemRepo repository.ItemRepository, costing *recipe.CostingUseCase) *DishUseCase {
	return &DishUseCase{txRunner: txRunner, dishRepo: dishRepo, itemRepo: itemRepo, costing: costing}
}

// Create crea un plato activo con su receta.
func (uc *DishUseCase) Create(ctx context.Context, in dto.CreateDishRequest) (*dto.DishResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.SalePrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	lines, err := uc.validateLines(ctx, in.Lines)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	dish := &entity.Dish{
		ID:          uuid.New().String(),
		Name:        name,
		Description: in.Description,
		SalePrice:   in.SalePrice,
		Category:    in.Category,
		Active:      true,
		RecipeCost:  decimal.Zero,
		Lines:       lines,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = uc.txRunner.Run(ctx, func(tx ports.TxRepos) error {
		return tx.Dishes.Create(ctx, dish)
	})
	if err != nil {
		return nil, err
	}
	return uc.Get(ctx, dish.ID, true)
}

// ReplaceRecipe reemplaza las líneas de la receta y recalcula el costo.
func (uc *DishUseCase) ReplaceRecipe(ctx context.Context, dishID string, in dto.ReplaceRecipeRequest) (*dto.DishResponse, error) {
	dish, err := uc.dishRepo.GetByID(ctx, dishID)
	if err != nil {
		return nil, err
	}
	if dish == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.validateLines(ctx, in.Lines)
	if err != nil {
		return nil, err
	}
	err = uc.txRunner.Run(ctx, func(tx ports.TxRepos) error {
		return tx.Dishes.ReplaceLines(ctx, dishID, lines)
	})
	if err != nil {
		return nil, err
	}
	return uc.Get(ctx, dishID, true)
}

// Update aplica cambios parciales al plato. Desactivarlo bloquea su consumo por producción.
func (uc *DishUseCase) Update(ctx context.Context, dishID string, in dto.UpdateDishRequest) (*dto.DishResponse, error) {
	err := uc.txRunner.Run(ctx, func(tx ports.TxRepos) error {
		dish, err := tx.Dishes.GetByID(ctx, dishID)
		if err != nil {
			return err
		}
		if dish == nil {
			return domain.ErrNotFound
		}
		if in.Name != nil {
			dish.Name = strings.TrimSpace(*in.Name)
		}
		if in.Description != nil {
			dish.Description = *in.Description
		}
		if in.SalePrice != nil {
			dish.SalePrice = *in.SalePrice
		}
		if in.Category != nil {
			dish.Category = *in.Category
		}
		if in.Active != nil {
			dish.Active = *in.Active
		}
		if dish.Name == "" || dish.SalePrice.IsNegative() {
			return domain.ErrInvalidInput
		}
		dish.UpdatedAt = time.Now()
		return tx.Dishes.UpdateHeader(ctx, dish)
	})
	if err != nil {
		return nil, err
	}
	return uc.Get(ctx, dishID, false)
}

// Indicators indicadores con el costo de receta calculado al momento, sin persistirlo.
func (uc *DishUseCase) Indicators(ctx context.Context, dishID string) (*dto.CostIndicatorsDTO, error) {
	ind, err := uc.costing.Indicators(ctx, dishID)
	if err != nil {
		return nil, err
	}
	return toIndicatorsDTO(*ind), nil
}

// RecostItem recalcula el costo de los platos que usan el insumo.
func (uc *DishUseCase) RecostItem(ctx context.Context, itemID string) (int, error) {
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return 0, err
	}
	if item == nil {
		return 0, domain.ErrNotFound
	}
	return uc.costing.RecomputeForItem(ctx, itemID)
}

// Get devuelve el plato con indicadores. Con recompute=true recalcula y persiste el costo antes.
func (uc *DishUseCase) Get(ctx context.Context, dishID string, recompute bool) (*dto.DishResponse, error) {
	if recompute {
		if _, err := uc.costing.ComputeCost(ctx, dishID, true); err != nil {
			return nil, err
		}
	}
	dish, err := uc.dishRepo.GetByID(ctx, dishID)
	if err != nil {
		return nil, err
	}
	if dish == nil {
		return nil, domain.ErrNotFound
	}
	ind := recipe.IndicatorsFor(dish.RecipeCost, dish.SalePrice)
	resp := &dto.DishResponse{
		ID:          dish.ID,
		Name:        dish.Name,
		Description: dish.Description,
		SalePrice:   dish.SalePrice,
		Category:    dish.Category,
		Active:      dish.Active,
		RecipeCost:  dish.RecipeCost,
		Lines:       make([]dto.RecipeLineRequest, 0, len(dish.Lines)),
		Indicators:  toIndicatorsDTO(ind),
	}
	for _, l := range dish.Lines {
		resp.Lines = append(resp.Lines, dto.RecipeLineRequest{ItemID: l.ItemID, Quantity: l.Quantity})
	}
	return resp, nil
}

// validateLines un insumo por línea, cantidad > 0 e insumo existente.
func (uc *DishUseCase) validateLines(ctx context.Context, in []dto.RecipeLineRequest) ([]entity.RecipeLine, error) {
	seen := make(map[string]struct{}, len(in))
	out := make([]entity.RecipeLine, 0, len(in))
	for _, l := range in {
		if l.ItemID == "" || !l.Quantity.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
		if _, dup := seen[l.ItemID]; dup {
			return nil, domain.ErrDuplicate
		}
		seen[l.ItemID] = struct{}{}
		item, err := uc.itemRepo.GetByID(ctx, l.ItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, domain.ErrInvalidInput
		}
		out = append(out, entity.RecipeLine{ItemID: l.ItemID, Quantity: l.Quantity})
	}
	return out, nil
}

func toIndicatorsDTO(ind recipe.Indicators) *dto.CostIndicatorsDTO {
	return &dto.CostIndicatorsDTO{
		RecipeCost:         ind.RecipeCost,
		FoodCostPercent:    ind.FoodCostPercent,
		GrossMargin:        ind.GrossMargin,
		GrossMarginPercent: ind.GrossMarginPercent,
	}
}
