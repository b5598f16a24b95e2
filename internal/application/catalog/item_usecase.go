package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Inventario-costeo/internal/application/dto"
	"github.com/jhoicas/Inventario-costeo/internal/domain"
	"github.com/jhoicas/Inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/Inventario-costeo/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ItemUseCase casos de uso de unidades, categorías e insumos. Cost y stock se manejan vía movimientos.
type ItemUseCase struct {
	itemRepo     repository.ItemRepository
	unitRepo     repository.UnitRepository
	categoryRepo repository.CategoryRepository
	supplierRepo repository.SupplierRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(
	itemRepo repository.ItemRepository,
	unitRepo repository.UnitRepository,
	categoryRepo repository.CategoryRepository,
	supplierRepo repository.SupplierRepository,
) *ItemUseCase {
	return &ItemUseCase{itemRepo: itemRepo, unitRepo: unitRepo, categoryRepo: categoryRepo, supplierRepo: supplierRepo}
}

// CreateUnit crea una unidad de medida. Las unidades base tienen factor 1.
func (uc *ItemUseCase) CreateUnit(ctx context.Context, in dto.CreateUnitRequest) (*dto.UnitResponse, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Abbreviation) == "" {
		return nil, domain.ErrInvalidInput
	}
	factor := in.BaseFactor
	if in.IsBase {
		factor = decimal.NewFromInt(1)
	}
	if !factor.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	unit := &entity.Unit{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Abbreviation: strings.TrimSpace(in.Abbreviation),
		IsBase:       in.IsBase,
		BaseFactor:   factor,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.unitRepo.Create(ctx, unit); err != nil {
		return nil, err
	}
	return toUnitResponse(unit), nil
}

// ListUnits lista las unidades de medida.
func (uc *ItemUseCase) ListUnits(ctx context.Context) ([]dto.UnitResponse, error) {
	list, err := uc.unitRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UnitResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *toUnitResponse(u))
	}
	return out, nil
}

// CreateCategory crea una categoría de insumos.
func (uc *ItemUseCase) CreateCategory(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	c := &entity.Category{
		ID:          uuid.New().String(),
		Name:        name,
		Description: in.Description,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.categoryRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// ListCategories lista las categorías por nombre.
func (uc *ItemUseCase) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCategoryResponse(c))
	}
	return out, nil
}

// CreateItem crea un insumo con costo 0. Si tiene unidad de compra exige factor de conversión > 0.
func (uc *ItemUseCase) CreateItem(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	now := time.Now()
	item := &entity.Item{
		ID:               uuid.New().String(),
		Name:             strings.TrimSpace(in.Name),
		UnitID:           in.UnitID,
		PurchaseUnitID:   in.PurchaseUnitID,
		ConversionFactor: in.ConversionFactor,
		CategoryID:       in.CategoryID,
		SupplierID:       in.SupplierID,
		MinStock:         in.MinStock,
		MaxStock:         in.MaxStock,
		Cost:             decimal.Zero,
		Active:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if !item.Validate() {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.requireUnit(ctx, item.UnitID); err != nil {
		return nil, err
	}
	if item.PurchaseUnitID != nil {
		if err := uc.requireUnit(ctx, *item.PurchaseUnitID); err != nil {
			return nil, err
		}
	}
	if item.CategoryID != nil {
		c, err := uc.categoryRepo.GetByID(ctx, *item.CategoryID)
		if err != nil {
			return nil, err
		}
		if c == nil || !c.Active {
			return nil, domain.ErrInvalidInput
		}
	}
	if item.SupplierID != nil {
		s, err := uc.supplierRepo.GetByID(ctx, *item.SupplierID)
		if err != nil {
			return nil, err
		}
		if s == nil || !s.Active {
			return nil, domain.ErrInvalidInput
		}
	}
	if err := uc.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// GetItem obtiene un insumo por ID.
func (uc *ItemUseCase) GetItem(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return toItemResponse(item), nil
}

// ListItems lista insumos con paginación.
func (uc *ItemUseCase) ListItems(ctx context.Context, limit, offset int) (*dto.ItemListResponse, error) {
	list, err := uc.itemRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, i := range list {
		items = append(items, *toItemResponse(i))
	}
	return &dto.ItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func (uc *ItemUseCase) requireUnit(ctx context.Context, id string) error {
	unit, err := uc.unitRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if unit == nil {
		return domain.ErrInvalidInput
	}
	return nil
}

func toUnitResponse(u *entity.Unit) *dto.UnitResponse {
	return &dto.UnitResponse{
		ID:           u.ID,
		Name:         u.Name,
		Abbreviation: u.Abbreviation,
		IsBase:       u.IsBase,
		BaseFactor:   u.BaseFactor,
	}
}

func toItemResponse(i *entity.Item) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:               i.ID,
		Name:             i.Name,
		UnitID:           i.UnitID,
		PurchaseUnitID:   i.PurchaseUnitID,
		ConversionFactor: i.ConversionFactor,
		CategoryID:       i.CategoryID,
		SupplierID:       i.SupplierID,
		MinStock:         i.MinStock,
		MaxStock:         i.MaxStock,
		Cost:             i.Cost,
		Active:           i.Active,
		CreatedAt:        i.CreatedAt,
		UpdatedAt:        i.UpdatedAt,
	}
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description, Active: c.Active}
}
