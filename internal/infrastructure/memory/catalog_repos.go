package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Inventario-costeo/internal/domain"
	"github.com/jhoicas/Inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/Inventario-costeo/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.UnitRepository      = (*UnitRepo)(nil)
	_ repository.ItemRepository      = (*ItemRepo)(nil)
	_ repository.WarehouseRepository = (*WarehouseRepo)(nil)
	_ repository.DishRepository      = (*DishRepo)(nil)
)

// UnitRepo unidades de medida.
type UnitRepo struct{ v view }

func (r *UnitRepo) Create(ctx context.Context, u *entity.Unit) error {
	return r.v.write(ctx, func(st *state) error {
		if _, ok := st.units[u.ID]; ok {
			return domain.ErrDuplicate
		}
		st.units[u.ID] = *u
		return nil
	})
}

func (r *UnitRepo) GetByID(_ context.Context, id string) (*entity.Unit, error) {
	var out *entity.Unit
	err := r.v.read(func(st *state) error {
		if u, ok := st.units[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *UnitRepo) List(_ context.Context) ([]*entity.Unit, error) {
	var out []*entity.Unit
	err := r.v.read(func(st *state) error {
		for _, u := range st.units {
			u := u
			out = append(out, &u)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

// ItemRepo insumos.
type ItemRepo struct{ v view }

func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	return r.v.write(ctx, func(st *state) error {
		if _, ok := st.items[item.ID]; ok {
			return domain.ErrDuplicate
		}
		st.items[item.ID] = *item
		return nil
	})
}

func (r *ItemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	var out *entity.Item
	err := r.v.read(func(st *state) error {
		if it, ok := st.items[id]; ok {
			out = &it
		}
		return nil
	})
	return out, err
}

// GetForUpdate en memoria equivale a GetByID: la transacción ya es exclusiva.
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return r.GetByID(ctx, id)
}

func (r *ItemRepo) UpdateCost(ctx context.Context, itemID string, cost decimal.Decimal) error {
	return r.v.write(ctx, func(st *state) error {
		it, ok := st.items[itemID]
		if !ok {
			return domain.ErrNotFound
		}
		it.Cost = cost
		it.UpdatedAt = time.Now()
		st.items[itemID] = it
		return nil
	})
}

func (r *ItemRepo) List(_ context.Context, limit, offset int) ([]*entity.Item, error) {
	var out []*entity.Item
	err := r.v.read(func(st *state) error {
		for _, it := range st.items {
			it := it
			out = append(out, &it)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, limit, offset), err
}

// WarehouseRepo almacenes.
type WarehouseRepo struct{ v view }

func (r *WarehouseRepo) Create(ctx context.Context, w *entity.Warehouse) error {
	return r.v.write(ctx, func(st *state) error {
		if _, ok := st.warehouses[w.ID]; ok {
			return domain.ErrDuplicate
		}
		st.warehouses[w.ID] = *w
		return nil
	})
}

func (r *WarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.v.read(func(st *state) error {
		if w, ok := st.warehouses[id]; ok {
			out = &w
		}
		return nil
	})
	return out, err
}

func (r *WarehouseRepo) List(_ context.Context, limit, offset int) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	err := r.v.read(func(st *state) error {
		for _, w := range st.warehouses {
			w := w
			out = append(out, &w)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, limit, offset), err
}

// DishRepo platos y recetas.
type DishRepo struct{ v view }

func (r *DishRepo) Create(ctx context.Context, d *entity.Dish) error {
	return r.v.write(ctx, func(st *state) error {
		if _, ok := st.dishes[d.ID]; ok {
			return domain.ErrDuplicate
		}
		st.dishes[d.ID] = cloneDish(*d)
		return nil
	})
}

func (r *DishRepo) GetByID(_ context.Context, id string) (*entity.Dish, error) {
	var out *entity.Dish
	err := r.v.read(func(st *state) error {
		if d, ok := st.dishes[id]; ok {
			d = cloneDish(d)
			out = &d
		}
		return nil
	})
	return out, err
}

func (r *DishRepo) ReplaceLines(ctx context.Context, dishID string, lines []entity.RecipeLine) error {
	return r.v.write(ctx, func(st *state) error {
		d, ok := st.dishes[dishID]
		if !ok {
			return domain.ErrNotFound
		}
		d.Lines = append([]entity.RecipeLine(nil), lines...)
		d.UpdatedAt = time.Now()
		st.dishes[dishID] = d
		return nil
	})
}

func (r *DishRepo) UpdateHeader(ctx context.Context, in *entity.Dish) error {
	return r.v.write(ctx, func(st *state) error {
		d, ok := st.dishes[in.ID]
		if !ok {
			return domain.ErrNotFound
		}
		d.Name = in.Name
		d.Description = in.Description
		d.SalePrice = in.SalePrice
		d.Category = in.Category
		d.Active = in.Active
		d.UpdatedAt = in.UpdatedAt
		st.dishes[in.ID] = d
		return nil
	})
}

func (r *DishRepo) UpdateRecipeCost(ctx context.Context, dishID string, cost decimal.Decimal) error {
	return r.v.write(ctx, func(st *state) error {
		d, ok := st.dishes[dishID]
		if !ok {
			return domain.ErrNotFound
		}
		d.RecipeCost = cost
		d.UpdatedAt = time.Now()
		st.dishes[dishID] = d
		return nil
	})
}

func (r *DishRepo) ListByItem(_ context.Context, itemID string) ([]string, error) {
	var out []string
	err := r.v.read(func(st *state) error {
		for id, d := range st.dishes {
			for _, l := range d.Lines {
				if l.ItemID == itemID {
					out = append(out, id)
					break
				}
			}
		}
		return nil
	})
	sort.Strings(out)
	return out, err
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
