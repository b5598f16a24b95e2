package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/Inventario-costeo/internal/domain"
	"github.com/jhoicas/Inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/Inventario-costeo/internal/domain/repository"
)

var (
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
)

// SupplierRepo proveedores. El nombre es único sin distinguir mayúsculas, como el índice en PostgreSQL.
type SupplierRepo struct{ v view }

func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	return r.v.write(ctx, func(st *state) error {
		if _, ok := st.suppliers[s.ID]; ok {
			return domain.ErrDuplicate
		}
		if supplierNameTaken(st, s.ID, s.Name) {
			return domain.ErrDuplicate
		}
		st.suppliers[s.ID] = *s
		return nil
	})
}

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	var out *entity.Supplier
	err := r.v.read(func(st *state) error {
		if s, ok := st.suppliers[id]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	return r.v.write(ctx, func(st *state) error {
		if _, ok := st.suppliers[s.ID]; !ok {
			return domain.ErrNotFound
		}
		if supplierNameTaken(st, s.ID, s.Name) {
			return domain.ErrDuplicate
		}
		st.suppliers[s.ID] = *s
		return nil
	})
}

func (r *SupplierRepo) List(_ context.Context, search string, limit, offset int) ([]*entity.Supplier, error) {
	search = strings.ToLower(strings.TrimSpace(search))
	var out []*entity.Supplier
	err := r.v.read(func(st *state) error {
		for _, s := range st.suppliers {
			if search != "" && !strings.Contains(strings.ToLower(s.Name), search) {
				continue
			}
			s := s
			out = append(out, &s)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, limit, offset), err
}

func supplierNameTaken(st *state, id, name string) bool {
	for _, other := range st.suppliers {
		if other.ID != id && strings.EqualFold(other.Name, name) {
			return true
		}
	}
	return false
}

// CategoryRepo categorías de insumos.
type CategoryRepo struct{ v view }

func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	return r.v.write(ctx, func(st *state) error {
		if _, ok := st.categories[c.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, other := range st.categories {
			if strings.EqualFold(other.Name, c.Name) {
				return domain.ErrDuplicate
			}
		}
		st.categories[c.ID] = *c
		return nil
	})
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	var out *entity.Category
	err := r.v.read(func(st *state) error {
		if c, ok := st.categories[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *CategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	var out []*entity.Category
	err := r.v.read(func(st *state) error {
		for _, c := range st.categories {
			c := c
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}
