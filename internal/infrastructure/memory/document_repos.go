package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Inventario-costeo/internal/domain"
	"github.com/jhoicas/Inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/Inventario-costeo/internal/domain/repository"
)

var (
	_ repository.PhysicalCountRepository    = (*CountRepo)(nil)
	_ repository.PurchaseDocumentRepository = (*PurchaseDocumentRepo)(nil)
)

// CountRepo conteos físicos con sus líneas.
type CountRepo struct{ v view }

func (r *CountRepo) Create(ctx context.Context, c *entity.PhysicalCount) error {
	return r.v.write(ctx, func(st *state) error {
		if _, ok := st.counts[c.ID]; ok {
			return domain.ErrDuplicate
		}
		st.counts[c.ID] = cloneCount(*c)
		return nil
	})
}

func (r *CountRepo) GetByID(_ context.Context, id string) (*entity.PhysicalCount, error) {
	var out *entity.PhysicalCount
	err := r.v.read(func(st *state) error {
		if c, ok := st.counts[id]; ok {
			c = cloneCount(c)
			sort.Slice(c.Lines, func(i, j int) bool { return c.Lines[i].ItemID < c.Lines[j].ItemID })
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *CountRepo) GetForUpdate(ctx context.Context, id string) (*entity.PhysicalCount, error) {
	return r.GetByID(ctx, id)
}

func (r *CountRepo) UpdateHeader(ctx context.Context, c *entity.PhysicalCount) error {
	return r.v.write(ctx, func(st *state) error {
		cur, ok := st.counts[c.ID]
		if !ok {
			return domain.ErrNotFound
		}
		lines := cur.Lines
		cur = *c
		cur.Lines = lines
		st.counts[c.ID] = cur
		return nil
	})
}

// UpsertLine guarda la cantidad contada y limpia el snapshot previo de la línea.
func (r *CountRepo) UpsertLine(ctx context.Context, line *entity.PhysicalCountLine) error {
	return r.v.write(ctx, func(st *state) error {
		c, ok := st.counts[line.CountID]
		if !ok {
			return domain.ErrNotFound
		}
		fresh := entity.PhysicalCountLine{
			ID:              line.ID,
			CountID:         line.CountID,
			ItemID:          line.ItemID,
			CountedQuantity: line.CountedQuantity,
		}
		for i := range c.Lines {
			if c.Lines[i].ItemID == line.ItemID {
				fresh.ID = c.Lines[i].ID
				c.Lines[i] = fresh
				st.counts[c.ID] = c
				return nil
			}
		}
		c.Lines = append(c.Lines, fresh)
		st.counts[c.ID] = c
		return nil
	})
}

func (r *CountRepo) DeleteLine(ctx context.Context, countID, itemID string) error {
	return r.v.write(ctx, func(st *state) error {
		c, ok := st.counts[countID]
		if !ok {
			return domain.ErrNotFound
		}
		for i := range c.Lines {
			if c.Lines[i].ItemID == itemID {
				c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
				st.counts[countID] = c
				return nil
			}
		}
		return domain.ErrNotFound
	})
}

func (r *CountRepo) SaveSnapshot(ctx context.Context, line *entity.PhysicalCountLine) error {
	return r.v.write(ctx, func(st *state) error {
		c, ok := st.counts[line.CountID]
		if !ok {
			return domain.ErrNotFound
		}
		for i := range c.Lines {
			if c.Lines[i].ItemID == line.ItemID {
				c.Lines[i].SystemQuantity = line.SystemQuantity
				c.Lines[i].Difference = line.Difference
				c.Lines[i].WithinTolerance = line.WithinTolerance
				st.counts[c.ID] = c
				return nil
			}
		}
		return domain.ErrNotFound
	})
}

// PurchaseDocumentRepo documentos de compra; el número es único.
type PurchaseDocumentRepo struct{ v view }

func (r *PurchaseDocumentRepo) Create(ctx context.Context, doc *entity.PurchaseDocument) error {
	return r.v.write(ctx, func(st *state) error {
		for _, d := range st.purchases {
			if d.ID == doc.ID || d.Number == doc.Number {
				return domain.ErrDuplicate
			}
		}
		st.purchases[doc.ID] = *doc
		return nil
	})
}

func (r *PurchaseDocumentRepo) GetByID(_ context.Context, id string) (*entity.PurchaseDocument, error) {
	var out *entity.PurchaseDocument
	err := r.v.read(func(st *state) error {
		if d, ok := st.purchases[id]; ok {
			out = &d
		}
		return nil
	})
	return out, err
}

func (r *PurchaseDocumentRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseDocument, error) {
	return r.GetByID(ctx, id)
}

func (r *PurchaseDocumentRepo) MarkProcessed(ctx context.Context, doc *entity.PurchaseDocument) error {
	return r.v.write(ctx, func(st *state) error {
		if _, ok := st.purchases[doc.ID]; !ok {
			return domain.ErrNotFound
		}
		st.purchases[doc.ID] = *doc
		return nil
	})
}
