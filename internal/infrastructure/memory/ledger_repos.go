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
	_ repository.StockRepository             = (*StockRepo)(nil)
	_ repository.InventoryMovementRepository = (*MovementRepo)(nil)
	_ repository.LotRepository               = (*LotRepo)(nil)
	_ repository.ReportRepository            = (*ReportRepo)(nil)
)

// StockRepo registros de stock por insumo y almacén.
type StockRepo struct{ v view }

func (r *StockRepo) Get(_ context.Context, itemID, warehouseID string) (*entity.Stock, error) {
	var out *entity.Stock
	err := r.v.read(func(st *state) error {
		if s, ok := st.stocks[stockKey{itemID, warehouseID}]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *StockRepo) GetForUpdate(ctx context.Context, itemID, warehouseID string) (*entity.Stock, error) {
	return r.Get(ctx, itemID, warehouseID)
}

func (r *StockRepo) GetOrCreateForUpdate(ctx context.Context, itemID, warehouseID string, initialCost decimal.Decimal) (*entity.Stock, error) {
	var out *entity.Stock
	err := r.v.write(ctx, func(st *state) error {
		key := stockKey{itemID, warehouseID}
		s, ok := st.stocks[key]
		if !ok {
			s = *entity.NewStock(itemID, warehouseID, initialCost, time.Now())
			st.stocks[key] = s
		}
		out = &s
		return nil
	})
	return out, err
}

func (r *StockRepo) Upsert(ctx context.Context, s *entity.Stock) error {
	if s.Quantity.IsNegative() {
		return domain.ErrNegativeStockResult
	}
	return r.v.write(ctx, func(st *state) error {
		st.stocks[stockKey{s.ItemID, s.WarehouseID}] = *s
		return nil
	})
}

func (r *StockRepo) ListByItem(_ context.Context, itemID string) ([]*entity.Stock, error) {
	return r.list(func(s entity.Stock) bool { return s.ItemID == itemID })
}

func (r *StockRepo) ListByWarehouse(_ context.Context, warehouseID string) ([]*entity.Stock, error) {
	return r.list(func(s entity.Stock) bool { return s.WarehouseID == warehouseID })
}

func (r *StockRepo) list(match func(entity.Stock) bool) ([]*entity.Stock, error) {
	var out []*entity.Stock
	err := r.v.read(func(st *state) error {
		for _, s := range st.stocks {
			if match(s) {
				s := s
				out = append(out, &s)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].ItemID != out[j].ItemID {
			return out[i].ItemID < out[j].ItemID
		}
		return out[i].WarehouseID < out[j].WarehouseID
	})
	return out, err
}

// MovementRepo libro de movimientos (solo inserción).
type MovementRepo struct{ v view }

func (r *MovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	return r.v.write(ctx, func(st *state) error {
		st.movements = append(st.movements, *m)
		return nil
	})
}

func (r *MovementRepo) GetByID(_ context.Context, id string) (*entity.InventoryMovement, error) {
	var out *entity.InventoryMovement
	err := r.v.read(func(st *state) error {
		for _, m := range st.movements {
			if m.ID == id {
				m := m
				out = &m
				break
			}
		}
		return nil
	})
	return out, err
}

func (r *MovementRepo) ListByWarehouse(_ context.Context, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	return r.list(func(m entity.InventoryMovement) bool { return m.WarehouseID == warehouseID }, from, to, limit, offset)
}

func (r *MovementRepo) ListByItem(_ context.Context, itemID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	return r.list(func(m entity.InventoryMovement) bool { return m.ItemID == itemID }, from, to, limit, offset)
}

// list más recientes primero; from/to inclusivos sobre la fecha efectiva.
func (r *MovementRepo) list(match func(entity.InventoryMovement) bool, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	err := r.v.read(func(st *state) error {
		for i := len(st.movements) - 1; i >= 0; i-- {
			m := st.movements[i]
			if !match(m) {
				continue
			}
			if from != nil && m.Date.Before(*from) {
				continue
			}
			if to != nil && m.Date.After(*to) {
				continue
			}
			out = append(out, &m)
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return paginate(out, limit, offset), err
}

// LotRepo lotes por clave natural.
type LotRepo struct{ v view }

func sameExpiry(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func (r *LotRepo) GetForUpdate(_ context.Context, key entity.LotKey) (*entity.Lot, error) {
	var out *entity.Lot
	err := r.v.read(func(st *state) error {
		for _, l := range st.lots {
			if l.ItemID == key.ItemID && l.WarehouseID == key.WarehouseID &&
				l.LotNumber == key.LotNumber && sameExpiry(l.ExpiryDate, key.ExpiryDate) {
				l := l
				out = &l
				break
			}
		}
		return nil
	})
	return out, err
}

func (r *LotRepo) Upsert(ctx context.Context, l *entity.Lot) error {
	return r.v.write(ctx, func(st *state) error {
		st.lots[l.ID] = *l
		return nil
	})
}

func (r *LotRepo) Find(_ context.Context, f repository.LotFilter) ([]*entity.Lot, error) {
	var out []*entity.Lot
	err := r.v.read(func(st *state) error {
		for _, l := range st.lots {
			if !l.Active || !l.Quantity.IsPositive() || l.ExpiryDate == nil {
				continue
			}
			if f.WarehouseID != nil && l.WarehouseID != *f.WarehouseID {
				continue
			}
			exp := *l.ExpiryDate
			if f.ExpiryFrom != nil && exp.Before(*f.ExpiryFrom) {
				continue
			}
			if f.ExpiryTo != nil && exp.After(*f.ExpiryTo) {
				continue
			}
			if f.ExpiryBefore != nil && !exp.Before(*f.ExpiryBefore) {
				continue
			}
			l := l
			out = append(out, &l)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ExpiryDate.Equal(*out[j].ExpiryDate) {
			return out[i].ExpiryDate.Before(*out[j].ExpiryDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

// ReportRepo consultas de alertas de stock.
type ReportRepo struct{ v view }

func (r *ReportRepo) StocksBelowMinimum(_ context.Context, warehouseID *string) ([]repository.StockAlert, error) {
	return r.alerts(warehouseID, func(s entity.Stock, it entity.Item) bool {
		return it.MinStock.IsPositive() && s.Quantity.LessThan(it.MinStock)
	})
}

func (r *ReportRepo) StocksAboveMaximum(_ context.Context, warehouseID *string) ([]repository.StockAlert, error) {
	return r.alerts(warehouseID, func(s entity.Stock, it entity.Item) bool {
		return it.MaxStock != nil && it.MaxStock.IsPositive() && s.Quantity.GreaterThan(*it.MaxStock)
	})
}

func (r *ReportRepo) alerts(warehouseID *string, match func(entity.Stock, entity.Item) bool) ([]repository.StockAlert, error) {
	var out []repository.StockAlert
	err := r.v.read(func(st *state) error {
		for _, s := range st.stocks {
			if warehouseID != nil && s.WarehouseID != *warehouseID {
				continue
			}
			it, ok := st.items[s.ItemID]
			if !ok || !it.Active {
				continue
			}
			wh, ok := st.warehouses[s.WarehouseID]
			if !ok || !wh.Active {
				continue
			}
			if !match(s, it) {
				continue
			}
			out = append(out, repository.StockAlert{
				ItemID:        it.ID,
				ItemName:      it.Name,
				WarehouseID:   wh.ID,
				WarehouseName: wh.Name,
				Quantity:      s.Quantity,
				MinStock:      it.MinStock,
				MaxStock:      it.MaxStock,
			})
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].WarehouseName != out[j].WarehouseName {
			return out[i].WarehouseName < out[j].WarehouseName
		}
		return out[i].ItemName < out[j].ItemName
	})
	return out, err
}
