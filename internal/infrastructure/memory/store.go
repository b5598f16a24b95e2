// Package memory implementa los repositorios y el TxRunner en memoria del proceso.
// Cada transacción trabaja sobre una copia del estado y la publica al hacer commit;
// las transacciones se serializan con un único token de escritura, lo que cumple
// el bloqueo exclusivo por fila de forma trivial.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Inventario-costeo/internal/application/ports"
	"github.com/jhoicas/Inventario-costeo/internal/domain"
	"github.com/jhoicas/Inventario-costeo/internal/domain/entity"
)

type stockKey struct {
	itemID      string
	warehouseID string
}

type state struct {
	units      map[string]entity.Unit
	categories map[string]entity.Category
	suppliers  map[string]entity.Supplier
	items      map[string]entity.Item
	warehouses map[string]entity.Warehouse
	stocks     map[stockKey]entity.Stock
	movements  []entity.InventoryMovement
	lots       map[string]entity.Lot
	dishes     map[string]entity.Dish
	counts     map[string]entity.PhysicalCount
	purchases  map[string]entity.PurchaseDocument
}

func newState() *state {
	return &state{
		units:      map[string]entity.Unit{},
		categories: map[string]entity.Category{},
		suppliers:  map[string]entity.Supplier{},
		items:      map[string]entity.Item{},
		warehouses: map[string]entity.Warehouse{},
		stocks:     map[stockKey]entity.Stock{},
		lots:       map[string]entity.Lot{},
		dishes:     map[string]entity.Dish{},
		counts:     map[string]entity.PhysicalCount{},
		purchases:  map[string]entity.PurchaseDocument{},
	}
}

func (s *state) clone() *state {
	c := &state{
		units:      make(map[string]entity.Unit, len(s.units)),
		categories: make(map[string]entity.Category, len(s.categories)),
		suppliers:  make(map[string]entity.Supplier, len(s.suppliers)),
		items:      make(map[string]entity.Item, len(s.items)),
		warehouses: make(map[string]entity.Warehouse, len(s.warehouses)),
		stocks:     make(map[stockKey]entity.Stock, len(s.stocks)),
		movements:  make([]entity.InventoryMovement, len(s.movements)),
		lots:       make(map[string]entity.Lot, len(s.lots)),
		dishes:     make(map[string]entity.Dish, len(s.dishes)),
		counts:     make(map[string]entity.PhysicalCount, len(s.counts)),
		purchases:  make(map[string]entity.PurchaseDocument, len(s.purchases)),
	}
	for k, v := range s.units {
		c.units[k] = v
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.suppliers {
		c.suppliers[k] = v
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.warehouses {
		c.warehouses[k] = v
	}
	for k, v := range s.stocks {
		c.stocks[k] = v
	}
	copy(c.movements, s.movements)
	for k, v := range s.lots {
		c.lots[k] = v
	}
	for k, v := range s.dishes {
		c.dishes[k] = cloneDish(v)
	}
	for k, v := range s.counts {
		c.counts[k] = cloneCount(v)
	}
	for k, v := range s.purchases {
		c.purchases[k] = v
	}
	return c
}

func cloneDish(d entity.Dish) entity.Dish {
	d.Lines = append([]entity.RecipeLine(nil), d.Lines...)
	return d
}

func cloneCount(c entity.PhysicalCount) entity.PhysicalCount {
	c.Lines = append([]entity.PhysicalCountLine(nil), c.Lines...)
	return c
}

// view acceso al estado: directo dentro de una transacción, sincronizado fuera de ella.
type view interface {
	read(fn func(st *state) error) error
	write(ctx context.Context, fn func(st *state) error) error
}

// Store estado compartido en memoria.
type Store struct {
	token chan struct{} // token de escritura: una transacción a la vez
	mu    sync.RWMutex  // protege st frente a lectores fuera de transacción
	st    *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	s := &Store{token: make(chan struct{}, 1), st: newState()}
	return s
}

func (s *Store) acquire(ctx context.Context) error {
	select {
	case s.token <- struct{}{}:
		return nil
	case <-ctx.Done():
		return &domain.TransientError{Op: "memory: esperando bloqueo", Err: ctx.Err()}
	}
}

func (s *Store) release() { <-s.token }

func (s *Store) read(fn func(st *state) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.st)
}

// write fuera de transacción: una sola escritura atómica.
func (s *Store) write(ctx context.Context, fn func(st *state) error) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

type txView struct {
	st *state
}

func (v *txView) read(fn func(st *state) error) error { return fn(v.st) }

func (v *txView) write(_ context.Context, fn func(st *state) error) error { return fn(v.st) }

// Repos repositorios fuera de transacción (lecturas de catálogo y reportes).
// No deben usarse dentro de TxRunner.Run: el token de escritura ya está tomado.
type Repos struct {
	Units      *UnitRepo
	Categories *CategoryRepo
	Suppliers  *SupplierRepo
	Items      *ItemRepo
	Warehouses *WarehouseRepo
	Stock      *StockRepo
	Movements  *MovementRepo
	Lots       *LotRepo
	Dishes     *DishRepo
	Counts     *CountRepo
	Purchases  *PurchaseDocumentRepo
	Reports    *ReportRepo
}

// Repos devuelve los repositorios atados al estado compartido.
func (s *Store) Repos() Repos {
	return newRepos(s)
}

func newRepos(v view) Repos {
	return Repos{
		Units:      &UnitRepo{v: v},
		Categories: &CategoryRepo{v: v},
		Suppliers:  &SupplierRepo{v: v},
		Items:      &ItemRepo{v: v},
		Warehouses: &WarehouseRepo{v: v},
		Stock:      &StockRepo{v: v},
		Movements:  &MovementRepo{v: v},
		Lots:       &LotRepo{v: v},
		Dishes:     &DishRepo{v: v},
		Counts:     &CountRepo{v: v},
		Purchases:  &PurchaseDocumentRepo{v: v},
		Reports:    &ReportRepo{v: v},
	}
}

// TxRunner implementa ports.TxRunner sobre el Store.
type TxRunner struct {
	store *Store
}

var _ ports.TxRunner = (*TxRunner)(nil)

// NewTxRunner construye el runner en memoria.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn sobre una copia del estado. Si fn devuelve error la copia se descarta;
// si no, reemplaza al estado compartido.
func (r *TxRunner) Run(ctx context.Context, fn func(tx ports.TxRepos) error) error {
	s := r.store
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	s.mu.RLock()
	work := s.st.clone()
	s.mu.RUnlock()

	repos := newRepos(&txView{st: work})
	if err := fn(ports.TxRepos{
		Movements: repos.Movements,
		Stock:     repos.Stock,
		Items:     repos.Items,
		Lots:      repos.Lots,
		Dishes:    repos.Dishes,
		Counts:    repos.Counts,
		Purchases: repos.Purchases,
	}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return &domain.TransientError{Op: "memory: commit", Err: err}
	}

	s.mu.Lock()
	s.st = work
	s.mu.Unlock()
	return nil
}
