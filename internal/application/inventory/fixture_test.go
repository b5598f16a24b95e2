package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-costeo/internal/application/inventory"
	"github.com/jhoicas/Inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/Inventario-costeo/internal/infrastructure/memory"
)

// Helpers de test: motor sobre el almacén en memoria

const (
	whCentral = "wh-a-central"
	whCocina  = "wh-b-cocina"
	itArroz   = "it-arroz"
	itPollo   = "it-pollo"
	testUser  = "user-1"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	ctx      context.Context
	store    *memory.Store
	repos    memory.Repos
	tx       *memory.TxRunner
	recorder *inventory.MovementRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	tx := memory.NewTxRunner(store)
	f := &fixture{
		ctx:      context.Background(),
		store:    store,
		repos:    repos,
		tx:       tx,
		recorder: inventory.NewMovementRecorder(tx, repos.Warehouses, zerolog.Nop()),
	}
	f.warehouse(t, whCentral, "Bodega central")
	f.warehouse(t, whCocina, "Cocina")
	f.item(t, &entity.Item{ID: itArroz, Name: "Arroz", UnitID: "kg"})
	f.item(t, &entity.Item{ID: itPollo, Name: "Pollo", UnitID: "kg"})
	return f
}

func (f *fixture) warehouse(t *testing.T, id, name string) {
	t.Helper()
	require.NoError(t, f.repos.Warehouses.Create(f.ctx, &entity.Warehouse{ID: id, Name: name, Active: true, CreatedAt: time.Now()}))
}

func (f *fixture) item(t *testing.T, it *entity.Item) {
	t.Helper()
	it.Active = true
	require.NoError(t, f.repos.Items.Create(f.ctx, it))
}

func (f *fixture) dish(t *testing.T, d *entity.Dish) {
	t.Helper()
	require.NoError(t, f.repos.Dishes.Create(f.ctx, d))
}

func (f *fixture) purchase(t *testing.T, itemID, warehouseID, qty, cost string) *entity.InventoryMovement {
	t.Helper()
	mov, err := f.recorder.RecordPurchase(f.ctx, inventory.PurchaseInput{
		ItemID:      itemID,
		WarehouseID: warehouseID,
		Quantity:    dec(qty),
		UnitCost:    dec(cost),
		Meta:        inventory.MovementMeta{UserID: testUser},
	})
	require.NoError(t, err)
	return mov
}

func (f *fixture) stock(t *testing.T, itemID, warehouseID string) *entity.Stock {
	t.Helper()
	s, err := f.repos.Stock.Get(f.ctx, itemID, warehouseID)
	require.NoError(t, err)
	require.NotNil(t, s, "stock %s/%s", itemID, warehouseID)
	return s
}

func (f *fixture) itemCost(t *testing.T, itemID string) decimal.Decimal {
	t.Helper()
	it, err := f.repos.Items.GetByID(f.ctx, itemID)
	require.NoError(t, err)
	require.NotNil(t, it)
	return it.Cost
}

func (f *fixture) movementCount(t *testing.T, itemID string) int {
	t.Helper()
	list, err := f.repos.Movements.ListByItem(f.ctx, itemID, nil, nil, 1000, 0)
	require.NoError(t, err)
	return len(list)
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	require.Truef(t, dec(want).Equal(got), "esperado %s, obtenido %s %v", want, got.String(), msgAndArgs)
}
