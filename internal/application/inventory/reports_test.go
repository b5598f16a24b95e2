package inventory_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-costeo/internal/application/inventory"
	"github.com/jhoicas/Inventario-costeo/internal/domain"
	"github.com/jhoicas/Inventario-costeo/internal/domain/entity"
)

func TestPurchaseDocument_ProcesarDosVecesNoDuplica(t *testing.T) {
	f := newFixture(t)
	spy := &costObserverSpy{}
	f.recorder.WithCostObserver(spy)
	proc := inventory.NewPurchaseDocumentProcessor(f.tx, f.recorder, zerolog.Nop())

	doc := &entity.PurchaseDocument{Number: "FAC-001", ItemID: itArroz, WarehouseID: whCentral, Quantity: dec("10"), UnitCost: dec("3.5")}
	require.NoError(t, proc.Register(f.ctx, doc))
	require.NotEmpty(t, doc.ID)

	first, err := proc.Process(f.ctx, doc.ID, testUser)
	require.NoError(t, err)
	second, err := proc.Process(f.ctx, doc.ID, testUser)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "compra:FAC-001", first.Reference)
	assertDec(t, "10", f.stock(t, itArroz, whCentral).Quantity)
	assert.Equal(t, 1, f.movementCount(t, itArroz))
	assert.Equal(t, []string{itArroz}, spy.items, "la repetición no vuelve a recostear")

	stored, err := f.repos.Purchases.GetByID(f.ctx, doc.ID)
	require.NoError(t, err)
	assert.True(t, stored.Processed)
	require.NotNil(t, stored.MovementID)
	assert.Equal(t, first.ID, *stored.MovementID)
}

func TestPurchaseDocument_Rechazos(t *testing.T) {
	f := newFixture(t)
	proc := inventory.NewPurchaseDocumentProcessor(f.tx, f.recorder, zerolog.Nop())

	err := proc.Register(f.ctx, &entity.PurchaseDocument{Number: "FAC-002", ItemID: itArroz, WarehouseID: whCentral, Quantity: dec("0"), UnitCost: dec("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = proc.Process(f.ctx, "no-existe", testUser)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPurchaseDocument_FallaNoMarcaProcesado(t *testing.T) {
	f := newFixture(t)
	proc := inventory.NewPurchaseDocumentProcessor(f.tx, f.recorder, zerolog.Nop())

	doc := &entity.PurchaseDocument{Number: "FAC-003", ItemID: "insumo-borrado", WarehouseID: whCentral, Quantity: dec("1"), UnitCost: dec("1")}
	require.NoError(t, proc.Register(f.ctx, doc))

	_, err := proc.Process(f.ctx, doc.ID, testUser)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	stored, err := f.repos.Purchases.GetByID(f.ctx, doc.ID)
	require.NoError(t, err)
	assert.False(t, stored.Processed)
}

func TestLotTracker_VencimientosPorFecha(t *testing.T) {
	f := newFixture(t)
	today := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	lots := map[string]int{"L-PRONTO": 3, "L-LEJOS": 10, "L-VENCIDO": -1, "L-HOY": 0}
	for number, days := range lots {
		exp := today.AddDate(0, 0, days)
		_, err := f.recorder.RecordPurchase(f.ctx, inventory.PurchaseInput{
			ItemID: itPollo, WarehouseID: whCentral, Quantity: dec("1"), UnitCost: dec("5"),
			LotNumber: number, ExpiryDate: &exp,
		})
		require.NoError(t, err)
	}

	tracker := inventory.NewLotTracker(f.repos.Lots).WithClock(func() time.Time { return today })

	expiring, err := tracker.ExpiringWithin(f.ctx, 7, nil)
	require.NoError(t, err)
	require.Len(t, expiring, 2)
	assert.Equal(t, "L-HOY", expiring[0].LotNumber)
	assert.Equal(t, "L-PRONTO", expiring[1].LotNumber)

	expired, err := tracker.Expired(f.ctx, nil)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, "L-VENCIDO", expired[0].LotNumber)

	other := whCocina
	expired, err = tracker.Expired(f.ctx, &other)
	require.NoError(t, err)
	assert.Empty(t, expired)

	_, err = tracker.ExpiringWithin(f.ctx, -1, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStockAlerts_BajoMinimoYSobreMaximo(t *testing.T) {
	f := newFixture(t)
	maxStock := dec("20")
	f.item(t, &entity.Item{ID: "it-sal", Name: "Sal", UnitID: "kg", MinStock: dec("5"), MaxStock: &maxStock})
	f.purchase(t, "it-sal", whCentral, "2", "1")
	f.purchase(t, "it-sal", whCocina, "25", "1")
	f.purchase(t, itArroz, whCentral, "1", "1") // sin mínimo configurado

	alerts := inventory.NewStockAlertsUseCase(f.repos.Reports)

	below, err := alerts.BelowMinimum(f.ctx, nil)
	require.NoError(t, err)
	require.Len(t, below, 1)
	assert.Equal(t, whCentral, below[0].WarehouseID)
	assertDec(t, "3", below[0].Gap)

	above, err := alerts.AboveMaximum(f.ctx, nil)
	require.NoError(t, err)
	require.Len(t, above, 1)
	assert.Equal(t, "Cocina", above[0].WarehouseName)
	assertDec(t, "5", above[0].Gap)

	central := whCentral
	above, err = alerts.AboveMaximum(f.ctx, &central)
	require.NoError(t, err)
	assert.Empty(t, above)
}

func TestLedgerQuery_MovimientosMasRecientesPrimero(t *testing.T) {
	f := newFixture(t)
	query := inventory.NewLedgerQueryUseCase(f.repos.Stock, f.repos.Movements)

	d1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)
	for _, d := range []time.Time{d1, d2} {
		d := d
		_, err := f.recorder.RecordPurchase(f.ctx, inventory.PurchaseInput{
			ItemID: itArroz, WarehouseID: whCentral, Quantity: dec("1"), UnitCost: dec("1"),
			Meta: inventory.MovementMeta{Date: &d},
		})
		require.NoError(t, err)
	}

	list, err := query.MovementsByItem(f.ctx, itArroz, nil, nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].Date.Equal(d2))

	list, err = query.MovementsByWarehouse(f.ctx, whCentral, &d2, nil, 10, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	stocks, err := query.StockByItem(f.ctx, itArroz)
	require.NoError(t, err)
	require.Len(t, stocks, 1)
	assertDec(t, "2", stocks[0].Quantity)
}
