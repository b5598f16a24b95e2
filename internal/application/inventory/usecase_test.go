package inventory_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-costeo/internal/application/inventory"
	"github.com/jhoicas/Inventario-costeo/internal/domain"
	"github.com/jhoicas/Inventario-costeo/internal/domain/entity"
)

func TestRecordPurchase_PromedioPonderado(t *testing.T) {
	f := newFixture(t)
	f.purchase(t, itArroz, whCentral, "10", "100")
	mov := f.purchase(t, itArroz, whCentral, "20", "200")

	s := f.stock(t, itArroz, whCentral)
	assertDec(t, "30", s.Quantity)
	assertDec(t, "166.6667", s.UnitCost)
	assertDec(t, "166.6667", f.itemCost(t, itArroz))

	assert.Equal(t, entity.MovementPurchaseIn, mov.Type)
	require.NotNil(t, mov.TotalCost)
	assertDec(t, "4000", *mov.TotalCost)
	assert.Equal(t, testUser, mov.CreatedBy)
}

func TestRecordPurchase_ConvierteCostoDeUnidadDeCompra(t *testing.T) {
	f := newFixture(t)
	caja := "caja"
	f.item(t, &entity.Item{ID: "it-aceite", Name: "Aceite", UnitID: "lt", PurchaseUnitID: &caja, ConversionFactor: dec("12")})

	mov := f.purchase(t, "it-aceite", whCentral, "24", "120")

	require.NotNil(t, mov.UnitCost)
	assertDec(t, "10", *mov.UnitCost)
	assertDec(t, "240", *mov.TotalCost)
	assertDec(t, "10", f.stock(t, "it-aceite", whCentral).UnitCost)
}

func TestRecordPurchase_PromediaConCostoConvertidoSinRedondear(t *testing.T) {
	f := newFixture(t)
	bulto := "bulto"
	f.item(t, &entity.Item{ID: "it-harina", Name: "Harina", UnitID: "kg", PurchaseUnitID: &bulto, ConversionFactor: dec("3")})

	f.purchase(t, "it-harina", whCentral, "1", "1.0002")
	mov := f.purchase(t, "it-harina", whCentral, "2", "1")

	// (0.3334 + 2 × 1/3) / 3 = 0.333355…; con 1/3 redondeado a 0.3333 daría 0.3333.
	assertDec(t, "0.3334", f.stock(t, "it-harina", whCentral).UnitCost)
	assertDec(t, "0.3334", f.itemCost(t, "it-harina"))
	require.NotNil(t, mov.UnitCost)
	assertDec(t, "0.3333", *mov.UnitCost, "el movimiento guarda el costo de entrada a 4 decimales")
}

func TestRecordPurchase_ConcurrentesNoPierdenActualizaciones(t *testing.T) {
	f := newFixture(t)
	const n = 50

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		cost := "10"
		if i%2 == 1 {
			cost = "20"
		}
		wg.Add(1)
		go func(cost string) {
			defer wg.Done()
			_, err := f.recorder.RecordPurchase(f.ctx, inventory.PurchaseInput{
				ItemID: itArroz, WarehouseID: whCentral, Quantity: dec("1"), UnitCost: dec(cost),
				Meta: inventory.MovementMeta{UserID: testUser},
			})
			errs <- err
		}(cost)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	s := f.stock(t, itArroz, whCentral)
	assertDec(t, "50", s.Quantity)
	assert.Equal(t, n, f.movementCount(t, itArroz))
	assert.True(t, s.UnitCost.Sub(dec("15")).Abs().LessThanOrEqual(dec("0.005")), "promedio %s", s.UnitCost)
	assertDec(t, s.UnitCost.String(), f.itemCost(t, itArroz))
}

func TestRecordTransfer_ConcurrentesConservanCantidad(t *testing.T) {
	f := newFixture(t)
	f.purchase(t, itArroz, whCentral, "30", "10")
	const n = 40

	var wg sync.WaitGroup
	var failed atomic.Int32
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := f.recorder.RecordTransfer(f.ctx, inventory.TransferInput{
				ItemID: itArroz, FromWarehouseID: whCentral, ToWarehouseID: whCocina, Quantity: dec("1"),
				Meta: inventory.MovementMeta{UserID: testUser},
			})
			if err != nil {
				if !errors.Is(err, domain.ErrInsufficientStock) {
					t.Errorf("error inesperado: %v", err)
				}
				failed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(10), failed.Load(), "solo hay stock para 30 traspasos")
	assertDec(t, "0", f.stock(t, itArroz, whCentral).Quantity)
	assertDec(t, "30", f.stock(t, itArroz, whCocina).Quantity)
	assertDec(t, "10", f.stock(t, itArroz, whCocina).UnitCost)
	assert.Equal(t, 1+2*30, f.movementCount(t, itArroz))
}

func TestRecordPurchase_Validaciones(t *testing.T) {
	f := newFixture(t)

	_, err := f.recorder.RecordPurchase(f.ctx, inventory.PurchaseInput{ItemID: itArroz, WarehouseID: whCentral, Quantity: decimal.Zero, UnitCost: dec("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = f.recorder.RecordPurchase(f.ctx, inventory.PurchaseInput{ItemID: itArroz, WarehouseID: whCentral, Quantity: dec("1"), UnitCost: dec("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidCost)

	_, err = f.recorder.RecordPurchase(f.ctx, inventory.PurchaseInput{ItemID: "no-existe", WarehouseID: whCentral, Quantity: dec("1"), UnitCost: dec("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Zero(t, f.movementCount(t, itArroz))
}

func TestRecordPurchase_LoteGuardaUltimoCosto(t *testing.T) {
	f := newFixture(t)
	expiry := time.Date(2026, 11, 1, 15, 30, 0, 0, time.UTC)
	for _, cost := range []string{"10", "20"} {
		_, err := f.recorder.RecordPurchase(f.ctx, inventory.PurchaseInput{
			ItemID: itPollo, WarehouseID: whCentral, Quantity: dec("5"), UnitCost: dec(cost),
			LotNumber: "L-1", ExpiryDate: &expiry,
		})
		require.NoError(t, err)
	}

	day := entity.DateOnly(expiry)
	lot, err := f.repos.Lots.GetForUpdate(f.ctx, entity.LotKey{ItemID: itPollo, WarehouseID: whCentral, LotNumber: "L-1", ExpiryDate: &day})
	require.NoError(t, err)
	require.NotNil(t, lot)
	assertDec(t, "10", lot.Quantity)
	assertDec(t, "20", lot.UnitCost, "el lote no pondera")
	assertDec(t, "15", f.stock(t, itPollo, whCentral).UnitCost, "el stock sí pondera")
}

func TestRecordAdjustment_NoCambiaCostos(t *testing.T) {
	f := newFixture(t)
	f.purchase(t, itArroz, whCentral, "10", "100")

	mov, err := f.recorder.RecordAdjustment(f.ctx, inventory.AdjustmentInput{
		ItemID: itArroz, WarehouseID: whCentral, Quantity: dec("-3"),
		Meta: inventory.MovementMeta{UserID: testUser, Reason: "rotura"},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementAdjustmentOut, mov.Type)
	assertDec(t, "-300", *mov.TotalCost)

	s := f.stock(t, itArroz, whCentral)
	assertDec(t, "7", s.Quantity)
	assertDec(t, "100", s.UnitCost)
	assertDec(t, "100", f.itemCost(t, itArroz))
}

func TestRecordAdjustment_PositivoSinStockNaceAlCostoDelInsumo(t *testing.T) {
	f := newFixture(t)
	f.purchase(t, itArroz, whCentral, "10", "100")

	mov, err := f.recorder.RecordAdjustment(f.ctx, inventory.AdjustmentInput{
		ItemID: itArroz, WarehouseID: whCocina, Quantity: dec("5"),
		Meta: inventory.MovementMeta{Reason: "sobrante"},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementAdjustmentIn, mov.Type)

	s := f.stock(t, itArroz, whCocina)
	assertDec(t, "5", s.Quantity)
	assertDec(t, "100", s.UnitCost)
}

func TestRecordAdjustment_Rechazos(t *testing.T) {
	f := newFixture(t)
	f.purchase(t, itArroz, whCentral, "10", "100")
	meta := inventory.MovementMeta{Reason: "ajuste"}

	cases := []struct {
		name string
		in   inventory.AdjustmentInput
		want error
	}{
		{"cantidad cero", inventory.AdjustmentInput{ItemID: itArroz, WarehouseID: whCentral, Quantity: decimal.Zero, Meta: meta}, domain.ErrEmptyQuantity},
		{"sin motivo", inventory.AdjustmentInput{ItemID: itArroz, WarehouseID: whCentral, Quantity: dec("1"), Meta: inventory.MovementMeta{Reason: "  "}}, domain.ErrEmptyReason},
		{"tipo contrario al signo", inventory.AdjustmentInput{ItemID: itArroz, WarehouseID: whCentral, Quantity: dec("-1"), Kind: entity.MovementAdjustmentIn, Meta: meta}, domain.ErrInvalidInput},
		{"dejaría negativo", inventory.AdjustmentInput{ItemID: itArroz, WarehouseID: whCentral, Quantity: dec("-11"), Meta: meta}, domain.ErrNegativeStockResult},
		{"negativo sin stock", inventory.AdjustmentInput{ItemID: itPollo, WarehouseID: whCentral, Quantity: dec("-1"), Meta: meta}, domain.ErrNoStock},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := f.recorder.RecordAdjustment(f.ctx, c.in)
			assert.ErrorIs(t, err, c.want)
		})
	}
	assertDec(t, "10", f.stock(t, itArroz, whCentral).Quantity)
	assert.Equal(t, 1, f.movementCount(t, itArroz))
}

func TestRecordTransfer_ConservaValorYPonderaDestino(t *testing.T) {
	f := newFixture(t)
	f.purchase(t, itArroz, whCentral, "10", "100")
	f.purchase(t, itArroz, whCocina, "10", "200")
	assertDec(t, "150", f.itemCost(t, itArroz))

	out, in, err := f.recorder.RecordTransfer(f.ctx, inventory.TransferInput{
		ItemID: itArroz, FromWarehouseID: whCentral, ToWarehouseID: whCocina, Quantity: dec("5"),
	})
	require.NoError(t, err)

	assert.Equal(t, entity.MovementTransferOut, out.Type)
	assert.Equal(t, entity.MovementTransferIn, in.Type)
	assert.Equal(t, out.TransactionID, in.TransactionID)
	assertDec(t, "-5", out.Quantity)
	assertDec(t, "100", *in.UnitCost, "el destino recibe al costo del origen")
	assert.Equal(t, "Traspaso a almacén Cocina", out.Reason)
	assert.Equal(t, "Traspaso desde almacén Bodega central", in.Reason)

	origin := f.stock(t, itArroz, whCentral)
	dest := f.stock(t, itArroz, whCocina)
	assertDec(t, "5", origin.Quantity)
	assertDec(t, "100", origin.UnitCost)
	assertDec(t, "15", dest.Quantity)
	assertDec(t, "166.6667", dest.UnitCost)

	total := origin.Value().Add(dest.Value())
	assert.True(t, total.Sub(dec("3000")).Abs().LessThan(dec("0.001")), "valor total %s", total)
	assertDec(t, "150", f.itemCost(t, itArroz))
}

func TestRecordTransfer_Rechazos(t *testing.T) {
	f := newFixture(t)
	f.purchase(t, itArroz, whCentral, "10", "100")

	_, _, err := f.recorder.RecordTransfer(f.ctx, inventory.TransferInput{ItemID: itArroz, FromWarehouseID: whCentral, ToWarehouseID: whCentral, Quantity: dec("1")})
	assert.ErrorIs(t, err, domain.ErrSameWarehouse)

	_, _, err = f.recorder.RecordTransfer(f.ctx, inventory.TransferInput{ItemID: itArroz, FromWarehouseID: whCentral, ToWarehouseID: "wh-x", Quantity: dec("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, _, err = f.recorder.RecordTransfer(f.ctx, inventory.TransferInput{ItemID: itArroz, FromWarehouseID: whCentral, ToWarehouseID: whCocina, Quantity: dec("11")})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, _, err = f.recorder.RecordTransfer(f.ctx, inventory.TransferInput{ItemID: itPollo, FromWarehouseID: whCentral, ToWarehouseID: whCocina, Quantity: dec("1")})
	assert.ErrorIs(t, err, domain.ErrNoStock)

	assertDec(t, "10", f.stock(t, itArroz, whCentral).Quantity)
	s, err := f.repos.Stock.Get(f.ctx, itArroz, whCocina)
	require.NoError(t, err)
	assert.Nil(t, s, "el rollback no deja el stock destino creado")
}

func seedDish(t *testing.T, f *fixture, active bool) {
	f.dish(t, &entity.Dish{
		ID: "dish-1", Name: "Arroz con pollo", SalePrice: dec("20"), Active: active,
		Lines: []entity.RecipeLine{
			{ItemID: itArroz, Quantity: dec("0.2")},
			{ItemID: itPollo, Quantity: dec("0.5")},
		},
	})
}

func TestRecordRecipeConsumption_TodoONada(t *testing.T) {
	f := newFixture(t)
	f.purchase(t, itArroz, whCentral, "10", "2")
	f.purchase(t, itPollo, whCentral, "1", "8")
	seedDish(t, f, true)

	_, err := f.recorder.RecordRecipeConsumption(f.ctx, inventory.ConsumptionInput{
		DishID: "dish-1", WarehouseID: whCentral, UnitsProduced: dec("3"),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	var insufficient *domain.InsufficientStockError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, itPollo, insufficient.ItemID)
	assertDec(t, "1.5", insufficient.Required)
	assertDec(t, "1", insufficient.Available)

	assertDec(t, "10", f.stock(t, itArroz, whCentral).Quantity, "ninguna línea se aplica")
	assert.Equal(t, 1, f.movementCount(t, itArroz))

	movs, err := f.recorder.RecordRecipeConsumption(f.ctx, inventory.ConsumptionInput{
		DishID: "dish-1", WarehouseID: whCentral, UnitsProduced: dec("2"),
	})
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, movs[0].TransactionID, movs[1].TransactionID)
	for _, m := range movs {
		assert.Equal(t, entity.MovementConsumptionOut, m.Type)
		assert.True(t, m.Quantity.IsNegative())
	}
	assertDec(t, "9.6", f.stock(t, itArroz, whCentral).Quantity)
	assertDec(t, "0", f.stock(t, itPollo, whCentral).Quantity)
	assertDec(t, "2", f.itemCost(t, itArroz), "el consumo no recalcula costos")
}

func TestRecordRecipeConsumption_PlatoInactivoOVacio(t *testing.T) {
	f := newFixture(t)
	seedDish(t, f, false)
	f.dish(t, &entity.Dish{ID: "dish-vacio", Name: "Vacío", Active: true,
		Lines: []entity.RecipeLine{{ItemID: itArroz, Quantity: decimal.Zero}}})

	_, err := f.recorder.RecordRecipeConsumption(f.ctx, inventory.ConsumptionInput{DishID: "dish-1", WarehouseID: whCentral, UnitsProduced: dec("1")})
	assert.ErrorIs(t, err, domain.ErrInactiveDish)

	_, err = f.recorder.RecordRecipeConsumption(f.ctx, inventory.ConsumptionInput{DishID: "dish-vacio", WarehouseID: whCentral, UnitsProduced: dec("1")})
	assert.ErrorIs(t, err, domain.ErrEmptyRecipe)

	_, err = f.recorder.RecordRecipeConsumption(f.ctx, inventory.ConsumptionInput{DishID: "dish-1", WarehouseID: whCentral, UnitsProduced: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestRecordWaste(t *testing.T) {
	f := newFixture(t)
	f.purchase(t, itArroz, whCentral, "10", "100")

	_, err := f.recorder.RecordWaste(f.ctx, inventory.WasteInput{ItemID: itArroz, WarehouseID: whCentral, Quantity: dec("1"), Meta: inventory.MovementMeta{Reason: "vencido"}})
	assert.ErrorIs(t, err, domain.ErrNonNegativeQuantity)

	_, err = f.recorder.RecordWaste(f.ctx, inventory.WasteInput{ItemID: itArroz, WarehouseID: whCentral, Quantity: dec("-1")})
	assert.ErrorIs(t, err, domain.ErrEmptyReason)

	_, err = f.recorder.RecordWaste(f.ctx, inventory.WasteInput{ItemID: itArroz, WarehouseID: whCentral, Quantity: dec("-11"), Meta: inventory.MovementMeta{Reason: "vencido"}})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	mov, err := f.recorder.RecordWaste(f.ctx, inventory.WasteInput{ItemID: itArroz, WarehouseID: whCentral, Quantity: dec("-2"), Meta: inventory.MovementMeta{Reason: "vencido"}})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementWasteOut, mov.Type)
	assertDec(t, "-200", *mov.TotalCost)
	assertDec(t, "8", f.stock(t, itArroz, whCentral).Quantity)
	assertDec(t, "100", f.itemCost(t, itArroz))
}

func TestRecordPurchase_ContextoCancelado_EsReintentable(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.recorder.RecordPurchase(ctx, inventory.PurchaseInput{ItemID: itArroz, WarehouseID: whCentral, Quantity: dec("1"), UnitCost: dec("1")})
	require.Error(t, err)
	assert.True(t, inventory.IsRetryable(err))
	assert.False(t, inventory.IsRetryable(domain.ErrInsufficientStock))
}

type costObserverSpy struct {
	items []string
	err   error
}

func (s *costObserverSpy) RecomputeForItem(_ context.Context, itemID string) (int, error) {
	s.items = append(s.items, itemID)
	return 1, s.err
}

func TestMovementRecorder_NotificaCambioDeCostoTrasCommit(t *testing.T) {
	f := newFixture(t)
	spy := &costObserverSpy{}
	f.recorder.WithCostObserver(spy)

	f.purchase(t, itArroz, whCentral, "10", "2")
	_, _, err := f.recorder.RecordTransfer(f.ctx, inventory.TransferInput{ItemID: itArroz, FromWarehouseID: whCentral, ToWarehouseID: whCocina, Quantity: dec("4")})
	require.NoError(t, err)
	assert.Equal(t, []string{itArroz, itArroz}, spy.items)

	// Un movimiento rechazado no notifica.
	_, _, err = f.recorder.RecordTransfer(f.ctx, inventory.TransferInput{ItemID: itArroz, FromWarehouseID: whCentral, ToWarehouseID: whCocina, Quantity: dec("100")})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Len(t, spy.items, 2)

	// Un fallo del observador no revierte el movimiento.
	spy.err = errors.New("recetas no disponibles")
	f.purchase(t, itPollo, whCentral, "1", "8")
	assert.Equal(t, []string{itArroz, itArroz, itPollo}, spy.items)
	assertDec(t, "1", f.stock(t, itPollo, whCentral).Quantity)
}
