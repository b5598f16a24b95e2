package count_test

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-costeo/internal/application/auth"
	"github.com/jhoicas/Inventario-costeo/internal/application/count"
	"github.com/jhoicas/Inventario-costeo/internal/application/dto"
	"github.com/jhoicas/Inventario-costeo/internal/application/inventory"
	"github.com/jhoicas/Inventario-costeo/internal/domain"
	"github.com/jhoicas/Inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/Inventario-costeo/internal/infrastructure/memory"
	"github.com/jhoicas/Inventario-costeo/internal/infrastructure/pdf"
	"github.com/jhoicas/Inventario-costeo/internal/infrastructure/sheets"
)

// Helpers de test

const (
	whCentral = "wh-central"
	whOtro    = "wh-otro"
	itArroz   = "it-arroz"
	itPollo   = "it-pollo"
)

var (
	bodeguero  = auth.Principal{UserID: "u-bodega", Role: auth.RoleBodeguero, Warehouses: []string{whCentral}}
	supervisor = auth.Principal{UserID: "u-super", Role: auth.RoleSupervisor}
	cocina     = auth.Principal{UserID: "u-cocina", Role: auth.RoleCocina, Warehouses: []string{whCentral}}
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

type fixture struct {
	ctx      context.Context
	repos    memory.Repos
	recorder *inventory.MovementRecorder
	workflow *count.Workflow
	sheets   *count.SheetUseCase
}

// newFixture almacén central con arroz 20 @ 10 y pollo 10 @ 5.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()
	tx := memory.NewTxRunner(store)
	log := zerolog.Nop()

	recorder := inventory.NewMovementRecorder(tx, repos.Warehouses, log)
	reconciler := count.NewReconciler(tx, recorder, log)
	workflow := count.NewWorkflow(tx, repos.Counts, reconciler, auth.NewRoleAuthorizer(), log)
	f := &fixture{
		ctx:      ctx,
		repos:    repos,
		recorder: recorder,
		workflow: workflow,
		sheets:   count.NewSheetUseCase(tx, workflow, repos.Items, repos.Warehouses, sheets.NewParser(), pdf.NewCountSheetGenerator()),
	}

	for _, wh := range []string{whCentral, whOtro} {
		require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: wh, Name: "Almacén " + wh, Active: true}))
	}
	require.NoError(t, repos.Items.Create(ctx, &entity.Item{ID: itArroz, Name: "Arroz", UnitID: "kg", Active: true}))
	require.NoError(t, repos.Items.Create(ctx, &entity.Item{ID: itPollo, Name: "Pollo", UnitID: "kg", Active: true}))
	f.purchase(t, itArroz, "20", "10")
	f.purchase(t, itPollo, "10", "5")
	return f
}

func (f *fixture) purchase(t *testing.T, itemID, qty, cost string) {
	t.Helper()
	_, err := f.recorder.RecordPurchase(f.ctx, inventory.PurchaseInput{
		ItemID: itemID, WarehouseID: whCentral, Quantity: dec(qty), UnitCost: dec(cost),
	})
	require.NoError(t, err)
}

// draft conteo con tolerancia de 1 unidad: arroz contado 18, pollo contado 10.
func (f *fixture) draft(t *testing.T) *entity.PhysicalCount {
	t.Helper()
	c, err := f.workflow.Create(f.ctx, bodeguero, dto.CreateCountRequest{WarehouseID: whCentral, ToleranceUnits: decPtr("1")})
	require.NoError(t, err)
	require.NoError(t, f.workflow.SetLine(f.ctx, bodeguero, c.ID, itArroz, dec("18")))
	require.NoError(t, f.workflow.SetLine(f.ctx, bodeguero, c.ID, itPollo, dec("10")))
	return c
}

func (f *fixture) stockQty(t *testing.T, itemID string) decimal.Decimal {
	t.Helper()
	s, err := f.repos.Stock.Get(f.ctx, itemID, whCentral)
	require.NoError(t, err)
	require.NotNil(t, s)
	return s.Quantity
}

func lineOf(t *testing.T, c *entity.PhysicalCount, itemID string) entity.PhysicalCountLine {
	t.Helper()
	for _, l := range c.Lines {
		if l.ItemID == itemID {
			return l
		}
	}
	t.Fatalf("línea %s no encontrada", itemID)
	return entity.PhysicalCountLine{}
}

func TestPreview_CalculaDiferenciasSinAjustar(t *testing.T) {
	f := newFixture(t)
	c := f.draft(t)

	res, err := f.workflow.Preview(f.ctx, bodeguero, c.ID)
	require.NoError(t, err)
	assert.Empty(t, res.Adjustments)

	arroz := lineOf(t, res.Count, itArroz)
	require.NotNil(t, arroz.SystemQuantity)
	assert.True(t, dec("20").Equal(*arroz.SystemQuantity))
	assert.True(t, dec("-2").Equal(*arroz.Difference))
	assert.False(t, arroz.WithinTolerance)

	pollo := lineOf(t, res.Count, itPollo)
	assert.True(t, pollo.Difference.IsZero())
	assert.True(t, pollo.WithinTolerance)

	assert.True(t, dec("20").Equal(f.stockQty(t, itArroz)), "la vista previa no mueve stock")
	assert.Equal(t, entity.CountStateDraft, res.Count.State)
}

func TestPreview_EsDeterminista(t *testing.T) {
	f := newFixture(t)
	c := f.draft(t)

	first, err := f.workflow.Preview(f.ctx, bodeguero, c.ID)
	require.NoError(t, err)
	second, err := f.workflow.Preview(f.ctx, bodeguero, c.ID)
	require.NoError(t, err)

	require.Len(t, second.Count.Lines, len(first.Count.Lines))
	for i := range first.Count.Lines {
		a, b := first.Count.Lines[i], second.Count.Lines[i]
		assert.Equal(t, a.ItemID, b.ItemID)
		assert.True(t, a.Difference.Equal(*b.Difference))
		assert.Equal(t, a.WithinTolerance, b.WithinTolerance)
	}
}

func TestFlujoCompleto_CierreAprobacionYAjuste(t *testing.T) {
	f := newFixture(t)
	c := f.draft(t)

	closed, err := f.workflow.Close(f.ctx, bodeguero, c.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CountStatePendingApproval, closed.State, "línea crítica sin supervisor queda pendiente")

	_, err = f.workflow.Approve(f.ctx, bodeguero, c.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	approved, err := f.workflow.Approve(f.ctx, supervisor, c.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CountStateClosed, approved.State)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, supervisor.UserID, *approved.ApprovedBy)

	res, err := f.workflow.ApplyAdjustments(f.ctx, bodeguero, c.ID)
	require.NoError(t, err)
	require.Len(t, res.Adjustments, 1, "solo la línea fuera de tolerancia genera ajuste")
	adj := res.Adjustments[0]
	assert.Equal(t, entity.MovementAdjustmentOut, adj.Type)
	assert.True(t, dec("-2").Equal(adj.Quantity))
	assert.Equal(t, count.AdjustmentReason, adj.Reason)
	assert.Equal(t, "conteo:"+c.ID, adj.Reference)
	assert.Equal(t, entity.CountStateAdjusted, res.Count.State)
	assert.NotNil(t, res.Count.AdjustedAt)

	assert.True(t, dec("18").Equal(f.stockQty(t, itArroz)))
	assert.True(t, dec("10").Equal(f.stockQty(t, itPollo)))

	_, err = f.workflow.ApplyAdjustments(f.ctx, bodeguero, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotClosed)
	_, err = f.workflow.Preview(f.ctx, bodeguero, c.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestClose_SupervisorCierraDirectoYAprueba(t *testing.T) {
	f := newFixture(t)
	c := f.draft(t)

	closed, err := f.workflow.Close(f.ctx, supervisor, c.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CountStateClosed, closed.State)
	require.NotNil(t, closed.ApprovedBy)
	require.NotNil(t, closed.ClosedBy)
	assert.Equal(t, supervisor.UserID, *closed.ClosedBy)
}

func TestClose_SinLineasCriticasNoRequiereAprobacion(t *testing.T) {
	f := newFixture(t)
	c := f.draft(t)
	require.NoError(t, f.workflow.SetLine(f.ctx, bodeguero, c.ID, itArroz, dec("19.5")))

	closed, err := f.workflow.Close(f.ctx, bodeguero, c.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CountStateClosed, closed.State)
	assert.Nil(t, closed.ApprovedBy)

	res, err := f.workflow.ApplyAdjustments(f.ctx, bodeguero, c.ID)
	require.NoError(t, err)
	assert.Empty(t, res.Adjustments)
	assert.Equal(t, entity.CountStateAdjusted, res.Count.State)
}

func TestReject_VuelveABorradorEditable(t *testing.T) {
	f := newFixture(t)
	c := f.draft(t)

	_, err := f.workflow.SubmitForApproval(f.ctx, bodeguero, c.ID)
	require.NoError(t, err)
	assert.ErrorIs(t, f.workflow.SetLine(f.ctx, bodeguero, c.ID, itArroz, dec("20")), domain.ErrInvalidState)

	rejected, err := f.workflow.ChangeState(f.ctx, supervisor, c.ID, entity.CountStateDraft)
	require.NoError(t, err)
	assert.Equal(t, entity.CountStateDraft, rejected.State)

	require.NoError(t, f.workflow.SetLine(f.ctx, bodeguero, c.ID, itArroz, dec("20")))
	got, err := f.workflow.Get(f.ctx, bodeguero, c.ID)
	require.NoError(t, err)
	line := lineOf(t, got, itArroz)
	assert.True(t, dec("20").Equal(line.CountedQuantity))
	assert.Nil(t, line.Difference, "recontar limpia el snapshot")
}

func TestChangeState_TransicionesInvalidas(t *testing.T) {
	f := newFixture(t)
	c := f.draft(t)

	_, err := f.workflow.ChangeState(f.ctx, supervisor, c.ID, entity.CountStateAdjusted)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = f.workflow.ChangeState(f.ctx, supervisor, c.ID, "archivado")
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = f.workflow.ApplyAdjustments(f.ctx, supervisor, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotClosed)
}

func TestPermisos_PorRolYAlmacen(t *testing.T) {
	f := newFixture(t)
	c := f.draft(t)

	_, err := f.workflow.Close(f.ctx, cocina, c.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.workflow.ApplyAdjustments(f.ctx, cocina, c.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.workflow.Create(f.ctx, bodeguero, dto.CreateCountRequest{WarehouseID: whOtro})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	ajeno := auth.Principal{UserID: "u-2", Role: auth.RoleBodeguero, Warehouses: []string{whOtro}}
	_, err = f.workflow.Get(f.ctx, ajeno, c.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSetLine_Validaciones(t *testing.T) {
	f := newFixture(t)
	c := f.draft(t)

	assert.ErrorIs(t, f.workflow.SetLine(f.ctx, bodeguero, c.ID, itArroz, dec("-1")), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, f.workflow.SetLine(f.ctx, bodeguero, "no-existe", itArroz, dec("1")), domain.ErrNotFound)

	require.NoError(t, f.workflow.RemoveLine(f.ctx, bodeguero, c.ID, itPollo))
	assert.ErrorIs(t, f.workflow.RemoveLine(f.ctx, bodeguero, c.ID, itPollo), domain.ErrNotFound)

	_, err := f.workflow.Create(f.ctx, bodeguero, dto.CreateCountRequest{WarehouseID: whCentral, TolerancePercent: decPtr("-5")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSheetImport_CargaValidasYDescartaResto(t *testing.T) {
	f := newFixture(t)
	c, err := f.workflow.Create(f.ctx, bodeguero, dto.CreateCountRequest{WarehouseID: whCentral})
	require.NoError(t, err)

	csv := "insumo;cantidad\nit-arroz;18,5\nno-existe;3\nit-pollo;-1\n"
	res, err := f.sheets.Import(f.ctx, bodeguero, c.ID, "conteo.csv", strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, res.LinesLoaded)
	assert.Len(t, res.Skipped, 2)

	got, err := f.workflow.Get(f.ctx, bodeguero, c.ID)
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.True(t, dec("18.5").Equal(got.Lines[0].CountedQuantity))

	_, err = f.sheets.Import(f.ctx, bodeguero, c.ID, "conteo.csv", strings.NewReader("a;b\n1;2\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSheetExport_GeneraPDF(t *testing.T) {
	f := newFixture(t)
	c := f.draft(t)
	_, err := f.workflow.Preview(f.ctx, bodeguero, c.ID)
	require.NoError(t, err)

	out, err := f.sheets.Export(f.ctx, bodeguero, c.ID)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"))
}
