package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-costeo/internal/application/auth"
	"github.com/jhoicas/Inventario-costeo/internal/application/catalog"
	"github.com/jhoicas/Inventario-costeo/internal/application/count"
	"github.com/jhoicas/Inventario-costeo/internal/application/dto"
	"github.com/jhoicas/Inventario-costeo/internal/application/inventory"
	"github.com/jhoicas/Inventario-costeo/internal/application/planning"
	"github.com/jhoicas/Inventario-costeo/internal/application/recipe"
	"github.com/jhoicas/Inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/Inventario-costeo/internal/infrastructure/memory"
	"github.com/jhoicas/Inventario-costeo/internal/infrastructure/pdf"
	"github.com/jhoicas/Inventario-costeo/internal/infrastructure/sheets"
	apphttp "github.com/jhoicas/Inventario-costeo/internal/interfaces/http"
)

// API completa sobre el almacenamiento en memoria

const (
	apiCentral = "wh-central"
	apiCocina  = "wh-cocina"
	apiArroz   = "it-arroz"
)

type apiFixture struct {
	app       *fiber.App
	admin     string
	super     string
	bodeguero string
	cocina    string
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	ctx := context.Background()
	log := zerolog.Nop()
	store := memory.NewStore()
	repos := store.Repos()
	tx := memory.NewTxRunner(store)

	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: apiCentral, Name: "Bodega central", Active: true}))
	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: apiCocina, Name: "Cocina", Active: true}))
	require.NoError(t, repos.Items.Create(ctx, &entity.Item{ID: apiArroz, Name: "Arroz", UnitID: "kg", Active: true}))

	authz := auth.NewRoleAuthorizer()
	tokens := testTokens()
	recorder := inventory.NewMovementRecorder(tx, repos.Warehouses, log)
	costing := recipe.NewCostingUseCase(repos.Dishes, repos.Items, log)
	recorder.WithCostObserver(costing)
	workflow := count.NewWorkflow(tx, repos.Counts, count.NewReconciler(tx, recorder, log), authz, log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Tokens:     tokens,
		Authorizer: authz,
		Warehouses: catalog.NewWarehouseUseCase(repos.Warehouses),
		Items:      catalog.NewItemUseCase(repos.Items, repos.Units, repos.Categories, repos.Suppliers),
		Suppliers:  catalog.NewSupplierUseCase(repos.Suppliers),
		Dishes:     catalog.NewDishUseCase(tx, repos.Dishes, repos.Items, costing),
		Recorder:   recorder,
		Ledger:     inventory.NewLedgerQueryUseCase(repos.Stock, repos.Movements),
		Purchases:  inventory.NewPurchaseDocumentProcessor(tx, recorder, log),
		Lots:       inventory.NewLotTracker(repos.Lots),
		Alerts:     inventory.NewStockAlertsUseCase(repos.Reports),
		Counts:     workflow,
		Sheets:     count.NewSheetUseCase(tx, workflow, repos.Items, repos.Warehouses, sheets.NewParser(), pdf.NewCountSheetGenerator()),
		Planning:   planning.NewRequirementsUseCase(repos.Dishes, repos.Items, repos.Stock),
	})

	issue := func(p auth.Principal) string {
		tok, err := tokens.Issue(p)
		require.NoError(t, err)
		return "Bearer " + tok
	}
	return &apiFixture{
		app:       app,
		admin:     issue(auth.Principal{UserID: "u-admin", Role: auth.RoleAdmin}),
		super:     issue(auth.Principal{UserID: "u-super", Role: auth.RoleSupervisor}),
		bodeguero: issue(auth.Principal{UserID: "u-bodega", Role: auth.RoleBodeguero, Warehouses: []string{apiCentral}}),
		cocina:    issue(auth.Principal{UserID: "u-cocina", Role: auth.RoleCocina, Warehouses: []string{apiCocina}}),
	}
}

func (f *apiFixture) call(t *testing.T, method, path, token, body string) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func (f *apiFixture) purchase(t *testing.T, token, warehouseID, qty, cost string) (*http.Response, []byte) {
	t.Helper()
	return f.call(t, http.MethodPost, "/api/inventory/purchases", token,
		`{"item_id":"`+apiArroz+`","warehouse_id":"`+warehouseID+`","quantity":`+qty+`,"unit_cost":`+cost+`}`)
}

func errorCode(t *testing.T, raw []byte) string {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &e))
	return e.Code
}

func TestAPI_HealthSinToken(t *testing.T) {
	f := newAPI(t)
	resp, _ := f.call(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = f.call(t, http.MethodGet, "/api/warehouses", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_CrearAlmacenSoloGestores(t *testing.T) {
	f := newAPI(t)
	resp, raw := f.call(t, http.MethodPost, "/api/warehouses", f.admin, `{"name":"Cuarto frío"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	resp, _ = f.call(t, http.MethodPost, "/api/warehouses", f.bodeguero, `{"name":"Otro"}`)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, raw = f.call(t, http.MethodPost, "/api/warehouses", f.admin, `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, raw))
}

func TestAPI_CompraActualizaStockPromedio(t *testing.T) {
	f := newAPI(t)
	resp, raw := f.purchase(t, f.bodeguero, apiCentral, "10", "100")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var mov dto.MovementResponse
	require.NoError(t, json.Unmarshal(raw, &mov))
	assert.Equal(t, entity.MovementPurchaseIn, mov.Type)
	assert.Equal(t, "u-bodega", mov.CreatedBy)

	resp, _ = f.purchase(t, f.bodeguero, apiCentral, "20", "200")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, raw = f.call(t, http.MethodGet, "/api/inventory/stock/warehouses/"+apiCentral, f.bodeguero, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Items []dto.StockResponse `json:"items"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	require.Len(t, body.Items, 1)
	assert.True(t, decimal.NewFromInt(30).Equal(body.Items[0].Quantity))
	assert.True(t, decimal.RequireFromString("166.6667").Equal(body.Items[0].UnitCost))
}

func TestAPI_PermisosPorRolYAlmacen(t *testing.T) {
	f := newAPI(t)

	resp, raw := f.purchase(t, f.cocina, apiCocina, "1", "1")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "cocina no registra compras")
	assert.Equal(t, "FORBIDDEN", errorCode(t, raw))

	resp, raw = f.purchase(t, f.bodeguero, apiCocina, "1", "1")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "almacén no asignado")
	assert.Equal(t, "FORBIDDEN", errorCode(t, raw))

	resp, _ = f.call(t, http.MethodGet, "/api/inventory/stock/warehouses/"+apiCentral, f.cocina, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = f.call(t, http.MethodGet, "/api/inventory/stock/warehouses/"+apiCocina, f.admin, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode, "el administrador ve todos los almacenes")
}

func TestAPI_ErroresDeDominio(t *testing.T) {
	f := newAPI(t)
	resp, _ := f.purchase(t, f.admin, apiCentral, "5", "10")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, raw := f.call(t, http.MethodPost, "/api/inventory/waste", f.admin,
		`{"item_id":"`+apiArroz+`","warehouse_id":"`+apiCentral+`","quantity":-8,"reason":"Vencido"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", errorCode(t, raw))

	resp, raw = f.call(t, http.MethodPost, "/api/inventory/waste", f.admin,
		`{"item_id":"`+apiArroz+`","warehouse_id":"`+apiCentral+`","quantity":-1,"reason":" "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "EMPTY_REASON", errorCode(t, raw))

	resp, raw = f.purchase(t, f.admin, apiCentral, "0", "10")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_QUANTITY", errorCode(t, raw))

	resp, raw = f.call(t, http.MethodPost, "/api/inventory/purchases", f.admin, `{"item_id":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", errorCode(t, raw))
}

func TestAPI_ProveedoresYCategorias(t *testing.T) {
	f := newAPI(t)
	resp, raw := f.call(t, http.MethodPost, "/api/suppliers", f.super, `{"name":"Verduras del Valle","email":"ventas@valle.cl"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var prov dto.SupplierResponse
	require.NoError(t, json.Unmarshal(raw, &prov))

	resp, raw = f.call(t, http.MethodPost, "/api/suppliers", f.admin, `{"name":"VERDURAS DEL VALLE"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", errorCode(t, raw))

	resp, _ = f.call(t, http.MethodPost, "/api/suppliers", f.bodeguero, `{"name":"Otro"}`)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, raw = f.call(t, http.MethodGet, "/api/suppliers?q=valle", f.cocina, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dto.SupplierListResponse
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, prov.ID, list.Items[0].ID)

	resp, raw = f.call(t, http.MethodPatch, "/api/suppliers/"+prov.ID, f.admin, `{"active":false}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	require.NoError(t, json.Unmarshal(raw, &prov))
	assert.False(t, prov.Active)

	resp, raw = f.call(t, http.MethodPost, "/api/categories", f.admin, `{"name":"Verduras"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	resp, raw = f.call(t, http.MethodGet, "/api/categories", f.cocina, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cats struct {
		Items []dto.CategoryResponse `json:"items"`
	}
	require.NoError(t, json.Unmarshal(raw, &cats))
	require.Len(t, cats.Items, 1)
	assert.Equal(t, "Verduras", cats.Items[0].Name)
}

func TestAPI_PlatoRecosteoIndicadoresYDesactivacion(t *testing.T) {
	f := newAPI(t)
	resp, raw := f.call(t, http.MethodPost, "/api/dishes", f.admin,
		`{"name":"Arroz blanco","sale_price":10,"lines":[{"item_id":"`+apiArroz+`","quantity":0.5}]}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var dish dto.DishResponse
	require.NoError(t, json.Unmarshal(raw, &dish))
	assert.True(t, dish.RecipeCost.IsZero())

	// La compra cambia el costo del insumo y el plato se recostea sin pedirlo.
	resp, _ = f.purchase(t, f.admin, apiCentral, "10", "4")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, raw = f.call(t, http.MethodGet, "/api/dishes/"+dish.ID, f.cocina, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &dish))
	assert.True(t, decimal.RequireFromString("2").Equal(dish.RecipeCost), dish.RecipeCost.String())

	resp, raw = f.call(t, http.MethodGet, "/api/dishes/"+dish.ID+"/indicators", f.cocina, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var ind dto.CostIndicatorsDTO
	require.NoError(t, json.Unmarshal(raw, &ind))
	require.NotNil(t, ind.FoodCostPercent)
	assert.True(t, decimal.NewFromInt(20).Equal(*ind.FoodCostPercent))
	assert.True(t, decimal.NewFromInt(8).Equal(ind.GrossMargin))

	resp, raw = f.call(t, http.MethodPost, "/api/items/"+apiArroz+"/recost", f.admin, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.JSONEq(t, `{"updated":1}`, string(raw))

	resp, _ = f.call(t, http.MethodPatch, "/api/dishes/"+dish.ID, f.bodeguero, `{"active":false}`)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, raw = f.call(t, http.MethodPatch, "/api/dishes/"+dish.ID, f.super, `{"active":false}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	require.NoError(t, json.Unmarshal(raw, &dish))
	assert.False(t, dish.Active)
	assert.Equal(t, "Arroz blanco", dish.Name)

	resp, raw = f.call(t, http.MethodPost, "/api/inventory/consumptions", f.admin,
		`{"dish_id":"`+dish.ID+`","warehouse_id":"`+apiCentral+`","units_produced":1}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "INACTIVE_DISH", errorCode(t, raw))

	resp, raw = f.call(t, http.MethodPatch, "/api/dishes/no-existe", f.admin, `{"active":true}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, string(raw))
}

func TestAPI_ConteoCierreAprobacionAjusteYPlanilla(t *testing.T) {
	f := newAPI(t)
	resp, _ := f.purchase(t, f.admin, apiCentral, "20", "10")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, raw := f.call(t, http.MethodPost, "/api/counts/", f.bodeguero, `{"warehouse_id":"`+apiCentral+`","tolerance_units":1}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var c dto.CountResponse
	require.NoError(t, json.Unmarshal(raw, &c))
	assert.Equal(t, entity.CountStateDraft, c.State)

	resp, raw = f.call(t, http.MethodPut, "/api/counts/"+c.ID+"/lines", f.bodeguero, `{"item_id":"`+apiArroz+`","counted_quantity":18}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	resp, raw = f.call(t, http.MethodPatch, "/api/counts/"+c.ID+"/state", f.bodeguero, `{"state":"closed"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	require.NoError(t, json.Unmarshal(raw, &c))
	assert.Equal(t, entity.CountStatePendingApproval, c.State)

	resp, raw = f.call(t, http.MethodPatch, "/api/counts/"+c.ID+"/state", f.super, `{"state":"closed"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	require.NoError(t, json.Unmarshal(raw, &c))
	assert.Equal(t, entity.CountStateClosed, c.State)

	resp, raw = f.call(t, http.MethodPost, "/api/counts/"+c.ID+"/adjustments", f.bodeguero, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var applied struct {
		Count       dto.CountResponse      `json:"count"`
		Adjustments []dto.MovementResponse `json:"adjustments"`
	}
	require.NoError(t, json.Unmarshal(raw, &applied))
	assert.Equal(t, entity.CountStateAdjusted, applied.Count.State)
	require.Len(t, applied.Adjustments, 1)
	assert.True(t, decimal.NewFromInt(-2).Equal(applied.Adjustments[0].Quantity))

	resp, raw = f.call(t, http.MethodPost, "/api/counts/"+c.ID+"/adjustments", f.bodeguero, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "NOT_CLOSED", errorCode(t, raw))

	resp, raw = f.call(t, http.MethodGet, "/api/counts/"+c.ID+"/sheet.pdf", f.bodeguero, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))

	resp, _ = f.call(t, http.MethodGet, "/api/counts/"+c.ID, f.cocina, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "cocina no opera conteos")
}
