package planning_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-costeo/internal/application/planning"
	"github.com/jhoicas/Inventario-costeo/internal/domain"
	"github.com/jhoicas/Inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/Inventario-costeo/internal/infrastructure/memory"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seed(t *testing.T) (context.Context, *planning.RequirementsUseCase) {
	t.Helper()
	ctx := context.Background()
	repos := memory.NewStore().Repos()
	require.NoError(t, repos.Items.Create(ctx, &entity.Item{ID: "it-arroz", Name: "Arroz", UnitID: "kg", Active: true}))
	require.NoError(t, repos.Items.Create(ctx, &entity.Item{ID: "it-pollo", Name: "Pollo", UnitID: "kg", Active: true}))
	require.NoError(t, repos.Dishes.Create(ctx, &entity.Dish{ID: "d-arroz-pollo", Name: "Arroz con pollo", Active: true, Lines: []entity.RecipeLine{
		{ItemID: "it-arroz", Quantity: dec("0.2")},
		{ItemID: "it-pollo", Quantity: dec("0.3")},
	}}))
	require.NoError(t, repos.Dishes.Create(ctx, &entity.Dish{ID: "d-arroz", Name: "Arroz blanco", Active: true, Lines: []entity.RecipeLine{
		{ItemID: "it-arroz", Quantity: dec("0.15")},
	}}))
	require.NoError(t, repos.Stock.Upsert(ctx, &entity.Stock{ItemID: "it-arroz", WarehouseID: "wh-1", Quantity: dec("50"), UnitCost: dec("2")}))
	require.NoError(t, repos.Stock.Upsert(ctx, &entity.Stock{ItemID: "it-pollo", WarehouseID: "wh-1", Quantity: dec("10"), UnitCost: dec("9")}))
	return ctx, planning.NewRequirementsUseCase(repos.Dishes, repos.Items, repos.Stock)
}

func TestCalculate_SumaPorInsumo(t *testing.T) {
	ctx, uc := seed(t)
	out, err := uc.Calculate(ctx, entity.MenuPlan{Items: []entity.MenuPlanItem{
		{DishID: "d-arroz-pollo", PlannedPortions: dec("100")},
		{DishID: "d-arroz", PlannedPortions: dec("40")},
	}})
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "Arroz", out[0].ItemName)
	assert.True(t, dec("26").Equal(out[0].Required), "20 + 6 = %s", out[0].Required)
	assert.Nil(t, out[0].Available, "sin almacén no hay disponibilidad")

	assert.Equal(t, "Pollo", out[1].ItemName)
	assert.True(t, dec("30").Equal(out[1].Required))
}

func TestCalculate_ConAlmacenInformaFaltante(t *testing.T) {
	ctx, uc := seed(t)
	wh := "wh-1"
	out, err := uc.Calculate(ctx, entity.MenuPlan{WarehouseID: &wh, Items: []entity.MenuPlanItem{
		{DishID: "d-arroz-pollo", PlannedPortions: dec("100")},
	}})
	require.NoError(t, err)
	require.Len(t, out, 2)

	arroz, pollo := out[0], out[1]
	require.NotNil(t, arroz.Shortfall)
	assert.True(t, arroz.Shortfall.IsZero(), "el faltante nunca es negativo")
	assert.True(t, dec("50").Equal(*arroz.Available))
	assert.True(t, dec("20").Equal(*pollo.Shortfall))
}

func TestCalculate_Rechazos(t *testing.T) {
	ctx, uc := seed(t)

	_, err := uc.Calculate(ctx, entity.MenuPlan{Items: []entity.MenuPlanItem{{DishID: "d-arroz", PlannedPortions: dec("-1")}}})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = uc.Calculate(ctx, entity.MenuPlan{Items: []entity.MenuPlanItem{{DishID: "no-existe", PlannedPortions: dec("1")}}})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	out, err := uc.Calculate(ctx, entity.MenuPlan{Items: []entity.MenuPlanItem{{DishID: "no-existe", PlannedPortions: decimal.Zero}}})
	require.NoError(t, err)
	assert.Empty(t, out, "porciones cero se ignoran")
}
