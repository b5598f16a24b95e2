package pdf_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-costeo/internal/application/count"
	"github.com/jhoicas/Inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/Inventario-costeo/internal/infrastructure/pdf"
)

func TestRender_PlanillaConciliada(t *testing.T) {
	tol := decimal.NewFromInt(1)
	system := decimal.NewFromInt(20)
	diff := decimal.NewFromInt(-2)
	counted := decimal.NewFromInt(18)

	out, err := pdf.NewCountSheetGenerator().Render(count.SheetDocument{
		Count: &entity.PhysicalCount{
			ID: "c-1", Date: time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC), WarehouseID: "wh-1",
			ToleranceUnits: &tol, State: entity.CountStateClosed,
		},
		WarehouseName: "Bodega central",
		Lines: []count.SheetLine{
			{ItemID: "it-1", ItemName: "Arroz", CountedQuantity: &counted, SystemQuantity: &system, Difference: &diff},
			{ItemID: "it-2", ItemName: "Pollo"},
		},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRender_SinConteo(t *testing.T) {
	_, err := pdf.NewCountSheetGenerator().Render(count.SheetDocument{})
	assert.Error(t, err)
}
