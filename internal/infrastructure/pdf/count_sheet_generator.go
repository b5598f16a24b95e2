// Package pdf genera la planilla imprimible de un conteo físico.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Almacén + Fecha     │  Conteo + Estado             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOLERANCIA: % / unidades     Responsable                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Insumo | Contado | Sistema | Diferencia | Estado     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con la referencia del conteo + firmas           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-costeo/internal/application/count"
	"github.com/jhoicas/Inventario-costeo/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

var stateLabels = map[string]string{
	entity.CountStateDraft:           "BORRADOR",
	entity.CountStatePendingApproval: "PENDIENTE DE APROBACIÓN",
	entity.CountStateClosed:          "CERRADO",
	entity.CountStateAdjusted:        "AJUSTADO",
}

var _ count.SheetRenderer = (*CountSheetGenerator)(nil)

// CountSheetGenerator implementa count.SheetRenderer usando Maroto v2.
type CountSheetGenerator struct{}

// NewCountSheetGenerator construye el generador.
func NewCountSheetGenerator() *CountSheetGenerator { return &CountSheetGenerator{} }

// Render genera el PDF de la planilla y devuelve sus bytes.
func (g *CountSheetGenerator) Render(doc count.SheetDocument) ([]byte, error) {
	if doc.Count == nil {
		return nil, fmt.Errorf("pdf: conteo requerido")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Conteo físico de inventario", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(toleranceRow(doc.Count))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(doc.Lines)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(doc.Count))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// headerRow: almacén y fecha (izq), referencia y estado (der).
func headerRow(doc count.SheetDocument) core.Row {
	c := doc.Count
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(doc.WarehouseName, c.WarehouseID), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Fecha: "+c.Date.Format("02/01/2006"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("CONTEO FÍSICO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(c.Reference(), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 7,
			}),
			text.New(nonEmpty(stateLabels[c.State], c.State), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

// toleranceRow: tolerancias configuradas y responsable.
func toleranceRow(c *entity.PhysicalCount) core.Row {
	pct := "—"
	if c.TolerancePercent != nil {
		pct = fixed(c.TolerancePercent) + "%"
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("TOLERANCIA", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Porcentaje: %s   |   Unidades: %s   |   Responsable: %s",
				pct,
				nonEmpty(fixed(c.ToleranceUnits), "—"),
				nonEmpty(c.ResponsibleID, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Insumo", 5, align.Left),
		h("Contado", 2, align.Right),
		h("Sistema", 2, align.Right),
		h("Diferencia", 2, align.Right),
		h("", 1, align.Center),
	)
}

// tableDetailRows: una fila por línea. Sin cantidad contada se deja el espacio para anotar.
func tableDetailRows(lines []count.SheetLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		cell := props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1}
		status := ""
		statusProps := props.Text{Size: 8, Align: align.Center, Top: 1}
		if l.Difference != nil {
			status = "OK"
			if !l.WithinTolerance {
				status = "!"
				statusProps.Style = fontstyle.Bold
				statusProps.Color = colorAlert
			}
		}
		result = append(result, row.New(7).Add(
			col.New(5).Add(text.New(nonEmpty(l.ItemName, l.ItemID), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(fixed(l.CountedQuantity), cell)),
			col.New(2).Add(text.New(fixed(l.SystemQuantity), cell)),
			col.New(2).Add(text.New(fixed(l.Difference), cell)),
			col.New(1).Add(text.New(status, statusProps)),
		))
	}
	return result
}

// footerRow: QR con la referencia del conteo y espacio de firmas.
func footerRow(c *entity.PhysicalCount) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(c.Reference(), props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Contado por: ______________________", props.Text{Size: 9, Top: 8, Left: 3}),
			text.New("Aprobado por: _____________________", props.Text{Size: 9, Top: 20, Left: 3}),
		),
	)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// fixed formatea un decimal opcional a 4 decimales; nil deja la celda vacía.
func fixed(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.StringFixed(4)
}
