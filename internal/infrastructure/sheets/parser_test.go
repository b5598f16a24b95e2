package sheets_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/Inventario-costeo/internal/infrastructure/sheets"
)

func TestParse_CSVComas(t *testing.T) {
	in := "item_id,counted_quantity,notas\nit-1,12.5,ok\n\nit-2,0,\n"
	rows, err := sheets.NewParser().Parse("conteo.csv", strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "it-1", rows[0].ItemID)
	assert.True(t, decimal.RequireFromString("12.5").Equal(rows[0].CountedQuantity))
	assert.Equal(t, 2, rows[0].Row)
	assert.Equal(t, "it-2", rows[1].ItemID)
}

func TestParse_CSVPuntoYComaConBOMYDecimalConComa(t *testing.T) {
	in := "\xef\xbb\xbfCantidad;Insumo\n3,25;it-1\n"
	rows, err := sheets.NewParser().Parse("conteo.csv", strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "it-1", rows[0].ItemID)
	assert.True(t, decimal.RequireFromString("3.25").Equal(rows[0].CountedQuantity))
}

func TestParse_CSVWindows1252(t *testing.T) {
	utf8 := "insumo;cantidad\nañejo-piña;7\n"
	latin, err := charmap.Windows1252.NewEncoder().String(utf8)
	require.NoError(t, err)

	rows, err := sheets.NewParser().Parse("conteo.csv", strings.NewReader(latin))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "añejo-piña", rows[0].ItemID)
}

func TestParse_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"insumo_id", "cantidad_contada"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"it-1", 4.5}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"it-2", "8"}))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	rows, err := sheets.NewParser().Parse("conteo.xlsx", &buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, decimal.RequireFromString("4.5").Equal(rows[0].CountedQuantity))
	assert.Equal(t, 3, rows[1].Row)
}

func TestParse_Errores(t *testing.T) {
	p := sheets.NewParser()

	_, err := p.Parse("conteo.csv", strings.NewReader("codigo,valor\nx,1\n"))
	assert.ErrorIs(t, err, sheets.ErrMissingColumns)

	_, err = p.Parse("conteo.csv", strings.NewReader(""))
	assert.ErrorIs(t, err, sheets.ErrMissingColumns)

	_, err = p.Parse("conteo.csv", strings.NewReader("item_id,counted_quantity\nit-1,doce\n"))
	assert.ErrorContains(t, err, "fila 2")

	_, err = p.Parse("conteo.csv", strings.NewReader("item_id,counted_quantity\n,3\n"))
	assert.ErrorContains(t, err, "insumo vacío")

	_, err = p.Parse("conteo.pdf", strings.NewReader("x"))
	assert.Error(t, err)
}
