// Package sheets lee planillas de conteo físico en XLSX (excelize) o CSV.
package sheets

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Inventario-costeo/internal/application/count"
)

// Encabezados aceptados por columna (comparación sin mayúsculas).
var (
	itemHeaders     = []string{"item_id", "insumo", "insumo_id"}
	quantityHeaders = []string{"counted_quantity", "cantidad", "cantidad_contada"}
)

// ErrMissingColumns la planilla no trae las columnas de insumo y cantidad.
var ErrMissingColumns = errors.New("sheets: faltan las columnas item_id y counted_quantity")

var _ count.SheetParser = (*Parser)(nil)

// Parser implementa count.SheetParser. El formato se decide por la extensión del archivo.
type Parser struct{}

// NewParser construye el parser.
func NewParser() *Parser { return &Parser{} }

// Parse devuelve las filas con insumo. Las filas vacías se ignoran; una cantidad ilegible
// invalida la planilla completa.
func (p *Parser) Parse(filename string, r io.Reader) ([]count.SheetRow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("sheets: leer archivo: %w", err)
	}
	var records [][]string
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		records, err = readXLSX(data)
	case ".csv", ".txt", "":
		records, err = readCSV(data)
	default:
		return nil, fmt.Errorf("sheets: formato no soportado %q", filepath.Ext(filename))
	}
	if err != nil {
		return nil, err
	}
	return toRows(records)
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("sheets: abrir xlsx: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("sheets: el archivo no contiene hojas")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("sheets: leer hoja %s: %w", sheet, err)
	}
	return rows, nil
}

// readCSV decodifica Windows-1252 cuando el contenido no es UTF-8 válido (exportes de Excel en español).
func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
		if err != nil {
			return nil, fmt.Errorf("sheets: decodificar csv: %w", err)
		}
		data = decoded
	}
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("sheets: leer csv: %w", err)
	}
	return records, nil
}

// detectDelimiter elige ';' si la primera línea lo usa más que ','.
func detectDelimiter(data []byte) rune {
	first := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		first = data[:i]
	}
	if bytes.Count(first, []byte(";")) > bytes.Count(first, []byte(",")) {
		return ';'
	}
	return ','
}

func toRows(records [][]string) ([]count.SheetRow, error) {
	if len(records) == 0 {
		return nil, ErrMissingColumns
	}
	itemCol, qtyCol := -1, -1
	for i, h := range records[0] {
		h = strings.ToLower(strings.TrimSpace(h))
		switch {
		case itemCol < 0 && slices.Contains(itemHeaders, h):
			itemCol = i
		case qtyCol < 0 && slices.Contains(quantityHeaders, h):
			qtyCol = i
		}
	}
	if itemCol < 0 || qtyCol < 0 {
		return nil, ErrMissingColumns
	}

	out := make([]count.SheetRow, 0, len(records)-1)
	for i, rec := range records[1:] {
		rowNum := i + 2
		itemID := cell(rec, itemCol)
		raw := cell(rec, qtyCol)
		if itemID == "" && raw == "" {
			continue
		}
		if itemID == "" {
			return nil, fmt.Errorf("sheets: fila %d: insumo vacío", rowNum)
		}
		qty, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
		if err != nil {
			return nil, fmt.Errorf("sheets: fila %d: cantidad %q inválida", rowNum, raw)
		}
		out = append(out, count.SheetRow{Row: rowNum, ItemID: itemID, CountedQuantity: qty})
	}
	return out, nil
}

func cell(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

