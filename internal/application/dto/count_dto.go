package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCountRequest entrada para abrir un conteo físico en borrador.
type CreateCountRequest struct {
	WarehouseID      string           `json:"warehouse_id"`
	Date             *time.Time       `json:"date,omitempty"`
	TolerancePercent *decimal.Decimal `json:"tolerance_percent,omitempty"`
	ToleranceUnits   *decimal.Decimal `json:"tolerance_units,omitempty"`
	Notes            string           `json:"notes,omitempty"`
}

// CountLineRequest cantidad contada de un insumo.
type CountLineRequest struct {
	ItemID          string          `json:"item_id"`
	CountedQuantity decimal.Decimal `json:"counted_quantity"`
}

// ChangeCountStateRequest body para PATCH /api/counts/:id/state.
type ChangeCountStateRequest struct {
	State string `json:"state"`
}

// CountLineResponse línea contada con su snapshot de conciliación.
type CountLineResponse struct {
	ItemID          string           `json:"item_id"`
	CountedQuantity decimal.Decimal  `json:"counted_quantity"`
	SystemQuantity  *decimal.Decimal `json:"system_quantity,omitempty"`
	Difference      *decimal.Decimal `json:"difference,omitempty"`
	WithinTolerance bool             `json:"within_tolerance"`
}

// CountResponse salida de un conteo físico.
type CountResponse struct {
	ID               string              `json:"id"`
	Date             time.Time           `json:"date"`
	WarehouseID      string              `json:"warehouse_id"`
	ResponsibleID    string              `json:"responsible_id"`
	State            string              `json:"state"`
	TolerancePercent *decimal.Decimal    `json:"tolerance_percent,omitempty"`
	ToleranceUnits   *decimal.Decimal    `json:"tolerance_units,omitempty"`
	Notes            string              `json:"notes,omitempty"`
	ClosedBy         *string             `json:"closed_by,omitempty"`
	ClosedAt         *time.Time          `json:"closed_at,omitempty"`
	ApprovedBy       *string             `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time          `json:"approved_at,omitempty"`
	AdjustedAt       *time.Time          `json:"adjusted_at,omitempty"`
	Lines            []CountLineResponse `json:"lines"`
}

// ImportResult resumen de la carga de una planilla de conteo.
type ImportResult struct {
	LinesLoaded int      `json:"lines_loaded"`
	Skipped     []string `json:"skipped,omitempty"` // filas descartadas con motivo
}
