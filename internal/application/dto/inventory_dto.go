package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseRequest body para POST /api/inventory/purchases.
type PurchaseRequest struct {
	ItemID      string          `json:"item_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	LotNumber   string          `json:"lot_number,omitempty"`
	ExpiryDate  *time.Time      `json:"expiry_date,omitempty"`
	Reason      string          `json:"reason,omitempty"`
	Reference   string          `json:"reference,omitempty"`
	Date        *time.Time      `json:"date,omitempty"`
}

// AdjustmentRequest body para POST /api/inventory/adjustments.
type AdjustmentRequest struct {
	ItemID      string          `json:"item_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"` // con signo
	Type        string          `json:"type,omitempty"`
	Reason      string          `json:"reason"`
	Reference   string          `json:"reference,omitempty"`
	Date        *time.Time      `json:"date,omitempty"`
}

// TransferRequest body para POST /api/inventory/transfers.
type TransferRequest struct {
	ItemID          string          `json:"item_id"`
	FromWarehouseID string          `json:"from_warehouse_id"`
	ToWarehouseID   string          `json:"to_warehouse_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	Reason          string          `json:"reason,omitempty"`
	Reference       string          `json:"reference,omitempty"`
	Date            *time.Time      `json:"date,omitempty"`
}

// ConsumptionRequest body para POST /api/inventory/consumptions.
type ConsumptionRequest struct {
	DishID        string          `json:"dish_id"`
	WarehouseID   string          `json:"warehouse_id"`
	UnitsProduced decimal.Decimal `json:"units_produced"`
	Reason        string          `json:"reason,omitempty"`
	Reference     string          `json:"reference,omitempty"`
	Date          *time.Time      `json:"date,omitempty"`
}

// WasteRequest body para POST /api/inventory/waste.
type WasteRequest struct {
	ItemID      string          `json:"item_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"` // negativa
	Reason      string          `json:"reason"`
	Reference   string          `json:"reference,omitempty"`
	Date        *time.Time      `json:"date,omitempty"`
}

// PurchaseDocumentRequest body para POST /api/inventory/purchase-documents.
type PurchaseDocumentRequest struct {
	Number      string          `json:"number"`
	ItemID      string          `json:"item_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	LotNumber   string          `json:"lot_number,omitempty"`
	ExpiryDate  *time.Time      `json:"expiry_date,omitempty"`
}

// MovementResponse salida de un movimiento del libro.
type MovementResponse struct {
	ID            string           `json:"id"`
	TransactionID string           `json:"transaction_id"`
	ItemID        string           `json:"item_id"`
	WarehouseID   string           `json:"warehouse_id"`
	Type          string           `json:"type"`
	Quantity      decimal.Decimal  `json:"quantity"`
	UnitCost      *decimal.Decimal `json:"unit_cost,omitempty"`
	TotalCost     *decimal.Decimal `json:"total_cost,omitempty"`
	Date          time.Time        `json:"date"`
	Reason        string           `json:"reason,omitempty"`
	Reference     string           `json:"reference,omitempty"`
	CreatedBy     string           `json:"created_by,omitempty"`
}

// TransferResponse par de movimientos de un traspaso.
type TransferResponse struct {
	Out MovementResponse `json:"out"`
	In  MovementResponse `json:"in"`
}

// StockResponse salida de un registro de stock.
type StockResponse struct {
	ItemID      string          `json:"item_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Value       decimal.Decimal `json:"value"` // Quantity × UnitCost a 4 decimales
	UpdatedAt   time.Time       `json:"updated_at"`
}

// LotResponse salida de un lote.
type LotResponse struct {
	ID          string          `json:"id"`
	ItemID      string          `json:"item_id"`
	WarehouseID string          `json:"warehouse_id"`
	LotNumber   string          `json:"lot_number"`
	ExpiryDate  *time.Time      `json:"expiry_date,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

// StockAlertDTO stock fuera de umbral. Gap es el faltante (bajo mínimo) o excedente (sobre máximo).
type StockAlertDTO struct {
	ItemID        string           `json:"item_id"`
	ItemName      string           `json:"item_name"`
	WarehouseID   string           `json:"warehouse_id"`
	WarehouseName string           `json:"warehouse_name"`
	Quantity      decimal.Decimal  `json:"quantity"`
	MinStock      decimal.Decimal  `json:"min_stock"`
	MaxStock      *decimal.Decimal `json:"max_stock,omitempty"`
	Gap           decimal.Decimal  `json:"gap"`
}
