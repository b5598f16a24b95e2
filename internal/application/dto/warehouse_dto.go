package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateWarehouseRequest entrada para crear un almacén.
type CreateWarehouseRequest struct {
	Name          string  `json:"name"`
	Location      string  `json:"location"`
	ResponsibleID *string `json:"responsible_id,omitempty"`
}

// WarehouseResponse salida de un almacén.
type WarehouseResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Location      string    `json:"location"`
	ResponsibleID *string   `json:"responsible_id,omitempty"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// WarehouseListResponse lista paginada de almacenes.
type WarehouseListResponse struct {
	Items []WarehouseResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

// CreateUnitRequest entrada para crear una unidad de medida.
type CreateUnitRequest struct {
	Name         string          `json:"name"`
	Abbreviation string          `json:"abbreviation"`
	IsBase       bool            `json:"is_base"`
	BaseFactor   decimal.Decimal `json:"base_factor"`
}

// UnitResponse salida de una unidad de medida.
type UnitResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Abbreviation string          `json:"abbreviation"`
	IsBase       bool            `json:"is_base"`
	BaseFactor   decimal.Decimal `json:"base_factor"`
}

// CreateItemRequest entrada para crear un insumo. El costo no es editable: lo deriva el motor.
type CreateItemRequest struct {
	Name             string           `json:"name"`
	UnitID           string           `json:"unit_id"`
	PurchaseUnitID   *string          `json:"purchase_unit_id,omitempty"`
	ConversionFactor decimal.Decimal  `json:"conversion_factor"`
	CategoryID       *string          `json:"category_id,omitempty"`
	SupplierID       *string          `json:"supplier_id,omitempty"`
	MinStock         decimal.Decimal  `json:"min_stock"`
	MaxStock         *decimal.Decimal `json:"max_stock,omitempty"`
}

// ItemResponse salida de un insumo.
type ItemResponse struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	UnitID           string           `json:"unit_id"`
	PurchaseUnitID   *string          `json:"purchase_unit_id,omitempty"`
	ConversionFactor decimal.Decimal  `json:"conversion_factor"`
	CategoryID       *string          `json:"category_id,omitempty"`
	SupplierID       *string          `json:"supplier_id,omitempty"`
	MinStock         decimal.Decimal  `json:"min_stock"`
	MaxStock         *decimal.Decimal `json:"max_stock,omitempty"`
	Cost             decimal.Decimal  `json:"cost"`
	Active           bool             `json:"active"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// ItemListResponse lista paginada de insumos.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
