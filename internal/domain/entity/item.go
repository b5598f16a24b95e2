package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un insumo del catálogo. El stock vive por almacén en Stock;
// Cost es el costo promedio ponderado global, derivado y escrito solo por el motor.
type Item struct {
	ID               string
	Name             string
	UnitID           string          // unidad de consumo
	PurchaseUnitID   *string         // unidad de compra (opcional)
	ConversionFactor decimal.Decimal // compra → consumo; obligatorio (> 0) si hay unidad de compra
	CategoryID       *string
	SupplierID       *string // proveedor principal
	MinStock         decimal.Decimal
	MaxStock         *decimal.Decimal
	Cost             decimal.Decimal
	Active           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Validate verifica las invariantes del catálogo.
func (i *Item) Validate() bool {
	if i.Name == "" || i.UnitID == "" {
		return false
	}
	if i.PurchaseUnitID != nil && !i.ConversionFactor.GreaterThan(decimal.Zero) {
		return false
	}
	if i.MinStock.IsNegative() {
		return false
	}
	if i.MaxStock != nil && i.MaxStock.IsNegative() {
		return false
	}
	return true
}

// PurchaseCostToConsumption convierte un costo por unidad de compra a costo por unidad de consumo.
func (i *Item) PurchaseCostToConsumption(cost decimal.Decimal) decimal.Decimal {
	if i.PurchaseUnitID != nil && i.ConversionFactor.GreaterThan(decimal.Zero) {
		return cost.Div(i.ConversionFactor)
	}
	return cost
}
