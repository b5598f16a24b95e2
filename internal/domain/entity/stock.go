package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock representa la cantidad y el costo promedio de un insumo en un almacén.
// Único por (ItemID, WarehouseID); Quantity nunca es negativa. Se crea en el primer
// movimiento positivo y el motor nunca lo elimina.
type Stock struct {
	ItemID      string
	WarehouseID string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	UpdatedAt   time.Time
}

// NewStock construye un registro vacío para el par insumo/almacén.
func NewStock(itemID, warehouseID string, unitCost decimal.Decimal, now time.Time) *Stock {
	return &Stock{
		ItemID:      itemID,
		WarehouseID: warehouseID,
		Quantity:    decimal.Zero,
		UnitCost:    unitCost,
		UpdatedAt:   now,
	}
}

// Value cantidad × costo unitario (sin redondear).
func (s *Stock) Value() decimal.Decimal {
	return s.Quantity.Mul(s.UnitCost)
}
