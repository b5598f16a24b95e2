package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementPurchaseIn     = "purchase_in"            // entrada por compra
	MovementAdjustmentIn   = "adjustment_in"          // ajuste positivo
	MovementAdjustmentOut  = "adjustment_out"         // ajuste negativo
	MovementTransferIn     = "transfer_in"            // entrada por traspaso
	MovementTransferOut    = "transfer_out"           // salida por traspaso
	MovementConsumptionOut = "recipe_consumption_out" // consumo por receta
	MovementWasteOut       = "waste_out"              // merma
)

// IsValidMovementType indica si el tipo pertenece al catálogo de movimientos.
func IsValidMovementType(t string) bool {
	switch t {
	case MovementPurchaseIn, MovementAdjustmentIn, MovementAdjustmentOut,
		MovementTransferIn, MovementTransferOut, MovementConsumptionOut, MovementWasteOut:
		return true
	}
	return false
}

// InventoryMovement hecho inmutable del libro de inventario.
// Quantity es positiva para entradas y negativa para salidas. TotalCost se calcula
// una sola vez al construir el movimiento (Quantity × UnitCost a 4 decimales).
type InventoryMovement struct {
	ID            string
	TransactionID string
	ItemID        string
	WarehouseID   string
	Type          string
	Quantity      decimal.Decimal
	UnitCost      *decimal.Decimal
	TotalCost     *decimal.Decimal
	Date          time.Time
	Reason        string
	Reference     string
	CreatedAt     time.Time
	CreatedBy     string
}

// NewMovement construye el movimiento y deriva TotalCost cuando hay costo unitario.
func NewMovement(
	id, txID, itemID, warehouseID, movType string,
	quantity decimal.Decimal,
	unitCost *decimal.Decimal,
	date time.Time,
	reason, reference, userID string,
	now time.Time,
) *InventoryMovement {
	m := &InventoryMovement{
		ID:            id,
		TransactionID: txID,
		ItemID:        itemID,
		WarehouseID:   warehouseID,
		Type:          movType,
		Quantity:      quantity,
		Date:          date,
		Reason:        reason,
		Reference:     reference,
		CreatedAt:     now,
		CreatedBy:     userID,
	}
	if unitCost != nil {
		c := *unitCost
		total := quantity.Mul(c).Round(4)
		m.UnitCost = &c
		m.TotalCost = &total
	}
	return m
}
