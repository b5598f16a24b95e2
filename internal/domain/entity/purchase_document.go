package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseDocument documento de compra recibido. Al procesarse genera exactamente una
// entrada por compra y guarda la referencia al movimiento.
type PurchaseDocument struct {
	ID          string
	Number      string
	ItemID      string
	WarehouseID string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal // en unidad de compra si el insumo la tiene
	LotNumber   string
	ExpiryDate  *time.Time
	Processed   bool
	MovementID  *string
	ProcessedAt *time.Time
	ProcessedBy *string
	CreatedAt   time.Time
}
