package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot lote de un insumo en un almacén, identificado por (ItemID, WarehouseID, LotNumber, ExpiryDate).
// UnitCost guarda el último costo registrado (no se pondera dentro del lote).
type Lot struct {
	ID          string
	ItemID      string
	WarehouseID string
	LotNumber   string
	ExpiryDate  *time.Time // solo fecha (00:00 UTC)
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LotKey clave natural de un lote.
type LotKey struct {
	ItemID      string
	WarehouseID string
	LotNumber   string
	ExpiryDate  *time.Time
}

// DateOnly trunca una fecha a 00:00 UTC para comparaciones por día.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
