package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unit representa una unidad de medida con su factor hacia la unidad base del sistema.
// Ej: base "g" → Kilogramo tiene BaseFactor = 1000.
type Unit struct {
	ID           string
	Name         string
	Abbreviation string
	IsBase       bool
	BaseFactor   decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ToBase convierte una cantidad expresada en esta unidad a la unidad base.
func (u *Unit) ToBase(qty decimal.Decimal) decimal.Decimal {
	if u == nil || u.BaseFactor.IsZero() {
		return qty
	}
	return qty.Mul(u.BaseFactor)
}
