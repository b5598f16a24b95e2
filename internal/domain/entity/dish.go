package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dish plato del menú. RecipeCost es un valor cacheado que solo escribe el costeo de recetas.
type Dish struct {
	ID          string
	Name        string
	Description string
	SalePrice   decimal.Decimal
	Category    string
	Active      bool
	RecipeCost  decimal.Decimal
	Lines       []RecipeLine
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RecipeLine cantidad de un insumo por unidad de plato, en unidad de consumo del insumo.
type RecipeLine struct {
	ItemID   string
	Quantity decimal.Decimal
}

// PositiveLines devuelve las líneas con cantidad > 0.
func (d *Dish) PositiveLines() []RecipeLine {
	out := make([]RecipeLine, 0, len(d.Lines))
	for _, l := range d.Lines {
		if l.Quantity.GreaterThan(decimal.Zero) {
			out = append(out, l)
		}
	}
	return out
}
