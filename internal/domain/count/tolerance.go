package count

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Tolerance configuración de tolerancias de un conteo. Nil = no configurada.
type Tolerance struct {
	Percent *decimal.Decimal
	Units   *decimal.Decimal
}

// Evaluate calcula diferencia = contado − sistema y si cae dentro de tolerancia:
//  1. tolerancia absoluta configurada y |dif| <= unidades, o
//  2. tolerancia porcentual configurada, sistema != 0 y |dif|/sistema·100 <= porcentaje.
//
// Sin tolerancias configuradas ninguna línea queda dentro, ni siquiera con diferencia cero.
func (t Tolerance) Evaluate(system, counted decimal.Decimal) (difference decimal.Decimal, within bool) {
	difference = counted.Sub(system)
	abs := difference.Abs()

	if t.Units != nil && abs.LessThanOrEqual(*t.Units) {
		return difference, true
	}
	if t.Percent != nil && !system.IsZero() {
		pct := abs.Mul(hundred).Div(system.Abs())
		if pct.LessThanOrEqual(*t.Percent) {
			return difference, true
		}
	}
	return difference, false
}
