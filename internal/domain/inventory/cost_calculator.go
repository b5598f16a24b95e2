package inventory

import "github.com/shopspring/decimal"

// Precisiones de redondeo del motor.
const (
	CostPlaces    int32 = 4 // costos y montos
	PercentPlaces int32 = 2 // porcentajes
)

var hundred = decimal.NewFromInt(100)

// CostCalculator implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
// Si no había stock previo (StockActual <= 0) el nuevo costo es el costo de entrada.
// El resultado se redondea a 4 decimales, igual que al persistir.
func CostCalculator(stockActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	if stockActual.LessThanOrEqual(decimal.Zero) {
		return Round4(costoEntrada)
	}
	sum := stockActual.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stockActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.DivRound(sum, CostPlaces)
}

// StockValue par cantidad/costo de un registro de stock, para agregados globales.
type StockValue struct {
	Quantity decimal.Decimal
	UnitCost decimal.Decimal
}

// AggregateCost recalcula el costo global de un insumo: Σ(qty·costo) / Σ(qty).
// Devuelve 0 si la cantidad total es 0.
func AggregateCost(values []StockValue) decimal.Decimal {
	totalQty := decimal.Zero
	totalValue := decimal.Zero
	for _, v := range values {
		totalQty = totalQty.Add(v.Quantity)
		totalValue = totalValue.Add(v.Quantity.Mul(v.UnitCost))
	}
	if totalQty.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return totalValue.DivRound(totalQty, CostPlaces)
}

// LineTotal monto de un movimiento: cantidad × costo unitario a 4 decimales.
func LineTotal(quantity, unitCost decimal.Decimal) decimal.Decimal {
	return Round4(quantity.Mul(unitCost))
}

// Round4 redondea montos y costos a la precisión del motor.
func Round4(d decimal.Decimal) decimal.Decimal {
	return d.Round(CostPlaces)
}

// Percent calcula part/base × 100 a 2 decimales. ok=false si base <= 0.
func Percent(part, base decimal.Decimal) (decimal.Decimal, bool) {
	if base.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, false
	}
	return part.Mul(hundred).DivRound(base, PercentPlaces), true
}
