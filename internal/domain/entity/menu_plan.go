package entity

import "github.com/shopspring/decimal"

// MenuPlan plan de producción de platos (solo lectura para el motor).
type MenuPlan struct {
	ID          string
	Name        string
	WarehouseID *string
	Items       []MenuPlanItem
}

// MenuPlanItem porciones planificadas de un plato.
type MenuPlanItem struct {
	DishID          string
	PlannedPortions decimal.Decimal
}
