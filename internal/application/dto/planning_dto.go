package dto

import "github.com/shopspring/decimal"

// MenuPlanItemRequest porciones planificadas de un plato.
type MenuPlanItemRequest struct {
	DishID          string          `json:"dish_id"`
	PlannedPortions decimal.Decimal `json:"planned_portions"`
}

// RequirementsRequest body para POST /api/planning/requirements.
type RequirementsRequest struct {
	WarehouseID *string               `json:"warehouse_id,omitempty"`
	Items       []MenuPlanItemRequest `json:"items"`
}

// RequirementDTO necesidad total de un insumo para el plan.
// Available y Shortfall solo se informan cuando se indicó un almacén.
type RequirementDTO struct {
	ItemID    string           `json:"item_id"`
	ItemName  string           `json:"item_name"`
	Required  decimal.Decimal  `json:"required"`
	Available *decimal.Decimal `json:"available,omitempty"`
	Shortfall *decimal.Decimal `json:"shortfall,omitempty"`
}
