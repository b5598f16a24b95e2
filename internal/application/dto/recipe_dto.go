package dto

import "github.com/shopspring/decimal"

// RecipeLineRequest línea de receta: cantidad por unidad de plato en unidad de consumo.
type RecipeLineRequest struct {
	ItemID   string          `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// CreateDishRequest entrada para crear un plato con su receta.
type CreateDishRequest struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	SalePrice   decimal.Decimal     `json:"sale_price"`
	Category    string              `json:"category"`
	Lines       []RecipeLineRequest `json:"lines"`
}

// ReplaceRecipeRequest reemplaza todas las líneas de la receta.
type ReplaceRecipeRequest struct {
	Lines []RecipeLineRequest `json:"lines"`
}

// UpdateDishRequest cambios parciales de un plato; los campos nil no se modifican.
type UpdateDishRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	SalePrice   *decimal.Decimal `json:"sale_price,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Active      *bool            `json:"active,omitempty"`
}

// DishResponse salida de un plato con sus indicadores de costo.
type DishResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	SalePrice   decimal.Decimal     `json:"sale_price"`
	Category    string              `json:"category,omitempty"`
	Active      bool                `json:"active"`
	RecipeCost  decimal.Decimal     `json:"recipe_cost"`
	Lines       []RecipeLineRequest `json:"lines"`
	Indicators  *CostIndicatorsDTO  `json:"indicators,omitempty"`
}

// CostIndicatorsDTO indicadores derivados del costo de receta.
// Los porcentajes son nil cuando el precio de venta es <= 0.
type CostIndicatorsDTO struct {
	RecipeCost         decimal.Decimal  `json:"recipe_cost"`
	FoodCostPercent    *decimal.Decimal `json:"food_cost_percent,omitempty"`
	GrossMargin        decimal.Decimal  `json:"gross_margin"`
	GrossMarginPercent *decimal.Decimal `json:"gross_margin_percent,omitempty"`
}
