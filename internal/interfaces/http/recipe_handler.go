package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Inventario-costeo/internal/application/catalog"
	"github.com/jhoicas/Inventario-costeo/internal/application/dto"
)

// RecipeHandler platos, recetas e indicadores de costo (protegido).
type RecipeHandler struct {
	dishes *catalog.DishUseCase
}

// NewRecipeHandler construye el handler.
func NewRecipeHandler(dishes *catalog.DishUseCase) *RecipeHandler {
	return &RecipeHandler{dishes: dishes}
}

// Create godoc
// @Summary      Crear plato con su receta
// @Tags         recipes
// @Security     Bearer
// @Success      201  {object}  dto.DishResponse
// @Router       /api/dishes [post]
func (h *RecipeHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDishRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.dishes.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener plato con indicadores (recompute=true recalcula el costo)
// @Tags         recipes
// @Security     Bearer
// @Param        recompute  query  bool  false  "recalcular costo de receta"
// @Router       /api/dishes/{id} [get]
func (h *RecipeHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.dishes.Get(c.UserContext(), c.Params("id"), c.QueryBool("recompute", false))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ReplaceRecipe godoc
// @Summary      Reemplazar las líneas de la receta
// @Tags         recipes
// @Security     Bearer
// @Router       /api/dishes/{id}/recipe [put]
func (h *RecipeHandler) ReplaceRecipe(c *fiber.Ctx) error {
	var in dto.ReplaceRecipeRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.dishes.ReplaceRecipe(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar datos del plato (active=false lo desactiva)
// @Tags         recipes
// @Security     Bearer
// @Success      200  {object}  dto.DishResponse
// @Router       /api/dishes/{id} [patch]
func (h *RecipeHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateDishRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.dishes.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Indicators godoc
// @Summary      Indicadores con el costo de receta actual, sin persistirlo
// @Tags         recipes
// @Security     Bearer
// @Success      200  {object}  dto.CostIndicatorsDTO
// @Router       /api/dishes/{id}/indicators [get]
func (h *RecipeHandler) Indicators(c *fiber.Ctx) error {
	out, err := h.dishes.Indicators(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RecostItem godoc
// @Summary      Recalcular el costo de los platos que usan un insumo
// @Tags         recipes
// @Security     Bearer
// @Router       /api/items/{id}/recost [post]
func (h *RecipeHandler) RecostItem(c *fiber.Ctx) error {
	n, err := h.dishes.RecostItem(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"updated": n})
}
