package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Inventario-costeo/internal/application/dto"
	"github.com/jhoicas/Inventario-costeo/internal/domain"
)

// errorMapping asocia errores de dominio con status y código HTTP. El orden importa:
// se usa el primero que coincida con errors.Is.
var errorMapping = []struct {
	target error
	status int
	code   string
}{
	{domain.ErrTransient, fiber.StatusServiceUnavailable, "TRANSIENT"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrNegativeStockResult, fiber.StatusConflict, "NEGATIVE_STOCK_RESULT"},
	{domain.ErrNoStock, fiber.StatusConflict, "NO_STOCK"},
	{domain.ErrInvalidState, fiber.StatusConflict, "INVALID_STATE"},
	{domain.ErrNotClosed, fiber.StatusConflict, "NOT_CLOSED"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrInactiveDish, fiber.StatusUnprocessableEntity, "INACTIVE_DISH"},
	{domain.ErrEmptyRecipe, fiber.StatusUnprocessableEntity, "EMPTY_RECIPE"},
	{domain.ErrInvalidQuantity, fiber.StatusBadRequest, "INVALID_QUANTITY"},
	{domain.ErrInvalidCost, fiber.StatusBadRequest, "INVALID_COST"},
	{domain.ErrEmptyQuantity, fiber.StatusBadRequest, "EMPTY_QUANTITY"},
	{domain.ErrNonNegativeQuantity, fiber.StatusBadRequest, "NON_NEGATIVE_QUANTITY"},
	{domain.ErrEmptyReason, fiber.StatusBadRequest, "EMPTY_REASON"},
	{domain.ErrSameWarehouse, fiber.StatusBadRequest, "SAME_WAREHOUSE"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
}

// writeError responde con el status que corresponde al error de dominio; el resto es 500.
func writeError(c *fiber.Ctx, err error) error {
	for _, m := range errorMapping {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func forbidden(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al almacén"})
}
