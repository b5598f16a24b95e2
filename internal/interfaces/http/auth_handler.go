package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Inventario-costeo/internal/application/auth"
	"github.com/jhoicas/Inventario-costeo/internal/application/dto"
	"github.com/jhoicas/Inventario-costeo/internal/domain"
)

// IssueTokenRequest body para POST /api/auth/tokens.
type IssueTokenRequest struct {
	UserID     string   `json:"user_id"`
	Role       string   `json:"role"`
	Warehouses []string `json:"warehouses,omitempty"`
}

// AuthHandler emisión de tokens para el personal y datos del usuario autenticado.
// Los usuarios viven fuera de este servicio; un admin firma los tokens.
type AuthHandler struct {
	tokens *auth.TokenService
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{tokens: tokens}
}

// IssueToken godoc
// @Summary      Emitir token de acceso (solo admin)
// @Tags         auth
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  IssueTokenRequest  true  "user_id, role, warehouses"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/auth/tokens [post]
func (h *AuthHandler) IssueToken(c *fiber.Ctx) error {
	var in IssueTokenRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	tok, err := h.tokens.Issue(auth.Principal{UserID: in.UserID, Role: in.Role, Warehouses: in.Warehouses})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "user_id y un rol válido son requeridos"})
		}
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"token": tok, "token_type": "Bearer"})
}

// Me godoc
// @Summary      Usuario autenticado
// @Tags         auth
// @Security     Bearer
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	p := GetPrincipal(c)
	return c.JSON(fiber.Map{"user_id": p.UserID, "role": p.Role, "warehouses": p.Warehouses})
}
