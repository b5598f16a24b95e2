package auth

import (
	"fmt"

	"github.com/jhoicas/Inventario-costeo/internal/domain"
	"github.com/jhoicas/Inventario-costeo/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// TokenService emite y valida tokens de acceso.
type TokenService struct {
	cfg JWTConfig
}

// NewTokenService construye el servicio de tokens.
func NewTokenService(cfg JWTConfig) *TokenService {
	return &TokenService{cfg: cfg}
}

// Issue firma un token para el usuario. El rol debe ser conocido.
func (s *TokenService) Issue(p Principal) (string, error) {
	if p.UserID == "" || !IsKnownRole(p.Role) {
		return "", domain.ErrInvalidInput
	}
	return jwt.Generate(s.cfg.Secret, p.UserID, p.Role, p.Warehouses, s.cfg.Issuer, s.cfg.ExpMinutes)
}

// Parse valida el token y devuelve el usuario que representa.
func (s *TokenService) Parse(token string) (Principal, error) {
	claims, err := jwt.Parse(s.cfg.Secret, token)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	return Principal{UserID: claims.UserID, Role: claims.Role, Warehouses: claims.Warehouses}, nil
}
