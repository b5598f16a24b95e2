// Package auth decide qué puede hacer cada usuario sobre conteos y almacenes.
// El motor de inventario nunca lo consulta; solo el flujo que lo rodea (HTTP, aprobaciones).
package auth

import "slices"

// Roles reconocidos en los tokens.
const (
	RoleAdmin      = "admin"      // superusuario
	RoleSupervisor = "supervisor" // aprueba conteos críticos, ve todos los almacenes
	RoleBodeguero  = "bodeguero"  // cierra conteos y aplica ajustes en sus almacenes
	RoleCocina     = "cocina"     // registra consumos y mermas en sus almacenes
)

// Principal usuario autenticado tal como viene en el token.
type Principal struct {
	UserID     string
	Role       string
	Warehouses []string // almacenes asignados
}

// Authorizer capacidades de un usuario.
type Authorizer interface {
	IsSupervisor(p Principal) bool
	CanCloseCounts(p Principal) bool
	CanApplyAdjustments(p Principal) bool
	// VisibleWarehouses nil = todos.
	VisibleWarehouses(p Principal) []string
}

// RoleAuthorizer implementa Authorizer a partir del rol del token.
type RoleAuthorizer struct{}

var _ Authorizer = RoleAuthorizer{}

// NewRoleAuthorizer construye el autorizador por roles.
func NewRoleAuthorizer() RoleAuthorizer { return RoleAuthorizer{} }

func (RoleAuthorizer) IsSupervisor(p Principal) bool {
	return p.Role == RoleAdmin || p.Role == RoleSupervisor
}

func (a RoleAuthorizer) CanCloseCounts(p Principal) bool {
	return a.IsSupervisor(p) || p.Role == RoleBodeguero
}

func (a RoleAuthorizer) CanApplyAdjustments(p Principal) bool {
	return a.IsSupervisor(p) || p.Role == RoleBodeguero
}

func (a RoleAuthorizer) VisibleWarehouses(p Principal) []string {
	if a.IsSupervisor(p) {
		return nil
	}
	if p.Warehouses == nil {
		return []string{}
	}
	return p.Warehouses
}

// CanSeeWarehouse indica si el almacén está dentro de los visibles del usuario.
func CanSeeWarehouse(a Authorizer, p Principal, warehouseID string) bool {
	visible := a.VisibleWarehouses(p)
	return visible == nil || slices.Contains(visible, warehouseID)
}

// IsKnownRole indica si el rol pertenece al catálogo.
func IsKnownRole(role string) bool {
	switch role {
	case RoleAdmin, RoleSupervisor, RoleBodeguero, RoleCocina:
		return true
	}
	return false
}
