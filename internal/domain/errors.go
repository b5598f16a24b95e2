package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas de infraestructura).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// Motor de inventario.
	ErrInvalidQuantity     = errors.New("la cantidad debe ser mayor que cero")
	ErrInvalidCost         = errors.New("el costo unitario debe ser mayor que cero")
	ErrEmptyQuantity       = errors.New("la cantidad no puede ser cero")
	ErrNonNegativeQuantity = errors.New("la cantidad de una merma debe ser negativa")
	ErrEmptyReason         = errors.New("el motivo es obligatorio")
	ErrNoStock             = errors.New("no existe stock para este insumo en este almacén")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrNegativeStockResult = errors.New("la operación dejaría el stock en negativo")
	ErrSameWarehouse       = errors.New("el almacén de origen y destino no pueden ser el mismo")
	ErrInactiveDish        = errors.New("el plato está inactivo")
	ErrEmptyRecipe         = errors.New("el plato no tiene receta con cantidades positivas")

	// Conteo físico.
	ErrNotClosed    = errors.New("el conteo debe estar en estado cerrado")
	ErrInvalidState = errors.New("transición de estado inválida")

	// ErrTransient agrupa fallas de almacenamiento reintentables (lock timeout, conexión).
	ErrTransient = errors.New("falla transitoria de almacenamiento")
)

// InsufficientStockError detalla el primer insumo sin stock suficiente.
type InsufficientStockError struct {
	ItemID    string
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para insumo %s: requerido %s, disponible %s",
		e.ItemID, e.Required.String(), e.Available.String())
}

// Is permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// NewInsufficientStock construye el error con cantidades requerida y disponible.
func NewInsufficientStock(itemID string, required, available decimal.Decimal) error {
	return &InsufficientStockError{ItemID: itemID, Required: required, Available: available}
}

// TransientError envuelve una falla de almacenamiento que el caller puede reintentar.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// Is permite errors.Is(err, ErrTransient).
func (e *TransientError) Is(target error) bool {
	return target == ErrTransient
}

// IsTransient indica si el error pertenece a la categoría reintentable.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}
