// Package count contiene la máquina de estados del conteo físico y la regla de tolerancia.
// La consultan tanto el motor de conciliación como el flujo de aprobación.
package count

import (
	"fmt"

	"github.com/jhoicas/Inventario-costeo/internal/domain"
	"github.com/jhoicas/Inventario-costeo/internal/domain/entity"
)

// State estado del ciclo de vida de un conteo.
type State string

const (
	Draft           State = entity.CountStateDraft
	PendingApproval State = entity.CountStatePendingApproval
	Closed          State = entity.CountStateClosed
	Adjusted        State = entity.CountStateAdjusted
)

// transitions tabla de transiciones permitidas.
//
//	draft ──► closed ──► adjusted
//	  │          ▲
//	  ▼          │
//	pending_approval ──► draft (rechazo, vuelve a contarse)
var transitions = map[State][]State{
	Draft:           {Closed, PendingApproval},
	PendingApproval: {Closed, Draft},
	Closed:          {Adjusted},
	Adjusted:        {},
}

// Parse convierte un string persistido en State.
func Parse(s string) (State, error) {
	st := State(s)
	if _, ok := transitions[st]; !ok {
		return "", fmt.Errorf("estado de conteo desconocido %q: %w", s, domain.ErrInvalidState)
	}
	return st, nil
}

// CanTransition indica si from → to es una transición válida.
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition valida from → to y devuelve ErrInvalidState si no está permitida.
func Transition(from, to State) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%s → %s: %w", from, to, domain.ErrInvalidState)
	}
	return nil
}

// LinesEditable solo el borrador admite cambios en las líneas.
func LinesEditable(s State) bool {
	return s == Draft
}

// IsTerminal adjusted no admite más transiciones.
func IsTerminal(s State) bool {
	return len(transitions[s]) == 0
}
