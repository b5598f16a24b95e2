package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del conteo físico.
const (
	CountStateDraft           = "draft"
	CountStatePendingApproval = "pending_approval"
	CountStateClosed          = "closed"
	CountStateAdjusted        = "adjusted"
)

// PhysicalCount cabecera de un conteo físico de inventario en un almacén.
type PhysicalCount struct {
	ID               string
	Date             time.Time
	WarehouseID      string
	ResponsibleID    string
	TolerancePercent *decimal.Decimal
	ToleranceUnits   *decimal.Decimal
	State            string
	Notes            string
	ClosedBy         *string
	ClosedAt         *time.Time
	ApprovedBy       *string
	ApprovedAt       *time.Time
	AdjustedAt       *time.Time
	Lines            []PhysicalCountLine
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// PhysicalCountLine línea contada. SystemQuantity, Difference y WithinTolerance son
// el snapshot que deja la conciliación.
type PhysicalCountLine struct {
	ID              string
	CountID         string
	ItemID          string
	CountedQuantity decimal.Decimal
	SystemQuantity  *decimal.Decimal
	Difference      *decimal.Decimal
	WithinTolerance bool
}

// HasCriticalLines indica si alguna línea conciliada quedó fuera de tolerancia.
func (c *PhysicalCount) HasCriticalLines() bool {
	for _, l := range c.Lines {
		if l.Difference != nil && !l.WithinTolerance {
			return true
		}
	}
	return false
}

// Reference referencia estándar que llevan los ajustes generados por el conteo.
func (c *PhysicalCount) Reference() string {
	return "conteo:" + c.ID
}
