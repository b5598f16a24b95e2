package repository

import (
	"context"

	"github.com/jhoicas/Inventario-costeo/internal/domain/entity"
)

// PhysicalCountRepository define el puerto de persistencia para conteos físicos.
type PhysicalCountRepository interface {
	Create(ctx context.Context, count *entity.PhysicalCount) error
	// GetByID devuelve el conteo con sus líneas.
	GetByID(ctx context.Context, id string) (*entity.PhysicalCount, error)
	// GetForUpdate bloquea la cabecera del conteo y devuelve sus líneas.
	GetForUpdate(ctx context.Context, id string) (*entity.PhysicalCount, error)
	// UpdateHeader persiste estado, cierre, aprobación y ajuste.
	UpdateHeader(ctx context.Context, count *entity.PhysicalCount) error
	UpsertLine(ctx context.Context, line *entity.PhysicalCountLine) error
	DeleteLine(ctx context.Context, countID, itemID string) error
	// SaveSnapshot persiste cantidad de sistema, diferencia y tolerancia de la línea.
	SaveSnapshot(ctx context.Context, line *entity.PhysicalCountLine) error
}
