package repository

import (
	"context"

	"github.com/jhoicas/Inventario-costeo/internal/domain/entity"
)

// PurchaseDocumentRepository define el puerto de persistencia para documentos de compra.
type PurchaseDocumentRepository interface {
	Create(ctx context.Context, doc *entity.PurchaseDocument) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseDocument, error)
	// GetForUpdate bloquea el documento para procesarlo una sola vez.
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseDocument, error)
	MarkProcessed(ctx context.Context, doc *entity.PurchaseDocument) error
}
