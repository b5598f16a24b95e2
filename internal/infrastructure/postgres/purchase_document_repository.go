package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Inventario-costeo/internal/domain"
	"github.com/jhoicas/Inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/Inventario-costeo/internal/domain/repository"
)

var _ repository.PurchaseDocumentRepository = (*PurchaseDocumentRepo)(nil)

// PurchaseDocumentRepo documentos de compra; el número es único (23505 -> ErrDuplicate).
type PurchaseDocumentRepo struct {
	q Querier
}

// NewPurchaseDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseDocumentRepository(q Querier) *PurchaseDocumentRepo {
	return &PurchaseDocumentRepo{q: q}
}

const purchaseDocColumns = `id, number, item_id, warehouse_id, quantity, unit_cost, lot_number, expiry_date,
	processed, movement_id, processed_at, processed_by, created_at`

// Create registra el documento sin procesar.
func (r *PurchaseDocumentRepo) Create(ctx context.Context, d *entity.PurchaseDocument) error {
	query := `INSERT INTO purchase_documents (` + purchaseDocColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query, d.ID, d.Number, d.ItemID, d.WarehouseID, d.Quantity, d.UnitCost,
		d.LotNumber, d.ExpiryDate, d.Processed, d.MovementID, d.ProcessedAt, d.ProcessedBy, d.CreatedAt)
	return wrapErr("create purchase document", err)
}

// GetByID obtiene el documento.
func (r *PurchaseDocumentRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseDocument, error) {
	return r.get(ctx, `SELECT `+purchaseDocColumns+` FROM purchase_documents WHERE id = $1`, id)
}

// GetForUpdate bloquea el documento para procesarlo una sola vez.
func (r *PurchaseDocumentRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseDocument, error) {
	return r.get(ctx, `SELECT `+purchaseDocColumns+` FROM purchase_documents WHERE id = $1 FOR UPDATE`, id)
}

func (r *PurchaseDocumentRepo) get(ctx context.Context, query, id string) (*entity.PurchaseDocument, error) {
	var d entity.PurchaseDocument
	err := r.q.QueryRow(ctx, query, id).Scan(&d.ID, &d.Number, &d.ItemID, &d.WarehouseID, &d.Quantity,
		&d.UnitCost, &d.LotNumber, &d.ExpiryDate, &d.Processed, &d.MovementID, &d.ProcessedAt,
		&d.ProcessedBy, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get purchase document", err)
	}
	return &d, nil
}

// MarkProcessed guarda la referencia al movimiento generado.
func (r *PurchaseDocumentRepo) MarkProcessed(ctx context.Context, d *entity.PurchaseDocument) error {
	query := `
		UPDATE purchase_documents
		SET processed = $2, movement_id = $3, processed_at = $4, processed_by = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, d.ID, d.Processed, d.MovementID, d.ProcessedAt, d.ProcessedBy)
	if err != nil {
		return wrapErr("mark purchase document processed", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
