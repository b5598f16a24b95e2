package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/jhoicas/Inventario-costeo/internal/application/ports"
	"github.com/jhoicas/Inventario-costeo/internal/domain"
	"github.com/jhoicas/Inventario-costeo/internal/domain/entity"
	"github.com/rs/zerolog"
)

// PurchaseDocumentProcessor convierte un documento de compra en exactamente una entrada
// por compra. Procesar dos veces el mismo documento no genera un segundo movimiento.
type PurchaseDocumentProcessor struct {
	txRunner ports.TxRunner
	recorder *MovementRecorder
	log      zerolog.Logger
}

// NewPurchaseDocumentProcessor construye el caso de uso.
func NewPurchaseDocumentProcessor(txRunner ports.TxRunner, recorder *MovementRecorder, log zerolog.Logger) *PurchaseDocumentProcessor {
	return &PurchaseDocumentProcessor{txRunner: txRunner, recorder: recorder, log: log}
}

// Register registra un documento de compra pendiente de procesar.
func (p *PurchaseDocumentProcessor) Register(ctx context.Context, doc *entity.PurchaseDocument) error {
	if !doc.Quantity.IsPositive() {
		return domain.ErrInvalidQuantity
	}
	if !doc.UnitCost.IsPositive() {
		return domain.ErrInvalidCost
	}
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	doc.Processed = false
	doc.MovementID = nil
	doc.CreatedAt = p.recorder.now()
	return p.txRunner.Run(ctx, func(tx ports.TxRepos) error {
		return tx.Purchases.Create(ctx, doc)
	})
}

// Process bloquea el documento, registra la compra y lo marca procesado en la misma transacción.
// Si ya estaba procesado devuelve el movimiento original sin tocar el stock.
func (p *PurchaseDocumentProcessor) Process(ctx context.Context, documentID, userID string) (*entity.InventoryMovement, error) {
	var (
		mov      *entity.InventoryMovement
		replayed bool
	)
	err := p.txRunner.Run(ctx, func(tx ports.TxRepos) error {
		doc, err := tx.Purchases.GetForUpdate(ctx, documentID)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if doc.Processed {
			replayed = true
			if doc.MovementID == nil {
				return nil
			}
			mov, err = tx.Movements.GetByID(ctx, *doc.MovementID)
			return err
		}

		mov, err = p.recorder.RecordPurchaseInTx(ctx, tx, PurchaseInput{
			ItemID:      doc.ItemID,
			WarehouseID: doc.WarehouseID,
			Quantity:    doc.Quantity,
			UnitCost:    doc.UnitCost,
			LotNumber:   doc.LotNumber,
			ExpiryDate:  doc.ExpiryDate,
			Meta: MovementMeta{
				UserID:    userID,
				Reason:    "Documento de compra " + doc.Number,
				Reference: "compra:" + doc.Number,
			},
		}, uuid.New().String())
		if err != nil {
			return err
		}

		now := p.recorder.now()
		doc.Processed = true
		doc.MovementID = &mov.ID
		doc.ProcessedAt = &now
		doc.ProcessedBy = &userID
		return tx.Purchases.MarkProcessed(ctx, doc)
	})
	if err != nil {
		return nil, err
	}
	if replayed {
		p.log.Debug().Str("document_id", documentID).Msg("documento de compra ya procesado")
	} else {
		p.recorder.logMovement(mov)
		p.recorder.notifyCostChange(ctx, mov.ItemID)
	}
	return mov, nil
}
