package count

import (
	"context"
	"fmt"
	"io"

	"github.com/jhoicas/Inventario-costeo/internal/application/auth"
	"github.com/jhoicas/Inventario-costeo/internal/application/dto"
	"github.com/jhoicas/Inventario-costeo/internal/application/ports"
	"github.com/jhoicas/Inventario-costeo/internal/domain"
	"github.com/jhoicas/Inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/Inventario-costeo/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// SheetRow fila leída de una planilla de conteo.
type SheetRow struct {
	Row             int // número de fila en el archivo (1 = encabezado)
	ItemID          string
	CountedQuantity decimal.Decimal
}

// SheetParser lee planillas de conteo (XLSX o CSV).
type SheetParser interface {
	Parse(filename string, r io.Reader) ([]SheetRow, error)
}

// SheetLine línea de la planilla impresa.
type SheetLine struct {
	ItemID          string
	ItemName        string
	CountedQuantity *decimal.Decimal
	SystemQuantity  *decimal.Decimal
	Difference      *decimal.Decimal
	WithinTolerance bool
}

// SheetDocument datos para imprimir una planilla de conteo o su conciliación.
type SheetDocument struct {
	Count         *entity.PhysicalCount
	WarehouseName string
	Lines         []SheetLine
}

// SheetRenderer genera el documento imprimible (PDF).
type SheetRenderer interface {
	Render(doc SheetDocument) ([]byte, error)
}

// SheetUseCase importa cantidades contadas desde planillas y exporta la planilla impresa.
type SheetUseCase struct {
	txRunner      ports.TxRunner
	workflow      *Workflow
	itemRepo      repository.ItemRepository
	warehouseRepo repository.WarehouseRepository
	parser        SheetParser
	renderer      SheetRenderer
}

// NewSheetUseCase construye el caso de uso de planillas.
func NewSheetUseCase(
	txRunner ports.TxRunner,
	workflow *Workflow,
	itemRepo repository.ItemRepository,
	warehouseRepo repository.WarehouseRepository,
	parser SheetParser,
	renderer SheetRenderer,
) *SheetUseCase {
	return &SheetUseCase{
		txRunner:      txRunner,
		workflow:      workflow,
		itemRepo:      itemRepo,
		warehouseRepo: warehouseRepo,
		parser:        parser,
		renderer:      renderer,
	}
}

// Import carga las cantidades de la planilla en un conteo en borrador, todo o nada.
// Filas con insumo desconocido o cantidad negativa se descartan y se informan.
func (uc *SheetUseCase) Import(ctx context.Context, p auth.Principal, countID, filename string, r io.Reader) (*dto.ImportResult, error) {
	rows, err := uc.parser.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	res := &dto.ImportResult{}
	valid := make([]SheetRow, 0, len(rows))
	for _, row := range rows {
		if row.CountedQuantity.IsNegative() {
			res.Skipped = append(res.Skipped, fmt.Sprintf("fila %d: cantidad negativa", row.Row))
			continue
		}
		item, err := uc.itemRepo.GetByID(ctx, row.ItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			res.Skipped = append(res.Skipped, fmt.Sprintf("fila %d: insumo %s no existe", row.Row, row.ItemID))
			continue
		}
		valid = append(valid, row)
	}

	err = uc.workflow.withDraft(ctx, p, countID, func(tx ports.TxRepos, c *entity.PhysicalCount) error {
		for _, row := range valid {
			if err := upsertLine(ctx, tx, c, row.ItemID, row.CountedQuantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.LinesLoaded = len(valid)
	return res, nil
}

// Export genera el PDF del conteo: planilla en blanco en borrador, conciliación después.
func (uc *SheetUseCase) Export(ctx context.Context, p auth.Principal, countID string) ([]byte, error) {
	c, err := uc.workflow.Get(ctx, p, countID)
	if err != nil {
		return nil, err
	}
	wh, err := uc.warehouseRepo.GetByID(ctx, c.WarehouseID)
	if err != nil {
		return nil, err
	}
	doc := SheetDocument{Count: c}
	if wh != nil {
		doc.WarehouseName = wh.Name
	}
	for _, l := range c.Lines {
		line := SheetLine{
			ItemID:          l.ItemID,
			ItemName:        l.ItemID,
			SystemQuantity:  l.SystemQuantity,
			Difference:      l.Difference,
			WithinTolerance: l.WithinTolerance,
		}
		counted := l.CountedQuantity
		line.CountedQuantity = &counted
		item, err := uc.itemRepo.GetByID(ctx, l.ItemID)
		if err != nil {
			return nil, err
		}
		if item != nil {
			line.ItemName = item.Name
		}
		doc.Lines = append(doc.Lines, line)
	}
	return uc.renderer.Render(doc)
}
