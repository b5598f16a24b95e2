package inventory

import (
	"context"

	"github.com/jhoicas/Inventario-costeo/internal/application/dto"
	"github.com/jhoicas/Inventario-costeo/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// StockAlertsUseCase lista los stocks fuera de sus umbrales de mínimo y máximo.
// Solo lectura: no toma bloqueos ni modifica datos.
type StockAlertsUseCase struct {
	reportRepo repository.ReportRepository
}

// NewStockAlertsUseCase construye el caso de uso de alertas.
func NewStockAlertsUseCase(reportRepo repository.ReportRepository) *StockAlertsUseCase {
	return &StockAlertsUseCase{reportRepo: reportRepo}
}

// BelowMinimum stocks con cantidad menor al mínimo configurado (> 0).
// Gap es lo que falta para llegar al mínimo.
func (uc *StockAlertsUseCase) BelowMinimum(ctx context.Context, warehouseID *string) ([]dto.StockAlertDTO, error) {
	rows, err := uc.reportRepo.StocksBelowMinimum(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockAlertDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, toAlertDTO(r, r.MinStock.Sub(r.Quantity)))
	}
	return out, nil
}

// AboveMaximum stocks con cantidad mayor al máximo configurado (> 0).
// Gap es el excedente sobre el máximo.
func (uc *StockAlertsUseCase) AboveMaximum(ctx context.Context, warehouseID *string) ([]dto.StockAlertDTO, error) {
	rows, err := uc.reportRepo.StocksAboveMaximum(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockAlertDTO, 0, len(rows))
	for _, r := range rows {
		gap := decimal.Zero
		if r.MaxStock != nil {
			gap = r.Quantity.Sub(*r.MaxStock)
		}
		out = append(out, toAlertDTO(r, gap))
	}
	return out, nil
}

func toAlertDTO(r repository.StockAlert, gap decimal.Decimal) dto.StockAlertDTO {
	return dto.StockAlertDTO{
		ItemID:        r.ItemID,
		ItemName:      r.ItemName,
		WarehouseID:   r.WarehouseID,
		WarehouseName: r.WarehouseName,
		Quantity:      r.Quantity,
		MinStock:      r.MinStock,
		MaxStock:      r.MaxStock,
		Gap:           gap,
	}
}
