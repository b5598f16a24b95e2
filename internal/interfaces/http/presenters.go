package http

import (
	"github.com/jhoicas/Inventario-costeo/internal/application/dto"
	"github.com/jhoicas/Inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/Inventario-costeo/internal/domain/inventory"
)

func toMovementResponse(m *entity.InventoryMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:            m.ID,
		TransactionID: m.TransactionID,
		ItemID:        m.ItemID,
		WarehouseID:   m.WarehouseID,
		Type:          m.Type,
		Quantity:      m.Quantity,
		UnitCost:      m.UnitCost,
		TotalCost:     m.TotalCost,
		Date:          m.Date,
		Reason:        m.Reason,
		Reference:     m.Reference,
		CreatedBy:     m.CreatedBy,
	}
}

func toMovementList(list []*entity.InventoryMovement) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMovementResponse(m))
	}
	return out
}

func toStockList(list []*entity.Stock) []dto.StockResponse {
	out := make([]dto.StockResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.StockResponse{
			ItemID:      s.ItemID,
			WarehouseID: s.WarehouseID,
			Quantity:    s.Quantity,
			UnitCost:    s.UnitCost,
			Value:       inventory.Round4(s.Value()),
			UpdatedAt:   s.UpdatedAt,
		})
	}
	return out
}

func toLotList(list []*entity.Lot) []dto.LotResponse {
	out := make([]dto.LotResponse, 0, len(list))
	for _, l := range list {
		out = append(out, dto.LotResponse{
			ID:          l.ID,
			ItemID:      l.ItemID,
			WarehouseID: l.WarehouseID,
			LotNumber:   l.LotNumber,
			ExpiryDate:  l.ExpiryDate,
			Quantity:    l.Quantity,
			UnitCost:    l.UnitCost,
		})
	}
	return out
}

func toCountResponse(c *entity.PhysicalCount) dto.CountResponse {
	out := dto.CountResponse{
		ID:               c.ID,
		Date:             c.Date,
		WarehouseID:      c.WarehouseID,
		ResponsibleID:    c.ResponsibleID,
		State:            c.State,
		TolerancePercent: c.TolerancePercent,
		ToleranceUnits:   c.ToleranceUnits,
		Notes:            c.Notes,
		ClosedBy:         c.ClosedBy,
		ClosedAt:         c.ClosedAt,
		ApprovedBy:       c.ApprovedBy,
		ApprovedAt:       c.ApprovedAt,
		AdjustedAt:       c.AdjustedAt,
		Lines:            make([]dto.CountLineResponse, 0, len(c.Lines)),
	}
	for _, l := range c.Lines {
		out.Lines = append(out.Lines, dto.CountLineResponse{
			ItemID:          l.ItemID,
			CountedQuantity: l.CountedQuantity,
			SystemQuantity:  l.SystemQuantity,
			Difference:      l.Difference,
			WithinTolerance: l.WithinTolerance,
		})
	}
	return out
}
