package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Inventario-costeo/internal/application/auth"
	"github.com/jhoicas/Inventario-costeo/internal/application/dto"
	"github.com/jhoicas/Inventario-costeo/internal/application/inventory"
	"github.com/jhoicas/Inventario-costeo/internal/domain/entity"
)

// InventoryHandler movimientos del libro de inventario y consultas de stock (protegido).
type InventoryHandler struct {
	recorder  *inventory.MovementRecorder
	query     *inventory.LedgerQueryUseCase
	purchases *inventory.PurchaseDocumentProcessor
	authz     auth.Authorizer
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	recorder *inventory.MovementRecorder,
	query *inventory.LedgerQueryUseCase,
	purchases *inventory.PurchaseDocumentProcessor,
	authz auth.Authorizer,
) *InventoryHandler {
	return &InventoryHandler{recorder: recorder, query: query, purchases: purchases, authz: authz}
}

// canSee verifica que el usuario tenga acceso a todos los almacenes indicados.
func (h *InventoryHandler) canSee(c *fiber.Ctx, warehouseIDs ...string) bool {
	p := GetPrincipal(c)
	for _, id := range warehouseIDs {
		if !auth.CanSeeWarehouse(h.authz, p, id) {
			return false
		}
	}
	return true
}

func meta(c *fiber.Ctx, reason, reference string, date *time.Time) inventory.MovementMeta {
	return inventory.MovementMeta{UserID: GetUserID(c), Reason: reason, Reference: reference, Date: date}
}

// Purchase godoc
// @Summary      Registrar entrada por compra
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PurchaseRequest  true  "item_id, warehouse_id, quantity, unit_cost"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/purchases [post]
func (h *InventoryHandler) Purchase(c *fiber.Ctx) error {
	var in dto.PurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if !h.canSee(c, in.WarehouseID) {
		return forbidden(c)
	}
	mov, err := h.recorder.RecordPurchase(c.UserContext(), inventory.PurchaseInput{
		ItemID:      in.ItemID,
		WarehouseID: in.WarehouseID,
		Quantity:    in.Quantity,
		UnitCost:    in.UnitCost,
		LotNumber:   in.LotNumber,
		ExpiryDate:  in.ExpiryDate,
		Meta:        meta(c, in.Reason, in.Reference, in.Date),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
}

// Adjustment godoc
// @Summary      Registrar ajuste de inventario (cantidad con signo)
// @Tags         inventory
// @Security     Bearer
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) Adjustment(c *fiber.Ctx) error {
	var in dto.AdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if !h.canSee(c, in.WarehouseID) {
		return forbidden(c)
	}
	mov, err := h.recorder.RecordAdjustment(c.UserContext(), inventory.AdjustmentInput{
		ItemID:      in.ItemID,
		WarehouseID: in.WarehouseID,
		Quantity:    in.Quantity,
		Kind:        in.Type,
		Meta:        meta(c, in.Reason, in.Reference, in.Date),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
}

// Transfer godoc
// @Summary      Traspaso entre almacenes
// @Tags         inventory
// @Security     Bearer
// @Success      201   {object}  dto.TransferResponse
// @Router       /api/inventory/transfers [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if !h.canSee(c, in.FromWarehouseID, in.ToWarehouseID) {
		return forbidden(c)
	}
	out, inMov, err := h.recorder.RecordTransfer(c.UserContext(), inventory.TransferInput{
		ItemID:          in.ItemID,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		Quantity:        in.Quantity,
		Meta:            meta(c, in.Reason, in.Reference, in.Date),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TransferResponse{
		Out: toMovementResponse(out),
		In:  toMovementResponse(inMov),
	})
}

// Consumption godoc
// @Summary      Consumo de insumos por producción de un plato
// @Tags         inventory
// @Security     Bearer
// @Router       /api/inventory/consumptions [post]
func (h *InventoryHandler) Consumption(c *fiber.Ctx) error {
	var in dto.ConsumptionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if !h.canSee(c, in.WarehouseID) {
		return forbidden(c)
	}
	movs, err := h.recorder.RecordRecipeConsumption(c.UserContext(), inventory.ConsumptionInput{
		DishID:        in.DishID,
		WarehouseID:   in.WarehouseID,
		UnitsProduced: in.UnitsProduced,
		Meta:          meta(c, in.Reason, in.Reference, in.Date),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"movements": toMovementList(movs)})
}

// Waste godoc
// @Summary      Registrar merma (cantidad negativa, motivo obligatorio)
// @Tags         inventory
// @Security     Bearer
// @Router       /api/inventory/waste [post]
func (h *InventoryHandler) Waste(c *fiber.Ctx) error {
	var in dto.WasteRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if !h.canSee(c, in.WarehouseID) {
		return forbidden(c)
	}
	mov, err := h.recorder.RecordWaste(c.UserContext(), inventory.WasteInput{
		ItemID:      in.ItemID,
		WarehouseID: in.WarehouseID,
		Quantity:    in.Quantity,
		Meta:        meta(c, in.Reason, in.Reference, in.Date),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
}

// RegisterPurchaseDocument godoc
// @Summary      Registrar documento de compra pendiente
// @Tags         inventory
// @Security     Bearer
// @Router       /api/inventory/purchase-documents [post]
func (h *InventoryHandler) RegisterPurchaseDocument(c *fiber.Ctx) error {
	var in dto.PurchaseDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Number == "" || in.ItemID == "" || in.WarehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "number, item_id y warehouse_id son requeridos"})
	}
	if !h.canSee(c, in.WarehouseID) {
		return forbidden(c)
	}
	doc := &entity.PurchaseDocument{
		Number:      in.Number,
		ItemID:      in.ItemID,
		WarehouseID: in.WarehouseID,
		Quantity:    in.Quantity,
		UnitCost:    in.UnitCost,
		LotNumber:   in.LotNumber,
		ExpiryDate:  in.ExpiryDate,
	}
	if err := h.purchases.Register(c.UserContext(), doc); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": doc.ID, "number": doc.Number})
}

// ProcessPurchaseDocument godoc
// @Summary      Procesar documento de compra (idempotente)
// @Tags         inventory
// @Security     Bearer
// @Param        id   path  string  true  "ID del documento"
// @Router       /api/inventory/purchase-documents/{id}/process [post]
func (h *InventoryHandler) ProcessPurchaseDocument(c *fiber.Ctx) error {
	mov, err := h.purchases.Process(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toMovementResponse(mov))
}

// StockByWarehouse godoc
// @Summary      Stock de un almacén
// @Tags         inventory
// @Security     Bearer
// @Router       /api/inventory/stock/warehouses/{id} [get]
func (h *InventoryHandler) StockByWarehouse(c *fiber.Ctx) error {
	id := c.Params("id")
	if !h.canSee(c, id) {
		return forbidden(c)
	}
	list, err := h.query.StockByWarehouse(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"items": toStockList(list)})
}

// StockByItem godoc
// @Summary      Stock de un insumo en los almacenes visibles
// @Tags         inventory
// @Security     Bearer
// @Router       /api/inventory/stock/items/{id} [get]
func (h *InventoryHandler) StockByItem(c *fiber.Ctx) error {
	list, err := h.query.StockByItem(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	visible := list[:0]
	for _, s := range list {
		if h.canSee(c, s.WarehouseID) {
			visible = append(visible, s)
		}
	}
	return c.JSON(fiber.Map{"items": toStockList(visible)})
}

// MovementsByItem godoc
// @Summary      Kardex de un insumo
// @Tags         inventory
// @Security     Bearer
// @Param        from    query  string  false  "Desde (YYYY-MM-DD o RFC3339)"
// @Param        to      query  string  false  "Hasta (YYYY-MM-DD o RFC3339)"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Router       /api/inventory/movements/items/{id} [get]
func (h *InventoryHandler) MovementsByItem(c *fiber.Ctx) error {
	from, to, page, err := movementFilters(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	list, err := h.query.MovementsByItem(c.UserContext(), c.Params("id"), from, to, page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	visible := list[:0]
	for _, m := range list {
		if h.canSee(c, m.WarehouseID) {
			visible = append(visible, m)
		}
	}
	return c.JSON(fiber.Map{"items": toMovementList(visible), "page": dto.PageResponse{Limit: page.Limit, Offset: page.Offset}})
}

// MovementsByWarehouse godoc
// @Summary      Movimientos de un almacén
// @Tags         inventory
// @Security     Bearer
// @Router       /api/inventory/movements/warehouses/{id} [get]
func (h *InventoryHandler) MovementsByWarehouse(c *fiber.Ctx) error {
	id := c.Params("id")
	if !h.canSee(c, id) {
		return forbidden(c)
	}
	from, to, page, err := movementFilters(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	list, err := h.query.MovementsByWarehouse(c.UserContext(), id, from, to, page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"items": toMovementList(list), "page": dto.PageResponse{Limit: page.Limit, Offset: page.Offset}})
}

func movementFilters(c *fiber.Ctx) (from, to *time.Time, page dto.PageRequest, err error) {
	if from, err = parseDateQuery(c, "from", false); err != nil {
		return
	}
	if to, err = parseDateQuery(c, "to", true); err != nil {
		return
	}
	page = pageFromQuery(c)
	return
}
