package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Inventario-costeo/internal/application/auth"
	"github.com/jhoicas/Inventario-costeo/internal/application/dto"
	"github.com/jhoicas/Inventario-costeo/internal/application/inventory"
	"github.com/jhoicas/Inventario-costeo/internal/application/planning"
	"github.com/jhoicas/Inventario-costeo/internal/domain/entity"
)

// ReportsHandler lotes por vencer, alertas de stock y requerimientos del plan de menú (protegido).
type ReportsHandler struct {
	lots     *inventory.LotTracker
	alerts   *inventory.StockAlertsUseCase
	planning *planning.RequirementsUseCase
	authz    auth.Authorizer
}

// NewReportsHandler construye el handler.
func NewReportsHandler(
	lots *inventory.LotTracker,
	alerts *inventory.StockAlertsUseCase,
	planningUC *planning.RequirementsUseCase,
	authz auth.Authorizer,
) *ReportsHandler {
	return &ReportsHandler{lots: lots, alerts: alerts, planning: planningUC, authz: authz}
}

// warehouseFilter lee warehouse_id y verifica acceso. Sin filtro, un usuario con almacenes
// asignados solo ve los suyos (se filtra la salida).
func (h *ReportsHandler) warehouseFilter(c *fiber.Ctx) (*string, bool) {
	wh := optionalQuery(c, "warehouse_id")
	if wh != nil && !auth.CanSeeWarehouse(h.authz, GetPrincipal(c), *wh) {
		return nil, false
	}
	return wh, true
}

func (h *ReportsHandler) visible(c *fiber.Ctx, warehouseID string) bool {
	return auth.CanSeeWarehouse(h.authz, GetPrincipal(c), warehouseID)
}

// ExpiringLots godoc
// @Summary      Lotes que vencen dentro de N días
// @Tags         reports
// @Security     Bearer
// @Param        days          query  int     false  "Días"  default(7)
// @Param        warehouse_id  query  string  false  "Filtrar por almacén"
// @Success      200  {array}  dto.LotResponse
// @Router       /api/reports/lots/expiring [get]
func (h *ReportsHandler) ExpiringLots(c *fiber.Ctx) error {
	wh, ok := h.warehouseFilter(c)
	if !ok {
		return forbidden(c)
	}
	list, err := h.lots.ExpiringWithin(c.UserContext(), c.QueryInt("days", 7), wh)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"items": toLotList(h.filterLots(c, list))})
}

// ExpiredLots godoc
// @Summary      Lotes vencidos con cantidad
// @Tags         reports
// @Security     Bearer
// @Router       /api/reports/lots/expired [get]
func (h *ReportsHandler) ExpiredLots(c *fiber.Ctx) error {
	wh, ok := h.warehouseFilter(c)
	if !ok {
		return forbidden(c)
	}
	list, err := h.lots.Expired(c.UserContext(), wh)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"items": toLotList(h.filterLots(c, list))})
}

func (h *ReportsHandler) filterLots(c *fiber.Ctx, list []*entity.Lot) []*entity.Lot {
	out := list[:0]
	for _, l := range list {
		if h.visible(c, l.WarehouseID) {
			out = append(out, l)
		}
	}
	return out
}

// BelowMinimum godoc
// @Summary      Stocks por debajo del mínimo
// @Tags         reports
// @Security     Bearer
// @Success      200  {array}  dto.StockAlertDTO
// @Router       /api/reports/stock/below-minimum [get]
func (h *ReportsHandler) BelowMinimum(c *fiber.Ctx) error {
	wh, ok := h.warehouseFilter(c)
	if !ok {
		return forbidden(c)
	}
	list, err := h.alerts.BelowMinimum(c.UserContext(), wh)
	if err != nil {
		return writeError(c, err)
	}
	list = h.filterAlerts(c, list)
	return c.JSON(fiber.Map{"total": len(list), "items": list})
}

// AboveMaximum godoc
// @Summary      Stocks por encima del máximo
// @Tags         reports
// @Security     Bearer
// @Success      200  {array}  dto.StockAlertDTO
// @Router       /api/reports/stock/above-maximum [get]
func (h *ReportsHandler) AboveMaximum(c *fiber.Ctx) error {
	wh, ok := h.warehouseFilter(c)
	if !ok {
		return forbidden(c)
	}
	list, err := h.alerts.AboveMaximum(c.UserContext(), wh)
	if err != nil {
		return writeError(c, err)
	}
	list = h.filterAlerts(c, list)
	return c.JSON(fiber.Map{"total": len(list), "items": list})
}

func (h *ReportsHandler) filterAlerts(c *fiber.Ctx, list []dto.StockAlertDTO) []dto.StockAlertDTO {
	out := list[:0]
	for _, a := range list {
		if h.visible(c, a.WarehouseID) {
			out = append(out, a)
		}
	}
	return out
}

// Requirements godoc
// @Summary      Requerimientos de insumos para un plan de menú
// @Tags         planning
// @Security     Bearer
// @Param        body  body  dto.RequirementsRequest  true  "platos y porciones; warehouse_id opcional"
// @Success      200  {array}  dto.RequirementDTO
// @Router       /api/planning/requirements [post]
func (h *ReportsHandler) Requirements(c *fiber.Ctx) error {
	var in dto.RequirementsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.WarehouseID != nil && !h.visible(c, *in.WarehouseID) {
		return forbidden(c)
	}
	plan := entity.MenuPlan{WarehouseID: in.WarehouseID}
	for _, it := range in.Items {
		plan.Items = append(plan.Items, entity.MenuPlanItem{DishID: it.DishID, PlannedPortions: it.PlannedPortions})
	}
	out, err := h.planning.Calculate(c.UserContext(), plan)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"items": out})
}
