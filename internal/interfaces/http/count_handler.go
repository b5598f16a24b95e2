package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Inventario-costeo/internal/application/count"
	"github.com/jhoicas/Inventario-costeo/internal/application/dto"
)

// CountHandler conteos físicos: líneas, cierre, aprobación, ajustes y planillas (protegido).
type CountHandler struct {
	workflow *count.Workflow
	sheets   *count.SheetUseCase
}

// NewCountHandler construye el handler.
func NewCountHandler(workflow *count.Workflow, sheets *count.SheetUseCase) *CountHandler {
	return &CountHandler{workflow: workflow, sheets: sheets}
}

// Create godoc
// @Summary      Abrir conteo físico en borrador
// @Tags         counts
// @Security     Bearer
// @Param        body  body  dto.CreateCountRequest  true  "warehouse_id, tolerancias"
// @Success      201   {object}  dto.CountResponse
// @Router       /api/counts [post]
func (h *CountHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCountRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.workflow.Create(c.UserContext(), GetPrincipal(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toCountResponse(out))
}

// GetByID godoc
// @Summary      Obtener conteo con sus líneas
// @Tags         counts
// @Security     Bearer
// @Router       /api/counts/{id} [get]
func (h *CountHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.workflow.Get(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toCountResponse(out))
}

// SetLine godoc
// @Summary      Registrar cantidad contada de un insumo (solo borrador)
// @Tags         counts
// @Security     Bearer
// @Router       /api/counts/{id}/lines [put]
func (h *CountHandler) SetLine(c *fiber.Ctx) error {
	var in dto.CountLineRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	p := GetPrincipal(c)
	id := c.Params("id")
	if err := h.workflow.SetLine(c.UserContext(), p, id, in.ItemID, in.CountedQuantity); err != nil {
		return writeError(c, err)
	}
	out, err := h.workflow.Get(c.UserContext(), p, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toCountResponse(out))
}

// RemoveLine godoc
// @Summary      Quitar línea del conteo (solo borrador)
// @Tags         counts
// @Security     Bearer
// @Router       /api/counts/{id}/lines/{itemId} [delete]
func (h *CountHandler) RemoveLine(c *fiber.Ctx) error {
	if err := h.workflow.RemoveLine(c.UserContext(), GetPrincipal(c), c.Params("id"), c.Params("itemId")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Reconcile godoc
// @Summary      Conciliar sin ajustar (snapshot de sistema y diferencias)
// @Tags         counts
// @Security     Bearer
// @Router       /api/counts/{id}/reconcile [post]
func (h *CountHandler) Reconcile(c *fiber.Ctx) error {
	res, err := h.workflow.Preview(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toCountResponse(res.Count))
}

// ChangeState godoc
// @Summary      Cambiar estado del conteo (closed, pending_approval, draft)
// @Tags         counts
// @Security     Bearer
// @Param        body  body  dto.ChangeCountStateRequest  true  "estado destino"
// @Router       /api/counts/{id}/state [patch]
func (h *CountHandler) ChangeState(c *fiber.Ctx) error {
	var in dto.ChangeCountStateRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.workflow.ChangeState(c.UserContext(), GetPrincipal(c), c.Params("id"), in.State)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toCountResponse(out))
}

// ApplyAdjustments godoc
// @Summary      Aplicar ajustes de un conteo cerrado
// @Tags         counts
// @Security     Bearer
// @Router       /api/counts/{id}/adjustments [post]
func (h *CountHandler) ApplyAdjustments(c *fiber.Ctx) error {
	res, err := h.workflow.ApplyAdjustments(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"count":       toCountResponse(res.Count),
		"adjustments": toMovementList(res.Adjustments),
	})
}

// ImportSheet godoc
// @Summary      Cargar planilla de conteo (XLSX o CSV: item_id, counted_quantity)
// @Tags         counts
// @Security     Bearer
// @Accept       multipart/form-data
// @Param        file  formData  file  true  "planilla"
// @Success      200   {object}  dto.ImportResult
// @Router       /api/counts/{id}/sheet [post]
func (h *CountHandler) ImportSheet(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "campo file requerido"})
	}
	f, err := fh.Open()
	if err != nil {
		return badBody(c)
	}
	defer f.Close()
	res, err := h.sheets.Import(c.UserContext(), GetPrincipal(c), c.Params("id"), fh.Filename, f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// ExportSheet godoc
// @Summary      Descargar planilla/conciliación en PDF
// @Tags         counts
// @Security     Bearer
// @Produce      application/pdf
// @Router       /api/counts/{id}/sheet.pdf [get]
func (h *CountHandler) ExportSheet(c *fiber.Ctx) error {
	id := c.Params("id")
	pdf, err := h.sheets.Export(c.UserContext(), GetPrincipal(c), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="conteo-`+id+`.pdf"`)
	return c.Send(pdf)
}
