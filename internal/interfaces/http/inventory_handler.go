package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Aprobaciones-api/internal/application/dto"
	"github.com/jhoicas/Aprobaciones-api/internal/application/usecase"
	"github.com/jhoicas/Aprobaciones-api/internal/application/workflow"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/approval"
)

// InventoryHandler altas de inventario y consulta del libro (protegido).
type InventoryHandler struct {
	responder
	wf      *workflow.InventoryWorkflow
	query   *usecase.InventoryUseCase
	reports *usecase.ReportUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(wf *workflow.InventoryWorkflow, query *usecase.InventoryUseCase, reports *usecase.ReportUseCase, r responder) *InventoryHandler {
	return &InventoryHandler{responder: r, wf: wf, query: query, reports: reports}
}

// Submit godoc
// @Summary      Registrar alta de inventario (reserva las unidades)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubmissionRequest  true  "name, category, quantity, price"
// @Success      201   {object}  dto.SubmissionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/inventory/submissions [post]
func (h *InventoryHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	actor := GetActor(c)
	s, err := h.wf.Submit(c.UserContext(), actor, workflow.SubmissionInput{
		Name:     req.Name,
		Category: req.Category,
		Quantity: req.Quantity,
		Price:    req.Price,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(usecase.ToSubmissionResponse(s, actor))
}

// GetSubmission godoc
// @Summary      Detalle de un alta de inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "id del alta"
// @Success      200   {object}  dto.SubmissionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/submissions/{id} [get]
func (h *InventoryHandler) GetSubmission(c *fiber.Ctx) error {
	out, err := h.query.GetSubmission(c.UserContext(), c.Params("id"), GetActor(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// ListSubmissions godoc
// @Summary      Listar altas de inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "estado"
// @Param        limit   query  int     false  "máximo 200"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200   {object}  dto.ListResponse[dto.SubmissionResponse]
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/submissions [get]
func (h *InventoryHandler) ListSubmissions(c *fiber.Ctx) error {
	var q dto.SubmissionListQuery
	if err := c.QueryParser(&q); err != nil {
		return badRequest(c, "INVALID_QUERY", "parámetros inválidos")
	}
	out, err := h.query.ListSubmissions(c.UserContext(), q, GetActor(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Transition godoc
// @Summary      Enviar a aprobación, aprobar o rechazar un alta
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "id del alta"
// @Success      200   {object}  dto.SubmissionResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/submissions/{id}/submit [post]
// @Router       /api/inventory/submissions/{id}/approve [post]
// @Router       /api/inventory/submissions/{id}/reject [post]
func (h *InventoryHandler) Transition(action approval.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := GetActor(c)
		s, err := h.wf.Transition(c.UserContext(), c.Params("id"), action, actor)
		if err != nil {
			return h.fail(c, err)
		}
		return c.JSON(usecase.ToSubmissionResponse(s, actor))
	}
}

// Delete godoc
// @Summary      Eliminar un alta (libera o revierte las unidades)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "id del alta"
// @Success      204
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/submissions/{id} [delete]
func (h *InventoryHandler) Delete(c *fiber.Ctx) error {
	if err := h.wf.Delete(c.UserContext(), c.Params("id"), GetActor(c)); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Ledger godoc
// @Summary      Libro de inventario con totales
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        category  query  string  false  "categoría"
// @Success      200   {object}  dto.LedgerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/ledger [get]
func (h *InventoryHandler) Ledger(c *fiber.Ctx) error {
	out, err := h.query.Ledger(c.UserContext(), c.Query("category"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// LedgerItem godoc
// @Summary      Fila del libro de inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "id de la fila"
// @Success      200   {object}  dto.LedgerItemResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/ledger/{id} [get]
func (h *InventoryHandler) LedgerItem(c *fiber.Ctx) error {
	out, err := h.query.LedgerItem(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// LedgerExport godoc
// @Summary      Exportar el libro de inventario a Excel
// @Tags         inventory
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        category  query  string  false  "categoría"
// @Success      200   {file}  file
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/ledger/export.xlsx [get]
func (h *InventoryHandler) LedgerExport(c *fiber.Ctx) error {
	data, err := h.reports.LedgerXLSX(c.UserContext(), c.Query("category"))
	if err != nil {
		return h.fail(c, err)
	}
	return sendFile(c, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "inventario.xlsx", data)
}
