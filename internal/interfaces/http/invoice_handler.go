package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Aprobaciones-api/internal/application/dto"
	"github.com/jhoicas/Aprobaciones-api/internal/application/usecase"
	"github.com/jhoicas/Aprobaciones-api/internal/application/workflow"
	"github.com/jhoicas/Aprobaciones-api/internal/domain"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/approval"
)

// InvoiceHandler facturas de compra y sus transiciones (protegido).
type InvoiceHandler struct {
	responder
	wf    *workflow.InvoiceWorkflow
	query *usecase.InvoiceUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(wf *workflow.InvoiceWorkflow, query *usecase.InvoiceUseCase, r responder) *InvoiceHandler {
	return &InvoiceHandler{responder: r, wf: wf, query: query}
}

func toInvoiceInput(req dto.InvoiceRequest) (workflow.InvoiceInput, error) {
	in := workflow.InvoiceInput{Vendor: req.Vendor, CostCenter: req.CostCenter}
	if req.Date != "" {
		d, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return in, domain.Invalid("date", "formato esperado YYYY-MM-DD")
		}
		in.Date = d
	}
	in.Lines = make([]workflow.InvoiceLineInput, 0, len(req.Lines))
	for _, l := range req.Lines {
		in.Lines = append(in.Lines, workflow.InvoiceLineInput{
			ItemName:        l.ItemName,
			Category:        l.Category,
			InventoryItemID: l.InventoryItemID,
			Quantity:        l.Quantity,
			PricePerUnit:    l.PricePerUnit,
			PurchaseFor:     l.PurchaseFor,
			CostCenter:      l.CostCenter,
		})
	}
	return in, nil
}

// Create godoc
// @Summary      Registrar factura de compra (reserva las unidades de sus líneas)
// @Tags         invoices
// @Security     Bearer
// @Accept       json,mpfd
// @Produce      json
// @Param        body      body      dto.InvoiceRequest  true   "vendor, date, cost_center, lines"
// @Param        document  formData  file                false  "factura escaneada (multipart, con el JSON en data)"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var req dto.InvoiceRequest
	if err := parseBody(c, &req); err != nil {
		return h.fail(c, err)
	}
	in, err := toInvoiceInput(req)
	if err != nil {
		return h.fail(c, err)
	}
	if in.Document, err = attachment(c, "document"); err != nil {
		return h.fail(c, err)
	}
	actor := GetActor(c)
	inv, lines, err := h.wf.Submit(c.UserContext(), actor, in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(usecase.ToInvoiceResponse(inv, lines, true, actor))
}

// GetByID godoc
// @Summary      Detalle de una factura con sus líneas
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "id de la factura"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.query.Get(c.UserContext(), c.Params("id"), GetActor(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar facturas
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        status        query  string  false  "estado"
// @Param        submitted_by  query  string  false  "autor"
// @Param        cost_center   query  string  false  "centro de costo"
// @Success      200   {object}  dto.ListResponse[dto.InvoiceResponse]
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var q dto.InvoiceListQuery
	if err := c.QueryParser(&q); err != nil {
		return badRequest(c, "INVALID_QUERY", "parámetros inválidos")
	}
	out, err := h.query.List(c.UserContext(), q, GetActor(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Transition godoc
// @Summary      Enviar a aprobación, aprobar o rechazar una factura
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "id de la factura"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/submit [post]
// @Router       /api/invoices/{id}/approve [post]
// @Router       /api/invoices/{id}/reject [post]
func (h *InvoiceHandler) Transition(action approval.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := GetActor(c)
		id := c.Params("id")
		if _, err := h.wf.Transition(c.UserContext(), id, action, actor); err != nil {
			return h.fail(c, err)
		}
		out, err := h.query.Get(c.UserContext(), id, actor)
		if err != nil {
			return h.fail(c, err)
		}
		return c.JSON(out)
	}
}

// Delete godoc
// @Summary      Eliminar una factura (libera o revierte las unidades)
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "id de la factura"
// @Success      204
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.wf.Delete(c.UserContext(), c.Params("id"), GetActor(c)); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
