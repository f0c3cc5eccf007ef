package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Aprobaciones-api/internal/application/dto"
	"github.com/jhoicas/Aprobaciones-api/internal/application/usecase"
	"github.com/jhoicas/Aprobaciones-api/internal/application/workflow"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/approval"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/bom"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
)

// ProjectHandler proyectos: alta, edición, transiciones, costos.
type ProjectHandler struct {
	responder
	wf      *workflow.ProjectWorkflow
	query   *usecase.ProjectUseCase
	reports *usecase.ReportUseCase
}

// NewProjectHandler construye el handler.
func NewProjectHandler(wf *workflow.ProjectWorkflow, query *usecase.ProjectUseCase, reports *usecase.ReportUseCase, r responder) *ProjectHandler {
	return &ProjectHandler{responder: r, wf: wf, query: query, reports: reports}
}

func (h *ProjectHandler) input(c *fiber.Ctx) (workflow.ProjectInput, error) {
	var req dto.ProjectRequest
	if err := parseBody(c, &req); err != nil {
		return workflow.ProjectInput{}, err
	}
	in := workflow.ProjectInput{
		Name:       req.Name,
		CostCenter: req.CostCenter,
		Details:    req.Details,
		BOM:        req.BOM,
		Timeline:   req.Timeline,
		Team:       req.Team,
		Approvers:  req.Approvers,
	}
	var err error
	if in.DetailsFile, err = attachment(c, "details_file"); err != nil {
		return in, err
	}
	if in.CostingFile, err = attachment(c, "costing_file"); err != nil {
		return in, err
	}
	return in, nil
}

// Create godoc
// @Summary      Registrar proyecto
// @Tags         projects
// @Security     Bearer
// @Accept       json,mpfd
// @Produce      json
// @Param        body          body      dto.ProjectRequest  true   "name, cost_center, details, bom, timeline, team"
// @Param        details_file  formData  file                false  "detalle (multipart, con el JSON en data)"
// @Param        costing_file  formData  file                false  "costeo (multipart)"
// @Success      201   {object}  dto.ProjectResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/projects [post]
func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	in, err := h.input(c)
	if err != nil {
		return h.fail(c, err)
	}
	actor := GetActor(c)
	p, msgs, err := h.wf.Create(c.UserContext(), actor, in)
	if err != nil {
		return h.fail(c, err)
	}
	out := usecase.ToProjectResponse(p, actor)
	out.Messages = msgs
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Edit godoc
// @Summary      Editar proyecto (autor o revisor)
// @Tags         projects
// @Security     Bearer
// @Accept       json,mpfd
// @Produce      json
// @Param        id    path  string              true  "id del proyecto"
// @Param        body  body  dto.ProjectRequest  true  "proyecto completo"
// @Success      200   {object}  dto.ProjectResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/projects/{id} [put]
func (h *ProjectHandler) Edit(c *fiber.Ctx) error {
	in, err := h.input(c)
	if err != nil {
		return h.fail(c, err)
	}
	actor := GetActor(c)
	p, msgs, err := h.wf.Edit(c.UserContext(), c.Params("id"), actor, in)
	if err != nil {
		return h.fail(c, err)
	}
	out := usecase.ToProjectResponse(p, actor)
	out.Messages = msgs
	return c.JSON(out)
}

// Plan godoc
// @Summary      Previsualizar el BOM partido según el stock
// @Tags         projects
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PlanRequest  true  "bom"
// @Success      200   {object}  dto.PlanResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/projects/plan [post]
func (h *ProjectHandler) Plan(c *fiber.Ctx) error {
	var req dto.PlanRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	res, err := h.wf.Plan(c.UserContext(), req.BOM)
	if err != nil {
		return h.fail(c, err)
	}
	costs := bom.CostOf(res.Items)
	return c.JSON(dto.PlanResponse{
		BOM:      res.Items,
		Messages: res.Messages,
		Cost:     dto.CostBreakdown{Inventory: costs.Inventory, Purchase: costs.Purchase, Total: costs.Total()},
	})
}

// Transition godoc
// @Summary      Enviar a aprobación, aprobar, rechazar o dar conformidad
// @Tags         projects
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "id del proyecto"
// @Success      200   {object}  dto.ProjectResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/projects/{id}/submit [post]
// @Router       /api/projects/{id}/approve [post]
// @Router       /api/projects/{id}/reject [post]
// @Router       /api/projects/{id}/acknowledge [post]
func (h *ProjectHandler) Transition(action approval.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := GetActor(c)
		id := c.Params("id")
		var (
			p   *entity.Project
			err error
		)
		if action == approval.ActionAcknowledge {
			p, err = h.wf.Acknowledge(c.UserContext(), id, actor)
		} else {
			p, err = h.wf.Transition(c.UserContext(), id, action, actor)
		}
		if err != nil {
			return h.fail(c, err)
		}
		return c.JSON(usecase.ToProjectResponse(p, actor))
	}
}

// Delete godoc
// @Summary      Eliminar proyecto
// @Tags         projects
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "id del proyecto"
// @Success      204
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/projects/{id} [delete]
func (h *ProjectHandler) Delete(c *fiber.Ctx) error {
	if err := h.wf.Delete(c.UserContext(), c.Params("id"), GetActor(c)); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetByID godoc
// @Summary      Detalle de un proyecto
// @Tags         projects
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "id del proyecto"
// @Success      200   {object}  dto.ProjectResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/projects/{id} [get]
func (h *ProjectHandler) GetByID(c *fiber.Ctx) error {
	p, err := h.query.Get(c.UserContext(), c.Params("id"), GetActor(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(p)
}

// List godoc
// @Summary      Listar proyectos
// @Tags         projects
// @Security     Bearer
// @Produce      json
// @Param        status        query  string  false  "estado"
// @Param        submitted_by  query  string  false  "autor"
// @Param        cost_center   query  string  false  "centro de costo"
// @Param        limit         query  int     false  "máximo 200"
// @Param        offset        query  int     false  "desplazamiento"
// @Success      200   {object}  dto.ListResponse[dto.ProjectResponse]
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/projects [get]
func (h *ProjectHandler) List(c *fiber.Ctx) error {
	var q dto.ProjectListQuery
	if err := c.QueryParser(&q); err != nil {
		return badRequest(c, "INVALID_QUERY", "parámetros inválidos")
	}
	out, err := h.query.List(c.UserContext(), q, GetActor(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Cost godoc
// @Summary      Costo del proyecto (BOM y facturas aprobadas)
// @Tags         projects
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "id del proyecto"
// @Success      200   {object}  dto.ProjectCostResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/projects/{id}/cost [get]
func (h *ProjectHandler) Cost(c *fiber.Ctx) error {
	out, err := h.reports.ProjectCost(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Hours godoc
// @Summary      Horas registradas en el proyecto
// @Tags         projects
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "id del proyecto"
// @Success      200   {object}  dto.ProjectHoursResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/projects/{id}/hours [get]
func (h *ProjectHandler) Hours(c *fiber.Ctx) error {
	out, err := h.reports.ProjectHours(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// CostSheet godoc
// @Summary      Hoja de costos en PDF
// @Tags         projects
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "id del proyecto"
// @Success      200   {file}  file
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/projects/{id}/cost-sheet.pdf [get]
func (h *ProjectHandler) CostSheet(c *fiber.Ctx) error {
	id := c.Params("id")
	data, err := h.reports.CostSheetPDF(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return sendFile(c, "application/pdf", "hoja_costos_"+id+".pdf", data)
}
