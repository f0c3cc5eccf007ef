package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/Aprobaciones-api/internal/application/dto"
	"github.com/jhoicas/Aprobaciones-api/internal/domain"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/repository"
)

func errInvalidStatus(s string) error {
	return domain.Invalid("status", fmt.Sprintf("%q no es un estado válido", s))
}

// ProjectUseCase consultas de proyectos. Las transiciones viven en workflow.ProjectWorkflow.
type ProjectUseCase struct {
	repo repository.ProjectRepository
}

// NewProjectUseCase construye el caso de uso.
func NewProjectUseCase(repo repository.ProjectRepository) *ProjectUseCase {
	return &ProjectUseCase{repo: repo}
}

// Get proyecto con las acciones que actor puede ejecutar.
func (uc *ProjectUseCase) Get(ctx context.Context, id string, actor entity.Actor) (*dto.ProjectResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := ToProjectResponse(p, actor)
	return &out, nil
}

// List proyectos filtrados, más recientes primero.
func (uc *ProjectUseCase) List(ctx context.Context, q dto.ProjectListQuery, actor entity.Actor) (*dto.ListResponse[dto.ProjectResponse], error) {
	q.DefaultPage()
	status, err := parseStatus(q.Status)
	if err != nil {
		return nil, err
	}
	list, err := uc.repo.List(ctx, repository.ProjectFilter{Status: status, SubmittedBy: q.SubmittedBy, CostCenter: q.CostCenter}, q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProjectResponse, 0, len(list))
	for _, p := range list {
		items = append(items, ToProjectResponse(p, actor))
	}
	return &dto.ListResponse[dto.ProjectResponse]{Items: items, Page: dto.PageResponse{Limit: q.Limit, Offset: q.Offset}}, nil
}

// InvoiceUseCase consultas de facturas.
type InvoiceUseCase struct {
	repo repository.InvoiceRepository
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(repo repository.InvoiceRepository) *InvoiceUseCase {
	return &InvoiceUseCase{repo: repo}
}

// Get factura con sus líneas.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string, actor entity.Actor) (*dto.InvoiceResponse, error) {
	inv, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	lines, err := uc.repo.GetLines(ctx, id)
	if err != nil {
		return nil, err
	}
	out := ToInvoiceResponse(inv, lines, true, actor)
	return &out, nil
}

// List facturas filtradas con su total; sin detalle de líneas.
func (uc *InvoiceUseCase) List(ctx context.Context, q dto.InvoiceListQuery, actor entity.Actor) (*dto.ListResponse[dto.InvoiceResponse], error) {
	q.DefaultPage()
	status, err := parseStatus(q.Status)
	if err != nil {
		return nil, err
	}
	list, err := uc.repo.List(ctx, repository.InvoiceFilter{Status: status, SubmittedBy: q.SubmittedBy, CostCenter: q.CostCenter}, q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		lines, err := uc.repo.GetLines(ctx, inv.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, ToInvoiceResponse(inv, lines, false, actor))
	}
	return &dto.ListResponse[dto.InvoiceResponse]{Items: items, Page: dto.PageResponse{Limit: q.Limit, Offset: q.Offset}}, nil
}

// InventoryUseCase consultas de envíos de inventario y del libro.
type InventoryUseCase struct {
	ledger      repository.LedgerRepository
	submissions repository.InventorySubmissionRepository
	projects    repository.ProjectRepository
}

// NewInventoryUseCase construye el caso de uso.
func NewInventoryUseCase(ledger repository.LedgerRepository, submissions repository.InventorySubmissionRepository, projects repository.ProjectRepository) *InventoryUseCase {
	return &InventoryUseCase{ledger: ledger, submissions: submissions, projects: projects}
}

// GetSubmission envío con las acciones disponibles.
func (uc *InventoryUseCase) GetSubmission(ctx context.Context, id string, actor entity.Actor) (*dto.SubmissionResponse, error) {
	s, err := uc.submissions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := ToSubmissionResponse(s, actor)
	return &out, nil
}

// ListSubmissions envíos por estado.
func (uc *InventoryUseCase) ListSubmissions(ctx context.Context, q dto.SubmissionListQuery, actor entity.Actor) (*dto.ListResponse[dto.SubmissionResponse], error) {
	q.DefaultPage()
	status, err := parseStatus(q.Status)
	if err != nil {
		return nil, err
	}
	list, err := uc.submissions.List(ctx, status, q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SubmissionResponse, 0, len(list))
	for _, s := range list {
		items = append(items, ToSubmissionResponse(s, actor))
	}
	return &dto.ListResponse[dto.SubmissionResponse]{Items: items, Page: dto.PageResponse{Limit: q.Limit, Offset: q.Offset}}, nil
}

// Ledger libro de inventario, opcionalmente de una sola categoría.
func (uc *InventoryUseCase) Ledger(ctx context.Context, category string) (*dto.LedgerResponse, error) {
	if category != "" && !entity.ValidCategory(category) {
		return nil, domain.Invalid("category", fmt.Sprintf("%q no es una categoría válida", category))
	}
	items, err := uc.ledger.List(ctx, category)
	if err != nil {
		return nil, err
	}
	allocated, err := Allocations(ctx, uc.projects)
	if err != nil {
		return nil, err
	}
	out := BuildLedger(items, allocated)
	return &out, nil
}

// LedgerItem fila del libro por id.
func (uc *InventoryUseCase) LedgerItem(ctx context.Context, id string) (*dto.LedgerItemResponse, error) {
	it, err := uc.ledger.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	allocated, err := Allocations(ctx, uc.projects)
	if err != nil {
		return nil, err
	}
	out := ToLedgerItemResponse(it)
	out.Allocated = allocated[it.ID]
	return &out, nil
}

// inFlight estados de proyecto cuyo BOM todavía no se descontó del libro.
var inFlight = []entity.ApprovalStatus{entity.StatusPendingReview, entity.StatusPendingApproval, entity.StatusAwaitingAck}

// Allocations suma por ítem del libro las líneas Inventory de los proyectos en curso.
func Allocations(ctx context.Context, projects repository.ProjectRepository) (map[string]int64, error) {
	out := make(map[string]int64)
	for _, st := range inFlight {
		list, err := projects.List(ctx, repository.ProjectFilter{Status: st}, 0, 0)
		if err != nil {
			return nil, err
		}
		for _, p := range list {
			for id, qty := range p.InventoryDemand() {
				out[id] += qty
			}
		}
	}
	return out, nil
}
