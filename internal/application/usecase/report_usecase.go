package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Aprobaciones-api/internal/application/dto"
	"github.com/jhoicas/Aprobaciones-api/internal/domain"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/bom"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/repository"
)

// ReportUseCase costo consolidado de proyectos, horas y exportaciones.
type ReportUseCase struct {
	projects repository.ProjectRepository
	invoices repository.InvoiceRepository
	timeLogs repository.TimeLogRepository
	ledger   repository.LedgerRepository
	pdf      CostSheetRenderer
	xlsx     LedgerExporter
	now      func() time.Time
}

// NewReportUseCase construye el caso de uso; pdf y xlsx pueden ser nil si no se exporta.
func NewReportUseCase(
	projects repository.ProjectRepository,
	invoices repository.InvoiceRepository,
	timeLogs repository.TimeLogRepository,
	ledger repository.LedgerRepository,
	pdf CostSheetRenderer,
	xlsx LedgerExporter,
) *ReportUseCase {
	return &ReportUseCase{
		projects: projects,
		invoices: invoices,
		timeLogs: timeLogs,
		ledger:   ledger,
		pdf:      pdf,
		xlsx:     xlsx,
		now:      time.Now,
	}
}

// ProjectCost costo del BOM por origen más lo facturado y aprobado con destino
// Project en el centro de costo del proyecto. Las horas se informan aparte.
func (uc *ReportUseCase) ProjectCost(ctx context.Context, projectID string) (*dto.ProjectCostResponse, error) {
	p, err := uc.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return uc.projectCost(ctx, p)
}

func (uc *ReportUseCase) projectCost(ctx context.Context, p *entity.Project) (*dto.ProjectCostResponse, error) {
	costs := bom.CostOf(p.BOM)
	out := &dto.ProjectCostResponse{
		ProjectID:   p.ID,
		ProjectName: p.Name,
		CostCenter:  p.CostCenter,
		Status:      string(p.Status),
		BOM: dto.CostBreakdown{
			Inventory: costs.Inventory,
			Purchase:  costs.Purchase,
			Total:     costs.Total(),
		},
		InvoicedTotal: decimal.Zero,
		Hours:         decimal.Zero,
	}
	invoices, err := uc.invoices.List(ctx, repository.InvoiceFilter{Status: entity.StatusApproved}, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("facturas aprobadas: %w", err)
	}
	for _, inv := range invoices {
		lines, err := uc.invoices.GetLines(ctx, inv.ID)
		if err != nil {
			return nil, fmt.Errorf("líneas de %s: %w", inv.ID, err)
		}
		for _, l := range lines {
			if l.PurchaseFor != entity.PurchaseForProject || l.CostCenter != p.CostCenter {
				continue
			}
			out.InvoicedTotal = out.InvoicedTotal.Add(l.TotalCost())
			out.InvoiceLines++
		}
	}
	logs, err := uc.timeLogs.ListByProject(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("horas de %s: %w", p.ID, err)
	}
	for _, e := range logs {
		out.Hours = out.Hours.Add(e.Hours)
	}
	out.Total = out.BOM.Total.Add(out.InvoicedTotal)
	return out, nil
}

// ProjectHours horas totales y por usuario de un proyecto.
func (uc *ReportUseCase) ProjectHours(ctx context.Context, projectID string) (*dto.ProjectHoursResponse, error) {
	if _, err := uc.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	logs, err := uc.timeLogs.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	out := &dto.ProjectHoursResponse{
		ProjectID:  projectID,
		TotalHours: decimal.Zero,
		ByUser:     []dto.HoursByUser{},
		Entries:    make([]dto.TimeLogResponse, 0, len(logs)),
	}
	byUser := make(map[string]decimal.Decimal)
	for _, e := range logs {
		out.TotalHours = out.TotalHours.Add(e.Hours)
		byUser[e.Username] = byUser[e.Username].Add(e.Hours)
		out.Entries = append(out.Entries, ToTimeLogResponse(e))
	}
	for name, h := range byUser {
		out.ByUser = append(out.ByUser, dto.HoursByUser{Username: name, Hours: h})
	}
	sort.Slice(out.ByUser, func(i, j int) bool { return out.ByUser[i].Username < out.ByUser[j].Username })
	return out, nil
}

// CostSheetPDF hoja de costos del proyecto en PDF.
func (uc *ReportUseCase) CostSheetPDF(ctx context.Context, projectID string) ([]byte, error) {
	if uc.pdf == nil {
		return nil, fmt.Errorf("%w: exportación PDF no configurada", domain.ErrInvalidInput)
	}
	p, err := uc.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	cost, err := uc.projectCost(ctx, p)
	if err != nil {
		return nil, err
	}
	hours, err := uc.ProjectHours(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return uc.pdf.RenderCostSheet(ctx, CostSheet{Project: p, Cost: *cost, Hours: *hours, GeneratedAt: uc.now()})
}

// LedgerXLSX libro de inventario en XLSX.
func (uc *ReportUseCase) LedgerXLSX(ctx context.Context, category string) ([]byte, error) {
	if uc.xlsx == nil {
		return nil, fmt.Errorf("%w: exportación XLSX no configurada", domain.ErrInvalidInput)
	}
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
	return uc.xlsx.ExportLedger(ctx, BuildLedger(items, allocated))
}
