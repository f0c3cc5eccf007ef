package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/Aprobaciones-api/internal/application/dto"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
)

// CostSheet datos de la hoja de costos de un proyecto.
type CostSheet struct {
	Project     *entity.Project
	Cost        dto.ProjectCostResponse
	Hours       dto.ProjectHoursResponse
	GeneratedAt time.Time
}

// CostSheetRenderer genera la hoja de costos en PDF.
type CostSheetRenderer interface {
	RenderCostSheet(ctx context.Context, sheet CostSheet) ([]byte, error)
}

// LedgerExporter exporta el libro de inventario a una hoja de cálculo.
type LedgerExporter interface {
	ExportLedger(ctx context.Context, ledger dto.LedgerResponse) ([]byte, error)
}
