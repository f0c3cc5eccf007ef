package repository

import (
	"context"

	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
)

// ProjectFilter filtros opcionales de listado.
type ProjectFilter struct {
	Status      entity.ApprovalStatus
	SubmittedBy string
	CostCenter  string
}

// ProjectRepository puerto de persistencia para Project (BOM, cronograma y equipo incluidos).
type ProjectRepository interface {
	Create(ctx context.Context, p *entity.Project) error
	GetByID(ctx context.Context, id string) (*entity.Project, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Project, error)
	Update(ctx context.Context, p *entity.Project) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ProjectFilter, limit, offset int) ([]*entity.Project, error)
}
