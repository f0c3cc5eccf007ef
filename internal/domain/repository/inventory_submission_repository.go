package repository

import (
	"context"

	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
)

// InventorySubmissionRepository puerto de persistencia para altas de inventario.
type InventorySubmissionRepository interface {
	Create(ctx context.Context, s *entity.InventorySubmission) error
	GetByID(ctx context.Context, id string) (*entity.InventorySubmission, error)
	GetForUpdate(ctx context.Context, id string) (*entity.InventorySubmission, error)
	Update(ctx context.Context, s *entity.InventorySubmission) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, status entity.ApprovalStatus, limit, offset int) ([]*entity.InventorySubmission, error)
}
