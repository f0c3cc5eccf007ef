package repository

import (
	"context"

	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
)

// TimeLogRepository registro de horas; solo inserción.
type TimeLogRepository interface {
	Create(ctx context.Context, e *entity.TimeLogEntry) error
	ListByProject(ctx context.Context, projectID string) ([]*entity.TimeLogEntry, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.TimeLogEntry, error)
}
