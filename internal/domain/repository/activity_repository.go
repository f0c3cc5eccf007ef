package repository

import (
	"context"

	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
)

// ActivityRepository registro de actividad; solo inserción.
type ActivityRepository interface {
	Append(ctx context.Context, e *entity.ActivityEntry) error
	List(ctx context.Context, limit, offset int) ([]*entity.ActivityEntry, error)
}
