// Package activity registro y consulta del log de actividad.
package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/repository"
)

// UseCase implementa workflow.ActivityRecorder y el listado del log.
type UseCase struct {
	repo repository.ActivityRepository
	now  func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.ActivityRepository) *UseCase {
	return &UseCase{repo: repo, now: time.Now}
}

// Record agrega una entrada inmutable.
func (uc *UseCase) Record(ctx context.Context, actor entity.Actor, details entity.ActivityDetails) error {
	if details == nil {
		return fmt.Errorf("actividad sin detalles")
	}
	e := &entity.ActivityEntry{
		ID:        uuid.New().String(),
		Timestamp: uc.now(),
		ActorID:   actor.ID,
		ActorName: actor.Username,
		Details:   details,
	}
	if err := uc.repo.Append(ctx, e); err != nil {
		return fmt.Errorf("registrar actividad %s: %w", details.Action(), err)
	}
	return nil
}

// List entradas más recientes primero.
func (uc *UseCase) List(ctx context.Context, limit, offset int) ([]*entity.ActivityEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return uc.repo.List(ctx, limit, offset)
}
