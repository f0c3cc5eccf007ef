package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Aprobaciones-api/internal/application/dto"
	"github.com/jhoicas/Aprobaciones-api/internal/application/validation"
	"github.com/jhoicas/Aprobaciones-api/internal/application/workflow"
	"github.com/jhoicas/Aprobaciones-api/internal/domain"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/repository"
)

var maxHoursPerEntry = decimal.NewFromInt(24)

// TimeLogUseCase registro de horas por proyecto (solo inserción).
type TimeLogUseCase struct {
	repo     repository.TimeLogRepository
	projects repository.ProjectRepository
	activity workflow.ActivityRecorder
	log      zerolog.Logger
	now      func() time.Time
}

// NewTimeLogUseCase construye el caso de uso.
func NewTimeLogUseCase(repo repository.TimeLogRepository, projects repository.ProjectRepository, activity workflow.ActivityRecorder, log zerolog.Logger) *TimeLogUseCase {
	return &TimeLogUseCase{repo: repo, projects: projects, activity: activity, log: log.With().Str("component", "timelogs").Logger(), now: time.Now}
}

// Log registra horas de actor sobre un proyecto existente.
func (uc *TimeLogUseCase) Log(ctx context.Context, actor entity.Actor, in dto.TimeLogRequest) (*dto.TimeLogResponse, error) {
	if err := validation.Struct(&in); err != nil {
		return nil, err
	}
	if err := validation.Positive("hours", in.Hours); err != nil {
		return nil, err
	}
	if in.Hours.GreaterThan(maxHoursPerEntry) {
		return nil, domain.Invalid("hours", "no puede superar 24 por registro")
	}
	date, err := time.Parse(dateLayout, in.Date)
	if err != nil {
		return nil, domain.Invalid("date", "formato esperado YYYY-MM-DD")
	}
	if _, err := uc.projects.GetByID(ctx, in.ProjectID); err != nil {
		return nil, err
	}
	e := &entity.TimeLogEntry{
		ID:          uuid.New().String(),
		ProjectID:   in.ProjectID,
		UserID:      actor.ID,
		Username:    actor.Username,
		Date:        date,
		Hours:       in.Hours,
		Description: in.Description,
		CreatedAt:   uc.now(),
	}
	if err := uc.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	recordActivity(ctx, uc.activity, uc.log, actor, entity.TimeLogged{ProjectID: e.ProjectID, Hours: e.Hours.String()})
	out := ToTimeLogResponse(e)
	return &out, nil
}

// ByUser registros de un usuario, más recientes primero.
func (uc *TimeLogUseCase) ByUser(ctx context.Context, userID string, page dto.PageRequest) ([]dto.TimeLogResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByUser(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TimeLogResponse, 0, len(list))
	for _, e := range list {
		out = append(out, ToTimeLogResponse(e))
	}
	return out, nil
}
