package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Aprobaciones-api/internal/application/auth"
	"github.com/jhoicas/Aprobaciones-api/internal/application/dto"
	"github.com/jhoicas/Aprobaciones-api/internal/application/validation"
	"github.com/jhoicas/Aprobaciones-api/internal/application/workflow"
	"github.com/jhoicas/Aprobaciones-api/internal/domain"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/repository"
)

// UserUseCase aplica reglas de negocio para usuarios.
type UserUseCase struct {
	repo     repository.UserRepository
	activity workflow.ActivityRecorder
	log      zerolog.Logger
	now      func() time.Time
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, activity workflow.ActivityRecorder, log zerolog.Logger) *UserUseCase {
	return &UserUseCase{repo: repo, activity: activity, log: log.With().Str("component", "users").Logger(), now: time.Now}
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return auth.ToUserResponse(user), nil
}

// List usuarios ordenados por username. Solo Super Admin.
func (uc *UserUseCase) List(ctx context.Context, actor entity.Actor, page dto.PageRequest) ([]dto.UserResponse, error) {
	if actor.Role != entity.RoleSuperAdmin {
		return nil, domain.ErrForbidden
	}
	page.DefaultPage()
	users, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *auth.ToUserResponse(u))
	}
	return out, nil
}

// ChangeRole asigna un rol a otro usuario. Solo Super Admin; no aplica sobre sí mismo.
func (uc *UserUseCase) ChangeRole(ctx context.Context, actor entity.Actor, userID string, in dto.ChangeRoleRequest) (*dto.UserResponse, error) {
	if actor.Role != entity.RoleSuperAdmin {
		return nil, domain.ErrForbidden
	}
	if err := validation.Struct(&in); err != nil {
		return nil, err
	}
	if userID == actor.ID {
		return nil, domain.Invalid("user_id", "no puede cambiar su propio rol")
	}
	user, err := uc.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role == in.Role {
		return auth.ToUserResponse(user), nil
	}
	from := user.Role
	user.Role = in.Role
	user.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	recordActivity(ctx, uc.activity, uc.log, actor, entity.RoleChanged{UserID: user.ID, Username: user.Username, From: from, To: in.Role})
	return auth.ToUserResponse(user), nil
}
