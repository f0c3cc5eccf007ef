// Package auth registro y login de usuarios.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Aprobaciones-api/internal/application/dto"
	"github.com/jhoicas/Aprobaciones-api/internal/application/validation"
	"github.com/jhoicas/Aprobaciones-api/internal/application/workflow"
	"github.com/jhoicas/Aprobaciones-api/internal/domain"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/repository"
	"github.com/jhoicas/Aprobaciones-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	userRepo        repository.UserRepository
	activity        workflow.ActivityRecorder
	jwtCfg          JWTConfig
	superAdminEmail string
	log             zerolog.Logger
	now             func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth. La cuenta con superAdminEmail
// siempre opera como Super Admin.
func NewAuthUseCase(userRepo repository.UserRepository, activity workflow.ActivityRecorder, jwtCfg JWTConfig, superAdminEmail string, log zerolog.Logger) *AuthUseCase {
	return &AuthUseCase{
		userRepo:        userRepo,
		activity:        activity,
		jwtCfg:          jwtCfg,
		superAdminEmail: strings.ToLower(strings.TrimSpace(superAdminEmail)),
		log:             log.With().Str("component", "auth").Logger(),
		now:             time.Now,
	}
}

func (uc *AuthUseCase) isSuperAdminEmail(email string) bool {
	return uc.superAdminEmail != "" && strings.EqualFold(strings.TrimSpace(email), uc.superAdminEmail)
}

// RegisterUser crea un usuario con password bcrypt. Rol por defecto Logger; Super Admin
// solo se asigna por el email configurado.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	if err := validation.Struct(&in); err != nil {
		return nil, err
	}
	role := in.Role
	switch {
	case uc.isSuperAdminEmail(in.Email):
		role = entity.RoleSuperAdmin
	case role == entity.RoleSuperAdmin:
		return nil, domain.Invalid("role", "no se puede solicitar "+entity.RoleSuperAdmin)
	case role == "":
		role = entity.RoleLogger
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: string(hash),
		Role:         role,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.record(ctx, user, entity.UserRegistered{Role: role})
	return ToUserResponse(user), nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := validation.Struct(&in); err != nil {
		return nil, err
	}
	user, err := uc.userRepo.GetByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if user.Status != entity.UserStatusActive {
		return nil, domain.ErrForbidden
	}
	if uc.isSuperAdminEmail(user.Email) && user.Role != entity.RoleSuperAdmin {
		user.Role = entity.RoleSuperAdmin
		user.UpdatedAt = uc.now()
		if err := uc.userRepo.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("promover super admin: %w", err)
		}
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Username, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	uc.record(ctx, user, entity.UserLogin{})
	return &dto.LoginResponse{
		Token: token,
		User:  *ToUserResponse(user),
	}, nil
}

// El registro de actividad no bloquea el registro ni el login.
func (uc *AuthUseCase) record(ctx context.Context, user *entity.User, details entity.ActivityDetails) {
	if uc.activity == nil {
		return
	}
	if err := uc.activity.Record(ctx, entity.ActorOf(user), details); err != nil {
		uc.log.Error().Err(err).
			Str("action", string(details.Action())).
			Str("user_id", user.ID).
			Msg("no se pudo registrar la actividad")
	}
}

// ToUserResponse convierte la entidad en DTO sin el hash.
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
