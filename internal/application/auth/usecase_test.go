package auth_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Aprobaciones-api/internal/application/activity"
	"github.com/jhoicas/Aprobaciones-api/internal/application/auth"
	"github.com/jhoicas/Aprobaciones-api/internal/application/dto"
	"github.com/jhoicas/Aprobaciones-api/internal/domain"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
	"github.com/jhoicas/Aprobaciones-api/internal/infrastructure/memory"
	"github.com/jhoicas/Aprobaciones-api/pkg/jwt"
)

const secret = "test-secret"

func newAuth(t *testing.T) (*auth.AuthUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore(nil)
	uc := auth.NewAuthUseCase(store.Users(), activity.NewUseCase(store.Activity()),
		auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "aprobaciones-test"}, "Boss@Example.com", zerolog.Nop())
	return uc, store
}

func TestRegisterUser_DefaultsToLogger(t *testing.T) {
	uc, store := newAuth(t)
	ctx := context.Background()

	u, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "ana@example.com", Username: "ana", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleLogger, u.Role)
	assert.Equal(t, entity.UserStatusActive, u.Status)

	saved, err := store.Users().GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secreto123", saved.PasswordHash)

	entries, err := store.Activity().List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.ActionUserRegistered, entries[0].Details.Action())
}

// invalidField comprueba que err es de validación y señala field.
func invalidField(t *testing.T, err error, field string) {
	t.Helper()
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, field, verr.Field)
}

func TestRegisterUser_Rules(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()

	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "x@example.com", Username: "xx", Password: "secreto123", Role: entity.RoleSuperAdmin})
	invalidField(t, err, "role")
	assert.Contains(t, err.Error(), "no se puede solicitar")

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "x@example.com", Username: "xx", Password: "secreto123", Role: "Admin"})
	invalidField(t, err, "registerrequest.role")

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "no-es-email", Username: "xx", Password: "secreto123"})
	invalidField(t, err, "registerrequest.email")

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "x@example.com", Username: "xx", Password: "corta"})
	invalidField(t, err, "registerrequest.password")

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "x@example.com", Username: "x", Password: "secreto123"})
	invalidField(t, err, "registerrequest.username")

	u, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "x@example.com", Username: "xx", Password: "secreto123", Role: entity.RoleChecker})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleChecker, u.Role)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "X@example.com", Username: "yy", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	boss, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "boss@example.com", Username: "boss", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleSuperAdmin, boss.Role)
}

func TestLogin(t *testing.T) {
	uc, store := newAuth(t)
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "ana@example.com", Username: "ana", Password: "secreto123", Role: entity.RoleChecker})
	require.NoError(t, err)

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "secreto123"})
	require.NoError(t, err)
	claims, err := jwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, claims.UserID)
	assert.Equal(t, "ana", claims.Username)
	assert.Equal(t, entity.RoleChecker, claims.Role)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@example.com", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	u, err := store.Users().GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	u.Status = entity.UserStatusInactive
	require.NoError(t, store.Users().Update(ctx, u))
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestLogin_PromotesConfiguredSuperAdmin(t *testing.T) {
	uc, store := newAuth(t)
	ctx := context.Background()
	plain := auth.NewAuthUseCase(store.Users(), nil, auth.JWTConfig{Secret: secret, ExpMinutes: 5}, "", zerolog.Nop())
	_, err := plain.RegisterUser(ctx, dto.RegisterRequest{Email: "boss@example.com", Username: "boss", Password: "secreto123"})
	require.NoError(t, err)

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "boss@example.com", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleSuperAdmin, out.User.Role)

	saved, err := store.Users().GetByEmail(ctx, "boss@example.com")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleSuperAdmin, saved.Role)
}

type failingRecorder struct{}

func (failingRecorder) Record(context.Context, entity.Actor, entity.ActivityDetails) error {
	return errors.New("activity store caído")
}

func TestRegisterAndLogin_ActivityFailureIsLogged(t *testing.T) {
	store := memory.NewStore(nil)
	var buf bytes.Buffer
	uc := auth.NewAuthUseCase(store.Users(), failingRecorder{}, auth.JWTConfig{Secret: secret, ExpMinutes: 5}, "", zerolog.New(&buf))
	ctx := context.Background()

	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "ana@example.com", Username: "ana", Password: "secreto123"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), string(entity.ActionUserRegistered))

	buf.Reset()
	out, err := uc.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "secreto123"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	assert.Contains(t, buf.String(), string(entity.ActionUserLogin))
	assert.Contains(t, buf.String(), "activity store caído")
}
