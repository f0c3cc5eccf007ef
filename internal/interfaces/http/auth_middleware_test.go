package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
	apphttp "github.com/jhoicas/Aprobaciones-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Aprobaciones-api/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testUsername  = "alice"
	testIssuer    = "aprobaciones-test"
	testExpMin    = 60
)

// buildTestApp app mínima: AuthMiddleware + RequireRole + handler que responde 200.
func buildTestApp(allowedRoles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"ok": true, "role": apphttp.GetRole(c)})
		},
	)
	return app
}

func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testUsername, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestRequireRole_SuperAdminAccede(t *testing.T) {
	app := buildTestApp(entity.RoleSuperAdmin)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleSuperAdmin))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, entity.RoleSuperAdmin, body["role"])
}

func TestRequireRole_MultiRol(t *testing.T) {
	app := buildTestApp(entity.RoleChecker, entity.RoleAuthorizer)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleAuthorizer))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_LoggerBloqueado(t *testing.T) {
	app := buildTestApp(entity.RoleSuperAdmin)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleLogger))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestRequireRole_TokenSinRol_Retorna401(t *testing.T) {
	app := buildTestApp(entity.RoleSuperAdmin)
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testUsername, "", testIssuer, testExpMin)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE")
}

func TestAuthMiddleware_SinToken_Retorna401(t *testing.T) {
	resp := doRequest(t, buildTestApp(entity.RoleLogger), "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	resp := doRequest(t, buildTestApp(entity.RoleLogger), "Bearer token.invalido.aqui")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenEnQuery(t *testing.T) {
	app := buildTestApp(entity.RoleChecker)
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testUsername, entity.RoleChecker, testIssuer, testExpMin)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected?access_token="+tok, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthMiddleware_ExtraeActor(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		a := apphttp.GetActor(c)
		return c.JSON(fiber.Map{"id": a.ID, "username": a.Username, "role": a.Role})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenForRole(t, entity.RoleChecker))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["id"])
	assert.Equal(t, testUsername, body["username"])
	assert.Equal(t, entity.RoleChecker, body["role"])
}
