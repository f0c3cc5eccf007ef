package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Aprobaciones-api/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.StorePostgres, cfg.App.Store)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 10*time.Second, cfg.Redis.LockTTL)
	assert.Equal(t, "notifications", cfg.NATS.SubjectPrefix)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("APP_STORE", "Memory")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("LOCK_TTL_SECONDS", "3")
	t.Setenv("SUPER_ADMIN_EMAIL", "Root@Example.com")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.StoreMemory, cfg.App.Store)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.Equal(t, 3*time.Second, cfg.Redis.LockTTL)
	assert.Equal(t, "root@example.com", cfg.Auth.SuperAdminEmail)
}

func TestLoad_RejectsUnknownStore(t *testing.T) {
	t.Setenv("APP_STORE", "mongo")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapesPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "x", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/x?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://u@h/d"
	assert.Equal(t, "postgres://u@h/d", c.ConnectionString())
}
