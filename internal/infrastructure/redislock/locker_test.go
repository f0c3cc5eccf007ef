package redislock

import (
	"errors"
	"testing"

	"github.com/bsm/redislock"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Aprobaciones-api/internal/domain"
)

func TestObtainError(t *testing.T) {
	err := obtainError("project:p1", redislock.ErrNotObtained)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Contains(t, err.Error(), "project:p1")

	down := errors.New("dial tcp: connection refused")
	err = obtainError("project:p1", down)
	assert.ErrorIs(t, err, down)
	assert.NotErrorIs(t, err, domain.ErrInvalidState)
}
