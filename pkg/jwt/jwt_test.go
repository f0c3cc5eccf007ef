package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Aprobaciones-api/pkg/jwt"
)

func TestGenerateAndParse(t *testing.T) {
	tok, err := jwt.Generate("s3cret", "u-1", "bob", "Checker", "aprobaciones", 5)
	require.NoError(t, err)

	c, err := jwt.Parse("s3cret", tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", c.UserID)
	assert.Equal(t, "bob", c.Username)
	assert.Equal(t, "Checker", c.Role)
	assert.Equal(t, "aprobaciones", c.Issuer)
}

func TestParse_Rejects(t *testing.T) {
	tok, err := jwt.Generate("s3cret", "u-1", "bob", "Checker", "x", 5)
	require.NoError(t, err)

	_, err = jwt.Parse("otro", tok)
	assert.Error(t, err)

	expired, err := jwt.Generate("s3cret", "u-1", "bob", "Checker", "x", -1)
	require.NoError(t, err)
	_, err = jwt.Parse("s3cret", expired)
	assert.Error(t, err)

	_, err = jwt.Generate("", "u-1", "bob", "Checker", "x", 5)
	assert.Error(t, err)
}
