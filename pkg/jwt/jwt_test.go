package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/pkg/jwt"
)

func TestGenerateParse_IdaYVuelta(t *testing.T) {
	tok, err := jwt.Generate("secreto", "u-1", jwt.RoleBodeguero, "ventas-api", 5)
	require.NoError(t, err)

	userID, role, err := jwt.Parse("secreto", tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
	assert.Equal(t, jwt.RoleBodeguero, role)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := jwt.Generate("secreto", "u-1", jwt.RoleAdmin, "ventas-api", 5)
	require.NoError(t, err)

	_, _, err = jwt.Parse("otro", tok)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := jwt.Generate("secreto", "u-1", jwt.RoleAdmin, "ventas-api", -1)
	require.NoError(t, err)

	_, _, err = jwt.Parse("secreto", tok)
	assert.Error(t, err)
}

func TestSecretoVacio(t *testing.T) {
	_, err := jwt.Generate("", "u-1", jwt.RoleAdmin, "ventas-api", 5)
	assert.ErrorIs(t, err, jwt.ErrEmptySecret)

	_, _, err = jwt.Parse("", "x")
	assert.ErrorIs(t, err, jwt.ErrEmptySecret)
}
