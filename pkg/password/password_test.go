package password_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/gearcash-api/pkg/password"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := password.NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("1qaSW@3edFR$")
	require.NoError(t, err)
	assert.NotEqual(t, "1qaSW@3edFR$", hash, "el hash nunca es el texto plano")

	assert.True(t, h.Verify("1qaSW@3edFR$", hash))
	assert.False(t, h.Verify("1qaSW@3edFR#", hash))
	assert.False(t, h.Verify("", hash))
}

// El mismo texto produce hashes distintos (sal aleatoria), ambos verificables.
func TestBcryptHasher_SalAleatoria(t *testing.T) {
	h := password.NewBcryptHasher(bcrypt.MinCost)
	a, err := h.Hash("Secreto#123")
	require.NoError(t, err)
	b, err := h.Hash("Secreto#123")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, h.Verify("Secreto#123", a))
	assert.True(t, h.Verify("Secreto#123", b))
}

// El costo queda embebido en el hash: otro hasher con distinto costo verifica igual.
func TestBcryptHasher_CostoEmbebido(t *testing.T) {
	hash, err := password.NewBcryptHasher(bcrypt.MinCost).Hash("Secreto#123")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
	assert.True(t, password.NewBcryptHasher(password.DefaultCost).Verify("Secreto#123", hash))
}

func TestNewBcryptHasher_CostoInvalidoUsaDefault(t *testing.T) {
	assert.Equal(t, password.DefaultCost, password.NewBcryptHasher(0).Cost())
	assert.Equal(t, password.DefaultCost, password.NewBcryptHasher(99).Cost())
	assert.Equal(t, 12, password.NewBcryptHasher(12).Cost())
}

func TestBcryptHasher_Limites(t *testing.T) {
	h := password.NewBcryptHasher(bcrypt.MinCost)

	_, err := h.Hash(strings.Repeat("a", 73))
	assert.ErrorIs(t, err, password.ErrPasswordTooLong)

	assert.False(t, h.Verify("x", "no-es-un-hash"), "hash malformado no debe coincidir")
}
