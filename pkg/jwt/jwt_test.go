package jwt_test

import (
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/gearcash-api/pkg/jwt"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testIssuer = "gearcash-test"
)

var testSubject = pkgjwt.Subject{
	UserID: "018c8f3e-3e3e-7000-8000-000000000001",
	Email:  "admin@gearcash.com",
	Role:   "admin",
}

func newIssuer(t *testing.T, opts ...pkgjwt.Option) *pkgjwt.Issuer {
	t.Helper()
	iss, err := pkgjwt.NewIssuer(pkgjwt.Config{
		Secret:     testSecret,
		Issuer:     testIssuer,
		AccessTTL:  time.Hour,
		RefreshTTL: 7 * 24 * time.Hour,
	}, opts...)
	require.NoError(t, err)
	return iss
}

func TestNewIssuer_SecretVacio(t *testing.T) {
	_, err := pkgjwt.NewIssuer(pkgjwt.Config{})
	assert.Error(t, err)
}

func TestNewIssuer_TTLPorDefecto(t *testing.T) {
	iss, err := pkgjwt.NewIssuer(pkgjwt.Config{Secret: testSecret})
	require.NoError(t, err)
	assert.Equal(t, pkgjwt.DefaultAccessTTL, iss.AccessTTL())
}

func TestIssuer_AccessToken_Claims(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	iss := newIssuer(t, pkgjwt.WithClock(func() time.Time { return now }))

	tok, err := iss.IssueAccessToken(testSubject)
	require.NoError(t, err)

	claims, err := iss.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, testSubject.UserID, claims.UserID())
	assert.Equal(t, testSubject.Email, claims.Email)
	assert.Equal(t, testSubject.Role, claims.Role)
	assert.Equal(t, pkgjwt.TypeAccess, claims.Type)
	assert.Equal(t, testIssuer, claims.Issuer)
	assert.Equal(t, now.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, now.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestIssuer_RefreshToken_TTLSieteDias(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	iss := newIssuer(t, pkgjwt.WithClock(func() time.Time { return now }))

	tok, err := iss.IssueRefreshToken(testSubject)
	require.NoError(t, err)

	claims, err := iss.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, pkgjwt.TypeRefresh, claims.Type)
	assert.Equal(t, now.Add(7*24*time.Hour).Unix(), claims.ExpiresAt.Unix())
}

// Dos tokens emitidos en el mismo instante para el mismo usuario deben diferir.
func TestIssuer_TokensUnicos(t *testing.T) {
	now := time.Now()
	iss := newIssuer(t, pkgjwt.WithClock(func() time.Time { return now }))

	a, err := iss.IssueRefreshToken(testSubject)
	require.NoError(t, err)
	b, err := iss.IssueRefreshToken(testSubject)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestIssuer_Verify_Expirado(t *testing.T) {
	issuedAt := time.Now().Add(-2 * time.Hour)
	old := newIssuer(t, pkgjwt.WithClock(func() time.Time { return issuedAt }))
	tok, err := old.IssueAccessToken(testSubject)
	require.NoError(t, err)

	_, err = newIssuer(t).Verify(tok)
	assert.ErrorIs(t, err, pkgjwt.ErrInvalidToken)
}

func TestIssuer_Verify_SecretIncorrecto(t *testing.T) {
	tok, err := newIssuer(t).IssueAccessToken(testSubject)
	require.NoError(t, err)

	other, err := pkgjwt.NewIssuer(pkgjwt.Config{Secret: "otro-secret-completamente-distinto", Issuer: testIssuer})
	require.NoError(t, err)
	_, err = other.Verify(tok)
	assert.ErrorIs(t, err, pkgjwt.ErrInvalidToken)
}

func TestIssuer_Verify_EmisorDistinto(t *testing.T) {
	foreign, err := pkgjwt.NewIssuer(pkgjwt.Config{Secret: testSecret, Issuer: "otro-servicio"})
	require.NoError(t, err)
	tok, err := foreign.IssueAccessToken(testSubject)
	require.NoError(t, err)

	_, err = newIssuer(t).Verify(tok)
	assert.ErrorIs(t, err, pkgjwt.ErrInvalidToken)
}

func TestIssuer_Verify_Malformado(t *testing.T) {
	iss := newIssuer(t)
	for _, tok := range []string{"", "token.invalido.aqui", "abc", strings.Repeat("x", 300)} {
		_, err := iss.Verify(tok)
		assert.ErrorIs(t, err, pkgjwt.ErrInvalidToken, "token %q", tok)
	}
}

// Un token con alg "none" o firmado con otro algoritmo se rechaza.
func TestIssuer_Verify_AlgoritmoNone(t *testing.T) {
	claims := pkgjwt.Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    testIssuer,
			Subject:   testSubject.UserID,
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: "admin",
		Type: pkgjwt.TypeAccess,
	}
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, claims).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newIssuer(t).Verify(tok)
	assert.ErrorIs(t, err, pkgjwt.ErrInvalidToken)
}

func TestIssuer_Verify_SinTipo(t *testing.T) {
	claims := pkgjwt.Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    testIssuer,
			Subject:   testSubject.UserID,
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: "admin",
	}
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = newIssuer(t).Verify(tok)
	assert.ErrorIs(t, err, pkgjwt.ErrInvalidToken)
}
