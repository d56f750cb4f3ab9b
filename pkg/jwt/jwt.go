// Package jwt emite y valida los tokens de acceso y de renovación (HS256).
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TTL por defecto.
const (
	DefaultAccessTTL  = time.Hour
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// TokenType distingue el propósito del token.
type TokenType string

const (
	TypeAccess  TokenType = "access"
	TypeRefresh TokenType = "refresh"
)

// ErrInvalidToken firma incorrecta, payload malformado o expiración: el motivo no se expone.
var ErrInvalidToken = errors.New("jwt: token inválido")

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// Se añade Role para que el middleware RBAC pueda tomar decisiones sin consultar la DB.
type Claims struct {
	jwt.RegisteredClaims
	Email string    `json:"email"`
	Role  string    `json:"role"` // "admin" | "supervisor" | "seller"
	Type  TokenType `json:"typ"`
}

// UserID devuelve el subject (id del usuario).
func (c *Claims) UserID() string { return c.Subject }

// Subject identidad para la que se emite un token.
type Subject struct {
	UserID string
	Email  string
	Role   string
}

// Config configuración del emisor.
type Config struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Issuer firma y valida tokens. Inmutable tras construirse; seguro para uso concurrente.
type Issuer struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// Option ajustes opcionales del Issuer.
type Option func(*Issuer)

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) { i.now = now }
}

// NewIssuer construye el emisor. El secret es obligatorio; TTL en cero usan los valores por defecto.
func NewIssuer(cfg Config, opts ...Option) (*Issuer, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	i := &Issuer{
		secret:     []byte(cfg.Secret),
		issuer:     cfg.Issuer,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        time.Now,
	}
	if i.accessTTL <= 0 {
		i.accessTTL = DefaultAccessTTL
	}
	if i.refreshTTL <= 0 {
		i.refreshTTL = DefaultRefreshTTL
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// AccessTTL vida útil del token de acceso.
func (i *Issuer) AccessTTL() time.Duration { return i.accessTTL }

// IssueAccessToken emite un token de acceso de vida corta.
func (i *Issuer) IssueAccessToken(sub Subject) (string, error) {
	return i.issue(sub, TypeAccess, i.accessTTL)
}

// IssueRefreshToken emite un token de renovación de vida larga.
func (i *Issuer) IssueRefreshToken(sub Subject) (string, error) {
	return i.issue(sub, TypeRefresh, i.refreshTTL)
}

func (i *Issuer) issue(sub Subject, typ TokenType, ttl time.Duration) (string, error) {
	now := i.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   sub.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			// jti aleatorio: dos tokens emitidos en el mismo segundo nunca son iguales.
			ID: uuid.NewString(),
		},
		Email: sub.Email,
		Role:  sub.Role,
		Type:  typ,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("jwt: firmar token: %w", err)
	}
	return signed, nil
}

// Verify valida firma, algoritmo, emisor y expiración y devuelve los claims.
// Cualquier fallo se reporta como ErrInvalidToken.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	}
	if i.issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, opts...)
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	switch claims.Type {
	case TypeAccess, TypeRefresh:
	default:
		return nil, ErrInvalidToken
	}
	return claims, nil
}
