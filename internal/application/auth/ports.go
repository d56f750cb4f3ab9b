package auth

import (
	"context"

	"github.com/jhoicas/gearcash-api/internal/domain/repository"
	"github.com/jhoicas/gearcash-api/pkg/jwt"
)

// TokenIssuer emite y valida los tokens firmados. Lo implementa *jwt.Issuer.
type TokenIssuer interface {
	IssueAccessToken(sub jwt.Subject) (string, error)
	IssueRefreshToken(sub jwt.Subject) (string, error)
	Verify(token string) (*jwt.Claims, error)
}

// UserTxRunner ejecuta fn con acceso exclusivo a la tabla de usuarios.
// Lo usa el setup del primer admin para que el conteo y el alta sean atómicos.
type UserTxRunner interface {
	RunLocked(ctx context.Context, fn func(users repository.UserRepository) error) error
}
