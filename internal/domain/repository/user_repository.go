package repository

import (
	"context"

	"github.com/jhoicas/gearcash-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Las búsquedas devuelven (nil, nil) cuando el usuario no existe.
type UserRepository interface {
	// Create persiste un usuario nuevo. Devuelve domain.ErrEmailAlreadyExists si el email ya existe.
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// Update aplica un patch y devuelve el usuario actualizado, o domain.ErrNotFound.
	Update(ctx context.Context, id string, patch entity.UserPatch) (*entity.User, error)
	// UpdateRefreshToken sobrescribe el refresh token guardado; nil lo revoca.
	UpdateRefreshToken(ctx context.Context, id string, token *string) error
	// RotateRefreshToken reemplaza current por next solo si current sigue siendo el guardado.
	// Devuelve false si otro proceso ya lo rotó o revocó.
	RotateRefreshToken(ctx context.Context, id, current, next string) (bool, error)
	Count(ctx context.Context) (int64, error)
}
