// Package memory implementa los puertos de persistencia en memoria de proceso.
// Se usa con APP_STORE=memory en desarrollo local y en tests; los datos se pierden al reiniciar.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/gearcash-api/internal/domain"
	"github.com/jhoicas/gearcash-api/internal/domain/entity"
	"github.com/jhoicas/gearcash-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo almacén de usuarios protegido por mutex. Email único, sensible a mayúsculas.
type UserRepo struct {
	mu      sync.RWMutex
	byID    map[string]*entity.User
	byEmail map[string]string
	now     func() time.Time
}

// NewUserRepository construye un almacén vacío.
func NewUserRepository() *UserRepo {
	return &UserRepo{
		byID:    make(map[string]*entity.User),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[user.Email]; ok {
		return domain.ErrEmailAlreadyExists
	}
	r.byID[user.ID] = clone(user)
	r.byEmail[user.Email] = user.ID
	return nil
}

// FindByID obtiene un usuario por ID.
func (r *UserRepo) FindByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return clone(r.byID[id]), nil
}

// FindByEmail obtiene un usuario por email.
func (r *UserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	return clone(r.byID[id]), nil
}

// Update aplica el patch.
func (r *UserRepo) Update(_ context.Context, id string, patch entity.UserPatch) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	patch.Apply(u, r.now())
	return clone(u), nil
}

// UpdateRefreshToken sobrescribe (o revoca con nil) el refresh token.
func (r *UserRepo) UpdateRefreshToken(_ context.Context, id string, token *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil
	}
	u.RefreshToken = copyString(token)
	u.UpdatedAt = r.now()
	return nil
}

// RotateRefreshToken reemplaza current por next solo si current sigue guardado.
func (r *UserRepo) RotateRefreshToken(_ context.Context, id, current, next string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok || u.RefreshToken == nil || *u.RefreshToken != current {
		return false, nil
	}
	u.RefreshToken = &next
	u.UpdatedAt = r.now()
	return true, nil
}

// Count devuelve el total de usuarios.
func (r *UserRepo) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.byID)), nil
}

func clone(u *entity.User) *entity.User {
	if u == nil {
		return nil
	}
	c := *u
	c.RefreshToken = copyString(u.RefreshToken)
	return &c
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
