package entity

import "time"

// Role rol de un usuario dentro del sistema.
type Role string

// Roles válidos para User.
const (
	RoleAdmin      Role = "admin"
	RoleSupervisor Role = "supervisor"
	RoleSeller     Role = "seller"
)

// Valid indica si r es uno de los roles conocidos.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSupervisor, RoleSeller:
		return true
	}
	return false
}

// User representa un usuario del sistema.
type User struct {
	ID           string // UUIDv7, ordenable por tiempo
	Email        string
	PasswordHash string  // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         Role
	IsActive     bool
	RefreshToken *string // último refresh token emitido; nil si fue revocado
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserPatch actualización parcial de un usuario. Los campos nil no se modifican.
type UserPatch struct {
	Name     *string
	Role     *Role
	IsActive *bool
}

// Empty indica si el patch no modifica nada.
func (p UserPatch) Empty() bool {
	return p.Name == nil && p.Role == nil && p.IsActive == nil
}

// Apply aplica el patch sobre u y actualiza UpdatedAt.
func (p UserPatch) Apply(u *User, now time.Time) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
	u.UpdatedAt = now
}
