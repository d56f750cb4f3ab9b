package dto

import "time"

// SetupAdminRequest entrada para crear el primer administrador del sistema.
// Sin validate tags: el caso de uso valida después de comprobar que no hay usuarios.
type SetupAdminRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// RegisterRequest entrada para registro (solo admin). Role es opcional: por defecto seller.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,strong_password"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Role     string `json:"role" validate:"omitempty,oneof=admin supervisor seller"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest entrada para renovar el par de tokens.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// UpdateUserRequest actualización parcial de un usuario (solo admin).
type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=200"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin supervisor seller"`
	IsActive *bool   `json:"isActive"`
}

// UserSummary datos del usuario incluidos en la respuesta de login/refresh.
type UserSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// TokenResponse par de tokens + resumen del usuario.
type TokenResponse struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	User         UserSummary `json:"user"`
}

// UserResponse salida de un usuario (sin password ni refresh token).
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreatedResponse id del recurso creado.
type CreatedResponse struct {
	ID string `json:"id"`
}

// MeResponse datos del usuario autenticado, tomados del token.
type MeResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// MessageResponse respuesta con un mensaje simple.
type MessageResponse struct {
	Message string `json:"message"`
}
