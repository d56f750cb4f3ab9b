package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// InvalidCredentials e InvalidRefreshToken agrupan varias causas a propósito:
// el cliente no debe poder distinguir "no existe" de "contraseña incorrecta".
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidCredentials  = errors.New("credenciales inválidas")
	ErrEmailAlreadyExists  = errors.New("el email ya está registrado")
	ErrSetupNotAllowed     = errors.New("el sistema ya tiene usuarios registrados")
	ErrInvalidRefreshToken = errors.New("refresh token inválido o expirado")
	ErrUnauthenticated     = errors.New("no autenticado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrValidation          = errors.New("entrada inválida")
)
