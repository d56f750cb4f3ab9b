package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/gearcash-api/internal/application/dto"
	"github.com/jhoicas/gearcash-api/internal/domain"
	"github.com/jhoicas/gearcash-api/internal/domain/entity"
	"github.com/jhoicas/gearcash-api/pkg/jwt"
)

// Locals keys para los datos del token en Fiber.
const (
	LocalUserID = "user_id"
	LocalRole   = "role"
	LocalClaims = "claims"
)

// TokenVerifier valida un token firmado. Lo implementa *jwt.Issuer.
type TokenVerifier interface {
	Verify(token string) (*jwt.Claims, error)
}

// Route configuración de acceso de una ruta. Roles vacío = cualquier usuario autenticado.
type Route struct {
	Method string
	Path   string
	Public bool
	Roles  []entity.Role
}

// AccessControl decide, por ruta, si una petición puede pasar al handler.
type AccessControl struct {
	verifier TokenVerifier
}

// NewAccessControl construye el control de acceso.
func NewAccessControl(verifier TokenVerifier) *AccessControl {
	return &AccessControl{verifier: verifier}
}

// Authorize aplica la regla de la ruta al header Authorization.
// Ruta pública: (nil, nil). Sin token, token inválido o que no es de acceso: ErrUnauthenticated.
// Rol fuera de los permitidos: ErrForbidden junto con los claims ya verificados.
func (a *AccessControl) Authorize(route Route, authHeader string) (*jwt.Claims, error) {
	if route.Public {
		return nil, nil
	}
	claims, err := a.authenticate(authHeader)
	if err != nil {
		return nil, err
	}
	if !roleAllowed(claims.Role, route.Roles) {
		return claims, domain.ErrForbidden
	}
	return claims, nil
}

// Guard middleware Fiber que aplica Authorize antes del handler y guarda los claims en Locals.
func (a *AccessControl) Guard(route Route) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := a.Authorize(route, c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return accessError(c, err)
		}
		if claims != nil {
			setClaims(c, claims)
		}
		return c.Next()
	}
}

func (a *AccessControl) authenticate(authHeader string) (*jwt.Claims, error) {
	tokenString, ok := bearerToken(authHeader)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	claims, err := a.verifier.Verify(tokenString)
	if err != nil || claims.Type != jwt.TypeAccess {
		return nil, domain.ErrUnauthenticated
	}
	return claims, nil
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetRole devuelve el rol del contexto.
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}

// GetClaims devuelve los claims verificados, o nil en rutas públicas.
func GetClaims(c *fiber.Ctx) *jwt.Claims {
	claims, _ := c.Locals(LocalClaims).(*jwt.Claims)
	return claims
}

func setClaims(c *fiber.Ctx, claims *jwt.Claims) {
	c.Locals(LocalUserID, claims.UserID())
	c.Locals(LocalRole, claims.Role)
	c.Locals(LocalClaims, claims)
}

func bearerToken(authHeader string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(authHeader), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func roleAllowed(role string, roles []entity.Role) bool {
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if string(r) == role {
			return true
		}
	}
	return false
}

func accessError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrForbidden) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "no tiene permisos para este recurso"})
	}
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token ausente, inválido o expirado"})
}
