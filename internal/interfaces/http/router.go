package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/gearcash-api/internal/application/auth"
	"github.com/jhoicas/gearcash-api/internal/domain/entity"
	"github.com/jhoicas/gearcash-api/pkg/logger"
)

const healthTimeout = 2 * time.Second

// Pinger comprueba que el almacenamiento responde (pgxpool.Pool lo cumple).
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	Verifier    TokenVerifier
	Log         *logger.Logger
	ServiceName string
	Store       Pinger // opcional: sin él /health no consulta el almacenamiento
}

// AuthRoutes tabla de acceso de las rutas de auth (prefijo /api/auth).
var AuthRoutes = struct {
	Setup, Register, Login, Refresh, Me, Logout, UpdateUser Route
}{
	Setup:      Route{Method: fiber.MethodPost, Path: "/setup", Public: true},
	Register:   Route{Method: fiber.MethodPost, Path: "/register", Roles: []entity.Role{entity.RoleAdmin}},
	Login:      Route{Method: fiber.MethodPost, Path: "/login", Public: true},
	Refresh:    Route{Method: fiber.MethodPost, Path: "/refresh", Public: true},
	Me:         Route{Method: fiber.MethodGet, Path: "/me"},
	Logout:     Route{Method: fiber.MethodPost, Path: "/logout"},
	UpdateUser: Route{Method: fiber.MethodPatch, Path: "/users/:id", Roles: []entity.Role{entity.RoleAdmin}},
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	app.Use(RequestLogger(log))
	app.Get("/health", healthHandler(deps))

	access := NewAccessControl(deps.Verifier)
	authHandler := NewAuthHandler(deps.AuthUC, log)
	authGroup := app.Group("/api/auth")

	r := AuthRoutes
	for _, rt := range []struct {
		route   Route
		handler fiber.Handler
	}{
		{r.Setup, authHandler.Setup},
		{r.Register, authHandler.Register},
		{r.Login, authHandler.Login},
		{r.Refresh, authHandler.Refresh},
		{r.Me, authHandler.Me},
		{r.Logout, authHandler.Logout},
		{r.UpdateUser, authHandler.UpdateUser},
	} {
		authGroup.Add(rt.route.Method, rt.route.Path, access.Guard(rt.route), rt.handler)
	}
}

func healthHandler(deps RouterDeps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Store != nil {
			ctx, cancel := context.WithTimeout(c.Context(), healthTimeout)
			defer cancel()
			if err := deps.Store.Ping(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "service": deps.ServiceName})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	}
}
