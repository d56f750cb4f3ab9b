// setup_admin crea el primer administrador desde la terminal, sin pasar por HTTP.
//
// Uso: go run ./cmd/setup_admin -email admin@empresa.com -name "Administrador" [-password ...]
// Si -password se omite se lee de SETUP_ADMIN_PASSWORD (evita dejarla en el historial del shell).
// Usa la misma configuración que la API (APP_STORE, DATABASE_URL, BCRYPT_COST, ...).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/gearcash-api/internal/application/auth"
	"github.com/jhoicas/gearcash-api/internal/application/dto"
	"github.com/jhoicas/gearcash-api/internal/domain"
	"github.com/jhoicas/gearcash-api/internal/infrastructure/store"
	"github.com/jhoicas/gearcash-api/pkg/config"
	"github.com/jhoicas/gearcash-api/pkg/jwt"
	"github.com/jhoicas/gearcash-api/pkg/logger"
	"github.com/jhoicas/gearcash-api/pkg/password"
)

func main() {
	email := flag.String("email", "", "email del administrador")
	name := flag.String("name", "", "nombre del administrador")
	pass := flag.String("password", "", "contraseña (o SETUP_ADMIN_PASSWORD)")
	flag.Parse()

	if *pass == "" {
		*pass = os.Getenv("SETUP_ADMIN_PASSWORD")
	}
	if *email == "" || *name == "" || *pass == "" {
		fmt.Fprintln(os.Stderr, "email, name y password son requeridos")
		flag.Usage()
		os.Exit(2)
	}

	if err := run(dto.SetupAdminRequest{Email: *email, Name: *name, Password: *pass}); err != nil {
		fmt.Fprintf(os.Stderr, "Setup: %v\n", err)
		if errors.Is(err, domain.ErrSetupNotAllowed) || errors.Is(err, domain.ErrValidation) {
			os.Exit(3)
		}
		os.Exit(1)
	}
}

func run(in dto.SetupAdminRequest) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: os.Stderr})

	ctx := context.Background()
	st, err := store.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	issuer, err := jwt.NewIssuer(jwt.Config{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer})
	if err != nil {
		return err
	}
	uc := auth.NewAuthUseCase(st.Users, st.Tx, password.NewBcryptHasher(cfg.Security.BcryptCost), issuer, log)

	user, err := uc.SetupFirstAdmin(ctx, in)
	if err != nil {
		return err
	}
	fmt.Println(user.ID)
	return nil
}
