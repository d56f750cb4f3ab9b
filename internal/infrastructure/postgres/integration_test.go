//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/gearcash-api/internal/domain"
	"github.com/jhoicas/gearcash-api/internal/domain/entity"
	"github.com/jhoicas/gearcash-api/internal/domain/repository"
	"github.com/jhoicas/gearcash-api/internal/infrastructure/postgres"
	"github.com/jhoicas/gearcash-api/pkg/config"
)

// startPostgres levanta un contenedor PostgreSQL, aplica migraciones y devuelve el DSN.
func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("gearcash_test"),
		tcpostgres.WithUsername("gearcash"),
		tcpostgres.WithPassword("gearcash"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	version, err := postgres.Migrate(dsn)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	return dsn
}

func TestUserRepo_Integracion(t *testing.T) {
	dsn := startPostgres(t)
	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn})
	require.NoError(t, err)
	defer pool.Close()

	repo := postgres.NewUserRepository(pool)
	now := time.Now().UTC().Truncate(time.Microsecond)
	id, err := uuid.NewV7()
	require.NoError(t, err)
	user := &entity.User{
		ID: id.String(), Email: "admin@gearcash.com", PasswordHash: "h", Name: "Admin",
		Role: entity.RoleAdmin, IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repo.Create(ctx, user))

	dup := *user
	dup.ID = uuid.NewString()
	assert.ErrorIs(t, repo.Create(ctx, &dup), domain.ErrEmailAlreadyExists)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	token := "r1"
	require.NoError(t, repo.UpdateRefreshToken(ctx, user.ID, &token))
	ok, err := repo.RotateRefreshToken(ctx, user.ID, "r1", "r2")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.RotateRefreshToken(ctx, user.ID, "r1", "r3")
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.FindByEmail(ctx, "admin@gearcash.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.RefreshToken)
	assert.Equal(t, "r2", *got.RefreshToken)

	inactive := false
	updated, err := repo.Update(ctx, user.ID, entity.UserPatch{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	runner := postgres.NewTxRunner(pool)
	require.NoError(t, runner.RunLocked(ctx, func(users repository.UserRepository) error {
		c, err := users.Count(ctx)
		assert.Equal(t, int64(1), c)
		return err
	}))
}
