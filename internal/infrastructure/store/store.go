// Package store arma el almacenamiento de usuarios elegido por configuración (postgres o memoria).
package store

import (
	"context"
	"fmt"

	"github.com/jhoicas/gearcash-api/internal/application/auth"
	"github.com/jhoicas/gearcash-api/internal/domain/repository"
	"github.com/jhoicas/gearcash-api/internal/infrastructure/memory"
	"github.com/jhoicas/gearcash-api/internal/infrastructure/postgres"
	"github.com/jhoicas/gearcash-api/pkg/config"
	"github.com/jhoicas/gearcash-api/pkg/logger"
)

// Pinger comprobación de salud del almacenamiento.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Store repositorio de usuarios + runner de exclusión. Pinger es nil en memoria.
type Store struct {
	Users  repository.UserRepository
	Tx     auth.UserTxRunner
	Pinger Pinger
	close  func()
}

// Close libera el pool si existe.
func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}

// Open construye el store según cfg.App.Store. En postgres aplica migraciones si DB_AUTO_MIGRATE.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Store, error) {
	switch cfg.App.Store {
	case config.StoreMemory:
		log.Warn().Msg("usando almacenamiento en memoria: los usuarios se pierden al reiniciar")
		repo := memory.NewUserRepository()
		return &Store{Users: repo, Tx: memory.NewTxRunner(repo)}, nil
	case config.StorePostgres:
		if cfg.DB.AutoMigrate {
			version, err := postgres.Migrate(cfg.DB.ConnectionString())
			if err != nil {
				return nil, fmt.Errorf("migraciones: %w", err)
			}
			log.Info().Uint("version", version).Msg("migraciones aplicadas")
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		return &Store{
			Users:  postgres.NewUserRepository(pool),
			Tx:     postgres.NewTxRunner(pool),
			Pinger: pool,
			close:  pool.Close,
		}, nil
	}
	return nil, fmt.Errorf("store desconocido: %q", cfg.App.Store)
}
