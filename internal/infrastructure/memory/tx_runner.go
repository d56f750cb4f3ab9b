package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/gearcash-api/internal/domain/repository"
)

// TxRunner serializa las secciones críticas sobre el almacén en memoria.
type TxRunner struct {
	mu   sync.Mutex
	repo *UserRepo
}

// NewTxRunner construye el runner sobre repo.
func NewTxRunner(repo *UserRepo) *TxRunner {
	return &TxRunner{repo: repo}
}

// RunLocked ejecuta fn con exclusión mutua respecto de otras llamadas a RunLocked.
func (r *TxRunner) RunLocked(ctx context.Context, fn func(users repository.UserRepository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(r.repo)
}
