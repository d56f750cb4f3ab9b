package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/gearcash-api/internal/application/auth"
	"github.com/jhoicas/gearcash-api/internal/domain/repository"
)

var _ auth.UserTxRunner = (*TxRunner)(nil)

// usersLockKey clave del advisory lock que serializa altas críticas sobre users.
const usersLockKey int64 = 0x6765617275736572 // "gearuser"

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool TxBeginner
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool TxBeginner) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunLocked inicia una transacción, toma el advisory lock de usuarios, ejecuta fn con un
// repositorio atado a la tx y hace Commit o Rollback. El lock se libera al cerrar la tx.
func (r *TxRunner) RunLocked(ctx context.Context, fn func(users repository.UserRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, usersLockKey); err != nil {
		return fmt.Errorf("advisory lock: %w", err)
	}
	if err := fn(NewUserRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
