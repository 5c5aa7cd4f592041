package storage

import (
	"context"
	"fmt"

	"paybridge/internal/domain/paymentsrepo"
	"paybridge/internal/domain/plans"
	"paybridge/internal/domain/users"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repos is the set of stores a unit of work runs against.
type Repos struct {
	Plans    plans.Store
	Users    users.Store
	Payments paymentsrepo.Store
	PayLogs  paymentsrepo.LogsStore
}

type Container struct {
	pool *pgxpool.Pool
	Repos
}

func NewContainer(db *pgxpool.Pool) *Container {
	return &Container{
		pool: db,
		Repos: Repos{
			Plans:    plans.NewRepository(db),
			Users:    users.NewRepository(db),
			Payments: paymentsrepo.NewRepository(db),
			PayLogs:  paymentsrepo.NewLogsRepository(db),
		},
	}
}

// WithTx runs fn against tx-scoped repositories and commits when fn returns
// nil.
func (c *Container) WithTx(ctx context.Context, fn func(r Repos) error) error {
	if c.pool == nil {
		return fmt.Errorf("storage container pool is nil")
	}

	tx, err := c.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback(ctx) // no-op after commit
	}()

	r := Repos{
		Plans:    plans.NewRepository(tx),
		Users:    users.NewRepository(tx),
		Payments: paymentsrepo.NewRepository(tx),
		PayLogs:  paymentsrepo.NewLogsRepository(tx),
	}

	if err := fn(r); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
