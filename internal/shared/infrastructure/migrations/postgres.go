package migrations

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RunPostgresMigrations executes all PostgreSQL migrations in order.
func RunPostgresMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	return run(ctx, postgresFS, "postgres", func(ctx context.Context, statement string) error {
		_, err := pool.Exec(ctx, statement)
		return err
	})
}
