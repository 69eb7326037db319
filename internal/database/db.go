package database

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Connect creates the connection pool, pings it and runs pending
// migrations. An absent migrations directory is not an error; the schema is
// assumed to be managed externally in that case.
func Connect(ctx context.Context, dsn, migrationsDir string, logger *zap.Logger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	logger.Info("Connected to database")

	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		logger.Warn("Migrations directory not found, skipping migrations",
			zap.String("dir", migrationsDir))
		return pool, nil
	}

	if err := RunMigrations(ctx, pool, migrationsDir, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return pool, nil
}
