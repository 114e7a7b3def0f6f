// Package repository holds the optional persistence layers: a Postgres pool
// for users and domains, and a local SQLite file for the scan history. Both
// are disabled when their configuration is empty; the scan pipeline itself
// never depends on either being up.
package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verdiscan/label-backend/internal/common"
)

// Open creates a pgx pool from the storage configuration.
func Open(ctx context.Context, cfg common.StorageConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	logger.Info("db.connect.start", "dsn", cfg.DSN)
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		logger.Error("db.connect.failed", "error", err)
		return nil, common.NewAppError("DB_CONFIG", "invalid database DSN", err)
	}

	pc.MaxConns = cfg.MaxConns
	pc.MinConns = cfg.MinConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	pc.ConnConfig.RuntimeParams["application_name"] = "label-backend"

	ctx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		logger.Error("db.connect.failed", "error", err)
		return nil, common.NewAppError("DB_CONNECT", "failed to connect to database", err)
	}

	logger.Info("db.connect.ok")
	return pool, nil
}

// Close closes the pool gracefully.
func Close(pool *pgxpool.Pool, logger *slog.Logger) {
	if pool == nil {
		return
	}
	logger.Info("db.close")
	pool.Close()
}

// HealthCheck pings the pool with an optional timeout.
func HealthCheck(ctx context.Context, pool *pgxpool.Pool, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return pool.Ping(ctx)
}
