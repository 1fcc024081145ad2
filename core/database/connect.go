package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/m3rciful/teamboard/core/logger"
)

// ReadyTimeout bounds how long Connect waits for postgres to accept connections.
var ReadyTimeout = 30 * time.Second

// Connect opens the configured database, configures the pool and verifies
// connectivity. Postgres is retried until ReadyTimeout elapses.
func Connect(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	var driver, dsn string
	switch cfg.Driver {
	case DriverPostgres:
		driver, dsn = "postgres", cfg.postgresDSN()
	case DriverSQLite:
		driver, dsn = "sqlite", cfg.Path
	default:
		return nil, fmt.Errorf("db connect: driver %q has no SQL backend", cfg.Driver)
	}

	start := time.Now()
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxConnections)

	if err := waitReady(ctx, db, cfg); err != nil {
		_ = db.Close()
		logger.Error(ctx, "db", "db.connect",
			slog.String("status", "fail"),
			slog.String("driver", cfg.Driver),
			slog.String("host", cfg.Host),
			slog.String("db", cfg.Name),
			slog.Duration("duration_ms", logger.Took(start)),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("db ping: %w", err)
	}

	logger.Info(ctx, "db", "db.connect",
		slog.String("status", "ok"),
		slog.String("driver", cfg.Driver),
		slog.String("host", cfg.Host),
		slog.String("db", cfg.Name),
		slog.Int("pool_open", cfg.MaxConnections),
		slog.Duration("duration_ms", logger.Took(start)),
	)
	return db, nil
}

func waitReady(ctx context.Context, db *sqlx.DB, cfg Config) error {
	ping := func() (struct{}, error) {
		pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		err := db.PingContext(pctx)
		if err != nil && cfg.Driver == DriverSQLite {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}
	_, err := backoff.Retry(ctx, ping,
		backoff.WithBackOff(backoff.NewConstantBackOff(2*time.Second)),
		backoff.WithMaxElapsedTime(ReadyTimeout),
		backoff.WithNotify(func(err error, next time.Duration) {
			logger.Warn(ctx, "db", "db.wait",
				slog.String("status", "retry"),
				slog.Duration("backoff_ms", next),
				slog.String("err", err.Error()),
			)
		}),
	)
	return err
}
