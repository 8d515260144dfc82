package repository

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"resume-api/internal/infrastructure/migration"
	infra "resume-api/pkg/infrastructure"
)

// IsPostgresURL reports whether url selects the Postgres backend.
func IsPostgresURL(url string) bool {
	u := strings.ToLower(url)
	return strings.HasPrefix(u, "postgres://") || strings.HasPrefix(u, "postgresql://")
}

// Open picks the Postgres backend for postgres URLs, running migrations
// first, and the Convex HTTP API otherwise. The returned func releases the
// backend.
func Open(ctx context.Context, url string, timeout time.Duration, logger *slog.Logger) (Querier, func(), error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !IsPostgresURL(url) {
		logger.Info("using convex datastore", "url", url)
		return NewConvexClient(url, timeout, logger), func() {}, nil
	}
	pool, err := infra.NewPool(ctx, url)
	if err != nil {
		return nil, nil, err
	}
	if err := migration.RunMigrations(ctx, pool, logger); err != nil {
		pool.Close()
		return nil, nil, err
	}
	logger.Info("using postgres datastore")
	return NewPostgresQuerier(pool), pool.Close, nil
}
