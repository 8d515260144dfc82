package migration

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgconn"
)

// Execer is the statement surface of pgxpool.Pool.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// Migration represents a database migration
type Migration struct {
	Name string
	SQL  string
}

// Migrations creates the resume tables read by the Postgres datastore.
var Migrations = []Migration{
	{
		Name: "create_resume_header",
		SQL: `CREATE TABLE IF NOT EXISTS resume_header (
			id TEXT PRIMARY KEY DEFAULT 'header',
			data JSONB NOT NULL DEFAULT '{}'::jsonb
		);`,
	},
	{
		Name: "create_resume_education",
		SQL: `CREATE TABLE IF NOT EXISTS resume_education (
			id TEXT PRIMARY KEY DEFAULT 'education',
			data JSONB NOT NULL DEFAULT '{}'::jsonb
		);`,
	},
	{
		Name: "create_resume_experience",
		SQL: `CREATE TABLE IF NOT EXISTS resume_experience (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL DEFAULT 0,
			data JSONB NOT NULL DEFAULT '{}'::jsonb
		);`,
	},
	{
		Name: "create_resume_projects",
		SQL: `CREATE TABLE IF NOT EXISTS resume_projects (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL DEFAULT 0,
			data JSONB NOT NULL DEFAULT '{}'::jsonb
		);`,
	},
}

// RunMigrations executes all necessary database migrations on startup
func RunMigrations(ctx context.Context, pool Execer, logger *slog.Logger) error {
	logger.Info("Starting database migrations")

	for _, m := range Migrations {
		if _, err := pool.Exec(ctx, m.SQL); err != nil {
			logger.Error("Migration failed", "name", m.Name, "error", err)
			return fmt.Errorf("migration %s: %w", m.Name, err)
		}
		logger.Info("Migration completed", "name", m.Name)
	}

	logger.Info("All migrations completed successfully")
	return nil
}
