package persistence

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationsDir = "migrations"

// RunMigrations applies the embedded SQL files in lexical order over a
// single connection. Every file is idempotent.
func RunMigrations(ctx context.Context, p *Postgres, logger *zap.Logger) error {
	if !p.Configured() {
		logger.Warn("no postgres configured; skipping migrations")
		return nil
	}

	entries, err := fs.ReadDir(migrationFiles, migrationsDir)
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	filenames := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		filenames = append(filenames, entry.Name())
	}
	sort.Strings(filenames)

	return p.withConn(ctx, func(ctx context.Context, conn *pgx.Conn) error {
		for _, name := range filenames {
			content, err := fs.ReadFile(migrationFiles, migrationsDir+"/"+name)
			if err != nil {
				return fmt.Errorf("read migration %s: %w", name, err)
			}

			logger.Info("applying migration", zap.String("file", name))
			if _, err := conn.Exec(ctx, string(content)); err != nil {
				return fmt.Errorf("apply migration %s: %w", name, err)
			}
		}
		logger.Info("migrations applied", zap.Int("count", len(filenames)))
		return nil
	})
}
