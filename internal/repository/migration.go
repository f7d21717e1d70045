package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"photoline/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ApplyMigrations executes every .sql file in migrationsDir in lexical order.
// Statements are expected to be idempotent (CREATE TABLE IF NOT EXISTS etc).
func ApplyMigrations(ctx context.Context, db *pgxpool.Pool, migrationsDir string, l *logger.Logger) error {
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		return fmt.Errorf("read migrations directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if filepath.Ext(entry.Name()) == ".sql" {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	for _, name := range files {
		content, err := os.ReadFile(filepath.Join(migrationsDir, name))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if l != nil {
			l.Infof("Applying migration: %s", name)
		}
		if _, err := db.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("execute migration %s: %w", name, err)
		}
	}
	return nil
}
