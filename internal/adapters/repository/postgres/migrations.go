package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"slices"
	"strings"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Migrate executes every migration in the given direction. Up runs in
// lexical order, Down in reverse.
func Migrate(ctx context.Context, db *sql.DB, dir Direction) error {
	names, err := migrationNames(dir)
	if err != nil {
		return err
	}
	if dir == Down {
		slices.Reverse(names)
	}

	for _, name := range names {
		if err := execMigration(ctx, db, name); err != nil {
			return err
		}
	}
	return nil
}

// MigrateOne executes the single migration whose file name contains name.
func MigrateOne(ctx context.Context, db *sql.DB, name string, dir Direction) error {
	names, err := migrationNames(dir)
	if err != nil {
		return err
	}

	pattern, err := regexp.Compile(fmt.Sprintf(`^.*%s.*\.%s\.sql$`, regexp.QuoteMeta(name), dir))
	if err != nil {
		return fmt.Errorf("invalid migration name: %w", err)
	}

	for _, n := range names {
		if pattern.MatchString(n) {
			return execMigration(ctx, db, n)
		}
	}
	return fmt.Errorf("migration file not found: %s", name)
}

func migrationNames(dir Direction) ([]string, error) {
	if dir != Up && dir != Down {
		return nil, fmt.Errorf("unknown migration direction %q", dir)
	}

	entries, err := fs.ReadDir(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "."+string(dir)+".sql") {
			continue
		}
		names = append(names, entry.Name())
	}
	slices.Sort(names)
	return names, nil
}

func execMigration(ctx context.Context, db *sql.DB, name string) error {
	content, err := fs.ReadFile(migrationFiles, "migrations/"+name)
	if err != nil {
		return fmt.Errorf("failed to read migration file %s: %w", name, err)
	}

	if _, err := db.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("failed to execute migration %s: %w", name, err)
	}
	return nil
}
