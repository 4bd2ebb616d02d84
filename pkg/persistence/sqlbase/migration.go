// Package sqlbase versions the SQL schema behind the snapshot stores.
package sqlbase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

var ErrInvalidMigration = errors.New("invalid migration")

// Migration is one forward-only schema step.
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// Migrator applies pending migrations and records them in schema_versions.
type Migrator struct {
	db         *sql.DB
	logger     *slog.Logger
	migrations []Migration
}

// NewMigrator orders migrations by version. Versions must be positive and unique, and every
// migration needs SQL.
func NewMigrator(logger *slog.Logger, db *sql.DB, migrations []Migration) (*Migrator, error) {
	sorted := make([]Migration, len(migrations))
	copy(sorted, migrations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Version < sorted[j].Version })

	for i, migration := range sorted {
		if migration.Version <= 0 {
			return nil, fmt.Errorf("%w: version %d is not positive", ErrInvalidMigration, migration.Version)
		}

		if strings.TrimSpace(migration.SQL) == "" {
			return nil, fmt.Errorf("%w: version %d has no SQL", ErrInvalidMigration, migration.Version)
		}

		if i > 0 && sorted[i-1].Version == migration.Version {
			return nil, fmt.Errorf("%w: version %d declared twice", ErrInvalidMigration, migration.Version)
		}
	}

	return &Migrator{db: db, logger: logger, migrations: sorted}, nil
}

// Latest is the version the schema reaches once every migration is applied.
func (m *Migrator) Latest() int {
	if len(m.migrations) == 0 {
		return 0
	}

	return m.migrations[len(m.migrations)-1].Version
}

// Migrate brings the schema up to Latest and returns the resulting version.
func (m *Migrator) Migrate(ctx context.Context) (int, error) {
	_, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_versions (
			version INTEGER PRIMARY KEY,
			description TEXT NOT NULL DEFAULT '',
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return 0, fmt.Errorf("create schema_versions: %w", err)
	}

	current, err := m.Version(ctx)
	if err != nil {
		return 0, err
	}

	for _, migration := range m.migrations {
		if migration.Version <= current {
			continue
		}

		err = m.apply(ctx, migration)
		if err != nil {
			return current, err
		}

		current = migration.Version
	}

	m.logger.InfoContext(ctx, "Snapshot schema is up to date", "version", current)

	return current, nil
}

// Version reads the highest applied version, 0 for an empty schema.
func (m *Migrator) Version(ctx context.Context) (int, error) {
	var version int

	err := m.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_versions").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}

	return version, nil
}

func (m *Migrator) apply(ctx context.Context, migration Migration) error {
	m.logger.InfoContext(ctx, "Applying schema migration", "version", migration.Version, "description", migration.Description)

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("migration %d: %w", migration.Version, err)
	}

	_, err = tx.ExecContext(ctx, migration.SQL)
	if err == nil {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO schema_versions (version, description) VALUES ($1, $2)",
			migration.Version, migration.Description)
	}

	if err != nil {
		_ = tx.Rollback()

		return fmt.Errorf("migration %d (%s): %w", migration.Version, migration.Description, err)
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("commit migration %d: %w", migration.Version, err)
	}

	return nil
}
