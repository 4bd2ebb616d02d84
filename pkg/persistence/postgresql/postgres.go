// Package postgresql stores graph snapshots in PostgreSQL, one row per workflow plus ordered node
// and edge rows.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/persistence/sqlbase"
	_ "github.com/lib/pq"
)

type Persistence struct {
	db        *sql.DB
	logger    *slog.Logger
	snapshots *WorkflowRepository
}

// NewPersistence connects to databaseURL and migrates the snapshot schema before returning.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (*Persistence, error) {
	logger = logger.With("module", "postgresql")

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open snapshot database: %w", err)
	}

	migrator, err := sqlbase.NewMigrator(logger, db, migrations())
	if err == nil {
		err = db.PingContext(ctx)
	}

	if err == nil {
		_, err = migrator.Migrate(ctx)
	}

	if err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("prepare snapshot database: %w", err)
	}

	return &Persistence{
		db:        db,
		logger:    logger,
		snapshots: NewWorkflowRepository(db, logger),
	}, nil
}

func (p *Persistence) Close(_ context.Context) error {
	if p.db == nil {
		return nil
	}

	err := p.db.Close()
	if err != nil {
		return fmt.Errorf("close snapshot database: %w", err)
	}

	return nil
}

// HealthCheck backs the API readiness probe.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	err := p.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("snapshot database unreachable: %w", err)
	}

	return nil
}

func (p *Persistence) Workflows(ctx context.Context) ([]*models.Workflow, error) {
	return p.snapshots.GetAll(ctx)
}

func (p *Persistence) WorkflowByID(ctx context.Context, id string) (*models.Workflow, error) {
	return p.snapshots.GetByID(ctx, id)
}

// SaveWorkflow replaces the stored graph in one transaction.
func (p *Persistence) SaveWorkflow(ctx context.Context, workflow *models.Workflow) error {
	return p.snapshots.Save(ctx, workflow)
}

// DeleteWorkflow hides the workflow through deleted_at; its rows stay until saved again.
func (p *Persistence) DeleteWorkflow(ctx context.Context, id string) error {
	return p.snapshots.Delete(ctx, id)
}
