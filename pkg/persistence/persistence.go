// Package persistence stores workflow graph snapshots so graphs can be validated and planned by
// workflow id alone.
package persistence

import (
	"context"

	"github.com/dukex/flowgraph/pkg/models"
)

// SnapshotReader looks up stored snapshots.
type SnapshotReader interface {
	// WorkflowByID returns an error matching ErrWorkflowNotFound when nothing is stored under id.
	WorkflowByID(ctx context.Context, id string) (*models.Workflow, error)
}

// Persistence is a snapshot store. Saving replaces the whole graph of a workflow, nodes and edges
// in declaration order, and deleting an unknown workflow is not an error.
type Persistence interface {
	SnapshotReader

	// Workflows lists stored workflows ordered by id.
	Workflows(ctx context.Context) ([]*models.Workflow, error)
	SaveWorkflow(ctx context.Context, workflow *models.Workflow) error
	DeleteWorkflow(ctx context.Context, id string) error

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
