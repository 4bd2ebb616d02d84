package services

import (
	"context"
	"log/slog"

	"github.com/dukex/flowgraph/pkg/eventbus"
	"github.com/dukex/flowgraph/pkg/events"
	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/persistence"
)

var (
	// ErrWorkflowNotFound is returned when a workflow is not found.
	ErrWorkflowNotFound = persistence.ErrWorkflowNotFound
)

// Invalidator drops cached results of a workflow.
type Invalidator interface {
	Invalidate(ctx context.Context, workflowID string) error
}

// Workflow stores graph snapshots. Every write drops the cached results of the workflow.
type Workflow struct {
	persistence persistence.Persistence
	invalidator Invalidator
	publisher   eventbus.EventPublisher
	logger      *slog.Logger
}

// NewWorkflow creates a new workflow service. invalidator and publisher may be nil.
func NewWorkflow(logger *slog.Logger, persistence persistence.Persistence, invalidator Invalidator, publisher eventbus.EventPublisher) *Workflow {
	return &Workflow{
		persistence: persistence,
		invalidator: invalidator,
		publisher:   publisher,
		logger:      logger.With("module", "workflow_service"),
	}
}

// HealthCheck checks the health of the persistence layer.
func (w *Workflow) HealthCheck(ctx context.Context) (string, bool) {
	if w.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := w.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// Workflows lists every stored workflow.
func (w *Workflow) Workflows(ctx context.Context) ([]*models.Workflow, error) {
	return w.persistence.Workflows(ctx)
}

// Graph returns the stored workflow.
func (w *Workflow) Graph(ctx context.Context, workflowID string) (*models.Workflow, error) {
	if workflowID == "" {
		return nil, ErrWorkflowIDRequired
	}

	return w.persistence.WorkflowByID(ctx, workflowID)
}

// SaveGraph creates or replaces the snapshot stored under workflowID.
func (w *Workflow) SaveGraph(ctx context.Context, workflowID, name string, g *models.Graph) (*models.Workflow, error) {
	if workflowID == "" {
		return nil, ErrWorkflowIDRequired
	}

	if g == nil {
		return nil, ErrGraphRequired
	}

	workflow := &models.Workflow{ID: workflowID, Name: name, Graph: g}

	existing, err := w.persistence.WorkflowByID(ctx, workflowID)
	switch {
	case err == nil:
		workflow.CreatedAt = existing.CreatedAt
		if name == "" {
			workflow.Name = existing.Name
		}
	case !persistence.IsWorkflowNotFound(err):
		return nil, err
	}

	err = w.persistence.SaveWorkflow(ctx, workflow)
	if err != nil {
		return nil, err
	}

	w.invalidate(ctx, workflowID)
	w.publish(ctx, workflowID, events.WorkflowGraphSaved{
		BaseEvent: events.NewBaseEvent(events.WorkflowGraphSavedEvent, workflowID),
		Nodes:     len(g.Nodes),
		Edges:     len(g.Edges),
	})

	return workflow, nil
}

// DeleteGraph removes the snapshot stored under workflowID.
func (w *Workflow) DeleteGraph(ctx context.Context, workflowID string) error {
	if workflowID == "" {
		return ErrWorkflowIDRequired
	}

	_, err := w.persistence.WorkflowByID(ctx, workflowID)
	if err != nil {
		return err
	}

	err = w.persistence.DeleteWorkflow(ctx, workflowID)
	if err != nil {
		return err
	}

	w.invalidate(ctx, workflowID)
	w.publish(ctx, workflowID, events.WorkflowGraphDeleted{
		BaseEvent: events.NewBaseEvent(events.WorkflowGraphDeletedEvent, workflowID),
	})

	return nil
}

func (w *Workflow) invalidate(ctx context.Context, workflowID string) {
	if w.invalidator == nil {
		return
	}

	if err := w.invalidator.Invalidate(ctx, workflowID); err != nil {
		w.logger.WarnContext(ctx, "Failed to invalidate cached results", "workflow_id", workflowID, "error", err)
	}
}

func (w *Workflow) publish(ctx context.Context, workflowID string, event eventbus.Event) {
	if w.publisher == nil {
		return
	}

	if err := w.publisher.Publish(ctx, workflowID, event); err != nil {
		w.logger.WarnContext(ctx, "Failed to publish event", "event_type", event.GetType(), "error", err)
	}
}
