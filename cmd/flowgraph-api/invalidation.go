package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dukex/flowgraph/pkg/eventbus"
	"github.com/dukex/flowgraph/pkg/events"
	"github.com/dukex/flowgraph/pkg/services"
)

// subscribeInvalidation drops cached results whenever any instance stores or deletes a snapshot.
func subscribeInvalidation(ctx context.Context, logger *slog.Logger, bus eventbus.EventSubscriber, invalidator services.Invalidator) error {
	logger = logger.With("module", "cache_invalidation")

	invalidate := func(ctx context.Context, workflowID string) error {
		if err := invalidator.Invalidate(ctx, workflowID); err != nil {
			logger.ErrorContext(ctx, "Failed to invalidate cached results", "workflow_id", workflowID, "error", err)

			return err
		}

		logger.DebugContext(ctx, "Invalidated cached results", "workflow_id", workflowID)

		return nil
	}

	err := bus.Handle(events.WorkflowGraphSavedEvent, func(ctx context.Context, event any) error {
		saved, ok := event.(*events.WorkflowGraphSaved)
		if !ok {
			return fmt.Errorf("unexpected event %T", event)
		}

		return invalidate(ctx, saved.WorkflowID)
	})
	if err != nil {
		return err
	}

	err = bus.Handle(events.WorkflowGraphDeletedEvent, func(ctx context.Context, event any) error {
		deleted, ok := event.(*events.WorkflowGraphDeleted)
		if !ok {
			return fmt.Errorf("unexpected event %T", event)
		}

		return invalidate(ctx, deleted.WorkflowID)
	})
	if err != nil {
		return err
	}

	return bus.Subscribe(ctx)
}
