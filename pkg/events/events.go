// Package events defines the notifications published when graphs are validated, planned or stored.
package events

import (
	"time"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/google/uuid"
)

type EventType string

// Topic carries every flowgraph event.
const Topic = "flowgraph.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	GraphValidatedEvent EventType = "graph.validated"
	GraphPlannedEvent   EventType = "graph.planned"

	// Snapshot store events. Subscribers drop cached results for the workflow.
	WorkflowGraphSavedEvent   EventType = "workflow.graph.saved"
	WorkflowGraphDeletedEvent EventType = "workflow.graph.deleted"
)

// Source tells which path of the façade produced a result.
type Source string

const (
	SourceRemote   Source = "remote"
	SourceLocal    Source = "local"
	SourceCache    Source = "cache"
	SourceDegraded Source = "degraded"
)

type BaseEvent struct {
	ID         string         `json:"id"`
	Type       EventType      `json:"type"`
	Timestamp  time.Time      `json:"timestamp"`
	WorkflowID string         `json:"workflow_id"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// NewBaseEvent stamps a new event for a workflow.
func NewBaseEvent(eventType EventType, workflowID string) BaseEvent {
	return BaseEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		Timestamp:  time.Now().UTC(),
		WorkflowID: workflowID,
	}
}

type GraphValidated struct {
	BaseEvent

	Source   Source                 `json:"source"`
	Valid    bool                   `json:"valid"`
	Errors   int                    `json:"errors"`
	Warnings int                    `json:"warnings"`
	Stats    models.ValidationStats `json:"stats"`
}

func (e GraphValidated) GetType() EventType {
	return GraphValidatedEvent
}

// NewGraphValidated summarizes a validation result.
func NewGraphValidated(workflowID string, source Source, result *models.ValidationResult) GraphValidated {
	return GraphValidated{
		BaseEvent: NewBaseEvent(GraphValidatedEvent, workflowID),
		Source:    source,
		Valid:     result.Valid,
		Errors:    len(result.FilterIssuesBySeverity(models.SeverityError)),
		Warnings:  len(result.FilterIssuesBySeverity(models.SeverityWarning)),
		Stats:     result.Stats,
	}
}

type GraphPlanned struct {
	BaseEvent

	Source     Source `json:"source"`
	Nodes      int    `json:"nodes"`
	Groups     int    `json:"groups"`
	HasCycles  bool   `json:"has_cycles"`
	CycleNodes int    `json:"cycle_nodes"`
}

func (e GraphPlanned) GetType() EventType {
	return GraphPlannedEvent
}

// NewGraphPlanned summarizes an execution order result.
func NewGraphPlanned(workflowID string, source Source, result *models.ExecutionOrderResult) GraphPlanned {
	return GraphPlanned{
		BaseEvent:  NewBaseEvent(GraphPlannedEvent, workflowID),
		Source:     source,
		Nodes:      len(result.Order),
		Groups:     len(result.ParallelGroups),
		HasCycles:  result.HasCycles,
		CycleNodes: len(result.CycleNodes),
	}
}

type WorkflowGraphSaved struct {
	BaseEvent

	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
}

func (e WorkflowGraphSaved) GetType() EventType {
	return WorkflowGraphSavedEvent
}

type WorkflowGraphDeleted struct {
	BaseEvent
}

func (e WorkflowGraphDeleted) GetType() EventType {
	return WorkflowGraphDeletedEvent
}
