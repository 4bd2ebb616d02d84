package events_test

import (
	"encoding/json"
	"testing"

	"github.com/dukex/flowgraph/pkg/events"
	"github.com/dukex/flowgraph/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGraphValidated(t *testing.T) {
	t.Parallel()

	result := &models.ValidationResult{
		Valid: false,
		Issues: []models.ValidationIssue{
			{Kind: models.IssueCycleDetected, Severity: models.SeverityError},
			{Kind: models.IssueIsolatedNode, Severity: models.SeverityWarning},
			{Kind: models.IssueIsolatedNode, Severity: models.SeverityWarning},
		},
		Stats: models.ValidationStats{TotalNodes: 4, ConnectedNodes: 2, IsolatedNodes: 2},
	}

	event := events.NewGraphValidated("wf-1", events.SourceLocal, result)

	assert.Equal(t, events.GraphValidatedEvent, event.GetType())
	assert.Equal(t, events.GraphValidatedEvent, event.Type)
	assert.Equal(t, "wf-1", event.WorkflowID)
	assert.NotEmpty(t, event.ID)
	assert.False(t, event.Timestamp.IsZero())
	assert.Equal(t, 1, event.Errors)
	assert.Equal(t, 2, event.Warnings)
	assert.Equal(t, result.Stats, event.Stats)

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded events.GraphValidated
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, events.SourceLocal, decoded.Source)
	assert.Equal(t, "wf-1", decoded.WorkflowID)
}

func TestNewGraphPlanned(t *testing.T) {
	t.Parallel()

	result := &models.ExecutionOrderResult{
		Order:          []string{"S"},
		ParallelGroups: [][]string{{"S"}},
		HasCycles:      true,
		CycleNodes:     []string{"X", "Y"},
	}

	event := events.NewGraphPlanned("wf-1", events.SourceRemote, result)

	assert.Equal(t, events.GraphPlannedEvent, event.GetType())
	assert.Equal(t, 1, event.Nodes)
	assert.Equal(t, 1, event.Groups)
	assert.True(t, event.HasCycles)
	assert.Equal(t, 2, event.CycleNodes)
}
