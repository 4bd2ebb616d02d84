package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const requiredTag = "required"

func sampleGraph() *Graph {
	return &Graph{
		Nodes: []*Node{
			{
				ID:       "A",
				NodeType: "image-upload",
				Outputs:  []Port{{ID: "image", Name: "Image", PortType: PortTypeImage}},
			},
			{
				ID:       "B",
				NodeType: "upscaler",
				Inputs:   []Port{{ID: "image", Name: "Image", PortType: PortTypeImage, Required: true}},
			},
		},
		Edges: []*Edge{
			{ID: "e1", SourceNodeID: "A", SourcePortID: "image", TargetNodeID: "B", TargetPortID: "image"},
		},
	}
}

func failedTags(err error) map[string]string {
	var validationErrors validator.ValidationErrors

	_ = errors.As(err, &validationErrors)

	tags := make(map[string]string, len(validationErrors))
	for _, fieldErr := range validationErrors {
		tags[fieldErr.Field()] = fieldErr.Tag()
	}

	return tags
}

func TestGraph_Validation(t *testing.T) {
	validate := validator.New()

	require.NoError(t, validate.Struct(sampleGraph()))

	g := sampleGraph()
	g.Nodes[0].ID = ""
	g.Edges[0].TargetPortID = ""

	err := validate.Struct(g)
	require.Error(t, err)

	tags := failedTags(err)
	assert.Equal(t, requiredTag, tags["ID"])
	assert.Equal(t, requiredTag, tags["TargetPortID"])
}

func TestPort_Validation_MissingType(t *testing.T) {
	validate := validator.New()

	err := validate.Struct(&Port{ID: "image"})
	require.Error(t, err)
	assert.Equal(t, requiredTag, failedTags(err)["PortType"])
}

func TestPortID(t *testing.T) {
	id := MakePortID("node-1", "image")
	assert.Equal(t, "node-1:image", id)

	nodeID, portID, ok := ParsePortID(id)
	assert.True(t, ok)
	assert.Equal(t, "node-1", nodeID)
	assert.Equal(t, "image", portID)

	_, _, ok = ParsePortID("no-separator")
	assert.False(t, ok)
}

func TestNode_PortLookup(t *testing.T) {
	g := sampleGraph()

	node, ok := g.Node("B")
	require.True(t, ok)

	port, ok := node.Input("image")
	assert.True(t, ok)
	assert.True(t, port.Required)

	_, ok = node.Output("image")
	assert.False(t, ok)

	_, ok = g.Node("missing")
	assert.False(t, ok)

	assert.Equal(t, "A:image", g.Edges[0].SourcePort())
	assert.Equal(t, "B:image", g.Edges[0].TargetPort())
}

func TestValidationResult_Projections(t *testing.T) {
	result := &ValidationResult{
		Issues: []ValidationIssue{
			{Kind: IssueMissingRequiredInput, Severity: SeverityError, NodeID: "C"},
			{Kind: IssueCycleDetected, Severity: SeverityError, NodeIDs: []string{"A", "B"}},
			{Kind: IssueIsolatedNode, Severity: SeverityWarning, NodeID: "D"},
		},
	}

	assert.True(t, result.HasBlockingIssues())
	assert.Len(t, result.FilterIssuesBySeverity(SeverityError), 2)
	assert.Len(t, result.FilterIssuesBySeverity(SeverityWarning), 1)
	assert.Empty(t, result.FilterIssuesBySeverity(SeverityInfo))

	forA := result.IssuesForNode("A")
	require.Len(t, forA, 1)
	assert.Equal(t, IssueCycleDetected, forA[0].Kind)

	assert.Len(t, result.IssuesForNode("C"), 1)
	assert.Empty(t, result.IssuesForNode("Z"))

	warningsOnly := &ValidationResult{Issues: result.FilterIssuesBySeverity(SeverityWarning)}
	assert.False(t, warningsOnly.HasBlockingIssues())
}

func TestSeverity_Rank(t *testing.T) {
	assert.Less(t, SeverityError.Rank(), SeverityWarning.Rank())
	assert.Less(t, SeverityWarning.Rank(), SeverityInfo.Rank())
}

func TestUnavailableResults(t *testing.T) {
	result := UnavailableResult("remote and local validation failed")

	assert.False(t, result.Valid)
	assert.Equal(t, ValidationStats{}, result.Stats)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, IssueValidationUnavailable, result.Issues[0].Kind)
	assert.Equal(t, SeverityError, result.Issues[0].Severity)

	order := UnavailableExecutionOrder("planning failed")
	assert.Empty(t, order.Order)
	assert.Empty(t, order.ParallelGroups)
	assert.False(t, order.HasCycles)
	require.Len(t, order.Issues, 1)
	assert.Equal(t, IssueValidationUnavailable, order.Issues[0].Kind)
}

func TestValidateJSON(t *testing.T) {
	graphJSON, err := json.Marshal(sampleGraph())
	require.NoError(t, err)
	require.NoError(t, ValidateJSON(GraphSchema, graphJSON))

	resultJSON, err := json.Marshal(UnavailableResult("down"))
	require.NoError(t, err)
	require.NoError(t, ValidateJSON(ValidationResultSchema, resultJSON))

	orderJSON, err := json.Marshal(UnavailableExecutionOrder("down"))
	require.NoError(t, err)
	require.NoError(t, ValidateJSON(ExecutionOrderResultSchema, orderJSON))

	compatJSON, err := json.Marshal(CompatibilityResult{Compatible: true})
	require.NoError(t, err)
	require.NoError(t, ValidateJSON(CompatibilityResultSchema, compatJSON))
}

func TestValidateJSON_Violations(t *testing.T) {
	tests := []struct {
		name     string
		schema   string
		document string
	}{
		{name: "graph without nodes", schema: GraphSchema, document: `{"edges": []}`},
		{name: "node without type", schema: GraphSchema, document: `{"nodes": [{"id": "A"}]}`},
		{name: "unknown severity", schema: ValidationResultSchema, document: `{"valid": true, "stats": {"total_nodes": 0, "connected_nodes": 0, "isolated_nodes": 0}, "issues": [{"kind": "X", "severity": "fatal", "message": "m"}]}`},
		{name: "order missing cycles flag", schema: ExecutionOrderResultSchema, document: `{"order": [], "parallel_groups": []}`},
		{name: "not json", schema: CompatibilityResultSchema, document: `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSON(tt.schema, []byte(tt.document))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSchemaViolation)
		})
	}
}
