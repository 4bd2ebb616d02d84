// Package web provides HTTP request and response types for the flowgraph API.
package web

import (
	"github.com/dukex/flowgraph/pkg/compat"
	"github.com/dukex/flowgraph/pkg/models"
)

// PortTypeResponse describes one registered port type and the output types its inputs accept.
type PortTypeResponse struct {
	Type    models.PortType   `json:"type"`
	Accepts []models.PortType `json:"accepts"`
}

// TransformPortTypes lists every port type known to the matrix. `any` accepts everything and is
// reported with an empty list.
func TransformPortTypes(matrix *compat.Matrix) []PortTypeResponse {
	types := matrix.Types()
	response := make([]PortTypeResponse, 0, len(types))

	for _, portType := range types {
		response = append(response, PortTypeResponse{Type: portType, Accepts: matrix.AcceptedSources(portType)})
	}

	return response
}

// WorkflowSummary is a stored workflow without its graph.
type WorkflowSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Nodes int    `json:"nodes"`
	Edges int    `json:"edges"`
}

// TransformWorkflowSummary strips the graph from a stored workflow.
func TransformWorkflowSummary(workflow *models.Workflow) WorkflowSummary {
	summary := WorkflowSummary{ID: workflow.ID, Name: workflow.Name}

	if workflow.Graph != nil {
		summary.Nodes = len(workflow.Graph.Nodes)
		summary.Edges = len(workflow.Graph.Edges)
	}

	return summary
}
