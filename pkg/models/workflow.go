package models

import "time"

// Workflow is a stored graph snapshot addressed by the editor's workflow (board) identifier.
type Workflow struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Graph     *Graph    `json:"graph"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GraphRef addresses the graph a façade call works on: either an inline snapshot or, when Graph is
// nil, the snapshot stored under WorkflowID.
type GraphRef struct {
	WorkflowID string `json:"workflow_id"`
	Graph      *Graph `json:"graph,omitempty"`
}
