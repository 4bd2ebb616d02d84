package models

// ExecutionOrderResult is the topological schedule of a graph. Callers must check HasCycles before
// trusting Order or ParallelGroups: on a cyclic graph both only cover the nodes scheduled before the
// cycle blocked progress.
type ExecutionOrderResult struct {
	Order          []string          `json:"order"`
	ParallelGroups [][]string        `json:"parallel_groups"`
	HasCycles      bool              `json:"has_cycles"`
	CycleNodes     []string          `json:"cycle_nodes,omitempty"`
	Issues         []ValidationIssue `json:"issues,omitempty"` // Only set when the result is degraded
}

// UnavailableExecutionOrder is the degraded result returned when no planning path could run.
func UnavailableExecutionOrder(message string) *ExecutionOrderResult {
	return &ExecutionOrderResult{
		Order:          []string{},
		ParallelGroups: [][]string{},
		Issues:         []ValidationIssue{UnavailableIssue(message)},
	}
}

// CompatibilityResult answers whether a source port type may feed a target port type.
type CompatibilityResult struct {
	Compatible bool   `json:"compatible"`
	Reason     string `json:"reason"`
}
