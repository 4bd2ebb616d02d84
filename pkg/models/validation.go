package models

// IssueKind classifies a validation issue.
type IssueKind string

const (
	IssueMissingRequiredInput  IssueKind = "MISSING_REQUIRED_INPUT"
	IssuePortIncompatible      IssueKind = "PORT_INCOMPATIBLE"
	IssueCycleDetected         IssueKind = "CYCLE_DETECTED"
	IssueIsolatedNode          IssueKind = "ISOLATED_NODE"
	IssueInvalidConnection     IssueKind = "INVALID_CONNECTION"
	IssueMultipleConnections   IssueKind = "MULTIPLE_CONNECTIONS"
	IssueValidationUnavailable IssueKind = "VALIDATION_UNAVAILABLE"
)

// Severity defines how an issue affects executability.
type Severity string

const (
	SeverityError   Severity = "error"   // Blocks execution
	SeverityWarning Severity = "warning" // Permitted but flagged
	SeverityInfo    Severity = "info"    // Advisory
)

// Rank orders severities from most to least severe.
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 0
	case SeverityWarning:
		return 1
	case SeverityInfo:
		return 2
	default:
		return 3
	}
}

// ValidationIssue is a single finding about a graph.
type ValidationIssue struct {
	Kind     IssueKind `json:"kind"`
	Severity Severity  `json:"severity"`
	Message  string    `json:"message"`
	NodeID   string    `json:"node_id,omitempty"`
	EdgeID   string    `json:"edge_id,omitempty"`
	NodeIDs  []string  `json:"node_ids,omitempty"` // Cycle members
}

// ValidationStats summarizes graph connectivity.
type ValidationStats struct {
	TotalNodes     int `json:"total_nodes"`
	ConnectedNodes int `json:"connected_nodes"`
	IsolatedNodes  int `json:"isolated_nodes"`
}

// ValidationResult is the outcome of validating one graph snapshot.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Issues []ValidationIssue `json:"issues"`
	Stats  ValidationStats   `json:"stats"`
}

// HasBlockingIssues reports whether any issue has error severity.
func (r *ValidationResult) HasBlockingIssues() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}

	return false
}

// FilterIssuesBySeverity returns the issues with the given severity, in result order.
func (r *ValidationResult) FilterIssuesBySeverity(severity Severity) []ValidationIssue {
	filtered := make([]ValidationIssue, 0)

	for _, issue := range r.Issues {
		if issue.Severity == severity {
			filtered = append(filtered, issue)
		}
	}

	return filtered
}

// IssuesForNode returns the issues scoped to a node, including cycles the node belongs to.
func (r *ValidationResult) IssuesForNode(nodeID string) []ValidationIssue {
	filtered := make([]ValidationIssue, 0)

	for _, issue := range r.Issues {
		if issue.NodeID == nodeID {
			filtered = append(filtered, issue)

			continue
		}

		for _, member := range issue.NodeIDs {
			if member == nodeID {
				filtered = append(filtered, issue)

				break
			}
		}
	}

	return filtered
}

// ValidateOptions selects which checks run.
type ValidateOptions struct {
	IncludeWarnings     bool `json:"include_warnings"`
	ValidateConnections bool `json:"validate_connections"`
	CheckCycles         bool `json:"check_cycles"`
}

// DefaultValidateOptions enables every check.
func DefaultValidateOptions() ValidateOptions {
	return ValidateOptions{
		IncludeWarnings:     true,
		ValidateConnections: true,
		CheckCycles:         true,
	}
}

// UnavailableResult is the degraded result returned when no validation path could run.
func UnavailableResult(message string) *ValidationResult {
	return &ValidationResult{
		Valid:  false,
		Issues: []ValidationIssue{UnavailableIssue(message)},
		Stats:  ValidationStats{},
	}
}

// UnavailableIssue builds the synthetic VALIDATION_UNAVAILABLE issue.
func UnavailableIssue(message string) ValidationIssue {
	return ValidationIssue{
		Kind:     IssueValidationUnavailable,
		Severity: SeverityError,
		Message:  message,
	}
}
