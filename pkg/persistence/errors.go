package persistence

import (
	"errors"
	"fmt"
)

// Every snapshot store reports through these so callers can map misses to 404s.
var (
	// ErrWorkflowNotFound indicates no graph snapshot is stored under the given workflow id.
	ErrWorkflowNotFound = errors.New("workflow not found")

	// ErrInvalidWorkflowID indicates a workflow id that cannot be used as a storage key.
	ErrInvalidWorkflowID = errors.New("invalid workflow id")
)

// WorkflowError records which store operation failed for which workflow.
type WorkflowError struct {
	Op         string // "WorkflowByID", "SaveWorkflow", ...
	WorkflowID string
	Err        error
	Message    string
}

func (e *WorkflowError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("snapshot store %s(%s): %s: %v", e.Op, e.WorkflowID, e.Message, e.Err)
	}

	return fmt.Sprintf("snapshot store %s(%s): %v", e.Op, e.WorkflowID, e.Err)
}

func (e *WorkflowError) Unwrap() error {
	return e.Err
}

func (e *WorkflowError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewWorkflowError creates a new workflow error with context.
func NewWorkflowError(op, workflowID string, err error) *WorkflowError {
	return &WorkflowError{
		Op:         op,
		WorkflowID: workflowID,
		Err:        err,
	}
}

// IsWorkflowNotFound checks if an error indicates a workflow was not found.
func IsWorkflowNotFound(err error) bool {
	return errors.Is(err, ErrWorkflowNotFound)
}

// IsInvalidWorkflowID checks if an error indicates an unusable workflow id.
func IsInvalidWorkflowID(err error) bool {
	return errors.Is(err, ErrInvalidWorkflowID)
}
