// Package services provides the validation façade and the workflow snapshot service.
package services

import (
	"errors"
	"fmt"
)

// Business Logic Errors - These indicate client errors (4xx responses).
var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrWorkflowIDRequired = errors.New("workflow id is required")
	ErrGraphRequired      = errors.New("graph is required")
)

// Façade errors. They never reach callers of Validation; they drive the fallback decision.
var (
	// ErrRemoteUnavailable indicates the remote validation endpoint could not produce a result.
	ErrRemoteUnavailable = errors.New("remote validation unavailable")

	// ErrUnresolvableGraph indicates a graph reference carried no snapshot and none was stored.
	ErrUnresolvableGraph = errors.New("graph reference cannot be resolved")
)

// ServiceError wraps service-level errors with additional context.
type ServiceError struct {
	Op      string // Operation name
	Code    string // Error code for API responses
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// RemoteError describes a failed call to the remote validation endpoint.
type RemoteError struct {
	Op         string
	WorkflowID string
	StatusCode int // Zero when no response was received
	Err        error
}

func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("remote %s for workflow %s failed with status %d: %v", e.Op, e.WorkflowID, e.StatusCode, e.Err)
	}

	return fmt.Sprintf("remote %s for workflow %s failed: %v", e.Op, e.WorkflowID, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Is matches ErrRemoteUnavailable for every remote failure as well as the wrapped cause.
func (e *RemoteError) Is(target error) bool {
	return target == ErrRemoteUnavailable || errors.Is(e.Err, target)
}

// IsValidationError checks if an error is a validation error that should return HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrWorkflowIDRequired) ||
		errors.Is(err, ErrGraphRequired)
}

// IsRemoteUnavailable checks if an error came from the remote validation path.
func IsRemoteUnavailable(err error) bool {
	return errors.Is(err, ErrRemoteUnavailable)
}

// NewValidationError creates a new validation error with context.
func NewValidationError(op, code, message string, err error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
