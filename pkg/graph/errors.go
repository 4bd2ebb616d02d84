package graph

import (
	"errors"
	"fmt"
)

// Programmer-error conditions. These are returned as errors, never reported as issues.
var (
	ErrNilGraph            = errors.New("graph reference is nil")
	ErrCorruptGraph        = errors.New("graph snapshot is corrupt")
	ErrCorruptPortMetadata = errors.New("port metadata is corrupt")
)

// GraphError wraps a snapshot defect with the location it was found at.
type GraphError struct {
	Op     string // Operation being performed
	NodeID string // Node ID if applicable
	PortID string // Port ID if applicable
	EdgeID string // Edge ID if applicable
	Msg    string
	Err    error
}

func (e *GraphError) Error() string {
	location := ""

	switch {
	case e.PortID != "":
		location = fmt.Sprintf(" (node %s, port %s)", e.NodeID, e.PortID)
	case e.NodeID != "":
		location = fmt.Sprintf(" (node %s)", e.NodeID)
	case e.EdgeID != "":
		location = fmt.Sprintf(" (edge %s)", e.EdgeID)
	}

	if e.Msg != "" {
		return fmt.Sprintf("%s: %v: %s%s", e.Op, e.Err, e.Msg, location)
	}

	return fmt.Sprintf("%s: %v%s", e.Op, e.Err, location)
}

func (e *GraphError) Unwrap() error {
	return e.Err
}

func (e *GraphError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsProgrammerError reports whether err is a snapshot defect rather than an operational failure.
func IsProgrammerError(err error) bool {
	return errors.Is(err, ErrNilGraph) ||
		errors.Is(err, ErrCorruptGraph) ||
		errors.Is(err, ErrCorruptPortMetadata)
}
