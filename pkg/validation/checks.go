package validation

import (
	"context"
	"fmt"
	"strings"

	"github.com/dukex/flowgraph/pkg/graph"
	"github.com/dukex/flowgraph/pkg/models"
)

func portLabel(port models.Port) string {
	if port.Name != "" {
		return port.Name
	}

	return port.ID
}

func (v *Validator) checkRequiredInputs(_ context.Context, ix *graph.Index) ([]models.ValidationIssue, error) {
	issues := make([]models.ValidationIssue, 0)

	for _, node := range ix.Nodes() {
		for _, input := range node.Inputs {
			if !input.Required || len(ix.Incoming(node.ID, input.ID)) > 0 {
				continue
			}

			issues = append(issues, models.ValidationIssue{
				Kind:     models.IssueMissingRequiredInput,
				Severity: models.SeverityError,
				Message:  fmt.Sprintf("node %s is missing required input %q", node.ID, portLabel(input)),
				NodeID:   node.ID,
			})
		}
	}

	return issues, nil
}

func (v *Validator) checkInvalidConnections(_ context.Context, ix *graph.Index) ([]models.ValidationIssue, error) {
	issues := make([]models.ValidationIssue, 0, len(ix.InvalidEdges()))

	for _, invalid := range ix.InvalidEdges() {
		issues = append(issues, models.ValidationIssue{
			Kind:     models.IssueInvalidConnection,
			Severity: models.SeverityError,
			Message: fmt.Sprintf("connection %s -> %s is invalid: %s",
				invalid.Edge.SourcePort(), invalid.Edge.TargetPort(), invalid.Defect),
			EdgeID: invalid.Edge.ID,
		})
	}

	return issues, nil
}

func (v *Validator) checkMultipleConnections(_ context.Context, ix *graph.Index) ([]models.ValidationIssue, error) {
	issues := make([]models.ValidationIssue, 0)

	for _, node := range ix.Nodes() {
		for _, input := range node.Inputs {
			incoming := ix.Incoming(node.ID, input.ID)
			if input.AcceptsMultiple || len(incoming) <= 1 {
				continue
			}

			issues = append(issues, models.ValidationIssue{
				Kind:     models.IssueMultipleConnections,
				Severity: models.SeverityError,
				Message: fmt.Sprintf("input %q of node %s accepts one connection but has %d",
					portLabel(input), node.ID, len(incoming)),
				NodeID: node.ID,
			})
		}
	}

	return issues, nil
}

func (v *Validator) checkPortCompatibility(_ context.Context, ix *graph.Index) ([]models.ValidationIssue, error) {
	issues := make([]models.ValidationIssue, 0)

	for _, resolved := range ix.ResolvedEdges() {
		source, target := resolved.SourcePort.PortType, resolved.TargetPort.PortType

		check := v.matrix.Check(source, target)
		if check.Compatible {
			continue
		}

		issues = append(issues, models.ValidationIssue{
			Kind:     models.IssuePortIncompatible,
			Severity: models.SeverityError,
			Message: fmt.Sprintf("cannot connect %s output %s to %s input %s: %s",
				source, resolved.Edge.SourcePort(), target, resolved.Edge.TargetPort(), check.Reason),
			NodeID: resolved.Edge.TargetNodeID,
			EdgeID: resolved.Edge.ID,
		})
	}

	return issues, nil
}

func (v *Validator) checkCycles(ctx context.Context, ix *graph.Index) ([]models.ValidationIssue, error) {
	members, err := ix.CycleMembers(ctx)
	if err != nil {
		return nil, err
	}

	if len(members) == 0 {
		return nil, nil
	}

	return []models.ValidationIssue{{
		Kind:     models.IssueCycleDetected,
		Severity: models.SeverityError,
		Message:  "cycle detected among nodes: " + strings.Join(members, ", "),
		NodeIDs:  members,
	}}, nil
}

// isolatedNodes returns nodes without any resolved edge that the standalone policy does not exempt.
func (v *Validator) isolatedNodes(ix *graph.Index) []*models.Node {
	isolated := make([]*models.Node, 0)

	for _, node := range ix.Nodes() {
		if ix.InDegree(node.ID) > 0 || ix.OutDegree(node.ID) > 0 {
			continue
		}

		if v.standalone.IsStandalone(node) {
			continue
		}

		isolated = append(isolated, node)
	}

	return isolated
}
