// Package validation implements the structural validator: independent checks over a graph snapshot
// whose issues are merged into one ValidationResult.
package validation

import (
	"context"
	"log/slog"
	"sort"

	"github.com/dukex/flowgraph/pkg/graph"
	"github.com/dukex/flowgraph/pkg/models"
)

// CompatibilityChecker decides whether two port types may be connected.
type CompatibilityChecker interface {
	Check(source, target models.PortType) models.CompatibilityResult
}

// StandalonePolicy decides which nodes are valid without any connection.
type StandalonePolicy interface {
	IsStandalone(node *models.Node) bool
}

// CategoryPolicy exempts nodes by their own category only.
type CategoryPolicy []string

func (p CategoryPolicy) IsStandalone(node *models.Node) bool {
	for _, category := range p {
		if node.Category == category {
			return true
		}
	}

	return false
}

type Validator struct {
	logger     *slog.Logger
	matrix     CompatibilityChecker
	standalone StandalonePolicy
}

// NewValidator creates a validator. A nil standalone policy exempts the sink and annotation
// categories.
func NewValidator(logger *slog.Logger, matrix CompatibilityChecker, standalone StandalonePolicy) *Validator {
	if standalone == nil {
		standalone = CategoryPolicy{models.CategorySink, models.CategoryAnnotation}
	}

	return &Validator{
		logger:     logger.With("module", "validator"),
		matrix:     matrix,
		standalone: standalone,
	}
}

// Validate runs every check enabled by opts and merges the findings. Malformed connections are
// reported as issues; a nil graph or corrupt node/port metadata is returned as a *graph.GraphError.
func (v *Validator) Validate(ctx context.Context, g *models.Graph, opts models.ValidateOptions) (*models.ValidationResult, error) {
	ix, err := graph.New(g)
	if err != nil {
		return nil, err
	}

	return v.ValidateIndex(ctx, ix, opts)
}

// ValidateIndex is Validate over an already built index.
func (v *Validator) ValidateIndex(ctx context.Context, ix *graph.Index, opts models.ValidateOptions) (*models.ValidationResult, error) {
	checks := []func(context.Context, *graph.Index) ([]models.ValidationIssue, error){
		v.checkRequiredInputs,
	}

	if opts.ValidateConnections {
		checks = append(checks, v.checkInvalidConnections, v.checkMultipleConnections, v.checkPortCompatibility)
	}

	if opts.CheckCycles {
		checks = append(checks, v.checkCycles)
	}

	issues := make([]models.ValidationIssue, 0)

	for _, check := range checks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		found, err := check(ctx, ix)
		if err != nil {
			return nil, err
		}

		issues = append(issues, found...)
	}

	isolated := v.isolatedNodes(ix)
	for _, node := range isolated {
		issues = append(issues, models.ValidationIssue{
			Kind:     models.IssueIsolatedNode,
			Severity: models.SeverityWarning,
			Message:  "node " + node.ID + " is not connected to any other node",
			NodeID:   node.ID,
		})
	}

	if !opts.IncludeWarnings {
		issues = onlyErrors(issues)
	}

	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Severity.Rank() < issues[j].Severity.Rank()
	})

	result := &models.ValidationResult{
		Issues: issues,
		Stats: models.ValidationStats{
			TotalNodes:     ix.Len(),
			IsolatedNodes:  len(isolated),
			ConnectedNodes: ix.Len() - len(isolated),
		},
	}
	result.Valid = !result.HasBlockingIssues()

	v.logger.DebugContext(ctx, "Validated graph",
		"nodes", result.Stats.TotalNodes,
		"issues", len(result.Issues),
		"valid", result.Valid,
	)

	return result, nil
}

func onlyErrors(issues []models.ValidationIssue) []models.ValidationIssue {
	kept := make([]models.ValidationIssue, 0, len(issues))

	for _, issue := range issues {
		if issue.Severity == models.SeverityError {
			kept = append(kept, issue)
		}
	}

	return kept
}
