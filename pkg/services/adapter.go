package services

import (
	"context"

	"github.com/dukex/flowgraph/pkg/compat"
	"github.com/dukex/flowgraph/pkg/graph"
	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/planner"
	"github.com/dukex/flowgraph/pkg/registry"
	"github.com/dukex/flowgraph/pkg/validation"
)

// Adapter computes results for the façade. Both implementations return the same contract.
type Adapter interface {
	Name() string
	Validate(ctx context.Context, workflowID string, g *models.Graph, opts models.ValidateOptions) (*models.ValidationResult, error)
	ExecutionOrder(ctx context.Context, workflowID string, g *models.Graph) (*models.ExecutionOrderResult, error)
	CheckPortCompatibility(ctx context.Context, source, target models.PortType) (*models.CompatibilityResult, error)
}

// LocalAdapter runs the validator, planner and matrix in process.
type LocalAdapter struct {
	validator *validation.Validator
	planner   *planner.Planner
	matrix    *compat.Matrix
	catalog   *registry.Registry
}

// NewLocalAdapter creates the in-process adapter. A non-nil catalog fills in ports for nodes
// declared without them before any check runs.
func NewLocalAdapter(validator *validation.Validator, planner *planner.Planner, matrix *compat.Matrix, catalog *registry.Registry) *LocalAdapter {
	return &LocalAdapter{
		validator: validator,
		planner:   planner,
		matrix:    matrix,
		catalog:   catalog,
	}
}

func (a *LocalAdapter) Name() string {
	return "local"
}

func (a *LocalAdapter) index(g *models.Graph) (*graph.Index, error) {
	if a.catalog != nil {
		g = a.catalog.Hydrate(g)
	}

	return graph.New(g)
}

func (a *LocalAdapter) Validate(ctx context.Context, _ string, g *models.Graph, opts models.ValidateOptions) (*models.ValidationResult, error) {
	ix, err := a.index(g)
	if err != nil {
		return nil, err
	}

	return a.validator.ValidateIndex(ctx, ix, opts)
}

func (a *LocalAdapter) ExecutionOrder(ctx context.Context, _ string, g *models.Graph) (*models.ExecutionOrderResult, error) {
	ix, err := a.index(g)
	if err != nil {
		return nil, err
	}

	return a.planner.PlanIndex(ctx, ix)
}

func (a *LocalAdapter) CheckPortCompatibility(_ context.Context, source, target models.PortType) (*models.CompatibilityResult, error) {
	result := a.matrix.Check(source, target)

	return &result, nil
}
