// Package planner computes execution order and parallel groups for a graph snapshot.
package planner

import (
	"context"
	"log/slog"

	"github.com/dukex/flowgraph/pkg/graph"
	"github.com/dukex/flowgraph/pkg/models"
)

type Planner struct {
	logger *slog.Logger
}

func NewPlanner(logger *slog.Logger) *Planner {
	return &Planner{logger: logger.With("module", "planner")}
}

// Plan layers the graph with Kahn's algorithm. Each group holds the nodes whose dependencies are
// all in earlier groups, in declaration order; Order is the groups flattened. Unresolvable edges
// are ignored. On a cyclic graph HasCycles is set and Order/ParallelGroups are partial.
func (p *Planner) Plan(ctx context.Context, g *models.Graph) (*models.ExecutionOrderResult, error) {
	ix, err := graph.New(g)
	if err != nil {
		return nil, err
	}

	return p.PlanIndex(ctx, ix)
}

// PlanIndex is Plan over an already built index.
func (p *Planner) PlanIndex(ctx context.Context, ix *graph.Index) (*models.ExecutionOrderResult, error) {
	inDegree := make(map[string]int, ix.Len())
	ready := make([]string, 0)

	for _, node := range ix.Nodes() {
		inDegree[node.ID] = ix.InDegree(node.ID)
		if inDegree[node.ID] == 0 {
			ready = append(ready, node.ID)
		}
	}

	result := &models.ExecutionOrderResult{
		Order:          make([]string, 0, ix.Len()),
		ParallelGroups: make([][]string, 0),
	}

	for len(ready) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result.ParallelGroups = append(result.ParallelGroups, ready)
		result.Order = append(result.Order, ready...)

		next := make([]string, 0)

		for _, id := range ready {
			for _, successor := range ix.Successors(id) {
				inDegree[successor]--
				if inDegree[successor] == 0 {
					next = append(next, successor)
				}
			}
		}

		ready = ix.SortedByPosition(next)
	}

	if len(result.Order) < ix.Len() {
		members, err := ix.CycleMembers(ctx)
		if err != nil {
			return nil, err
		}

		result.HasCycles = true
		result.CycleNodes = members
	}

	p.logger.DebugContext(ctx, "Planned execution order",
		"nodes", ix.Len(),
		"groups", len(result.ParallelGroups),
		"has_cycles", result.HasCycles,
	)

	return result, nil
}
