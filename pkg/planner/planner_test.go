package planner_test

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/dukex/flowgraph/pkg/graph"
	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/planner"
	"github.com/dukex/flowgraph/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plan(t *testing.T, g *models.Graph) *models.ExecutionOrderResult {
	t.Helper()

	result, err := planner.NewPlanner(slog.Default()).Plan(context.Background(), g)
	require.NoError(t, err)

	return result
}

func TestPlan_Examples(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		graph  *models.Graph
		order  []string
		groups [][]string
	}{
		{
			name: "single edge",
			graph: testutil.NewGraph().
				Node("A", "image-upload", testutil.WithOutput("image", models.PortTypeImage)).
				Node("B", "upscaler", testutil.WithInput("image", models.PortTypeImage, testutil.Required())).
				Connect("A", "image", "B", "image").
				Build(),
			order:  []string{"A", "B"},
			groups: [][]string{{"A"}, {"B"}},
		},
		{
			name: "independent pairs",
			graph: testutil.NewGraph().
				Passthrough("A1", "B1", "A2", "B2", "A3", "B3").
				Link("A1", "B1").Link("A2", "B2").Link("A3", "B3").
				Build(),
			order:  []string{"A1", "A2", "A3", "B1", "B2", "B3"},
			groups: [][]string{{"A1", "A2", "A3"}, {"B1", "B2", "B3"}},
		},
		{
			name: "diamond",
			graph: testutil.NewGraph().
				Passthrough("D", "C", "B", "A").
				Link("A", "B").Link("A", "C").Link("B", "D").Link("C", "D").
				Build(),
			order:  []string{"A", "C", "B", "D"},
			groups: [][]string{{"A"}, {"C", "B"}, {"D"}},
		},
		{
			name:   "empty graph",
			graph:  testutil.NewGraph().Build(),
			order:  []string{},
			groups: [][]string{},
		},
		{
			name: "dangling edge ignored",
			graph: testutil.NewGraph().
				Passthrough("A", "B").
				Link("A", "B").Link("ghost", "A").
				Build(),
			order:  []string{"A", "B"},
			groups: [][]string{{"A"}, {"B"}},
		},
		{
			name: "parallel edges count once",
			graph: testutil.NewGraph().
				Node("A", "gen", testutil.WithOutput("x", models.PortTypeAny), testutil.WithOutput("y", models.PortTypeAny)).
				Node("B", "use", testutil.WithInput("x", models.PortTypeAny), testutil.WithInput("y", models.PortTypeAny)).
				Connect("A", "x", "B", "x").
				Connect("A", "y", "B", "y").
				Build(),
			order:  []string{"A", "B"},
			groups: [][]string{{"A"}, {"B"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := plan(t, tt.graph)

			assert.False(t, result.HasCycles)
			assert.Empty(t, result.CycleNodes)
			assert.Equal(t, tt.order, result.Order)
			assert.Equal(t, tt.groups, result.ParallelGroups)
		})
	}
}

func TestPlan_Cycles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		graph      *models.Graph
		order      []string
		cycleNodes []string
	}{
		{
			name:       "two cycle",
			graph:      testutil.NewGraph().Passthrough("A", "B").Link("A", "B").Link("B", "A").Build(),
			order:      []string{},
			cycleNodes: []string{"A", "B"},
		},
		{
			name:       "self loop",
			graph:      testutil.NewGraph().Passthrough("A", "B").Link("A", "A").Build(),
			order:      []string{"B"},
			cycleNodes: []string{"A"},
		},
		{
			name: "partial order before cycle",
			graph: testutil.NewGraph().
				Passthrough("S", "X", "Y", "Z").
				Link("S", "X").Link("X", "Y").Link("Y", "X").Link("Y", "Z").
				Build(),
			order:      []string{"S"},
			cycleNodes: []string{"X", "Y"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := plan(t, tt.graph)

			assert.True(t, result.HasCycles)
			assert.Equal(t, tt.order, result.Order)
			assert.Equal(t, tt.cycleNodes, result.CycleNodes)
		})
	}
}

func TestPlan_TopologicalProperties(t *testing.T) {
	t.Parallel()

	b := testutil.NewGraph()
	for i := 19; i >= 0; i-- {
		b.Passthrough(fmt.Sprintf("n%d", i))
	}

	for i := 0; i < 20; i++ {
		for j := i + 1; j < 20; j++ {
			if (i*7+j*3)%5 == 0 {
				b.Link(fmt.Sprintf("n%d", i), fmt.Sprintf("n%d", j))
			}
		}
	}

	g := b.Build()
	result := plan(t, g)

	require.False(t, result.HasCycles)
	require.Len(t, result.Order, len(g.Nodes))

	index := make(map[string]int, len(result.Order))
	for i, id := range result.Order {
		index[id] = i
	}

	for _, edge := range g.Edges {
		assert.Less(t, index[edge.SourceNodeID], index[edge.TargetNodeID], "edge %s", edge.ID)
	}

	layer := make(map[string]int)
	flattened := make([]string, 0)

	for k, group := range result.ParallelGroups {
		for _, id := range group {
			layer[id] = k
			flattened = append(flattened, id)
		}
	}

	assert.ElementsMatch(t, result.Order, flattened)

	ix, err := graph.New(g)
	require.NoError(t, err)

	for id, k := range layer {
		for _, predecessor := range ix.Predecessors(id) {
			assert.Less(t, layer[predecessor], k, "%s depends on %s", id, predecessor)
		}
	}
}

func TestPlan_IsDeterministic(t *testing.T) {
	t.Parallel()

	g := testutil.NewGraph().
		Passthrough("c", "b", "a", "d").
		Link("a", "d").Link("b", "d").Link("c", "d").
		Build()

	first := plan(t, g)
	for range 10 {
		assert.Equal(t, first, plan(t, g))
	}

	assert.Equal(t, []string{"c", "b", "a", "d"}, first.Order)
}

func TestPlan_ProgrammerErrors(t *testing.T) {
	t.Parallel()

	p := planner.NewPlanner(slog.Default())

	_, err := p.Plan(context.Background(), nil)
	require.ErrorIs(t, err, graph.ErrNilGraph)

	_, err = p.Plan(context.Background(), testutil.NewGraph().Passthrough("A", "A").Build())
	require.ErrorIs(t, err, graph.ErrCorruptGraph)
}

func TestPlan_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := planner.NewPlanner(slog.Default()).Plan(ctx, testutil.NewGraph().Passthrough("A").Build())
	require.ErrorIs(t, err, context.Canceled)
}
