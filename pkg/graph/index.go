// Package graph builds a read-only index over a graph snapshot: declaration order, resolved edges,
// per-node neighbors and degrees, per-port incoming edges, and cycle detection. The validator and
// the planner both work from this index so the edge resolution and cycle logic exist once.
package graph

import (
	"fmt"
	"sort"

	"github.com/dukex/flowgraph/pkg/models"
)

// EdgeDefect explains why an edge could not be resolved.
type EdgeDefect string

const (
	DefectUnknownSourceNode EdgeDefect = "unknown source node"
	DefectUnknownTargetNode EdgeDefect = "unknown target node"
	DefectUnknownSourcePort EdgeDefect = "source port is not an output of its node"
	DefectUnknownTargetPort EdgeDefect = "target port is not an input of its node"
)

// InvalidEdge is an edge whose references do not resolve within the snapshot.
type InvalidEdge struct {
	Edge   *models.Edge
	Defect EdgeDefect
}

// ResolvedEdge is an edge whose endpoints resolved to concrete ports.
type ResolvedEdge struct {
	Edge       *models.Edge
	SourcePort models.Port
	TargetPort models.Port
}

// Index is an immutable view of a snapshot. The snapshot itself is never modified.
type Index struct {
	nodes        []*models.Node
	position     map[string]int
	successors   map[string][]string
	predecessors map[string][]string
	incoming     map[string][]*models.Edge // keyed by models.MakePortID(target node, target port)
	resolved     []ResolvedEdge
	invalid      []InvalidEdge
}

// New validates the snapshot's own metadata and indexes it. Malformed connections are recorded as
// invalid edges; malformed nodes and ports are programmer errors.
func New(g *models.Graph) (*Index, error) {
	if g == nil {
		return nil, &GraphError{Op: "index", Err: ErrNilGraph}
	}

	ix := &Index{
		nodes:        make([]*models.Node, 0, len(g.Nodes)),
		position:     make(map[string]int, len(g.Nodes)),
		successors:   make(map[string][]string, len(g.Nodes)),
		predecessors: make(map[string][]string, len(g.Nodes)),
		incoming:     make(map[string][]*models.Edge),
	}

	for _, node := range g.Nodes {
		if err := checkNode(node); err != nil {
			return nil, err
		}

		if _, exists := ix.position[node.ID]; exists {
			return nil, &GraphError{Op: "index", NodeID: node.ID, Msg: "duplicate node id", Err: ErrCorruptGraph}
		}

		ix.position[node.ID] = len(ix.nodes)
		ix.nodes = append(ix.nodes, node)
	}

	if err := ix.indexEdges(g.Edges); err != nil {
		return nil, err
	}

	return ix, nil
}

func checkNode(node *models.Node) error {
	if node == nil {
		return &GraphError{Op: "index", Msg: "nil node", Err: ErrCorruptGraph}
	}

	if node.ID == "" {
		return &GraphError{Op: "index", Msg: "node without id", Err: ErrCorruptGraph}
	}

	// Edges address ports by direction, so ids only need to be unique per side.
	for _, ports := range [][]models.Port{node.Inputs, node.Outputs} {
		seen := make(map[string]struct{}, len(ports))

		for _, port := range ports {
			if port.ID == "" {
				return &GraphError{Op: "index", NodeID: node.ID, Msg: "port without id", Err: ErrCorruptPortMetadata}
			}

			if port.PortType == "" {
				return &GraphError{Op: "index", NodeID: node.ID, PortID: port.ID, Msg: "port without type", Err: ErrCorruptPortMetadata}
			}

			if _, dup := seen[port.ID]; dup {
				return &GraphError{Op: "index", NodeID: node.ID, PortID: port.ID, Msg: "duplicate port id", Err: ErrCorruptPortMetadata}
			}

			seen[port.ID] = struct{}{}
		}
	}

	return nil
}

func (ix *Index) indexEdges(edges []*models.Edge) error {
	edgeIDs := make(map[string]struct{}, len(edges))
	linked := make(map[[2]string]struct{}, len(edges))

	for _, edge := range edges {
		if edge == nil {
			return &GraphError{Op: "index", Msg: "nil edge", Err: ErrCorruptGraph}
		}

		if _, dup := edgeIDs[edge.ID]; dup && edge.ID != "" {
			return &GraphError{Op: "index", EdgeID: edge.ID, Msg: "duplicate edge id", Err: ErrCorruptGraph}
		}

		edgeIDs[edge.ID] = struct{}{}

		resolved, defect := ix.resolve(edge)
		if defect != "" {
			ix.invalid = append(ix.invalid, InvalidEdge{Edge: edge, Defect: defect})

			continue
		}

		ix.resolved = append(ix.resolved, resolved)

		key := edge.TargetPort()
		ix.incoming[key] = append(ix.incoming[key], edge)

		pair := [2]string{edge.SourceNodeID, edge.TargetNodeID}
		if _, seen := linked[pair]; seen {
			continue
		}

		linked[pair] = struct{}{}
		ix.successors[edge.SourceNodeID] = append(ix.successors[edge.SourceNodeID], edge.TargetNodeID)
		ix.predecessors[edge.TargetNodeID] = append(ix.predecessors[edge.TargetNodeID], edge.SourceNodeID)
	}

	for id := range ix.successors {
		ix.sortByPosition(ix.successors[id])
	}

	for id := range ix.predecessors {
		ix.sortByPosition(ix.predecessors[id])
	}

	return nil
}

func (ix *Index) resolve(edge *models.Edge) (ResolvedEdge, EdgeDefect) {
	source, ok := ix.Node(edge.SourceNodeID)
	if !ok {
		return ResolvedEdge{}, DefectUnknownSourceNode
	}

	target, ok := ix.Node(edge.TargetNodeID)
	if !ok {
		return ResolvedEdge{}, DefectUnknownTargetNode
	}

	sourcePort, ok := source.Output(edge.SourcePortID)
	if !ok {
		return ResolvedEdge{}, DefectUnknownSourcePort
	}

	targetPort, ok := target.Input(edge.TargetPortID)
	if !ok {
		return ResolvedEdge{}, DefectUnknownTargetPort
	}

	return ResolvedEdge{Edge: edge, SourcePort: sourcePort, TargetPort: targetPort}, ""
}

// Nodes returns the nodes in declaration order.
func (ix *Index) Nodes() []*models.Node {
	return ix.nodes
}

// Len returns the number of nodes.
func (ix *Index) Len() int {
	return len(ix.nodes)
}

// Node returns a node by id.
func (ix *Index) Node(id string) (*models.Node, bool) {
	pos, ok := ix.position[id]
	if !ok {
		return nil, false
	}

	return ix.nodes[pos], true
}

// Position returns a node's declaration index, or -1.
func (ix *Index) Position(id string) int {
	pos, ok := ix.position[id]
	if !ok {
		return -1
	}

	return pos
}

// Successors returns the distinct direct dependents of a node in declaration order.
func (ix *Index) Successors(id string) []string {
	return ix.successors[id]
}

// Predecessors returns the distinct direct dependencies of a node in declaration order.
func (ix *Index) Predecessors(id string) []string {
	return ix.predecessors[id]
}

// InDegree counts distinct nodes with a resolved edge into id.
func (ix *Index) InDegree(id string) int {
	return len(ix.predecessors[id])
}

// OutDegree counts distinct nodes with a resolved edge out of id.
func (ix *Index) OutDegree(id string) int {
	return len(ix.successors[id])
}

// Incoming returns the resolved edges that terminate on an input port.
func (ix *Index) Incoming(nodeID, portID string) []*models.Edge {
	return ix.incoming[models.MakePortID(nodeID, portID)]
}

// ResolvedEdges returns the edges whose endpoints resolved, in declaration order.
func (ix *Index) ResolvedEdges() []ResolvedEdge {
	return ix.resolved
}

// InvalidEdges returns the edges that could not be resolved, in declaration order.
func (ix *Index) InvalidEdges() []InvalidEdge {
	return ix.invalid
}

// sortByPosition orders node ids by declaration order, in place.
func (ix *Index) sortByPosition(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		return ix.position[ids[i]] < ix.position[ids[j]]
	})
}

// SortedByPosition returns a copy of ids in declaration order.
func (ix *Index) SortedByPosition(ids []string) []string {
	sorted := append([]string(nil), ids...)
	ix.sortByPosition(sorted)

	return sorted
}

func (d InvalidEdge) String() string {
	return fmt.Sprintf("edge %s (%s -> %s): %s", d.Edge.ID, d.Edge.SourcePort(), d.Edge.TargetPort(), d.Defect)
}
