// Package testutil provides graph snapshot builders for tests.
package testutil

import (
	"fmt"

	"github.com/dukex/flowgraph/pkg/models"
)

// GraphBuilder assembles a graph snapshot in declaration order.
type GraphBuilder struct {
	graph *models.Graph
}

// NewGraph starts an empty snapshot.
func NewGraph() *GraphBuilder {
	return &GraphBuilder{graph: &models.Graph{
		Nodes: []*models.Node{},
		Edges: []*models.Edge{},
	}}
}

// Node appends a node with the given ports.
func (b *GraphBuilder) Node(id, nodeType string, overrides ...func(*models.Node)) *GraphBuilder {
	b.graph.Nodes = append(b.graph.Nodes, CreateTestNode(id, nodeType, overrides...))

	return b
}

// Passthrough appends a node with one optional multi-input "in" and one output "out", both `any`.
func (b *GraphBuilder) Passthrough(ids ...string) *GraphBuilder {
	for _, id := range ids {
		b.Node(id, "passthrough",
			WithInput("in", models.PortTypeAny, Multiple()),
			WithOutput("out", models.PortTypeAny),
		)
	}

	return b
}

// Connect appends an edge with a generated id.
func (b *GraphBuilder) Connect(sourceNode, sourcePort, targetNode, targetPort string) *GraphBuilder {
	b.graph.Edges = append(b.graph.Edges, &models.Edge{
		ID:           fmt.Sprintf("e%d", len(b.graph.Edges)+1),
		SourceNodeID: sourceNode,
		SourcePortID: sourcePort,
		TargetNodeID: targetNode,
		TargetPortID: targetPort,
	})

	return b
}

// Link connects two passthrough nodes.
func (b *GraphBuilder) Link(from, to string) *GraphBuilder {
	return b.Connect(from, "out", to, "in")
}

// Build returns the snapshot.
func (b *GraphBuilder) Build() *models.Graph {
	return b.graph
}

// CreateTestNode creates a node with no ports that can be customized with overrides.
func CreateTestNode(id, nodeType string, overrides ...func(*models.Node)) *models.Node {
	node := &models.Node{
		ID:       id,
		NodeType: nodeType,
		Inputs:   []models.Port{},
		Outputs:  []models.Port{},
	}

	for _, override := range overrides {
		override(node)
	}

	return node
}

// WithInput adds an input port.
func WithInput(id string, portType models.PortType, options ...func(*models.Port)) func(*models.Node) {
	return func(n *models.Node) {
		n.Inputs = append(n.Inputs, newPort(id, portType, options))
	}
}

// WithOutput adds an output port.
func WithOutput(id string, portType models.PortType, options ...func(*models.Port)) func(*models.Node) {
	return func(n *models.Node) {
		n.Outputs = append(n.Outputs, newPort(id, portType, options))
	}
}

// WithCategory sets the node category.
func WithCategory(category string) func(*models.Node) {
	return func(n *models.Node) {
		n.Category = category
	}
}

// Required marks a port as required.
func Required() func(*models.Port) {
	return func(p *models.Port) {
		p.Required = true
	}
}

// Multiple lets an input accept more than one edge.
func Multiple() func(*models.Port) {
	return func(p *models.Port) {
		p.AcceptsMultiple = true
	}
}

func newPort(id string, portType models.PortType, options []func(*models.Port)) models.Port {
	port := models.Port{ID: id, Name: id, PortType: portType}
	for _, option := range options {
		option(&port)
	}

	return port
}
