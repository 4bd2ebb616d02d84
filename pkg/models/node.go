package models

// Node categories the catalog may attach to a node. Categories are free-form strings; these are the
// ones the validator knows about.
const (
	CategoryGenerator  = "generator"
	CategorySource     = "source"
	CategoryTransform  = "transform"
	CategorySink       = "sink"
	CategoryAnnotation = "annotation"
)

// Node represents a node instance in a workflow graph.
type Node struct {
	ID       string `json:"id"                 validate:"required"`
	NodeType string `json:"node_type"          validate:"required"`
	Category string `json:"category,omitempty"`
	Inputs   []Port `json:"inputs"             validate:"dive"`
	Outputs  []Port `json:"outputs"            validate:"dive"`
}

// Input returns the input port with the given id.
func (n *Node) Input(portID string) (Port, bool) {
	return findPort(n.Inputs, portID)
}

// Output returns the output port with the given id.
func (n *Node) Output(portID string) (Port, bool) {
	return findPort(n.Outputs, portID)
}

func findPort(ports []Port, portID string) (Port, bool) {
	for _, p := range ports {
		if p.ID == portID {
			return p, true
		}
	}

	return Port{}, false
}

// Edge connects an output port of one node to an input port of another.
type Edge struct {
	ID           string `json:"id"             validate:"required"`
	SourceNodeID string `json:"source_node_id" validate:"required"`
	SourcePortID string `json:"source_port_id" validate:"required"`
	TargetNodeID string `json:"target_node_id" validate:"required"`
	TargetPortID string `json:"target_port_id" validate:"required"`
}

// SourcePort returns the "{node}:{port}" address of the edge source.
func (e *Edge) SourcePort() string {
	return MakePortID(e.SourceNodeID, e.SourcePortID)
}

// TargetPort returns the "{node}:{port}" address of the edge target.
func (e *Edge) TargetPort() string {
	return MakePortID(e.TargetNodeID, e.TargetPortID)
}

// Graph is a read-only snapshot of the editor graph. Slice order is the declaration order used for
// deterministic output.
type Graph struct {
	Nodes []*Node `json:"nodes" validate:"dive"`
	Edges []*Edge `json:"edges" validate:"dive"`
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*Node, bool) {
	for _, n := range g.Nodes {
		if n != nil && n.ID == id {
			return n, true
		}
	}

	return nil, false
}
