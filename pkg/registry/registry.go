// Package registry holds the node-type catalog: the declared ports of every node type and which
// node categories are valid on their own.
package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/dukex/flowgraph/pkg/models"
)

var (
	ErrNodeTypeRequired   = errors.New("node type id is required")
	ErrNodeTypeRegistered = errors.New("node type already registered")
)

// NodeType is the catalog entry for one kind of node.
type NodeType struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Standalone  bool          `json:"standalone"` // Valid without any connection
	Inputs      []models.Port `json:"inputs"`
	Outputs     []models.Port `json:"outputs"`
}

// DefaultStandaloneCategories are the node categories exempt from the isolated-node warning.
func DefaultStandaloneCategories() []string {
	return []string{models.CategorySink, models.CategoryAnnotation}
}

type Registry struct {
	logger               *slog.Logger
	mu                   sync.RWMutex
	nodeTypes            map[string]NodeType
	standaloneCategories map[string]struct{}
}

func NewRegistry(log *slog.Logger) *Registry {
	r := &Registry{
		logger:               log,
		nodeTypes:            make(map[string]NodeType),
		standaloneCategories: make(map[string]struct{}),
	}

	for _, category := range DefaultStandaloneCategories() {
		r.standaloneCategories[category] = struct{}{}
	}

	return r
}

// RegisterNodeType adds a node type to the catalog.
func (r *Registry) RegisterNodeType(nodeType NodeType) error {
	if nodeType.ID == "" {
		return ErrNodeTypeRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.nodeTypes[nodeType.ID]; exists {
		return fmt.Errorf("%w: %s", ErrNodeTypeRegistered, nodeType.ID)
	}

	r.nodeTypes[nodeType.ID] = nodeType
	r.logger.Debug("Registered node type", "node_type", nodeType.ID, "category", nodeType.Category)

	return nil
}

// SetStandaloneCategories replaces the categories exempt from the isolated-node warning.
func (r *Registry) SetStandaloneCategories(categories ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.standaloneCategories = make(map[string]struct{}, len(categories))
	for _, category := range categories {
		r.standaloneCategories[category] = struct{}{}
	}
}

// NodeType returns a catalog entry by id.
func (r *Registry) NodeType(id string) (NodeType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	nodeType, ok := r.nodeTypes[id]

	return nodeType, ok
}

// NodeTypes returns every catalog entry sorted by id.
func (r *Registry) NodeTypes() []NodeType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	nodeTypes := make([]NodeType, 0, len(r.nodeTypes))
	for _, nodeType := range r.nodeTypes {
		nodeTypes = append(nodeTypes, nodeType)
	}

	sort.Slice(nodeTypes, func(i, j int) bool { return nodeTypes[i].ID < nodeTypes[j].ID })

	return nodeTypes
}

// IsStandalone reports whether a node may legitimately have no connections. The node's own
// category wins; otherwise the catalog entry for its type decides.
func (r *Registry) IsStandalone(node *models.Node) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	category := node.Category

	nodeType, known := r.nodeTypes[node.NodeType]
	if known {
		if nodeType.Standalone {
			return true
		}

		if category == "" {
			category = nodeType.Category
		}
	}

	_, ok := r.standaloneCategories[category]

	return ok
}

// Hydrate returns a copy of the graph where nodes declared without ports take their ports and
// category from the catalog. The input graph is not modified; nodes that already carry ports are
// shared with the input.
func (r *Registry) Hydrate(g *models.Graph) *models.Graph {
	if g == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	hydrated := &models.Graph{
		Nodes: make([]*models.Node, 0, len(g.Nodes)),
		Edges: g.Edges,
	}

	for _, node := range g.Nodes {
		if node == nil || len(node.Inputs) > 0 || len(node.Outputs) > 0 {
			hydrated.Nodes = append(hydrated.Nodes, node)

			continue
		}

		nodeType, ok := r.nodeTypes[node.NodeType]
		if !ok {
			hydrated.Nodes = append(hydrated.Nodes, node)

			continue
		}

		clone := *node
		clone.Inputs = append([]models.Port(nil), nodeType.Inputs...)
		clone.Outputs = append([]models.Port(nil), nodeType.Outputs...)

		if clone.Category == "" {
			clone.Category = nodeType.Category
		}

		hydrated.Nodes = append(hydrated.Nodes, &clone)
	}

	return hydrated
}

// HealthCheck reports whether the catalog has been populated.
func (r *Registry) HealthCheck() (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.nodeTypes) == 0 {
		return "no node types registered", false
	}

	return fmt.Sprintf("%d node types registered", len(r.nodeTypes)), true
}
