package compat

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dukex/flowgraph/pkg/models"
)

var (
	ErrEmptyDomain      = errors.New("domain name is required")
	ErrDuplicateDomain  = errors.New("domain already registered")
	ErrUnknownPortType  = errors.New("compatibility row references unregistered port type")
	ErrReservedPortType = errors.New("port type is reserved")
)

// Domain is one module's contribution to the matrix: the port types it introduces and, per target
// type, the source types that target accepts. Rows may reference types owned by other domains.
type Domain struct {
	Name    string                                `json:"name"    yaml:"name"`
	Types   []models.PortType                     `json:"types"   yaml:"types"`
	Accepts map[models.PortType][]models.PortType `json:"accepts" yaml:"accepts"`
}

// Registry collects domains at startup. Build freezes them into a Matrix.
type Registry struct {
	mu      sync.Mutex
	domains []Domain
	names   map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		names: make(map[string]struct{}),
	}
}

// Register adds a domain. Names must be unique.
func (r *Registry) Register(domain Domain) error {
	if domain.Name == "" {
		return ErrEmptyDomain
	}

	for _, t := range domain.Types {
		if t == models.PortTypeAny || t == "" {
			return fmt.Errorf("%w: %q in domain %s", ErrReservedPortType, t, domain.Name)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.names[domain.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateDomain, domain.Name)
	}

	r.names[domain.Name] = struct{}{}
	r.domains = append(r.domains, domain)

	return nil
}

// Build validates every row against the registered types and returns an immutable Matrix.
func (r *Registry) Build() (*Matrix, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matrix := &Matrix{
		types:   make(map[models.PortType]struct{}),
		accepts: make(map[models.PortType]map[models.PortType]struct{}),
	}

	for _, domain := range r.domains {
		for _, t := range domain.Types {
			matrix.types[t] = struct{}{}
		}
	}

	for t := range matrix.types {
		matrix.accepts[t] = map[models.PortType]struct{}{t: {}}
	}

	for _, domain := range r.domains {
		for target, sources := range domain.Accepts {
			if _, ok := matrix.types[target]; !ok {
				return nil, fmt.Errorf("%w: target %q in domain %s", ErrUnknownPortType, target, domain.Name)
			}

			for _, source := range sources {
				if _, ok := matrix.types[source]; !ok {
					return nil, fmt.Errorf("%w: source %q in domain %s", ErrUnknownPortType, source, domain.Name)
				}

				matrix.accepts[target][source] = struct{}{}
			}
		}
	}

	return matrix, nil
}

// Domains returns the registered domain names in registration order.
func (r *Registry) Domains() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.domains))
	for _, d := range r.domains {
		names = append(names, d.Name)
	}

	return names
}
