// Package compat implements the port-type compatibility matrix.
package compat

import (
	"fmt"
	"sort"

	"github.com/dukex/flowgraph/pkg/models"
)

// Matrix answers whether a source port type may feed a target port type. It is immutable once
// built and safe for concurrent use.
type Matrix struct {
	types   map[models.PortType]struct{}
	accepts map[models.PortType]map[models.PortType]struct{} // target -> accepted sources
}

// Compatible reports whether an output of type source may connect to an input of type target.
// `any` is universal in both directions; unknown types are never compatible.
func (m *Matrix) Compatible(source, target models.PortType) bool {
	ok, _ := m.check(source, target)

	return ok
}

// Check is Compatible with a human-readable reason.
func (m *Matrix) Check(source, target models.PortType) models.CompatibilityResult {
	ok, reason := m.check(source, target)

	return models.CompatibilityResult{Compatible: ok, Reason: reason}
}

func (m *Matrix) check(source, target models.PortType) (bool, string) {
	if target == models.PortTypeAny {
		return true, fmt.Sprintf("'any' input accepts %s", source)
	}

	if source == models.PortTypeAny {
		return true, fmt.Sprintf("'any' output may feed %s", target)
	}

	if source == "" || target == "" {
		return false, "port type must not be empty"
	}

	if !m.Known(source) {
		return false, fmt.Sprintf("unknown port type %q", source)
	}

	if !m.Known(target) {
		return false, fmt.Sprintf("unknown port type %q", target)
	}

	if _, ok := m.accepts[target][source]; ok {
		if source == target {
			return true, fmt.Sprintf("%s connects to %s", source, target)
		}

		return true, fmt.Sprintf("%s input accepts %s output", target, source)
	}

	return false, fmt.Sprintf("%s input does not accept %s output", target, source)
}

// Known reports whether a type is registered. `any` is always known.
func (m *Matrix) Known(portType models.PortType) bool {
	if portType == models.PortTypeAny {
		return true
	}

	_, ok := m.types[portType]

	return ok
}

// Types returns every registered type, including `any`, sorted by name.
func (m *Matrix) Types() []models.PortType {
	types := make([]models.PortType, 0, len(m.types)+1)
	types = append(types, models.PortTypeAny)

	for t := range m.types {
		types = append(types, t)
	}

	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	return types
}

// AcceptedSources returns the source types a target accepts, excluding `any`, sorted by name.
func (m *Matrix) AcceptedSources(target models.PortType) []models.PortType {
	sources := make([]models.PortType, 0, len(m.accepts[target]))
	for s := range m.accepts[target] {
		sources = append(sources, s)
	}

	sort.Slice(sources, func(i, j int) bool { return sources[i] < sources[j] })

	return sources
}
