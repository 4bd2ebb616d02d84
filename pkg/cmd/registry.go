// Package cmd provides common initialization functions for command-line applications.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/dukex/flowgraph/pkg/compat"
	"github.com/dukex/flowgraph/pkg/registry"
)

// NewRegistry returns the node-type catalog with the built-in node types.
func NewRegistry(log *slog.Logger) (*registry.Registry, error) {
	reg := registry.NewRegistry(log)

	if err := reg.RegisterDefaultNodes(); err != nil {
		return nil, fmt.Errorf("failed to register node types: %w", err)
	}

	return reg, nil
}

// NewMatrix builds the port compatibility matrix from the built-in domains plus the domains
// declared in portTypesFile, when set.
func NewMatrix(portTypesFile string) (*compat.Matrix, error) {
	if portTypesFile == "" {
		return compat.NewDefaultMatrix()
	}

	extra, err := compat.LoadDomainsFile(portTypesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load port types from %s: %w", portTypesFile, err)
	}

	return compat.NewDefaultMatrix(extra...)
}
