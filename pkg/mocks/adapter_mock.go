package mocks

import (
	"context"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/stretchr/testify/mock"
)

// MockAdapter is a mock implementation of services.Adapter interface.
type MockAdapter struct {
	mock.Mock
}

func (m *MockAdapter) Name() string {
	args := m.Called()

	return args.String(0)
}

func (m *MockAdapter) Validate(ctx context.Context, workflowID string, g *models.Graph, opts models.ValidateOptions) (*models.ValidationResult, error) {
	args := m.Called(ctx, workflowID, g, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.ValidationResult), args.Error(1)
}

func (m *MockAdapter) ExecutionOrder(ctx context.Context, workflowID string, g *models.Graph) (*models.ExecutionOrderResult, error) {
	args := m.Called(ctx, workflowID, g)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.ExecutionOrderResult), args.Error(1)
}

func (m *MockAdapter) CheckPortCompatibility(ctx context.Context, source, target models.PortType) (*models.CompatibilityResult, error) {
	args := m.Called(ctx, source, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.CompatibilityResult), args.Error(1)
}
