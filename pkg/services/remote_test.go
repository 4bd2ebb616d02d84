package services_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteAdapter_Validate(t *testing.T) {
	t.Parallel()

	var received models.ValidateGraphRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/workflows/board%2F1/validate", r.URL.EscapedPath())
		assert.NotEmpty(t, r.Header.Get(services.RequestIDHeader))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		_ = json.NewEncoder(w).Encode(models.ValidationResult{
			Valid:  true,
			Issues: []models.ValidationIssue{},
			Stats:  models.ValidationStats{TotalNodes: 2, ConnectedNodes: 2},
		})
	}))
	defer server.Close()

	adapter := services.NewRemoteAdapter(testLogger(), server.URL+"/", nil, time.Second)
	assert.Equal(t, "remote", adapter.Name())

	opts := models.ValidateOptions{CheckCycles: true}

	result, err := adapter.Validate(context.Background(), "board/1", singleEdgeGraph(), opts)
	require.NoError(t, err)

	assert.True(t, result.Valid)
	assert.Equal(t, 2, result.Stats.TotalNodes)
	require.NotNil(t, received.Graph)
	assert.Len(t, received.Graph.Nodes, 2)
	require.NotNil(t, received.Options)
	assert.Equal(t, opts, *received.Options)
}

func TestRemoteAdapter_ExecutionOrderAndCompatibility(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/workflows/wf-1/execution-order":
			_ = json.NewEncoder(w).Encode(models.ExecutionOrderResult{
				Order:          []string{"A", "B"},
				ParallelGroups: [][]string{{"A"}, {"B"}},
			})
		case "/port-types/compatibility":
			assert.Equal(t, "text", r.URL.Query().Get("source"))
			assert.Equal(t, "prompt", r.URL.Query().Get("target"))

			_ = json.NewEncoder(w).Encode(models.CompatibilityResult{Compatible: true})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	adapter := services.NewRemoteAdapter(testLogger(), server.URL, server.Client(), 0)

	order, err := adapter.ExecutionOrder(context.Background(), "wf-1", singleEdgeGraph())
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, order.Order)

	compatibility, err := adapter.CheckPortCompatibility(context.Background(), models.PortTypeText, models.PortTypePrompt)
	require.NoError(t, err)
	assert.True(t, compatibility.Compatible)
}

func TestRemoteAdapter_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		handler    http.HandlerFunc
		statusCode int
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			statusCode: http.StatusInternalServerError,
		},
		{
			name: "response violates schema",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"valid": "yes", "issues": [], "stats": {}}`))
			},
			statusCode: http.StatusOK,
		},
		{
			name: "not json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`<html>`))
			},
			statusCode: http.StatusOK,
		},
		{
			name: "timeout",
			handler: func(_ http.ResponseWriter, r *http.Request) {
				select {
				case <-time.After(2 * time.Second):
				case <-r.Context().Done():
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(tt.handler)
			defer server.Close()

			adapter := services.NewRemoteAdapter(testLogger(), server.URL, nil, 50*time.Millisecond)

			_, err := adapter.Validate(context.Background(), "wf-1", singleEdgeGraph(), models.DefaultValidateOptions())
			require.Error(t, err)
			assert.True(t, services.IsRemoteUnavailable(err))

			var remoteErr *services.RemoteError
			require.ErrorAs(t, err, &remoteErr)
			assert.Equal(t, tt.statusCode, remoteErr.StatusCode)
			assert.Equal(t, "wf-1", remoteErr.WorkflowID)
		})
	}
}

func TestRemoteAdapter_Unreachable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	adapter := services.NewRemoteAdapter(testLogger(), url, nil, time.Second)

	_, err := adapter.CheckPortCompatibility(context.Background(), models.PortTypeAny, models.PortTypeImage)
	require.Error(t, err)
	assert.True(t, services.IsRemoteUnavailable(err))
	assert.Contains(t, err.Error(), "compatibility")
}
