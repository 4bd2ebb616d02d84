package services_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dukex/flowgraph/pkg/compat"
	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/planner"
	"github.com/dukex/flowgraph/pkg/registry"
	"github.com/dukex/flowgraph/pkg/services"
	"github.com/dukex/flowgraph/pkg/testutil"
	"github.com/dukex/flowgraph/pkg/validation"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newLocalAdapter(t *testing.T) *services.LocalAdapter {
	t.Helper()

	matrix, err := compat.NewDefaultMatrix()
	require.NoError(t, err)

	catalog := registry.NewRegistry(testLogger())
	require.NoError(t, catalog.RegisterDefaultNodes())

	return services.NewLocalAdapter(
		validation.NewValidator(testLogger(), matrix, catalog),
		planner.NewPlanner(testLogger()),
		matrix,
		catalog,
	)
}

// singleEdgeGraph is an image source feeding a required image input.
func singleEdgeGraph() *models.Graph {
	return testutil.NewGraph().
		Node("A", "image-upload", testutil.WithOutput("image", models.PortTypeImage)).
		Node("B", "upscaler", testutil.WithInput("image", models.PortTypeImage, testutil.Required())).
		Connect("A", "image", "B", "image").
		Build()
}

// missingInputGraph has one node whose required input is not connected.
func missingInputGraph() *models.Graph {
	return testutil.NewGraph().
		Node("C", "room-designer",
			testutil.WithInput("roomImage", models.PortTypeRoom, testutil.Required()),
			testutil.WithOutput("image", models.PortTypeImage),
		).
		Build()
}

// corruptGraph carries a port without id, which the local engine treats as a programmer error.
func corruptGraph() *models.Graph {
	return testutil.NewGraph().Node("A", "gen", testutil.WithOutput("", models.PortTypeImage)).Build()
}

// remoteServer answers every request with status and body and counts the hits.
func remoteServer(t *testing.T, status int, body any) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	hits := &atomic.Int32{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)

		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(server.Close)

	return server, hits
}

// remoteSlowServer never answers before the client gives up.
func remoteSlowServer(t *testing.T) string {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(5 * time.Second):
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(server.Close)

	return server.URL
}
