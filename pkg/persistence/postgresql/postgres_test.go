package postgresql_test

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/persistence"
	"github.com/dukex/flowgraph/pkg/persistence/postgresql"
	"github.com/dukex/flowgraph/pkg/testutil"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

var postgresContainer *postgres.PostgresContainer

func dropDb(ctx context.Context, t *testing.T, databaseURL string) {
	t.Helper()

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)

	// Children first, parents last
	for _, table := range []string{"workflow_edges", "workflow_nodes", "workflows", "schema_versions"} {
		_, err = db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE")
		require.NoError(t, err)
	}

	err = db.Close()
	require.NoError(t, err)
}

func setupTestDB(t *testing.T) (*postgresql.Persistence, context.Context, string) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping PostgreSQL integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)

	if postgresContainer == nil || !postgresContainer.IsRunning() {
		var err error

		postgresContainer, err = postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("flowgraph_test"),
			postgres.WithUsername("flowgraph"),
			postgres.WithPassword("flowgraph"),
			postgres.BasicWaitStrategies(),
		)
		require.NoError(t, err)
	}

	databaseURL, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	dropDb(ctx, t, databaseURL)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	p, err := postgresql.NewPersistence(ctx, logger, databaseURL)
	require.NoError(t, err)

	t.Cleanup(func() {
		dropDb(ctx, t, databaseURL)

		err = p.Close(ctx)
		require.NoError(t, err)

		cancel()
	})

	return p, ctx, databaseURL
}

func TestNewPersistence_Migrations(t *testing.T) {
	_, ctx, databaseURL := setupTestDB(t)

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)

	defer func() {
		err := db.Close()
		require.NoError(t, err)
	}()

	for _, table := range []string{"workflows", "workflow_nodes", "workflow_edges", "schema_versions"} {
		var exists bool

		err = db.QueryRowContext(ctx, `SELECT EXISTS (SELECT FROM
information_schema.tables WHERE table_name = $1)`, table).Scan(&exists)
		require.NoError(t, err)
		assert.True(t, exists, "%s table should exist", table)
	}

	var version int

	err = db.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_versions").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	reopened, err := postgresql.NewPersistence(ctx, logger, databaseURL)
	require.NoError(t, err)
	require.NoError(t, reopened.Close(ctx))

	var applied int

	err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_versions").Scan(&applied)
	require.NoError(t, err)
	assert.Equal(t, 2, applied)
}

func TestNewPersistence_HealthCheck(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	err := p.HealthCheck(ctx)
	assert.NoError(t, err)
}

func TestNewPersistence_SaveAndRetrieveWorkflow(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	g := testutil.NewGraph().
		Node("A", "image-upload", testutil.WithOutput("image", models.PortTypeImage)).
		Node("B", "upscaler", testutil.WithInput("image", models.PortTypeImage, testutil.Required())).
		Node("N", "note", testutil.WithCategory(models.CategoryAnnotation)).
		Connect("A", "image", "B", "image").
		Connect("A", "image", "ghost", "in").
		Build()

	workflow := &models.Workflow{ID: uuid.NewString(), Name: "Board", Graph: g}

	err := p.SaveWorkflow(ctx, workflow)
	require.NoError(t, err)
	assert.False(t, workflow.CreatedAt.IsZero())

	retrieved, err := p.WorkflowByID(ctx, workflow.ID)
	require.NoError(t, err)

	assert.Equal(t, "Board", retrieved.Name)
	assert.Equal(t, g, retrieved.Graph, "snapshot round-trips in declaration order")

	_, err = p.WorkflowByID(ctx, uuid.NewString())
	require.Error(t, err)
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestNewPersistence_UpdateWorkflow(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	workflow := &models.Workflow{ID: "board-1", Graph: testutil.NewGraph().Passthrough("A", "B").Link("A", "B").Build()}
	require.NoError(t, p.SaveWorkflow(ctx, workflow))

	workflow.Graph = testutil.NewGraph().Passthrough("C").Build()
	require.NoError(t, p.SaveWorkflow(ctx, workflow))

	retrieved, err := p.WorkflowByID(ctx, "board-1")
	require.NoError(t, err)
	require.Len(t, retrieved.Graph.Nodes, 1)
	assert.Equal(t, "C", retrieved.Graph.Nodes[0].ID)
	assert.Empty(t, retrieved.Graph.Edges)

	all, err := p.Workflows(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestNewPersistence_DeleteWorkflow(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	workflow := &models.Workflow{ID: "board-1", Graph: testutil.NewGraph().Passthrough("A").Build()}
	require.NoError(t, p.SaveWorkflow(ctx, workflow))

	require.NoError(t, p.DeleteWorkflow(ctx, "board-1"))
	require.NoError(t, p.DeleteWorkflow(ctx, "board-1"))

	_, err := p.WorkflowByID(ctx, "board-1")
	assert.True(t, persistence.IsWorkflowNotFound(err))

	all, err := p.Workflows(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, p.SaveWorkflow(ctx, workflow))

	_, err = p.WorkflowByID(ctx, "board-1")
	assert.NoError(t, err)
}

func TestNewPersistence_RejectsEmptyID(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	err := p.SaveWorkflow(ctx, &models.Workflow{})
	assert.True(t, persistence.IsInvalidWorkflowID(err))
}
