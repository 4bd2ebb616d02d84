package sqlbase_test

import (
	"log/slog"
	"os"
	"testing"

	"github.com/dukex/flowgraph/pkg/persistence/sqlbase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestNewMigrator(t *testing.T) {
	t.Parallel()

	migrator, err := sqlbase.NewMigrator(testLogger(), nil, []sqlbase.Migration{
		{Version: 3, Description: "third", SQL: "SELECT 3"},
		{Version: 1, Description: "first", SQL: "SELECT 1"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, migrator.Latest())

	empty, err := sqlbase.NewMigrator(testLogger(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Latest())
}

func TestNewMigrator_RejectsInvalidMigrations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		migrations []sqlbase.Migration
	}{
		{"zero version", []sqlbase.Migration{{Version: 0, SQL: "SELECT 1"}}},
		{"negative version", []sqlbase.Migration{{Version: -2, SQL: "SELECT 1"}}},
		{"blank SQL", []sqlbase.Migration{{Version: 1, SQL: "  \n\t"}}},
		{"duplicate version", []sqlbase.Migration{
			{Version: 2, SQL: "SELECT 1"},
			{Version: 1, SQL: "SELECT 1"},
			{Version: 2, SQL: "SELECT 2"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := sqlbase.NewMigrator(testLogger(), nil, tt.migrations)
			require.ErrorIs(t, err, sqlbase.ErrInvalidMigration)
		})
	}
}
