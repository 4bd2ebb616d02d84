package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dukex/flowgraph/pkg/cmd"
	"github.com/dukex/flowgraph/pkg/log"
	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/planner"
	"github.com/dukex/flowgraph/pkg/services"
	"github.com/dukex/flowgraph/pkg/validation"
	cli "github.com/urfave/cli/v3"
)

var (
	// ErrBlockingIssues is returned when a graph has error-severity issues.
	ErrBlockingIssues = errors.New("graph has blocking issues")

	// ErrCyclicGraph is returned when a graph cannot be fully ordered.
	ErrCyclicGraph = errors.New("graph contains a cycle")

	ErrIncompatiblePorts = errors.New("port types are not compatible")
	ErrNoGraph           = errors.New("either --file or --workflow with --database-url is required")
)

func graphFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "Graph snapshot JSON file (- reads stdin)",
		},
		&cli.StringFlag{
			Name:    "workflow",
			Aliases: []string{"w"},
			Usage:   "Workflow id (defaults to the file name)",
		},
	}
}

// engine is the façade configured from the global flags.
type engine struct {
	logger     *slog.Logger
	validation *services.Validation
	close      func()
}

func newEngine(ctx context.Context, command *cli.Command) (*engine, error) {
	logger := log.New(command.Root().ErrWriter, command.String("log-level"), "text").With("module", "flowgraph")

	registry, err := cmd.NewRegistry(logger)
	if err != nil {
		return nil, err
	}

	matrix, err := cmd.NewMatrix(command.String("port-types-file"))
	if err != nil {
		return nil, err
	}

	local := services.NewLocalAdapter(
		validation.NewValidator(logger, matrix, registry),
		planner.NewPlanner(logger),
		matrix,
		registry,
	)

	var opts []services.Option

	if remoteURL := command.String("remote-url"); remoteURL != "" {
		opts = append(opts, services.WithRemote(
			services.NewRemoteAdapter(logger, remoteURL, nil, command.Duration("remote-timeout")),
		))
	}

	closeFn := func() {}

	if databaseURL := command.String("database-url"); databaseURL != "" {
		store, err := cmd.NewPersistence(ctx, logger, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open snapshot store: %w", err)
		}

		opts = append(opts, services.WithStore(store))
		closeFn = func() {
			if err := store.Close(context.WithoutCancel(ctx)); err != nil {
				logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
			}
		}
	}

	return &engine{
		logger:     logger,
		validation: services.NewValidation(logger, local, opts...),
		close:      closeFn,
	}, nil
}

// graphRef builds the reference named by --file and --workflow.
func graphRef(command *cli.Command) (models.GraphRef, error) {
	path := command.String("file")
	workflowID := command.String("workflow")

	if path == "" {
		if workflowID == "" || command.String("database-url") == "" {
			return models.GraphRef{}, ErrNoGraph
		}

		return models.GraphRef{WorkflowID: workflowID}, nil
	}

	g, err := readGraph(command, path)
	if err != nil {
		return models.GraphRef{}, err
	}

	if workflowID == "" {
		workflowID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	return models.GraphRef{WorkflowID: workflowID, Graph: g}, nil
}

func readGraph(command *cli.Command, path string) (*models.Graph, error) {
	var (
		data []byte
		err  error
	)

	if path == "-" {
		data, err = io.ReadAll(command.Root().Reader)
	} else {
		data, err = os.ReadFile(path)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read graph: %w", err)
	}

	if err := models.ValidateJSON(models.GraphSchema, data); err != nil {
		return nil, fmt.Errorf("failed to read graph %s: %w", path, err)
	}

	var g models.Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to decode graph %s: %w", path, err)
	}

	return &g, nil
}
