package main

import (
	"context"
	"fmt"

	"github.com/dukex/flowgraph/pkg/models"
	cli "github.com/urfave/cli/v3"
)

func NewValidateCommand() *cli.Command {
	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate a graph snapshot",
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:  "no-warnings",
				Usage: "Drop warning and info issues",
			},
			&cli.BoolFlag{
				Name:  "skip-connections",
				Usage: "Skip connection and port type checks",
			},
			&cli.BoolFlag{
				Name:  "skip-cycles",
				Usage: "Skip cycle detection",
			},
		}, graphFlags()...),
		Action: func(ctx context.Context, command *cli.Command) error {
			ref, err := graphRef(command)
			if err != nil {
				return err
			}

			e, err := newEngine(ctx, command)
			if err != nil {
				return err
			}
			defer e.close()

			opts := models.ValidateOptions{
				IncludeWarnings:     !command.Bool("no-warnings"),
				ValidateConnections: !command.Bool("skip-connections"),
				CheckCycles:         !command.Bool("skip-cycles"),
			}

			result := e.validation.ValidateGraph(ctx, ref, opts)

			if err := printValidation(command, ref.WorkflowID, result); err != nil {
				return err
			}

			if result.HasBlockingIssues() {
				return fmt.Errorf("%w: %s", ErrBlockingIssues, ref.WorkflowID)
			}

			return nil
		},
	}
}
