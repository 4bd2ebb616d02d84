package main

import (
	"context"
	"fmt"

	cli "github.com/urfave/cli/v3"
)

func NewPlanCommand() *cli.Command {
	return &cli.Command{
		Name:    "plan",
		Aliases: []string{"p"},
		Usage:   "Print the execution order and parallel groups of a graph snapshot",
		Flags:   graphFlags(),
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

			result := e.validation.GetExecutionOrder(ctx, ref)

			if err := printPlan(command, ref.WorkflowID, result); err != nil {
				return err
			}

			switch {
			case result.HasCycles:
				return fmt.Errorf("%w: %v", ErrCyclicGraph, result.CycleNodes)
			case len(result.Issues) > 0:
				return fmt.Errorf("%w: %s", ErrBlockingIssues, result.Issues[0].Message)
			}

			return nil
		},
	}
}
