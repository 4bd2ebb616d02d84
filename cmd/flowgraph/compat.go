package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/dukex/flowgraph/pkg/models"
	cli "github.com/urfave/cli/v3"
)

func NewCompatCommand() *cli.Command {
	return &cli.Command{
		Name:      "compat",
		Aliases:   []string{"c"},
		Usage:     "Check whether an output port type may feed an input port type",
		ArgsUsage: "<source> <target>",
		Action: func(ctx context.Context, command *cli.Command) error {
			if command.Args().Len() != 2 {
				return errors.New("compat expects exactly two port types: <source> <target>")
			}

			source := models.PortType(command.Args().Get(0))
			target := models.PortType(command.Args().Get(1))

			e, err := newEngine(ctx, command)
			if err != nil {
				return err
			}
			defer e.close()

			result := e.validation.CheckPortCompatibility(ctx, source, target)

			if err := printCompatibility(command, source, target, result); err != nil {
				return err
			}

			if !result.Compatible {
				return fmt.Errorf("%w: %s -> %s", ErrIncompatiblePorts, source, target)
			}

			return nil
		},
	}
}
