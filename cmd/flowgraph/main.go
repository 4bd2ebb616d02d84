// Package main provides the flowgraph command-line client.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dukex/flowgraph/pkg/services"
	cli "github.com/urfave/cli/v3"
)

func NewApp() *cli.Command {
	return &cli.Command{
		Name:                  "flowgraph",
		Usage:                 "Validate and plan workflow graphs",
		EnableShellCompletion: true,
		Commands: []*cli.Command{
			NewValidateCommand(),
			NewPlanCommand(),
			NewCompatCommand(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "remote-url",
				Usage:   "Base URL of a flowgraph API to try before the local engine",
				Sources: cli.EnvVars("REMOTE_URL"),
			},
			&cli.DurationFlag{
				Name:    "remote-timeout",
				Usage:   "Timeout of each remote call",
				Value:   services.DefaultRemoteTimeout,
				Sources: cli.EnvVars("REMOTE_TIMEOUT"),
			},
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "Snapshot store URL used to resolve --workflow without --file",
				Sources: cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "port-types-file",
				Usage:   "YAML file with extra port type domains",
				Sources: cli.EnvVars("PORT_TYPES_FILE"),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output format (text, json)",
				Value:   "text",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "warn",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
	}
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := NewApp().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		cancel()
		os.Exit(1)
	}
}
