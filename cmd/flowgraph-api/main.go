// Package main provides the flowgraph validation API server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukex/flowgraph/pkg/cmd"
	"github.com/dukex/flowgraph/pkg/log"
	"github.com/dukex/flowgraph/pkg/otelhelper"
	"github.com/dukex/flowgraph/pkg/planner"
	"github.com/dukex/flowgraph/pkg/services"
	"github.com/dukex/flowgraph/pkg/validation"
	cli "github.com/urfave/cli/v3"
)

const defaultPort = 9091

func main() {
	command := &cli.Command{
		Name:                  "flowgraph-api",
		Usage:                 "Validate and plan workflow graphs over HTTP",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "Snapshot store URL (postgres://... or a file store directory)",
				Value:   "file://./data",
				Sources: cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "redis-url",
				Usage:   "Redis URL for the result cache (in-memory cache when empty)",
				Sources: cli.EnvVars("REDIS_URL"),
			},
			&cli.DurationFlag{
				Name:    "cache-ttl",
				Usage:   "How long validation results stay cached (negative disables the cache)",
				Value:   10 * time.Minute,
				Sources: cli.EnvVars("CACHE_TTL"),
			},
			&cli.StringFlag{
				Name:    "cache-purge-schedule",
				Usage:   "Cron schedule for purging expired cache entries",
				Value:   "@every 1m",
				Sources: cli.EnvVars("CACHE_PURGE_SCHEDULE"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus type (gochannel, kafka; empty disables events)",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "kafka-brokers",
				Usage:   "Comma separated Kafka broker addresses",
				Value:   "localhost:9092",
				Sources: cli.EnvVars("KAFKA_BROKERS"),
			},
			&cli.StringFlag{
				Name:    "port-types-file",
				Usage:   "YAML file with extra port type domains",
				Sources: cli.EnvVars("PORT_TYPES_FILE"),
			},
			&cli.BoolFlag{
				Name:    "otel-enabled",
				Usage:   "Export traces over OTLP/HTTP",
				Sources: cli.EnvVars("OTEL_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "Log format (text, json)",
				Value:   "text",
				Sources: cli.EnvVars("LOG_FORMAT"),
			},
		},
		Action: run,
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, command *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Setup(command.String("log-level"), command.String("log-format"))

	logger := log.WithModule("api")
	logger.InfoContext(ctx, "Initializing Flowgraph API")

	tracer := otelhelper.NewNoopTracer()

	if command.Bool("otel-enabled") {
		otelTracer, shutdown, err := otelhelper.NewTracer(ctx, "flowgraph-api")
		if err != nil {
			return fmt.Errorf("failed to initialize tracer: %w", err)
		}

		defer func() {
			if err := shutdown(context.WithoutCancel(ctx)); err != nil {
				logger.ErrorContext(ctx, "Failed to shutdown tracer provider", "error", err)
			}
		}()

		tracer = otelTracer
	}

	registry, err := cmd.NewRegistry(logger)
	if err != nil {
		return err
	}

	matrix, err := cmd.NewMatrix(command.String("port-types-file"))
	if err != nil {
		return err
	}

	persistence, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
	if err != nil {
		return fmt.Errorf("failed to open snapshot store: %w", err)
	}

	defer func() {
		if err := persistence.Close(context.WithoutCancel(ctx)); err != nil {
			logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
		}
	}()

	resultCache, err := cmd.NewCache(ctx, logger, command.String("redis-url"), command.Duration("cache-ttl"))
	if err != nil {
		return fmt.Errorf("failed to open result cache: %w", err)
	}

	eventBus, err := cmd.NewEventBus(command.String("event-bus"), command.String("kafka-brokers"), logger)
	if err != nil {
		return err
	}

	opts := []services.Option{
		services.WithStore(persistence),
		services.WithTracer(tracer),
	}

	if resultCache != nil {
		opts = append(opts, services.WithCache(resultCache))
	}

	if eventBus != nil {
		opts = append(opts, services.WithPublisher(eventBus))

		defer func() {
			if err := eventBus.Close(); err != nil {
				logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
			}
		}()
	}

	local := services.NewLocalAdapter(
		validation.NewValidator(logger, matrix, registry),
		planner.NewPlanner(logger),
		matrix,
		registry,
	)

	validationService := services.NewValidation(logger, local, opts...)

	workflowService := services.NewWorkflow(logger, persistence, validationService, nil)

	if eventBus != nil {
		workflowService = services.NewWorkflow(logger, persistence, validationService, eventBus)

		if err := subscribeInvalidation(ctx, logger, eventBus, validationService); err != nil {
			return fmt.Errorf("failed to subscribe to workflow events: %w", err)
		}
	}

	if resultCache != nil {
		janitor, err := NewCacheJanitor(logger, validationService, command.String("cache-purge-schedule"))
		if err != nil {
			return err
		}

		janitor.Start()
		defer janitor.Stop()
	}

	api := NewAPI(logger, validationService, workflowService, registry, matrix)

	logger.InfoContext(ctx, "Starting Flowgraph API", "port", command.Int("port"))

	return api.Start(ctx, command.Int("port"))
}
