package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/pocketlist/adapter/cli"
	"github.com/felixgeelhaar/pocketlist/adapter/cli/todo"
	"github.com/felixgeelhaar/pocketlist/internal/app"
	"github.com/felixgeelhaar/pocketlist/pkg/config"
	"github.com/felixgeelhaar/pocketlist/pkg/observability"
)

func main() {
	// Create context with cancellation
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		cfg = &config.Config{AppEnv: "development"}
	}

	logCfg := observability.DefaultLogConfig()
	logCfg.Level = observability.LogLevel(cfg.LogLevel)
	logCfg.Format = observability.LogFormat(cfg.LogFormat)
	logCfg.ServiceVersion = cli.Version
	logger := observability.NewLogger(logCfg)
	cli.SetLogger(logger)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}

	application := cli.NewApp(container.TodoUseCases, container.Board)
	application.Metrics = container.Metrics
	cli.SetApp(application)
	cli.AddCommand(todo.Cmd)

	err = cli.Execute(ctx)
	container.Close()
	if err != nil {
		os.Exit(1)
	}
}
