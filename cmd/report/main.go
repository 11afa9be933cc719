package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spacesedan/sentireport/config"
	"github.com/spacesedan/sentireport/internal/logging"
	"github.com/spacesedan/sentireport/internal/pipeline"
)

func main() {
	os.Exit(run())
}

func run() int {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger(os.Getenv("LOG_LEVEL"))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("[Report] Invalid configuration",
			slog.String("error", err.Error()))
		return 2
	}

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, cleanup, err := pipeline.Build(ctx, cfg)
	defer cleanup()
	if err != nil {
		return exitCode(err)
	}

	res, err := p.Run(ctx)
	if err != nil {
		return exitCode(err)
	}

	if res.Empty() {
		slog.Warn("[Report] Finished with no documents",
			slog.String("report", cfg.Files.Report))
	}
	return 0
}

func exitCode(err error) int {
	slog.Error("[Report] Run failed",
		slog.String("error", err.Error()))
	if errors.Is(err, pipeline.ErrConfiguration) {
		return 2
	}
	return 1
}
