package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cvtransform/internal/app"
	"cvtransform/internal/config"
	"cvtransform/internal/exporter"
	"cvtransform/internal/infrastructure"
	"cvtransform/pkg/contracts"
)

const (
	exitOK      = 0
	exitFailure = 1
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(exitFailure)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", slog.String("error", err.Error()))
		os.Exit(exitFailure)
	}
	defer infrastructure.CloseLogFile()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, cfg, logger, os.Stdout)
	stop()

	if code != exitOK {
		infrastructure.CloseLogFile()
		os.Exit(code)
	}
}

// run executes one batch and prints its summary to stdout. It returns the
// process exit code: 0 when an output was produced, 1 otherwise. Manifest and
// upload failures are printed as warnings and keep the exit code at 0.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout io.Writer) int {
	logger.Info("Starting transformation", slog.String("version", contracts.GetVersionString()))

	providers, err := infrastructure.InitializeTelemetry(cfg.Telemetry, logger)
	if err != nil {
		logger.Error("Failed to initialize telemetry", slog.String("error", err.Error()))
		return exitFailure
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		providers.Shutdown(shutdownCtx)
	}()

	pipeline, err := app.New(ctx, cfg, logger, providers)
	if err != nil {
		logger.Error("Failed to create pipeline", slog.String("error", err.Error()))
		return exitFailure
	}

	result, err := pipeline.Run(ctx)
	if result != nil {
		exporter.WriteSummary(stdout, result.Batch, result.OutputPath)
		for _, location := range result.Uploaded {
			fmt.Fprintf(stdout, "uploaded %s\n", location)
		}
		for _, warning := range result.Warnings {
			fmt.Fprintf(stdout, "warning: %s\n", warning)
		}
	}
	if err != nil {
		logger.Error("Transformation failed", slog.String("error", err.Error()))
		return exitFailure
	}
	return exitOK
}
