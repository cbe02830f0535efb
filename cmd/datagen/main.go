package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"retail-datagen/internal/config"
	"retail-datagen/internal/dataset"
	"retail-datagen/internal/errors"
	"retail-datagen/internal/generator"
	"retail-datagen/internal/observability"
)

func run(ctx context.Context, cfg config.GeneratorConfig, logger *slog.Logger) (*generator.Summary, error) {
	start := time.Now()

	g, err := generator.New(cfg, generator.DefaultCatalog(), logger)
	if err != nil {
		return nil, err
	}

	ds, err := g.Generate(ctx)
	if err != nil {
		return nil, err
	}

	if err := dataset.NewWriter(cfg.OutputDir, logger).WriteAll(ctx, ds, cfg.SampleSize); err != nil {
		return nil, err
	}

	summary, err := generator.Summarize(ds)
	if err != nil {
		return nil, errors.InternalWrap(err, "summarize dataset")
	}

	logger.Info("dataset complete",
		"output_dir", cfg.OutputDir,
		"seed", cfg.Seed,
		"duration", time.Since(start),
		"summary", summary,
	)
	return summary, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err, "code", errors.CodeOf(err))
		os.Exit(errors.ExitCode(err))
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("generating dataset",
		"customers", cfg.Generator.Customers,
		"stores", cfg.Generator.Stores,
		"transactions", cfg.Generator.Transactions,
		"sample_size", cfg.Generator.SampleSize,
		"seed", cfg.Generator.Seed,
	)

	if _, err := run(ctx, cfg.Generator, logger); err != nil {
		logger.Error("generation failed", "error", err, "code", errors.CodeOf(err))
		stop()
		os.Exit(errors.ExitCode(err))
	}
}
