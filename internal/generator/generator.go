package generator

import (
	"context"
	"fmt"
	"log/slog"

	"retail-datagen/internal/config"
	"retail-datagen/internal/models"
	"retail-datagen/internal/observability"
)

type Dataset struct {
	Customers    []models.Customer
	Stores       []models.Store
	Transactions []models.Transaction
}

// Generator produces a dataset from a catalog and one seeded random source.
// Two generators built with the same config and catalog yield identical
// datasets.
type Generator struct {
	cfg     config.GeneratorConfig
	catalog *compiledCatalog
	rng     *Rand
	logger  *slog.Logger
}

func New(cfg config.GeneratorConfig, catalog Catalog, logger *slog.Logger) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("generator config: %w", err)
	}

	compiled, err := catalog.compile()
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Generator{
		cfg:     cfg,
		catalog: compiled,
		rng:     NewRand(cfg.Seed),
		logger:  logger,
	}, nil
}

// Generate runs customers, stores, then transactions.
func (g *Generator) Generate(ctx context.Context) (*Dataset, error) {
	ds := &Dataset{}

	err := g.stage(ctx, "customers", func(ctx context.Context) (int, error) {
		var err error
		ds.Customers, err = g.Customers(g.cfg.Customers)
		return len(ds.Customers), err
	})
	if err != nil {
		return nil, err
	}

	err = g.stage(ctx, "stores", func(ctx context.Context) (int, error) {
		var err error
		ds.Stores, err = g.Stores(g.cfg.Stores)
		return len(ds.Stores), err
	})
	if err != nil {
		return nil, err
	}

	err = g.stage(ctx, "transactions", func(ctx context.Context) (int, error) {
		var err error
		ds.Transactions, err = g.Transactions(ctx, g.cfg.Transactions, ds.Customers, ds.Stores)
		return len(ds.Transactions), err
	})
	if err != nil {
		return nil, err
	}

	return ds, nil
}

func (g *Generator) stage(ctx context.Context, name string, fn func(context.Context) (int, error)) error {
	ctx, span := observability.StartSpan(ctx, "generate."+name)
	g.logger.Info("generating "+name, "trace_id", span.TraceID)

	count, err := fn(ctx)
	span.Finish()
	if err != nil {
		span.SetError(err)
		return fmt.Errorf("generate %s: %w", name, err)
	}

	g.logger.Info("generated "+name,
		"count", count,
		"duration", *span.Duration,
		"trace_id", span.TraceID,
	)
	return nil
}
