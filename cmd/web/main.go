package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"retail-datagen/internal/config"
	"retail-datagen/internal/middleware"
	"retail-datagen/internal/observability"
	"retail-datagen/internal/server"
	"retail-datagen/internal/services"
	"retail-datagen/internal/ui/templates"
)

const (
	renderTimeout  = 10 * time.Second
	csvLoadTimeout = 2 * time.Minute
	cacheMaxAge    = "public, max-age=300"
)

func dashboardHandler(source string) http.HandlerFunc {
	props := templates.DashboardProps{
		Title:    "Retail Dataset Dashboard",
		Subtitle: "Aggregates over the generated sales transactions",
		Source:   source,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
		defer cancel()

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", cacheMaxAge)
		if err := templates.Dashboard(props).Render(ctx, w); err != nil {
			http.Error(w, "render error", http.StatusInternalServerError)
		}
	}
}

func newHandler(cfg *config.Config, analytics *services.Analytics, logger *slog.Logger, reg *prometheus.Registry, metrics *observability.Metrics, limiter *middleware.RateLimiter) http.Handler {
	srv := server.NewServer(analytics, logger, &server.TemplateHandlers{
		Dashboard: dashboardHandler(cfg.Database.CSVFile),
	}, reg)

	chain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(limiter, logger),
		middleware.Metrics(metrics),
	)
	return chain(srv)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting dashboard",
		"addr", cfg.Address(),
		"csv_file", cfg.Database.CSVFile,
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)

	analytics := services.NewAnalytics(logger)
	analytics.SetMetrics(metrics)

	ctx, cancel := context.WithTimeout(context.Background(), csvLoadTimeout)
	defer cancel()
	if err := analytics.LoadFromCSV(ctx, cfg.Database.CSVFile); err != nil {
		logger.Error("failed to load CSV data", "error", err, "hint", "run cmd/datagen first")
		os.Exit(1)
	}

	limiter := middleware.NewRateLimiter(cfg.Security)
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go limiter.Sweep(sweepCtx, time.Minute)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      newHandler(cfg, analytics, logger, reg, metrics, limiter),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gs := server.NewGracefulServer(httpServer, logger, cfg.Server)
	gs.RegisterShutdownHook(func(ctx context.Context) error {
		stopSweep()
		return nil
	})

	if err := gs.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("dashboard stopped")
}
