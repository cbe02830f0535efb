package server

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"retail-datagen/internal/handlers"
	"retail-datagen/internal/services"
)

// Server routes the dashboard page, the JSON API and the SSE streams.
type Server struct {
	mux         *http.ServeMux
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

// NewServer builds the routes. /metrics is served only when gatherer is
// non-nil.
func NewServer(analytics *services.Analytics, logger *slog.Logger, templateHandlers *TemplateHandlers, gatherer prometheus.Gatherer) *Server {
	s := &Server{
		mux:         http.NewServeMux(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(analytics, logger),
		sseHandlers: handlers.NewSSEHandlers(analytics, logger),
	}
	s.setupRoutes(templateHandlers, gatherer)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers, gatherer prometheus.Gatherer) {
	s.mux.HandleFunc("GET /{$}", templateHandlers.Dashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	if gatherer != nil {
		s.mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{
			ErrorLog: slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
		}))
	}

	s.mux.HandleFunc("GET /api/country-revenue", s.apiHandlers.HandleCountryRevenue)
	s.mux.HandleFunc("GET /api/top-products", s.apiHandlers.HandleTopProducts)
	s.mux.HandleFunc("GET /api/monthly-sales", s.apiHandlers.HandleMonthlySales)
	s.mux.HandleFunc("GET /api/top-regions", s.apiHandlers.HandleTopRegions)
	s.mux.HandleFunc("GET /api/payment-methods", s.apiHandlers.HandlePaymentMix)

	s.mux.HandleFunc("GET /sse/country-revenue", s.sseHandlers.HandleCountryRevenue)
	s.mux.HandleFunc("GET /sse/top-products", s.sseHandlers.HandleTopProducts)
	s.mux.HandleFunc("GET /sse/monthly-sales", s.sseHandlers.HandleMonthlySales)
	s.mux.HandleFunc("GET /sse/top-regions", s.sseHandlers.HandleTopRegions)
	s.mux.HandleFunc("GET /sse/payment-methods", s.sseHandlers.HandlePaymentMix)
	s.mux.HandleFunc("GET /sse/refresh-all", s.sseHandlers.HandleRefreshAll)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
