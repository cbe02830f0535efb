package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"retail-datagen/internal/errors"
	"retail-datagen/internal/observability"
	"retail-datagen/internal/services"
)

const (
	defaultProducts = 20
	defaultRegions  = 30
	maxLimit        = 1000
)

var cacheHeaders = map[string]string{
	"Cache-Control": "public, max-age=300",
}

type APIHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
	started   time.Time
}

func NewAPIHandlers(analytics *services.Analytics, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		logger:    logger,
		started:   time.Now(),
	}
}

// limitParam reads ?limit=, falling back to def when absent.
func limitParam(r *http.Request, def int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > maxLimit {
		return 0, errors.BadRequest("limit must be an integer between 1 and " + strconv.Itoa(maxLimit))
	}
	return n, nil
}

func (h *APIHandlers) HandleCountryRevenue(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccessWithHeaders(w, h.analytics.CountryRevenue(), cacheHeaders)
}

func (h *APIHandlers) HandleTopProducts(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r, defaultProducts)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}
	errors.WriteSuccessWithHeaders(w, h.analytics.TopProducts(limit), cacheHeaders)
}

func (h *APIHandlers) HandleMonthlySales(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccessWithHeaders(w, h.analytics.MonthlySales(), cacheHeaders)
}

func (h *APIHandlers) HandleTopRegions(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r, defaultRegions)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}
	errors.WriteSuccessWithHeaders(w, h.analytics.TopRegions(limit), cacheHeaders)
}

func (h *APIHandlers) HandlePaymentMix(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccessWithHeaders(w, h.analytics.PaymentMix(), cacheHeaders)
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(h.started).Round(time.Second).String(),
		"records":   h.analytics.Stats()["record_count"],
	})
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.analytics.Stats())
}
