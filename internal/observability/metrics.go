package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "datagen"

// Metrics holds the dashboard's HTTP and dataset collectors.
type Metrics struct {
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	records      prometheus.Gauge
	loadDuration prometheus.Histogram
	skippedRows  prometheus.Counter
}

// NewMetrics registers the collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		records: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_records",
			Help:      "Transactions aggregated from the loaded dataset.",
		}),
		loadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dataset_load_duration_seconds",
			Help:      "Time spent parsing and aggregating the dataset.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
		skippedRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_skipped_rows_total",
			Help:      "Rows that could not be parsed.",
		}),
	}

	reg.MustRegister(m.requests, m.duration, m.records, m.loadDuration, m.skippedRows)
	return m
}

func (m *Metrics) ObserveRequest(route, method string, code int, elapsed time.Duration) {
	m.requests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	m.duration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveLoad(records, skipped int64, elapsed time.Duration) {
	m.records.Set(float64(records))
	m.skippedRows.Add(float64(skipped))
	m.loadDuration.Observe(elapsed.Seconds())
}
