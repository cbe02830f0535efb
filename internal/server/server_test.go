package server

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"retail-datagen/internal/config"
	"retail-datagen/internal/models"
	"retail-datagen/internal/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testServer(gatherer prometheus.Gatherer) *Server {
	a := services.NewAnalytics(testLogger())
	a.SetData([]models.Sale{{
		Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Country: "Brazil", Region: "South America", Currency: "BRL",
		ProductName: "Product_4", Department: "Department_1", Category: "Category_4", Quantity: 3, Price: 450, PaymentMethod: "Gift Card",
	}})

	dashboard := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html></html>"))
	}
	return NewServer(a, testLogger(), &TemplateHandlers{Dashboard: dashboard}, gatherer)
}

func TestServer_Routes(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	srv := testServer(reg)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{"GET", "/", http.StatusOK},
		{"GET", "/api/payment-methods", http.StatusOK},
		{"GET", "/sse/payment-methods", http.StatusOK},
		{"GET", "/metrics", http.StatusOK},
		{"GET", "/nope", http.StatusNotFound},
		{"POST", "/api/top-regions", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			srv.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
		})
	}
}

func TestServer_NoMetricsWithoutGatherer(t *testing.T) {
	w := httptest.NewRecorder()
	testServer(nil).ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestGracefulServer_Run(t *testing.T) {
	httpServer := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	gs := NewGracefulServer(httpServer, testLogger(), config.ServerConfig{ShutdownTimeout: 5 * time.Second})

	var ran atomic.Int32
	gs.RegisterShutdownHook(func(ctx context.Context) error {
		ran.Add(1)
		return nil
	})
	gs.RegisterShutdownHook(func(ctx context.Context) error {
		ran.Add(1)
		return stderrors.New("flush failed")
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- gs.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err == nil || !strings.Contains(err.Error(), "flush failed") {
			t.Errorf("Run() error = %v, want hook failure", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}

	if ran.Load() != 2 {
		t.Errorf("hooks run = %d, want 2", ran.Load())
	}
}
