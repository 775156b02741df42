package observability

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// MetricsServer serves /metrics, /health and /ready on the side port.
// /ready answers 503 until MarkReady and again once draining starts.
type MetricsServer struct {
	srv    *http.Server
	ready  atomic.Bool
	logger *zap.Logger
}

func NewMetricsServer(addr string, health *HealthChecker, logger *zap.Logger) *MetricsServer {
	m := &MetricsServer{logger: logger}

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	if health != nil {
		mux.HandleFunc("GET /health", health.HealthHandler())
	}
	mux.HandleFunc("GET /ready", m.readyHandler)

	m.srv = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  15 * time.Second,
	}
	return m
}

// Start listens in the background
func (m *MetricsServer) Start() {
	go func() {
		if err := m.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.logger.Error("Metrics server error", zap.Error(err))
		}
	}()
}

func (m *MetricsServer) MarkReady() { m.ready.Store(true) }

// Drain flips /ready to 503 so load balancers stop routing before the API server closes
func (m *MetricsServer) Drain() { m.ready.Store(false) }

func (m *MetricsServer) Shutdown(ctx context.Context) error {
	m.Drain()
	return m.srv.Shutdown(ctx)
}

// Handler exposes the mux for tests
func (m *MetricsServer) Handler() http.Handler { return m.srv.Handler }

func (m *MetricsServer) readyHandler(w http.ResponseWriter, r *http.Request) {
	if !m.ready.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
		return
	}
	_, _ = w.Write([]byte("ready"))
}
