package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var (
	shutdownDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gym_admin_shutdown_duration_seconds",
		Help:    "Total time taken to shut down",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 30},
	})

	shutdownErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gym_admin_shutdown_errors_total",
		Help: "Shutdown errors by component",
	}, []string{"component"})
)

// ShutdownFunc stops one component
type ShutdownFunc func(context.Context) error

type component struct {
	name string
	fn   ShutdownFunc
}

// Manager stops registered components in reverse registration order, one at a time,
// so that state is flushed only after the servers feeding it have drained.
type Manager struct {
	logger     *zap.Logger
	timeout    time.Duration
	mu         sync.Mutex
	components []component
	once       sync.Once
}

// NewManager creates a new shutdown manager
func NewManager(logger *zap.Logger, timeout time.Duration) *Manager {
	return &Manager{logger: logger, timeout: timeout}
}

// Register adds a component. Later registrations stop first.
func (sm *Manager) Register(name string, fn ShutdownFunc) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.components = append(sm.components, component{name: name, fn: fn})
}

// RegisterHTTPServer registers anything with an http.Server style Shutdown method
func (sm *Manager) RegisterHTTPServer(name string, server interface{ Shutdown(context.Context) error }) {
	sm.Register(name, server.Shutdown)
}

// RegisterNoErr registers a shutdown step that cannot fail
func (sm *Manager) RegisterNoErr(name string, fn func()) {
	sm.Register(name, func(context.Context) error {
		fn()
		return nil
	})
}

// WaitForShutdown blocks until SIGINT, SIGTERM, or ctx cancellation, then shuts down
func (sm *Manager) WaitForShutdown(ctx context.Context) {
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-sigCtx.Done()
	sm.logger.Info("Shutdown signal received", zap.Duration("timeout", sm.timeout))
	sm.Shutdown()
}

// Shutdown runs every component once. Errors are logged and do not stop later components.
// It returns the names of components that failed.
func (sm *Manager) Shutdown() []string {
	var failed []string
	sm.once.Do(func() {
		start := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), sm.timeout)
		defer cancel()

		sm.mu.Lock()
		components := append([]component(nil), sm.components...)
		sm.mu.Unlock()

		for i := len(components) - 1; i >= 0; i-- {
			c := components[i]
			stepStart := time.Now()
			if err := c.fn(ctx); err != nil {
				failed = append(failed, c.name)
				shutdownErrors.WithLabelValues(c.name).Inc()
				sm.logger.Error("Component shutdown failed",
					zap.String("component", c.name),
					zap.Error(err),
				)
				continue
			}
			sm.logger.Info("Component stopped",
				zap.String("component", c.name),
				zap.Duration("elapsed", time.Since(stepStart)),
			)
		}

		shutdownDuration.Observe(time.Since(start).Seconds())
		sm.logger.Info("Shutdown complete",
			zap.Int("failed", len(failed)),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
	return failed
}
