package shutdown

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// PeriodicWorker runs a function on an interval until stopped
type PeriodicWorker struct {
	name     string
	interval time.Duration
	logger   *zap.Logger
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	once     sync.Once
}

// NewPeriodicWorker creates a worker. Start must be called to begin ticking.
func NewPeriodicWorker(name string, interval time.Duration, logger *zap.Logger) *PeriodicWorker {
	return &PeriodicWorker{name: name, interval: interval, logger: logger}
}

// Start runs work on every tick. The first run happens after one interval.
func (pw *PeriodicWorker) Start(work func(ctx context.Context)) {
	ctx, cancel := context.WithCancel(context.Background())
	pw.cancel = cancel

	pw.wg.Add(1)
	go func() {
		defer pw.wg.Done()
		ticker := time.NewTicker(pw.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				work(ctx)
			}
		}
	}()

	pw.logger.Info("Periodic worker started",
		zap.String("worker", pw.name),
		zap.Duration("interval", pw.interval),
	)
}

// Shutdown cancels the worker and waits for an in-progress run, bounded by ctx
func (pw *PeriodicWorker) Shutdown(ctx context.Context) error {
	pw.once.Do(func() {
		if pw.cancel != nil {
			pw.cancel()
		}
	})

	done := make(chan struct{})
	go func() {
		pw.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		pw.logger.Warn("Periodic worker did not stop in time", zap.String("worker", pw.name))
		return ctx.Err()
	}
}
