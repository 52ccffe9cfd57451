// Package scheduler drives the periodic expiry sweep of the todo store.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fentz26/fade/internal/logging"
	"github.com/fentz26/fade/internal/todo"
)

// Sweeper runs todo.Store.Sweep on a fixed period.
type Sweeper struct {
	store  *todo.Store
	config *Config
	logger *log.Logger

	mu      sync.Mutex
	running bool
	ticks   int
	expired int

	// Control
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new sweeper. A nil config uses DefaultConfig.
func New(s *todo.Store, cfg *Config, logger *log.Logger) *Sweeper {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Sweeper{
		store:  s,
		config: cfg,
		logger: logger,
	}
}

// Start begins the sweep loop. Calling Start on a running sweeper is a no-op.
func (sw *Sweeper) Start() {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	if sw.running {
		return
	}
	sw.running = true
	sw.ctx, sw.cancel = context.WithCancel(context.Background())

	sw.wg.Add(1)
	go sw.loop(sw.ctx)
	sw.logger.Info("sweeper started", "interval", sw.config.interval())
}

// Stop cancels the sweep loop and waits for it to exit.
func (sw *Sweeper) Stop() {
	sw.mu.Lock()
	if !sw.running {
		sw.mu.Unlock()
		return
	}
	sw.running = false
	sw.cancel()
	sw.mu.Unlock()

	sw.wg.Wait()
	sw.logger.Info("sweeper stopped")
}

// loop ticks until ctx is cancelled.
func (sw *Sweeper) loop(ctx context.Context) {
	defer sw.wg.Done()

	ticker := time.NewTicker(sw.config.interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sw.Tick(sw.store.Clock().Now())
		}
	}
}

// Tick runs one sweep at now and returns the number of expired items.
func (sw *Sweeper) Tick(now time.Time) int {
	n := sw.store.Sweep(now)

	sw.mu.Lock()
	sw.ticks++
	sw.expired += n
	sw.mu.Unlock()

	if n > 0 {
		sw.logger.Debug("sweep", "expired", n, "remaining", sw.store.Len())
	}
	return n
}

// GetStats returns current sweeper statistics.
func (sw *Sweeper) GetStats() map[string]interface{} {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	return map[string]interface{}{
		"running":  sw.running,
		"interval": sw.config.interval().String(),
		"ticks":    sw.ticks,
		"expired":  sw.expired,
	}
}
