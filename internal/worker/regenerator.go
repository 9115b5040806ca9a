package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dcakery/standingd/internal/domain/model"
	"github.com/dcakery/standingd/internal/usecase"
)

// ScheduleFacade exposes the subset of application functionality required by the worker.
type ScheduleFacade interface {
	ActiveStandingOrders(ctx context.Context) ([]model.StandingOrder, error)
	Regenerate(ctx context.Context, id int64, daysAhead int) (usecase.GenerationResult, error)
}

// Regenerator periodically rolls the generation window of every active
// standing order forward so upcoming deliveries always have orders.
type Regenerator struct {
	facade    ScheduleFacade
	interval  time.Duration
	daysAhead int
	workers   int
	logger    *slog.Logger

	jobs   chan model.StandingOrder
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewRegenerator constructs the rolling regeneration worker pool. A zero
// interval disables the worker entirely.
func NewRegenerator(facade ScheduleFacade, interval time.Duration, daysAhead, workers int, logger *slog.Logger) *Regenerator {
	if workers <= 0 {
		workers = 1
	}
	return &Regenerator{
		facade:    facade,
		interval:  interval,
		daysAhead: daysAhead,
		workers:   workers,
		logger:    logger,
		jobs:      make(chan model.StandingOrder, workers*2),
	}
}

// Start launches background regeneration.
func (r *Regenerator) Start(ctx context.Context) {
	if r.interval <= 0 {
		r.logger.Info("standing order regeneration worker disabled")
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker(runCtx)
	}

	r.wg.Add(1)
	go r.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (r *Regenerator) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *Regenerator) dispatch(ctx context.Context) {
	defer r.wg.Done()
	defer close(r.jobs)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.fetchAndDispatch(ctx)
		}
	}
}

func (r *Regenerator) fetchAndDispatch(ctx context.Context) {
	standing, err := r.facade.ActiveStandingOrders(ctx)
	if err != nil {
		r.logger.Error("fetch active standing orders failed", slog.String("error", err.Error()))
		return
	}
	for _, so := range standing {
		select {
		case <-ctx.Done():
			return
		case r.jobs <- so:
		}
	}
}

func (r *Regenerator) worker(ctx context.Context) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case so, ok := <-r.jobs:
			if !ok {
				return
			}
			r.handle(ctx, so)
		}
	}
}

func (r *Regenerator) handle(ctx context.Context, so model.StandingOrder) {
	result, err := r.facade.Regenerate(ctx, so.ID, r.daysAhead)
	if err != nil {
		r.logger.Error("regenerate standing order failed",
			slog.Int64("standing_order_id", so.ID),
			slog.String("error", err.Error()))
		return
	}
	if result.Created > 0 || len(result.Failures) > 0 {
		r.logger.Info("standing order regenerated",
			slog.Int64("standing_order_id", so.ID),
			slog.Int("created", result.Created),
			slog.Int("existing", result.Existing),
			slog.Int("failed", len(result.Failures)))
	}
}
