package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	domainErrors "github.com/dcakery/standingd/internal/domain/errors"
	"github.com/dcakery/standingd/internal/domain/model"
	"github.com/dcakery/standingd/internal/domain/repository"
)

// OccurrenceFailure records a single due date whose materialization failed.
type OccurrenceFailure struct {
	Date time.Time
	Err  error
}

// GenerationResult summarizes one generation pass over a window. Failures are
// collected per date and never abort the remaining dates.
type GenerationResult struct {
	Created  int
	Existing int
	Orders   []*model.Order
	Failures []OccurrenceFailure
}

// RegenerateAllResult summarizes a rolling regeneration pass over every
// active standing order.
type RegenerateAllResult struct {
	Processed int
	Created   int
	Failed    int
}

// ScheduleManager orchestrates the standing order lifecycle and the windowed
// generation keeping future orders populated.
type ScheduleManager struct {
	standing     repository.StandingOrderRepository
	orders       repository.OrderRepository
	customers    repository.CustomerRepository
	materializer *Materializer
	windowDays   int
	now          func() time.Time
	logger       *slog.Logger
}

// NewScheduleManager constructs ScheduleManager. A nil clock defaults to
// time.Now; tests inject a fixed clock for deterministic windows.
func NewScheduleManager(
	standing repository.StandingOrderRepository,
	orders repository.OrderRepository,
	customers repository.CustomerRepository,
	materializer *Materializer,
	windowDays int,
	clock func() time.Time,
	logger *slog.Logger,
) *ScheduleManager {
	if windowDays <= 0 {
		windowDays = 10
	}
	if clock == nil {
		clock = time.Now
	}
	return &ScheduleManager{
		standing:     standing,
		orders:       orders,
		customers:    customers,
		materializer: materializer,
		windowDays:   windowDays,
		now:          clock,
		logger:       logger,
	}
}

// Create validates a definition, persists the standing order as active and
// immediately generates occurrences for the configured forward window.
func (m *ScheduleManager) Create(ctx context.Context, draft StandingOrderDraft) (*model.StandingOrder, GenerationResult, error) {
	now := m.now()
	if err := ValidateDraft(draft, now); err != nil {
		return nil, GenerationResult{}, err
	}

	customer, err := m.customers.GetByID(ctx, draft.CustomerID)
	if err != nil {
		return nil, GenerationResult{}, err
	}

	schedule := draft.Schedule
	schedule.StartDate = model.Midnight(schedule.StartDate)
	if schedule.EndDate != nil {
		end := model.Midnight(*schedule.EndDate)
		schedule.EndDate = &end
	}

	so, err := m.standing.Create(ctx, &model.StandingOrder{
		CustomerID:   draft.CustomerID,
		CustomerName: customer.Name,
		Items:        draft.Items,
		Schedule:     schedule,
		Status:       model.StandingOrderActive,
		Notes:        draft.Notes,
		CreatedBy:    draft.CreatedBy,
	})
	if err != nil {
		return nil, GenerationResult{}, err
	}

	result := m.generate(ctx, so, m.windowDays)
	return so, result, nil
}

// Regenerate re-runs generation over [today, today+daysAhead) for an active
// standing order. Idempotent: already generated dates are skipped. A
// cancelled standing order is a no-op producing zero orders.
func (m *ScheduleManager) Regenerate(ctx context.Context, id int64, daysAhead int) (GenerationResult, error) {
	so, err := m.standing.GetByID(ctx, id)
	if err != nil {
		return GenerationResult{}, err
	}
	if so.Status != model.StandingOrderActive {
		return GenerationResult{}, nil
	}
	if daysAhead <= 0 {
		daysAhead = m.windowDays
	}
	return m.generate(ctx, so, daysAhead), nil
}

// RegenerateAll runs a regeneration pass over every active standing order.
// Invoked by the rolling background worker and the cron endpoint.
func (m *ScheduleManager) RegenerateAll(ctx context.Context, daysAhead int) (RegenerateAllResult, error) {
	active := model.StandingOrderActive
	orders, err := m.standing.List(ctx, &active)
	if err != nil {
		return RegenerateAllResult{}, err
	}

	var summary RegenerateAllResult
	for i := range orders {
		so := orders[i]
		if daysAhead <= 0 {
			daysAhead = m.windowDays
		}
		result := m.generate(ctx, &so, daysAhead)
		summary.Processed++
		summary.Created += result.Created
		summary.Failed += len(result.Failures)
	}
	return summary, nil
}

// Cancel transitions a standing order to cancelled. Already generated orders
// are left untouched and keep progressing through their own lifecycle.
func (m *ScheduleManager) Cancel(ctx context.Context, id int64) (*model.StandingOrder, error) {
	return m.standing.SetStatus(ctx, id, model.StandingOrderActive, model.StandingOrderCancelled)
}

// Delete removes a standing order together with its generated orders still in
// pending status. Confirmed and delivered orders survive for history and
// reporting.
func (m *ScheduleManager) Delete(ctx context.Context, id int64) error {
	if _, err := m.standing.GetByID(ctx, id); err != nil {
		return err
	}

	removed, err := m.orders.DeletePending(ctx, id)
	if err != nil {
		return err
	}
	if err := m.standing.Delete(ctx, id); err != nil {
		return err
	}

	m.logger.Info("standing order deleted",
		slog.Int64("standing_order_id", id),
		slog.Int64("pending_orders_removed", removed),
	)
	return nil
}

// DeleteOccurrence removes one generated order, skipping a single delivery
// date without touching the rest of the series.
func (m *ScheduleManager) DeleteOccurrence(ctx context.Context, standingOrderID, orderID int64) error {
	return m.orders.DeleteGenerated(ctx, standingOrderID, orderID)
}

// ListGenerated returns a standing order's generated orders ascending by
// delivery date.
func (m *ScheduleManager) ListGenerated(ctx context.Context, standingOrderID int64) ([]model.Order, error) {
	if _, err := m.standing.GetByID(ctx, standingOrderID); err != nil {
		return nil, err
	}
	return m.orders.ListGenerated(ctx, standingOrderID)
}

// List returns standing orders, optionally filtered by status.
func (m *ScheduleManager) List(ctx context.Context, status *model.StandingOrderStatus) ([]model.StandingOrder, error) {
	return m.standing.List(ctx, status)
}

// Get returns one standing order by id.
func (m *ScheduleManager) Get(ctx context.Context, id int64) (*model.StandingOrder, error) {
	return m.standing.GetByID(ctx, id)
}

// generate materializes every due date in the daysAhead window starting at
// max(today, start_date). Dates fail independently; a conflict from a racing
// cancel or delete stops the pass since every later insert would conflict too.
func (m *ScheduleManager) generate(ctx context.Context, so *model.StandingOrder, daysAhead int) GenerationResult {
	base := model.Midnight(m.now())
	if so.Schedule.StartDate.After(base) {
		base = so.Schedule.StartDate
	}
	windowEnd := base.AddDate(0, 0, daysAhead-1)

	var result GenerationResult
	dates, err := OccurrencesBetween(so.Schedule, base, windowEnd)
	if err != nil {
		result.Failures = append(result.Failures, OccurrenceFailure{Date: base, Err: err})
		return result
	}

	for _, date := range dates {
		order, created, err := m.materializer.Materialize(ctx, so, date)
		if err != nil {
			result.Failures = append(result.Failures, OccurrenceFailure{Date: date, Err: err})
			if errors.Is(err, domainErrors.ErrConflict) || errors.Is(err, domainErrors.ErrNotFound) {
				m.logger.Warn("generation interrupted by concurrent lifecycle change",
					slog.Int64("standing_order_id", so.ID),
					slog.String("error", err.Error()),
				)
				return result
			}
			continue
		}
		if created {
			result.Created++
			result.Orders = append(result.Orders, order)
		} else {
			result.Existing++
		}
	}
	return result
}
