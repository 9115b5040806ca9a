package app

import (
	"context"
	"log/slog"
	"time"

	domainErrors "github.com/dcakery/standingd/internal/domain/errors"
	"github.com/dcakery/standingd/internal/domain/model"
	"github.com/dcakery/standingd/internal/pkg/auth"
	"github.com/dcakery/standingd/internal/usecase"
)

// adminSubject is the only token subject the engine issues.
const adminSubject = "admin"

const notifyTimeout = 30 * time.Second

// OrderNotifier announces generated orders to an external consumer.
type OrderNotifier interface {
	OrderGenerated(ctx context.Context, order *model.Order) error
}

// HealthChecker reports storage connectivity.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// AdminFacade exposes the full application surface consumed by the HTTP
// handlers and the regeneration worker.
type AdminFacade struct {
	schedule  *usecase.ScheduleManager
	tokens    auth.Strategy
	passwords auth.PasswordHasher
	adminHash string
	notifier  OrderNotifier
	health    HealthChecker
	logger    *slog.Logger
}

func NewAdminFacade(
	schedule *usecase.ScheduleManager,
	tokens auth.Strategy,
	passwords auth.PasswordHasher,
	adminHash string,
	notifier OrderNotifier,
	health HealthChecker,
	logger *slog.Logger,
) *AdminFacade {
	return &AdminFacade{
		schedule:  schedule,
		tokens:    tokens,
		passwords: passwords,
		adminHash: adminHash,
		notifier:  notifier,
		health:    health,
		logger:    logger,
	}
}

// Login verifies the admin password and issues a session token.
func (f *AdminFacade) Login(ctx context.Context, password string) (string, error) {
	if f.adminHash == "" {
		return "", domainErrors.ErrInvalidCredentials
	}
	if err := f.passwords.Compare(f.adminHash, password); err != nil {
		return "", domainErrors.ErrInvalidCredentials
	}
	return f.tokens.IssueToken(adminSubject)
}

// ParseToken verifies a session token belongs to the admin.
func (f *AdminFacade) ParseToken(token string) error {
	subject, err := f.tokens.ParseToken(token)
	if err != nil {
		return err
	}
	if subject != adminSubject {
		return auth.ErrInvalidToken
	}
	return nil
}

func (f *AdminFacade) CreateStandingOrder(ctx context.Context, draft usecase.StandingOrderDraft) (*model.StandingOrder, usecase.GenerationResult, error) {
	so, result, err := f.schedule.Create(ctx, draft)
	if err != nil {
		return nil, usecase.GenerationResult{}, err
	}
	f.notifyGenerated(result.Orders)
	return so, result, nil
}

func (f *AdminFacade) StandingOrders(ctx context.Context, status *model.StandingOrderStatus) ([]model.StandingOrder, error) {
	return f.schedule.List(ctx, status)
}

func (f *AdminFacade) StandingOrder(ctx context.Context, id int64) (*model.StandingOrder, error) {
	return f.schedule.Get(ctx, id)
}

func (f *AdminFacade) GeneratedOrders(ctx context.Context, id int64) ([]model.Order, error) {
	return f.schedule.ListGenerated(ctx, id)
}

func (f *AdminFacade) CancelStandingOrder(ctx context.Context, id int64) (*model.StandingOrder, error) {
	return f.schedule.Cancel(ctx, id)
}

func (f *AdminFacade) DeleteStandingOrder(ctx context.Context, id int64) error {
	return f.schedule.Delete(ctx, id)
}

func (f *AdminFacade) DeleteGeneratedOrder(ctx context.Context, standingOrderID, orderID int64) error {
	return f.schedule.DeleteOccurrence(ctx, standingOrderID, orderID)
}

func (f *AdminFacade) Regenerate(ctx context.Context, id int64, daysAhead int) (usecase.GenerationResult, error) {
	result, err := f.schedule.Regenerate(ctx, id, daysAhead)
	if err != nil {
		return usecase.GenerationResult{}, err
	}
	f.notifyGenerated(result.Orders)
	return result, nil
}

func (f *AdminFacade) RegenerateAll(ctx context.Context, daysAhead int) (usecase.RegenerateAllResult, error) {
	return f.schedule.RegenerateAll(ctx, daysAhead)
}

// ActiveStandingOrders lists schedules the regeneration worker should roll forward.
func (f *AdminFacade) ActiveStandingOrders(ctx context.Context) ([]model.StandingOrder, error) {
	status := model.StandingOrderActive
	return f.schedule.List(ctx, &status)
}

func (f *AdminFacade) Healthy(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}

// notifyGenerated delivers webhook notifications without blocking the
// request; failures are logged and never surfaced to the caller.
func (f *AdminFacade) notifyGenerated(orders []*model.Order) {
	if len(orders) == 0 {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		for _, order := range orders {
			if err := f.notifier.OrderGenerated(ctx, order); err != nil {
				f.logger.Warn("order notification failed",
					slog.String("number", order.Number),
					slog.String("error", err.Error()))
			}
		}
	}()
}
