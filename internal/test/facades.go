package test

import (
	"context"
	"sync"

	"github.com/dcakery/standingd/internal/domain/model"
	"github.com/dcakery/standingd/internal/usecase"
)

// ScheduleFacadeStub provides controllable behaviour for standing order endpoints.
type ScheduleFacadeStub struct {
	CreateFn           func(context.Context, usecase.StandingOrderDraft) (*model.StandingOrder, usecase.GenerationResult, error)
	ListFn             func(context.Context, *model.StandingOrderStatus) ([]model.StandingOrder, error)
	GetFn              func(context.Context, int64) (*model.StandingOrder, error)
	GeneratedFn        func(context.Context, int64) ([]model.Order, error)
	CancelFn           func(context.Context, int64) (*model.StandingOrder, error)
	DeleteFn           func(context.Context, int64) error
	DeleteOccurrenceFn func(context.Context, int64, int64) error
	RegenerateFn       func(context.Context, int64, int) (usecase.GenerationResult, error)
	RegenerateAllFn    func(context.Context, int) (usecase.RegenerateAllResult, error)
}

func (s ScheduleFacadeStub) CreateStandingOrder(ctx context.Context, draft usecase.StandingOrderDraft) (*model.StandingOrder, usecase.GenerationResult, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, draft)
	}
	return &model.StandingOrder{ID: 1, CustomerID: draft.CustomerID, Items: draft.Items, Schedule: draft.Schedule, Status: model.StandingOrderActive}, usecase.GenerationResult{Created: 1}, nil
}

func (s ScheduleFacadeStub) StandingOrders(ctx context.Context, status *model.StandingOrderStatus) ([]model.StandingOrder, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, status)
	}
	return []model.StandingOrder{{ID: 1, Status: model.StandingOrderActive}}, nil
}

func (s ScheduleFacadeStub) StandingOrder(ctx context.Context, id int64) (*model.StandingOrder, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, id)
	}
	return &model.StandingOrder{ID: id, Status: model.StandingOrderActive}, nil
}

func (s ScheduleFacadeStub) GeneratedOrders(ctx context.Context, id int64) ([]model.Order, error) {
	if s.GeneratedFn != nil {
		return s.GeneratedFn(ctx, id)
	}
	return nil, nil
}

func (s ScheduleFacadeStub) CancelStandingOrder(ctx context.Context, id int64) (*model.StandingOrder, error) {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, id)
	}
	return &model.StandingOrder{ID: id, Status: model.StandingOrderCancelled}, nil
}

func (s ScheduleFacadeStub) DeleteStandingOrder(ctx context.Context, id int64) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, id)
	}
	return nil
}

func (s ScheduleFacadeStub) DeleteGeneratedOrder(ctx context.Context, standingOrderID, orderID int64) error {
	if s.DeleteOccurrenceFn != nil {
		return s.DeleteOccurrenceFn(ctx, standingOrderID, orderID)
	}
	return nil
}

func (s ScheduleFacadeStub) Regenerate(ctx context.Context, id int64, daysAhead int) (usecase.GenerationResult, error) {
	if s.RegenerateFn != nil {
		return s.RegenerateFn(ctx, id, daysAhead)
	}
	return usecase.GenerationResult{}, nil
}

func (s ScheduleFacadeStub) RegenerateAll(ctx context.Context, daysAhead int) (usecase.RegenerateAllResult, error) {
	if s.RegenerateAllFn != nil {
		return s.RegenerateAllFn(ctx, daysAhead)
	}
	return usecase.RegenerateAllResult{}, nil
}

// AuthFacadeStub simulates admin authentication.
type AuthFacadeStub struct {
	LoginFn      func(context.Context, string) (string, error)
	ParseTokenFn func(string) error
}

func (s AuthFacadeStub) Login(ctx context.Context, password string) (string, error) {
	if s.LoginFn != nil {
		return s.LoginFn(ctx, password)
	}
	return "session-token", nil
}

func (s AuthFacadeStub) ParseToken(token string) error {
	if s.ParseTokenFn != nil {
		return s.ParseTokenFn(token)
	}
	return nil
}

// HealthFacadeStub simulates storage health checks.
type HealthFacadeStub struct {
	HealthyFn func(context.Context) error
}

func (s HealthFacadeStub) Healthy(ctx context.Context) error {
	if s.HealthyFn != nil {
		return s.HealthyFn(ctx)
	}
	return nil
}

// AdminFacadeStub aggregates the full facade surface used across handlers.
type AdminFacadeStub struct {
	AuthFacadeStub
	ScheduleFacadeStub
	HealthFacadeStub
}

// WorkerFacadeStub drives the rolling regeneration worker in tests.
type WorkerFacadeStub struct {
	sync.Mutex
	Standing     [][]model.StandingOrder
	fetches      int
	Regenerated  []int64
	RegenerateFn func(context.Context, int64, int) (usecase.GenerationResult, error)
}

func (s *WorkerFacadeStub) ActiveStandingOrders(ctx context.Context) ([]model.StandingOrder, error) {
	s.Lock()
	defer s.Unlock()
	if s.fetches >= len(s.Standing) {
		return nil, nil
	}
	batch := s.Standing[s.fetches]
	s.fetches++
	return batch, nil
}

func (s *WorkerFacadeStub) Regenerate(ctx context.Context, id int64, daysAhead int) (usecase.GenerationResult, error) {
	s.Lock()
	s.Regenerated = append(s.Regenerated, id)
	s.Unlock()
	if s.RegenerateFn != nil {
		return s.RegenerateFn(ctx, id, daysAhead)
	}
	return usecase.GenerationResult{Created: 1}, nil
}
