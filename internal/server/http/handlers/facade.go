package handlers

import (
	"context"

	"github.com/dcakery/standingd/internal/domain/model"
	"github.com/dcakery/standingd/internal/usecase"
)

// AuthFacade describes admin authentication capabilities required by handlers.
type AuthFacade interface {
	Login(ctx context.Context, password string) (string, error)
	ParseToken(token string) error
}

// ScheduleFacade encapsulates standing order operations exposed via HTTP.
type ScheduleFacade interface {
	CreateStandingOrder(ctx context.Context, draft usecase.StandingOrderDraft) (*model.StandingOrder, usecase.GenerationResult, error)
	StandingOrders(ctx context.Context, status *model.StandingOrderStatus) ([]model.StandingOrder, error)
	StandingOrder(ctx context.Context, id int64) (*model.StandingOrder, error)
	GeneratedOrders(ctx context.Context, standingOrderID int64) ([]model.Order, error)
	CancelStandingOrder(ctx context.Context, id int64) (*model.StandingOrder, error)
	DeleteStandingOrder(ctx context.Context, id int64) error
	DeleteGeneratedOrder(ctx context.Context, standingOrderID, orderID int64) error
	Regenerate(ctx context.Context, id int64, daysAhead int) (usecase.GenerationResult, error)
	RegenerateAll(ctx context.Context, daysAhead int) (usecase.RegenerateAllResult, error)
}

// HealthFacade reports service dependencies health.
type HealthFacade interface {
	Healthy(ctx context.Context) error
}

// AdminFacade aggregates the full set of operations used across handlers.
type AdminFacade interface {
	AuthFacade
	ScheduleFacade
	HealthFacade
}
