package repository

import (
	"context"

	"github.com/dcakery/standingd/internal/domain/model"
)

// StandingOrderRepository describes persistence operations for standing orders.
type StandingOrderRepository interface {
	Create(ctx context.Context, so *model.StandingOrder) (*model.StandingOrder, error)
	GetByID(ctx context.Context, id int64) (*model.StandingOrder, error)
	List(ctx context.Context, status *model.StandingOrderStatus) ([]model.StandingOrder, error)
	// SetStatus transitions id from one status to another atomically. It
	// returns ErrConflict when the current status differs from the expected
	// one, ErrNotFound when the standing order does not exist.
	SetStatus(ctx context.Context, id int64, from, to model.StandingOrderStatus) (*model.StandingOrder, error)
	Delete(ctx context.Context, id int64) error
}
