package repository

import (
	"context"
	"time"

	"github.com/dcakery/standingd/internal/domain/model"
)

// OrderRepository describes persistence operations for generated orders.
type OrderRepository interface {
	// CreateGenerated inserts an order materialized from a standing order.
	// The insert is guarded by the standing order still being active and by
	// the uniqueness of (standing_order_id, delivery_date). When a duplicate
	// already exists the existing order is returned with created=false.
	// ErrConflict means the standing order was cancelled or deleted mid
	// generation; ErrNotFound means it is gone entirely.
	CreateGenerated(ctx context.Context, order *model.Order) (*model.Order, bool, error)
	GetGenerated(ctx context.Context, standingOrderID int64, deliveryDate time.Time) (*model.Order, error)
	ListGenerated(ctx context.Context, standingOrderID int64) ([]model.Order, error)
	DeleteGenerated(ctx context.Context, standingOrderID, orderID int64) error
	// DeletePending removes generated orders of a standing order that are
	// still in pending status, returning how many rows were removed.
	DeletePending(ctx context.Context, standingOrderID int64) (int64, error)
}
