package repository

import (
	"context"

	"github.com/dcakery/standingd/internal/domain/model"
)

// CustomerRepository provides access to the customer directory.
type CustomerRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Customer, error)
}
