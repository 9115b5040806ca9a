package repository

import "context"

// ProductRepository provides existence checks against the product catalog.
type ProductRepository interface {
	// MissingIDs returns the subset of ids that do not exist in the catalog.
	MissingIDs(ctx context.Context, ids []int64) ([]int64, error)
}
