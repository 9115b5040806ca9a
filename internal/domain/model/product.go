package model

import "time"

// Product is a catalog entry referenced by order items.
type Product struct {
	ID        int64
	Name      string
	Price     float64
	Available bool
	CreatedAt time.Time
}
