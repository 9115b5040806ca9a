package model

import "time"

// Customer is a wholesale buyer standing orders are created for.
type Customer struct {
	ID        int64
	Name      string
	Active    bool
	CreatedAt time.Time
}
