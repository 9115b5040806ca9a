package dto

import (
	"encoding/json"
	"time"
)

// DateLayout is the wire format for delivery and schedule dates.
const DateLayout = "2006-01-02"

// OrderItemPayload is one order line in requests and responses.
type OrderItemPayload struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Subtotal    float64 `json:"subtotal,omitempty"`
}

// WeeklyDaysConfig configures a weekly_days recurrence: a set of weekdays,
// 0=Monday through 6=Sunday.
type WeeklyDaysConfig struct {
	Days []int `json:"days"`
}

// IntervalConfig configures an interval recurrence: every N days.
type IntervalConfig struct {
	Days int `json:"days"`
}

// CreateStandingOrderRequest describes a new standing order definition.
// RecurrenceConfig is decoded into WeeklyDaysConfig or IntervalConfig
// depending on RecurrenceType.
type CreateStandingOrderRequest struct {
	CustomerID       int64              `json:"customer_id"`
	Items            []OrderItemPayload `json:"items"`
	RecurrenceType   string             `json:"recurrence_type"`
	RecurrenceConfig json.RawMessage    `json:"recurrence_config"`
	StartDate        string             `json:"start_date"`
	DurationType     string             `json:"duration_type"`
	EndDate          string             `json:"end_date,omitempty"`
	Notes            string             `json:"notes,omitempty"`
}

// UpdateStandingOrderRequest carries a status transition. Only "cancelled"
// is accepted.
type UpdateStandingOrderRequest struct {
	Status string `json:"status"`
}

// StandingOrderResponse is the wire shape of a standing order.
type StandingOrderResponse struct {
	ID               int64              `json:"id"`
	CustomerID       int64              `json:"customer_id"`
	CustomerName     string             `json:"customer_name"`
	Items            []OrderItemPayload `json:"items"`
	RecurrenceType   string             `json:"recurrence_type"`
	RecurrenceConfig json.RawMessage    `json:"recurrence_config"`
	StartDate        string             `json:"start_date"`
	DurationType     string             `json:"duration_type"`
	EndDate          string             `json:"end_date,omitempty"`
	Status           string             `json:"status"`
	Notes            string             `json:"notes,omitempty"`
	CreatedBy        string             `json:"created_by,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
}

// OrderResponse is the wire shape of a generated order.
type OrderResponse struct {
	ID              int64              `json:"id"`
	Number          string             `json:"number"`
	CustomerID      int64              `json:"customer_id"`
	Items           []OrderItemPayload `json:"items"`
	TotalAmount     float64            `json:"total_amount"`
	Status          string             `json:"status"`
	PaymentStatus   string             `json:"payment_status"`
	PaymentMethod   string             `json:"payment_method"`
	DeliveryDate    string             `json:"delivery_date"`
	Notes           string             `json:"notes,omitempty"`
	StandingOrderID *int64             `json:"standing_order_id,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
}

// OccurrenceFailurePayload reports one delivery date that could not be
// materialized.
type OccurrenceFailurePayload struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

// GenerationSummary reports the outcome of one generation pass.
type GenerationSummary struct {
	Generated int                        `json:"generated"`
	Skipped   int                        `json:"skipped"`
	Failures  []OccurrenceFailurePayload `json:"failures,omitempty"`
}

// CreateStandingOrderResponse returns the created standing order together
// with its initial generation summary.
type CreateStandingOrderResponse struct {
	StandingOrder StandingOrderResponse `json:"standing_order"`
	Generation    GenerationSummary     `json:"generation"`
}

// RegenerateResponse reports a single standing order regeneration pass.
type RegenerateResponse struct {
	Generation GenerationSummary `json:"generation"`
}

// RegenerateAllResponse summarizes a regeneration pass over all active
// standing orders.
type RegenerateAllResponse struct {
	Processed int `json:"processed"`
	Generated int `json:"generated"`
	Failed    int `json:"failed"`
}

// ErrorResponse carries a human readable error message.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse reports service health.
type HealthResponse struct {
	Status string `json:"status"`
}
