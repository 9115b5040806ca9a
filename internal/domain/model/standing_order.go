package model

import "time"

// RecurrenceType discriminates schedule configuration shapes.
type RecurrenceType string

const (
	RecurrenceWeeklyDays RecurrenceType = "weekly_days"
	RecurrenceInterval   RecurrenceType = "interval"
)

// DurationType describes how long a standing order keeps producing occurrences.
type DurationType string

const (
	DurationIndefinite DurationType = "indefinite"
	DurationEndDate    DurationType = "end_date"
)

// StandingOrderStatus describes standing order lifecycle.
type StandingOrderStatus string

const (
	StandingOrderActive    StandingOrderStatus = "active"
	StandingOrderCancelled StandingOrderStatus = "cancelled"
)

// Schedule is a recurrence definition. Exactly one of WeeklyDays or
// IntervalDays is meaningful, selected by Type.
type Schedule struct {
	Type         RecurrenceType
	WeeklyDays   []time.Weekday
	IntervalDays int
	StartDate    time.Time
	Duration     DurationType
	EndDate      *time.Time
}

// StandingOrder is an admin-defined recurring order template for a customer.
type StandingOrder struct {
	ID           int64
	CustomerID   int64
	CustomerName string
	Items        []OrderItem
	Schedule     Schedule
	Status       StandingOrderStatus
	Notes        string
	CreatedBy    string
	CreatedAt    time.Time
}
