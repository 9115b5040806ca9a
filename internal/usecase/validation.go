package usecase

import (
	"time"

	domainErrors "github.com/dcakery/standingd/internal/domain/errors"
	"github.com/dcakery/standingd/internal/domain/model"
)

// StandingOrderDraft is the validated input for creating a standing order.
type StandingOrderDraft struct {
	CustomerID int64
	Items      []model.OrderItem
	Schedule   model.Schedule
	Notes      string
	CreatedBy  string
}

// ValidateDraft checks a standing order definition against the domain
// invariants, returning a ValidationError for the first violation found.
func ValidateDraft(d StandingOrderDraft, now time.Time) error {
	if d.CustomerID <= 0 {
		return domainErrors.NewValidation("customer_id", "customer is required")
	}

	if len(d.Items) == 0 {
		return domainErrors.NewValidation("items", "at least one item required")
	}
	for _, item := range d.Items {
		if item.ProductID <= 0 {
			return domainErrors.NewValidation("items", "product is required")
		}
		if item.Quantity < 1 {
			return domainErrors.NewValidation("items", "quantity must be at least 1")
		}
		if item.Price < 0 {
			return domainErrors.NewValidation("items", "price cannot be negative")
		}
	}

	if err := validateSchedule(d.Schedule); err != nil {
		return err
	}

	if d.Schedule.StartDate.IsZero() {
		return domainErrors.NewValidation("start_date", "start date is required")
	}

	switch d.Schedule.Duration {
	case model.DurationIndefinite:
	case model.DurationEndDate:
		if d.Schedule.EndDate == nil {
			return domainErrors.NewValidation("end_date", "end date required for end_date duration")
		}
		end := model.Midnight(*d.Schedule.EndDate)
		if !end.After(model.Midnight(d.Schedule.StartDate)) {
			return domainErrors.NewValidation("end_date", "end date must be after start date")
		}
		if !end.After(model.Midnight(now)) {
			return domainErrors.NewValidation("end_date", "end date must be in the future")
		}
	default:
		return domainErrors.NewValidation("duration_type", "unknown duration type")
	}

	return nil
}
