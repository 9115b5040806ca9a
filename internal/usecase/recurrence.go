package usecase

import (
	"time"

	domainErrors "github.com/dcakery/standingd/internal/domain/errors"
	"github.com/dcakery/standingd/internal/domain/model"
)

// OccurrencesBetween expands a recurrence schedule into the ordered set of
// calendar dates falling due inside [windowStart, windowEnd], both inclusive.
// The window is clamped to the schedule's start date and, when present, its
// end date. The result is strictly ascending with no duplicates.
func OccurrencesBetween(s model.Schedule, windowStart, windowEnd time.Time) ([]time.Time, error) {
	if err := validateSchedule(s); err != nil {
		return nil, err
	}

	start := model.Midnight(windowStart)
	if s.StartDate.After(start) {
		start = model.Midnight(s.StartDate)
	}
	end := model.Midnight(windowEnd)
	if s.Duration == model.DurationEndDate && s.EndDate != nil {
		if last := model.Midnight(*s.EndDate); last.Before(end) {
			end = last
		}
	}
	if end.Before(start) {
		return nil, nil
	}

	switch s.Type {
	case model.RecurrenceWeeklyDays:
		return weeklyOccurrences(s, start, end), nil
	default:
		return intervalOccurrences(s, start, end), nil
	}
}

func weeklyOccurrences(s model.Schedule, start, end time.Time) []time.Time {
	due := make(map[time.Weekday]bool, len(s.WeeklyDays))
	for _, day := range s.WeeklyDays {
		due[day] = true
	}

	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if due[d.Weekday()] {
			dates = append(dates, d)
		}
	}
	return dates
}

func intervalOccurrences(s model.Schedule, start, end time.Time) []time.Time {
	anchor := model.Midnight(s.StartDate)
	step := s.IntervalDays

	// First in-window date with (d - anchor) divisible by the interval. The
	// anchor itself counts as an occurrence.
	sinceAnchor := daysBetween(anchor, start)
	first := start
	if rem := sinceAnchor % step; rem != 0 {
		first = start.AddDate(0, 0, step-rem)
	}

	var dates []time.Time
	for d := first; !d.After(end); d = d.AddDate(0, 0, step) {
		dates = append(dates, d)
	}
	return dates
}

// daysBetween counts whole days from a to b; both are expected at UTC midnight.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}

func validateSchedule(s model.Schedule) error {
	switch s.Type {
	case model.RecurrenceWeeklyDays:
		if len(s.WeeklyDays) == 0 {
			return domainErrors.NewValidation("recurrence_config.days", "at least one weekday required")
		}
		for _, day := range s.WeeklyDays {
			if day < time.Sunday || day > time.Saturday {
				return domainErrors.NewValidation("recurrence_config.days", "weekday out of range")
			}
		}
	case model.RecurrenceInterval:
		if s.IntervalDays < 1 {
			return domainErrors.NewValidation("recurrence_config.days", "interval must be at least 1 day")
		}
	default:
		return domainErrors.NewValidation("recurrence_type", "unknown recurrence type")
	}
	return nil
}
