package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/dcakery/standingd/internal/domain/errors"
	"github.com/dcakery/standingd/internal/domain/model"
	"github.com/dcakery/standingd/internal/server/http/dto"
	"github.com/dcakery/standingd/internal/usecase"
)

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid " + name})
		return 0, false
	}
	return id, true
}

func daysAheadQuery(c *gin.Context) (int, bool) {
	raw := c.Query("days_ahead")
	if raw == "" {
		return 0, true
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid days_ahead"})
		return 0, false
	}
	return days, true
}

// writeError maps domain errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	var validation *domainErrors.ValidationError
	var integrity *domainErrors.ReferentialIntegrityError
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: validation.Error()})
	case errors.As(err, &integrity):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: integrity.Error()})
	case errors.Is(err, domainErrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "not found"})
	case errors.Is(err, domainErrors.ErrConflict):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "invalid credentials"})
	default:
		c.Status(http.StatusInternalServerError)
	}
}

func toDraft(req dto.CreateStandingOrderRequest) (usecase.StandingOrderDraft, error) {
	draft := usecase.StandingOrderDraft{
		CustomerID: req.CustomerID,
		Notes:      req.Notes,
		CreatedBy:  "admin",
	}
	for _, item := range req.Items {
		draft.Items = append(draft.Items, model.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}

	schedule := model.Schedule{Type: model.RecurrenceType(req.RecurrenceType)}
	switch schedule.Type {
	case model.RecurrenceWeeklyDays:
		var cfg dto.WeeklyDaysConfig
		if err := json.Unmarshal(req.RecurrenceConfig, &cfg); err != nil {
			return draft, domainErrors.NewValidation("recurrence_config", "malformed weekly_days config")
		}
		for _, day := range cfg.Days {
			if day < 0 || day > 6 {
				return draft, domainErrors.NewValidation("recurrence_config.days", "weekday out of range")
			}
			schedule.WeeklyDays = append(schedule.WeeklyDays, weekdayFromWire(day))
		}
	case model.RecurrenceInterval:
		var cfg dto.IntervalConfig
		if err := json.Unmarshal(req.RecurrenceConfig, &cfg); err != nil {
			return draft, domainErrors.NewValidation("recurrence_config", "malformed interval config")
		}
		schedule.IntervalDays = cfg.Days
	default:
		return draft, domainErrors.NewValidation("recurrence_type", "must be weekly_days or interval")
	}

	start, err := time.Parse(dto.DateLayout, req.StartDate)
	if err != nil {
		return draft, domainErrors.NewValidation("start_date", "expected YYYY-MM-DD")
	}
	schedule.StartDate = start

	schedule.Duration = model.DurationType(req.DurationType)
	if req.EndDate != "" {
		end, err := time.Parse(dto.DateLayout, req.EndDate)
		if err != nil {
			return draft, domainErrors.NewValidation("end_date", "expected YYYY-MM-DD")
		}
		schedule.EndDate = &end
	}

	draft.Schedule = schedule
	return draft, nil
}

// Weekday indices on the wire follow the admin client convention
// 0=Monday .. 6=Sunday; time.Weekday counts 0=Sunday internally.
func weekdayFromWire(day int) time.Weekday {
	return time.Weekday((day + 1) % 7)
}

func weekdayToWire(day time.Weekday) int {
	return (int(day) + 6) % 7
}

func recurrenceConfigJSON(s model.Schedule) json.RawMessage {
	switch s.Type {
	case model.RecurrenceWeeklyDays:
		days := make([]int, 0, len(s.WeeklyDays))
		for _, d := range s.WeeklyDays {
			days = append(days, weekdayToWire(d))
		}
		data, _ := json.Marshal(dto.WeeklyDaysConfig{Days: days})
		return data
	default:
		data, _ := json.Marshal(dto.IntervalConfig{Days: s.IntervalDays})
		return data
	}
}

func toItemPayloads(items []model.OrderItem) []dto.OrderItemPayload {
	result := make([]dto.OrderItemPayload, 0, len(items))
	for _, item := range items {
		result = append(result, dto.OrderItemPayload{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Subtotal:    item.Subtotal,
		})
	}
	return result
}

func toStandingOrderResponse(so *model.StandingOrder) dto.StandingOrderResponse {
	resp := dto.StandingOrderResponse{
		ID:               so.ID,
		CustomerID:       so.CustomerID,
		CustomerName:     so.CustomerName,
		Items:            toItemPayloads(so.Items),
		RecurrenceType:   string(so.Schedule.Type),
		RecurrenceConfig: recurrenceConfigJSON(so.Schedule),
		StartDate:        so.Schedule.StartDate.Format(dto.DateLayout),
		DurationType:     string(so.Schedule.Duration),
		Status:           string(so.Status),
		Notes:            so.Notes,
		CreatedBy:        so.CreatedBy,
		CreatedAt:        so.CreatedAt,
	}
	if so.Schedule.EndDate != nil {
		resp.EndDate = so.Schedule.EndDate.Format(dto.DateLayout)
	}
	return resp
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:              order.ID,
		Number:          order.Number,
		CustomerID:      order.CustomerID,
		Items:           toItemPayloads(order.Items),
		TotalAmount:     order.TotalAmount,
		Status:          string(order.Status),
		PaymentStatus:   string(order.PaymentStatus),
		PaymentMethod:   order.PaymentMethod,
		DeliveryDate:    order.DeliveryDate.Format(dto.DateLayout),
		Notes:           order.Notes,
		StandingOrderID: order.StandingOrderID,
		CreatedAt:       order.CreatedAt,
	}
}

func toGenerationSummary(result usecase.GenerationResult) dto.GenerationSummary {
	summary := dto.GenerationSummary{Generated: result.Created, Skipped: result.Existing}
	for _, failure := range result.Failures {
		summary.Failures = append(summary.Failures, dto.OccurrenceFailurePayload{
			Date:   failure.Date.Format(dto.DateLayout),
			Reason: failure.Err.Error(),
		})
	}
	return summary
}
