package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dcakery/standingd/internal/domain/model"
	"github.com/dcakery/standingd/internal/server/http/dto"
)

// StandingOrderHandler manages standing order endpoints.
type StandingOrderHandler struct {
	facade ScheduleFacade
}

// NewStandingOrderHandler constructs StandingOrderHandler.
func NewStandingOrderHandler(facade ScheduleFacade) *StandingOrderHandler {
	return &StandingOrderHandler{facade: facade}
}

// Create handles POST /api/admin/standing-orders.
func (h *StandingOrderHandler) Create(c *gin.Context) {
	var req dto.CreateStandingOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "malformed request body"})
		return
	}

	draft, err := toDraft(req)
	if err != nil {
		writeError(c, err)
		return
	}

	so, result, err := h.facade.CreateStandingOrder(c.Request.Context(), draft)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreateStandingOrderResponse{
		StandingOrder: toStandingOrderResponse(so),
		Generation:    toGenerationSummary(result),
	})
}

// List handles GET /api/admin/standing-orders.
func (h *StandingOrderHandler) List(c *gin.Context) {
	var status *model.StandingOrderStatus
	switch raw := c.Query("status"); raw {
	case "":
	case string(model.StandingOrderActive), string(model.StandingOrderCancelled):
		s := model.StandingOrderStatus(raw)
		status = &s
	default:
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid status filter"})
		return
	}

	list, err := h.facade.StandingOrders(c.Request.Context(), status)
	if err != nil {
		writeError(c, err)
		return
	}

	response := make([]dto.StandingOrderResponse, 0, len(list))
	for i := range list {
		response = append(response, toStandingOrderResponse(&list[i]))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/admin/standing-orders/:id.
func (h *StandingOrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	so, err := h.facade.StandingOrder(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toStandingOrderResponse(so))
}

// Update handles PUT /api/admin/standing-orders/:id. The only supported
// transition is active to cancelled; a cancelled standing order cannot be
// reactivated.
func (h *StandingOrderHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateStandingOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "malformed request body"})
		return
	}
	if req.Status != string(model.StandingOrderCancelled) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "only status=cancelled is supported"})
		return
	}

	so, err := h.facade.CancelStandingOrder(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toStandingOrderResponse(so))
}

// Delete handles DELETE /api/admin/standing-orders/:id.
func (h *StandingOrderHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.facade.DeleteStandingOrder(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GeneratedOrders handles GET /api/admin/standing-orders/:id/generated-orders.
func (h *StandingOrderHandler) GeneratedOrders(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	orders, err := h.facade.GeneratedOrders(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, order := range orders {
		response = append(response, toOrderResponse(order))
	}
	c.JSON(http.StatusOK, response)
}

// DeleteGeneratedOrder handles
// DELETE /api/admin/standing-orders/:id/generated-orders/:orderID.
func (h *StandingOrderHandler) DeleteGeneratedOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	orderID, ok := pathID(c, "orderID")
	if !ok {
		return
	}

	if err := h.facade.DeleteGeneratedOrder(c.Request.Context(), id, orderID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Regenerate handles POST /api/admin/standing-orders/:id/regenerate.
func (h *StandingOrderHandler) Regenerate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	days, ok := daysAheadQuery(c)
	if !ok {
		return
	}

	result, err := h.facade.Regenerate(c.Request.Context(), id, days)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RegenerateResponse{Generation: toGenerationSummary(result)})
}

// RegenerateAll handles POST /api/admin/regenerate-all and
// the cron variant POST /api/cron/standing-orders/regenerate.
func (h *StandingOrderHandler) RegenerateAll(c *gin.Context) {
	days, ok := daysAheadQuery(c)
	if !ok {
		return
	}

	summary, err := h.facade.RegenerateAll(c.Request.Context(), days)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RegenerateAllResponse{
		Processed: summary.Processed,
		Generated: summary.Created,
		Failed:    summary.Failed,
	})
}
