package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/dcakery/standingd/internal/domain/model"
)

// Notifier announces freshly materialized orders to an external system,
// typically the bakery's operations dashboard.
type Notifier interface {
	OrderGenerated(ctx context.Context, order *model.Order) error
}

// WebhookClient implements Notifier by posting to a configured webhook URL.
type WebhookClient struct {
	endpoint   *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// payload mirrors the JSON body the webhook consumer expects.
type payload struct {
	Number          string  `json:"order_number"`
	CustomerID      int64   `json:"customer_id"`
	StandingOrderID *int64  `json:"standing_order_id,omitempty"`
	DeliveryDate    string  `json:"delivery_date"`
	TotalAmount     float64 `json:"total_amount"`
}

// NewWebhookClient creates a webhook notifier with default timeout.
func NewWebhookClient(endpoint string, logger *slog.Logger) (*WebhookClient, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse webhook url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("webhook url must be absolute")
	}
	return &WebhookClient{
		endpoint: parsed,
		logger:   logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// OrderGenerated posts the order to the webhook endpoint.
func (c *WebhookClient) OrderGenerated(ctx context.Context, order *model.Order) error {
	body, err := json.Marshal(payload{
		Number:          order.Number,
		CustomerID:      order.CustomerID,
		StandingOrderID: order.StandingOrderID,
		DeliveryDate:    order.DeliveryDate.Format("2006-01-02"),
		TotalAmount:     order.TotalAmount,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		respBody, _ := io.ReadAll(resp.Body)
		c.logger.Error("webhook request failed",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(respBody)))
		return fmt.Errorf("webhook error: %s", resp.Status)
	}
	return nil
}

// NoopNotifier is used when no webhook URL is configured.
type NoopNotifier struct{}

func (NoopNotifier) OrderGenerated(context.Context, *model.Order) error {
	return nil
}
