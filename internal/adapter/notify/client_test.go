package notify

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dcakery/standingd/internal/domain/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func generatedOrder() *model.Order {
	soID := int64(3)
	return &model.Order{
		ID:              10,
		Number:          "A1B2C3D4",
		CustomerID:      7,
		TotalAmount:     18.5,
		Status:          model.OrderStatusPending,
		DeliveryDate:    time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
		StandingOrderID: &soID,
	}
}

func TestNewWebhookClientValidatesURL(t *testing.T) {
	if _, err := NewWebhookClient("://bad-url", testLogger()); err == nil {
		t.Fatal("expected error for invalid url")
	}
	if _, err := NewWebhookClient("/relative", testLogger()); err == nil {
		t.Fatal("expected error for relative url")
	}
}

func TestOrderGeneratedPostsPayload(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected json content type, got %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client, err := NewWebhookClient(srv.URL, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	if err := client.OrderGenerated(context.Background(), generatedOrder()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if received["order_number"] != "A1B2C3D4" {
		t.Fatalf("unexpected order number: %v", received["order_number"])
	}
	if received["delivery_date"] != "2024-01-03" {
		t.Fatalf("unexpected delivery date: %v", received["delivery_date"])
	}
	if received["standing_order_id"] != float64(3) {
		t.Fatalf("unexpected standing order id: %v", received["standing_order_id"])
	}
}

func TestOrderGeneratedLogsErrorResponses(t *testing.T) {
	called := make(chan struct{}, 1)
	handler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.LevelKey && a.Value.Any() == slog.LevelError {
			select {
			case called <- struct{}{}:
			default:
			}
		}
		return a
	}})
	logger := slog.New(handler)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := NewWebhookClient(srv.URL, logger)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	if err := client.OrderGenerated(context.Background(), generatedOrder()); err == nil {
		t.Fatal("expected error from server")
	}

	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("expected error log to be written")
	}
}

func TestOrderGeneratedTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client, err := NewWebhookClient(srv.URL, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	if err := client.OrderGenerated(context.Background(), generatedOrder()); err == nil {
		t.Fatal("expected transport error")
	}
}

func TestNoopNotifier(t *testing.T) {
	if err := (NoopNotifier{}).OrderGenerated(context.Background(), generatedOrder()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
