package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	domainErrors "github.com/dcakery/standingd/internal/domain/errors"
	"github.com/dcakery/standingd/internal/domain/model"
	"github.com/dcakery/standingd/internal/pkg/auth"
	testhelpers "github.com/dcakery/standingd/internal/test"
	"github.com/dcakery/standingd/internal/usecase"
)

type facadeFixture struct {
	facade   *AdminFacade
	orders   *testhelpers.OrderRepositoryStub
	notifier *testhelpers.NotifierStub
	health   *testhelpers.HealthCheckerStub
}

func newFacadeFixture(t *testing.T) *facadeFixture {
	t.Helper()
	standing := testhelpers.NewStandingOrderRepositoryStub()
	orders := testhelpers.NewOrderRepositoryStub(standing)
	customers := testhelpers.NewCustomerRepositoryStub(&model.Customer{ID: 7, Name: "Cafe Flora", Active: true})
	products := testhelpers.NewProductRepositoryStub(1)
	materializer := usecase.NewMaterializer(orders, customers, products)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	manager := usecase.NewScheduleManager(
		standing, orders, customers, materializer,
		10, testhelpers.FixedClock(testhelpers.Date(2024, time.January, 1)), logger)

	notifier := &testhelpers.NotifierStub{}
	health := &testhelpers.HealthCheckerStub{}
	facade := NewAdminFacade(manager, testhelpers.StrategyStub{}, testhelpers.HasherStub{}, "hash:secret", notifier, health, logger)
	return &facadeFixture{facade: facade, orders: orders, notifier: notifier, health: health}
}

func weeklyDraft() usecase.StandingOrderDraft {
	return usecase.StandingOrderDraft{
		CustomerID: 7,
		Items:      []model.OrderItem{{ProductID: 1, ProductName: "Sourdough", Quantity: 2, Price: 4.5, Subtotal: 9}},
		Schedule: model.Schedule{
			Type:       model.RecurrenceWeeklyDays,
			WeeklyDays: []time.Weekday{time.Monday, time.Wednesday, time.Friday},
			StartDate:  testhelpers.Date(2024, time.January, 1),
			Duration:   model.DurationIndefinite,
		},
		CreatedBy: "admin",
	}
}

func waitForNotifications(t *testing.T, notifier *testhelpers.NotifierStub, want int) {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		if len(notifier.Notified()) >= want {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("timeout waiting for %d notifications, got %d", want, len(notifier.Notified()))
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestAdminFacadeLogin(t *testing.T) {
	fix := newFacadeFixture(t)

	token, err := fix.facade.Login(context.Background(), "secret")
	if err != nil {
		t.Fatalf("login returned error: %v", err)
	}
	if token != "token" {
		t.Fatalf("unexpected token %q", token)
	}

	if _, err := fix.facade.Login(context.Background(), "wrong"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestAdminFacadeLoginWithoutConfiguredHash(t *testing.T) {
	fix := newFacadeFixture(t)
	fix.facade.adminHash = ""
	if _, err := fix.facade.Login(context.Background(), "secret"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestAdminFacadeParseToken(t *testing.T) {
	fix := newFacadeFixture(t)
	if err := fix.facade.ParseToken("anything"); err != nil {
		t.Fatalf("parse token returned error: %v", err)
	}

	fix.facade.tokens = testhelpers.StrategyStub{ParseFn: func(string) (string, error) {
		return "intruder", nil
	}}
	if err := fix.facade.ParseToken("anything"); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected invalid token for foreign subject, got %v", err)
	}

	fix.facade.tokens = testhelpers.StrategyStub{ParseFn: func(string) (string, error) {
		return "", auth.ErrInvalidToken
	}}
	if err := fix.facade.ParseToken("anything"); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestAdminFacadeCreateNotifiesGeneratedOrders(t *testing.T) {
	fix := newFacadeFixture(t)

	so, result, err := fix.facade.CreateStandingOrder(context.Background(), weeklyDraft())
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}
	if so.Status != model.StandingOrderActive {
		t.Fatalf("expected active standing order, got %s", so.Status)
	}
	if result.Created == 0 {
		t.Fatal("expected generated orders")
	}
	waitForNotifications(t, fix.notifier, result.Created)
}

func TestAdminFacadeCreateValidationSkipsNotification(t *testing.T) {
	fix := newFacadeFixture(t)
	draft := weeklyDraft()
	draft.Items = nil

	var validationErr *domainErrors.ValidationError
	if _, _, err := fix.facade.CreateStandingOrder(context.Background(), draft); !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if got := fix.notifier.Notified(); len(got) != 0 {
		t.Fatalf("expected no notifications, got %v", got)
	}
}

func TestAdminFacadeScheduleLifecycle(t *testing.T) {
	fix := newFacadeFixture(t)
	ctx := context.Background()

	so, result, err := fix.facade.CreateStandingOrder(ctx, weeklyDraft())
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}

	listed, err := fix.facade.StandingOrders(ctx, nil)
	if err != nil || len(listed) != 1 {
		t.Fatalf("expected one standing order, got %v err=%v", listed, err)
	}

	fetched, err := fix.facade.StandingOrder(ctx, so.ID)
	if err != nil || fetched.ID != so.ID {
		t.Fatalf("unexpected get result: %v err=%v", fetched, err)
	}

	generated, err := fix.facade.GeneratedOrders(ctx, so.ID)
	if err != nil || len(generated) != result.Created {
		t.Fatalf("expected %d generated orders, got %d err=%v", result.Created, len(generated), err)
	}

	if err := fix.facade.DeleteGeneratedOrder(ctx, so.ID, generated[0].ID); err != nil {
		t.Fatalf("delete occurrence returned error: %v", err)
	}

	cancelled, err := fix.facade.CancelStandingOrder(ctx, so.ID)
	if err != nil || cancelled.Status != model.StandingOrderCancelled {
		t.Fatalf("unexpected cancel result: %v err=%v", cancelled, err)
	}

	active, err := fix.facade.ActiveStandingOrders(ctx)
	if err != nil || len(active) != 0 {
		t.Fatalf("expected no active standing orders, got %v err=%v", active, err)
	}

	if err := fix.facade.DeleteStandingOrder(ctx, so.ID); err != nil {
		t.Fatalf("delete returned error: %v", err)
	}
	if _, err := fix.facade.StandingOrder(ctx, so.ID); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestAdminFacadeRegenerate(t *testing.T) {
	fix := newFacadeFixture(t)
	ctx := context.Background()

	so, first, err := fix.facade.CreateStandingOrder(ctx, weeklyDraft())
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}

	result, err := fix.facade.Regenerate(ctx, so.ID, 21)
	if err != nil {
		t.Fatalf("regenerate returned error: %v", err)
	}
	if result.Existing != first.Created {
		t.Fatalf("expected %d existing orders, got %d", first.Created, result.Existing)
	}
	if result.Created == 0 {
		t.Fatal("expected extended window to add orders")
	}

	all, err := fix.facade.RegenerateAll(ctx, 21)
	if err != nil {
		t.Fatalf("regenerate all returned error: %v", err)
	}
	if all.Processed != 1 {
		t.Fatalf("expected one processed standing order, got %d", all.Processed)
	}
}

func TestAdminFacadeHealthy(t *testing.T) {
	fix := newFacadeFixture(t)
	if err := fix.facade.Healthy(context.Background()); err != nil {
		t.Fatalf("expected healthy storage, got %v", err)
	}

	fix.facade.health = testhelpers.HealthCheckerStub{Err: errors.New("down")}
	if err := fix.facade.Healthy(context.Background()); err == nil {
		t.Fatal("expected health check failure")
	}
}
