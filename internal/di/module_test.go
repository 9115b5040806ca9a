package di

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"go.uber.org/fx"

	"github.com/dcakery/standingd/internal/adapter/notify"
	"github.com/dcakery/standingd/internal/app"
	"github.com/dcakery/standingd/internal/config"
	"github.com/dcakery/standingd/internal/domain/model"
	"github.com/dcakery/standingd/internal/domain/repository"
	"github.com/dcakery/standingd/internal/storage/postgres"
	"github.com/dcakery/standingd/internal/test"
)

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	cfg := &config.Config{
		RunAddress:           ":0",
		DatabaseURI:          "postgres://stub",
		AuthSecret:           "secret",
		AdminPasswordHash:    "hash",
		GenerationWindowDays: 10,
		RegenerateInterval:   time.Millisecond,
		WorkerPoolSize:       1,
		ShutdownTimeout:      time.Millisecond,
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	standingRepo := test.NewStandingOrderRepositoryStub()
	orderRepo := test.NewOrderRepositoryStub(standingRepo)
	customerRepo := test.NewCustomerRepositoryStub(&model.Customer{ID: 1, Name: "Cafe Flora", Active: true})
	productRepo := test.NewProductRepositoryStub(1)

	var facade *app.AdminFacade
	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(context.Background()),
		Module(
			fx.Replace(cfg),
			fx.Replace(logger),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(repository.StandingOrderRepository(standingRepo)),
			fx.Replace(repository.OrderRepository(orderRepo)),
			fx.Replace(repository.CustomerRepository(customerRepo)),
			fx.Replace(repository.ProductRepository(productRepo)),
			fx.Replace(notify.Notifier(notify.NoopNotifier{})),
		),
		fx.Populate(&facade),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })
	if facade == nil {
		t.Fatal("expected admin facade instance")
	}
}
