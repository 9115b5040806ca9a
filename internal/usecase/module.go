package usecase

import (
	"log/slog"
	"time"

	"go.uber.org/fx"

	"github.com/dcakery/standingd/internal/config"
	"github.com/dcakery/standingd/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewMaterializer,
	newScheduleManager,
)

type scheduleParams struct {
	fx.In

	StandingOrders repository.StandingOrderRepository
	Orders         repository.OrderRepository
	Customers      repository.CustomerRepository
	Materializer   *Materializer
	Config         *config.Config
	Logger         *slog.Logger
}

func newScheduleManager(p scheduleParams) *ScheduleManager {
	return NewScheduleManager(
		p.StandingOrders,
		p.Orders,
		p.Customers,
		p.Materializer,
		p.Config.GenerationWindowDays,
		time.Now,
		p.Logger,
	)
}
