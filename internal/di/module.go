package di

import (
	"go.uber.org/fx"

	"github.com/dcakery/standingd/internal/adapter/notify"
	"github.com/dcakery/standingd/internal/app"
	"github.com/dcakery/standingd/internal/config"
	"github.com/dcakery/standingd/internal/logger"
	"github.com/dcakery/standingd/internal/pkg/auth"
	"github.com/dcakery/standingd/internal/server/http/handlers"
	"github.com/dcakery/standingd/internal/server/http/router"
	"github.com/dcakery/standingd/internal/storage/postgres"
	"github.com/dcakery/standingd/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		notify.Module,
		usecase.Module,
		fx.Provide(
			func(n notify.Notifier) app.OrderNotifier { return n },
			func(s *postgres.Storage) app.HealthChecker { return s },
			func(f *app.AdminFacade) handlers.AdminFacade { return f },
		),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
