package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/dcakery/standingd/internal/config"
	"github.com/dcakery/standingd/internal/pkg/auth"
	"github.com/dcakery/standingd/internal/usecase"
	"github.com/dcakery/standingd/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		newAdminFacade,
		newHTTPServer,
		newRegenerator,
	),
	fx.Invoke(registerLifecycle),
)

type facadeParams struct {
	fx.In

	Schedule  *usecase.ScheduleManager
	Tokens    auth.Strategy
	Passwords auth.PasswordHasher
	Config    *config.Config
	Notifier  OrderNotifier
	Health    HealthChecker
	Logger    *slog.Logger
}

func newAdminFacade(p facadeParams) *AdminFacade {
	return NewAdminFacade(
		p.Schedule,
		p.Tokens,
		p.Passwords,
		p.Config.AdminPasswordHash,
		p.Notifier,
		p.Health,
		p.Logger,
	)
}

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type workerParams struct {
	fx.In

	Facade *AdminFacade
	Config *config.Config
	Logger *slog.Logger
}

func newRegenerator(p workerParams) *worker.Regenerator {
	return worker.NewRegenerator(
		p.Facade,
		p.Config.RegenerateInterval,
		p.Config.GenerationWindowDays,
		p.Config.WorkerPoolSize,
		p.Logger,
	)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Worker     *worker.Regenerator
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting standingd", slog.String("addr", p.Server.Addr))
			p.Worker.Start(ctx)
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Worker.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("standingd stopped")
			return nil
		},
	})
}
