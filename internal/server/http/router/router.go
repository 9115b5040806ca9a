package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/dcakery/standingd/internal/config"
	"github.com/dcakery/standingd/internal/server/http/handlers"
	"github.com/dcakery/standingd/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.AdminFacade, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	standingOrderHandler := handlers.NewStandingOrderHandler(facade)
	healthHandler := handlers.NewHealthHandler(facade)

	api := engine.Group("/api")
	api.GET("/health", healthHandler.Check)

	admin := api.Group("/admin")
	admin.POST("/login", authHandler.Login)

	adminAuth := admin.Group("")
	adminAuth.Use(middleware.AdminRequired(facade))
	adminAuth.POST("/standing-orders", standingOrderHandler.Create)
	adminAuth.GET("/standing-orders", standingOrderHandler.List)
	adminAuth.GET("/standing-orders/:id", standingOrderHandler.Get)
	adminAuth.PUT("/standing-orders/:id", standingOrderHandler.Update)
	adminAuth.DELETE("/standing-orders/:id", standingOrderHandler.Delete)
	adminAuth.GET("/standing-orders/:id/generated-orders", standingOrderHandler.GeneratedOrders)
	adminAuth.DELETE("/standing-orders/:id/generated-orders/:orderID", standingOrderHandler.DeleteGeneratedOrder)
	adminAuth.POST("/standing-orders/:id/regenerate", standingOrderHandler.Regenerate)
	adminAuth.POST("/regenerate-all", standingOrderHandler.RegenerateAll)

	cron := api.Group("/cron")
	cron.Use(middleware.CronSecret(cfg.CronSecret))
	cron.POST("/standing-orders/regenerate", standingOrderHandler.RegenerateAll)

	return engine
}
