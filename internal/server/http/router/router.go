package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/kmeans4/phenofarm/internal/adapter/idempotency"
	"github.com/kmeans4/phenofarm/internal/server/http/handlers"
	"github.com/kmeans4/phenofarm/internal/server/http/middleware"
	"github.com/kmeans4/phenofarm/internal/telemetry"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.MarketFacade, idem idempotency.Store, metrics *telemetry.Metrics, health handlers.HealthChecker, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	checkoutHandler := handlers.NewCheckoutHandler(facade, idem, logger)
	orderHandler := handlers.NewOrderHandler(facade)
	productHandler := handlers.NewProductHandler(facade)

	engine.GET("/healthz", func(c *gin.Context) {
		if err := health.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := engine.Group("/api")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.AuthRequired(facade))
	authed.POST("/checkout", checkoutHandler.Checkout)
	authed.GET("/orders", orderHandler.List)
	authed.GET("/orders/:id", orderHandler.Get)
	authed.PATCH("/orders/:id/status", orderHandler.UpdateStatus)
	authed.PATCH("/orders/status", orderHandler.BatchUpdateStatus)
	authed.DELETE("/orders/:id", orderHandler.Delete)
	authed.POST("/products", productHandler.Create)
	authed.GET("/products", productHandler.List)
	authed.GET("/products/:id", productHandler.Get)

	return engine
}
