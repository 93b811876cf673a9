package router

import (
	"github.com/gin-gonic/gin"

	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/di"
	internalmw "github.com/Shaen-ai/yoga-saas-platform-backend/internal/middleware"
	"github.com/Shaen-ai/yoga-saas-platform-backend/pkg/middleware"
	"github.com/Shaen-ai/yoga-saas-platform-backend/pkg/redis"
)

// Options controls router construction
type Options struct {
	Debug       bool
	RedisClient *redis.Client
}

// New builds the gin engine with all routes registered. Every /api/v1
// route runs behind the optional identity middleware; destructive admin
// routes additionally require a verified instance.
func New(c *di.Container, opts Options) *gin.Engine {
	if !opts.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())

	rateLimit := middleware.DefaultRateLimitConfig()
	rateLimit.KeyFunc = func(gc *gin.Context) string {
		return internalmw.GetTenantKey(gc)
	}
	if opts.RedisClient != nil {
		rateLimit.UseRedis = true
		rateLimit.RedisClient = opts.RedisClient
	}

	// Probes stay outside identity extraction and rate limiting
	engine.GET("/health", c.HealthHandler.Health)
	engine.GET("/ready", c.HealthHandler.Ready)

	api := engine.Group("/api/v1")
	api.Use(internalmw.Identity(c.IdentityConfig))
	api.Use(middleware.RateLimiter(rateLimit))

	strict := internalmw.RequireInstance(c.IdentityConfig)

	api.GET("/settings", c.SettingsHandler.Get)
	api.PATCH("/settings", c.SettingsHandler.Update)

	api.POST("/events", c.EventHandler.Create)
	api.GET("/events", c.EventHandler.List)
	api.GET("/events/:id", c.EventHandler.GetByID)
	api.PUT("/events/:id", c.EventHandler.Update)
	api.DELETE("/events/:id", strict, c.EventHandler.Delete)

	api.POST("/plans", c.PlanHandler.Create)
	api.GET("/plans", c.PlanHandler.List)
	api.POST("/plans/generate", c.PlanHandler.Generate)
	api.GET("/plans/:id", c.PlanHandler.GetByID)
	api.PUT("/plans/:id", c.PlanHandler.Update)
	api.DELETE("/plans/:id", strict, c.PlanHandler.Delete)

	api.POST("/registrations", c.RegistrationHandler.Create)
	api.GET("/registrations", c.RegistrationHandler.List)
	api.POST("/registrations/:id/cancel", c.RegistrationHandler.Cancel)

	api.POST("/payments", c.PaymentHandler.Create)
	api.GET("/payments/:id", c.PaymentHandler.GetByID)
	api.POST("/payments/:id/capture", c.PaymentHandler.Capture)

	return engine
}
