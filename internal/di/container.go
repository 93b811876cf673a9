package di

import (
	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/auth"
	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/gateway"
	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/handler"
	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/middleware"
	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/repository"
	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/service"
	"github.com/Shaen-ai/yoga-saas-platform-backend/pkg/database"
	"github.com/Shaen-ai/yoga-saas-platform-backend/pkg/kafka"
	"github.com/Shaen-ai/yoga-saas-platform-backend/pkg/redis"
	"github.com/Shaen-ai/yoga-saas-platform-backend/pkg/telemetry"
)

// Container holds all dependencies for the widget backend
type Container struct {
	// Infrastructure
	DB        *database.PostgresDB
	Redis     *redis.Client
	Publisher kafka.Publisher
	Verifier  *auth.Verifier
	Gateway   gateway.PaymentGateway

	// Repositories
	SettingsRepo     repository.SettingsRepository
	EventRepo        repository.EventRepository
	PlanRepo         repository.PlanRepository
	RegistrationRepo repository.RegistrationRepository
	PaymentRepo      repository.PaymentRepository

	// Services
	SettingsService     service.SettingsService
	EventService        service.EventService
	PlanService         service.PlanService
	RegistrationService service.RegistrationService
	PaymentService      service.PaymentService

	// Middleware
	IdentityConfig *middleware.IdentityConfig

	// Handlers
	HealthHandler       *handler.HealthHandler
	SettingsHandler     *handler.SettingsHandler
	EventHandler        *handler.EventHandler
	PlanHandler         *handler.PlanHandler
	RegistrationHandler *handler.RegistrationHandler
	PaymentHandler      *handler.PaymentHandler
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	DB                 *database.PostgresDB
	Redis              *redis.Client
	Publisher          kafka.Publisher
	Verifier           *auth.Verifier
	Gateway            gateway.PaymentGateway
	AllowAnonymous     bool
	ResolutionsCounter *telemetry.Counter
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	c := &Container{
		DB:        cfg.DB,
		Redis:     cfg.Redis,
		Publisher: cfg.Publisher,
		Verifier:  cfg.Verifier,
		Gateway:   cfg.Gateway,
	}

	// Initialize repositories
	pool := cfg.DB.Pool()
	c.SettingsRepo = repository.NewPostgresSettingsRepository(pool)
	c.EventRepo = repository.NewPostgresEventRepository(pool)
	c.PlanRepo = repository.NewPostgresPlanRepository(pool)
	c.RegistrationRepo = repository.NewPostgresRegistrationRepository(pool)
	c.PaymentRepo = repository.NewPostgresPaymentRepository(pool)

	// Initialize services
	c.SettingsService = service.NewSettingsService(c.SettingsRepo, cfg.ResolutionsCounter)
	c.EventService = service.NewEventService(c.EventRepo, c.RegistrationRepo)
	c.PlanService = service.NewPlanService(c.PlanRepo)
	c.RegistrationService = service.NewRegistrationService(c.RegistrationRepo, c.EventRepo, c.Publisher)
	c.PaymentService = service.NewPaymentService(c.PaymentRepo, c.RegistrationRepo, c.Gateway, c.Publisher)

	// Initialize middleware
	c.IdentityConfig = &middleware.IdentityConfig{
		Verifier:       cfg.Verifier,
		AllowAnonymous: cfg.AllowAnonymous,
	}

	// Initialize handlers
	c.HealthHandler = handler.NewHealthHandler(c.DB, c.Redis)
	c.SettingsHandler = handler.NewSettingsHandler(c.SettingsService)
	c.EventHandler = handler.NewEventHandler(c.EventService)
	c.PlanHandler = handler.NewPlanHandler(c.PlanService)
	c.RegistrationHandler = handler.NewRegistrationHandler(c.RegistrationService)
	c.PaymentHandler = handler.NewPaymentHandler(c.PaymentService)

	return c
}
