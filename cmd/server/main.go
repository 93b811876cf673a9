package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/auth"
	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/di"
	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/gateway"
	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/router"
	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/worker"
	"github.com/Shaen-ai/yoga-saas-platform-backend/pkg/config"
	"github.com/Shaen-ai/yoga-saas-platform-backend/pkg/database"
	"github.com/Shaen-ai/yoga-saas-platform-backend/pkg/kafka"
	"github.com/Shaen-ai/yoga-saas-platform-backend/pkg/logger"
	"github.com/Shaen-ai/yoga-saas-platform-backend/pkg/redis"
	"github.com/Shaen-ai/yoga-saas-platform-backend/pkg/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server exited: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&logger.Config{
		Level:       logLevel(cfg),
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telemetry
	if _, err := telemetry.Init(ctx, &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    1.0,
		MetricInterval: 15 * time.Second,
	}); err != nil {
		return fmt.Errorf("failed to init telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = telemetry.Shutdown(shutdownCtx)
	}()

	resolutions, err := telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "settings_resolutions_total",
		Description: "Settings lookups by resolution outcome",
		Unit:        "1",
	})
	if err != nil {
		return fmt.Errorf("failed to create resolutions counter: %w", err)
	}

	// Postgres
	db, err := database.NewPostgres(ctx, &database.PostgresConfig{
		Host:           cfg.Database.Host,
		Port:           cfg.Database.Port,
		User:           cfg.Database.User,
		Password:       cfg.Database.Password,
		Database:       cfg.Database.DBName,
		SSLMode:        cfg.Database.SSLMode,
		MaxConns:       int32(cfg.Database.MaxOpenConns),
		MinConns:       int32(cfg.Database.MaxIdleConns),
		MaxConnLife:    cfg.Database.ConnMaxLifetime,
		MaxConnIdle:    cfg.Database.ConnMaxIdleTime,
		MaxRetries:     3,
		RetryInterval:  2 * time.Second,
		ConnectTimeout: 10 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer db.Close()

	// Redis
	redisClient, err := redis.New(ctx, &redis.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer func() { _ = redisClient.Close() }()

	// Kafka
	var publisher kafka.Publisher = kafka.NewNoopPublisher()
	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(&kafka.Config{
			Brokers:  cfg.Kafka.Brokers,
			ClientID: cfg.Kafka.ClientID,
			Topic:    cfg.Kafka.Topic,
		}, func(err error) {
			logger.Error("kafka delivery failed", zap.Error(err))
		})
		if err != nil {
			return fmt.Errorf("failed to create kafka producer: %w", err)
		}
		publisher = producer
	}
	defer publisher.Close()

	// Instance token verification
	verifier := auth.NewVerifier(cfg.Wix.AppSecret, cfg.Wix.VerifyCacheTTL)
	defer verifier.Close()

	container := di.NewContainer(&di.ContainerConfig{
		DB:                 db,
		Redis:              redisClient,
		Publisher:          publisher,
		Verifier:           verifier,
		Gateway:            gateway.NewSandboxGateway(),
		AllowAnonymous:     cfg.Wix.AllowAnonymous && !cfg.IsProduction(),
		ResolutionsCounter: resolutions,
	})

	expiryWorker := worker.NewExpiryWorker(container.RegistrationRepo, publisher, worker.DefaultExpiryWorkerConfig())
	expiryWorker.Start(ctx)
	defer expiryWorker.Stop()

	engine := router.New(container, router.Options{
		Debug:       cfg.App.Debug,
		RedisClient: redisClient,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", server.Addr),
			zap.String("environment", cfg.App.Environment))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func logLevel(cfg *config.Config) string {
	if cfg.App.Debug {
		return "debug"
	}
	return "info"
}
