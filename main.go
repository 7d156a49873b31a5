package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"storefront/internal/app"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/events"
	"storefront/internal/handlers"
	"storefront/internal/logger"
	"storefront/internal/middleware"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/pkg/objectstore"
	"storefront/pkg/rabbitmq"
	"storefront/pkg/workflow"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load(nil)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	if problems := cfg.Validate(); len(problems) > 0 {
		for _, p := range problems {
			appLogger.Error("invalid configuration", zap.String("field", p.Field), zap.String("rule", p.Rule))
		}
		appLogger.Fatal("refusing to start with invalid configuration", zap.Int("problems", len(problems)))
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// --- Database ---
	db, err := database.Open(cfg.Database)
	if err != nil {
		appLogger.Fatal("failed to open database", zap.Error(err))
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		appLogger.Fatal("failed to migrate database", zap.Error(err))
	}

	checks := map[string]app.HealthCheck{"database": pingDatabase(db)}

	// --- Session store ---
	var sessionRepo repositories.SessionRepository = repositories.NewGORMSessionRepository(db)
	if cfg.Auth.SessionStore == "redis" {
		redisClient, err := connectRedis(ctx, cfg.Redis.URL)
		if err != nil {
			appLogger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisClient.Close()
		sessionRepo = repositories.NewRedisSessionRepository(redisClient)
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	// --- Events ---
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:      cfg.RabbitMQ.URL,
			Exchange: cfg.RabbitMQ.Exchange,
			Logger:   appLogger.Named("rabbitmq"),
		})
		if err != nil {
			appLogger.Fatal("failed to initialize RabbitMQ client", zap.Error(err))
		}
		defer mqClient.Close()
		publisher = events.NewAMQPPublisher(mqClient)

		if cfg.Workflow.BaseURL != "" {
			relay := events.NewRelay(workflow.NewClient(workflow.Config{
				BaseURL: cfg.Workflow.BaseURL,
				Token:   cfg.Workflow.Token,
			}), appLogger)
			if err := mqClient.Consume(ctx, cfg.RabbitMQ.Queue, events.BindingKey, relay.Handle); err != nil {
				appLogger.Fatal("failed to start event relay", zap.Error(err))
			}
		} else {
			appLogger.Info("workflow base url not set, event relay disabled")
		}
	} else {
		appLogger.Info("rabbitmq url not set, domain events are not published")
	}

	// --- Object storage ---
	var signer services.ImageSigner
	if cfg.Storage.Enabled() {
		storageCfg := objectstore.Config(cfg.Storage)
		storageClient, err := objectstore.NewClient(ctx, storageCfg)
		if err != nil {
			appLogger.Fatal("failed to create storage client", zap.Error(err))
		}
		defer storageClient.Close()
		s, err := objectstore.NewSigner(storageClient, storageCfg)
		if err != nil {
			appLogger.Fatal("failed to create url signer", zap.Error(err))
		}
		signer = s
	}

	// --- Services ---
	svc := app.Services{
		Products:   services.NewProductService(repositories.NewGORMProductRepository(db), publisher, signer, appLogger),
		Categories: services.NewCategoryService(repositories.NewGORMCategoryRepository(db)),
		Auth: services.NewAuthService(
			repositories.NewGORMUserRepository(db),
			sessionRepo,
			cfg.Auth,
			appLogger,
		),
	}

	// --- Fiber App ---
	server := app.New(app.Config{
		CORSOrigins: cfg.HTTP.CORSOrigins,
		RateLimit:   middleware.Limit{Max: cfg.HTTP.RateLimitMax, Window: cfg.HTTP.RateLimitWindow},
		AuthLimits:  handlers.DefaultAuthLimits(),
		Cookie:      middleware.NewSessionCookie(cfg.Auth.CookiePrefix, cfg.App.Env == "production"),
		AccessLog:   cfg.App.Env != "production",
		Logger:      appLogger,
	}, svc, checks)

	// --- Start HTTP Server ---
	appLogger.Info("starting server", zap.String("port", cfg.App.Port), zap.String("env", cfg.App.Env))

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Listen(cfg.App.Port); err != nil {
			appLogger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	<-quit
	appLogger.Info("shutting down server")
	stop()

	if err := server.ShutdownWithTimeout(10 * time.Second); err != nil {
		appLogger.Error("error during fiber shutdown", zap.Error(err))
	}

	appLogger.Info("server gracefully stopped")
}

func connectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

func pingDatabase(db *gorm.DB) app.HealthCheck {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
