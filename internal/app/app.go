// Package app assembles the HTTP API from services and middleware.
package app

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"storefront/internal/handlers"
	"storefront/internal/httperr"
	"storefront/internal/middleware"
	"storefront/internal/services"
)

// Config controls the cross-cutting behaviour of the API.
type Config struct {
	CORSOrigins []string
	RateLimit   middleware.Limit
	AuthLimits  handlers.AuthLimits
	Cookie      middleware.SessionCookie
	AccessLog   bool
	Logger      *zap.Logger
}

// Services are the use cases exposed over HTTP.
type Services struct {
	Products   *services.ProductService
	Categories *services.CategoryService
	Auth       *services.AuthService
}

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

// New builds the fiber application with every route registered.
func New(cfg Config, svc Services, checks map[string]HealthCheck) *fiber.App {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:      "storefront",
		ErrorHandler: errorHandler(log),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	if cfg.AccessLog {
		app.Use(logger.New())
	}
	app.Use(middleware.SecurityHeaders())
	if len(cfg.CORSOrigins) > 0 {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Join(cfg.CORSOrigins, ","),
			AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
			AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
			AllowCredentials: true,
		}))
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	app.Get("/health", healthHandler(checks))

	validate := handlers.NewValidator()
	requireAuth := middleware.AuthRequired(svc.Auth, cfg.Cookie)
	adminOnly := middleware.AdminRequired()

	apiV1 := app.Group("/api/v1", middleware.RateLimit(cfg.RateLimit))

	handlers.NewAuthHandler(svc.Auth, cfg.Cookie, validate).RegisterRoutes(apiV1, requireAuth, cfg.AuthLimits)
	handlers.NewAdminHandler(svc.Auth, validate).RegisterRoutes(apiV1, requireAuth, adminOnly)
	handlers.NewProductHandler(svc.Products, validate).RegisterRoutes(apiV1, requireAuth)
	handlers.NewCategoryHandler(svc.Categories, validate).RegisterRoutes(apiV1, requireAuth, adminOnly)

	return app
}

func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, body := httperr.Resolve(err)
		if status >= fiber.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err))
		}
		return c.Status(status).JSON(body)
	}
}

func healthHandler(checks map[string]HealthCheck) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		status := "healthy"
		code := fiber.StatusOK
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				results[name] = err.Error()
				status = "degraded"
				code = fiber.StatusServiceUnavailable
				continue
			}
			results[name] = "up"
		}

		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"time":   time.Now().Format(time.RFC3339),
			"checks": results,
		})
	}
}
