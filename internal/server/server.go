// Package server contains the HTTP handlers and wiring for the user graph API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "usergraph/docs" // swagger docs
	"usergraph/internal/bootstrap"
	"usergraph/internal/cache"
	"usergraph/internal/config"
	"usergraph/internal/database"
	"usergraph/internal/middleware"
	"usergraph/internal/models"
	"usergraph/internal/repository"
	"usergraph/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const serviceName = "usergraph-api"

// Server holds the shared dependencies of every handler.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus
	graphService   *service.GraphService
}

// NewServer connects to the database and Redis, seeds demo data when enabled,
// and builds the server.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	db, redisClient, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{SeedDemo: cfg.SeedDemoData})
	if err != nil {
		return nil, err
	}

	return NewServerWithDeps(cfg, db, redisClient), nil
}

// NewServerWithDeps builds a server from already opened connections.
// redisClient may be nil.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db, redisClient, cache.UserTTL(cfg.CacheUserTTLSeconds))
	friendRepo := repository.NewFriendRepository(db)

	return &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics(serviceName),
		graphService:   service.NewGraphService(userRepo, friendRepo),
	}
}

// NewApp returns a Fiber app with the server's middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "User Graph API",
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: errorHandler,
		// Params and paths outlive the handler in spans and cache keys
		Immutable: true,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// errorHandler turns errors that escape a handler into the standard JSON body.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
	}
	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
	return models.RespondWithError(c, fiber.StatusInternalServerError, err)
}

func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        s.config.RateLimitPerMinute,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions ||
				s.config.RateLimitPerMinute <= 0 ||
				middleware.RateLimitExempt(s.config.Env)
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Error: "Too many requests, please try again later.",
			})
		},
	}))
}

func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health", s.HealthCheck)
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	api.Get("/swagger/*", swagger.HandlerDefault)

	mutation := middleware.RateLimit(cache.Cmdable(s.redis), middleware.RateLimitConfig{
		Env:      s.config.Env,
		Resource: "graph_mutation",
		Limit:    60,
		Window:   time.Minute,
		Policy:   middleware.FailOpen,
	})

	users := api.Group("/users")
	users.Get("/", s.GetUsers)
	users.Post("/", mutation, s.CreateUser)
	users.Post("/:id/link", mutation, s.LinkUsers)
	users.Delete("/:id/unlink", mutation, s.UnlinkUsers)
	users.Post("/:id/hobby", mutation, s.AddHobby)
	users.Get("/:id", s.GetUser)
	users.Put("/:id", mutation, s.UpdateUser)
	users.Delete("/:id", mutation, s.DeleteUser)

	api.Get("/graph", s.GetGraph)
}

// HealthCheck handles GET /health
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} object{status=string,timestamp=string}
// @Router /health [get]
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "OK",
		"timestamp": time.Now().UTC(),
	})
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports database and Redis health. Redis is optional, so a
// missing client does not make the service unready.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	} else if redisStatus == "unhealthy" {
		overall = "degraded"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Shutdown releases the server's connections.
func (s *Server) Shutdown(_ context.Context) error {
	var errs []error
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if s.db != nil {
		if err := database.Close(s.db); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
