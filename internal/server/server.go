// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	_ "uniwiz/docs" // swagger docs
	"uniwiz/internal/config"
	"uniwiz/internal/database"
	"uniwiz/internal/middleware"
	"uniwiz/internal/models"
	"uniwiz/internal/notifications"
	"uniwiz/internal/observability"
	"uniwiz/internal/repository"
	"uniwiz/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	userRepo     repository.UserRepository
	jobRepo      repository.JobRepository
	chatRepo     repository.ChatRepository
	appRepo      repository.ApplicationRepository
	reviewRepo   repository.ReviewRepository
	reportRepo   repository.ReportRepository
	settingsRepo repository.SettingsRepository

	notifier *notifications.Notifier
	hub      *notifications.Hub

	userService        *service.UserService
	chatService        *service.ChatService
	jobService         *service.JobService
	applicationService *service.ApplicationService
	reviewService      *service.ReviewService
	moderationService  *service.ModerationService
	settingsService    *service.SettingsService
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// cmd/server calls it after bootstrap has connected and migrated.
// redisClient may be nil; caching, rate limiting and push are then disabled.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	models.SetExposeErrorDetails(!cfg.IsProduction())

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics(observability.ServiceName),
		userRepo:       repository.NewUserRepository(db),
		jobRepo:        repository.NewJobRepository(db),
		chatRepo:       repository.NewChatRepository(db),
		appRepo:        repository.NewApplicationRepository(db),
		reviewRepo:     repository.NewReviewRepository(db),
		reportRepo:     repository.NewReportRepository(db),
		settingsRepo:   repository.NewSettingsRepository(db),
	}

	var events service.EventPublisher
	if cfg.EnablePush && redisClient != nil {
		s.notifier = notifications.NewNotifier(redisClient)
		s.hub = notifications.NewHub()
		events = s.notifier
	}

	s.userService = service.NewUserService(db, s.userRepo)
	s.chatService = service.NewChatService(db, s.chatRepo, s.userRepo, s.jobRepo, events)
	s.jobService = service.NewJobService(s.jobRepo)
	s.applicationService = service.NewApplicationService(db, s.appRepo, s.jobRepo)
	s.reviewService = service.NewReviewService(s.reviewRepo, s.userRepo)
	s.moderationService = service.NewModerationService(db, s.reportRepo, s.userRepo, s.chatRepo, s.jobRepo, events)

	settings, err := service.NewSettingsService(s.settingsRepo)
	if err != nil {
		return nil, fmt.Errorf("settings service: %w", err)
	}
	s.settingsService = settings

	return s, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())

	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	app.Use(cors.New(cors.Config{
		AllowOrigins:     joinOrigins(s.config.Origins()),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions || s.config.Env == "test"
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "UniWiz API Metrics",
	}))
	api.Get("/swagger/*", swagger.HandlerDefault)

	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "register"), s.Register)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)

	// Public catalogue
	api.Get("/jobs", s.GetJobs)
	api.Get("/jobs/:id", s.GetJob)
	api.Get("/categories", s.GetCategories)
	api.Get("/publishers/:id/reviews", s.GetPublisherReviews)
	api.Get("/settings/footer", s.GetFooterSettings)

	// The websocket route authenticates with ?token= before upgrading.
	api.Get("/ws", s.AuthRequired(), s.WebsocketUpgrade, s.WebsocketHandler())

	protected := api.Group("", s.AuthRequired())

	protected.Get("/users/me", s.GetMe)

	// Messaging
	protected.Post("/messages", middleware.RateLimit(
		s.redis, 30, time.Minute, "send_message"), s.SendMessage)
	protected.Get("/messages/unread-count", s.GetUnreadCount)
	protected.Get("/conversations", s.GetConversations)
	protected.Post("/conversations", s.StartConversation)
	protected.Get("/conversations/:id/messages", s.GetMessages)

	// Applications
	student := RoleRequired(models.RoleStudent)
	publisher := RoleRequired(models.RolePublisher)
	protected.Post("/jobs/:id/apply", student, middleware.RateLimit(
		s.redis, 20, time.Hour, "apply"), s.ApplyToJob)
	protected.Get("/applications/me", student, s.GetMyApplications)
	protected.Put("/applications/:id/status", publisher, s.UpdateApplicationStatus)

	// Publisher dashboard
	protected.Get("/publisher/jobs", publisher, s.GetPublisherJobs)
	protected.Get("/publisher/jobs/:id/applicants",
		RoleRequired(models.RolePublisher, models.RoleAdmin), s.GetApplicants)

	// Reviews; the specific /mine route comes before the POST on the same prefix.
	protected.Get("/publishers/:id/reviews/mine", student, s.GetMyReview)
	protected.Post("/publishers/:id/reviews", student, s.UpsertReview)

	// Reports
	protected.Post("/reports", middleware.RateLimit(
		s.redis, 10, time.Hour, "create_report"), s.CreateReport)

	// Admin routes
	admin := protected.Group("/admin", AdminRequired())
	admin.Get("/stats", s.GetAdminStats)
	admin.Get("/conversations/:id/messages", s.AdminGetConversationMessages)
	admin.Put("/jobs/:id/status", s.AdminSetJobStatus)
	admin.Get("/reports", s.GetReports)
	// Specific /pending-count route before generic /:id
	admin.Get("/reports/pending-count", s.GetPendingReportCount)
	admin.Put("/reports/:id", s.UpdateReport)
	admin.Get("/users", s.GetUsers)
	admin.Put("/users/:id/status", s.UpdateUserStatus)
	admin.Put("/users/:id/verify", s.VerifyUser)
	admin.Delete("/users/:id", s.DeleteUser)
	admin.Put("/settings/footer", s.UpdateFooterSettings)
}

// NewApp builds the Fiber app with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "UniWiz API",
		BodyLimit:    1 << 20,
		ErrorHandler: s.errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// errorHandler renders errors that escaped a handler.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
	}
	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error",
		"path", c.Path(), "error", err)
	return models.RespondWithAppError(c, models.NewInternalError(err))
}

// LivenessCheck handles liveness probe requests
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} object{status=string}
// @Router /health/live [get]
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
// @Summary Readiness probe
// @Description Pings the database and Redis. Reports 503 when either is unreachable.
// @Tags health
// @Produce json
// @Success 200 {object} object{status=string}
// @Failure 503 {object} object{status=string}
// @Router /health/ready [get]
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		middleware.Logger.WarnContext(ctx, "readiness: database ping failed", "error", err)
		dbStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			middleware.Logger.WarnContext(ctx, "readiness: redis ping failed", "error", err)
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus != "healthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
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

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := s.NewApp()

	if s.hub != nil {
		if err := s.hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
			middleware.Logger.Warn("push wiring failed, continuing without websocket push", "error", err)
		}
	}

	middleware.Logger.Info("server starting", "port", s.config.Port, "env", s.config.Env)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", "error", err)
		}
	}

	if s.hub != nil {
		if err := s.hub.Shutdown(ctx); err != nil {
			middleware.Logger.Error("error shutting down websocket hub", "error", err)
		}
	}

	if err := database.Close(s.db); err != nil {
		middleware.Logger.Error("error closing database", "error", err)
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.Error("error closing redis", "error", err)
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
