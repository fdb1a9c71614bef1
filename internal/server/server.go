// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/titouancv/mapinned/internal/cache"
	"github.com/titouancv/mapinned/internal/caption"
	"github.com/titouancv/mapinned/internal/config"
	"github.com/titouancv/mapinned/internal/database"
	"github.com/titouancv/mapinned/internal/exifgps"
	"github.com/titouancv/mapinned/internal/imagehost"
	"github.com/titouancv/mapinned/internal/middleware"
	"github.com/titouancv/mapinned/internal/models"
	"github.com/titouancv/mapinned/internal/repository"
	"github.com/titouancv/mapinned/internal/service"
	"github.com/titouancv/mapinned/internal/session"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus
	sessions       session.Resolver
	captions       caption.Streamer
	userRepo       repository.UserRepository
	photoRepo      repository.PhotoRepository
	commentRepo    repository.CommentRepository
	photoService   *service.PhotoService
	commentService *service.CommentService
	importService  *service.ImportService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	sessions := session.NewValidator(cfg.AuthBaseURL, cfg.AuthJWTSecret)
	host := imagehost.NewClient(cfg.ImageHostURL, cfg.ImageHostKey)
	captions := caption.NewClient(cfg.CaptionBaseURL, cfg.CaptionAPIKey, cfg.CaptionModel)

	return NewServerWithDeps(cfg, db, redisClient, sessions, host, captions)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis and the
// external clients.
func NewServerWithDeps(
	cfg *config.Config,
	db *gorm.DB,
	redisClient *redis.Client,
	sessions session.Resolver,
	host imagehost.Uploader,
	captions caption.Streamer,
) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	prom := middleware.InitMetrics("mapinned-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		sessions:       sessions,
		captions:       captions,
		userRepo:       userRepo,
		photoRepo:      photoRepo,
		commentRepo:    commentRepo,
	}
	server.photoService = service.NewPhotoService(photoRepo)
	server.commentService = service.NewCommentService(commentRepo, photoRepo)
	server.importService = service.NewImportService(server.photoService, exifgps.NewExtractor(), host)

	return server, nil
}

// NewApp builds a Fiber app configured the way this service expects.
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		AppName:     "Mapinned API",
		BodyLimit:   64 * 1024 * 1024, // batch import carries several originals
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit
	// (e.g. limiter) so browser clients still receive CORS headers on error
	// responses. Credentials stay on because the session cookie crosses
	// origins between the map frontend and this API.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:3000,http://127.0.0.1:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Cookie",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
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
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Everything under /api/auth belongs to the external auth provider.
	app.All("/api/auth/*", s.ProxyAuth)

	// Public photo routes (anonymous reads)
	app.Get("/photos", s.GetPhotos)
	app.Get("/photos/:id/comments", s.GetComments)
	app.Get("/photos/:id", s.GetPhoto)

	// Protected routes
	protected := app.Group("", s.AuthRequired())
	protected.Get("/auth/me", s.GetMe)
	protected.Post("/photos/import", middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "import_photos"), s.ImportPhotos)
	protected.Post("/photos", middleware.RateLimit(
		s.redis, 30, time.Minute, "create_photo"), s.CreatePhoto)
	protected.Get("/photos/:id/describe", s.DescribePhoto)
	protected.Patch("/photos/:id", s.UpdatePhotoDescription)
	protected.Post("/comments", middleware.RateLimit(
		s.redis, 15, time.Minute, "create_comment"), s.CreateComment)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	// Redis only backs rate limiting, so it degrades readiness but does not
	// fail it.
	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "Mapinned",
		"version": "1.0.0",
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the authentication gate. The session is validated
// against the external auth provider on every call; no session state is kept
// across requests.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, err := s.sessions.Resolve(c.Context(), c.Get("Authorization"), c.Get("Cookie"))
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		}
		if identity == nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthenticatedError("Authentication required"))
		}

		c.Locals("identity", identity)
		c.Locals("userID", identity.UserID)
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, identity.UserID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// identity returns the authenticated identity attached by AuthRequired.
func (s *Server) identity(c *fiber.Ctx) *session.Identity {
	id, _ := c.Locals("identity").(*session.Identity)
	return id
}

// Shutdown releases server resources. The HTTP listener itself is owned and
// stopped by the caller.
func (s *Server) Shutdown(ctx context.Context) error {
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
