package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/analysis"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/coach"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/kv"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/media"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/profile"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/services"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(database.DB); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB, 5*time.Second)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		logging.NewJSONHandler(os.Stdout),
		pgLogHandler,
	)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cleanupDone)

	// Storage
	profiles := profile.NewManager(kv.NewGormBackend(database.DB), profile.WithHistoryLimit(cfg.HistoryLimit))

	var images media.Store = media.InlineStore{}
	if cfg.S3Bucket != "" {
		s3Store, err := media.NewS3Store(context.Background(), cfg.AWSRegion, cfg.S3Bucket)
		if err != nil {
			slog.Error("s3 store init failed", "bucket", cfg.S3Bucket, "error", err)
			os.Exit(1)
		}
		images = s3Store
	}

	// Vision analysis
	httpClient := &http.Client{Timeout: cfg.AITimeout + 5*time.Second}
	var provider analysis.VisionProvider
	switch {
	case cfg.VisionProvider == "gemini" && cfg.GeminiAPIKey != "":
		provider = analysis.NewGeminiVision(cfg.GeminiAPIKey, cfg.GeminiModel)
	case cfg.VisionAPIKey != "":
		provider = analysis.NewRapidAPIVision(cfg.VisionAPIURL, cfg.VisionAPIHost, cfg.VisionAPIKey, httpClient)
	default:
		slog.Warn("no vision provider configured, scans will use fallback scores")
	}
	gateway := analysis.NewGateway(provider, cfg.AITimeout,
		analysis.WithLogger(slog.Default().With("component", "analysis")))
	imageGen := analysis.NewImageGenerator(cfg.ImageGenAPIURL, cfg.ImageGenAPIHost, cfg.VisionAPIKey, httpClient)

	hub := coach.NewHub(cfg.CoachReplyDelay)
	coach.StartEviction(hub, coach.IdleTimeout, cleanupDone)

	// Services
	authService := services.NewAuthService(database.DB, cfg)
	premiumService := services.NewPremiumService(profiles, authService)
	scanService := services.NewScanService(gateway, images, profiles)
	projectionService := services.NewProjectionService(imageGen, profiles)

	// Handlers
	h := routes.Handlers{
		Auth:       handlers.NewAuthHandler(authService, profiles),
		Health:     handlers.NewHealthHandler(database.Ping),
		Legal:      handlers.NewLegalHandler(cfg.AppName, cfg.SupportEmail),
		Webhook:    handlers.NewWebhookHandler(premiumService, cfg.WebhookAuth),
		Profile:    handlers.NewProfileHandler(profiles, premiumService, hub, images),
		Results:    handlers.NewResultsHandler(profiles),
		Scan:       handlers.NewScanHandler(scanService, profiles, images),
		Onboarding: handlers.NewOnboardingHandler(profiles),
		Coach:      handlers.NewCoachHandler(hub),
		Future:     handlers.NewFutureHandler(projectionService),
	}

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app; scans carry two photos as base64
	app := fiber.New(fiber.Config{
		BodyLimit:    16 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	routes.Setup(app, cfg, profiles, h)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	close(cleanupDone)
	hub.Close()
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := database.Close(); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error",
			"method", c.Method(), "path", c.Path(),
			"request_id", c.Locals("requestid"), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
