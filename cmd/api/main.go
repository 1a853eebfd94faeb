package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/ggorockee/localdirectory/internal/app"
	"github.com/ggorockee/localdirectory/internal/config"
	"github.com/ggorockee/localdirectory/internal/database"
	"github.com/ggorockee/localdirectory/internal/handlers"
	"github.com/ggorockee/localdirectory/internal/logger"
	"github.com/ggorockee/localdirectory/internal/middleware"
	"github.com/ggorockee/localdirectory/internal/ratelimit"
	"github.com/ggorockee/localdirectory/internal/telemetry"
)

func main() {
	// Load .env file
	envErr := godotenv.Load()

	cfg := config.Load()

	logger.Init(cfg.ServerEnv)
	defer logger.Sync()
	log := logger.GetLogger("main")

	if envErr != nil {
		log.Info("No .env file found, using environment variables")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry Tracer
	tracerShutdown, err := telemetry.InitTracer(ctx, telemetry.ServiceName, cfg.SigNozEndpoint)
	if err != nil {
		log.Warnf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if tracerShutdown == nil {
			return
		}
		if err := tracerShutdown(context.Background()); err != nil {
			log.Warnf("Error shutting down tracer: %v", err)
		}
	}()

	// Initialize OpenTelemetry Metrics
	meterShutdown, err := telemetry.InitMeter(ctx, telemetry.ServiceName, cfg.SigNozEndpoint)
	if err != nil {
		log.Warnf("Failed to initialize metrics: %v", err)
	}
	defer func() {
		if meterShutdown == nil {
			return
		}
		if err := meterShutdown(context.Background()); err != nil {
			log.Warnf("Error shutting down metrics: %v", err)
		}
	}()

	a, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer a.Close()

	go database.StartConnectionPoolMetricsCollector(ctx, a.DB.DB, 15*time.Second)

	if cfg.UsesDefaultCleanupKey() {
		log.Warn("CACHE_CLEANUP_API_KEY is not set; cache admin endpoints accept the built-in default key")
	}
	limiter, closeLimiter, err := a.Limiter(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize rate limiter: %v", err)
	}
	defer closeLimiter()

	if cfg.Cache.CleanupInterval > 0 {
		go a.Maintenance.RunSchedule(ctx, cfg.Cache.CleanupInterval)
	}

	fiberApp := fiber.New(middleware.ProxyConfig(fiber.Config{
		AppName:      "Local Directory API",
		ErrorHandler: handlers.ErrorHandler,
	}, cfg.ProxyHeader, cfg.TrustedProxies))
	if len(cfg.TrustedProxies) > 0 {
		log.Infof("Client IP taken from %s for trusted proxies %v", cfg.ProxyHeader, cfg.TrustedProxies)
	}

	// Middleware
	fiberApp.Use(recover.New())
	// JSON 구조화 액세스 로그
	fiberApp.Use(fiberlogger.New(fiberlogger.Config{
		Format:     `{"time":"${time}","status":${status},"latency":"${latency}","ip":"${ip}","method":"${method}","path":"${path}","user_agent":"${ua}","error":"${error}"}` + "\n",
		TimeFormat: "2006-01-02T15:04:05Z07:00",
		TimeZone:   "UTC",
	}))
	fiberApp.Use(telemetry.New())
	fiberApp.Use(middleware.PrometheusMiddleware())
	fiberApp.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowHeaders:     "Accept, Accept-Encoding, Authorization, Content-Type, Origin, User-Agent, X-Requested-With",
		AllowCredentials: false,
		ExposeHeaders:    "Content-Length, Content-Type, X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset",
		MaxAge:           86400,
	}))

	setupRoutes(fiberApp, a, limiter)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Info("Shutting down server...")
		cancel()
		if err := fiberApp.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Errorf("Error shutting down server: %v", err)
		}
	}()

	port := cfg.ServerPort
	if port == "" {
		port = "3000"
	}

	log.Infof("Server starting on port %s", port)
	if err := fiberApp.Listen(":" + port); err != nil {
		log.Errorf("Failed to start server: %v", err)
	}
}

func setupRoutes(fiberApp *fiber.App, a *app.App, limiter *ratelimit.Limiter) {
	// Health check endpoints for k8s probes
	fiberApp.Get("/healthz", handlers.HealthCheck)
	fiberApp.Get("/v1/healthz", handlers.HealthCheck)
	fiberApp.Get("/v1/readiness", handlers.ReadinessCheck(a.Maintenance))
	fiberApp.Get("/v1/liveness", handlers.LivenessCheck)
	fiberApp.Get("/metrics", middleware.PrometheusHandler())

	// sitemap.xml, robots.txt
	handlers.SetupSEORoutes(fiberApp, a.Data, a.Config.SiteURL)

	v1 := fiberApp.Group("/v1")

	// Places routes (public)
	handlers.SetupPlacesRoutes(v1.Group("/places"), a.Places, a.Data)

	// Keyword/location data (public)
	handlers.SetupDatasetRoutes(v1, a.Data, a.Config.SiteURL)

	// Cache maintenance (cleanup requires admin key)
	handlers.SetupCacheRoutes(v1.Group("/cache"), a.Maintenance, a.Config.Cache.CleanupAPIKey)

	// Inquiries (rate limited)
	handlers.SetupInquiryRoutes(v1.Group("/inquiries"), a.Inquiries, limiter)
}
