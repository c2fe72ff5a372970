// Package api provides the HTTP API for the SmartAirCity dashboard.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/smartaircity/smartaircity/internal/airquality"
	"github.com/smartaircity/smartaircity/internal/api/handler"
	"github.com/smartaircity/smartaircity/internal/api/middleware"
	"github.com/smartaircity/smartaircity/internal/auth"
	"github.com/smartaircity/smartaircity/internal/geocode"
	"github.com/smartaircity/smartaircity/internal/notify"
	"github.com/smartaircity/smartaircity/internal/user"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	DocsBaseURL string
	Metrics     *middleware.Metrics
	AuthService *auth.Service
	UserService *user.Service
	Store       *airquality.Store
	Resolver    geocode.Resolver
	Dispatcher  *notify.Dispatcher
	Delivery    handler.CircuitStater
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "smartaircity-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(handler.OpsConfig{
		Version:   cfg.Version,
		BuildTime: cfg.BuildTime,
		Store:     cfg.Store,
		Delivery:  cfg.Delivery,
	})
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	stationHandler := handler.NewStationHandler(cfg.Store, cfg.Resolver)
	streamHandler := handler.NewStreamHandler(cfg.Store, cfg.Logger)
	userHandler := handler.NewUserHandler(cfg.UserService)
	notificationHandler := handler.NewNotificationHandler(cfg.Dispatcher, cfg.UserService, cfg.Logger)
	docsHandler := handler.NewDocsHandler(cfg.DocsBaseURL)

	// Create auth middleware
	authMiddleware := middleware.Auth(cfg.AuthService)

	// Create rate limit middleware for different endpoint categories
	authRateLimit := middleware.RateLimitByIP(middleware.AuthRateLimit)           // 10 req/min
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	// Documentation viewer (public)
	r.Get("/docs", docsHandler.ServeDocs)
	r.Get("/docs/raw", docsHandler.RedirectDocs)

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Auth endpoints (public) - strict rate limiting
		r.Route("/auth", func(r chi.Router) {
			r.Use(authRateLimit) // 10 requests per minute per IP
			r.Post("/login", authHandler.Login)
		})

		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			// Status and metrics require authentication
			r.With(authMiddleware).Get("/status", opsHandler.SystemStatus)
			r.With(authMiddleware).Get("/metrics", opsHandler.SystemMetrics)
		})

		// Station endpoints (public) - standard rate limiting
		r.Route("/stations", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/", stationHandler.ListStations)
			r.Get("/summary", stationHandler.GetSummary)
			r.Get("/stream", streamHandler.StreamReadings)
			r.Route("/{stationId}", func(r chi.Router) {
				r.Get("/", stationHandler.GetStation)
				r.Get("/place", stationHandler.GetStationPlace)
			})
		})

		// User endpoints (authenticated)
		r.Route("/users", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(standardRateLimit)
			r.Get("/", userHandler.ListUsers)
			r.Post("/", userHandler.CreateUser)
			r.Route("/{userId}", func(r chi.Router) {
				r.Get("/", userHandler.GetUser)
				r.Put("/active", userHandler.UpdateUserActive)
				r.Delete("/", userHandler.DeleteUser)
			})
		})

		// Notification endpoints (authenticated) - delivery fan-out is
		// expensive, so strict rate limiting
		r.Route("/notifications", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(expensiveRateLimit)
			r.Post("/", notificationHandler.SendNotification)
			r.Post("/broadcast", notificationHandler.Broadcast)
		})
	})

	return r
}
