// Package main provides the entrypoint for the SmartAirCity API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/smartaircity/smartaircity/internal/airquality"
	"github.com/smartaircity/smartaircity/internal/airquality/mqtt"
	"github.com/smartaircity/smartaircity/internal/api"
	"github.com/smartaircity/smartaircity/internal/api/middleware"
	"github.com/smartaircity/smartaircity/internal/auth"
	"github.com/smartaircity/smartaircity/internal/database"
	"github.com/smartaircity/smartaircity/internal/geocode"
	"github.com/smartaircity/smartaircity/internal/geocode/nominatim"
	"github.com/smartaircity/smartaircity/internal/notify"
	"github.com/smartaircity/smartaircity/internal/notify/mailapi"
	"github.com/smartaircity/smartaircity/internal/provider/resilience"
	"github.com/smartaircity/smartaircity/internal/telemetry"
	"github.com/smartaircity/smartaircity/internal/user"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "smartaircity-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting SmartAirCity API")

	// Get configuration from environment
	port := getEnvOrDefault("APP_PORT", "8080")
	env := getEnvOrDefault("APP_ENV", "development")
	otlpEndpoint := getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	providerMetrics, err := telemetry.NewProviderMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize provider metrics")
	}

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Initialize auth service (get signing key from environment)
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: jwtSigningKey,
		Issuer:     getEnvOrDefault("JWT_ISSUER", "https://api.smartair.city"),
		Audience:   getEnvOrDefault("JWT_AUDIENCE", "smartaircity-api"),
	})

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		log.Warn().Msg("ADMIN_PASSWORD not set - login is disabled")
	}
	authService := auth.NewService(auth.ServiceConfig{
		JWTService:    jwtService,
		AdminUsername: getEnvOrDefault("ADMIN_USERNAME", "admin"),
		AdminPassword: adminPassword,
		Logger:        log,
	})
	log.Info().Msg("auth service initialized")

	// Initialize user service
	userService := user.NewService(user.ServiceConfig{
		Repository: user.NewPostgresRepository(pool),
		Logger:     log,
	})
	log.Info().Msg("user service initialized")

	// Initialize the realtime reading store and MQTT feed
	store := airquality.NewStore(airquality.StoreConfig{Logger: log})

	subscriber := mqtt.NewSubscriber(mqtt.SubscriberConfig{
		BrokerURL: getEnvOrDefault("MQTT_BROKER_URL", "tcp://localhost:1883"),
		ClientID:  getEnvOrDefault("MQTT_CLIENT_ID", serviceName),
		Topic:     getEnvOrDefault("MQTT_TOPIC", mqtt.DefaultTopic),
		Store:     store,
		Logger:    log,
	})
	if err := subscriber.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start sensor feed subscriber")
	}
	defer subscriber.Stop()
	log.Info().Msg("sensor feed subscriber started")

	// Initialize reverse geocoding with optional Redis cache
	var resolver geocode.Resolver = nominatim.NewClient(nominatim.ClientConfig{
		BaseURL: getEnvOrDefault("NOMINATIM_BASE_URL", nominatim.DefaultBaseURL),
		HTTPClient: resilience.NewClient(resilience.ClientConfig{
			Name: "nominatim",
		}),
		Metrics: providerMetrics,
	})

	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		resolver = geocode.NewCachedResolver(geocode.CachedResolverConfig{
			Inner:   resolver,
			Client:  redisClient,
			Logger:  log,
			Metrics: providerMetrics,
		})
		log.Info().Str("addr", redisAddr).Msg("geocode cache enabled")
	}

	// Initialize the delivery client and dispatcher
	deliveryClient := resilience.NewClient(resilience.ClientConfig{
		Name: "mail-delivery",
	})
	mailClient := mailapi.NewClient(mailapi.ClientConfig{
		BaseURL:    getEnvOrDefault("MAIL_API_BASE_URL", mailapi.DefaultBaseURL),
		HTTPClient: deliveryClient,
		Metrics:    providerMetrics,
	})
	dispatcher := notify.NewDispatcher(notify.DispatcherConfig{
		Mailer: mailClient,
		Logger: log,
	})
	log.Info().Msg("notification dispatcher initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:     Version,
		BuildTime:   BuildTime,
		Logger:      log,
		ServiceName: serviceName,
		DocsBaseURL: os.Getenv("DOCS_BASE_URL"),
		Metrics:     metrics,
		AuthService: authService,
		UserService: userService,
		Store:       store,
		Resolver:    resolver,
		Dispatcher:  dispatcher,
		Delivery:    deliveryClient,
	})

	// Create HTTP server. WriteTimeout stays unset because the SSE
	// stream endpoint holds response writers open indefinitely.
	server := &http.Server{
		Addr:        ":" + port,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
