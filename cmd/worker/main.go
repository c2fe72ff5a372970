// Package main provides the entrypoint for the SmartAirCity alert worker.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/smartaircity/smartaircity/internal/airquality"
	"github.com/smartaircity/smartaircity/internal/airquality/mqtt"
	"github.com/smartaircity/smartaircity/internal/database"
	"github.com/smartaircity/smartaircity/internal/geocode"
	"github.com/smartaircity/smartaircity/internal/geocode/nominatim"
	"github.com/smartaircity/smartaircity/internal/notify"
	"github.com/smartaircity/smartaircity/internal/notify/mailapi"
	"github.com/smartaircity/smartaircity/internal/provider/resilience"
	"github.com/smartaircity/smartaircity/internal/telemetry"
	"github.com/smartaircity/smartaircity/internal/user"
	"github.com/smartaircity/smartaircity/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "smartaircity-worker"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting SmartAirCity worker")

	// Worker also exposes a health endpoint for Cloud Run
	port := getEnvOrDefault("APP_PORT", "8080")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database for recipient lookups
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	userService := user.NewService(user.ServiceConfig{
		Repository: user.NewPostgresRepository(pool),
		Logger:     log,
	})

	// Follow the sensor feed so sweeps see the same snapshot the
	// dashboard shows
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

	providerMetrics, err := telemetry.NewProviderMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize provider metrics")
	}

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

	dispatcher := notify.NewDispatcher(notify.DispatcherConfig{
		Mailer: mailapi.NewClient(mailapi.ClientConfig{
			BaseURL: getEnvOrDefault("MAIL_API_BASE_URL", mailapi.DefaultBaseURL),
			HTTPClient: resilience.NewClient(resilience.ClientConfig{
				Name: "mail-delivery",
			}),
			Metrics: providerMetrics,
		}),
		Logger: log,
	})

	alertConfig := worker.DefaultAlertConfig()
	if raw := os.Getenv("ALERT_THRESHOLD"); raw != "" {
		if threshold, err := strconv.ParseFloat(raw, 64); err == nil {
			alertConfig.Threshold = threshold
		}
	}

	alertJob := worker.NewAlertJob(worker.AlertJobConfig{
		Config:     alertConfig,
		Store:      store,
		Resolver:   resolver,
		Dispatcher: dispatcher,
		Recipients: userService,
		Logger:     log,
	})

	// Create HTTP server for health checks
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","version":"%s"}`, Version)
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// Start health check server
	go func() {
		log.Info().Str("addr", server.Addr).Msg("health check server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("health server error")
		}
	}()

	// Prefer Pub/Sub triggered sweeps; fall back to a local ticker when
	// no subscription is configured
	projectID := os.Getenv("PUBSUB_PROJECT_ID")
	subscriptionName := os.Getenv("PUBSUB_SUBSCRIPTION")

	if projectID != "" && subscriptionName != "" {
		handler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        projectID,
			SubscriptionName: subscriptionName,
			AlertJob:         alertJob,
			Logger:           log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub handler")
		}
		defer handler.Close()

		go func() {
			if err := handler.Start(ctx); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("pubsub handler stopped")
			}
		}()
	} else {
		interval := 5 * time.Minute
		if raw := os.Getenv("ALERT_SWEEP_INTERVAL"); raw != "" {
			if parsed, err := time.ParseDuration(raw); err == nil {
				interval = parsed
			}
		}

		go func() {
			log.Info().Dur("interval", interval).Msg("running local sweep ticker")
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					alertJob.Run(ctx)
				}
			}
		}()
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
