package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"
)

// PubSubHandler handles Pub/Sub messages for the worker.
type PubSubHandler struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	alertJob         *AlertJob
	logger           zerolog.Logger
}

// PubSubConfig holds configuration for the Pub/Sub handler.
type PubSubConfig struct {
	ProjectID        string
	SubscriptionName string
	AlertJob         *AlertJob
	Logger           zerolog.Logger
}

// AlertMessage represents an alert sweep job message. Cloud Scheduler
// publishes these on a fixed cadence.
type AlertMessage struct {
	JobType string `json:"job_type"`

	// Threshold overrides the configured AQI threshold for this sweep
	// when positive.
	Threshold float64 `json:"threshold,omitempty"`
}

// NewPubSubHandler creates a new Pub/Sub handler.
func NewPubSubHandler(ctx context.Context, cfg PubSubConfig) (*PubSubHandler, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)

	// Configure receive settings.
	subscriber.ReceiveSettings.MaxOutstandingMessages = 10
	subscriber.ReceiveSettings.MaxExtension = 10 * time.Minute

	return &PubSubHandler{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		alertJob:         cfg.AlertJob,
		logger:           cfg.Logger,
	}, nil
}

// Start begins processing Pub/Sub messages.
func (h *PubSubHandler) Start(ctx context.Context) error {
	h.logger.Info().
		Str("subscription", h.subscriptionName).
		Msg("starting pubsub handler")

	return h.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		h.handleMessage(ctx, msg)
	})
}

// Close closes the Pub/Sub client.
func (h *PubSubHandler) Close() error {
	return h.client.Close()
}

func (h *PubSubHandler) handleMessage(ctx context.Context, msg *pubsub.Message) {
	startTime := time.Now()

	logger := h.logger.With().
		Str("message_id", msg.ID).
		Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
		Logger()

	logger.Debug().Msg("received pubsub message")

	// Parse message.
	var alertMsg AlertMessage
	if err := json.Unmarshal(msg.Data, &alertMsg); err != nil {
		logger.Error().Err(err).Msg("failed to parse message")
		msg.Nack()
		return
	}

	// Handle based on job type.
	var err error
	switch alertMsg.JobType {
	case "alert_sweep":
		err = h.handleAlertSweep(ctx, alertMsg)
	case "health_check":
		err = h.handleHealthCheck(ctx)
	default:
		logger.Warn().Str("job_type", alertMsg.JobType).Msg("unknown job type")
		msg.Ack() // Ack unknown messages to prevent redelivery
		return
	}

	if err != nil {
		logger.Error().Err(err).Msg("job failed")
		msg.Nack()
		return
	}

	duration := time.Since(startTime)
	logger.Info().
		Str("job_type", alertMsg.JobType).
		Dur("duration", duration).
		Msg("job completed successfully")

	msg.Ack()
}

func (h *PubSubHandler) handleAlertSweep(ctx context.Context, msg AlertMessage) error {
	job := h.alertJob
	if msg.Threshold > 0 {
		cfg := job.config
		cfg.Threshold = msg.Threshold
		job = NewAlertJob(AlertJobConfig{
			Config:     cfg,
			Store:      job.store,
			Resolver:   job.resolver,
			Dispatcher: job.dispatcher,
			Recipients: job.recipients,
			Logger:     h.logger,
		})
	}

	result := job.Run(ctx)

	h.logger.Info().
		Dur("duration", result.Duration).
		Int("triggered", result.Triggered).
		Int("delivered", result.Delivered).
		Int("failed", result.Failed).
		Msg("alert sweep completed")

	// Consider it successful if more deliveries landed than failed.
	if result.Failed > result.Delivered {
		return fmt.Errorf("too many delivery failures: %d/%d", result.Failed, result.Failed+result.Delivered)
	}

	return nil
}

func (h *PubSubHandler) handleHealthCheck(_ context.Context) error {
	h.logger.Debug().Msg("running health check")

	// The sweep is only useful when the sensor feed is delivering.
	store := h.alertJob.store
	if !store.Connected() {
		if err := store.Err(); err != nil {
			return fmt.Errorf("sensor feed down: %w", err)
		}
		return fmt.Errorf("sensor feed not connected")
	}
	if updatedAt := store.UpdatedAt(); !updatedAt.IsZero() && time.Since(updatedAt) > time.Hour {
		return fmt.Errorf("no readings since %s", updatedAt.Format(time.RFC3339))
	}

	h.logger.Debug().Msg("health check passed")
	return nil
}
