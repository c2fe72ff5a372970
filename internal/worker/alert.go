package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/smartaircity/smartaircity/internal/airquality"
	"github.com/smartaircity/smartaircity/internal/geocode"
	"github.com/smartaircity/smartaircity/internal/notify"
)

// RecipientSource yields the addresses a sweep should notify.
type RecipientSource interface {
	ActiveRecipients(ctx context.Context) ([]string, error)
}

// AlertJob sweeps the latest readings and mails an alert for every
// station whose AQI exceeds the configured threshold.
type AlertJob struct {
	config     AlertConfig
	store      *airquality.Store
	resolver   geocode.Resolver
	dispatcher *notify.Dispatcher
	recipients RecipientSource
	logger     zerolog.Logger
}

// AlertJobConfig holds dependencies for the alert job.
type AlertJobConfig struct {
	Config     AlertConfig
	Store      *airquality.Store
	Resolver   geocode.Resolver
	Dispatcher *notify.Dispatcher
	Recipients RecipientSource
	Logger     zerolog.Logger
}

// NewAlertJob creates a new alert sweep job.
func NewAlertJob(cfg AlertJobConfig) *AlertJob {
	return &AlertJob{
		config:     cfg.Config.withDefaults(),
		store:      cfg.Store,
		resolver:   cfg.Resolver,
		dispatcher: cfg.Dispatcher,
		recipients: cfg.Recipients,
		logger:     cfg.Logger.With().Str("component", "alert_job").Logger(),
	}
}

// StationAlert is the outcome for one alerting station.
type StationAlert struct {
	StationID string
	Place     string
	Delivered int
	Failed    int
	Err       error
}

// AlertResult summarizes one sweep.
type AlertResult struct {
	Duration   time.Duration
	Swept      int
	Triggered  int
	Delivered  int
	Failed     int
	Recipients int
	Alerts     []StationAlert
}

// Run executes one sweep over the current snapshot. Readings that
// arrive during the sweep are picked up by the next one.
func (j *AlertJob) Run(ctx context.Context) AlertResult {
	start := time.Now()

	readings := j.store.Latest()
	result := AlertResult{Swept: len(readings)}

	var alerting []airquality.StationReading
	for _, r := range readings {
		if j.config.exceeds(r.AQI) {
			alerting = append(alerting, r)
		}
	}
	result.Triggered = len(alerting)
	if len(alerting) == 0 {
		result.Duration = time.Since(start)
		return result
	}

	recipients, err := j.recipients.ActiveRecipients(ctx)
	if err != nil {
		j.logger.Error().Err(err).Msg("Failed to resolve recipients")
		result.Duration = time.Since(start)
		return result
	}
	result.Recipients = len(recipients)
	if len(recipients) == 0 {
		j.logger.Warn().Int("stations", len(alerting)).Msg("Alerting stations but no active recipients")
		result.Duration = time.Since(start)
		return result
	}

	alerts := make([]StationAlert, len(alerting))
	sem := make(chan struct{}, j.config.Concurrency)
	var wg sync.WaitGroup

	for i, reading := range alerting {
		wg.Add(1)
		go func(i int, reading airquality.StationReading) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			alerts[i] = j.alertStation(ctx, reading, recipients)
		}(i, reading)
	}
	wg.Wait()

	result.Alerts = alerts
	for _, a := range alerts {
		result.Delivered += a.Delivered
		result.Failed += a.Failed
	}
	result.Duration = time.Since(start)

	j.logger.Info().
		Int("swept", result.Swept).
		Int("triggered", result.Triggered).
		Int("delivered", result.Delivered).
		Int("failed", result.Failed).
		Dur("duration", result.Duration).
		Msg("Alert sweep completed")

	return result
}

func (j *AlertJob) alertStation(ctx context.Context, reading airquality.StationReading, recipients []string) StationAlert {
	ctx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	alert := StationAlert{StationID: reading.StationID}
	if reading.Location != nil {
		alert.Place = geocode.ResolveOrFallback(ctx, j.resolver, *reading.Location)
	}

	body := notify.ComposeAlert(reading, alert.Place)
	batch, err := j.dispatcher.SendBatch(ctx, recipients, j.config.Subject, body)
	if err != nil {
		alert.Err = err
		j.logger.Error().Err(err).Str("station_id", reading.StationID).Msg("Alert dispatch failed")
		return alert
	}

	alert.Delivered = batch.Succeeded
	alert.Failed = batch.Failed
	if batch.Failed > 0 {
		j.logger.Warn().
			Str("station_id", reading.StationID).
			Strs("failed_recipients", batch.FailedRecipients()).
			Msg("Alert partially delivered")
	}
	return alert
}
