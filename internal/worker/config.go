// Package worker provides background alert processing for SmartAirCity.
package worker

import (
	"time"

	"github.com/smartaircity/smartaircity/internal/airquality"
)

// AlertConfig holds configuration for the alert sweep job.
type AlertConfig struct {
	// Threshold is the AQI above which a station triggers an alert.
	// Default: 150 (above "Unhealthy for sensitive groups").
	Threshold float64

	// Concurrency is the number of concurrent place resolutions.
	// Default: 3
	Concurrency int

	// Timeout is the timeout for one station's alert, covering place
	// resolution and dispatch. Default: 30 seconds
	Timeout time.Duration

	// Subject is the mail subject for sweep alerts.
	Subject string
}

// DefaultAlertConfig returns the default alert sweep configuration.
func DefaultAlertConfig() AlertConfig {
	return AlertConfig{
		Threshold:   150,
		Concurrency: 3,
		Timeout:     30 * time.Second,
		Subject:     "Air quality alert",
	}
}

// withDefaults fills zero fields with defaults.
func (c AlertConfig) withDefaults() AlertConfig {
	def := DefaultAlertConfig()
	if c.Threshold == 0 {
		c.Threshold = def.Threshold
	}
	if c.Concurrency <= 0 {
		c.Concurrency = def.Concurrency
	}
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	if c.Subject == "" {
		c.Subject = def.Subject
	}
	return c
}

// exceeds reports whether a reading's AQI is known and above the
// threshold. Unknown readings never alert.
func (c AlertConfig) exceeds(m airquality.Metric) bool {
	return m.Known && m.Value > c.Threshold
}
