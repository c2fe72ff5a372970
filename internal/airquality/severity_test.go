package airquality_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smartaircity/smartaircity/internal/airquality"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		aqi  airquality.Metric
		want airquality.Severity
	}{
		{"zero", airquality.KnownMetric(0), airquality.SeverityGood},
		{"good upper bound", airquality.KnownMetric(50), airquality.SeverityGood},
		{"moderate lower bound", airquality.KnownMetric(51), airquality.SeverityModerate},
		{"moderate upper bound", airquality.KnownMetric(100), airquality.SeverityModerate},
		{"sensitive lower bound", airquality.KnownMetric(101), airquality.SeverityUnhealthySensitive},
		{"sensitive upper bound", airquality.KnownMetric(150), airquality.SeverityUnhealthySensitive},
		{"unhealthy", airquality.KnownMetric(180), airquality.SeverityUnhealthy},
		{"very unhealthy", airquality.KnownMetric(250), airquality.SeverityVeryUnhealthy},
		{"hazardous boundary", airquality.KnownMetric(301), airquality.SeverityHazardous},
		{"hazardous extreme", airquality.KnownMetric(999), airquality.SeverityHazardous},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, airquality.Classify(tt.aqi))
		})
	}
}

func TestClassify_UnknownAQI(t *testing.T) {
	// Absent AQI yields an empty classification, not an error or a tier.
	assert.Equal(t, airquality.Severity(""), airquality.Classify(airquality.Metric{}))
}

func TestMetricString(t *testing.T) {
	assert.Equal(t, "N/A", airquality.Metric{}.String())
	assert.Equal(t, "0", airquality.KnownMetric(0).String())
	assert.Equal(t, "12.3", airquality.KnownMetric(12.3).String())
}
