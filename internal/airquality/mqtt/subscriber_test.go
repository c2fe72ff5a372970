package mqtt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartaircity/smartaircity/internal/airquality/mqtt"
)

func TestDecodeReading_FullPayload(t *testing.T) {
	payload := `{
		"stationId": "sac-001",
		"name": "Hoan Kiem",
		"aqi": 82,
		"pm25": 24.1,
		"pm10": 40,
		"co": 0.7,
		"so2": 5.2,
		"no2": 18.9,
		"o3": 31,
		"location": {"lat": 21.0285, "lng": 105.8542},
		"dateObserved": "2026-03-01T08:00:00Z"
	}`

	reading, err := mqtt.DecodeReading([]byte(payload))
	require.NoError(t, err)

	assert.Equal(t, "sac-001", reading.StationID)
	assert.Equal(t, "Hoan Kiem", reading.Name)
	assert.Equal(t, 82.0, reading.AQI.Value)
	assert.True(t, reading.AQI.Known)
	assert.Equal(t, 24.1, reading.PM25.Value)
	require.NotNil(t, reading.Location)
	assert.Equal(t, 21.0285, reading.Location.Lat)
	assert.Equal(t, 105.8542, reading.Location.Lon)
	assert.Equal(t, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC), reading.ObservedAt.UTC())
}

func TestDecodeReading_MissingFieldsAreUnknown(t *testing.T) {
	reading, err := mqtt.DecodeReading([]byte(`{"stationId": "sac-002"}`))
	require.NoError(t, err)

	// Absent measurements are unknown, not zero.
	assert.False(t, reading.AQI.Known)
	assert.False(t, reading.PM25.Known)
	assert.False(t, reading.O3.Known)
	assert.Nil(t, reading.Location)
	assert.False(t, reading.ObservedAt.IsZero())
}

func TestDecodeReading_ZeroIsKnown(t *testing.T) {
	reading, err := mqtt.DecodeReading([]byte(`{"stationId": "sac-003", "so2": 0}`))
	require.NoError(t, err)

	assert.True(t, reading.SO2.Known)
	assert.Equal(t, 0.0, reading.SO2.Value)
}

func TestDecodeReading_NegativeAQIIsUnknown(t *testing.T) {
	reading, err := mqtt.DecodeReading([]byte(`{"stationId": "sac-004", "aqi": -1}`))
	require.NoError(t, err)

	assert.False(t, reading.AQI.Known)
}

func TestDecodeReading_TimestampFallback(t *testing.T) {
	reading, err := mqtt.DecodeReading([]byte(
		`{"stationId": "sac-005", "timestamp": "2026-03-01T09:30:00+07:00"}`))
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 3, 1, 2, 30, 0, 0, time.UTC), reading.ObservedAt.UTC())
}

func TestDecodeReading_Invalid(t *testing.T) {
	_, err := mqtt.DecodeReading([]byte(`not json`))
	assert.Error(t, err)

	_, err = mqtt.DecodeReading([]byte(`{"name": "no station id"}`))
	assert.Error(t, err)
}
