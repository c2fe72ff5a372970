package notify_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/smartaircity/smartaircity/internal/airquality"
	"github.com/smartaircity/smartaircity/internal/notify"
)

func fullReading() airquality.StationReading {
	return airquality.StationReading{
		StationID:  "sac-001",
		Name:       "Hoan Kiem",
		AQI:        airquality.KnownMetric(82),
		PM25:       airquality.KnownMetric(24.1),
		PM10:       airquality.KnownMetric(40),
		CO:         airquality.KnownMetric(0.7),
		SO2:        airquality.KnownMetric(5.2),
		NO2:        airquality.KnownMetric(18.9),
		O3:         airquality.KnownMetric(31),
		Location:   &airquality.Location{Lat: 21.0285, Lon: 105.8542},
		ObservedAt: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestComposeAlert_FullReading(t *testing.T) {
	msg := notify.ComposeAlert(fullReading(), "Trang Tien, Hoan Kiem, Hanoi")

	assert.Contains(t, msg, "Station: Hoan Kiem")
	assert.Contains(t, msg, "AQI: 82")
	assert.Contains(t, msg, "Severity: Moderate")
	assert.Contains(t, msg, "PM2.5: 24.1 µg/m³")
	assert.Contains(t, msg, "PM10: 40 µg/m³")
	assert.Contains(t, msg, "CO: 0.7 mg/m³")
	assert.Contains(t, msg, "SO2: 5.2 µg/m³")
	assert.Contains(t, msg, "NO2: 18.9 µg/m³")
	assert.Contains(t, msg, "O3: 31 µg/m³")
	assert.Contains(t, msg, "Observed: Sun, 01 Mar 2026 08:00 UTC")
	assert.Contains(t, msg, "Location: Trang Tien, Hoan Kiem, Hanoi")
}

func TestComposeAlert_UnknownFieldsRenderMarker(t *testing.T) {
	r := fullReading()
	r.AQI = airquality.Metric{}
	r.PM25 = airquality.Metric{}
	r.CO = airquality.Metric{}

	msg := notify.ComposeAlert(r, "somewhere")

	// Each absent field renders its own marker; known fields are untouched.
	assert.Contains(t, msg, "AQI: N/A")
	assert.Contains(t, msg, "PM2.5: N/A µg/m³")
	assert.Contains(t, msg, "CO: N/A mg/m³")
	assert.Contains(t, msg, "PM10: 40 µg/m³")

	// No severity line without a known AQI.
	assert.NotContains(t, msg, "Severity:")
}

func TestComposeAlert_NoLocationOmitsLine(t *testing.T) {
	r := fullReading()
	r.Location = nil

	// The place argument is ignored when the reading had no coordinates;
	// the line disappears rather than showing a fallback literal.
	msg := notify.ComposeAlert(r, "21.0285, 105.8542")
	assert.NotContains(t, msg, "Location:")
}

func TestComposeAlert_FallsBackToStationID(t *testing.T) {
	r := fullReading()
	r.Name = ""

	msg := notify.ComposeAlert(r, "x")
	assert.Contains(t, msg, "Station: sac-001")
}

func TestComposeAlert_Deterministic(t *testing.T) {
	r := fullReading()
	assert.Equal(t, notify.ComposeAlert(r, "Hanoi"), notify.ComposeAlert(r, "Hanoi"))
}
