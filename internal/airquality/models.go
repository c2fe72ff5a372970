// Package airquality holds the realtime air quality domain: station
// readings, derived statistics, severity classification and the
// snapshot store that fans readings out to subscribers.
package airquality

import (
	"errors"
	"strconv"
	"time"
)

// Domain errors.
var (
	ErrStationNotFound = errors.New("station not found")
)

// UnknownMarker is the display value for a measurement that was absent
// from the source payload. Rendering code never substitutes a zero.
const UnknownMarker = "N/A"

// Metric is a single numeric measurement that may be absent.
// The zero value is "unknown"; a known zero is Metric{Value: 0, Known: true}.
// Absence is decided once, at ingestion, so templates cannot conflate
// "zero" and "missing".
type Metric struct {
	Value float64
	Known bool
}

// KnownMetric returns a Metric carrying the given value.
func KnownMetric(v float64) Metric {
	return Metric{Value: v, Known: true}
}

// String renders the metric value, or the unknown marker when absent.
func (m Metric) String() string {
	if !m.Known {
		return UnknownMarker
	}
	return strconv.FormatFloat(m.Value, 'f', -1, 64)
}

// Location is a latitude/longitude pair.
type Location struct {
	Lat float64
	Lon float64
}

// StationReading is one observation from a monitoring station.
// Every measurement field is optional; AQI, when known, is non-negative.
type StationReading struct {
	// StationID identifies the reporting station.
	StationID string

	// Name is the station's display name.
	Name string

	// AQI is the composite air quality index.
	AQI Metric

	// Pollutant concentrations in µg/m³ (CO in mg/m³).
	PM25 Metric
	PM10 Metric
	CO   Metric
	SO2  Metric
	NO2  Metric
	O3   Metric

	// Location is where the station sits, if the payload carried one.
	Location *Location

	// ObservedAt is when the observation was taken.
	ObservedAt time.Time
}
