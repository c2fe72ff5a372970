package models

import (
	"github.com/smartaircity/smartaircity/internal/airquality"
)

// Station represents one monitoring station's latest reading. Metric
// fields are strings so unknown values serialize as the "N/A" marker
// the dashboard renders directly.
type Station struct {
	StationID  string    `json:"stationId"`
	Name       string    `json:"name,omitempty"`
	AQI        string    `json:"aqi"`
	Severity   string    `json:"severity,omitempty"`
	PM25       string    `json:"pm25"`
	PM10       string    `json:"pm10"`
	CO         string    `json:"co"`
	SO2        string    `json:"so2"`
	NO2        string    `json:"no2"`
	O3         string    `json:"o3"`
	Location   *Point    `json:"location,omitempty"`
	ObservedAt Timestamp `json:"observedAt"`
}

// StationFromReading converts a domain reading to its API shape.
func StationFromReading(r airquality.StationReading) Station {
	s := Station{
		StationID:  r.StationID,
		Name:       r.Name,
		AQI:        r.AQI.String(),
		Severity:   string(airquality.Classify(r.AQI)),
		PM25:       r.PM25.String(),
		PM10:       r.PM10.String(),
		CO:         r.CO.String(),
		SO2:        r.SO2.String(),
		NO2:        r.NO2.String(),
		O3:         r.O3.String(),
		ObservedAt: Timestamp(r.ObservedAt),
	}
	if r.Location != nil {
		s.Location = &Point{Lat: r.Location.Lat, Lon: r.Location.Lon}
	}
	return s
}

// StationList is the response for the station listing endpoint.
type StationList struct {
	Stations  []Station  `json:"stations"`
	UpdatedAt *Timestamp `json:"updatedAt,omitempty"`
}

// StatsSummary is the aggregate AQI view across all stations.
type StatsSummary struct {
	AverageAQI   float64 `json:"averageAqi"`
	CountGood    int     `json:"countGood"`
	CountWarning int     `json:"countWarning"`
	CountDanger  int     `json:"countDanger"`
	Stations     int     `json:"stations"`
}
