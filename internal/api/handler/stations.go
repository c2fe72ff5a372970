package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/smartaircity/smartaircity/internal/airquality"
	"github.com/smartaircity/smartaircity/internal/api/models"
	"github.com/smartaircity/smartaircity/internal/api/response"
	"github.com/smartaircity/smartaircity/internal/geocode"
)

// StationHandler handles air quality station endpoints.
type StationHandler struct {
	store    *airquality.Store
	resolver geocode.Resolver
}

// NewStationHandler creates a new StationHandler.
func NewStationHandler(store *airquality.Store, resolver geocode.Resolver) *StationHandler {
	return &StationHandler{store: store, resolver: resolver}
}

// ListStations handles GET /v1/stations - latest reading per station.
func (h *StationHandler) ListStations(w http.ResponseWriter, r *http.Request) {
	readings := h.store.Latest()

	list := models.StationList{
		Stations: make([]models.Station, 0, len(readings)),
	}
	for _, reading := range readings {
		list.Stations = append(list.Stations, models.StationFromReading(reading))
	}
	if updatedAt := h.store.UpdatedAt(); !updatedAt.IsZero() {
		ts := models.Timestamp(updatedAt)
		list.UpdatedAt = &ts
	}

	response.JSON(w, r, http.StatusOK, list)
}

// GetStation handles GET /v1/stations/{stationId}.
func (h *StationHandler) GetStation(w http.ResponseWriter, r *http.Request) {
	stationID := chi.URLParam(r, "stationId")
	if stationID == "" {
		response.BadRequest(w, r, "stationId is required", nil)
		return
	}

	reading, err := h.store.Get(stationID)
	if err != nil {
		if errors.Is(err, airquality.ErrStationNotFound) {
			response.NotFound(w, r, "no reading for station "+stationID)
			return
		}
		response.InternalError(w, r, "failed to load station")
		return
	}

	response.JSON(w, r, http.StatusOK, models.StationFromReading(reading))
}

// stationPlace is the response for the station place endpoint.
type stationPlace struct {
	StationID string `json:"stationId"`
	Place     string `json:"place"`
}

// GetStationPlace handles GET /v1/stations/{stationId}/place - resolve
// the station's coordinates to a human-readable place name. Stations
// without coordinates get a 404; geocoder failures fall back to the
// formatted coordinate pair.
func (h *StationHandler) GetStationPlace(w http.ResponseWriter, r *http.Request) {
	stationID := chi.URLParam(r, "stationId")
	if stationID == "" {
		response.BadRequest(w, r, "stationId is required", nil)
		return
	}

	reading, err := h.store.Get(stationID)
	if err != nil {
		if errors.Is(err, airquality.ErrStationNotFound) {
			response.NotFound(w, r, "no reading for station "+stationID)
			return
		}
		response.InternalError(w, r, "failed to load station")
		return
	}
	if reading.Location == nil {
		response.NotFound(w, r, "station has no location")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	place := geocode.ResolveOrFallback(ctx, h.resolver, *reading.Location)
	response.JSON(w, r, http.StatusOK, stationPlace{StationID: stationID, Place: place})
}

// GetSummary handles GET /v1/stations/summary - aggregate AQI stats.
func (h *StationHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	readings := h.store.Latest()
	summary := airquality.Summarize(readings)

	response.JSON(w, r, http.StatusOK, models.StatsSummary{
		AverageAQI:   summary.AverageAQI,
		CountGood:    summary.CountGood,
		CountWarning: summary.CountWarning,
		CountDanger:  summary.CountDanger,
		Stations:     len(readings),
	})
}
