package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/smartaircity/smartaircity/internal/airquality"
	"github.com/smartaircity/smartaircity/internal/api/models"
	"github.com/smartaircity/smartaircity/internal/api/response"
)

// streamKeepAliveInterval is how often a comment line is written to
// keep intermediaries from closing an idle stream.
const streamKeepAliveInterval = 30 * time.Second

// StreamHandler serves live station readings over Server-Sent Events.
type StreamHandler struct {
	store  *airquality.Store
	logger zerolog.Logger
}

// NewStreamHandler creates a new StreamHandler.
func NewStreamHandler(store *airquality.Store, logger zerolog.Logger) *StreamHandler {
	return &StreamHandler{
		store:  store,
		logger: logger.With().Str("component", "stream_handler").Logger(),
	}
}

// StreamReadings handles GET /v1/stations/stream. Each update is sent
// as a "reading" event; the current snapshot is replayed first so a
// fresh dashboard renders without waiting for the next sensor tick.
func (h *StreamHandler) StreamReadings(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalError(w, r, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	updates, cancel := h.store.Subscribe()
	defer cancel()

	for _, reading := range h.store.Latest() {
		h.writeReading(w, reading)
	}
	flusher.Flush()

	keepAlive := time.NewTicker(streamKeepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case reading, ok := <-updates:
			if !ok {
				return
			}
			h.writeReading(w, reading)
			flusher.Flush()
		case <-keepAlive.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		}
	}
}

func (h *StreamHandler) writeReading(w http.ResponseWriter, reading airquality.StationReading) {
	payload, err := json.Marshal(models.StationFromReading(reading))
	if err != nil {
		h.logger.Error().Err(err).Str("station_id", reading.StationID).Msg("Failed to encode reading")
		return
	}
	fmt.Fprintf(w, "event: reading\ndata: %s\n\n", payload)
}
