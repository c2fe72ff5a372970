// Package handler provides HTTP handlers for the SmartAirCity API.
package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/sony/gobreaker/v2"

	"github.com/smartaircity/smartaircity/internal/airquality"
	"github.com/smartaircity/smartaircity/internal/api/models"
	"github.com/smartaircity/smartaircity/internal/api/response"
)

// CircuitStater reports the state of an outbound circuit breaker.
type CircuitStater interface {
	State() gobreaker.State
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	store     *airquality.Store
	delivery  CircuitStater
}

// OpsConfig holds OpsHandler dependencies.
type OpsConfig struct {
	Version   string
	BuildTime string
	Store     *airquality.Store
	Delivery  CircuitStater
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(cfg OpsConfig) *OpsHandler {
	return &OpsHandler{
		version:   cfg.Version,
		buildTime: cfg.BuildTime,
		store:     cfg.Store,
		delivery:  cfg.Delivery,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check. The
// service is ready once the sensor feed is connected.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}
	if h.store != nil && !h.store.Connected() {
		health.Status = models.HealthStatusDegraded
		if err := h.store.Err(); err != nil {
			health.Details = map[string]interface{}{"sensorFeed": err.Error()}
		}
	}
	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /v1/ops/status - subsystem status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	now := models.Timestamp(time.Now())
	status := models.SystemStatus{
		Status: models.HealthStatusOK,
		Time:   now,
		Subsystems: []models.SubsystemStatus{
			h.sensorFeedStatus(),
			h.deliveryStatus(),
		},
	}
	for _, sub := range status.Subsystems {
		if sub.Status != models.HealthStatusOK {
			status.Status = models.HealthStatusDegraded
			break
		}
	}
	response.JSON(w, r, http.StatusOK, status)
}

func (h *OpsHandler) sensorFeedStatus() models.SubsystemStatus {
	sub := models.SubsystemStatus{Name: "sensor-feed", Status: models.HealthStatusOK}
	if h.store == nil {
		return sub
	}
	if !h.store.Connected() {
		sub.Status = models.HealthStatusFail
		if err := h.store.Err(); err != nil {
			detail := err.Error()
			sub.Detail = &detail
		}
	}
	return sub
}

func (h *OpsHandler) deliveryStatus() models.SubsystemStatus {
	sub := models.SubsystemStatus{Name: "delivery", Status: models.HealthStatusOK}
	if h.delivery == nil {
		return sub
	}
	switch h.delivery.State() {
	case gobreaker.StateOpen:
		sub.Status = models.HealthStatusFail
		detail := "circuit open"
		sub.Detail = &detail
	case gobreaker.StateHalfOpen:
		sub.Status = models.HealthStatusDegraded
		detail := "circuit half-open"
		sub.Detail = &detail
	}
	return sub
}

// SystemMetrics handles GET /v1/ops/metrics - host resource usage.
func (h *OpsHandler) SystemMetrics(w http.ResponseWriter, r *http.Request) {
	metrics := models.SystemMetrics{
		Goroutines: runtime.NumGoroutine(),
		Time:       models.Timestamp(time.Now()),
	}

	if percents, err := cpu.PercentWithContext(r.Context(), 0, false); err == nil && len(percents) > 0 {
		metrics.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemoryWithContext(r.Context()); err == nil {
		metrics.MemoryPercent = vm.UsedPercent
		metrics.MemoryUsedMB = vm.Used / (1024 * 1024)
	}

	response.JSON(w, r, http.StatusOK, metrics)
}
