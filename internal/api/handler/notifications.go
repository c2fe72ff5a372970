package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/smartaircity/smartaircity/internal/api/middleware"
	"github.com/smartaircity/smartaircity/internal/api/models"
	"github.com/smartaircity/smartaircity/internal/api/response"
	"github.com/smartaircity/smartaircity/internal/notify"
	"github.com/smartaircity/smartaircity/internal/user"
)

// defaultSubject is used when a dispatch request carries no subject.
const defaultSubject = "Air quality alert"

// NotificationHandler handles notification dispatch endpoints.
type NotificationHandler struct {
	dispatcher *notify.Dispatcher
	users      *user.Service
	logger     zerolog.Logger
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(dispatcher *notify.Dispatcher, users *user.Service, logger zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{
		dispatcher: dispatcher,
		users:      users,
		logger:     logger.With().Str("component", "notification_handler").Logger(),
	}
}

// SendNotification handles POST /v1/notifications - deliver to one
// recipient.
func (h *NotificationHandler) SendNotification(w http.ResponseWriter, r *http.Request) {
	var input models.SendNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if strings.TrimSpace(input.Recipient) == "" {
		response.BadRequest(w, r, "recipient is required", []models.FieldError{
			{Field: "recipient", Message: "required", Code: "REQUIRED"},
		})
		return
	}

	subject := input.Subject
	if subject == "" {
		subject = defaultSubject
	}

	confirmation, err := h.dispatcher.Send(r.Context(), input.Recipient, subject, input.Message)
	if err != nil {
		if errors.Is(err, notify.ErrEmptyMessage) {
			response.BadRequest(w, r, "message must not be empty", []models.FieldError{
				{Field: "message", Message: "must not be empty", Code: "REQUIRED"},
			})
			return
		}
		h.logger.Error().Err(err).Str("recipient", input.Recipient).Msg("Delivery failed")
		response.BadGateway(w, r, "delivery failed: "+err.Error())
		return
	}

	response.JSON(w, r, http.StatusOK, models.SendNotificationResponse{
		Recipient:    input.Recipient,
		Confirmation: confirmation,
	})
}

// Broadcast handles POST /v1/notifications/broadcast - deliver to many
// recipients concurrently. An empty recipient list targets all active
// accounts. Partial failure returns 502 with per-recipient results so
// the operator can see exactly who missed the alert.
func (h *NotificationHandler) Broadcast(w http.ResponseWriter, r *http.Request) {
	var input models.BroadcastRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if strings.TrimSpace(input.Message) == "" {
		response.BadRequest(w, r, "message must not be empty", []models.FieldError{
			{Field: "message", Message: "must not be empty", Code: "REQUIRED"},
		})
		return
	}

	recipients := input.Recipients
	if len(recipients) == 0 {
		active, err := h.users.ActiveRecipients(r.Context())
		if err != nil {
			response.InternalError(w, r, "failed to resolve recipients")
			return
		}
		recipients = active
	}
	if len(recipients) == 0 {
		response.BadRequest(w, r, "no recipients to notify", nil)
		return
	}

	subject := input.Subject
	if subject == "" {
		subject = defaultSubject
	}

	batch, err := h.dispatcher.SendBatch(r.Context(), recipients, subject, input.Message)
	if err != nil {
		if errors.Is(err, notify.ErrEmptyMessage) {
			response.BadRequest(w, r, "message must not be empty", nil)
			return
		}
		response.InternalError(w, r, "dispatch failed")
		return
	}

	resp := models.BroadcastFromBatch(batch)
	if batch.Failed > 0 {
		h.logger.Warn().
			Int("succeeded", batch.Succeeded).
			Int("failed", batch.Failed).
			Strs("failed_recipients", batch.FailedRecipients()).
			Msg("Broadcast partially failed")

		traceID := middleware.GetRequestID(r.Context())
		problem := models.NewBadGateway(traceID,
			fmt.Sprintf("%d of %d deliveries failed", batch.Failed, len(recipients)))
		problem.Instance = r.URL.Path

		w.Header().Set("Content-Type", "application/problem+json")
		w.Header().Set("X-Request-Id", traceID)
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(struct {
			*models.Problem
			Results []models.DeliveryResult `json:"results"`
		}{Problem: problem, Results: resp.Results})
		return
	}

	response.JSON(w, r, http.StatusOK, resp)
}
