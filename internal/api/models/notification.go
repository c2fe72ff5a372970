package models

import (
	"github.com/smartaircity/smartaircity/internal/notify"
)

// SendNotificationRequest is the request body for a single delivery.
type SendNotificationRequest struct {
	Recipient string `json:"recipient" validate:"required,email"`
	Subject   string `json:"subject,omitempty"`
	Message   string `json:"message" validate:"required"`
}

// SendNotificationResponse confirms a single delivery.
type SendNotificationResponse struct {
	Recipient    string `json:"recipient"`
	Confirmation string `json:"confirmation"`
}

// BroadcastRequest is the request body for a bulk delivery. When
// Recipients is empty the dispatch goes to all active accounts.
type BroadcastRequest struct {
	Recipients []string `json:"recipients,omitempty"`
	Subject    string   `json:"subject,omitempty"`
	Message    string   `json:"message" validate:"required"`
}

// DeliveryResult reports the outcome for one recipient in a batch.
type DeliveryResult struct {
	Recipient    string `json:"recipient"`
	Delivered    bool   `json:"delivered"`
	Confirmation string `json:"confirmation,omitempty"`
	Error        string `json:"error,omitempty"`
}

// BroadcastResponse reports per-recipient outcomes for a bulk delivery.
type BroadcastResponse struct {
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Results   []DeliveryResult `json:"results"`
}

// BroadcastFromBatch converts a dispatch batch to its API shape.
func BroadcastFromBatch(batch *notify.BatchResult) BroadcastResponse {
	results := make([]DeliveryResult, 0, len(batch.Results))
	for _, r := range batch.Results {
		result := DeliveryResult{
			Recipient:    r.Recipient,
			Delivered:    r.Err == nil,
			Confirmation: r.Confirmation,
		}
		if r.Err != nil {
			result.Error = r.Err.Error()
		}
		results = append(results, result)
	}
	return BroadcastResponse{
		Succeeded: batch.Succeeded,
		Failed:    batch.Failed,
		Results:   results,
	}
}
