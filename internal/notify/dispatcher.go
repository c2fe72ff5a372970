package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Dispatcher errors.
var (
	// ErrEmptyMessage is returned before any delivery is attempted when
	// the message body is empty or whitespace-only.
	ErrEmptyMessage = errors.New("message body is empty")

	// ErrNoRecipients is returned when a batch has nobody to deliver to.
	ErrNoRecipients = errors.New("no recipients")
)

// Mailer delivers one message to one address. A successful delivery
// may carry the service's own confirmation text.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) (confirmation string, err error)
}

// DispatcherConfig holds configuration for the dispatcher.
type DispatcherConfig struct {
	// Mailer performs the actual deliveries.
	Mailer Mailer

	// Logger for dispatch operations.
	Logger zerolog.Logger
}

// Dispatcher sends composed messages to one or many recipients.
type Dispatcher struct {
	mailer Mailer
	logger zerolog.Logger
}

// NewDispatcher creates a new dispatcher.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	return &Dispatcher{
		mailer: cfg.Mailer,
		logger: cfg.Logger,
	}
}

// DeliveryResult is the outcome of one delivery attempt.
type DeliveryResult struct {
	// Recipient is the destination address.
	Recipient string

	// Confirmation is the delivery confirmation text on success.
	Confirmation string

	// Err is the delivery error, nil on success.
	Err error
}

// BatchResult collects per-recipient outcomes of a batch dispatch.
// Results preserve the recipient order of the request.
type BatchResult struct {
	Results   []DeliveryResult
	Succeeded int
	Failed    int
}

// AllSucceeded reports whether every delivery in the batch succeeded.
func (b *BatchResult) AllSucceeded() bool {
	return b.Failed == 0 && len(b.Results) > 0
}

// FailedRecipients returns the addresses whose delivery failed.
func (b *BatchResult) FailedRecipients() []string {
	var failed []string
	for _, r := range b.Results {
		if r.Err != nil {
			failed = append(failed, r.Recipient)
		}
	}
	return failed
}

// Send delivers one message to one recipient. The empty-body check
// runs before any network call. On success the service's confirmation
// text is returned, or a default naming the recipient when the service
// provided none.
func (d *Dispatcher) Send(ctx context.Context, to, subject, body string) (string, error) {
	if strings.TrimSpace(body) == "" {
		return "", ErrEmptyMessage
	}

	confirmation, err := d.mailer.Send(ctx, to, subject, body)
	if err != nil {
		d.logger.Error().Err(err).Str("recipient", to).Msg("delivery failed")
		return "", err
	}

	if confirmation == "" {
		confirmation = fmt.Sprintf("Message sent to %s", to)
	}

	d.logger.Info().Str("recipient", to).Msg("message delivered")
	return confirmation, nil
}

// SendBatch delivers one message to every recipient concurrently and
// collects a per-recipient result. A failing delivery never aborts or
// cancels its siblings; every attempt runs to completion and the
// caller gets the full breakdown.
func (d *Dispatcher) SendBatch(ctx context.Context, recipients []string, subject, body string) (*BatchResult, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyMessage
	}
	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}

	batch := &BatchResult{
		Results: make([]DeliveryResult, len(recipients)),
	}

	var wg sync.WaitGroup
	for i, to := range recipients {
		wg.Add(1)
		go func(i int, to string) {
			defer wg.Done()

			confirmation, err := d.mailer.Send(ctx, to, subject, body)
			if err == nil && confirmation == "" {
				confirmation = fmt.Sprintf("Message sent to %s", to)
			}
			batch.Results[i] = DeliveryResult{
				Recipient:    to,
				Confirmation: confirmation,
				Err:          err,
			}
		}(i, to)
	}
	wg.Wait()

	for _, r := range batch.Results {
		if r.Err != nil {
			batch.Failed++
		} else {
			batch.Succeeded++
		}
	}

	d.logger.Info().
		Int("recipients", len(recipients)).
		Int("succeeded", batch.Succeeded).
		Int("failed", batch.Failed).
		Msg("batch dispatch completed")

	return batch, nil
}
