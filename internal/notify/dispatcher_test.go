package notify_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartaircity/smartaircity/internal/notify"
)

// mockMailer records deliveries and fails configured recipients.
type mockMailer struct {
	mu           sync.Mutex
	sent         []string
	confirmation string
	failFor      map[string]error
}

func (m *mockMailer) Send(_ context.Context, to, _, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.failFor[to]; ok {
		return "", err
	}
	m.sent = append(m.sent, to)
	return m.confirmation, nil
}

func (m *mockMailer) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func newDispatcher(mailer notify.Mailer) *notify.Dispatcher {
	return notify.NewDispatcher(notify.DispatcherConfig{
		Mailer: mailer,
		Logger: zerolog.New(io.Discard),
	})
}

func TestDispatcher_Send(t *testing.T) {
	mailer := &mockMailer{confirmation: "queued as msg-42"}
	d := newDispatcher(mailer)

	confirmation, err := d.Send(context.Background(), "ha@example.com", "Alert", "body")
	require.NoError(t, err)

	// The service's own confirmation wins when provided.
	assert.Equal(t, "queued as msg-42", confirmation)
}

func TestDispatcher_Send_DefaultConfirmation(t *testing.T) {
	d := newDispatcher(&mockMailer{})

	confirmation, err := d.Send(context.Background(), "ha@example.com", "Alert", "body")
	require.NoError(t, err)
	assert.Equal(t, "Message sent to ha@example.com", confirmation)
}

func TestDispatcher_Send_EmptyBodyNeverDispatches(t *testing.T) {
	mailer := &mockMailer{}
	d := newDispatcher(mailer)

	for _, body := range []string{"", "   ", "\n\t "} {
		_, err := d.Send(context.Background(), "ha@example.com", "Alert", body)
		assert.ErrorIs(t, err, notify.ErrEmptyMessage)
	}
	assert.Equal(t, 0, mailer.sentCount())
}

func TestDispatcher_SendBatch_AllSucceed(t *testing.T) {
	mailer := &mockMailer{}
	d := newDispatcher(mailer)

	recipients := []string{"a@example.com", "b@example.com", "c@example.com"}
	batch, err := d.SendBatch(context.Background(), recipients, "Alert", "body")
	require.NoError(t, err)

	assert.True(t, batch.AllSucceeded())
	assert.Equal(t, 3, batch.Succeeded)
	assert.Equal(t, 0, batch.Failed)
	assert.Equal(t, 3, mailer.sentCount())

	// Results preserve request order.
	for i, r := range batch.Results {
		assert.Equal(t, recipients[i], r.Recipient)
		assert.NoError(t, r.Err)
		assert.NotEmpty(t, r.Confirmation)
	}
}

func TestDispatcher_SendBatch_PartialFailureIsReported(t *testing.T) {
	mailer := &mockMailer{
		failFor: map[string]error{"b@example.com": errors.New("mailbox full")},
	}
	d := newDispatcher(mailer)

	recipients := []string{"a@example.com", "b@example.com", "c@example.com"}
	batch, err := d.SendBatch(context.Background(), recipients, "Alert", "body")
	require.NoError(t, err)

	// The failing sibling aborts nothing; the other two complete and
	// the caller sees exactly who failed.
	assert.False(t, batch.AllSucceeded())
	assert.Equal(t, 2, batch.Succeeded)
	assert.Equal(t, 1, batch.Failed)
	assert.Equal(t, []string{"b@example.com"}, batch.FailedRecipients())
	assert.Equal(t, 2, mailer.sentCount())

	require.Error(t, batch.Results[1].Err)
	assert.Contains(t, batch.Results[1].Err.Error(), "mailbox full")
}

func TestDispatcher_SendBatch_EmptyBodyNeverDispatches(t *testing.T) {
	mailer := &mockMailer{}
	d := newDispatcher(mailer)

	_, err := d.SendBatch(context.Background(), []string{"a@example.com"}, "Alert", "  \t ")
	assert.ErrorIs(t, err, notify.ErrEmptyMessage)
	assert.Equal(t, 0, mailer.sentCount())
}

func TestDispatcher_SendBatch_NoRecipients(t *testing.T) {
	d := newDispatcher(&mockMailer{})

	_, err := d.SendBatch(context.Background(), nil, "Alert", "body")
	assert.ErrorIs(t, err, notify.ErrNoRecipients)
}
