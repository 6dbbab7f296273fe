package publisher_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jeffleon2/draftea-settlement-service/config"
	"github.com/jeffleon2/draftea-settlement-service/internal/models"
	"github.com/jeffleon2/draftea-settlement-service/internal/publisher"
	kafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu       sync.Mutex
	failures int
	written  []kafka.Message
	calls    int
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls++
	if w.failures > 0 {
		w.failures--
		return errors.New("leader not available")
	}
	w.written = append(w.written, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func newPublisher(w *fakeWriter, attempts int) *publisher.KafkaPublisher {
	return &publisher.KafkaPublisher{
		Writers: map[string]publisher.MessageWriter{models.NotificationsTopic: w},
		RetryConfig: config.RetryConfig{
			MaxAttempts: attempts,
			BaseDelay:   time.Millisecond,
			MaxDelay:    5 * time.Millisecond,
		},
	}
}

func TestPublish_KeysAndEncodesMessage(t *testing.T) {
	w := &fakeWriter{}
	p := newPublisher(w, 3)

	err := p.Publish(context.Background(), models.NotificationsTopic, models.NotificationRequested{
		Kind:        models.NotifyPurchaseConfirmed,
		RecipientID: "buyer_1",
	})
	require.NoError(t, err)
	require.Len(t, w.written, 1)
	assert.Equal(t, "buyer_1", string(w.written[0].Key))

	var got models.NotificationRequested
	require.NoError(t, json.Unmarshal(w.written[0].Value, &got))
	assert.Equal(t, models.NotifyPurchaseConfirmed, got.Kind)
}

func TestPublish_RetriesTransientFailures(t *testing.T) {
	w := &fakeWriter{failures: 2}
	p := newPublisher(w, 3)

	err := p.Publish(context.Background(), models.NotificationsTopic, map[string]string{"a": "b"})
	require.NoError(t, err)
	assert.Equal(t, 3, w.calls)
	assert.Len(t, w.written, 1)
}

func TestPublish_GivesUpAfterMaxAttempts(t *testing.T) {
	w := &fakeWriter{failures: 10}
	p := newPublisher(w, 3)

	err := p.Publish(context.Background(), models.NotificationsTopic, map[string]string{"a": "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Equal(t, 3, w.calls)
}

func TestPublish_UnknownTopic(t *testing.T) {
	p := newPublisher(&fakeWriter{}, 1)

	err := p.Publish(context.Background(), "unknown.topic", "x")
	assert.ErrorContains(t, err, "no writer configured")
}

func TestPublish_StopsRetryingWhenContextEnds(t *testing.T) {
	w := &fakeWriter{failures: 10}
	p := newPublisher(w, 5)
	p.RetryConfig.BaseDelay = time.Hour
	p.RetryConfig.MaxDelay = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := p.Publish(ctx, models.NotificationsTopic, "x")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, w.calls)
}

func TestClose_ClosesWriters(t *testing.T) {
	w := &fakeWriter{}
	p := newPublisher(w, 1)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}
