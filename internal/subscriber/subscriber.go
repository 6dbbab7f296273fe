package subscriber

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jeffleon2/draftea-settlement-service/config"
	"github.com/jeffleon2/draftea-settlement-service/internal/models"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// Handler processes one message. Returning nil commits it.
type Handler func(ctx context.Context, msg kafka.Message) error

// MessageReader is the part of *kafka.Reader the consumer uses.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher sends messages that exhausted their retries to the DLQ topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, message interface{}) error
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying. The message goes to the DLQ on
// the first failure.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}

type KafkaConsumer struct {
	Readers      []MessageReader
	DLQPublisher Publisher
	DLQTopic     string
	RetryConfig  config.RetryConfig
	wg           sync.WaitGroup
}

func NewMultiTopicConsumer(
	brokers []string,
	topics []string,
	groupID string,
	dlq Publisher,
	retryConfig config.RetryConfig,
) *KafkaConsumer {
	readers := make([]MessageReader, len(topics))
	for i, topic := range topics {
		readers[i] = kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			GroupID:  groupID,
			Topic:    topic,
			MinBytes: 1,
			MaxBytes: 10e6,
		})
	}

	return &KafkaConsumer{
		Readers:      readers,
		DLQPublisher: dlq,
		DLQTopic:     models.SettlementDLQTopic,
		RetryConfig:  retryConfig.WithDefaults(),
	}
}

// Listen starts one goroutine per reader and returns. Messages are committed
// only after the handler succeeds or the message is dead-lettered, so a crash
// mid-retry redelivers it. Listening stops when ctx is cancelled.
func (c *KafkaConsumer) Listen(ctx context.Context, handler Handler) {
	for _, reader := range c.Readers {
		c.wg.Add(1)
		go func(r MessageReader) {
			defer c.wg.Done()
			for {
				msg, err := r.FetchMessage(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					logrus.Errorf("Kafka fetch error: %s", err.Error())
					if !sleep(ctx, c.RetryConfig.BaseDelay) {
						return
					}
					continue
				}

				if !c.processMessage(ctx, msg, handler) {
					return
				}
				if err := r.CommitMessages(ctx, msg); err != nil {
					logrus.WithFields(logrus.Fields{
						"topic":  msg.Topic,
						"offset": msg.Offset,
					}).Errorf("Error committing message: %s", err.Error())
				}
			}
		}(reader)
	}
}

// processMessage runs handler with retries and dead-letters the message when
// they run out. It reports false if ctx ended before the message was settled.
func (c *KafkaConsumer) processMessage(ctx context.Context, msg kafka.Message, handler Handler) bool {
	log := logrus.WithFields(logrus.Fields{
		"topic":     msg.Topic,
		"partition": msg.Partition,
		"offset":    msg.Offset,
		"key":       string(msg.Key),
	})

	var lastErr error
	attempts := 0
	for attempt := 0; attempt < c.RetryConfig.MaxAttempts; attempt++ {
		attempts++
		err := handler(ctx, msg)
		if err == nil {
			return true
		}
		lastErr = err

		if IsPermanent(err) {
			log.Warnf("Handler rejected message: %s", err.Error())
			break
		}
		if attempt == c.RetryConfig.MaxAttempts-1 {
			break
		}

		backoff := c.RetryConfig.Backoff(attempt)
		log.Warnf("Handler error, attempt %d/%d: %s. Retrying in %v", attempt+1, c.RetryConfig.MaxAttempts, err.Error(), backoff)
		if !sleep(ctx, backoff) {
			return false
		}
	}

	log.Errorf("Message failed after %d attempts", attempts)
	if c.DLQPublisher == nil {
		return true
	}

	dlqMessage := models.DLQMessage{
		OriginalTopic: msg.Topic,
		Key:           string(msg.Key),
		Value:         string(msg.Value),
		Reason:        lastErr.Error(),
		Timestamp:     time.Now().UTC(),
		Attempts:      attempts,
	}
	if err := c.DLQPublisher.Publish(ctx, c.DLQTopic, dlqMessage); err != nil {
		log.Errorf("Failed to send message to DLQ: %s", err.Error())
		return ctx.Err() == nil
	}
	log.Info("Message sent to DLQ")
	return true
}

// Wait blocks until every reader goroutine has stopped.
func (c *KafkaConsumer) Wait() {
	c.wg.Wait()
}

func (c *KafkaConsumer) Close() error {
	var firstErr error
	for _, r := range c.Readers {
		if err := r.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
