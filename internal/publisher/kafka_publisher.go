package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jeffleon2/draftea-settlement-service/config"
	kafka "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// MessageWriter is the part of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// keyed messages set the Kafka message key.
type keyed interface {
	MessageKey() string
}

type KafkaPublisher struct {
	Writers     map[string]MessageWriter
	RetryConfig config.RetryConfig
}

func NewKafkaPublisher(brokers []string, topics []string, retryConfig config.RetryConfig) *KafkaPublisher {
	writers := make(map[string]MessageWriter, len(topics))
	for _, t := range topics {
		writers[t] = &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        t,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		}
	}

	return &KafkaPublisher{
		Writers:     writers,
		RetryConfig: retryConfig.WithDefaults(),
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, topic string, message interface{}) error {
	writer, ok := p.Writers[topic]
	if !ok {
		return fmt.Errorf("error no writer configured for topic %s", topic)
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("error marshaling message: %w", err)
	}

	msg := kafka.Message{
		Value: data,
		Time:  time.Now().UTC(),
	}
	if k, ok := message.(keyed); ok {
		msg.Key = []byte(k.MessageKey())
	}

	return p.publishWithRetry(ctx, writer, msg, topic)
}

func (p *KafkaPublisher) publishWithRetry(ctx context.Context, writer MessageWriter, msg kafka.Message, topic string) error {
	var lastErr error
	log := logrus.WithField("topic", topic)

	for attempt := 0; attempt < p.RetryConfig.MaxAttempts; attempt++ {
		err := writer.WriteMessages(ctx, msg)
		if err == nil {
			if attempt > 0 {
				log.Infof("Message published after %d attempts", attempt+1)
			}
			return nil
		}

		lastErr = err

		if attempt == p.RetryConfig.MaxAttempts-1 {
			break
		}

		delay := p.RetryConfig.Backoff(attempt)
		log.Warnf("Publish retry %d/%d after %v: %s", attempt+1, p.RetryConfig.MaxAttempts, delay, err.Error())

		select {
		case <-time.After(delay):
			continue
		case <-ctx.Done():
			return fmt.Errorf("context cancelled during retry: %w", ctx.Err())
		}
	}

	return fmt.Errorf("failed to publish message to topic '%s' after %d attempts: %w",
		topic, p.RetryConfig.MaxAttempts, lastErr)
}

// Close flushes and closes every writer.
func (p *KafkaPublisher) Close() error {
	var firstErr error
	for topic, w := range p.Writers {
		if err := w.Close(); err != nil {
			logrus.WithField("topic", topic).Errorf("Error closing writer: %s", err.Error())
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
