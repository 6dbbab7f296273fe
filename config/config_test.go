package config_test

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/jeffleon2/draftea-settlement-service/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryConfig_BackoffDoublesAndCaps(t *testing.T) {
	rc := config.RetryConfig{BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second}

	assert.Equal(t, 100*time.Millisecond, rc.Backoff(0))
	assert.Equal(t, 200*time.Millisecond, rc.Backoff(1))
	assert.Equal(t, 800*time.Millisecond, rc.Backoff(3))
	assert.Equal(t, time.Second, rc.Backoff(4))
}

func TestRetryConfig_BackoffJitterStaysInBand(t *testing.T) {
	rc := config.RetryConfig{BaseDelay: time.Second, MaxDelay: time.Minute, Jitter: true}

	for i := 0; i < 100; i++ {
		d := rc.Backoff(0)
		assert.GreaterOrEqual(t, d, 850*time.Millisecond)
		assert.LessOrEqual(t, d, 1150*time.Millisecond)
	}
}

func TestRetryConfig_WithDefaults(t *testing.T) {
	rc := config.RetryConfig{}.WithDefaults()
	assert.Equal(t, 5, rc.MaxAttempts)
	assert.Equal(t, 100*time.Millisecond, rc.BaseDelay)
	assert.Equal(t, 10*time.Second, rc.MaxDelay)
}

func TestKafka_Lists(t *testing.T) {
	k := config.Kafka{
		Brokers:          "kafka-1:9092, kafka-2:9092",
		PublishTopics:    "settlement.notifications,settlement.dlq,",
		SubscriberTopics: "gateway.events",
	}
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, k.BrokerList())
	assert.Equal(t, []string{"settlement.notifications", "settlement.dlq"}, k.PublishTopicList())
	assert.Equal(t, []string{"gateway.events"}, k.SubscriberTopicList())
}

func TestSettlement_Defaults(t *testing.T) {
	var s config.Settlement
	require.NoError(t, env.Parse(&s))

	assert.Equal(t, "0.80", s.PayoutRatio)
	assert.Equal(t, "WA", s.VoucherPrefix)
	assert.Equal(t, 8760*time.Hour, s.VoucherTTL)
}
