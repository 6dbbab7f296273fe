package config

import (
	"math"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func New() (*Config, error) {
	var Config Config
	if os.Getenv("GO_ENV") == "local" {
		_ = godotenv.Load(".env")
	}

	if err := env.Parse(&Config); err != nil {
		logrus.Fatalf("Error initializing: %s", err.Error())
		os.Exit(1)
	}
	return &Config, nil
}

type Config struct {
	APP
	DB
	Kafka
	Settlement
	Gateway
	Redis
}

type DB struct {
	HOST     string `env:"DB_HOST"`
	USER     string `env:"DB_USER"`
	PASSWORD string `env:"DB_PASSWORD"`
	NAME     string `env:"DB_NAME"`
	PORT     string `env:"DB_PORT"`
	SSLMODE  string `env:"DB_SSLMODE"`
}

type APP struct {
	PORT string `env:"APP_PORT" envDefault:"8080"`
	ENV  string `env:"GO_ENV" envDefault:"production"`
}

type Kafka struct {
	Brokers                 string `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`
	SettlementConsumerGroup string `env:"KAFKA_SETTLEMENT_GROUP_ID" envDefault:"settlement-service"`
	PublishTopics           string `env:"KAFKA_PUBLISH_TOPICS" envDefault:"settlement.notifications,settlement.dlq"`
	SubscriberTopics        string `env:"KAFKA_SUBSCRIBER_TOPICS" envDefault:"gateway.events"`

	RetryMaxAttempts int           `env:"KAFKA_RETRY_MAX_ATTEMPTS" envDefault:"5"`
	RetryBaseDelay   time.Duration `env:"KAFKA_RETRY_BASE_DELAY" envDefault:"100ms"`
	RetryMaxDelay    time.Duration `env:"KAFKA_RETRY_MAX_DELAY" envDefault:"10s"`
	RetryJitter      bool          `env:"KAFKA_RETRY_JITTER" envDefault:"true"`
}

// Settlement holds the knobs of the settlement pipeline.
// PayoutRatio is a decimal string so it reaches the split calculator without
// passing through a float.
type Settlement struct {
	WebhookSecret   string        `env:"SETTLEMENT_WEBHOOK_SECRET"`
	PayoutRatio     string        `env:"SETTLEMENT_PAYOUT_RATIO" envDefault:"0.80"`
	PipelineTimeout time.Duration `env:"SETTLEMENT_PIPELINE_TIMEOUT" envDefault:"15s"`
	NotifyTimeout   time.Duration `env:"SETTLEMENT_NOTIFY_TIMEOUT" envDefault:"5s"`
	VoucherPrefix   string        `env:"SETTLEMENT_VOUCHER_PREFIX" envDefault:"WA"`
	VoucherTTL      time.Duration `env:"SETTLEMENT_VOUCHER_TTL" envDefault:"8760h"`
}

type Gateway struct {
	StripeSecretKey string        `env:"STRIPE_SECRET_KEY"`
	Timeout         time.Duration `env:"GATEWAY_TIMEOUT" envDefault:"3s"`
	RetryDelay      time.Duration `env:"GATEWAY_RETRY_DELAY" envDefault:"250ms"`
}

type Redis struct {
	Addr              string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password          string        `env:"REDIS_PASSWORD"`
	DB                int           `env:"REDIS_DB" envDefault:"0"`
	RedeemMaxAttempts int           `env:"REDIS_REDEEM_MAX_ATTEMPTS" envDefault:"10"`
	RedeemWindow      time.Duration `env:"REDIS_REDEEM_WINDOW" envDefault:"1m"`
}

type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Jitter      bool
}

func (k Kafka) GetRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: k.RetryMaxAttempts,
		BaseDelay:   k.RetryBaseDelay,
		MaxDelay:    k.RetryMaxDelay,
		Jitter:      k.RetryJitter,
	}
}

// Backoff is the exponential delay before retry attempt+1, capped at
// MaxDelay, with up to +/-15% jitter when enabled.
func (r RetryConfig) Backoff(attempt int) time.Duration {
	delay := time.Duration(math.Pow(2, float64(attempt))) * r.BaseDelay

	if delay > r.MaxDelay {
		delay = r.MaxDelay
	}

	if r.Jitter {
		jitter := time.Duration(rand.Float64() * float64(delay) * 0.3)
		delay = delay + jitter - time.Duration(float64(delay)*0.15)
	}

	return delay
}

// WithDefaults fills unset retry fields.
func (r RetryConfig) WithDefaults() RetryConfig {
	if r.MaxAttempts == 0 {
		r.MaxAttempts = 5
	}
	if r.BaseDelay == 0 {
		r.BaseDelay = 100 * time.Millisecond
	}
	if r.MaxDelay == 0 {
		r.MaxDelay = 10 * time.Second
	}
	return r
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (k Kafka) BrokerList() []string {
	return splitList(k.Brokers)
}

func (k Kafka) PublishTopicList() []string {
	return splitList(k.PublishTopics)
}

func (k Kafka) SubscriberTopicList() []string {
	return splitList(k.SubscriberTopics)
}
