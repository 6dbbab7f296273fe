package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jeffleon2/draftea-settlement-service/config"
	"github.com/jeffleon2/draftea-settlement-service/internal/database"
	"github.com/jeffleon2/draftea-settlement-service/internal/gateway"
	"github.com/jeffleon2/draftea-settlement-service/internal/handler"
	"github.com/jeffleon2/draftea-settlement-service/internal/metrics"
	"github.com/jeffleon2/draftea-settlement-service/internal/publisher"
	"github.com/jeffleon2/draftea-settlement-service/internal/ratelimit"
	"github.com/jeffleon2/draftea-settlement-service/internal/service"
	"github.com/jeffleon2/draftea-settlement-service/internal/subscriber"
	"github.com/jeffleon2/draftea-settlement-service/internal/voucher"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config    *config.Config
	Router    *gin.Engine
	publisher *publisher.KafkaPublisher
	consumer  *subscriber.KafkaConsumer
	notifier  *service.AsyncNotifier
	redis     *redis.Client
	webhook   *handler.WebhookHandler
}

type handlers struct {
	webhook *handler.WebhookHandler
	voucher *handler.VoucherHandler
	seats   *handler.SeatHandler
	ledger  *handler.LedgerHandler
}

func (a *App) Initialize(cfg *config.Config) {
	a.config = cfg

	db, err := cfg.DB.GormConnect()
	if err != nil {
		logrus.Fatalf("failed to connect to database: %s", err.Error())
	}
	if err := database.Migrate(db); err != nil {
		logrus.Fatalf("failed to auto migrate: %s", err.Error())
	}
	if cfg.APP.ENV == "local" {
		if err := database.SeedLocal(db); err != nil {
			logrus.Fatalf("failed to seed local data: %s", err.Error())
		}
	}

	ratio, err := decimal.NewFromString(cfg.Settlement.PayoutRatio)
	if err != nil {
		logrus.Fatalf("invalid SETTLEMENT_PAYOUT_RATIO %q: %s", cfg.Settlement.PayoutRatio, err.Error())
	}
	if cfg.Settlement.WebhookSecret == "" {
		logrus.Warn("SETTLEMENT_WEBHOOK_SECRET is empty, every delivery will be rejected")
	}

	retryConfig := cfg.Kafka.GetRetryConfig()
	a.publisher = publisher.NewKafkaPublisher(cfg.Kafka.BrokerList(), cfg.Kafka.PublishTopicList(), retryConfig)
	a.notifier = service.NewAsyncNotifier(a.publisher, cfg.Settlement.NotifyTimeout)

	var fetcher service.MetadataFetcher
	if cfg.Gateway.StripeSecretKey != "" {
		fetcher = gateway.NewFetcher(gateway.NewStripeSource(cfg.Gateway.StripeSecretKey), cfg.Gateway.Timeout, cfg.Gateway.RetryDelay)
	} else {
		logrus.Warn("STRIPE_SECRET_KEY is empty, gateway metadata re-fetch is disabled")
	}

	stores := service.NewStores(db, cfg.Settlement.VoucherPrefix, voucher.WithTTL(cfg.Settlement.VoucherTTL))
	dispatcher := service.NewDispatcher(stores, a.notifier, fetcher, service.Settings{
		WebhookSecret:   cfg.Settlement.WebhookSecret,
		PayoutRatio:     ratio,
		PipelineTimeout: cfg.Settlement.PipelineTimeout,
	})

	a.redis = redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	limiter := ratelimit.NewLimiter(a.redis, "redeem", cfg.Redis.RedeemMaxAttempts, cfg.Redis.RedeemWindow)

	h := handlers{
		webhook: handler.NewWebhookHandler(dispatcher),
		voucher: handler.NewVoucherHandler(service.NewVoucherService(stores, a.notifier), limiter),
		seats:   handler.NewSeatHandler(service.NewSeatService(stores)),
		ledger:  handler.NewLedgerHandler(stores.Ledger, stores.Transactions),
	}
	a.webhook = h.webhook

	metrics.RegisterMetrics()
	a.Router = gin.Default()
	a.Router.Use(gin.Recovery())
	a.RegisterRoutes(h)

	a.consumer = subscriber.NewMultiTopicConsumer(
		cfg.Kafka.BrokerList(),
		cfg.Kafka.SubscriberTopicList(),
		cfg.Kafka.SettlementConsumerGroup,
		a.publisher,
		retryConfig,
	)
}

// Run serves HTTP and consumes relayed events until ctx is cancelled, then
// stops intake and drains pending notifications.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.consumer.Listen(ctx, a.webhook.HandleMessage)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", a.config.APP.PORT),
		Handler: a.Router,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("Settlement service listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	logrus.Info("Shutting down settlement service")
	cancel()
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Error shutting down HTTP server: %s", err.Error())
	}
	a.consumer.Wait()
	if err := a.consumer.Close(); err != nil {
		logrus.Errorf("Error closing consumer: %s", err.Error())
	}
	a.notifier.Wait()
	if err := a.publisher.Close(); err != nil {
		logrus.Errorf("Error closing publisher: %s", err.Error())
	}
	if err := a.redis.Close(); err != nil {
		logrus.Errorf("Error closing redis client: %s", err.Error())
	}
	return runErr
}
