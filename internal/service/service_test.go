package service_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/jeffleon2/draftea-settlement-service/internal/database/dbtest"
	"github.com/jeffleon2/draftea-settlement-service/internal/models"
	"github.com/jeffleon2/draftea-settlement-service/internal/service"
	"github.com/jeffleon2/draftea-settlement-service/internal/service/mocks"
	"github.com/jeffleon2/draftea-settlement-service/internal/split"
	"github.com/jeffleon2/draftea-settlement-service/internal/voucher"
	"github.com/jeffleon2/draftea-settlement-service/internal/webhook"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "whsec_test"

type fixture struct {
	db         *gorm.DB
	stores     *service.Stores
	publisher  *mocks.MockPublisher
	fetcher    *mocks.MockMetadataFetcher
	notifier   *service.AsyncNotifier
	dispatcher *service.Dispatcher
}

func newFixture(t *testing.T, voucherOpts ...voucher.Option) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	stores := service.NewStores(db, voucher.DefaultPrefix, voucherOpts...)
	publisher := mocks.NewMockPublisher(t)
	fetcher := mocks.NewMockMetadataFetcher(t)
	notifier := service.NewAsyncNotifier(publisher, time.Second)

	return &fixture{
		db:        db,
		stores:    stores,
		publisher: publisher,
		fetcher:   fetcher,
		notifier:  notifier,
		dispatcher: service.NewDispatcher(stores, notifier, fetcher, service.Settings{
			WebhookSecret: testSecret,
			PayoutRatio:   split.DefaultPayoutRatio,
		}),
	}
}

// outbox records notifications handed to the publisher.
type outbox struct {
	mu    sync.Mutex
	items []models.NotificationRequested
}

func (f *fixture) expectNotifications() *outbox {
	box := &outbox{}
	f.publisher.EXPECT().
		Publish(mock.Anything, models.NotificationsTopic, mock.Anything).
		Run(func(_ context.Context, _ string, message interface{}) {
			box.mu.Lock()
			defer box.mu.Unlock()
			box.items = append(box.items, message.(models.NotificationRequested))
		}).
		Return(nil)
	return box
}

func (b *outbox) kinds() []models.NotificationKind {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.NotificationKind, 0, len(b.items))
	for _, n := range b.items {
		out = append(out, n.Kind)
	}
	return out
}

func checkoutEvent(id string) models.PaymentEvent {
	return models.PaymentEvent{
		SchemaVersion: models.CurrentSchemaVersion,
		EventID:       id,
		EventType:     models.EventCheckoutCompleted,
		OccurredAt:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Metadata: models.EventMetadata{
			TransactionID:   "txn_" + id,
			PaymentIntentID: "pi_" + id,
			BuyerID:         "buyer_1",
			OfferingID:      "offering_1",
			RecipientID:     "recipient_1",
			BasePrice:       10000,
		},
	}
}

func signed(t *testing.T, evt models.PaymentEvent) ([]byte, string) {
	t.Helper()
	raw, err := json.Marshal(evt)
	require.NoError(t, err)
	return raw, webhook.Sign(raw, testSecret)
}

func count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func boolPtr(b bool) *bool { return &b }

func seedSponsorship(t *testing.T, db *gorm.DB, totalSeats, usedSeats int, totalCredits, usedCredits int64) {
	t.Helper()
	require.NoError(t, db.Create(&models.SponsorshipPool{
		ID:         "pool_1",
		SponsorID:  "sponsor_1",
		OfferingID: "offering_1",
		TotalSeats: totalSeats,
		UsedSeats:  usedSeats,
		IsActive:   true,
	}).Error)
	require.NoError(t, db.Create(&models.SponsorCredit{
		ID:           "credit_1",
		SponsorID:    "sponsor_1",
		TotalCredits: totalCredits,
		UsedCredits:  usedCredits,
	}).Error)
}

func sponsored(evt models.PaymentEvent, contribution int64) models.PaymentEvent {
	evt.Metadata.SponsorshipPoolID = "pool_1"
	evt.Metadata.SponsorCreditID = "credit_1"
	evt.Metadata.SponsorContribution = contribution
	return evt
}

func signWith(raw []byte) string { return webhook.Sign(raw, testSecret) }
