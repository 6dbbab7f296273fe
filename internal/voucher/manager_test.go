package voucher_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jeffleon2/draftea-settlement-service/internal/database/dbtest"
	"github.com/jeffleon2/draftea-settlement-service/internal/models"
	"github.com/jeffleon2/draftea-settlement-service/internal/voucher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newManager(t *testing.T, opts ...voucher.Option) (*voucher.Manager, *gorm.DB, *clock) {
	t.Helper()
	db := dbtest.Open(t)
	clk := &clock{now: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)}
	opts = append([]voucher.Option{voucher.WithClock(clk.Now)}, opts...)
	return voucher.NewManager(db, "WA", opts...), db, clk
}

var purchase = voucher.IssueRequest{
	OwnerID:       "buyer-1",
	OfferingID:    "offering-1",
	RecipientID:   "recipient-1",
	TransactionID: "tx-1",
}

func TestIssue_Active(t *testing.T) {
	m, _, _ := newManager(t)

	v, err := m.Issue(context.Background(), purchase)

	require.NoError(t, err)
	assert.Equal(t, models.VoucherActive, v.Status)
	assert.True(t, strings.HasPrefix(v.Code, "WA-"))
	assert.Nil(t, v.ExpiresAt)
}

func TestIssue_InvalidRequest(t *testing.T) {
	m, _, _ := newManager(t)

	_, err := m.Issue(context.Background(), voucher.IssueRequest{OwnerID: "buyer-1"})

	assert.ErrorIs(t, err, voucher.ErrInvalidRequest)
}

func TestIssue_DuplicateClaim(t *testing.T) {
	m, _, _ := newManager(t)
	ctx := context.Background()

	_, err := m.Issue(ctx, purchase)
	require.NoError(t, err)

	_, err = m.Issue(ctx, purchase)
	assert.ErrorIs(t, err, voucher.ErrDuplicateClaim)
}

func TestIssue_DuplicateClaimAfterRedeem(t *testing.T) {
	m, _, _ := newManager(t)
	ctx := context.Background()

	v, err := m.Issue(ctx, purchase)
	require.NoError(t, err)
	_, err = m.Redeem(ctx, v.Code, "recipient-1")
	require.NoError(t, err)

	_, err = m.Issue(ctx, purchase)
	assert.ErrorIs(t, err, voucher.ErrDuplicateClaim)
}

func TestIssue_AllowedAfterExpiry(t *testing.T) {
	m, _, clk := newManager(t, voucher.WithTTL(24*time.Hour))
	ctx := context.Background()

	old, err := m.Issue(ctx, purchase)
	require.NoError(t, err)
	require.NotNil(t, old.ExpiresAt)

	clk.Advance(25 * time.Hour)

	fresh, err := m.Issue(ctx, purchase)
	require.NoError(t, err)
	assert.NotEqual(t, old.Code, fresh.Code)

	got, err := m.Get(ctx, old.Code)
	require.NoError(t, err)
	assert.Equal(t, models.VoucherExpired, got.Status)
}

func TestIssue_RetriesOnCodeCollision(t *testing.T) {
	codes := []string{"WA-AAAA-AAAA", "WA-AAAA-AAAA", "WA-BBBB-BBBB"}
	i := 0
	gen := func(string) (string, error) {
		c := codes[i]
		i++
		return c, nil
	}
	m, _, _ := newManager(t, voucher.WithCodeGenerator(gen))
	ctx := context.Background()

	first, err := m.Issue(ctx, purchase)
	require.NoError(t, err)
	assert.Equal(t, "WA-AAAA-AAAA", first.Code)

	second, err := m.Issue(ctx, voucher.IssueRequest{OwnerID: "buyer-2", OfferingID: "offering-1", RecipientID: "recipient-1"})
	require.NoError(t, err)
	assert.Equal(t, "WA-BBBB-BBBB", second.Code)
}

func TestIssue_GivesUpAfterRepeatedCollisions(t *testing.T) {
	gen := func(string) (string, error) { return "WA-CCCC-CCCC", nil }
	m, _, _ := newManager(t, voucher.WithCodeGenerator(gen))
	ctx := context.Background()

	_, err := m.Issue(ctx, purchase)
	require.NoError(t, err)

	_, err = m.Issue(ctx, voucher.IssueRequest{OwnerID: "buyer-2", OfferingID: "offering-1", RecipientID: "recipient-1"})
	assert.ErrorIs(t, err, voucher.ErrCodeSpaceExhausted)
}

func TestRedeem_Success(t *testing.T) {
	m, _, _ := newManager(t)
	ctx := context.Background()
	v, err := m.Issue(ctx, purchase)
	require.NoError(t, err)

	used, err := m.Redeem(ctx, strings.ToLower(v.Code), "recipient-1")

	require.NoError(t, err)
	assert.Equal(t, models.VoucherUsed, used.Status)
	require.NotNil(t, used.RedeemedBy)
	assert.Equal(t, "recipient-1", *used.RedeemedBy)
	assert.NotNil(t, used.RedeemedAt)
}

func TestRedeem_Twice(t *testing.T) {
	m, _, _ := newManager(t)
	ctx := context.Background()
	v, err := m.Issue(ctx, purchase)
	require.NoError(t, err)

	_, err = m.Redeem(ctx, v.Code, "recipient-1")
	require.NoError(t, err)

	_, err = m.Redeem(ctx, v.Code, "recipient-1")
	assert.ErrorIs(t, err, voucher.ErrAlreadyRedeemed)
}

func TestRedeem_OutsideScopeIsNotFound(t *testing.T) {
	m, _, _ := newManager(t)
	ctx := context.Background()
	v, err := m.Issue(ctx, purchase)
	require.NoError(t, err)

	_, err = m.Redeem(ctx, v.Code, "recipient-2")
	assert.ErrorIs(t, err, voucher.ErrNotFound)

	got, err := m.Get(ctx, v.Code)
	require.NoError(t, err)
	assert.Equal(t, models.VoucherActive, got.Status)
}

func TestRedeem_UnknownAndMalformedCodes(t *testing.T) {
	m, _, _ := newManager(t)
	ctx := context.Background()

	_, err := m.Redeem(ctx, "WA-ZZZZ-ZZZZ", "recipient-1")
	assert.ErrorIs(t, err, voucher.ErrNotFound)

	_, err = m.Redeem(ctx, "not-a-code", "recipient-1")
	assert.ErrorIs(t, err, voucher.ErrNotFound)
}

func TestRedeem_Expired(t *testing.T) {
	m, _, clk := newManager(t, voucher.WithTTL(time.Hour))
	ctx := context.Background()
	v, err := m.Issue(ctx, purchase)
	require.NoError(t, err)

	clk.Advance(2 * time.Hour)

	_, err = m.Redeem(ctx, v.Code, "recipient-1")
	assert.ErrorIs(t, err, voucher.ErrExpired)
}

func TestRedeem_AtExpiryInstant(t *testing.T) {
	m, _, clk := newManager(t, voucher.WithTTL(time.Hour))
	ctx := context.Background()
	v, err := m.Issue(ctx, purchase)
	require.NoError(t, err)

	clk.Advance(time.Hour)

	used, err := m.Redeem(ctx, v.Code, "recipient-1")
	require.NoError(t, err)
	assert.Equal(t, models.VoucherUsed, used.Status)
}

func TestExpiredFor(t *testing.T) {
	m, _, clk := newManager(t, voucher.WithTTL(time.Hour))
	ctx := context.Background()
	_, err := m.Issue(ctx, purchase)
	require.NoError(t, err)

	expired, err := m.ExpiredFor(ctx, "tx-1")
	require.NoError(t, err)
	assert.False(t, expired)

	clk.Advance(time.Hour + time.Second)

	expired, err = m.ExpiredFor(ctx, "tx-1")
	require.NoError(t, err)
	assert.True(t, expired)

	expired, err = m.ExpiredFor(ctx, "tx-unknown")
	require.NoError(t, err)
	assert.False(t, expired)
}

func TestRedeem_AfterNoShow(t *testing.T) {
	m, _, _ := newManager(t)
	ctx := context.Background()
	v, err := m.Issue(ctx, purchase)
	require.NoError(t, err)

	_, err = m.MarkNoShow(ctx, v.Code)
	require.NoError(t, err)

	_, err = m.Redeem(ctx, v.Code, "recipient-1")
	assert.ErrorIs(t, err, voucher.ErrAlreadyRedeemed)
}

func TestMarkNoShow_Success(t *testing.T) {
	m, _, _ := newManager(t)
	ctx := context.Background()
	v, err := m.Issue(ctx, purchase)
	require.NoError(t, err)

	ns, err := m.MarkNoShow(ctx, v.Code)

	require.NoError(t, err)
	assert.Equal(t, models.VoucherNoShow, ns.Status)
	assert.NotNil(t, ns.NoShowAt)
}

func TestMarkNoShow_AfterRedeem(t *testing.T) {
	m, _, _ := newManager(t)
	ctx := context.Background()
	v, err := m.Issue(ctx, purchase)
	require.NoError(t, err)
	_, err = m.Redeem(ctx, v.Code, "recipient-1")
	require.NoError(t, err)

	_, err = m.MarkNoShow(ctx, v.Code)
	assert.ErrorIs(t, err, voucher.ErrAlreadyRedeemed)
}

func TestRedeem_ConcurrentRedemptionsSucceedOnce(t *testing.T) {
	m, _, _ := newManager(t)
	ctx := context.Background()
	v, err := m.Issue(ctx, purchase)
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins, losses := 0, 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Redeem(ctx, v.Code, "recipient-1")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				wins++
				return
			}
			assert.ErrorIs(t, err, voucher.ErrAlreadyRedeemed)
			losses++
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, 9, losses)
}
