// Package voucher issues and transitions purchase vouchers.
//
// A voucher starts active and moves at most once, to used or no_show. Both
// transitions are compare-and-swap updates on status = 'active', so two
// concurrent redemptions of the same code cannot both succeed. Expiry is not
// stored: an active voucher past its expiry time reads as expired.
package voucher

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/jeffleon2/draftea-settlement-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrDuplicateClaim     = errors.New("buyer already holds a voucher for this offering")
	ErrAlreadyRedeemed    = errors.New("voucher already redeemed")
	ErrExpired            = errors.New("voucher expired")
	ErrNotFound           = errors.New("voucher not found")
	ErrInvalidRequest     = errors.New("owner, offering and recipient are required")
	ErrCodeSpaceExhausted = errors.New("could not generate a unique voucher code")
)

const maxIssueAttempts = 5

type IssueRequest struct {
	OwnerID       string
	OfferingID    string
	RecipientID   string
	TransactionID string
}

type Option func(*Manager)

// WithTTL sets how long an issued voucher stays redeemable. Zero means it
// never expires.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) { m.ttl = ttl }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func WithCodeGenerator(gen func(prefix string) (string, error)) Option {
	return func(m *Manager) { m.generate = gen }
}

type Manager struct {
	db       *gorm.DB
	prefix   string
	pattern  *regexp.Regexp
	ttl      time.Duration
	now      func() time.Time
	generate func(prefix string) (string, error)
}

func NewManager(db *gorm.DB, prefix string, opts ...Option) *Manager {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	prefix = NormalizeCode(prefix)
	m := &Manager{
		db:       db,
		prefix:   prefix,
		pattern:  codePattern(prefix),
		now:      func() time.Time { return time.Now().UTC() },
		generate: GenerateCode,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) WithTx(tx *gorm.DB) *Manager {
	c := *m
	c.db = tx
	return &c
}

// Issue creates an active voucher for a settled purchase.
//
// The owner/offering pair is guarded by a unique claim key, so a second
// voucher for the same pair is refused with ErrDuplicateClaim unless the
// holder has expired, in which case its claim key is released and issuing
// is retried. A clash on the random code is retried with a fresh code.
func (m *Manager) Issue(ctx context.Context, req IssueRequest) (*models.Voucher, error) {
	if req.OwnerID == "" || req.OfferingID == "" || req.RecipientID == "" {
		return nil, ErrInvalidRequest
	}
	db := m.db.WithContext(ctx)
	key := req.OwnerID + "|" + req.OfferingID
	now := m.now()

	var expiresAt *time.Time
	if m.ttl > 0 {
		t := now.Add(m.ttl)
		expiresAt = &t
	}

	for attempt := 0; attempt < maxIssueAttempts; attempt++ {
		code, err := m.generate(m.prefix)
		if err != nil {
			return nil, err
		}

		v := &models.Voucher{
			Code:          code,
			OwnerID:       req.OwnerID,
			OfferingID:    req.OfferingID,
			RecipientID:   req.RecipientID,
			TransactionID: req.TransactionID,
			ClaimKey:      &key,
			Status:        models.VoucherActive,
			ExpiresAt:     expiresAt,
		}
		res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(v)
		if res.Error != nil {
			return nil, fmt.Errorf("insert voucher: %w", res.Error)
		}
		if res.RowsAffected > 0 {
			return v, nil
		}

		var holder models.Voucher
		err = db.Where("claim_key = ?", key).First(&holder).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load claim holder: %w", err)
		}
		if holder.EffectiveStatus(now) != models.VoucherExpired {
			return nil, ErrDuplicateClaim
		}

		if err := db.Model(&models.Voucher{}).
			Where("id = ? AND claim_key = ?", holder.ID, key).
			Update("claim_key", nil).Error; err != nil {
			return nil, fmt.Errorf("release expired claim: %w", err)
		}
	}

	return nil, ErrCodeSpaceExhausted
}

// Redeem marks the voucher used. Codes outside the redeemer's recipient
// scope are reported as not found.
func (m *Manager) Redeem(ctx context.Context, code, redeemerID string) (*models.Voucher, error) {
	db := m.db.WithContext(ctx)
	v, err := m.lookup(db, code)
	if err != nil {
		return nil, err
	}
	if redeemerID == "" || v.RecipientID != redeemerID {
		return nil, ErrNotFound
	}

	now := m.now()
	return m.transition(db, v, now, map[string]interface{}{
		"status":      models.VoucherUsed,
		"redeemed_at": now,
		"redeemed_by": redeemerID,
		"updated_at":  now,
	})
}

// MarkNoShow records that the buyer did not attend.
func (m *Manager) MarkNoShow(ctx context.Context, code string) (*models.Voucher, error) {
	db := m.db.WithContext(ctx)
	v, err := m.lookup(db, code)
	if err != nil {
		return nil, err
	}

	now := m.now()
	return m.transition(db, v, now, map[string]interface{}{
		"status":     models.VoucherNoShow,
		"no_show_at": now,
		"updated_at": now,
	})
}

// Get returns the voucher with its status as of now.
func (m *Manager) Get(ctx context.Context, code string) (*models.Voucher, error) {
	v, err := m.lookup(m.db.WithContext(ctx), code)
	if err != nil {
		return nil, err
	}
	v.Status = v.EffectiveStatus(m.now())
	return v, nil
}

// ExpiredFor reports whether the voucher issued for transactionID has
// expired. A transaction without a voucher reports false.
func (m *Manager) ExpiredFor(ctx context.Context, transactionID string) (bool, error) {
	var v models.Voucher
	err := m.db.WithContext(ctx).Where("transaction_id = ?", transactionID).Order("created_at desc").First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load voucher for %s: %w", transactionID, err)
	}
	return v.EffectiveStatus(m.now()) == models.VoucherExpired, nil
}

// transition moves an active voucher on. The update re-checks status and
// expiry, so a voucher that lapsed after v was read is reported expired.
func (m *Manager) transition(db *gorm.DB, v *models.Voucher, now time.Time, updates map[string]interface{}) (*models.Voucher, error) {
	if err := checkActive(v, now); err != nil {
		return nil, err
	}

	res := db.Model(&models.Voucher{}).
		Where("id = ? AND status = ? AND (expires_at IS NULL OR expires_at >= ?)", v.ID, models.VoucherActive, now).
		Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("update voucher %s: %w", v.ID, res.Error)
	}

	var current models.Voucher
	if err := db.Where("id = ?", v.ID).First(&current).Error; err != nil {
		return nil, fmt.Errorf("reload voucher %s: %w", v.ID, err)
	}
	if res.RowsAffected == 0 {
		if err := checkActive(&current, now); err != nil {
			return nil, err
		}
		return nil, ErrAlreadyRedeemed
	}
	return &current, nil
}

func (m *Manager) lookup(db *gorm.DB, code string) (*models.Voucher, error) {
	code = NormalizeCode(code)
	if !m.pattern.MatchString(code) {
		return nil, ErrNotFound
	}

	var v models.Voucher
	err := db.Where("code = ?", code).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load voucher: %w", err)
	}
	return &v, nil
}

func checkActive(v *models.Voucher, now time.Time) error {
	switch v.EffectiveStatus(now) {
	case models.VoucherActive:
		return nil
	case models.VoucherExpired:
		return ErrExpired
	default:
		return ErrAlreadyRedeemed
	}
}
