// Package ledger is the append-only record of settlements. Rows are never
// updated or deleted; a correction is a new reversed row pointing at the row
// it cancels. Payout totals are computed from these rows only.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jeffleon2/draftea-settlement-service/internal/models"
	"github.com/jeffleon2/draftea-settlement-service/internal/split"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound     = errors.New("ledger entry not found")
	ErrInvalidEntry = errors.New("invalid ledger entry")
)

const (
	defaultQueryLimit = 500
	maxQueryLimit     = 5000
)

// Idempotency keys. Appending twice with the same key yields one row.
func EventKey(eventID string) string { return "event:" + eventID }
func NoShowKey(voucherID string) string { return "noshow:" + voucherID }
func ReversalKey(entryID string) string { return "reversal:" + entryID }

type Filter struct {
	RecipientID string
	OfferingID  string
	From        *time.Time
	To          *time.Time
	Limit       int
}

// PayoutTotal nets completed rows against their reversals.
type PayoutTotal struct {
	RecipientID     string `json:"recipient_id"`
	RecipientPayout int64  `json:"recipient_payout"`
	PlatformFee     int64  `json:"platform_fee"`
	Entries         int64  `json:"entries"`
}

type Ledger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

func (l *Ledger) WithTx(tx *gorm.DB) *Ledger {
	return &Ledger{db: tx}
}

// Append writes entry unless a row with the same idempotency key exists, in
// which case entry is overwritten with the stored row and created is false.
// The split recorded on the row must balance.
func (l *Ledger) Append(ctx context.Context, entry *models.SettlementLedgerEntry) (bool, error) {
	if err := validate(entry); err != nil {
		return false, err
	}
	db := l.db.WithContext(ctx)

	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "idempotency_key"}},
		DoNothing: true,
	}).Create(entry)
	if res.Error != nil {
		return false, fmt.Errorf("append ledger entry: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	var existing models.SettlementLedgerEntry
	if err := db.Where("idempotency_key = ?", entry.IdempotencyKey).First(&existing).Error; err != nil {
		return false, fmt.Errorf("load existing ledger entry: %w", err)
	}
	*entry = existing
	return false, nil
}

// Reverse appends a reversed copy of the completed entry originalID.
func (l *Ledger) Reverse(ctx context.Context, originalID, notes string) (*models.SettlementLedgerEntry, bool, error) {
	original, err := l.Get(ctx, originalID)
	if err != nil {
		return nil, false, err
	}
	if original.SettlementStatus != models.SettlementCompleted {
		return nil, false, fmt.Errorf("%w: entry %s is %s", ErrInvalidEntry, originalID, original.SettlementStatus)
	}

	reversal := *original
	reversal.ID = ""
	reversal.CreatedAt = time.Time{}
	reversal.IdempotencyKey = ReversalKey(original.ID)
	reversal.SettlementStatus = models.SettlementReversed
	reversal.ReversesEntryID = &original.ID
	reversal.Notes = notes

	created, err := l.Append(ctx, &reversal)
	if err != nil {
		return nil, false, err
	}
	return &reversal, created, nil
}

func (l *Ledger) Get(ctx context.Context, id string) (*models.SettlementLedgerEntry, error) {
	var entry models.SettlementLedgerEntry
	err := l.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load ledger entry %s: %w", id, err)
	}
	return &entry, nil
}

// SettlementForVoucher returns the completed purchase row of a voucher.
func (l *Ledger) SettlementForVoucher(ctx context.Context, voucherID string) (*models.SettlementLedgerEntry, error) {
	var entry models.SettlementLedgerEntry
	err := l.db.WithContext(ctx).
		Where("voucher_id = ? AND settlement_status = ? AND settlement_type <> ?",
			voucherID, models.SettlementCompleted, models.SettlementNoShow).
		Order("created_at ASC").
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load settlement for voucher %s: %w", voucherID, err)
	}
	return &entry, nil
}

// Query exports ledger rows in insertion order.
func (l *Ledger) Query(ctx context.Context, f Filter) ([]models.SettlementLedgerEntry, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	if limit > maxQueryLimit {
		limit = maxQueryLimit
	}

	var entries []models.SettlementLedgerEntry
	err := applyFilter(l.db.WithContext(ctx), f).
		Order("created_at ASC").
		Order("id ASC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("query ledger: %w", err)
	}
	return entries, nil
}

// PayoutSummary totals payouts and fees per recipient.
func (l *Ledger) PayoutSummary(ctx context.Context, f Filter) ([]PayoutTotal, error) {
	var totals []PayoutTotal
	err := applyFilter(l.db.WithContext(ctx).Model(&models.SettlementLedgerEntry{}), f).
		Select(
			"recipient_id, "+
				"SUM(CASE WHEN settlement_status = ? THEN -recipient_payout ELSE recipient_payout END) AS recipient_payout, "+
				"SUM(CASE WHEN settlement_status = ? THEN -platform_fee ELSE platform_fee END) AS platform_fee, "+
				"COUNT(*) AS entries",
			models.SettlementReversed, models.SettlementReversed,
		).
		Group("recipient_id").
		Order("recipient_id").
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("summarise payouts: %w", err)
	}
	return totals, nil
}

func applyFilter(db *gorm.DB, f Filter) *gorm.DB {
	if f.RecipientID != "" {
		db = db.Where("recipient_id = ?", f.RecipientID)
	}
	if f.OfferingID != "" {
		db = db.Where("offering_id = ?", f.OfferingID)
	}
	if f.From != nil {
		db = db.Where("created_at >= ?", f.From.UTC())
	}
	if f.To != nil {
		db = db.Where("created_at < ?", f.To.UTC())
	}
	return db
}

func validate(entry *models.SettlementLedgerEntry) error {
	if entry.IdempotencyKey == "" {
		return fmt.Errorf("%w: idempotency key is required", ErrInvalidEntry)
	}
	if !entry.SettlementType.IsValid() {
		return fmt.Errorf("%w: settlement type %q", ErrInvalidEntry, entry.SettlementType)
	}
	if entry.SettlementStatus != models.SettlementCompleted && entry.SettlementStatus != models.SettlementReversed {
		return fmt.Errorf("%w: settlement status %q", ErrInvalidEntry, entry.SettlementStatus)
	}
	if entry.SponsorCreditAction == "" {
		entry.SponsorCreditAction = models.SponsorCreditNone
	}

	fs, err := split.FromEntry(*entry)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidEntry, err.Error())
	}
	if err := split.Verify(fs); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidEntry, err.Error())
	}
	return nil
}
