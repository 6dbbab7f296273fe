// Package credits draws sponsor contributions from a sponsor's credit budget.
package credits

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jeffleon2/draftea-settlement-service/internal/models"
	"gorm.io/gorm"
)

var (
	ErrCreditNotFound     = errors.New("sponsor credit not found")
	ErrInsufficientCredit = errors.New("insufficient sponsor credit")
	ErrInvalidAmount      = errors.New("deduction amount must be positive")
)

type AlertLevel string

const (
	AlertNone     AlertLevel = ""
	AlertLow      AlertLevel = "low"
	AlertCritical AlertLevel = "critical"
)

// Balance thresholds as a percentage of total credits.
const (
	lowBalancePercent      = 20
	criticalBalancePercent = 10
)

// Deduction is the credit state after a successful deduction. Alert is set
// only for the call that first crossed a threshold.
type Deduction struct {
	Credit models.SponsorCredit
	Alert  AlertLevel
}

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) WithTx(tx *gorm.DB) *Store {
	return &Store{db: tx}
}

// Deduct consumes amount from the credit budget creditID.
//
// The deduction is one conditional update that only matches while enough
// credit is left, so concurrent deductions cannot overdraw the budget. When
// the remaining balance falls below 20% or 10% of the total, the matching
// alert flag is flipped with a second conditional update and the level is
// returned to the caller, once per threshold.
func (s *Store) Deduct(ctx context.Context, creditID string, amount int64) (Deduction, error) {
	if amount <= 0 {
		return Deduction{}, ErrInvalidAmount
	}
	db := s.db.WithContext(ctx)

	upd := db.Model(&models.SponsorCredit{}).
		Where("id = ? AND total_credits - used_credits >= ?", creditID, amount).
		Updates(map[string]interface{}{
			"used_credits": gorm.Expr("used_credits + ?", amount),
			"updated_at":   time.Now().UTC(),
		})
	if upd.Error != nil {
		return Deduction{}, fmt.Errorf("deduct sponsor credit %s: %w", creditID, upd.Error)
	}

	credit, err := s.get(db, creditID)
	if err != nil {
		return Deduction{}, err
	}
	if upd.RowsAffected == 0 {
		return Deduction{}, fmt.Errorf("%w: %d available, %d requested", ErrInsufficientCredit, credit.Available(), amount)
	}

	alert, err := s.flagAlert(db, credit)
	if err != nil {
		return Deduction{}, err
	}
	return Deduction{Credit: *credit, Alert: alert}, nil
}

func (s *Store) Get(ctx context.Context, creditID string) (*models.SponsorCredit, error) {
	return s.get(s.db.WithContext(ctx), creditID)
}

func (s *Store) get(db *gorm.DB, creditID string) (*models.SponsorCredit, error) {
	var credit models.SponsorCredit
	err := db.Where("id = ?", creditID).First(&credit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrCreditNotFound, creditID)
	}
	if err != nil {
		return nil, fmt.Errorf("load sponsor credit %s: %w", creditID, err)
	}
	return &credit, nil
}

func (s *Store) flagAlert(db *gorm.DB, credit *models.SponsorCredit) (AlertLevel, error) {
	available := credit.Available()

	var level AlertLevel
	var column string
	switch {
	case available*100 < credit.TotalCredits*criticalBalancePercent && !credit.CriticalAlertSent:
		level, column = AlertCritical, "critical_alert_sent"
	case available*100 < credit.TotalCredits*lowBalancePercent && !credit.LowBalanceAlertSent:
		level, column = AlertLow, "low_balance_alert_sent"
	default:
		return AlertNone, nil
	}

	res := db.Model(&models.SponsorCredit{}).
		Where("id = ? AND "+column+" = ?", credit.ID, false).
		Updates(map[string]interface{}{
			column:                   true,
			"low_balance_alert_sent": true,
		})
	if res.Error != nil {
		return AlertNone, fmt.Errorf("flag low balance alert: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return AlertNone, nil
	}
	return level, nil
}
