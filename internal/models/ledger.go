package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SettlementType string
type SettlementStatus string
type SponsorCreditAction string

const (
	SettlementStandard  SettlementType = "standard"
	SettlementSponsored SettlementType = "sponsored"
	SettlementLoyalty   SettlementType = "loyalty"
	SettlementNoShow    SettlementType = "no_show"

	SettlementCompleted SettlementStatus = "completed"
	SettlementReversed  SettlementStatus = "reversed"

	SponsorCreditNone     SponsorCreditAction = "none"
	SponsorCreditConsumed SponsorCreditAction = "consumed"
)

// SettlementLedgerEntry is one immutable row of the settlement ledger. All
// amounts are minor units. A reversal is a new row pointing at the entry it
// reverses through ReversesEntryID.
type SettlementLedgerEntry struct {
	ID                  string              `gorm:"primaryKey" json:"id"`
	IdempotencyKey      string              `gorm:"uniqueIndex;not null" json:"-"`
	EventID             string              `gorm:"index" json:"event_id,omitempty"`
	TransactionID       string              `json:"transaction_id,omitempty"`
	VoucherID           string              `gorm:"index" json:"voucher_id"`
	OfferingID          string              `gorm:"index" json:"offering_id"`
	BuyerID             string              `json:"buyer_id"`
	RecipientID         string              `gorm:"index" json:"recipient_id"`
	SponsorID           string              `json:"sponsor_id,omitempty"`
	BasePrice           int64               `json:"base_price"`
	SponsorContribution int64               `json:"sponsor_contribution"`
	LoyaltyDiscount     int64               `json:"loyalty_discount"`
	LoyaltyPointsUsed   int64               `json:"loyalty_points_used"`
	PlatformCreditUsed  int64               `json:"platform_credit_used"`
	BuyerPayment        int64               `json:"buyer_payment"`
	BuyerRefund         int64               `json:"buyer_refund"`
	RecipientPayout     int64               `json:"recipient_payout"`
	PlatformFee         int64               `json:"platform_fee"`
	PayoutRatio         string              `json:"payout_ratio"`
	SettlementType      SettlementType      `gorm:"index;not null" json:"settlement_type"`
	SettlementStatus    SettlementStatus    `gorm:"index;not null" json:"settlement_status"`
	SponsorCreditAction SponsorCreditAction `gorm:"not null" json:"sponsor_credit_action"`
	ReversesEntryID     *string             `json:"reverses_entry_id,omitempty"`
	Notes               string              `json:"notes,omitempty"`
	CreatedAt           time.Time           `gorm:"index" json:"created_at"`
}

func (e *SettlementLedgerEntry) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return
}

func (t SettlementType) IsValid() bool {
	switch t {
	case SettlementStandard, SettlementSponsored, SettlementLoyalty, SettlementNoShow:
		return true
	default:
		return false
	}
}
