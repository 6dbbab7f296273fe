package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VoucherStatus string

const (
	VoucherActive  VoucherStatus = "active"
	VoucherUsed    VoucherStatus = "used"
	VoucherExpired VoucherStatus = "expired"
	VoucherNoShow  VoucherStatus = "no_show"
)

// Voucher is the redeemable entitlement issued for a settled purchase.
// ClaimKey is owner|offering while the voucher blocks another claim and is
// cleared once an expired voucher gives way to a new one.
type Voucher struct {
	ID            string        `gorm:"primaryKey" json:"id"`
	Code          string        `gorm:"uniqueIndex;not null" json:"code"`
	OwnerID       string        `gorm:"index;not null" json:"owner_id"`
	OfferingID    string        `gorm:"index;not null" json:"offering_id"`
	RecipientID   string        `gorm:"index;not null" json:"recipient_id"`
	TransactionID string        `gorm:"index" json:"transaction_id"`
	ClaimKey      *string       `gorm:"uniqueIndex" json:"-"`
	Status        VoucherStatus `gorm:"index;not null" json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	ExpiresAt     *time.Time    `json:"expires_at,omitempty"`
	RedeemedAt    *time.Time    `json:"redeemed_at,omitempty"`
	RedeemedBy    *string       `json:"redeemed_by,omitempty"`
	NoShowAt      *time.Time    `json:"no_show_at,omitempty"`
}

func (v *Voucher) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return
}

// EffectiveStatus reports the status as of now. Expiry is never written,
// an active voucher read after ExpiresAt is expired.
func (v Voucher) EffectiveStatus(now time.Time) VoucherStatus {
	if v.Status == VoucherActive && v.ExpiresAt != nil && now.After(*v.ExpiresAt) {
		return VoucherExpired
	}
	return v.Status
}

func (s VoucherStatus) IsValid() bool {
	switch s {
	case VoucherActive, VoucherUsed, VoucherExpired, VoucherNoShow:
		return true
	default:
		return false
	}
}
