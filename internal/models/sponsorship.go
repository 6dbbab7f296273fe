package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SponsorshipPool is a bounded set of sponsored seats. UsedSeats never
// exceeds TotalSeats; it is only moved by conditional updates.
type SponsorshipPool struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	SponsorID  string    `gorm:"index;not null" json:"sponsor_id"`
	OfferingID string    `gorm:"index" json:"offering_id"`
	TotalSeats int       `gorm:"not null" json:"total_seats"`
	UsedSeats  int       `gorm:"not null;default:0" json:"used_seats"`
	IsActive   bool      `gorm:"not null" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (p *SponsorshipPool) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}

func (p SponsorshipPool) Remaining() int {
	if p.UsedSeats >= p.TotalSeats {
		return 0
	}
	return p.TotalSeats - p.UsedSeats
}

// SeatClaim records that a claimant holds a seat in a pool. TransactionID is
// the purchase the seat was spent on; a claim without one is a hold that the
// claimant's next sponsored checkout takes over.
type SeatClaim struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	PoolID        string    `gorm:"uniqueIndex:idx_seat_claim_pool_claimant;not null" json:"pool_id"`
	ClaimantID    string    `gorm:"uniqueIndex:idx_seat_claim_pool_claimant;not null" json:"claimant_id"`
	TransactionID *string   `gorm:"uniqueIndex" json:"transaction_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (c *SeatClaim) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

// SponsorCredit is the monetary budget a sponsor funds contributions from,
// in minor units.
type SponsorCredit struct {
	ID                  string    `gorm:"primaryKey" json:"id"`
	SponsorID           string    `gorm:"index;not null" json:"sponsor_id"`
	TotalCredits        int64     `gorm:"not null" json:"total_credits"`
	UsedCredits         int64     `gorm:"not null;default:0" json:"used_credits"`
	LowBalanceAlertSent bool      `gorm:"not null" json:"low_balance_alert_sent"`
	CriticalAlertSent   bool      `gorm:"not null" json:"critical_alert_sent"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (c *SponsorCredit) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

func (c SponsorCredit) Available() int64 {
	return c.TotalCredits - c.UsedCredits
}
