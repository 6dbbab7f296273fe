package models

import "time"

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
	TransactionDeclined  TransactionStatus = "declined"
)

// Transaction mirrors the purchase attempt the gateway is reporting on. Its
// ID is assigned by the checkout flow and travels in the event metadata.
type Transaction struct {
	ID              string            `gorm:"primaryKey" json:"id"`
	BuyerID         string            `gorm:"index" json:"buyer_id"`
	OfferingID      string            `json:"offering_id"`
	RecipientID     string            `json:"recipient_id"`
	Amount          int64             `json:"amount"`
	Status          TransactionStatus `gorm:"index;not null" json:"status"`
	PaymentIntentID string            `json:"payment_intent_id,omitempty"`
	FailureReason   string            `json:"failure_reason,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// RecipientAccount tracks whether a recipient can receive payouts.
// EventAt is the gateway timestamp of the last applied update.
type RecipientAccount struct {
	ID             string    `gorm:"primaryKey" json:"id"`
	PayoutsEnabled bool      `gorm:"not null" json:"payouts_enabled"`
	EventAt        time.Time `json:"event_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionPending, TransactionCompleted, TransactionFailed, TransactionDeclined:
		return true
	default:
		return false
	}
}
