package models

import "time"

type EventOutcome string

const (
	OutcomeSettled           EventOutcome = "settled"
	OutcomeDeclined          EventOutcome = "declined"
	OutcomeTransactionFailed EventOutcome = "transaction_failed"
	OutcomeAccountUpdated    EventOutcome = "account_updated"
)

// ProcessedEvent marks a gateway event as handled. Rows are only ever
// inserted; the primary key on EventID is the deduplication gate.
type ProcessedEvent struct {
	EventID     string       `gorm:"primaryKey;size:191" json:"event_id"`
	EventType   EventType    `gorm:"not null" json:"event_type"`
	Outcome     EventOutcome `gorm:"not null" json:"outcome"`
	ProcessedAt time.Time    `gorm:"autoCreateTime" json:"processed_at"`
}
