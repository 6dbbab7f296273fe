// Package idempotency decides whether a gateway event is seen for the first
// time. The decision is a single insert-if-absent on the event id; there is
// no read-then-write window.
package idempotency

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jeffleon2/draftea-settlement-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrEmptyEventID = errors.New("event id is required")
	ErrNotFound     = errors.New("processed event not found")
)

type Admission struct {
	Admitted bool
	Record   models.ProcessedEvent
}

// AlreadyProcessed reports whether the event was seen before.
func (a Admission) AlreadyProcessed() bool {
	return !a.Admitted
}

type Guard struct {
	db *gorm.DB
}

func NewGuard(db *gorm.DB) *Guard {
	return &Guard{db: db}
}

// WithTx binds the guard to tx so the admission commits or rolls back with
// the work it gates.
func (g *Guard) WithTx(tx *gorm.DB) *Guard {
	return &Guard{db: tx}
}

// Admit records eventID with its terminal outcome. Exactly one concurrent
// caller for a given id gets Admitted; everyone else gets AlreadyProcessed.
func (g *Guard) Admit(ctx context.Context, eventID string, eventType models.EventType, outcome models.EventOutcome) (Admission, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return Admission{}, ErrEmptyEventID
	}

	record := models.ProcessedEvent{
		EventID:   eventID,
		EventType: eventType,
		Outcome:   outcome,
	}
	res := g.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "event_id"}}, DoNothing: true}).
		Create(&record)
	if res.Error != nil {
		return Admission{}, fmt.Errorf("admit event %s: %w", eventID, res.Error)
	}

	return Admission{Admitted: res.RowsAffected > 0, Record: record}, nil
}

func (g *Guard) Lookup(ctx context.Context, eventID string) (*models.ProcessedEvent, error) {
	var record models.ProcessedEvent
	err := g.db.WithContext(ctx).Where("event_id = ?", eventID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup event %s: %w", eventID, err)
	}
	return &record, nil
}
