package posgrest

import (
	"context"
	"fmt"
	"time"

	"github.com/jeffleon2/draftea-settlement-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TransactionStore records the gateway's verdict on purchase attempts. A
// completed transaction is never moved back to failed or declined, so events
// arriving out of order cannot undo a settlement.
type TransactionStore struct {
	*repository[models.Transaction]
}

func NewTransactionStore(db *gorm.DB) *TransactionStore {
	return &TransactionStore{New[models.Transaction](db)}
}

func (s *TransactionStore) WithTx(tx *gorm.DB) *TransactionStore {
	return &TransactionStore{s.repository.WithTx(tx)}
}

func (s *TransactionStore) MarkCompleted(ctx context.Context, t *models.Transaction) error {
	t.Status = models.TransactionCompleted
	t.FailureReason = ""
	return s.upsert(ctx, t, nil)
}

func (s *TransactionStore) MarkFailed(ctx context.Context, t *models.Transaction, reason string) error {
	t.Status = models.TransactionFailed
	t.FailureReason = reason
	return s.upsert(ctx, t, notCompleted())
}

func (s *TransactionStore) MarkDeclined(ctx context.Context, t *models.Transaction, reason string) error {
	t.Status = models.TransactionDeclined
	t.FailureReason = reason
	return s.upsert(ctx, t, notCompleted())
}

func (s *TransactionStore) upsert(ctx context.Context, t *models.Transaction, where []clause.Expression) error {
	if t.ID == "" {
		return fmt.Errorf("transaction id is required")
	}
	t.UpdatedAt = time.Now().UTC()

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "failure_reason", "payment_intent_id", "updated_at"}),
		Where:     clause.Where{Exprs: where},
	}).Create(t).Error
	if err != nil {
		return fmt.Errorf("mark transaction %s %s: %w", t.ID, t.Status, err)
	}
	return nil
}

func notCompleted() []clause.Expression {
	return []clause.Expression{
		clause.Expr{SQL: "transactions.status <> ?", Vars: []interface{}{models.TransactionCompleted}},
	}
}

// RecipientStore keeps recipient payout eligibility in step with the
// gateway's account updates.
type RecipientStore struct {
	*repository[models.RecipientAccount]
}

func NewRecipientStore(db *gorm.DB) *RecipientStore {
	return &RecipientStore{New[models.RecipientAccount](db)}
}

func (s *RecipientStore) WithTx(tx *gorm.DB) *RecipientStore {
	return &RecipientStore{s.repository.WithTx(tx)}
}

// ApplyPayoutEligibility stores the flag unless a newer update is already
// recorded. It reports whether the row changed.
func (s *RecipientStore) ApplyPayoutEligibility(ctx context.Context, recipientID string, enabled bool, at time.Time) (bool, error) {
	account := models.RecipientAccount{
		ID:             recipientID,
		PayoutsEnabled: enabled,
		EventAt:        at.UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"payouts_enabled", "event_at", "updated_at"}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "recipient_accounts.event_at < excluded.event_at"},
		}},
	}).Create(&account)
	if res.Error != nil {
		return false, fmt.Errorf("apply payout eligibility for %s: %w", recipientID, res.Error)
	}
	return res.RowsAffected > 0, nil
}
