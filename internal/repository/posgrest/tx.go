package posgrest

import (
	"context"

	"gorm.io/gorm"
)

// TxRunner runs a function inside a database transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
type TxRunner struct {
	db *gorm.DB
}

func NewTxRunner(db *gorm.DB) *TxRunner {
	return &TxRunner{db: db}
}

func (r *TxRunner) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}
