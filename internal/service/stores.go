package service

import (
	"github.com/jeffleon2/draftea-settlement-service/internal/credits"
	"github.com/jeffleon2/draftea-settlement-service/internal/idempotency"
	"github.com/jeffleon2/draftea-settlement-service/internal/ledger"
	"github.com/jeffleon2/draftea-settlement-service/internal/repository/posgrest"
	"github.com/jeffleon2/draftea-settlement-service/internal/seats"
	"github.com/jeffleon2/draftea-settlement-service/internal/voucher"
	"gorm.io/gorm"
)

// Stores groups the persistence components the settlement services share.
// Each one can be rebound to an open transaction with WithTx.
type Stores struct {
	Tx           *posgrest.TxRunner
	Guard        *idempotency.Guard
	Seats        *seats.Allocator
	Credits      *credits.Store
	Vouchers     *voucher.Manager
	Ledger       *ledger.Ledger
	Transactions *posgrest.TransactionStore
	Recipients   *posgrest.RecipientStore
}

func NewStores(db *gorm.DB, voucherPrefix string, voucherOpts ...voucher.Option) *Stores {
	return &Stores{
		Tx:           posgrest.NewTxRunner(db),
		Guard:        idempotency.NewGuard(db),
		Seats:        seats.NewAllocator(db),
		Credits:      credits.NewStore(db),
		Vouchers:     voucher.NewManager(db, voucherPrefix, voucherOpts...),
		Ledger:       ledger.New(db),
		Transactions: posgrest.NewTransactionStore(db),
		Recipients:   posgrest.NewRecipientStore(db),
	}
}
