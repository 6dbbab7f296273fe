package service

import (
	"context"
	"errors"

	"github.com/jeffleon2/draftea-settlement-service/internal/ledger"
	"github.com/jeffleon2/draftea-settlement-service/internal/metrics"
	"github.com/jeffleon2/draftea-settlement-service/internal/models"
	"github.com/jeffleon2/draftea-settlement-service/internal/split"
	"github.com/jeffleon2/draftea-settlement-service/internal/voucher"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// NoShowResult holds the rows written when a voucher is marked no-show.
type NoShowResult struct {
	Voucher  *models.Voucher               `json:"voucher"`
	Reversal *models.SettlementLedgerEntry `json:"reversal"`
	Entry    *models.SettlementLedgerEntry `json:"entry"`
}

// VoucherService exposes voucher reads and transitions to the HTTP layer
// and settles no-shows against the ledger.
type VoucherService struct {
	Stores   *Stores
	Notifier *AsyncNotifier
}

func NewVoucherService(stores *Stores, notifier *AsyncNotifier) *VoucherService {
	return &VoucherService{Stores: stores, Notifier: notifier}
}

func (s *VoucherService) Get(ctx context.Context, code string) (*models.Voucher, error) {
	v, err := s.Stores.Vouchers.Get(ctx, code)
	if err != nil {
		return nil, voucherError(err)
	}
	return v, nil
}

func (s *VoucherService) Redeem(ctx context.Context, code, redeemerID string) (*models.Voucher, error) {
	v, err := s.Stores.Vouchers.Redeem(ctx, code, redeemerID)
	if err != nil {
		return nil, voucherError(err)
	}

	metrics.VoucherTransitionsTotal.WithLabelValues(string(models.VoucherUsed)).Inc()
	s.Notifier.Send(models.NotifyVoucherRedeemed, v.OwnerID, map[string]string{
		"voucher_code": v.Code,
		"offering_id":  v.OfferingID,
	})
	return v, nil
}

// MarkNoShow closes a voucher whose buyer did not attend.
//
// In one transaction the voucher moves to no_show, its purchase entry is
// reversed and a no_show entry paying the recipient the full base price is
// appended. Funding is carried over from the purchase entry, so a sponsor
// contribution stays consumed and the buyer is not refunded.
func (s *VoucherService) MarkNoShow(ctx context.Context, code string) (*NoShowResult, error) {
	var out NoShowResult

	err := s.Stores.Tx.InTx(ctx, func(tx *gorm.DB) error {
		v, err := s.Stores.Vouchers.WithTx(tx).MarkNoShow(ctx, code)
		if err != nil {
			return err
		}
		out.Voucher = v

		book := s.Stores.Ledger.WithTx(tx)
		original, err := book.SettlementForVoucher(ctx, v.ID)
		if err != nil {
			return err
		}
		settled, err := split.FromEntry(*original)
		if err != nil {
			return err
		}
		fs := split.NoShow(settled)
		if err := split.Verify(fs); err != nil {
			return err
		}

		reversal, _, err := book.Reverse(ctx, original.ID, "superseded by no-show payout")
		if err != nil {
			return err
		}
		out.Reversal = reversal

		creditAction := models.SponsorCreditNone
		if fs.SponsorContribution > 0 {
			creditAction = models.SponsorCreditConsumed
		}
		entry := models.SettlementLedgerEntry{
			IdempotencyKey:      ledger.NoShowKey(v.ID),
			EventID:             original.EventID,
			TransactionID:       original.TransactionID,
			VoucherID:           v.ID,
			OfferingID:          original.OfferingID,
			BuyerID:             original.BuyerID,
			RecipientID:         original.RecipientID,
			SponsorID:           original.SponsorID,
			BasePrice:           fs.BasePrice,
			SponsorContribution: fs.SponsorContribution,
			LoyaltyDiscount:     fs.LoyaltyDiscount,
			LoyaltyPointsUsed:   original.LoyaltyPointsUsed,
			PlatformCreditUsed:  fs.PlatformCreditUsed,
			BuyerPayment:        fs.BuyerPayment,
			BuyerRefund:         fs.BuyerRefund,
			RecipientPayout:     fs.RecipientPayout,
			PlatformFee:         fs.PlatformFee,
			PayoutRatio:         fs.PayoutRatio.String(),
			SettlementType:      models.SettlementNoShow,
			SettlementStatus:    models.SettlementCompleted,
			SponsorCreditAction: creditAction,
			Notes:               "buyer did not attend",
		}
		if _, err := book.Append(ctx, &entry); err != nil {
			return err
		}
		out.Entry = &entry
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrNotFound), errors.Is(err, ledger.ErrInvalidEntry),
			errors.Is(err, split.ErrImbalanced), errors.Is(err, split.ErrInvalidInput):
			metrics.InvariantViolationsTotal.Inc()
			logrus.WithFields(logrus.Fields{
				"alert":        true,
				"voucher_code": code,
			}).Errorf("No-show settlement failed: %s", err.Error())
			return nil, newError(CategoryInvariant, "no_show_settlement", err)
		}
		return nil, voucherError(err)
	}

	metrics.VoucherTransitionsTotal.WithLabelValues(string(models.VoucherNoShow)).Inc()
	metrics.SettlementsTotal.WithLabelValues(string(models.SettlementNoShow)).Inc()
	s.Notifier.Send(models.NotifyVoucherNoShow, out.Voucher.OwnerID, map[string]string{
		"voucher_code": out.Voucher.Code,
		"offering_id":  out.Voucher.OfferingID,
	})
	return &out, nil
}

func voucherError(err error) error {
	switch {
	case errors.Is(err, voucher.ErrNotFound):
		return newError(CategoryNotFound, "voucher_not_found", err)
	case errors.Is(err, voucher.ErrAlreadyRedeemed):
		return newError(CategoryConflict, "already_redeemed", err)
	case errors.Is(err, voucher.ErrExpired):
		return newError(CategoryConflict, "voucher_expired", err)
	default:
		return newError(CategoryInternal, "voucher", err)
	}
}
