// Package split computes how a purchase price is divided between the buyer,
// sponsor, loyalty program, platform and recipient. All amounts are integer
// minor units; only the payout ratio is fractional.
package split

import (
	"errors"
	"fmt"

	"github.com/jeffleon2/draftea-settlement-service/internal/models"
	"github.com/shopspring/decimal"
)

var (
	ErrNegativeResidual = errors.New("offsets exceed base price")
	ErrInvalidInput     = errors.New("invalid split input")
	ErrImbalanced       = errors.New("split components do not sum to base price")
)

// DefaultPayoutRatio is the recipient share when nothing else is configured.
var DefaultPayoutRatio = decimal.RequireFromString("0.80")

type Input struct {
	BasePrice           int64
	SponsorContribution int64
	LoyaltyDiscount     int64
	PlatformCreditUsed  int64
	PayoutRatio         decimal.Decimal
}

type FundSplit struct {
	BasePrice           int64
	SponsorContribution int64
	LoyaltyDiscount     int64
	PlatformCreditUsed  int64
	BuyerPayment        int64
	BuyerRefund         int64
	RecipientPayout     int64
	PlatformFee         int64
	PayoutRatio         decimal.Decimal
}

// Calculate splits the base price. The buyer pays whatever the offsets do
// not cover; the recipient gets the ratio share of the base price rounded
// half up, and the platform keeps the rest.
func Calculate(in Input) (FundSplit, error) {
	if in.BasePrice < 0 || in.SponsorContribution < 0 || in.LoyaltyDiscount < 0 || in.PlatformCreditUsed < 0 {
		return FundSplit{}, fmt.Errorf("%w: negative amount", ErrInvalidInput)
	}
	if in.PayoutRatio.IsNegative() || in.PayoutRatio.GreaterThan(decimal.NewFromInt(1)) {
		return FundSplit{}, fmt.Errorf("%w: payout ratio %s outside [0,1]", ErrInvalidInput, in.PayoutRatio)
	}

	offsets := in.SponsorContribution + in.LoyaltyDiscount + in.PlatformCreditUsed
	if offsets > in.BasePrice {
		return FundSplit{}, fmt.Errorf("%w: offsets %d, base price %d", ErrNegativeResidual, offsets, in.BasePrice)
	}

	payout := decimal.NewFromInt(in.BasePrice).Mul(in.PayoutRatio).Round(0).IntPart()

	fs := FundSplit{
		BasePrice:           in.BasePrice,
		SponsorContribution: in.SponsorContribution,
		LoyaltyDiscount:     in.LoyaltyDiscount,
		PlatformCreditUsed:  in.PlatformCreditUsed,
		BuyerPayment:        in.BasePrice - offsets,
		RecipientPayout:     payout,
		PlatformFee:         in.BasePrice - payout,
		PayoutRatio:         in.PayoutRatio,
	}
	return fs, Verify(fs)
}

// Verify checks both conservation equations of a split.
func Verify(fs FundSplit) error {
	funding := fs.BuyerPayment + fs.SponsorContribution + fs.LoyaltyDiscount + fs.PlatformCreditUsed
	if funding != fs.BasePrice {
		return fmt.Errorf("%w: funding %d, base price %d", ErrImbalanced, funding, fs.BasePrice)
	}
	if fs.RecipientPayout+fs.PlatformFee != fs.BasePrice {
		return fmt.Errorf("%w: payout %d + fee %d, base price %d", ErrImbalanced, fs.RecipientPayout, fs.PlatformFee, fs.BasePrice)
	}
	if fs.BuyerPayment < 0 || fs.RecipientPayout < 0 || fs.PlatformFee < 0 || fs.BuyerRefund < 0 {
		return fmt.Errorf("%w: negative component", ErrImbalanced)
	}
	return nil
}

// NoShow turns a settled split into the forced full payout owed when the
// buyer does not attend: the recipient receives the whole base price, the
// platform keeps nothing and nothing is refunded. Funding is unchanged, so a
// sponsor contribution stays consumed.
func NoShow(settled FundSplit) FundSplit {
	fs := settled
	fs.RecipientPayout = settled.BasePrice
	fs.PlatformFee = 0
	fs.BuyerRefund = 0
	fs.PayoutRatio = decimal.NewFromInt(1)
	return fs
}

// Type classifies a purchase split for the ledger.
func Type(fs FundSplit) models.SettlementType {
	switch {
	case fs.SponsorContribution > 0:
		return models.SettlementSponsored
	case fs.LoyaltyDiscount > 0:
		return models.SettlementLoyalty
	default:
		return models.SettlementStandard
	}
}

// FromEntry rebuilds the split recorded on a ledger row.
func FromEntry(e models.SettlementLedgerEntry) (FundSplit, error) {
	ratio, err := decimal.NewFromString(e.PayoutRatio)
	if err != nil {
		return FundSplit{}, fmt.Errorf("%w: stored payout ratio %q", ErrInvalidInput, e.PayoutRatio)
	}
	return FundSplit{
		BasePrice:           e.BasePrice,
		SponsorContribution: e.SponsorContribution,
		LoyaltyDiscount:     e.LoyaltyDiscount,
		PlatformCreditUsed:  e.PlatformCreditUsed,
		BuyerPayment:        e.BuyerPayment,
		BuyerRefund:         e.BuyerRefund,
		RecipientPayout:     e.RecipientPayout,
		PlatformFee:         e.PlatformFee,
		PayoutRatio:         ratio,
	}, nil
}
