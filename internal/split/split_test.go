package split_test

import (
	"testing"

	"github.com/jeffleon2/draftea-settlement-service/internal/models"
	"github.com/jeffleon2/draftea-settlement-service/internal/split"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate_Standard(t *testing.T) {
	fs, err := split.Calculate(split.Input{BasePrice: 10000, PayoutRatio: split.DefaultPayoutRatio})

	require.NoError(t, err)
	assert.Equal(t, int64(10000), fs.BuyerPayment)
	assert.Equal(t, int64(8000), fs.RecipientPayout)
	assert.Equal(t, int64(2000), fs.PlatformFee)
	assert.Equal(t, models.SettlementStandard, split.Type(fs))
}

func TestCalculate_Sponsored(t *testing.T) {
	fs, err := split.Calculate(split.Input{
		BasePrice:           10000,
		SponsorContribution: 10000,
		PayoutRatio:         split.DefaultPayoutRatio,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(0), fs.BuyerPayment)
	assert.Equal(t, int64(8000), fs.RecipientPayout)
	assert.Equal(t, int64(2000), fs.PlatformFee)
	assert.Equal(t, models.SettlementSponsored, split.Type(fs))
}

func TestCalculate_Loyalty(t *testing.T) {
	fs, err := split.Calculate(split.Input{
		BasePrice:          5000,
		LoyaltyDiscount:    1500,
		PlatformCreditUsed: 500,
		PayoutRatio:        split.DefaultPayoutRatio,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(3000), fs.BuyerPayment)
	assert.Equal(t, models.SettlementLoyalty, split.Type(fs))
}

func TestCalculate_PlatformCreditOnlyIsStandard(t *testing.T) {
	fs, err := split.Calculate(split.Input{BasePrice: 5000, PlatformCreditUsed: 1000, PayoutRatio: split.DefaultPayoutRatio})

	require.NoError(t, err)
	assert.Equal(t, models.SettlementStandard, split.Type(fs))
}

func TestCalculate_OffsetsEqualBasePrice(t *testing.T) {
	fs, err := split.Calculate(split.Input{
		BasePrice:           1000,
		SponsorContribution: 600,
		LoyaltyDiscount:     400,
		PayoutRatio:         split.DefaultPayoutRatio,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(0), fs.BuyerPayment)
}

func TestCalculate_NegativeResidual(t *testing.T) {
	_, err := split.Calculate(split.Input{
		BasePrice:           1000,
		SponsorContribution: 800,
		LoyaltyDiscount:     300,
		PayoutRatio:         split.DefaultPayoutRatio,
	})

	assert.ErrorIs(t, err, split.ErrNegativeResidual)
}

func TestCalculate_InvalidInput(t *testing.T) {
	cases := map[string]split.Input{
		"negative base":    {BasePrice: -1, PayoutRatio: split.DefaultPayoutRatio},
		"negative loyalty": {BasePrice: 100, LoyaltyDiscount: -5, PayoutRatio: split.DefaultPayoutRatio},
		"ratio above one":  {BasePrice: 100, PayoutRatio: decimal.RequireFromString("1.01")},
		"ratio below zero": {BasePrice: 100, PayoutRatio: decimal.RequireFromString("-0.1")},
	}

	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := split.Calculate(in)
			assert.ErrorIs(t, err, split.ErrInvalidInput)
		})
	}
}

func TestCalculate_RoundsHalfUp(t *testing.T) {
	// 333 * 0.5 = 166.5
	fs, err := split.Calculate(split.Input{BasePrice: 333, PayoutRatio: decimal.RequireFromString("0.5")})

	require.NoError(t, err)
	assert.Equal(t, int64(167), fs.RecipientPayout)
	assert.Equal(t, int64(166), fs.PlatformFee)
}

func TestCalculate_ConservationHoldsAcrossPrices(t *testing.T) {
	ratios := []string{"0", "0.333", "0.5", "0.8", "0.875", "1"}
	for _, r := range ratios {
		ratio := decimal.RequireFromString(r)
		for base := int64(0); base <= 2000; base += 7 {
			sponsor := base / 3
			loyalty := base / 5
			fs, err := split.Calculate(split.Input{
				BasePrice:           base,
				SponsorContribution: sponsor,
				LoyaltyDiscount:     loyalty,
				PayoutRatio:         ratio,
			})
			require.NoError(t, err)
			assert.Equal(t, base, fs.BuyerPayment+fs.SponsorContribution+fs.LoyaltyDiscount+fs.PlatformCreditUsed)
			assert.Equal(t, base, fs.RecipientPayout+fs.PlatformFee)
			assert.GreaterOrEqual(t, fs.PlatformFee, int64(0))
		}
	}
}

func TestNoShow_SponsoredFullPayout(t *testing.T) {
	settled, err := split.Calculate(split.Input{
		BasePrice:           10000,
		SponsorContribution: 10000,
		PayoutRatio:         split.DefaultPayoutRatio,
	})
	require.NoError(t, err)

	fs := split.NoShow(settled)

	assert.NoError(t, split.Verify(fs))
	assert.Equal(t, int64(10000), fs.RecipientPayout)
	assert.Equal(t, int64(0), fs.PlatformFee)
	assert.Equal(t, int64(0), fs.BuyerRefund)
	assert.Equal(t, int64(10000), fs.SponsorContribution)
	assert.True(t, fs.PayoutRatio.Equal(decimal.NewFromInt(1)))
}

func TestVerify_DetectsImbalance(t *testing.T) {
	fs := split.FundSplit{BasePrice: 100, BuyerPayment: 100, RecipientPayout: 80, PlatformFee: 19}

	assert.ErrorIs(t, split.Verify(fs), split.ErrImbalanced)
}

func TestFromEntry(t *testing.T) {
	fs, err := split.FromEntry(models.SettlementLedgerEntry{
		BasePrice:       100,
		BuyerPayment:    100,
		RecipientPayout: 80,
		PlatformFee:     20,
		PayoutRatio:     "0.8",
	})

	require.NoError(t, err)
	assert.NoError(t, split.Verify(fs))

	_, err = split.FromEntry(models.SettlementLedgerEntry{PayoutRatio: "abc"})
	assert.ErrorIs(t, err, split.ErrInvalidInput)
}
