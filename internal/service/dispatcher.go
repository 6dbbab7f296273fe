package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jeffleon2/draftea-settlement-service/internal/credits"
	"github.com/jeffleon2/draftea-settlement-service/internal/ledger"
	"github.com/jeffleon2/draftea-settlement-service/internal/metrics"
	"github.com/jeffleon2/draftea-settlement-service/internal/models"
	"github.com/jeffleon2/draftea-settlement-service/internal/seats"
	"github.com/jeffleon2/draftea-settlement-service/internal/split"
	"github.com/jeffleon2/draftea-settlement-service/internal/voucher"
	"github.com/jeffleon2/draftea-settlement-service/internal/webhook"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// MetadataFetcher re-reads payment metadata from the gateway.
type MetadataFetcher interface {
	Fetch(ctx context.Context, paymentIntentID string) (map[string]string, error)
}

type Settings struct {
	WebhookSecret   string
	PayoutRatio     decimal.Decimal
	PipelineTimeout time.Duration
}

// Result describes what happened to a delivered event. Declined purchases
// are a normal result: the event is recorded and will not be replayed.
type Result struct {
	EventID        string                `json:"event_id"`
	EventType      models.EventType      `json:"event_type"`
	Outcome        models.EventOutcome   `json:"outcome,omitempty"`
	Duplicate      bool                  `json:"duplicate"`
	Reason         string                `json:"reason,omitempty"`
	VoucherCode    string                `json:"voucher_code,omitempty"`
	SettlementType models.SettlementType `json:"settlement_type,omitempty"`
	LedgerEntryID  string                `json:"ledger_entry_id,omitempty"`
}

// Dispatcher authenticates gateway events and routes them through the
// settlement pipeline.
//
// For a completed checkout it computes the fund split first, then runs one
// database transaction that admits the event id, reserves the sponsored seat,
// draws sponsor credit, issues the voucher, appends the ledger entry and marks
// the transaction completed. Any failure rolls all of it back, the event id
// included, so a redelivery starts from scratch. Gateway calls happen before
// the transaction opens and notifications after it commits.
type Dispatcher struct {
	Stores   *Stores
	Notifier *AsyncNotifier
	Fetcher  MetadataFetcher
	Settings Settings
	validate *validator.Validate
}

func NewDispatcher(stores *Stores, notifier *AsyncNotifier, fetcher MetadataFetcher, settings Settings) *Dispatcher {
	if settings.PipelineTimeout <= 0 {
		settings.PipelineTimeout = 15 * time.Second
	}
	return &Dispatcher{
		Stores:   stores,
		Notifier: notifier,
		Fetcher:  fetcher,
		Settings: settings,
		validate: validator.New(),
	}
}

// declined aborts the settlement transaction with a business refusal.
type declined struct {
	reason string
	err    error
}

func (d *declined) Error() string { return "declined: " + d.reason }
func (d *declined) Unwrap() error { return d.err }

// Handle verifies, parses and processes one raw gateway delivery.
func (d *Dispatcher) Handle(ctx context.Context, raw []byte, signature string) (Result, error) {
	if !webhook.Verify(raw, signature, d.Settings.WebhookSecret) {
		metrics.SignatureFailuresTotal.Inc()
		logrus.WithField("alert", true).Warn("Rejected gateway delivery with invalid signature")
		return Result{}, newError(CategoryAuth, "invalid_signature", nil)
	}

	var evt models.PaymentEvent
	if err := json.Unmarshal(raw, &evt); err != nil {
		return Result{}, newError(CategoryMalformed, "invalid_json", err)
	}

	ctx, cancel := context.WithTimeout(ctx, d.Settings.PipelineTimeout)
	defer cancel()

	res, err := d.dispatch(ctx, &evt)
	if err != nil && (errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)) {
		err = newError(CategoryRetriable, "timeout", err)
	}

	outcome := string(res.Outcome)
	switch {
	case err != nil:
		outcome = string(CategoryOf(err))
	case res.Duplicate:
		outcome = "duplicate"
	}
	metrics.EventsTotal.WithLabelValues(string(evt.EventType), outcome).Inc()

	log := logrus.WithFields(logrus.Fields{
		"event_id":   evt.EventID,
		"event_type": evt.EventType,
		"outcome":    outcome,
	})
	if err != nil {
		log.Errorf("Error handling gateway event: %s", errorDetail(err))
	} else {
		log.Info("Gateway event handled")
	}
	return res, err
}

func (d *Dispatcher) dispatch(ctx context.Context, evt *models.PaymentEvent) (Result, error) {
	if err := d.validateEvent(ctx, evt); err != nil {
		return Result{EventID: evt.EventID, EventType: evt.EventType}, err
	}

	switch evt.EventType {
	case models.EventCheckoutCompleted:
		return d.settleCheckout(ctx, evt)
	case models.EventPaymentFailed:
		return d.failTransaction(ctx, evt)
	case models.EventAccountUpdated:
		return d.updateAccount(ctx, evt)
	default:
		return Result{}, newError(CategoryMalformed, "unknown_event_type", nil)
	}
}

// validateEvent checks the schema. Missing metadata is looked up on the
// gateway once; if it still cannot be completed the event is left unadmitted
// and reported as retriable.
func (d *Dispatcher) validateEvent(ctx context.Context, evt *models.PaymentEvent) error {
	err := evt.Validate(d.validate)
	if err == nil {
		return nil
	}
	if errors.Is(err, models.ErrMalformedEvent) {
		return newError(CategoryMalformed, "schema_violation", err)
	}
	if !errors.Is(err, models.ErrInsufficientMetadata) {
		return newError(CategoryInternal, "validation", err)
	}

	if d.Fetcher != nil && evt.Metadata.PaymentIntentID != "" {
		fetched, ferr := d.Fetcher.Fetch(ctx, evt.Metadata.PaymentIntentID)
		if ferr != nil {
			logrus.WithField("event_id", evt.EventID).Warnf("Falling back to event metadata: %s", ferr.Error())
		} else if merr := evt.Metadata.MergeGatewayMetadata(fetched); merr != nil {
			return newError(CategoryMalformed, "schema_violation", merr)
		}
		err = evt.Validate(d.validate)
		if err == nil {
			return nil
		}
		if errors.Is(err, models.ErrMalformedEvent) {
			return newError(CategoryMalformed, "schema_violation", err)
		}
	}

	return newError(CategoryRetriable, "insufficient_metadata", err)
}

// claimSeat spends a sponsored seat on the purchase. A seat the buyer is
// holding is taken over. A seat spent on an earlier purchase whose voucher has
// expired moves to this purchase on a fresh seat.
func (d *Dispatcher) claimSeat(ctx context.Context, tx *gorm.DB, md models.EventMetadata) (seats.Reservation, error) {
	allocator := d.Stores.Seats.WithTx(tx)
	r, err := allocator.Consume(ctx, md.SponsorshipPoolID, md.BuyerID, md.TransactionID)
	if err != nil || r.Status != seats.AlreadyClaimed || r.BoundTo == "" {
		return r, err
	}
	expired, err := d.Stores.Vouchers.WithTx(tx).ExpiredFor(ctx, r.BoundTo)
	if err != nil || !expired {
		return r, err
	}
	return allocator.Rebind(ctx, md.SponsorshipPoolID, md.BuyerID, r.BoundTo, md.TransactionID)
}

func (d *Dispatcher) settleCheckout(ctx context.Context, evt *models.PaymentEvent) (Result, error) {
	md := evt.Metadata
	res := Result{EventID: evt.EventID, EventType: evt.EventType}

	fs, err := split.Calculate(split.Input{
		BasePrice:           md.BasePrice,
		SponsorContribution: md.SponsorContribution,
		LoyaltyDiscount:     md.LoyaltyDiscount,
		PlatformCreditUsed:  md.PlatformCreditUsed,
		PayoutRatio:         d.Settings.PayoutRatio,
	})
	if err != nil {
		return res, d.invariantViolation(evt, err)
	}
	d.crossCheck(evt, fs)
	settlementType := split.Type(fs)

	var (
		duplicate   bool
		reservation *seats.Reservation
		deduction   *credits.Deduction
		issued      *models.Voucher
		entry       models.SettlementLedgerEntry
	)

	err = d.Stores.Tx.InTx(ctx, func(tx *gorm.DB) error {
		admission, err := d.Stores.Guard.WithTx(tx).Admit(ctx, evt.EventID, evt.EventType, models.OutcomeSettled)
		if err != nil {
			return err
		}
		if !admission.Admitted {
			duplicate = true
			return nil
		}

		creditAction := models.SponsorCreditNone
		sponsorID := ""
		if md.SponsorContribution > 0 {
			r, err := d.claimSeat(ctx, tx, md)
			if errors.Is(err, seats.ErrPoolNotFound) {
				return &declined{reason: "sponsorship_pool_not_found", err: err}
			}
			if err != nil {
				return err
			}
			reservation = &r
			switch r.Status {
			case seats.Exhausted:
				reason := "seats_exhausted"
				if r.Reason == seats.ReasonPoolInactive {
					reason = seats.ReasonPoolInactive
				}
				return &declined{reason: reason}
			case seats.AlreadyClaimed:
				return &declined{reason: "seat_already_claimed"}
			}
			sponsorID = r.SponsorID

			if md.SponsorCreditID != "" {
				ded, err := d.Stores.Credits.WithTx(tx).Deduct(ctx, md.SponsorCreditID, md.SponsorContribution)
				switch {
				case errors.Is(err, credits.ErrInsufficientCredit):
					return &declined{reason: "insufficient_sponsor_credit", err: err}
				case errors.Is(err, credits.ErrCreditNotFound):
					return &declined{reason: "sponsor_credit_not_found", err: err}
				case err != nil:
					return err
				}
				if ded.Credit.SponsorID != sponsorID {
					return &declined{reason: "sponsor_credit_mismatch"}
				}
				deduction = &ded
			}
			creditAction = models.SponsorCreditConsumed
		}

		v, err := d.Stores.Vouchers.WithTx(tx).Issue(ctx, voucher.IssueRequest{
			OwnerID:       md.BuyerID,
			OfferingID:    md.OfferingID,
			RecipientID:   md.RecipientID,
			TransactionID: md.TransactionID,
		})
		if errors.Is(err, voucher.ErrDuplicateClaim) {
			return &declined{reason: "duplicate_claim", err: err}
		}
		if err != nil {
			return err
		}
		issued = v

		entry = models.SettlementLedgerEntry{
			IdempotencyKey:      ledger.EventKey(evt.EventID),
			EventID:             evt.EventID,
			TransactionID:       md.TransactionID,
			VoucherID:           v.ID,
			OfferingID:          md.OfferingID,
			BuyerID:             md.BuyerID,
			RecipientID:         md.RecipientID,
			SponsorID:           sponsorID,
			BasePrice:           fs.BasePrice,
			SponsorContribution: fs.SponsorContribution,
			LoyaltyDiscount:     fs.LoyaltyDiscount,
			LoyaltyPointsUsed:   md.LoyaltyPointsUsed,
			PlatformCreditUsed:  fs.PlatformCreditUsed,
			BuyerPayment:        fs.BuyerPayment,
			BuyerRefund:         fs.BuyerRefund,
			RecipientPayout:     fs.RecipientPayout,
			PlatformFee:         fs.PlatformFee,
			PayoutRatio:         fs.PayoutRatio.String(),
			SettlementType:      settlementType,
			SettlementStatus:    models.SettlementCompleted,
			SponsorCreditAction: creditAction,
		}
		if _, err := d.Stores.Ledger.WithTx(tx).Append(ctx, &entry); err != nil {
			return err
		}

		return d.Stores.Transactions.WithTx(tx).MarkCompleted(ctx, &models.Transaction{
			ID:              md.TransactionID,
			BuyerID:         md.BuyerID,
			OfferingID:      md.OfferingID,
			RecipientID:     md.RecipientID,
			Amount:          fs.BuyerPayment,
			PaymentIntentID: md.PaymentIntentID,
		})
	})

	if reservation != nil {
		metrics.SeatReservationsTotal.WithLabelValues(string(reservation.Status)).Inc()
	}

	var dec *declined
	switch {
	case errors.As(err, &dec):
		return d.recordDecline(ctx, evt, dec)
	case errors.Is(err, ledger.ErrInvalidEntry):
		return res, d.invariantViolation(evt, err)
	case err != nil:
		return res, newError(CategoryRetriable, "settlement_failed", err)
	case duplicate:
		return d.duplicateResult(ctx, res), nil
	}

	metrics.SettlementsTotal.WithLabelValues(string(settlementType)).Inc()
	metrics.SettlementAmounts.WithLabelValues(string(settlementType)).Observe(float64(fs.BasePrice))

	d.Notifier.Send(models.NotifyPurchaseConfirmed, md.BuyerID, map[string]string{
		"voucher_code": issued.Code,
		"offering_id":  md.OfferingID,
	})
	if deduction != nil && deduction.Alert != credits.AlertNone {
		d.Notifier.Send(models.NotifySponsorLowBalance, deduction.Credit.SponsorID, map[string]string{
			"sponsor_credit_id": deduction.Credit.ID,
			"level":             string(deduction.Alert),
			"available":         strconv.FormatInt(deduction.Credit.Available(), 10),
			"total":             strconv.FormatInt(deduction.Credit.TotalCredits, 10),
		})
	}

	res.Outcome = models.OutcomeSettled
	res.VoucherCode = issued.Code
	res.SettlementType = settlementType
	res.LedgerEntryID = entry.ID
	return res, nil
}

// recordDecline stores the refusal as the event's terminal outcome so later
// deliveries of the same event are no-ops.
func (d *Dispatcher) recordDecline(ctx context.Context, evt *models.PaymentEvent, dec *declined) (Result, error) {
	md := evt.Metadata
	res := Result{EventID: evt.EventID, EventType: evt.EventType}
	duplicate := false

	err := d.Stores.Tx.InTx(ctx, func(tx *gorm.DB) error {
		admission, err := d.Stores.Guard.WithTx(tx).Admit(ctx, evt.EventID, evt.EventType, models.OutcomeDeclined)
		if err != nil {
			return err
		}
		if !admission.Admitted {
			duplicate = true
			return nil
		}
		return d.Stores.Transactions.WithTx(tx).MarkDeclined(ctx, &models.Transaction{
			ID:              md.TransactionID,
			BuyerID:         md.BuyerID,
			OfferingID:      md.OfferingID,
			RecipientID:     md.RecipientID,
			Amount:          md.BasePrice,
			PaymentIntentID: md.PaymentIntentID,
		}, dec.reason)
	})
	if err != nil {
		return res, newError(CategoryRetriable, "record_decline_failed", err)
	}
	if duplicate {
		return d.duplicateResult(ctx, res), nil
	}

	d.Notifier.Send(models.NotifyPurchaseDeclined, md.BuyerID, map[string]string{
		"offering_id": md.OfferingID,
		"reason":      dec.reason,
	})

	res.Outcome = models.OutcomeDeclined
	res.Reason = dec.reason
	return res, nil
}

func (d *Dispatcher) failTransaction(ctx context.Context, evt *models.PaymentEvent) (Result, error) {
	md := evt.Metadata
	res := Result{EventID: evt.EventID, EventType: evt.EventType}
	duplicate := false

	err := d.Stores.Tx.InTx(ctx, func(tx *gorm.DB) error {
		admission, err := d.Stores.Guard.WithTx(tx).Admit(ctx, evt.EventID, evt.EventType, models.OutcomeTransactionFailed)
		if err != nil {
			return err
		}
		if !admission.Admitted {
			duplicate = true
			return nil
		}
		return d.Stores.Transactions.WithTx(tx).MarkFailed(ctx, &models.Transaction{
			ID:              md.TransactionID,
			BuyerID:         md.BuyerID,
			OfferingID:      md.OfferingID,
			RecipientID:     md.RecipientID,
			Amount:          md.BasePrice,
			PaymentIntentID: md.PaymentIntentID,
		}, md.FailureReason)
	})
	if err != nil {
		return res, newError(CategoryRetriable, "mark_failed", err)
	}
	if duplicate {
		return d.duplicateResult(ctx, res), nil
	}

	res.Outcome = models.OutcomeTransactionFailed
	return res, nil
}

func (d *Dispatcher) updateAccount(ctx context.Context, evt *models.PaymentEvent) (Result, error) {
	md := evt.Metadata
	res := Result{EventID: evt.EventID, EventType: evt.EventType}
	duplicate := false

	err := d.Stores.Tx.InTx(ctx, func(tx *gorm.DB) error {
		admission, err := d.Stores.Guard.WithTx(tx).Admit(ctx, evt.EventID, evt.EventType, models.OutcomeAccountUpdated)
		if err != nil {
			return err
		}
		if !admission.Admitted {
			duplicate = true
			return nil
		}
		applied, err := d.Stores.Recipients.WithTx(tx).ApplyPayoutEligibility(ctx, md.RecipientID, *md.PayoutsEnabled, evt.OccurredAt)
		if err != nil {
			return err
		}
		if !applied {
			logrus.WithFields(logrus.Fields{
				"event_id":     evt.EventID,
				"recipient_id": md.RecipientID,
			}).Info("Skipped stale account update")
		}
		return nil
	})
	if err != nil {
		return res, newError(CategoryRetriable, "account_update", err)
	}
	if duplicate {
		return d.duplicateResult(ctx, res), nil
	}

	res.Outcome = models.OutcomeAccountUpdated
	return res, nil
}

func (d *Dispatcher) duplicateResult(ctx context.Context, res Result) Result {
	res.Duplicate = true
	if record, err := d.Stores.Guard.Lookup(ctx, res.EventID); err == nil {
		res.Outcome = record.Outcome
	}
	return res
}

// invariantViolation aborts the event and raises an operator alert. Nothing
// has been written when this is reached.
func (d *Dispatcher) invariantViolation(evt *models.PaymentEvent, err error) error {
	metrics.InvariantViolationsTotal.Inc()
	logrus.WithFields(logrus.Fields{
		"alert":          true,
		"event_id":       evt.EventID,
		"transaction_id": evt.Metadata.TransactionID,
		"base_price":     evt.Metadata.BasePrice,
	}).Errorf("Settlement split failed to balance: %s", err.Error())

	reason := "split_imbalanced"
	if errors.Is(err, split.ErrNegativeResidual) {
		reason = "negative_residual"
	}
	return newError(CategoryInvariant, reason, err)
}

// crossCheck compares the split computed at checkout with ours. The
// calculator is authoritative; a mismatch is only logged.
func (d *Dispatcher) crossCheck(evt *models.PaymentEvent, fs split.FundSplit) {
	md := evt.Metadata
	fields := logrus.Fields{
		"event_id":          evt.EventID,
		"settlement_payout": fs.RecipientPayout,
		"settlement_fee":    fs.PlatformFee,
	}
	mismatch := false
	if md.RecipientPayout != nil {
		fields["checkout_payout"] = *md.RecipientPayout
		mismatch = mismatch || *md.RecipientPayout != fs.RecipientPayout
	}
	if md.PlatformFee != nil {
		fields["checkout_fee"] = *md.PlatformFee
		mismatch = mismatch || *md.PlatformFee != fs.PlatformFee
	}
	if mismatch {
		logrus.WithFields(fields).Warn("Checkout split differs from settlement split")
	}
}

func errorDetail(err error) string {
	var se *Error
	if errors.As(err, &se) && se.Err != nil {
		return fmt.Sprintf("%s (%s)", se.Error(), se.Err.Error())
	}
	return err.Error()
}
