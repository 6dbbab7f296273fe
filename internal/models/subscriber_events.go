package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	GatewayEventsTopic   = "gateway.events"
	SignatureHeader      = "X-Settlement-Signature"
	CurrentSchemaVersion = 1
)

type EventType string

const (
	EventCheckoutCompleted EventType = "checkout_completed"
	EventPaymentFailed     EventType = "payment_failed"
	EventAccountUpdated    EventType = "account_updated"
)

var (
	ErrMalformedEvent       = errors.New("malformed event")
	ErrInsufficientMetadata = errors.New("insufficient event metadata")
)

// PaymentEvent is the versioned envelope the gateway delivers. Amounts in
// Metadata are minor units.
type PaymentEvent struct {
	SchemaVersion int           `json:"schema_version" validate:"eq=1"`
	EventID       string        `json:"event_id" validate:"required,max=191"`
	EventType     EventType     `json:"event_type" validate:"required,oneof=checkout_completed payment_failed account_updated"`
	OccurredAt    time.Time     `json:"occurred_at" validate:"required"`
	Metadata      EventMetadata `json:"metadata"`
}

type EventMetadata struct {
	TransactionID       string `json:"transaction_id" validate:"required"`
	PaymentIntentID     string `json:"payment_intent_id"`
	BuyerID             string `json:"buyer_id" validate:"required"`
	OfferingID          string `json:"offering_id" validate:"required"`
	RecipientID         string `json:"recipient_id" validate:"required"`
	BasePrice           int64  `json:"base_price" validate:"required,gt=0"`
	SponsorshipPoolID   string `json:"sponsorship_pool_id"`
	SponsorCreditID     string `json:"sponsor_credit_id"`
	SponsorContribution int64  `json:"sponsor_contribution" validate:"gte=0"`
	LoyaltyPointsUsed   int64  `json:"loyalty_points_used" validate:"gte=0"`
	LoyaltyDiscount     int64  `json:"loyalty_discount" validate:"gte=0"`
	PlatformCreditUsed  int64  `json:"platform_credit_used" validate:"gte=0"`
	RecipientPayout     *int64 `json:"recipient_payout,omitempty" validate:"omitempty,gte=0"`
	PlatformFee         *int64 `json:"platform_fee,omitempty" validate:"omitempty,gte=0"`
	FailureReason       string `json:"failure_reason,omitempty"`
	PayoutsEnabled      *bool  `json:"payouts_enabled,omitempty" validate:"required"`
}

var metadataFields = map[EventType][]string{
	EventCheckoutCompleted: {
		"TransactionID", "BuyerID", "OfferingID", "RecipientID", "BasePrice",
		"SponsorContribution", "LoyaltyPointsUsed", "LoyaltyDiscount", "PlatformCreditUsed",
		"RecipientPayout", "PlatformFee",
	},
	EventPaymentFailed:  {"TransactionID"},
	EventAccountUpdated: {"RecipientID", "PayoutsEnabled"},
}

// Validate checks the envelope and the metadata required by the event type.
// A wrong or negative value wraps ErrMalformedEvent; a missing value wraps
// ErrInsufficientMetadata so the caller can try to recover it.
func (e *PaymentEvent) Validate(v *validator.Validate) error {
	if err := v.StructExcept(e, "Metadata"); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedEvent, describe(err))
	}

	return e.Metadata.validateFor(v, e.EventType)
}

func (m *EventMetadata) validateFor(v *validator.Validate, eventType EventType) error {
	err := v.StructPartial(m, metadataFields[eventType]...)
	if err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %s", ErrMalformedEvent, err.Error())
		}
		var missing []string
		for _, fe := range verrs {
			if fe.Tag() != "required" {
				return fmt.Errorf("%w: %s", ErrMalformedEvent, describe(err))
			}
			missing = append(missing, fe.Field())
		}
		return fmt.Errorf("%w: missing %s", ErrInsufficientMetadata, strings.Join(missing, ","))
	}

	if eventType == EventCheckoutCompleted && m.SponsorContribution > 0 && m.SponsorshipPoolID == "" {
		return fmt.Errorf("%w: missing SponsorshipPoolID", ErrInsufficientMetadata)
	}
	return nil
}

// MergeGatewayMetadata fills empty fields from metadata fetched from the
// gateway. Values already present on the event win.
func (m *EventMetadata) MergeGatewayMetadata(src map[string]string) error {
	strs := map[string]*string{
		"transaction_id":      &m.TransactionID,
		"payment_intent_id":   &m.PaymentIntentID,
		"buyer_id":            &m.BuyerID,
		"offering_id":         &m.OfferingID,
		"recipient_id":        &m.RecipientID,
		"sponsorship_pool_id": &m.SponsorshipPoolID,
		"sponsor_credit_id":   &m.SponsorCreditID,
	}
	for key, dst := range strs {
		if *dst == "" {
			*dst = strings.TrimSpace(src[key])
		}
	}

	ints := map[string]*int64{
		"base_price":           &m.BasePrice,
		"sponsor_contribution": &m.SponsorContribution,
		"loyalty_points_used":  &m.LoyaltyPointsUsed,
		"loyalty_discount":     &m.LoyaltyDiscount,
		"platform_credit_used": &m.PlatformCreditUsed,
	}
	for key, dst := range ints {
		raw, ok := src[key]
		if !ok || *dst != 0 {
			continue
		}
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return fmt.Errorf("%w: gateway metadata %s=%q", ErrMalformedEvent, key, raw)
		}
		*dst = n
	}
	return nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
