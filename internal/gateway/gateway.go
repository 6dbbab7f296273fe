// Package gateway re-reads payment metadata from the payment gateway when a
// delivered event does not carry enough of it.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

var (
	ErrNoReference = errors.New("no payment intent reference to fetch")
	ErrUnavailable = errors.New("gateway metadata unavailable")
)

const maxAttempts = 2

type MetadataSource interface {
	PaymentIntentMetadata(ctx context.Context, paymentIntentID string) (map[string]string, error)
}

// SourceFunc adapts a function to MetadataSource.
type SourceFunc func(ctx context.Context, paymentIntentID string) (map[string]string, error)

func (f SourceFunc) PaymentIntentMetadata(ctx context.Context, paymentIntentID string) (map[string]string, error) {
	return f(ctx, paymentIntentID)
}

// StripeSource reads PaymentIntent metadata through the Stripe API. Stripe's
// own network retries are disabled; Fetcher owns the retry policy.
type StripeSource struct {
	api *client.API
}

func NewStripeSource(secretKey string) *StripeSource {
	backends := &stripe.Backends{
		API: stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
			MaxNetworkRetries: stripe.Int64(0),
		}),
	}
	return &StripeSource{api: client.New(secretKey, backends)}
}

func (s *StripeSource) PaymentIntentMetadata(ctx context.Context, paymentIntentID string) (map[string]string, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := s.api.PaymentIntents.Get(paymentIntentID, params)
	if err != nil {
		return nil, fmt.Errorf("get payment intent %s: %w", paymentIntentID, err)
	}
	return pi.Metadata, nil
}

// Fetcher bounds each gateway call by Timeout and retries once after
// RetryDelay.
type Fetcher struct {
	Source     MetadataSource
	Timeout    time.Duration
	RetryDelay time.Duration
}

func NewFetcher(source MetadataSource, timeout, retryDelay time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Fetcher{Source: source, Timeout: timeout, RetryDelay: retryDelay}
}

func (f *Fetcher) Fetch(ctx context.Context, paymentIntentID string) (map[string]string, error) {
	if paymentIntentID == "" {
		return nil, ErrNoReference
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(f.RetryDelay * time.Duration(attempt)):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, f.Timeout)
		md, err := f.Source.PaymentIntentMetadata(callCtx, paymentIntentID)
		cancel()
		if err == nil {
			return md, nil
		}

		lastErr = err
		logrus.WithFields(logrus.Fields{
			"payment_intent_id": paymentIntentID,
			"attempt":           attempt + 1,
		}).Warnf("Gateway metadata fetch failed: %s", err.Error())
	}

	return nil, fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
}
