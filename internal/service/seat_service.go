package service

import (
	"context"
	"errors"

	"github.com/jeffleon2/draftea-settlement-service/internal/metrics"
	"github.com/jeffleon2/draftea-settlement-service/internal/seats"
)

// SeatService serves claims made directly by users rather than through a
// checkout.
type SeatService struct {
	Stores *Stores
}

func NewSeatService(stores *Stores) *SeatService {
	return &SeatService{Stores: stores}
}

func (s *SeatService) Reserve(ctx context.Context, poolID, claimantID string) (seats.Reservation, error) {
	r, err := s.Stores.Seats.Reserve(ctx, poolID, claimantID)
	switch {
	case errors.Is(err, seats.ErrPoolNotFound):
		return seats.Reservation{}, newError(CategoryNotFound, "sponsorship_pool_not_found", err)
	case errors.Is(err, seats.ErrInvalidClaim):
		return seats.Reservation{}, newError(CategoryMalformed, "invalid_claim", err)
	case err != nil:
		return seats.Reservation{}, newError(CategoryInternal, "seat_reservation", err)
	}

	metrics.SeatReservationsTotal.WithLabelValues(string(r.Status)).Inc()
	if r.Status != seats.Reserved {
		reason := string(r.Status)
		if r.Reason != "" {
			reason = r.Reason
		}
		return r, newError(CategoryDeclined, reason, nil)
	}
	return r, nil
}
