// Package seats hands out sponsored seats from bounded pools.
package seats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jeffleon2/draftea-settlement-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Status string

const (
	Reserved       Status = "reserved"
	Exhausted      Status = "exhausted"
	AlreadyClaimed Status = "already_claimed"
)

const (
	ReasonPoolFull     = "pool_full"
	ReasonPoolInactive = "pool_inactive"
)

var (
	ErrPoolNotFound = errors.New("sponsorship pool not found")
	ErrInvalidClaim = errors.New("pool id and claimant id are required")

	errNotReserved = errors.New("seat not reserved")
)

// Reservation is the outcome of a claim. Exhausted and AlreadyClaimed are
// ordinary results, not errors. Held marks a reservation that took over a
// seat the claimant was already holding, BoundTo names the purchase an
// AlreadyClaimed seat was spent on.
type Reservation struct {
	Status    Status `json:"status"`
	Remaining int    `json:"remaining"`
	SponsorID string `json:"sponsor_id,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Held      bool   `json:"held,omitempty"`
	BoundTo   string `json:"-"`
}

type Allocator struct {
	db *gorm.DB
}

func NewAllocator(db *gorm.DB) *Allocator {
	return &Allocator{db: db}
}

// WithTx binds the allocator to an outer transaction. Claims then run in a
// savepoint, so a refused claim leaves the outer transaction usable.
func (a *Allocator) WithTx(tx *gorm.DB) *Allocator {
	return &Allocator{db: tx}
}

// Reserve holds one seat of poolID for claimantID ahead of a purchase.
//
// The claim row and the seat counter move together: the claim is inserted if
// absent, then used_seats is incremented only while it is below total_seats
// on an active pool. If the increment matches no row the claim is rolled back
// and the pool is reported exhausted. Concurrent callers therefore never push
// used_seats past total_seats and a claimant never holds two seats.
func (a *Allocator) Reserve(ctx context.Context, poolID, claimantID string) (Reservation, error) {
	return a.run(ctx, poolID, claimantID, func(tx *gorm.DB) (Reservation, error) {
		return claim(tx, poolID, claimantID, nil)
	})
}

// Consume spends a seat of poolID on the purchase transactionID. A hold the
// claimant already has is bound to the purchase without moving the counter,
// otherwise a seat is claimed as in Reserve. A seat already spent on another
// purchase is reported AlreadyClaimed with BoundTo set.
func (a *Allocator) Consume(ctx context.Context, poolID, claimantID, transactionID string) (Reservation, error) {
	if transactionID == "" {
		return Reservation{}, ErrInvalidClaim
	}
	return a.run(ctx, poolID, claimantID, func(tx *gorm.DB) (Reservation, error) {
		return claim(tx, poolID, claimantID, &transactionID)
	})
}

// Rebind moves the claimant's seat from the purchase from to the purchase to,
// taking a fresh seat for it. The seat spent on from stays counted.
func (a *Allocator) Rebind(ctx context.Context, poolID, claimantID, from, to string) (Reservation, error) {
	if from == "" || to == "" {
		return Reservation{}, ErrInvalidClaim
	}
	return a.run(ctx, poolID, claimantID, func(tx *gorm.DB) (Reservation, error) {
		r, err := increment(tx, poolID)
		if err != nil || r.Status != Reserved {
			return r, err
		}
		res := tx.Model(&models.SeatClaim{}).
			Where("pool_id = ? AND claimant_id = ? AND transaction_id = ?", poolID, claimantID, from).
			Updates(map[string]interface{}{"transaction_id": to, "updated_at": time.Now().UTC()})
		if res.Error != nil {
			return Reservation{}, fmt.Errorf("rebind seat claim: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			r.Status = AlreadyClaimed
			r.Remaining++
		}
		return r, nil
	})
}

// Remaining reports the free seats of a pool.
func (a *Allocator) Remaining(ctx context.Context, poolID string) (int, error) {
	pool, err := loadPool(a.db.WithContext(ctx), poolID)
	if err != nil {
		return 0, err
	}
	return pool.Remaining(), nil
}

func (a *Allocator) run(ctx context.Context, poolID, claimantID string, fn func(tx *gorm.DB) (Reservation, error)) (Reservation, error) {
	if poolID == "" || claimantID == "" {
		return Reservation{}, ErrInvalidClaim
	}

	var out Reservation
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := fn(tx)
		if err != nil {
			return err
		}
		out = r
		if r.Status != Reserved {
			return errNotReserved
		}
		return nil
	})
	if errors.Is(err, errNotReserved) {
		return out, nil
	}
	if err != nil {
		return Reservation{}, err
	}
	return out, nil
}

func claim(tx *gorm.DB, poolID, claimantID string, transactionID *string) (Reservation, error) {
	c := models.SeatClaim{PoolID: poolID, ClaimantID: claimantID, TransactionID: transactionID}
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "pool_id"}, {Name: "claimant_id"}},
		DoNothing: true,
	}).Create(&c)
	if res.Error != nil {
		return Reservation{}, fmt.Errorf("insert seat claim: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return takeOver(tx, poolID, claimantID, transactionID)
	}
	return increment(tx, poolID)
}

// takeOver binds an existing unbound hold to transactionID. Any other
// existing claim is reported AlreadyClaimed.
func takeOver(tx *gorm.DB, poolID, claimantID string, transactionID *string) (Reservation, error) {
	var existing models.SeatClaim
	if err := tx.Where("pool_id = ? AND claimant_id = ?", poolID, claimantID).First(&existing).Error; err != nil {
		return Reservation{}, fmt.Errorf("load seat claim: %w", err)
	}
	pool, err := loadPool(tx, poolID)
	if err != nil {
		return Reservation{}, err
	}

	out := Reservation{Status: AlreadyClaimed, Remaining: pool.Remaining(), SponsorID: pool.SponsorID}
	if existing.TransactionID != nil {
		out.BoundTo = *existing.TransactionID
		return out, nil
	}
	if transactionID == nil {
		return out, nil
	}

	res := tx.Model(&models.SeatClaim{}).
		Where("id = ? AND transaction_id IS NULL", existing.ID).
		Updates(map[string]interface{}{"transaction_id": *transactionID, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return Reservation{}, fmt.Errorf("bind seat claim: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return out, nil
	}
	out.Status = Reserved
	out.Held = true
	return out, nil
}

func increment(tx *gorm.DB, poolID string) (Reservation, error) {
	upd := tx.Model(&models.SponsorshipPool{}).
		Where("id = ? AND is_active = ? AND used_seats < total_seats", poolID, true).
		Updates(map[string]interface{}{
			"used_seats": gorm.Expr("used_seats + ?", 1),
			"updated_at": time.Now().UTC(),
		})
	if upd.Error != nil {
		return Reservation{}, fmt.Errorf("increment used seats: %w", upd.Error)
	}

	pool, err := loadPool(tx, poolID)
	if err != nil {
		return Reservation{}, err
	}

	if upd.RowsAffected == 0 {
		reason := ReasonPoolFull
		if !pool.IsActive {
			reason = ReasonPoolInactive
		}
		return Reservation{Status: Exhausted, Remaining: pool.Remaining(), SponsorID: pool.SponsorID, Reason: reason}, nil
	}

	return Reservation{Status: Reserved, Remaining: pool.Remaining(), SponsorID: pool.SponsorID}, nil
}

func loadPool(db *gorm.DB, poolID string) (*models.SponsorshipPool, error) {
	var pool models.SponsorshipPool
	err := db.Where("id = ?", poolID).First(&pool).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrPoolNotFound, poolID)
	}
	if err != nil {
		return nil, fmt.Errorf("load pool %s: %w", poolID, err)
	}
	return &pool, nil
}
