package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jeffleon2/draftea-settlement-service/internal/ledger"
	"github.com/jeffleon2/draftea-settlement-service/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type LedgerReader interface {
	Query(ctx context.Context, f ledger.Filter) ([]models.SettlementLedgerEntry, error)
	PayoutSummary(ctx context.Context, f ledger.Filter) ([]ledger.PayoutTotal, error)
}

type TransactionReader interface {
	GetByID(ctx context.Context, id string) (*models.Transaction, error)
}

// LedgerHandler is the read-only reporting surface.
type LedgerHandler struct {
	Ledger       LedgerReader
	Transactions TransactionReader
}

func NewLedgerHandler(l LedgerReader, t TransactionReader) *LedgerHandler {
	return &LedgerHandler{Ledger: l, Transactions: t}
}

// GET /ledger/entries
func (h *LedgerHandler) Entries(c *gin.Context) {
	f, ok := parseFilter(c)
	if !ok {
		return
	}

	entries, err := h.Ledger.Query(c.Request.Context(), f)
	if err != nil {
		logrus.Errorf("Error querying ledger: %s", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
}

// GET /ledger/payouts
func (h *LedgerHandler) Payouts(c *gin.Context) {
	f, ok := parseFilter(c)
	if !ok {
		return
	}

	totals, err := h.Ledger.PayoutSummary(c.Request.Context(), f)
	if err != nil {
		logrus.Errorf("Error summarising payouts: %s", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payouts": totals})
}

// GET /transactions/:id
func (h *LedgerHandler) Transaction(c *gin.Context) {
	txn, err := h.Transactions.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "reason": "transaction_not_found"})
		return
	}
	if err != nil {
		logrus.Errorf("Error loading transaction: %s", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		return
	}
	c.JSON(http.StatusOK, txn)
}

func parseFilter(c *gin.Context) (ledger.Filter, bool) {
	f := ledger.Filter{
		RecipientID: c.Query("recipient_id"),
		OfferingID:  c.Query("offering_id"),
	}

	for _, p := range []struct {
		name string
		dst  **time.Time
	}{{"from", &f.From}, {"to", &f.To}} {
		raw := c.Query(p.name)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			badRequest(c, "invalid_"+p.name)
			return f, false
		}
		*p.dst = &t
	}

	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			badRequest(c, "invalid_limit")
			return f, false
		}
		f.Limit = n
	}
	return f, true
}
