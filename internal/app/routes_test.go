package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jeffleon2/draftea-settlement-service/internal/handler"
	"github.com/stretchr/testify/assert"
)

func TestRegisterRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	a := &App{Router: gin.New()}
	a.RegisterRoutes(handlers{
		webhook: handler.NewWebhookHandler(nil),
		voucher: handler.NewVoucherHandler(nil, nil),
		seats:   handler.NewSeatHandler(nil),
		ledger:  handler.NewLedgerHandler(nil, nil),
	})

	registered := map[string]bool{}
	for _, r := range a.Router.Routes() {
		registered[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"GET /healthz",
		"GET /metrics",
		"POST /webhooks/payments",
		"POST /sponsorships/:pool_id/reservations",
		"GET /vouchers/:code",
		"POST /vouchers/redeem",
		"POST /vouchers/:code/no-show",
		"GET /ledger/entries",
		"GET /ledger/payouts",
		"GET /transactions/:id",
	} {
		assert.True(t, registered[want], want)
	}

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
