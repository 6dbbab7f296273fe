package handler_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jeffleon2/draftea-settlement-service/internal/handler"
	"github.com/jeffleon2/draftea-settlement-service/internal/handler/mocks"
	"github.com/jeffleon2/draftea-settlement-service/internal/seats"
	"github.com/jeffleon2/draftea-settlement-service/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func seatRouter(s handler.SeatReserver) *gin.Engine {
	r := gin.New()
	r.POST("/sponsorships/:pool_id/reservations", handler.NewSeatHandler(s).Reserve)
	return r
}

func TestSeatReserve(t *testing.T) {
	s := mocks.NewMockSeatReserver(t)
	s.EXPECT().
		Reserve(mock.Anything, "pool_1", "user_1").
		Return(seats.Reservation{Status: seats.Reserved, Remaining: 4, SponsorID: "sponsor_1"}, nil).
		Once()

	w := serve(seatRouter(s), http.MethodPost, "/sponsorships/pool_1/reservations", []byte(`{"claimant_id":"user_1"}`), nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"remaining":4`)
}

func TestSeatReserve_Exhausted(t *testing.T) {
	s := mocks.NewMockSeatReserver(t)
	s.EXPECT().
		Reserve(mock.Anything, "pool_1", "user_1").
		Return(seats.Reservation{Status: seats.Exhausted, Reason: seats.ReasonPoolFull},
			&service.Error{Category: service.CategoryDeclined, Reason: seats.ReasonPoolFull}).
		Once()

	w := serve(seatRouter(s), http.MethodPost, "/sponsorships/pool_1/reservations", []byte(`{"claimant_id":"user_1"}`), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"exhausted"`)
	assert.Contains(t, w.Body.String(), seats.ReasonPoolFull)
}

func TestSeatReserve_UnknownPool(t *testing.T) {
	s := mocks.NewMockSeatReserver(t)
	s.EXPECT().
		Reserve(mock.Anything, "pool_x", "user_1").
		Return(seats.Reservation{}, &service.Error{Category: service.CategoryNotFound, Reason: "sponsorship_pool_not_found"}).
		Once()

	w := serve(seatRouter(s), http.MethodPost, "/sponsorships/pool_x/reservations", []byte(`{"claimant_id":"user_1"}`), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSeatReserve_MissingClaimant(t *testing.T) {
	s := mocks.NewMockSeatReserver(t)

	w := serve(seatRouter(s), http.MethodPost, "/sponsorships/pool_1/reservations", []byte(`{}`), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
