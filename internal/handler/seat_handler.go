package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jeffleon2/draftea-settlement-service/internal/seats"
	"github.com/jeffleon2/draftea-settlement-service/internal/service"
)

type SeatReserver interface {
	Reserve(ctx context.Context, poolID, claimantID string) (seats.Reservation, error)
}

type SeatHandler struct {
	Seats SeatReserver
}

func NewSeatHandler(s SeatReserver) *SeatHandler {
	return &SeatHandler{Seats: s}
}

type reserveRequest struct {
	ClaimantID string `json:"claimant_id" binding:"required"`
}

// POST /sponsorships/:pool_id/reservations
func (h *SeatHandler) Reserve(c *gin.Context) {
	var req reserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_request_body")
		return
	}

	r, err := h.Seats.Reserve(c.Request.Context(), c.Param("pool_id"), req.ClaimantID)
	if service.CategoryOf(err) == service.CategoryDeclined {
		c.JSON(http.StatusConflict, gin.H{
			"error":       service.CategoryDeclined,
			"reason":      service.ReasonOf(err),
			"reservation": r,
		})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}
