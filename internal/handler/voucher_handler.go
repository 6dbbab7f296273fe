package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jeffleon2/draftea-settlement-service/internal/models"
	"github.com/jeffleon2/draftea-settlement-service/internal/service"
	"github.com/sirupsen/logrus"
)

type VoucherService interface {
	Get(ctx context.Context, code string) (*models.Voucher, error)
	Redeem(ctx context.Context, code, redeemerID string) (*models.Voucher, error)
	MarkNoShow(ctx context.Context, code string) (*service.NoShowResult, error)
}

// RateLimiter counts attempts per key inside a window.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type VoucherHandler struct {
	Service VoucherService
	Limiter RateLimiter
}

func NewVoucherHandler(s VoucherService, l RateLimiter) *VoucherHandler {
	return &VoucherHandler{Service: s, Limiter: l}
}

type redeemRequest struct {
	Code       string `json:"code" binding:"required"`
	RedeemerID string `json:"redeemer_id" binding:"required"`
}

// GET /vouchers/:code
func (h *VoucherHandler) Get(c *gin.Context) {
	v, err := h.Service.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// POST /vouchers/redeem
func (h *VoucherHandler) Redeem(c *gin.Context) {
	var req redeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_request_body")
		return
	}

	if h.Limiter != nil {
		allowed, err := h.Limiter.Allow(c.Request.Context(), req.RedeemerID)
		if err != nil {
			// The limiter fails open.
			logrus.WithField("redeemer_id", req.RedeemerID).Warnf("Rate limiter unavailable: %s", err.Error())
		} else if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": service.CategoryRateLimited, "reason": "too_many_redemption_attempts"})
			return
		}
	}

	v, err := h.Service.Redeem(c.Request.Context(), req.Code, req.RedeemerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// POST /vouchers/:code/no-show
func (h *VoucherHandler) NoShow(c *gin.Context) {
	out, err := h.Service.MarkNoShow(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
