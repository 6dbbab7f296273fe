package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (a *App) RegisterRoutes(h handlers) {
	a.Router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	a.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	a.Router.POST("/webhooks/payments", h.webhook.Receive)

	sponsorships := a.Router.Group("/sponsorships")
	sponsorships.POST("/:pool_id/reservations", h.seats.Reserve)

	vouchers := a.Router.Group("/vouchers")
	vouchers.POST("/redeem", h.voucher.Redeem)
	vouchers.GET("/:code", h.voucher.Get)
	vouchers.POST("/:code/no-show", h.voucher.NoShow)

	ledger := a.Router.Group("/ledger")
	ledger.GET("/entries", h.ledger.Entries)
	ledger.GET("/payouts", h.ledger.Payouts)

	a.Router.GET("/transactions/:id", h.ledger.Transaction)
}
