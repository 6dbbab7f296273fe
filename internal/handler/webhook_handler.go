package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jeffleon2/draftea-settlement-service/internal/models"
	"github.com/jeffleon2/draftea-settlement-service/internal/service"
	"github.com/jeffleon2/draftea-settlement-service/internal/subscriber"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type EventDispatcher interface {
	Handle(ctx context.Context, raw []byte, signature string) (service.Result, error)
}

// WebhookHandler feeds gateway events to the dispatcher, whether they arrive
// as HTTP webhooks or relayed through Kafka.
type WebhookHandler struct {
	Dispatcher EventDispatcher
}

func NewWebhookHandler(d EventDispatcher) *WebhookHandler {
	return &WebhookHandler{Dispatcher: d}
}

// POST /webhooks/payments
func (h *WebhookHandler) Receive(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		badRequest(c, "unreadable_body")
		return
	}

	res, err := h.Dispatcher.Handle(c.Request.Context(), raw, c.GetHeader(models.SignatureHeader))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// HandleMessage processes a relayed gateway event. Errors that a redelivery
// cannot fix are marked permanent so the consumer dead-letters them at once.
func (h *WebhookHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	signature := ""
	for _, header := range msg.Headers {
		if header.Key == models.SignatureHeader {
			signature = string(header.Value)
			break
		}
	}

	res, err := h.Dispatcher.Handle(ctx, msg.Value, signature)
	if err != nil {
		if !service.IsRetriable(err) {
			return subscriber.Permanent(err)
		}
		return err
	}

	logrus.WithFields(logrus.Fields{
		"event_id":  res.EventID,
		"outcome":   res.Outcome,
		"duplicate": res.Duplicate,
		"offset":    msg.Offset,
	}).Info("Relayed gateway event handled")
	return nil
}
