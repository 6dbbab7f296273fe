package service

import (
	"context"
	"sync"
	"time"

	"github.com/jeffleon2/draftea-settlement-service/internal/models"
	"github.com/sirupsen/logrus"
)

// Publisher defines the interface for publishing events to Kafka topics.
type Publisher interface {
	Publish(ctx context.Context, topic string, message interface{}) error
}

// AsyncNotifier hands notification requests to the publisher without making
// the caller wait. Each send runs on its own context bounded by Timeout, so
// it survives the request that triggered it. Wait blocks until every pending
// send has finished.
type AsyncNotifier struct {
	Publisher Publisher
	Timeout   time.Duration
	wg        sync.WaitGroup
}

func NewAsyncNotifier(p Publisher, timeout time.Duration) *AsyncNotifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &AsyncNotifier{Publisher: p, Timeout: timeout}
}

func (n *AsyncNotifier) Send(kind models.NotificationKind, recipientID string, data map[string]string) {
	req := models.NotificationRequested{
		Kind:        kind,
		RecipientID: recipientID,
		Data:        data,
		RequestedAt: time.Now().UTC(),
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), n.Timeout)
		defer cancel()

		if err := n.Publisher.Publish(ctx, models.NotificationsTopic, req); err != nil {
			logrus.WithFields(logrus.Fields{
				"kind":         kind,
				"recipient_id": recipientID,
			}).Errorf("Error publishing notification: %s", err.Error())
		}
	}()
}

func (n *AsyncNotifier) Wait() {
	n.wg.Wait()
}
