package memory

import (
	"context"
	"sync"

	"github.com/api-sage/movement-ledger/src/internal/domain"
	"github.com/api-sage/movement-ledger/src/internal/logger"
)

type Delivery struct {
	Recipient    string
	Notification domain.Notification
}

// Channel logs every notification and keeps it in memory. It backs
// NOTIFIER=log and local runs without a broker.
type Channel struct {
	mu         sync.Mutex
	deliveries []Delivery
}

func NewChannel() *Channel {
	return &Channel{}
}

func (c *Channel) SendToUser(_ context.Context, recipient string, notification domain.Notification) error {
	c.mu.Lock()
	c.deliveries = append(c.deliveries, Delivery{Recipient: recipient, Notification: notification})
	c.mu.Unlock()

	logger.Info("notification delivered", logger.Fields{
		"recipient":  recipient,
		"action":     notification.Action,
		"kind":       notification.Kind,
		"movementId": notification.Movement.ID,
	})
	return nil
}

func (c *Channel) Deliveries() []Delivery {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Delivery(nil), c.deliveries...)
}
