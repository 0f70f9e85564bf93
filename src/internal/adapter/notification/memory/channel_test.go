package memory_test

import (
	"context"
	"testing"

	"github.com/api-sage/movement-ledger/src/internal/adapter/notification/memory"
	"github.com/api-sage/movement-ledger/src/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelRecordsDeliveries(t *testing.T) {
	channel := memory.NewChannel()

	require.NoError(t, channel.SendToUser(context.Background(), "ana", domain.Notification{Action: domain.NotificationCreate}))
	require.NoError(t, channel.SendToUser(context.Background(), "luis", domain.Notification{Action: domain.NotificationDelete}))

	deliveries := channel.Deliveries()
	require.Len(t, deliveries, 2)
	assert.Equal(t, "ana", deliveries[0].Recipient)
	assert.Equal(t, domain.NotificationDelete, deliveries[1].Notification.Action)
}
