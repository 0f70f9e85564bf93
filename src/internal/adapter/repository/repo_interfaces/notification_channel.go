package repo_interfaces

import (
	"context"

	"github.com/api-sage/movement-ledger/src/internal/domain"
)

type NotificationChannel interface {
	SendToUser(ctx context.Context, recipient string, notification domain.Notification) error
}
