package service_interfaces

import "github.com/api-sage/movement-ledger/src/internal/domain"

// NotificationService hands a movement off for delivery and returns at once.
type NotificationService interface {
	Notify(action domain.NotificationAction, movement domain.Movement)
}
