package domain

import "time"

type NotificationAction string

const (
	NotificationCreate NotificationAction = "CREATE"
	NotificationDelete NotificationAction = "DELETE"
)

// Notification is the message pushed to a user whenever a movement touching
// one of their accounts is created or removed.
type Notification struct {
	Action   NotificationAction `json:"action"`
	Kind     MovementKind       `json:"kind"`
	Movement Movement           `json:"movement"`
	SentAt   time.Time          `json:"sentAt"`
}
