package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/api-sage/movement-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/movement-ledger/src/internal/domain"
	"github.com/api-sage/movement-ledger/src/internal/usecase/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentNotification struct {
	Recipient    string
	Notification domain.Notification
}

type recordingChannel struct {
	mu   sync.Mutex
	sent []sentNotification
	err  error
}

func (c *recordingChannel) SendToUser(_ context.Context, recipient string, notification domain.Notification) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, sentNotification{Recipient: recipient, Notification: notification})
	return nil
}

func (c *recordingChannel) Sent() []sentNotification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]sentNotification(nil), c.sent...)
}

func newNotificationService(store *memory.Store, channel *recordingChannel) *services.NotificationService {
	return services.NewNotificationService(store.Accounts, store.Owners, store.Users, channel, time.Second)
}

func TestNotificationServiceRoutesByKind(t *testing.T) {
	counterpart := "dest-leg"
	tests := []struct {
		name     string
		payload  domain.Payload
		expected string
	}{
		{
			name:     "direct debit goes to the debited owner",
			payload:  domain.DirectDebit{SourceIBAN: anaIBAN, DestinationIBAN: luisIBAN, Amount: amount(5)},
			expected: "ana",
		},
		{
			name:     "payroll goes to the credited owner",
			payload:  domain.PayrollDeposit{SourceIBAN: anaIBAN, DestinationIBAN: luisIBAN, Amount: amount(5)},
			expected: "luis",
		},
		{
			name:     "card payment goes to the card holder",
			payload:  domain.CardPayment{CardNumber: anaCard, Amount: amount(5)},
			expected: "ana",
		},
		{
			name:     "positive transfer leg goes to the beneficiary",
			payload:  domain.Transfer{SourceIBAN: anaIBAN, DestinationIBAN: luisIBAN, Amount: amount(5)},
			expected: "luis",
		},
		{
			name:     "negative transfer leg goes to the payer",
			payload:  domain.Transfer{SourceIBAN: anaIBAN, DestinationIBAN: luisIBAN, Amount: amount(-5), CounterpartMovementID: &counterpart},
			expected: "ana",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			channel := &recordingChannel{}
			svc := newNotificationService(memory.NewDemoStore(), channel)

			svc.Notify(domain.NotificationCreate, domain.Movement{ID: "m1", Payload: tt.payload})
			svc.Wait()

			sent := channel.Sent()
			require.Len(t, sent, 1)
			assert.Equal(t, tt.expected, sent[0].Recipient)
			assert.Equal(t, domain.NotificationCreate, sent[0].Notification.Action)
			assert.Equal(t, tt.payload.Kind(), sent[0].Notification.Kind)
			assert.Equal(t, "m1", sent[0].Notification.Movement.ID)
			assert.False(t, sent[0].Notification.SentAt.IsZero())
		})
	}
}

func TestNotificationServiceDropsUnresolvableTargets(t *testing.T) {
	store := memory.NewDemoStore()
	store.Owners.Put(domain.Owner{ID: "owner-orphan", UserID: "user-missing"})
	store.Accounts.Put(domain.Account{ID: "account-orphan", IBAN: "DE89370400440532013000", OwnerID: "owner-orphan"})

	channel := &recordingChannel{}
	svc := newNotificationService(store, channel)

	svc.Notify(domain.NotificationCreate, domain.Movement{
		ID:      "unknown-account",
		Payload: domain.DirectDebit{SourceIBAN: "GB82WEST12345698765432"},
	})
	svc.Notify(domain.NotificationDelete, domain.Movement{
		ID:      "unknown-user",
		Payload: domain.DirectDebit{SourceIBAN: "DE89370400440532013000"},
	})
	svc.Notify(domain.NotificationCreate, domain.Movement{ID: "no-payload"})
	svc.Wait()

	assert.Empty(t, channel.Sent())
}

func TestNotificationServiceSwallowsChannelErrors(t *testing.T) {
	channel := &recordingChannel{err: errors.New("socket closed")}
	svc := newNotificationService(memory.NewDemoStore(), channel)

	assert.NotPanics(t, func() {
		svc.Notify(domain.NotificationCreate, domain.Movement{
			ID:      "m1",
			Payload: domain.CardPayment{CardNumber: anaCard, Amount: amount(1)},
		})
		svc.Wait()
	})
	assert.Empty(t, channel.Sent())
}
