package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/api-sage/movement-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/movement-ledger/src/internal/domain"
	"github.com/api-sage/movement-ledger/src/internal/usecase/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recoveryFixture struct {
	store   *memory.Store
	clock   *fakeClock
	service *services.TransferRecoveryService
}

func newRecoveryFixture() *recoveryFixture {
	store := memory.NewDemoStore()
	clock := newFakeClock()
	store.Journal = memory.NewTransferJournalWithClock(clock.Now)

	service := services.NewTransferRecoveryService(
		store.Journal,
		store.Accounts,
		store.Movements,
		5*time.Minute,
		services.WithRecoveryClock(clock.Now),
	)
	return &recoveryFixture{store: store, clock: clock, service: service}
}

// setBalance overwrites a balance the way a half-applied write would have left it.
func (f *recoveryFixture) setBalance(t *testing.T, iban string, value int64) {
	t.Helper()
	account, err := f.store.Accounts.GetByIBAN(context.Background(), iban)
	require.NoError(t, err)
	require.NoError(t, f.store.Accounts.UpdateBalance(context.Background(), account.ID, account.Version, decimal.NewFromInt(value)))
}

func (f *recoveryFixture) openIntent(t *testing.T, intent domain.TransferIntent, stage domain.TransferStage) {
	t.Helper()
	_, err := f.store.Journal.Open(context.Background(), intent)
	require.NoError(t, err)
	if stage != domain.TransferStagePending {
		require.NoError(t, f.store.Journal.Advance(context.Background(), intent.ID, stage))
	}
}

func (f *recoveryFixture) requireBalance(t *testing.T, iban string, want int64) {
	t.Helper()
	account, err := f.store.Accounts.GetByIBAN(context.Background(), iban)
	require.NoError(t, err)
	require.Truef(t, account.Balance.Equal(decimal.NewFromInt(want)), "balance of %s: want %d, got %s", iban, want, account.Balance)
}

func (f *recoveryFixture) stage(t *testing.T, id string) domain.TransferStage {
	t.Helper()
	intent, ok := f.store.Journal.Get(id)
	require.True(t, ok)
	return intent.Stage
}

func transferIntent(id string) domain.TransferIntent {
	return domain.TransferIntent{
		ID:                    id,
		Kind:                  domain.TransferIntentTransfer,
		DebitIBAN:             anaIBAN,
		CreditIBAN:            luisIBAN,
		Amount:                decimal.NewFromInt(100),
		OriginMovementID:      id + "-origin",
		DestinationMovementID: id + "-destination",
	}
}

func TestRecoverSkipsFreshIntents(t *testing.T) {
	f := newRecoveryFixture()
	f.openIntent(t, transferIntent("fresh"), domain.TransferStageDebited)

	f.clock.Advance(time.Minute)
	report, err := f.service.Recover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.RecoveryReport{}, report)
	assert.Equal(t, domain.TransferStageDebited, f.stage(t, "fresh"))
}

func TestRecoverAbandonsPendingIntent(t *testing.T) {
	f := newRecoveryFixture()
	f.openIntent(t, transferIntent("pending"), domain.TransferStagePending)

	f.clock.Advance(10 * time.Minute)
	report, err := f.service.Recover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Abandoned)
	assert.Equal(t, domain.TransferStageAbandoned, f.stage(t, "pending"))
	f.requireBalance(t, anaIBAN, 1000)
}

func TestRecoverRecreditsDebitedIntent(t *testing.T) {
	f := newRecoveryFixture()
	f.setBalance(t, anaIBAN, 900)
	f.openIntent(t, transferIntent("debited"), domain.TransferStageDebited)

	f.clock.Advance(10 * time.Minute)
	report, err := f.service.Recover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Compensated)
	assert.Equal(t, domain.TransferStageCompensated, f.stage(t, "debited"))
	f.requireBalance(t, anaIBAN, 1000)
	f.requireBalance(t, luisIBAN, 250)
}

func TestRecoverCompletesCreditedTransferWithRecords(t *testing.T) {
	f := newRecoveryFixture()
	intent := transferIntent("credited")
	f.setBalance(t, anaIBAN, 900)
	f.setBalance(t, luisIBAN, 350)
	_, err := f.store.Movements.Insert(context.Background(), domain.Movement{
		ID:      intent.OriginMovementID,
		OwnerID: "owner-ana",
		Payload: domain.Transfer{Amount: decimal.NewFromInt(-100)},
	})
	require.NoError(t, err)
	f.openIntent(t, intent, domain.TransferStageCredited)

	f.clock.Advance(10 * time.Minute)
	report, err := f.service.Recover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Completed)
	assert.Equal(t, domain.TransferStageCompleted, f.stage(t, intent.ID))
	f.requireBalance(t, anaIBAN, 900)
	f.requireBalance(t, luisIBAN, 350)
}

func TestRecoverCompensatesCreditedTransferWithoutOrigin(t *testing.T) {
	f := newRecoveryFixture()
	intent := transferIntent("orphan")
	f.setBalance(t, anaIBAN, 900)
	f.setBalance(t, luisIBAN, 350)
	_, err := f.store.Movements.Insert(context.Background(), domain.Movement{
		ID:      intent.DestinationMovementID,
		OwnerID: "owner-luis",
		Payload: domain.Transfer{Amount: decimal.NewFromInt(100)},
	})
	require.NoError(t, err)
	f.openIntent(t, intent, domain.TransferStageCredited)

	f.clock.Advance(10 * time.Minute)
	report, err := f.service.Recover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Compensated)
	assert.Equal(t, domain.TransferStageCompensated, f.stage(t, intent.ID))
	f.requireBalance(t, anaIBAN, 1000)
	f.requireBalance(t, luisIBAN, 250)

	orphan, err := f.store.Movements.GetByID(context.Background(), intent.DestinationMovementID)
	require.NoError(t, err)
	assert.True(t, orphan.Deleted)
}

func TestRecoverFinishesHalfDeletedReversal(t *testing.T) {
	f := newRecoveryFixture()
	ctx := context.Background()
	intent := domain.TransferIntent{
		ID:                    "reversal",
		Kind:                  domain.TransferIntentReversal,
		DebitIBAN:             luisIBAN,
		CreditIBAN:            anaIBAN,
		Amount:                decimal.NewFromInt(100),
		OriginMovementID:      "origin",
		DestinationMovementID: "destination",
	}
	_, err := f.store.Movements.Insert(ctx, domain.Movement{ID: "destination", OwnerID: "owner-luis", Payload: domain.Transfer{Amount: decimal.NewFromInt(100)}})
	require.NoError(t, err)
	_, err = f.store.Movements.Insert(ctx, domain.Movement{ID: "origin", OwnerID: "owner-ana", Deleted: true, Payload: domain.Transfer{Amount: decimal.NewFromInt(-100)}})
	require.NoError(t, err)
	f.openIntent(t, intent, domain.TransferStageCredited)

	f.clock.Advance(10 * time.Minute)
	report, err := f.service.Recover(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Completed)

	destination, err := f.store.Movements.GetByID(ctx, "destination")
	require.NoError(t, err)
	assert.True(t, destination.Deleted)
}

func TestRecoverCountsFailuresAndRetriesLater(t *testing.T) {
	f := newRecoveryFixture()
	intent := transferIntent("broken")
	intent.DebitIBAN = "GB82WEST12345698765432"
	f.openIntent(t, intent, domain.TransferStageDebited)

	f.clock.Advance(10 * time.Minute)
	report, err := f.service.Recover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Inspected)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, domain.TransferStageDebited, f.stage(t, intent.ID))
}

func TestRecoverCompletesLaggingIntentWhoseLegsExist(t *testing.T) {
	for _, stage := range []domain.TransferStage{domain.TransferStagePending, domain.TransferStageDebited} {
		t.Run(string(stage), func(t *testing.T) {
			f := newRecoveryFixture()
			intent := transferIntent("lagging")
			f.setBalance(t, anaIBAN, 900)
			f.setBalance(t, luisIBAN, 350)
			_, err := f.store.Movements.Insert(context.Background(), domain.Movement{
				ID:      intent.OriginMovementID,
				OwnerID: "owner-ana",
				Payload: domain.Transfer{Amount: decimal.NewFromInt(-100)},
			})
			require.NoError(t, err)
			f.openIntent(t, intent, stage)

			f.clock.Advance(10 * time.Minute)
			report, err := f.service.Recover(context.Background())
			require.NoError(t, err)
			assert.Equal(t, domain.RecoveryReport{Inspected: 1, Completed: 1}, report)
			assert.Equal(t, domain.TransferStageCompleted, f.stage(t, intent.ID))
			f.requireBalance(t, anaIBAN, 900)
			f.requireBalance(t, luisIBAN, 350)
		})
	}
}

func TestRecoverCompletesReversalWithDeletedOriginAtAnyStage(t *testing.T) {
	f := newRecoveryFixture()
	ctx := context.Background()
	intent := domain.TransferIntent{
		ID:                    "reversal",
		Kind:                  domain.TransferIntentReversal,
		DebitIBAN:             luisIBAN,
		CreditIBAN:            anaIBAN,
		Amount:                decimal.NewFromInt(100),
		OriginMovementID:      "origin",
		DestinationMovementID: "destination",
	}
	_, err := f.store.Movements.Insert(ctx, domain.Movement{ID: "destination", OwnerID: "owner-luis", Deleted: true, Payload: domain.Transfer{Amount: decimal.NewFromInt(100)}})
	require.NoError(t, err)
	_, err = f.store.Movements.Insert(ctx, domain.Movement{ID: "origin", OwnerID: "owner-ana", Deleted: true, Payload: domain.Transfer{Amount: decimal.NewFromInt(-100)}})
	require.NoError(t, err)
	f.openIntent(t, intent, domain.TransferStageDebited)

	f.clock.Advance(10 * time.Minute)
	report, err := f.service.Recover(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Completed)
	f.requireBalance(t, anaIBAN, 1000)
	f.requireBalance(t, luisIBAN, 250)
}
