package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/api-sage/movement-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/movement-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/movement-ledger/src/internal/domain"
	"github.com/api-sage/movement-ledger/src/internal/usecase/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	anaIBAN  = "ES9121000418450200051332"
	luisIBAN = "ES6000491500051234567892"
	anaCard  = "4539578763621486"
	anaUser  = "user-ana"
	luisUser = "user-luis"
)

var errStoreDown = errors.New("store unavailable")

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordedNotification struct {
	Action   domain.NotificationAction
	Movement domain.Movement
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []recordedNotification
}

func (n *recordingNotifier) Notify(action domain.NotificationAction, movement domain.Movement) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedNotification{Action: action, Movement: movement})
}

func (n *recordingNotifier) Events() []recordedNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]recordedNotification(nil), n.events...)
}

// failingMovementRepository fails the n-th Insert, the n-th Update, or every
// Update from failUpdatesFrom on.
type failingMovementRepository struct {
	*memory.MovementRepository
	mu              sync.Mutex
	failInsertAt    int
	failUpdateAt    int
	failUpdatesFrom int
	inserts         int
	updates         int
}

func (r *failingMovementRepository) Insert(ctx context.Context, movement domain.Movement) (domain.Movement, error) {
	r.mu.Lock()
	r.inserts++
	fail := r.inserts == r.failInsertAt
	r.mu.Unlock()
	if fail {
		return domain.Movement{}, errStoreDown
	}
	return r.MovementRepository.Insert(ctx, movement)
}

func (r *failingMovementRepository) Update(ctx context.Context, movement domain.Movement) (domain.Movement, error) {
	r.mu.Lock()
	r.updates++
	fail := r.updates == r.failUpdateAt || (r.failUpdatesFrom > 0 && r.updates >= r.failUpdatesFrom)
	r.mu.Unlock()
	if fail {
		return domain.Movement{}, errStoreDown
	}
	return r.MovementRepository.Update(ctx, movement)
}

// failingAccountRepository fails the first balance write to one account.
type failingAccountRepository struct {
	*memory.AccountRepository
	mu        sync.Mutex
	accountID string
	failed    bool
}

func (r *failingAccountRepository) UpdateBalance(ctx context.Context, accountID string, expectedVersion int64, newBalance decimal.Decimal) error {
	r.mu.Lock()
	fail := accountID == r.accountID && !r.failed
	if fail {
		r.failed = true
	}
	r.mu.Unlock()
	if fail {
		return errStoreDown
	}
	return r.AccountRepository.UpdateBalance(ctx, accountID, expectedVersion, newBalance)
}

// failingJournal fails Advance to the listed stages until healed.
type failingJournal struct {
	*memory.TransferJournal
	mu   sync.Mutex
	fail map[domain.TransferStage]bool
}

func (j *failingJournal) Advance(ctx context.Context, intentID string, stage domain.TransferStage) error {
	j.mu.Lock()
	fail := j.fail[stage]
	j.mu.Unlock()
	if fail {
		return errStoreDown
	}
	return j.TransferJournal.Advance(ctx, intentID, stage)
}

func (j *failingJournal) heal() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fail = nil
}

type engineFixture struct {
	store    *memory.Store
	journal  repo_interfaces.TransferJournal
	clock    *fakeClock
	notifier *recordingNotifier
	service  *services.MovementService
}

type fixtureOption func(*fixtureDeps)

type fixtureDeps struct {
	store     *memory.Store
	accounts  repo_interfaces.AccountRepository
	movements repo_interfaces.MovementRepository
	journal   repo_interfaces.TransferJournal
}

func failingBalanceWrite(accountID string) fixtureOption {
	return func(d *fixtureDeps) {
		d.accounts = &failingAccountRepository{AccountRepository: d.store.Accounts, accountID: accountID}
	}
}

func failingMovementInsert(n int) fixtureOption {
	return func(d *fixtureDeps) {
		d.movements = &failingMovementRepository{MovementRepository: d.store.Movements, failInsertAt: n}
	}
}

func failingMovementUpdate(n int) fixtureOption {
	return func(d *fixtureDeps) {
		d.movements = &failingMovementRepository{MovementRepository: d.store.Movements, failUpdateAt: n}
	}
}

func failingMovementUpdatesFrom(n int) fixtureOption {
	return func(d *fixtureDeps) {
		d.movements = &failingMovementRepository{MovementRepository: d.store.Movements, failUpdatesFrom: n}
	}
}

func failingJournalAdvance(stages ...domain.TransferStage) fixtureOption {
	return func(d *fixtureDeps) {
		fail := make(map[domain.TransferStage]bool, len(stages))
		for _, stage := range stages {
			fail[stage] = true
		}
		d.journal = &failingJournal{TransferJournal: d.store.Journal, fail: fail}
	}
}

func newEngineFixture(t *testing.T, opts ...fixtureOption) *engineFixture {
	t.Helper()

	store := memory.NewDemoStore()
	clock := newFakeClock()
	store.Journal = memory.NewTransferJournalWithClock(clock.Now)
	notifier := &recordingNotifier{}

	deps := &fixtureDeps{store: store, accounts: store.Accounts, movements: store.Movements, journal: store.Journal}
	for _, opt := range opts {
		opt(deps)
	}

	var seq int
	var seqMu sync.Mutex
	nextID := func() string {
		seqMu.Lock()
		defer seqMu.Unlock()
		seq++
		return fmt.Sprintf("id-%03d", seq)
	}

	service := services.NewMovementService(
		deps.accounts,
		store.Owners,
		store.Cards,
		deps.movements,
		deps.journal,
		notifier,
		24*time.Hour,
		services.WithClock(clock.Now),
		services.WithIDGenerator(nextID),
		services.WithCVVHashCost(bcrypt.MinCost),
	)

	return &engineFixture{store: store, journal: deps.journal, clock: clock, notifier: notifier, service: service}
}

// recover runs a recovery sweep over the fixture's store once the grace period has passed.
func (f *engineFixture) recover(t *testing.T) domain.RecoveryReport {
	t.Helper()
	f.clock.Advance(10 * time.Minute)
	recovery := services.NewTransferRecoveryService(
		f.journal,
		f.store.Accounts,
		f.store.Movements,
		5*time.Minute,
		services.WithRecoveryClock(f.clock.Now),
	)
	report, err := recovery.Recover(context.Background())
	require.NoError(t, err)
	return report
}

func (f *engineFixture) balance(t *testing.T, iban string) decimal.Decimal {
	t.Helper()
	account, err := f.store.Accounts.GetByIBAN(context.Background(), iban)
	require.NoError(t, err)
	return account.Balance
}

func requireBalance(t *testing.T, f *engineFixture, iban string, want int64) {
	t.Helper()
	got := f.balance(t, iban)
	require.Truef(t, got.Equal(decimal.NewFromInt(want)), "balance of %s: want %d, got %s", iban, want, got)
}
