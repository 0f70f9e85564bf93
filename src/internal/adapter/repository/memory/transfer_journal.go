package memory

import (
	"context"
	"sync"
	"time"

	"github.com/api-sage/movement-ledger/src/internal/commons"
	"github.com/api-sage/movement-ledger/src/internal/domain"
)

type TransferJournal struct {
	mu      sync.RWMutex
	now     func() time.Time
	order   []string
	intents map[string]domain.TransferIntent
}

func NewTransferJournal() *TransferJournal {
	return NewTransferJournalWithClock(func() time.Time { return time.Now().UTC() })
}

func NewTransferJournalWithClock(now func() time.Time) *TransferJournal {
	return &TransferJournal{
		now:     now,
		intents: make(map[string]domain.TransferIntent),
	}
}

func (j *TransferJournal) Open(_ context.Context, intent domain.TransferIntent) (domain.TransferIntent, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if _, exists := j.intents[intent.ID]; exists {
		return domain.TransferIntent{}, commons.ErrDuplicateRecord
	}
	if intent.Stage == "" {
		intent.Stage = domain.TransferStagePending
	}
	now := j.now()
	intent.CreatedAt = now
	intent.UpdatedAt = now

	j.intents[intent.ID] = intent
	j.order = append(j.order, intent.ID)
	return intent, nil
}

func (j *TransferJournal) Advance(_ context.Context, intentID string, stage domain.TransferStage) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	intent, ok := j.intents[intentID]
	if !ok {
		return commons.ErrRecordNotFound
	}
	intent.Stage = stage
	intent.UpdatedAt = j.now()
	j.intents[intentID] = intent
	return nil
}

func (j *TransferJournal) ListStale(_ context.Context, olderThan time.Time) ([]domain.TransferIntent, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	stale := make([]domain.TransferIntent, 0)
	for _, id := range j.order {
		intent := j.intents[id]
		if !intent.Stage.IsTerminal() && intent.UpdatedAt.Before(olderThan) {
			stale = append(stale, intent)
		}
	}
	return stale, nil
}

// Get returns a journaled intent.
func (j *TransferJournal) Get(intentID string) (domain.TransferIntent, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	intent, ok := j.intents[intentID]
	return intent, ok
}

// All returns every intent in the order it was opened.
func (j *TransferJournal) All() []domain.TransferIntent {
	j.mu.RLock()
	defer j.mu.RUnlock()

	intents := make([]domain.TransferIntent, 0, len(j.order))
	for _, id := range j.order {
		intents = append(intents, j.intents[id])
	}
	return intents
}
