package repo_interfaces

import (
	"context"
	"time"

	"github.com/api-sage/movement-ledger/src/internal/domain"
)

type TransferJournal interface {
	Open(ctx context.Context, intent domain.TransferIntent) (domain.TransferIntent, error)
	Advance(ctx context.Context, intentID string, stage domain.TransferStage) error
	// ListStale returns non-terminal intents last touched before olderThan.
	ListStale(ctx context.Context, olderThan time.Time) ([]domain.TransferIntent, error)
}
