package repo_interfaces

import (
	"context"

	"github.com/api-sage/movement-ledger/src/internal/domain"
)

type MovementRepository interface {
	Insert(ctx context.Context, movement domain.Movement) (domain.Movement, error)
	// Update persists the deleted flag of an existing movement. Nothing else
	// about a movement is ever rewritten.
	Update(ctx context.Context, movement domain.Movement) (domain.Movement, error)
	GetByID(ctx context.Context, id string) (domain.Movement, error)
	GetByOwner(ctx context.Context, ownerID string) ([]domain.Movement, error)
	// GetByCounterpart returns the origin leg whose counterpart is counterpartID.
	GetByCounterpart(ctx context.Context, counterpartID string) (domain.Movement, error)
}
