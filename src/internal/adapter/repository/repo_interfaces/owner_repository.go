package repo_interfaces

import (
	"context"

	"github.com/api-sage/movement-ledger/src/internal/domain"
)

type OwnerRepository interface {
	GetAuthenticatedOwner(ctx context.Context, userID string) (domain.Owner, error)
	GetByID(ctx context.Context, ownerID string) (domain.Owner, error)
}
