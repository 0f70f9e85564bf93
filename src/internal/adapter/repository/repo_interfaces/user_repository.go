package repo_interfaces

import (
	"context"

	"github.com/api-sage/movement-ledger/src/internal/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, userID string) (domain.User, error)
}
