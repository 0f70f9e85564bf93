package repo_interfaces

import (
	"context"

	"github.com/api-sage/movement-ledger/src/internal/domain"
)

type CardRepository interface {
	GetByNumber(ctx context.Context, cardNumber string) (domain.Card, error)
}
