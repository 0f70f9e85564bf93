package repo_interfaces

import (
	"context"

	"github.com/api-sage/movement-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

// AccountRepository is the account lookup gateway. Lookups return
// commons.ErrRecordNotFound when nothing matches.
type AccountRepository interface {
	GetByIBAN(ctx context.Context, iban string) (domain.Account, error)
	GetByCardNumber(ctx context.Context, cardNumber string) (domain.Account, error)
	GetAllByOwner(ctx context.Context, ownerID string) ([]domain.Account, error)
	// UpdateBalance writes newBalance only if the account is still at
	// expectedVersion and newBalance is not negative. A lost race returns
	// commons.ErrConcurrentUpdate.
	UpdateBalance(ctx context.Context, accountID string, expectedVersion int64, newBalance decimal.Decimal) error
}
