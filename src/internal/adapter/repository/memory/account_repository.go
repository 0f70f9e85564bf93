package memory

import (
	"context"
	"sync"

	"github.com/api-sage/movement-ledger/src/internal/commons"
	"github.com/api-sage/movement-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

// AccountRepository keeps accounts in process. UpdateBalance is the only
// write and it is guarded by the account version.
type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]domain.Account
	byIBAN   map[string]string
}

func NewAccountRepository(accounts ...domain.Account) *AccountRepository {
	r := &AccountRepository{
		accounts: make(map[string]domain.Account),
		byIBAN:   make(map[string]string),
	}
	for _, account := range accounts {
		r.Put(account)
	}
	return r
}

// Put adds or replaces an account.
func (r *AccountRepository) Put(account domain.Account) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[account.ID] = cloneAccount(account)
	r.byIBAN[account.IBAN] = account.ID
}

func (r *AccountRepository) GetByIBAN(_ context.Context, iban string) (domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byIBAN[iban]
	if !ok {
		return domain.Account{}, commons.ErrRecordNotFound
	}
	return cloneAccount(r.accounts[id]), nil
}

func (r *AccountRepository) GetByCardNumber(_ context.Context, cardNumber string) (domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, account := range r.accounts {
		if account.IsLinkedToCard(cardNumber) {
			return cloneAccount(account), nil
		}
	}
	return domain.Account{}, commons.ErrRecordNotFound
}

func (r *AccountRepository) GetAllByOwner(_ context.Context, ownerID string) ([]domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	accounts := make([]domain.Account, 0)
	for _, account := range r.accounts {
		if account.OwnerID == ownerID {
			accounts = append(accounts, cloneAccount(account))
		}
	}
	return accounts, nil
}

func (r *AccountRepository) UpdateBalance(_ context.Context, accountID string, expectedVersion int64, newBalance decimal.Decimal) error {
	if newBalance.IsNegative() {
		return commons.ErrInsufficientBalance
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[accountID]
	if !ok {
		return commons.ErrRecordNotFound
	}
	if account.Version != expectedVersion {
		return commons.ErrConcurrentUpdate
	}

	account.Balance = newBalance
	account.Version++
	r.accounts[accountID] = account
	return nil
}

func cloneAccount(account domain.Account) domain.Account {
	if account.CardNumber != nil {
		number := *account.CardNumber
		account.CardNumber = &number
	}
	return account
}
