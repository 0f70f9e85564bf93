package memory

import (
	"github.com/api-sage/movement-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

// Store bundles the in-process repositories used when STORE=memory and in tests.
type Store struct {
	Accounts  *AccountRepository
	Owners    *OwnerRepository
	Users     *UserRepository
	Cards     *CardRepository
	Movements *MovementRepository
	Journal   *TransferJournal
}

func NewStore() *Store {
	return &Store{
		Accounts:  NewAccountRepository(),
		Owners:    NewOwnerRepository(),
		Users:     NewUserRepository(),
		Cards:     NewCardRepository(),
		Movements: NewMovementRepository(),
		Journal:   NewTransferJournal(),
	}
}

// NewDemoStore returns a store holding two customers with one account each.
// The first customer also holds a card linked to their account.
func NewDemoStore() *Store {
	store := NewStore()
	card := "4539578763621486"

	store.Users.Put(domain.User{ID: "user-ana", Username: "ana", DisplayName: "Ana Garcia"})
	store.Users.Put(domain.User{ID: "user-luis", Username: "luis", DisplayName: "Luis Martin"})

	store.Owners.Put(domain.Owner{ID: "owner-ana", UserID: "user-ana", Name: "Ana Garcia"})
	store.Owners.Put(domain.Owner{ID: "owner-luis", UserID: "user-luis", Name: "Luis Martin"})

	store.Accounts.Put(domain.Account{
		ID:         "account-ana",
		IBAN:       "ES9121000418450200051332",
		OwnerID:    "owner-ana",
		CardNumber: &card,
		Balance:    decimal.NewFromInt(1000),
	})
	store.Accounts.Put(domain.Account{
		ID:      "account-luis",
		IBAN:    "ES6000491500051234567892",
		OwnerID: "owner-luis",
		Balance: decimal.NewFromInt(250),
	})

	store.Cards.Put(domain.Card{ID: "card-ana", Number: card, OwnerID: "owner-ana"})

	return store
}
