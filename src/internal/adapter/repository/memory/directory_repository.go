package memory

import (
	"context"
	"sync"

	"github.com/api-sage/movement-ledger/src/internal/commons"
	"github.com/api-sage/movement-ledger/src/internal/domain"
)

type OwnerRepository struct {
	mu     sync.RWMutex
	owners map[string]domain.Owner
}

func NewOwnerRepository(owners ...domain.Owner) *OwnerRepository {
	r := &OwnerRepository{owners: make(map[string]domain.Owner)}
	for _, owner := range owners {
		r.Put(owner)
	}
	return r
}

func (r *OwnerRepository) Put(owner domain.Owner) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.owners[owner.ID] = owner
}

func (r *OwnerRepository) GetAuthenticatedOwner(_ context.Context, userID string) (domain.Owner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, owner := range r.owners {
		if owner.UserID == userID {
			return owner, nil
		}
	}
	return domain.Owner{}, commons.ErrRecordNotFound
}

func (r *OwnerRepository) GetByID(_ context.Context, ownerID string) (domain.Owner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owner, ok := r.owners[ownerID]
	if !ok {
		return domain.Owner{}, commons.ErrRecordNotFound
	}
	return owner, nil
}

type UserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewUserRepository(users ...domain.User) *UserRepository {
	r := &UserRepository{users: make(map[string]domain.User)}
	for _, user := range users {
		r.Put(user)
	}
	return r
}

func (r *UserRepository) Put(user domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
}

func (r *UserRepository) GetByID(_ context.Context, userID string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[userID]
	if !ok {
		return domain.User{}, commons.ErrRecordNotFound
	}
	return user, nil
}

type CardRepository struct {
	mu    sync.RWMutex
	cards map[string]domain.Card
}

func NewCardRepository(cards ...domain.Card) *CardRepository {
	r := &CardRepository{cards: make(map[string]domain.Card)}
	for _, card := range cards {
		r.Put(card)
	}
	return r
}

func (r *CardRepository) Put(card domain.Card) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cards[card.Number] = card
}

func (r *CardRepository) GetByNumber(_ context.Context, cardNumber string) (domain.Card, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	card, ok := r.cards[cardNumber]
	if !ok {
		return domain.Card{}, commons.ErrRecordNotFound
	}
	return card, nil
}
