package implementations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/api-sage/movement-ledger/src/internal/commons"
	"github.com/api-sage/movement-ledger/src/internal/domain"
	"github.com/api-sage/movement-ledger/src/internal/logger"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (domain.User, error) {
	const query = `
SELECT id, username, display_name
FROM users
WHERE id = $1`

	var user domain.User
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&user.ID, &user.Username, &user.DisplayName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, commons.ErrRecordNotFound
		}
		logger.Error("user repository get failed", err, logger.Fields{
			"userId": userID,
		})
		return domain.User{}, fmt.Errorf("get user by id: %w", err)
	}

	return user, nil
}

type OwnerRepository struct {
	db *sql.DB
}

func NewOwnerRepository(db *sql.DB) *OwnerRepository {
	return &OwnerRepository{db: db}
}

func (r *OwnerRepository) GetAuthenticatedOwner(ctx context.Context, userID string) (domain.Owner, error) {
	const query = `
SELECT id, user_id, name
FROM owners
WHERE user_id = $1`

	return r.get(ctx, query, userID)
}

func (r *OwnerRepository) GetByID(ctx context.Context, ownerID string) (domain.Owner, error) {
	const query = `
SELECT id, user_id, name
FROM owners
WHERE id = $1`

	return r.get(ctx, query, ownerID)
}

func (r *OwnerRepository) get(ctx context.Context, query string, arg string) (domain.Owner, error) {
	var owner domain.Owner
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&owner.ID, &owner.UserID, &owner.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Owner{}, commons.ErrRecordNotFound
		}
		logger.Error("owner repository get failed", err, logger.Fields{
			"key": arg,
		})
		return domain.Owner{}, fmt.Errorf("get owner: %w", err)
	}
	return owner, nil
}

type CardRepository struct {
	db *sql.DB
}

func NewCardRepository(db *sql.DB) *CardRepository {
	return &CardRepository{db: db}
}

func (r *CardRepository) GetByNumber(ctx context.Context, cardNumber string) (domain.Card, error) {
	const query = `
SELECT id, number, owner_id
FROM cards
WHERE number = $1`

	var card domain.Card
	if err := r.db.QueryRowContext(ctx, query, cardNumber).Scan(&card.ID, &card.Number, &card.OwnerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Card{}, commons.ErrRecordNotFound
		}
		logger.Error("card repository get failed", err, logger.Fields{
			"cardNumber": cardNumber,
		})
		return domain.Card{}, fmt.Errorf("get card by number: %w", err)
	}
	return card, nil
}
