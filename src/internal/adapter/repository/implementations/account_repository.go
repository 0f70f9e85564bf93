package implementations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/api-sage/movement-ledger/src/internal/commons"
	"github.com/api-sage/movement-ledger/src/internal/domain"
	"github.com/api-sage/movement-ledger/src/internal/logger"
	"github.com/shopspring/decimal"
)

type AccountRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, iban, owner_id, card_number, balance, version`

func (r *AccountRepository) GetByIBAN(ctx context.Context, iban string) (domain.Account, error) {
	const query = `
SELECT ` + accountColumns + `
FROM accounts
WHERE iban = $1`

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, iban))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Info("account repository record not found", logger.Fields{
				"iban": iban,
			})
			return domain.Account{}, commons.ErrRecordNotFound
		}
		logger.Error("account repository get by iban failed", err, logger.Fields{
			"iban": iban,
		})
		return domain.Account{}, fmt.Errorf("get account by iban: %w", err)
	}

	return account, nil
}

func (r *AccountRepository) GetByCardNumber(ctx context.Context, cardNumber string) (domain.Account, error) {
	const query = `
SELECT ` + accountColumns + `
FROM accounts
WHERE card_number = $1
LIMIT 1`

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, cardNumber))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, commons.ErrRecordNotFound
		}
		logger.Error("account repository get by card number failed", err, logger.Fields{
			"cardNumber": cardNumber,
		})
		return domain.Account{}, fmt.Errorf("get account by card number: %w", err)
	}

	return account, nil
}

func (r *AccountRepository) GetAllByOwner(ctx context.Context, ownerID string) ([]domain.Account, error) {
	const query = `
SELECT ` + accountColumns + `
FROM accounts
WHERE owner_id = $1
ORDER BY iban`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		logger.Error("account repository get all by owner failed", err, logger.Fields{
			"ownerId": ownerID,
		})
		return nil, fmt.Errorf("get accounts by owner: %w", err)
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}

	return accounts, nil
}

// UpdateBalance is a compare-and-set on the version column. Zero affected rows
// means the account is gone or someone else wrote first.
func (r *AccountRepository) UpdateBalance(ctx context.Context, accountID string, expectedVersion int64, newBalance decimal.Decimal) error {
	logger.Info("account repository update balance", logger.Fields{
		"accountId":       accountID,
		"expectedVersion": expectedVersion,
	})

	if newBalance.IsNegative() {
		return commons.ErrInsufficientBalance
	}

	const query = `
UPDATE accounts
SET balance = $3,
    version = version + 1,
    updated_at = NOW()
WHERE id = $1
  AND version = $2`

	result, err := r.db.ExecContext(ctx, query, accountID, expectedVersion, newBalance)
	if err != nil {
		logger.Error("account repository update balance failed", err, logger.Fields{
			"accountId": accountID,
		})
		return fmt.Errorf("update account balance: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update account balance rows affected: %w", err)
	}
	if rows == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1)`, accountID).Scan(&exists); err != nil {
			return fmt.Errorf("check account existence: %w", err)
		}
		if !exists {
			return commons.ErrRecordNotFound
		}
		return commons.ErrConcurrentUpdate
	}

	logger.Info("account repository update balance success", logger.Fields{
		"accountId": accountID,
	})
	return nil
}

func scanAccount(row rowScanner) (domain.Account, error) {
	var account domain.Account
	var cardNumber sql.NullString
	if err := row.Scan(
		&account.ID,
		&account.IBAN,
		&account.OwnerID,
		&cardNumber,
		&account.Balance,
		&account.Version,
	); err != nil {
		return domain.Account{}, err
	}
	if cardNumber.Valid {
		account.CardNumber = &cardNumber.String
	}
	return account, nil
}
