package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/api-sage/movement-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/movement-ledger/src/internal/commons"
	"github.com/api-sage/movement-ledger/src/internal/domain"
	"github.com/api-sage/movement-ledger/src/internal/logger"
	"github.com/shopspring/decimal"
)

const compensationAttempts = 3

// adjustBalance re-reads the account and applies delta on its current version.
// It is used only to undo writes, so it retries lost optimistic races a few
// times; business operations never retry.
func adjustBalance(ctx context.Context, accounts repo_interfaces.AccountRepository, iban string, delta decimal.Decimal) error {
	var lastErr error
	for attempt := 0; attempt < compensationAttempts; attempt++ {
		account, err := accounts.GetByIBAN(ctx, iban)
		if err != nil {
			return fmt.Errorf("reload account for compensation: %w", err)
		}

		next := account.Balance.Add(delta)
		if next.IsNegative() {
			return fmt.Errorf("compensate account %s: %w", iban, commons.ErrInsufficientBalance)
		}

		err = accounts.UpdateBalance(ctx, account.ID, account.Version, next)
		if err == nil {
			return nil
		}
		if !errors.Is(err, commons.ErrConcurrentUpdate) {
			return fmt.Errorf("compensate account %s: %w", iban, err)
		}
		lastErr = err
	}
	return fmt.Errorf("compensate account %s: %w", iban, lastErr)
}

// compensateStep applies one compensating write of an intent and records the
// stage it leads to. If the stage cannot be recorded the write is reverted, so
// the balances keep matching the stage the journal still holds.
func compensateStep(
	ctx context.Context,
	accounts repo_interfaces.AccountRepository,
	journal repo_interfaces.TransferJournal,
	intent domain.TransferIntent,
	iban string,
	delta decimal.Decimal,
	next domain.TransferStage,
) error {
	if err := adjustBalance(ctx, accounts, iban, delta); err != nil {
		return err
	}
	if err := journal.Advance(ctx, intent.ID, next); err != nil {
		if revertErr := adjustBalance(ctx, accounts, iban, delta.Neg()); revertErr != nil {
			logger.Error("transfer intent compensation revert failed", revertErr, logger.Fields{
				"intentId": intent.ID,
				"iban":     iban,
				"delta":    delta.String(),
				"stage":    next,
			})
		}
		return fmt.Errorf("advance intent %s to %s: %w", intent.ID, next, err)
	}
	return nil
}
