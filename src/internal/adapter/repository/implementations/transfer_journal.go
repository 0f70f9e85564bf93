package implementations

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/api-sage/movement-ledger/src/internal/commons"
	"github.com/api-sage/movement-ledger/src/internal/domain"
	"github.com/api-sage/movement-ledger/src/internal/logger"
)

type TransferJournal struct {
	db *sql.DB
}

func NewTransferJournal(db *sql.DB) *TransferJournal {
	return &TransferJournal{db: db}
}

const intentColumns = `id, kind, debit_iban, credit_iban, amount, origin_movement_id, destination_movement_id, stage, created_at, updated_at`

func (j *TransferJournal) Open(ctx context.Context, intent domain.TransferIntent) (domain.TransferIntent, error) {
	logger.Info("transfer journal open", logger.Fields{
		"intentId": intent.ID,
		"kind":     intent.Kind,
	})

	if intent.Stage == "" {
		intent.Stage = domain.TransferStagePending
	}

	const query = `
INSERT INTO transfer_intents (
	id,
	kind,
	debit_iban,
	credit_iban,
	amount,
	origin_movement_id,
	destination_movement_id,
	stage
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + intentColumns

	opened, err := scanIntent(j.db.QueryRowContext(
		ctx,
		query,
		intent.ID,
		intent.Kind,
		intent.DebitIBAN,
		intent.CreditIBAN,
		intent.Amount,
		intent.OriginMovementID,
		intent.DestinationMovementID,
		intent.Stage,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.TransferIntent{}, commons.ErrDuplicateRecord
		}
		logger.Error("transfer journal open failed", err, logger.Fields{
			"intentId": intent.ID,
		})
		return domain.TransferIntent{}, fmt.Errorf("open transfer intent: %w", err)
	}

	return opened, nil
}

func (j *TransferJournal) Advance(ctx context.Context, intentID string, stage domain.TransferStage) error {
	logger.Info("transfer journal advance", logger.Fields{
		"intentId": intentID,
		"stage":    stage,
	})

	const query = `
UPDATE transfer_intents
SET stage = $2,
    updated_at = NOW()
WHERE id = $1`

	result, err := j.db.ExecContext(ctx, query, intentID, stage)
	if err != nil {
		return fmt.Errorf("advance transfer intent: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("advance transfer intent rows affected: %w", err)
	}
	if rows == 0 {
		return commons.ErrRecordNotFound
	}
	return nil
}

func (j *TransferJournal) ListStale(ctx context.Context, olderThan time.Time) ([]domain.TransferIntent, error) {
	const query = `
SELECT ` + intentColumns + `
FROM transfer_intents
WHERE stage NOT IN ('COMPLETED', 'COMPENSATED', 'ABANDONED')
  AND updated_at < $1
ORDER BY created_at`

	rows, err := j.db.QueryContext(ctx, query, olderThan)
	if err != nil {
		logger.Error("transfer journal list stale failed", err, nil)
		return nil, fmt.Errorf("list stale transfer intents: %w", err)
	}
	defer rows.Close()

	intents := make([]domain.TransferIntent, 0)
	for rows.Next() {
		intent, err := scanIntent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer intent: %w", err)
		}
		intents = append(intents, intent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transfer intents: %w", err)
	}
	return intents, nil
}

func scanIntent(row rowScanner) (domain.TransferIntent, error) {
	var intent domain.TransferIntent
	err := row.Scan(
		&intent.ID,
		&intent.Kind,
		&intent.DebitIBAN,
		&intent.CreditIBAN,
		&intent.Amount,
		&intent.OriginMovementID,
		&intent.DestinationMovementID,
		&intent.Stage,
		&intent.CreatedAt,
		&intent.UpdatedAt,
	)
	return intent, err
}
