package implementations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/api-sage/movement-ledger/src/internal/commons"
	"github.com/api-sage/movement-ledger/src/internal/domain"
	"github.com/api-sage/movement-ledger/src/internal/logger"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// MovementRepository stores each movement as one row. The payload is kept as
// JSONB next to the columns the engine filters on.
type MovementRepository struct {
	db *sql.DB
}

func NewMovementRepository(db *sql.DB) *MovementRepository {
	return &MovementRepository{db: db}
}

const movementColumns = `id, owner_id, kind, payload, cvv_hash, deleted, created_at`

func (r *MovementRepository) Insert(ctx context.Context, movement domain.Movement) (domain.Movement, error) {
	logger.Info("movement repository insert", logger.Fields{
		"movementId": movement.ID,
		"ownerId":    movement.OwnerID,
		"kind":       movement.Kind(),
	})

	payload, err := domain.EncodePayload(movement.Payload)
	if err != nil {
		return domain.Movement{}, fmt.Errorf("encode movement payload: %w", err)
	}
	columns := indexColumnsFor(movement.Payload)

	const query = `
INSERT INTO movements (
	id,
	owner_id,
	kind,
	payload,
	cvv_hash,
	destination_iban,
	counterpart_id,
	active,
	deleted,
	created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	if _, err := r.db.ExecContext(
		ctx,
		query,
		movement.ID,
		movement.OwnerID,
		movement.Kind(),
		payload,
		columns.cvvHash,
		columns.destinationIBAN,
		columns.counterpartID,
		columns.active,
		movement.Deleted,
		movement.CreatedAt,
	); err != nil {
		if isUniqueViolation(err) {
			return domain.Movement{}, commons.ErrDuplicateRecord
		}
		logger.Error("movement repository insert failed", err, logger.Fields{
			"movementId": movement.ID,
		})
		return domain.Movement{}, fmt.Errorf("insert movement: %w", err)
	}

	return movement, nil
}

func (r *MovementRepository) Update(ctx context.Context, movement domain.Movement) (domain.Movement, error) {
	logger.Info("movement repository update", logger.Fields{
		"movementId": movement.ID,
		"deleted":    movement.Deleted,
	})

	const query = `
UPDATE movements
SET deleted = $2,
    updated_at = NOW()
WHERE id = $1
RETURNING ` + movementColumns

	updated, err := scanMovement(r.db.QueryRowContext(ctx, query, movement.ID, movement.Deleted))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Movement{}, commons.ErrRecordNotFound
		}
		logger.Error("movement repository update failed", err, logger.Fields{
			"movementId": movement.ID,
		})
		return domain.Movement{}, fmt.Errorf("update movement: %w", err)
	}

	return updated, nil
}

func (r *MovementRepository) GetByID(ctx context.Context, id string) (domain.Movement, error) {
	const query = `
SELECT ` + movementColumns + `
FROM movements
WHERE id = $1`

	movement, err := scanMovement(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Movement{}, commons.ErrRecordNotFound
		}
		logger.Error("movement repository get failed", err, logger.Fields{
			"movementId": id,
		})
		return domain.Movement{}, fmt.Errorf("get movement by id: %w", err)
	}
	return movement, nil
}

func (r *MovementRepository) GetByOwner(ctx context.Context, ownerID string) ([]domain.Movement, error) {
	const query = `
SELECT ` + movementColumns + `
FROM movements
WHERE owner_id = $1
ORDER BY seq`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		logger.Error("movement repository get by owner failed", err, logger.Fields{
			"ownerId": ownerID,
		})
		return nil, fmt.Errorf("get movements by owner: %w", err)
	}
	defer rows.Close()

	movements := make([]domain.Movement, 0)
	for rows.Next() {
		movement, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		movements = append(movements, movement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movements: %w", err)
	}
	return movements, nil
}

func (r *MovementRepository) GetByCounterpart(ctx context.Context, counterpartID string) (domain.Movement, error) {
	const query = `
SELECT ` + movementColumns + `
FROM movements
WHERE counterpart_id = $1
ORDER BY seq
LIMIT 1`

	movement, err := scanMovement(r.db.QueryRowContext(ctx, query, counterpartID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Movement{}, commons.ErrRecordNotFound
		}
		return domain.Movement{}, fmt.Errorf("get movement by counterpart: %w", err)
	}
	return movement, nil
}

type movementIndexColumns struct {
	cvvHash         sql.NullString
	destinationIBAN sql.NullString
	counterpartID   sql.NullString
	active          bool
}

func indexColumnsFor(payload domain.Payload) movementIndexColumns {
	var columns movementIndexColumns
	switch p := payload.(type) {
	case domain.DirectDebit:
		columns.destinationIBAN = sql.NullString{String: p.DestinationIBAN, Valid: true}
		columns.active = p.Active
	case domain.CardPayment:
		columns.cvvHash = sql.NullString{String: p.CVVHash, Valid: p.CVVHash != ""}
	case domain.Transfer:
		columns.destinationIBAN = sql.NullString{String: p.DestinationIBAN, Valid: true}
		if p.CounterpartMovementID != nil {
			columns.counterpartID = sql.NullString{String: *p.CounterpartMovementID, Valid: true}
		}
	}
	return columns
}

func scanMovement(row rowScanner) (domain.Movement, error) {
	var (
		movement domain.Movement
		kind     domain.MovementKind
		payload  []byte
		cvvHash  sql.NullString
	)
	if err := row.Scan(
		&movement.ID,
		&movement.OwnerID,
		&kind,
		&payload,
		&cvvHash,
		&movement.Deleted,
		&movement.CreatedAt,
	); err != nil {
		return domain.Movement{}, err
	}

	decoded, err := domain.DecodePayload(kind, payload)
	if err != nil {
		return domain.Movement{}, err
	}
	if card, ok := decoded.(domain.CardPayment); ok {
		card.CVVHash = cvvHash.String
		decoded = card
	}
	movement.Payload = decoded
	movement.CreatedAt = movement.CreatedAt.UTC()
	return movement, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}
