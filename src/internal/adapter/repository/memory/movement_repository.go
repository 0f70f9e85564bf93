package memory

import (
	"context"
	"sync"

	"github.com/api-sage/movement-ledger/src/internal/commons"
	"github.com/api-sage/movement-ledger/src/internal/domain"
)

// MovementRepository stores movements in insertion order and enforces the same
// uniqueness rules as the postgres schema.
type MovementRepository struct {
	mu        sync.RWMutex
	order     []string
	movements map[string]domain.Movement
}

func NewMovementRepository() *MovementRepository {
	return &MovementRepository{movements: make(map[string]domain.Movement)}
}

func (r *MovementRepository) Insert(_ context.Context, movement domain.Movement) (domain.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.movements[movement.ID]; exists {
		return domain.Movement{}, commons.ErrDuplicateRecord
	}
	if debit, ok := movement.Payload.(domain.DirectDebit); ok && debit.Active && !movement.Deleted {
		for _, id := range r.order {
			if sameActiveDirectDebit(r.movements[id], movement.OwnerID, debit.DestinationIBAN) {
				return domain.Movement{}, commons.ErrDuplicateRecord
			}
		}
	}

	r.movements[movement.ID] = movement
	r.order = append(r.order, movement.ID)
	return movement, nil
}

func (r *MovementRepository) Update(_ context.Context, movement domain.Movement) (domain.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.movements[movement.ID]
	if !ok {
		return domain.Movement{}, commons.ErrRecordNotFound
	}
	stored.Deleted = movement.Deleted
	r.movements[movement.ID] = stored
	return stored, nil
}

func (r *MovementRepository) GetByID(_ context.Context, id string) (domain.Movement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	movement, ok := r.movements[id]
	if !ok {
		return domain.Movement{}, commons.ErrRecordNotFound
	}
	return movement, nil
}

func (r *MovementRepository) GetByOwner(_ context.Context, ownerID string) ([]domain.Movement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	movements := make([]domain.Movement, 0)
	for _, id := range r.order {
		if movement := r.movements[id]; movement.OwnerID == ownerID {
			movements = append(movements, movement)
		}
	}
	return movements, nil
}

func (r *MovementRepository) GetByCounterpart(_ context.Context, counterpartID string) (domain.Movement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		movement := r.movements[id]
		transfer, ok := movement.Transfer()
		if ok && transfer.CounterpartMovementID != nil && *transfer.CounterpartMovementID == counterpartID {
			return movement, nil
		}
	}
	return domain.Movement{}, commons.ErrRecordNotFound
}

// Count returns the number of stored movements, deleted ones included.
func (r *MovementRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func sameActiveDirectDebit(movement domain.Movement, ownerID string, destinationIBAN string) bool {
	if movement.Deleted || movement.OwnerID != ownerID {
		return false
	}
	debit, ok := movement.Payload.(domain.DirectDebit)
	return ok && debit.Active && debit.DestinationIBAN == destinationIBAN
}
