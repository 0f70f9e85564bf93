package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/api-sage/movement-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/movement-ledger/src/internal/commons"
	"github.com/api-sage/movement-ledger/src/internal/domain"
	"github.com/api-sage/movement-ledger/src/internal/logger"
)

const DefaultRecoveryGrace = 5 * time.Minute

type TransferRecoveryService struct {
	transferJournal repo_interfaces.TransferJournal
	accountRepo     repo_interfaces.AccountRepository
	movementRepo    repo_interfaces.MovementRepository
	grace           time.Duration
	now             func() time.Time
}

type RecoveryOption func(*TransferRecoveryService)

func WithRecoveryClock(now func() time.Time) RecoveryOption {
	return func(s *TransferRecoveryService) {
		s.now = now
	}
}

func NewTransferRecoveryService(
	transferJournal repo_interfaces.TransferJournal,
	accountRepo repo_interfaces.AccountRepository,
	movementRepo repo_interfaces.MovementRepository,
	grace time.Duration,
	opts ...RecoveryOption,
) *TransferRecoveryService {
	if grace <= 0 {
		grace = DefaultRecoveryGrace
	}
	s := &TransferRecoveryService{
		transferJournal: transferJournal,
		accountRepo:     accountRepo,
		movementRepo:    movementRepo,
		grace:           grace,
		now:             func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Recover settles intents that stopped moving for longer than the grace
// period. A failed intent stays where it is and is retried on the next sweep.
func (s *TransferRecoveryService) Recover(ctx context.Context) (domain.RecoveryReport, error) {
	var report domain.RecoveryReport

	intents, err := s.transferJournal.ListStale(ctx, s.now().Add(-s.grace))
	if err != nil {
		logger.Error("transfer recovery list stale intents failed", err, nil)
		return report, fmt.Errorf("list stale transfer intents: %w", err)
	}

	for _, intent := range intents {
		report.Inspected++

		stage, err := s.recoverIntent(ctx, intent)
		if err != nil {
			report.Failed++
			logger.Error("transfer recovery intent failed", err, logger.Fields{
				"intentId": intent.ID,
				"kind":     intent.Kind,
				"stage":    intent.Stage,
			})
			continue
		}

		switch stage {
		case domain.TransferStageCompleted:
			report.Completed++
		case domain.TransferStageCompensated:
			report.Compensated++
		case domain.TransferStageAbandoned:
			report.Abandoned++
		}
		logger.Info("transfer recovery intent settled", logger.Fields{
			"intentId": intent.ID,
			"from":     intent.Stage,
			"to":       stage,
		})
	}

	if report.Inspected > 0 {
		logger.Info("transfer recovery sweep done", logger.Fields{
			"inspected":   report.Inspected,
			"completed":   report.Completed,
			"compensated": report.Compensated,
			"abandoned":   report.Abandoned,
			"failed":      report.Failed,
		})
	}
	return report, nil
}

func (s *TransferRecoveryService) recoverIntent(ctx context.Context, intent domain.TransferIntent) (domain.TransferStage, error) {
	switch intent.Stage {
	case domain.TransferStagePending, domain.TransferStageDebited, domain.TransferStageCredited:
	default:
		return "", fmt.Errorf("intent %s has unexpected stage %s", intent.ID, intent.Stage)
	}

	// Movement records are written only once the credit is journaled, so
	// settled records mean both writes landed even if the stage lags behind.
	done, err := s.recordsSettled(ctx, intent)
	if err != nil {
		return "", err
	}
	if done {
		return s.settle(ctx, intent.ID, domain.TransferStageCompleted)
	}

	switch intent.Stage {
	case domain.TransferStagePending:
		logger.Warn("transfer recovery abandoning pending intent", logger.Fields{
			"intentId":   intent.ID,
			"debitIban":  intent.DebitIBAN,
			"creditIban": intent.CreditIBAN,
			"amount":     intent.Amount.String(),
		})
		return s.settle(ctx, intent.ID, domain.TransferStageAbandoned)

	case domain.TransferStageDebited:
		if err := compensateStep(ctx, s.accountRepo, s.transferJournal, intent, intent.DebitIBAN, intent.Amount, domain.TransferStageCompensated); err != nil {
			return "", err
		}
		return domain.TransferStageCompensated, nil
	}

	if err := s.discardRecords(ctx, intent); err != nil {
		return "", err
	}
	if err := compensateStep(ctx, s.accountRepo, s.transferJournal, intent, intent.CreditIBAN, intent.Amount.Neg(), domain.TransferStageDebited); err != nil {
		return "", err
	}
	if err := compensateStep(ctx, s.accountRepo, s.transferJournal, intent, intent.DebitIBAN, intent.Amount, domain.TransferStageCompensated); err != nil {
		return "", err
	}
	return domain.TransferStageCompensated, nil
}

// recordsSettled reports whether the movement records of an intent reached
// their final state: the origin leg exists for a transfer, or is deleted for
// a reversal. A reversal stopped between its two updates gets its counterpart
// deleted here.
func (s *TransferRecoveryService) recordsSettled(ctx context.Context, intent domain.TransferIntent) (bool, error) {
	origin, err := s.movementRepo.GetByID(ctx, intent.OriginMovementID)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	if intent.Kind == domain.TransferIntentTransfer {
		return true, nil
	}
	if !origin.Deleted {
		return false, nil
	}

	counterpart, err := s.movementRepo.GetByID(ctx, intent.DestinationMovementID)
	if err != nil {
		return false, err
	}
	if !counterpart.Deleted {
		counterpart.Deleted = true
		if _, err := s.movementRepo.Update(ctx, counterpart); err != nil {
			return false, err
		}
	}
	return true, nil
}

// discardRecords removes a destination leg whose origin leg never made it.
func (s *TransferRecoveryService) discardRecords(ctx context.Context, intent domain.TransferIntent) error {
	if intent.Kind != domain.TransferIntentTransfer {
		return nil
	}

	orphan, err := s.movementRepo.GetByID(ctx, intent.DestinationMovementID)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if orphan.Deleted {
		return nil
	}
	orphan.Deleted = true
	_, err = s.movementRepo.Update(ctx, orphan)
	return err
}

func (s *TransferRecoveryService) settle(ctx context.Context, intentID string, stage domain.TransferStage) (domain.TransferStage, error) {
	if err := s.transferJournal.Advance(ctx, intentID, stage); err != nil {
		return "", err
	}
	return stage, nil
}
