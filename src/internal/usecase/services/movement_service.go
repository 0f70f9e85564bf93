package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/api-sage/movement-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/movement-ledger/src/internal/commons"
	"github.com/api-sage/movement-ledger/src/internal/domain"
	"github.com/api-sage/movement-ledger/src/internal/logger"
	"github.com/api-sage/movement-ledger/src/internal/usecase/service_interfaces"
	"github.com/api-sage/movement-ledger/src/internal/validators"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const DefaultRevocationWindow = 24 * time.Hour

// amountScale is the number of decimal places balances are stored with.
const amountScale = 2

// MovementService creates and revokes movements. It holds no state between
// calls; balance atomicity is delegated to the account repository's
// versioned UpdateBalance.
type MovementService struct {
	accountRepo      repo_interfaces.AccountRepository
	ownerRepo        repo_interfaces.OwnerRepository
	cardRepo         repo_interfaces.CardRepository
	movementRepo     repo_interfaces.MovementRepository
	transferJournal  repo_interfaces.TransferJournal
	notifier         service_interfaces.NotificationService
	revocationWindow time.Duration
	cvvHashCost      int
	now              func() time.Time
	newID            func() string
}

type MovementOption func(*MovementService)

func WithClock(now func() time.Time) MovementOption {
	return func(s *MovementService) {
		s.now = now
	}
}

func WithIDGenerator(newID func() string) MovementOption {
	return func(s *MovementService) {
		s.newID = newID
	}
}

func WithCVVHashCost(cost int) MovementOption {
	return func(s *MovementService) {
		s.cvvHashCost = cost
	}
}

func NewMovementService(
	accountRepo repo_interfaces.AccountRepository,
	ownerRepo repo_interfaces.OwnerRepository,
	cardRepo repo_interfaces.CardRepository,
	movementRepo repo_interfaces.MovementRepository,
	transferJournal repo_interfaces.TransferJournal,
	notifier service_interfaces.NotificationService,
	revocationWindow time.Duration,
	opts ...MovementOption,
) *MovementService {
	if revocationWindow <= 0 {
		revocationWindow = DefaultRevocationWindow
	}

	s := &MovementService{
		accountRepo:      accountRepo,
		ownerRepo:        ownerRepo,
		cardRepo:         cardRepo,
		movementRepo:     movementRepo,
		transferJournal:  transferJournal,
		notifier:         notifier,
		revocationWindow: revocationWindow,
		cvvHashCost:      bcrypt.DefaultCost,
		now:              func() time.Time { return time.Now().UTC() },
		newID:            newMovementID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MovementService) CreateDirectDebit(ctx context.Context, userID string, req domain.DirectDebitRequest) (domain.Movement, error) {
	logger.Info("movement service create direct debit request", logger.Fields{
		"userId":  userID,
		"payload": logger.SanitizePayload(req),
	})

	if err := validators.ValidateIBAN(req.SourceIBAN); err != nil {
		return domain.Movement{}, err
	}
	if err := validators.ValidateIBAN(req.DestinationIBAN); err != nil {
		return domain.Movement{}, err
	}
	periodicity := req.Periodicity
	if periodicity == "" {
		periodicity = domain.PeriodicityMonthly
	}
	if !periodicity.IsValid() {
		return domain.Movement{}, domain.ValidationFailed("unsupported periodicity", string(periodicity))
	}

	owner, err := s.resolveOwner(ctx, userID)
	if err != nil {
		return domain.Movement{}, err
	}

	source, err := s.resolveAccount(ctx, req.SourceIBAN)
	if err != nil {
		return domain.Movement{}, err
	}
	if source.OwnerID != owner.ID {
		return domain.Movement{}, ownershipMismatch(req.SourceIBAN)
	}

	existing, err := s.movementRepo.GetByOwner(ctx, owner.ID)
	if err != nil {
		logger.Error("movement service direct debit lookup failed", err, logger.Fields{
			"ownerId": owner.ID,
		})
		return domain.Movement{}, err
	}
	for _, movement := range existing {
		if isActiveDirectDebitTo(movement, req.DestinationIBAN) {
			return domain.Movement{}, domain.NewError(domain.ErrorDuplicateDirectDebit, "an active direct debit already targets this IBAN", req.DestinationIBAN)
		}
	}

	if err := checkAmount(req.Amount); err != nil {
		return domain.Movement{}, err
	}

	now := s.now()
	created, err := s.movementRepo.Insert(ctx, domain.Movement{
		ID:        s.newID(),
		OwnerID:   owner.ID,
		CreatedAt: now,
		Payload: domain.DirectDebit{
			SourceIBAN:      req.SourceIBAN,
			DestinationIBAN: req.DestinationIBAN,
			Amount:          req.Amount,
			CreditorName:    req.CreditorName,
			CreditorID:      req.CreditorID,
			Periodicity:     periodicity,
			Active:          true,
			LastRunAt:       now,
		},
	})
	if err != nil {
		if errors.Is(err, commons.ErrDuplicateRecord) {
			return domain.Movement{}, domain.NewError(domain.ErrorDuplicateDirectDebit, "an active direct debit already targets this IBAN", req.DestinationIBAN)
		}
		logger.Error("movement service direct debit insert failed", err, logger.Fields{
			"ownerId": owner.ID,
		})
		return domain.Movement{}, err
	}

	s.notifier.Notify(domain.NotificationCreate, created)

	logger.Info("movement service create direct debit success", logger.Fields{
		"movementId": created.ID,
		"ownerId":    created.OwnerID,
	})
	return created, nil
}

func (s *MovementService) CreatePayrollDeposit(ctx context.Context, userID string, req domain.PayrollDepositRequest) (domain.Movement, error) {
	logger.Info("movement service create payroll deposit request", logger.Fields{
		"userId":  userID,
		"payload": logger.SanitizePayload(req),
	})

	if err := validators.ValidateIBAN(req.SourceIBAN); err != nil {
		return domain.Movement{}, err
	}
	if err := validators.ValidateIBAN(req.DestinationIBAN); err != nil {
		return domain.Movement{}, err
	}
	if err := validators.ValidateCIF(req.CompanyTaxID); err != nil {
		return domain.Movement{}, err
	}

	owner, err := s.resolveOwner(ctx, userID)
	if err != nil {
		return domain.Movement{}, err
	}
	destination, err := s.resolveAccount(ctx, req.DestinationIBAN)
	if err != nil {
		return domain.Movement{}, err
	}

	if err := checkAmount(req.Amount); err != nil {
		return domain.Movement{}, err
	}

	// Payroll money comes from outside the ledger, so there is no debit leg.
	if err := s.accountRepo.UpdateBalance(ctx, destination.ID, destination.Version, destination.Balance.Add(req.Amount)); err != nil {
		logger.Error("movement service payroll credit failed", err, logger.Fields{
			"accountId": destination.ID,
		})
		return domain.Movement{}, err
	}

	created, err := s.movementRepo.Insert(ctx, domain.Movement{
		ID:        s.newID(),
		OwnerID:   owner.ID,
		CreatedAt: s.now(),
		Payload: domain.PayrollDeposit{
			SourceIBAN:      req.SourceIBAN,
			DestinationIBAN: req.DestinationIBAN,
			Amount:          req.Amount,
			CompanyName:     req.CompanyName,
			CompanyTaxID:    req.CompanyTaxID,
		},
	})
	if err != nil {
		logger.Error("movement service payroll insert failed", err, logger.Fields{
			"ownerId": owner.ID,
		})
		s.undo(ctx, destination.IBAN, req.Amount.Neg())
		return domain.Movement{}, err
	}

	s.notifier.Notify(domain.NotificationCreate, created)

	logger.Info("movement service create payroll deposit success", logger.Fields{
		"movementId": created.ID,
		"accountId":  destination.ID,
	})
	return created, nil
}

func (s *MovementService) CreateCardPayment(ctx context.Context, userID string, req domain.CardPaymentRequest) (domain.Movement, error) {
	logger.Info("movement service create card payment request", logger.Fields{
		"userId":  userID,
		"payload": logger.SanitizePayload(req),
	})

	if err := validators.ValidateCardNumber(req.CardNumber); err != nil {
		return domain.Movement{}, err
	}

	owner, err := s.resolveOwner(ctx, userID)
	if err != nil {
		return domain.Movement{}, err
	}

	card, err := s.cardRepo.GetByNumber(ctx, req.CardNumber)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return domain.Movement{}, domain.NewError(domain.ErrorCardNotFound, "card not found", "")
		}
		return domain.Movement{}, err
	}

	accounts, err := s.accountRepo.GetAllByOwner(ctx, owner.ID)
	if err != nil && !errors.Is(err, commons.ErrRecordNotFound) {
		return domain.Movement{}, err
	}
	if len(accounts) == 0 {
		return domain.Movement{}, domain.NewError(domain.ErrorNoAccountsForOwner, "owner has no accounts", owner.ID)
	}

	var account domain.Account
	found := false
	for _, candidate := range accounts {
		if candidate.IsLinkedToCard(req.CardNumber) {
			account = candidate
			found = true
			break
		}
	}
	if !found {
		return domain.Movement{}, domain.NewError(domain.ErrorAccountNotFoundForCard, "no account of the owner is linked to this card", card.ID)
	}

	if err := checkAmount(req.Amount); err != nil {
		return domain.Movement{}, err
	}
	if account.Balance.LessThan(req.Amount) {
		return domain.Movement{}, insufficientFunds(account.IBAN)
	}

	cvvHash, err := s.hashCVV(req.CVV)
	if err != nil {
		return domain.Movement{}, err
	}

	if err := s.accountRepo.UpdateBalance(ctx, account.ID, account.Version, account.Balance.Sub(req.Amount)); err != nil {
		logger.Error("movement service card debit failed", err, logger.Fields{
			"accountId": account.ID,
		})
		return domain.Movement{}, err
	}

	created, err := s.movementRepo.Insert(ctx, domain.Movement{
		ID:        s.newID(),
		OwnerID:   owner.ID,
		CreatedAt: s.now(),
		Payload: domain.CardPayment{
			CardNumber:   req.CardNumber,
			MerchantName: req.MerchantName,
			Amount:       req.Amount,
			CVVHash:      cvvHash,
		},
	})
	if err != nil {
		logger.Error("movement service card payment insert failed", err, logger.Fields{
			"ownerId": owner.ID,
		})
		s.undo(ctx, account.IBAN, req.Amount)
		return domain.Movement{}, err
	}

	s.notifier.Notify(domain.NotificationCreate, created)

	logger.Info("movement service create card payment success", logger.Fields{
		"movementId": created.ID,
		"accountId":  account.ID,
	})
	return created, nil
}

func (s *MovementService) CreateTransfer(ctx context.Context, userID string, req domain.TransferRequest) (domain.TransferResult, error) {
	logger.Info("movement service create transfer request", logger.Fields{
		"userId":  userID,
		"payload": logger.SanitizePayload(req),
	})

	if err := validators.ValidateIBAN(req.SourceIBAN); err != nil {
		return domain.TransferResult{}, err
	}
	if err := validators.ValidateIBAN(req.DestinationIBAN); err != nil {
		return domain.TransferResult{}, err
	}
	if req.SourceIBAN == req.DestinationIBAN {
		return domain.TransferResult{}, domain.ValidationFailed("source and destination IBAN cannot be the same", req.SourceIBAN)
	}

	owner, err := s.resolveOwner(ctx, userID)
	if err != nil {
		return domain.TransferResult{}, err
	}
	source, err := s.resolveAccount(ctx, req.SourceIBAN)
	if err != nil {
		return domain.TransferResult{}, err
	}
	if source.OwnerID != owner.ID {
		return domain.TransferResult{}, ownershipMismatch(req.SourceIBAN)
	}
	destination, err := s.resolveAccount(ctx, req.DestinationIBAN)
	if err != nil {
		return domain.TransferResult{}, err
	}

	if err := checkAmount(req.Amount); err != nil {
		return domain.TransferResult{}, err
	}
	if source.Balance.LessThan(req.Amount) {
		return domain.TransferResult{}, insufficientFunds(source.IBAN)
	}

	originID := s.newID()
	destinationID := s.newID()

	intent, err := s.transferJournal.Open(ctx, domain.TransferIntent{
		ID:                    s.newID(),
		Kind:                  domain.TransferIntentTransfer,
		DebitIBAN:             source.IBAN,
		CreditIBAN:            destination.IBAN,
		Amount:                req.Amount,
		OriginMovementID:      originID,
		DestinationMovementID: destinationID,
		Stage:                 domain.TransferStagePending,
	})
	if err != nil {
		logger.Error("movement service transfer intent open failed", err, nil)
		return domain.TransferResult{}, err
	}

	if err := s.applyIntent(ctx, intent, source, destination); err != nil {
		return domain.TransferResult{}, err
	}

	now := s.now()
	createdDestination, err := s.movementRepo.Insert(ctx, domain.Movement{
		ID:        destinationID,
		OwnerID:   destination.OwnerID,
		CreatedAt: now,
		Payload: domain.Transfer{
			SourceIBAN:      req.SourceIBAN,
			DestinationIBAN: req.DestinationIBAN,
			Amount:          req.Amount,
			BeneficiaryName: req.BeneficiaryName,
		},
	})
	if err != nil {
		logger.Error("movement service transfer destination leg insert failed", err, logger.Fields{
			"intentId": intent.ID,
		})
		s.compensate(ctx, intent, domain.TransferStageCredited)
		return domain.TransferResult{}, err
	}

	counterpartID := createdDestination.ID
	createdOrigin, err := s.movementRepo.Insert(ctx, domain.Movement{
		ID:        originID,
		OwnerID:   owner.ID,
		CreatedAt: now,
		Payload: domain.Transfer{
			SourceIBAN:            req.SourceIBAN,
			DestinationIBAN:       req.DestinationIBAN,
			Amount:                req.Amount.Neg(),
			BeneficiaryName:       req.BeneficiaryName,
			CounterpartMovementID: &counterpartID,
		},
	})
	if err != nil {
		logger.Error("movement service transfer origin leg insert failed", err, logger.Fields{
			"intentId": intent.ID,
		})
		orphan := createdDestination
		orphan.Deleted = true
		if _, updateErr := s.movementRepo.Update(ctx, orphan); updateErr != nil {
			logger.Error("movement service orphan destination leg cleanup failed", updateErr, logger.Fields{
				"movementId": orphan.ID,
			})
		}
		s.compensate(ctx, intent, domain.TransferStageCredited)
		return domain.TransferResult{}, err
	}

	s.advance(ctx, intent.ID, domain.TransferStageCompleted)

	s.notifier.Notify(domain.NotificationCreate, createdDestination)
	s.notifier.Notify(domain.NotificationCreate, createdOrigin)

	logger.Info("movement service create transfer success", logger.Fields{
		"originId":      createdOrigin.ID,
		"destinationId": createdDestination.ID,
	})
	return domain.TransferResult{Origin: createdOrigin, Destination: createdDestination}, nil
}

// RevokeTransfer reverses a transfer inside the revocation window. Either leg
// id is accepted; the origin leg drives ownership and window checks.
func (s *MovementService) RevokeTransfer(ctx context.Context, userID string, movementID string) (domain.TransferResult, error) {
	logger.Info("movement service revoke transfer request", logger.Fields{
		"userId":     userID,
		"movementId": movementID,
	})

	movement, err := s.resolveMovement(ctx, movementID)
	if err != nil {
		return domain.TransferResult{}, err
	}

	if !s.now().Before(movement.CreatedAt.Add(s.revocationWindow)) {
		return domain.TransferResult{}, domain.NewError(domain.ErrorRevocationWindowExpired, "transfer can no longer be revoked", movement.ID)
	}

	transfer, ok := movement.Transfer()
	if !ok {
		return domain.TransferResult{}, domain.NewError(domain.ErrorNotATransfer, "movement is not a transfer", movement.ID)
	}

	origin := movement
	var counterpart domain.Movement
	hasCounterpart := false
	if !transfer.IsOrigin() {
		origin, err = s.movementRepo.GetByCounterpart(ctx, movement.ID)
		if err != nil {
			if errors.Is(err, commons.ErrRecordNotFound) {
				return domain.TransferResult{}, consistencyFault("origin leg missing for transfer", movement.ID)
			}
			return domain.TransferResult{}, err
		}
		if origin.Deleted {
			return domain.TransferResult{}, movementNotFound(origin.ID)
		}
		if transfer, ok = origin.Transfer(); !ok {
			return domain.TransferResult{}, consistencyFault("origin leg is not a transfer", origin.ID)
		}
		counterpart = movement
		hasCounterpart = true
	}

	owner, err := s.resolveOwner(ctx, userID)
	if err != nil {
		return domain.TransferResult{}, err
	}
	if owner.ID != origin.OwnerID {
		return domain.TransferResult{}, ownershipMismatch(transfer.SourceIBAN)
	}

	source, err := s.resolveAccount(ctx, transfer.SourceIBAN)
	if err != nil {
		return domain.TransferResult{}, err
	}
	destination, err := s.resolveAccount(ctx, transfer.DestinationIBAN)
	if err != nil {
		return domain.TransferResult{}, err
	}

	// The counterpart is loaded before any balance moves so a broken link
	// leaves both accounts untouched.
	if !hasCounterpart {
		if transfer.CounterpartMovementID == nil {
			return domain.TransferResult{}, consistencyFault("transfer has no counterpart movement", origin.ID)
		}
		counterpart, err = s.movementRepo.GetByID(ctx, *transfer.CounterpartMovementID)
		if err != nil {
			if errors.Is(err, commons.ErrRecordNotFound) {
				return domain.TransferResult{}, consistencyFault("counterpart movement missing", *transfer.CounterpartMovementID)
			}
			return domain.TransferResult{}, err
		}
	}

	amount := transfer.Amount.Abs()
	if destination.Balance.LessThan(amount) {
		return domain.TransferResult{}, insufficientFunds(destination.IBAN)
	}

	intent, err := s.transferJournal.Open(ctx, domain.TransferIntent{
		ID:                    s.newID(),
		Kind:                  domain.TransferIntentReversal,
		DebitIBAN:             destination.IBAN,
		CreditIBAN:            source.IBAN,
		Amount:                amount,
		OriginMovementID:      origin.ID,
		DestinationMovementID: counterpart.ID,
		Stage:                 domain.TransferStagePending,
	})
	if err != nil {
		logger.Error("movement service reversal intent open failed", err, nil)
		return domain.TransferResult{}, err
	}

	if err := s.applyIntent(ctx, intent, destination, source); err != nil {
		return domain.TransferResult{}, err
	}

	removedOrigin := origin
	removedCounterpart := counterpart

	origin.Deleted = true
	savedOrigin, err := s.movementRepo.Update(ctx, origin)
	if err != nil {
		logger.Error("movement service revoke origin update failed", err, logger.Fields{
			"movementId": origin.ID,
		})
		s.compensate(ctx, intent, domain.TransferStageCredited)
		return domain.TransferResult{}, err
	}

	counterpart.Deleted = true
	savedCounterpart, err := s.movementRepo.Update(ctx, counterpart)
	if err != nil {
		logger.Error("movement service revoke counterpart update failed", err, logger.Fields{
			"movementId": counterpart.ID,
		})
		if _, restoreErr := s.movementRepo.Update(ctx, removedOrigin); restoreErr != nil {
			// The origin stays deleted, so recovery finishes the reversal.
			logger.Error("movement service revoke origin restore failed", restoreErr, logger.Fields{
				"movementId": removedOrigin.ID,
			})
			return domain.TransferResult{}, err
		}
		s.compensate(ctx, intent, domain.TransferStageCredited)
		return domain.TransferResult{}, err
	}

	s.advance(ctx, intent.ID, domain.TransferStageCompleted)

	// Listeners reconcile by removing both legs and then restating them.
	s.notifier.Notify(domain.NotificationDelete, removedOrigin)
	s.notifier.Notify(domain.NotificationDelete, removedCounterpart)
	s.notifier.Notify(domain.NotificationCreate, savedOrigin)
	s.notifier.Notify(domain.NotificationCreate, savedCounterpart)

	logger.Info("movement service revoke transfer success", logger.Fields{
		"originId":      savedOrigin.ID,
		"destinationId": savedCounterpart.ID,
	})
	return domain.TransferResult{Origin: savedOrigin, Destination: savedCounterpart}, nil
}

func (s *MovementService) ListMovements(ctx context.Context, userID string) ([]domain.Movement, error) {
	owner, err := s.resolveOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	movements, err := s.movementRepo.GetByOwner(ctx, owner.ID)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return []domain.Movement{}, nil
		}
		return nil, err
	}

	sort.SliceStable(movements, func(i, j int) bool {
		if movements[i].CreatedAt.Equal(movements[j].CreatedAt) {
			return movements[i].ID > movements[j].ID
		}
		return movements[i].CreatedAt.After(movements[j].CreatedAt)
	})
	return movements, nil
}

// applyIntent debits then credits the two accounts of an intent, recording
// each stage before the next write. On error the balances are back where
// they were, or the intent sits at the stage that matches them.
func (s *MovementService) applyIntent(ctx context.Context, intent domain.TransferIntent, debit domain.Account, credit domain.Account) error {
	if err := s.accountRepo.UpdateBalance(ctx, debit.ID, debit.Version, debit.Balance.Sub(intent.Amount)); err != nil {
		logger.Error("movement service debit failed", err, logger.Fields{
			"intentId":  intent.ID,
			"accountId": debit.ID,
		})
		s.advance(ctx, intent.ID, domain.TransferStageAbandoned)
		return err
	}
	if err := s.transferJournal.Advance(ctx, intent.ID, domain.TransferStageDebited); err != nil {
		logger.Error("movement service debit not journaled", err, logger.Fields{
			"intentId": intent.ID,
		})
		s.undo(ctx, debit.IBAN, intent.Amount)
		s.advance(ctx, intent.ID, domain.TransferStageAbandoned)
		return fmt.Errorf("advance intent %s to %s: %w", intent.ID, domain.TransferStageDebited, err)
	}

	if err := s.accountRepo.UpdateBalance(ctx, credit.ID, credit.Version, credit.Balance.Add(intent.Amount)); err != nil {
		logger.Error("movement service credit failed", err, logger.Fields{
			"intentId":  intent.ID,
			"accountId": credit.ID,
		})
		s.compensate(ctx, intent, domain.TransferStageDebited)
		return err
	}
	if err := s.transferJournal.Advance(ctx, intent.ID, domain.TransferStageCredited); err != nil {
		logger.Error("movement service credit not journaled", err, logger.Fields{
			"intentId": intent.ID,
		})
		if undoErr := adjustBalance(ctx, s.accountRepo, credit.IBAN, intent.Amount.Neg()); undoErr != nil {
			logger.Error("movement service credit undo failed", undoErr, logger.Fields{
				"intentId": intent.ID,
				"iban":     credit.IBAN,
			})
			return fmt.Errorf("advance intent %s to %s: %w", intent.ID, domain.TransferStageCredited, err)
		}
		s.compensate(ctx, intent, domain.TransferStageDebited)
		return fmt.Errorf("advance intent %s to %s: %w", intent.ID, domain.TransferStageCredited, err)
	}

	return nil
}

// compensate walks an intent back from the stage the journal holds. A step
// that cannot be recorded stops the walk and leaves the rest to recovery.
func (s *MovementService) compensate(ctx context.Context, intent domain.TransferIntent, recorded domain.TransferStage) {
	if recorded == domain.TransferStageCredited {
		if err := compensateStep(ctx, s.accountRepo, s.transferJournal, intent, intent.CreditIBAN, intent.Amount.Neg(), domain.TransferStageDebited); err != nil {
			logger.Error("movement service compensation of credit failed", err, logger.Fields{
				"intentId": intent.ID,
			})
			return
		}
	}

	if err := compensateStep(ctx, s.accountRepo, s.transferJournal, intent, intent.DebitIBAN, intent.Amount, domain.TransferStageCompensated); err != nil {
		logger.Error("movement service compensation of debit failed", err, logger.Fields{
			"intentId": intent.ID,
		})
	}
}

func (s *MovementService) advance(ctx context.Context, intentID string, stage domain.TransferStage) {
	if err := s.transferJournal.Advance(ctx, intentID, stage); err != nil {
		logger.Error("movement service transfer journal advance failed", err, logger.Fields{
			"intentId": intentID,
			"stage":    stage,
		})
	}
}

// undo reverts a single-account write whose movement record could not be stored.
func (s *MovementService) undo(ctx context.Context, iban string, delta decimal.Decimal) {
	if err := adjustBalance(ctx, s.accountRepo, iban, delta); err != nil {
		logger.Error("movement service balance undo failed", err, logger.Fields{
			"iban":  iban,
			"delta": delta.String(),
		})
	}
}

func (s *MovementService) hashCVV(cvv string) (string, error) {
	if cvv == "" {
		return "", nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cvv), s.cvvHashCost)
	if err != nil {
		return "", fmt.Errorf("hash cvv: %w", err)
	}
	return string(hash), nil
}

func (s *MovementService) resolveOwner(ctx context.Context, userID string) (domain.Owner, error) {
	owner, err := s.ownerRepo.GetAuthenticatedOwner(ctx, userID)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return domain.Owner{}, domain.NewError(domain.ErrorOwnerNotFound, "no owner for the authenticated user", userID)
		}
		return domain.Owner{}, err
	}
	return owner, nil
}

func (s *MovementService) resolveAccount(ctx context.Context, iban string) (domain.Account, error) {
	account, err := s.accountRepo.GetByIBAN(ctx, iban)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return domain.Account{}, domain.NewError(domain.ErrorAccountNotFound, "account not found", iban)
		}
		return domain.Account{}, err
	}
	return account, nil
}

func (s *MovementService) resolveMovement(ctx context.Context, id string) (domain.Movement, error) {
	movement, err := s.movementRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return domain.Movement{}, movementNotFound(id)
		}
		return domain.Movement{}, err
	}
	if movement.Deleted {
		return domain.Movement{}, movementNotFound(id)
	}
	return movement, nil
}

func isActiveDirectDebitTo(movement domain.Movement, destinationIBAN string) bool {
	if movement.Deleted {
		return false
	}
	debit, ok := movement.Payload.(domain.DirectDebit)
	return ok && debit.Active && debit.DestinationIBAN == destinationIBAN
}

func newMovementID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func ownershipMismatch(iban string) error {
	return domain.NewError(domain.ErrorIbanOwnershipMismatch, "IBAN does not belong to the requesting owner", iban)
}

func checkAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return nonPositiveAmount(amount)
	}
	if !amount.Truncate(amountScale).Equal(amount) {
		return domain.ValidationFailed(fmt.Sprintf("amount cannot have more than %d decimal places", amountScale), amount.String())
	}
	return nil
}

func nonPositiveAmount(amount decimal.Decimal) error {
	return domain.NewError(domain.ErrorNonPositiveAmount, "amount must be greater than zero", amount.String())
}

func insufficientFunds(iban string) error {
	return domain.NewError(domain.ErrorInsufficientFunds, "insufficient funds", iban)
}

func movementNotFound(id string) error {
	return domain.NewError(domain.ErrorMovementNotFound, "movement not found", id)
}

func consistencyFault(message string, id string) error {
	return domain.NewError(domain.ErrorConsistencyFault, message, id)
}
