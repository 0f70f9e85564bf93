package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/api-sage/movement-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/movement-ledger/src/internal/domain"
	"github.com/api-sage/movement-ledger/src/internal/logger"
)

const DefaultNotifyTimeout = 5 * time.Second

var errNoTargetAccount = errors.New("movement has no target account")

// NotificationService routes each movement to the user behind the account it
// touches. Delivery runs in the background; failures are logged and dropped.
type NotificationService struct {
	accountRepo repo_interfaces.AccountRepository
	ownerRepo   repo_interfaces.OwnerRepository
	userRepo    repo_interfaces.UserRepository
	channel     repo_interfaces.NotificationChannel
	timeout     time.Duration
	now         func() time.Time
	inflight    sync.WaitGroup
}

func NewNotificationService(
	accountRepo repo_interfaces.AccountRepository,
	ownerRepo repo_interfaces.OwnerRepository,
	userRepo repo_interfaces.UserRepository,
	channel repo_interfaces.NotificationChannel,
	timeout time.Duration,
) *NotificationService {
	if timeout <= 0 {
		timeout = DefaultNotifyTimeout
	}
	return &NotificationService{
		accountRepo: accountRepo,
		ownerRepo:   ownerRepo,
		userRepo:    userRepo,
		channel:     channel,
		timeout:     timeout,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *NotificationService) Notify(action domain.NotificationAction, movement domain.Movement) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("notification service delivery panicked", fmt.Errorf("%v", r), logger.Fields{
					"movementId": movement.ID,
				})
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if err := s.deliver(ctx, action, movement); err != nil {
			logger.Warn("notification service delivery dropped", logger.Fields{
				"movementId": movement.ID,
				"action":     action,
				"error":      err.Error(),
			})
		}
	}()
}

// Wait blocks until every notification handed to Notify has finished.
func (s *NotificationService) Wait() {
	s.inflight.Wait()
}

func (s *NotificationService) deliver(ctx context.Context, action domain.NotificationAction, movement domain.Movement) error {
	account, err := s.targetAccount(ctx, movement)
	if err != nil {
		return err
	}

	owner, err := s.ownerRepo.GetByID(ctx, account.OwnerID)
	if err != nil {
		return fmt.Errorf("resolve owner %s: %w", account.OwnerID, err)
	}

	user, err := s.userRepo.GetByID(ctx, owner.UserID)
	if err != nil {
		return fmt.Errorf("resolve user %s: %w", owner.UserID, err)
	}

	notification := domain.Notification{
		Action:   action,
		Kind:     movement.Kind(),
		Movement: movement,
		SentAt:   s.now(),
	}
	if err := s.channel.SendToUser(ctx, user.Username, notification); err != nil {
		return fmt.Errorf("send to %s: %w", user.Username, err)
	}

	logger.Info("notification service delivered", logger.Fields{
		"movementId": movement.ID,
		"action":     action,
		"recipient":  user.Username,
	})
	return nil
}

// targetAccount picks the account whose owner is told about the movement:
// the debited side of a direct debit, the credited side of a payroll, the
// card's account, and the side of a transfer leg given by its sign.
func (s *NotificationService) targetAccount(ctx context.Context, movement domain.Movement) (domain.Account, error) {
	var (
		account domain.Account
		err     error
	)

	switch payload := movement.Payload.(type) {
	case domain.DirectDebit:
		account, err = s.accountRepo.GetByIBAN(ctx, payload.SourceIBAN)
	case domain.PayrollDeposit:
		account, err = s.accountRepo.GetByIBAN(ctx, payload.DestinationIBAN)
	case domain.CardPayment:
		account, err = s.accountRepo.GetByCardNumber(ctx, payload.CardNumber)
	case domain.Transfer:
		if payload.IsOrigin() {
			account, err = s.accountRepo.GetByIBAN(ctx, payload.SourceIBAN)
		} else {
			account, err = s.accountRepo.GetByIBAN(ctx, payload.DestinationIBAN)
		}
	default:
		return domain.Account{}, errNoTargetAccount
	}
	if err != nil {
		return domain.Account{}, fmt.Errorf("resolve target account: %w", err)
	}
	return account, nil
}
