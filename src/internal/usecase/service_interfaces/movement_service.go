package service_interfaces

import (
	"context"

	"github.com/api-sage/movement-ledger/src/internal/domain"
)

type MovementService interface {
	CreateDirectDebit(ctx context.Context, userID string, req domain.DirectDebitRequest) (domain.Movement, error)
	CreatePayrollDeposit(ctx context.Context, userID string, req domain.PayrollDepositRequest) (domain.Movement, error)
	CreateCardPayment(ctx context.Context, userID string, req domain.CardPaymentRequest) (domain.Movement, error)
	CreateTransfer(ctx context.Context, userID string, req domain.TransferRequest) (domain.TransferResult, error)
	RevokeTransfer(ctx context.Context, userID string, movementID string) (domain.TransferResult, error)
	ListMovements(ctx context.Context, userID string) ([]domain.Movement, error)
}
