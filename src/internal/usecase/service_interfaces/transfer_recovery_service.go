package service_interfaces

import (
	"context"

	"github.com/api-sage/movement-ledger/src/internal/domain"
)

type TransferRecoveryService interface {
	Recover(ctx context.Context) (domain.RecoveryReport, error)
}
