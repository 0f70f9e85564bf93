package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransferIntentKind string

const (
	TransferIntentTransfer TransferIntentKind = "TRANSFER"
	TransferIntentReversal TransferIntentKind = "REVERSAL"
)

type TransferStage string

const (
	TransferStagePending     TransferStage = "PENDING"
	TransferStageDebited     TransferStage = "DEBITED"
	TransferStageCredited    TransferStage = "CREDITED"
	TransferStageCompleted   TransferStage = "COMPLETED"
	TransferStageCompensated TransferStage = "COMPENSATED"
	TransferStageAbandoned   TransferStage = "ABANDONED"
)

func (s TransferStage) IsTerminal() bool {
	switch s {
	case TransferStageCompleted, TransferStageCompensated, TransferStageAbandoned:
		return true
	}
	return false
}

// TransferIntent journals a two-account balance mutation. The debit is always
// applied before the credit, and the stage is advanced after each write, so an
// interrupted mutation can be compensated from the journal alone.
//
// For a TRANSFER intent the movement ids are the legs about to be inserted; for
// a REVERSAL intent they are the legs being revoked.
type TransferIntent struct {
	ID                    string
	Kind                  TransferIntentKind
	DebitIBAN             string
	CreditIBAN            string
	Amount                decimal.Decimal
	OriginMovementID      string
	DestinationMovementID string
	Stage                 TransferStage
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// RecoveryReport counts what a recovery sweep did with stale intents.
type RecoveryReport struct {
	Inspected   int
	Completed   int
	Compensated int
	Abandoned   int
	Failed      int
}
