package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type MovementKind string

const (
	MovementKindDirectDebit    MovementKind = "DIRECT_DEBIT"
	MovementKindPayrollDeposit MovementKind = "PAYROLL_DEPOSIT"
	MovementKindCardPayment    MovementKind = "CARD_PAYMENT"
	MovementKindTransfer       MovementKind = "TRANSFER"
)

type Periodicity string

const (
	PeriodicityWeekly    Periodicity = "WEEKLY"
	PeriodicityMonthly   Periodicity = "MONTHLY"
	PeriodicityQuarterly Periodicity = "QUARTERLY"
	PeriodicityYearly    Periodicity = "YEARLY"
)

func (p Periodicity) IsValid() bool {
	switch p {
	case PeriodicityWeekly, PeriodicityMonthly, PeriodicityQuarterly, PeriodicityYearly:
		return true
	}
	return false
}

// Payload is the kind-specific body of a movement. The set of variants is
// closed: DirectDebit, PayrollDeposit, CardPayment and Transfer.
type Payload interface {
	Kind() MovementKind
	isPayload()
}

// Movement is an immutable record of a single financial event. Only Deleted
// changes after creation, and only through transfer revocation.
type Movement struct {
	ID        string
	OwnerID   string
	CreatedAt time.Time
	Deleted   bool
	Payload   Payload
}

func (m Movement) Kind() MovementKind {
	if m.Payload == nil {
		return ""
	}
	return m.Payload.Kind()
}

// Transfer returns the transfer payload when the movement is one leg of a transfer.
func (m Movement) Transfer() (Transfer, bool) {
	t, ok := m.Payload.(Transfer)
	return t, ok
}

type DirectDebit struct {
	SourceIBAN      string          `json:"sourceIban"`
	DestinationIBAN string          `json:"destinationIban"`
	Amount          decimal.Decimal `json:"amount"`
	CreditorName    string          `json:"creditorName"`
	CreditorID      string          `json:"creditorId"`
	Periodicity     Periodicity     `json:"periodicity"`
	Active          bool            `json:"active"`
	LastRunAt       time.Time       `json:"lastRunAt"`
}

func (DirectDebit) Kind() MovementKind { return MovementKindDirectDebit }
func (DirectDebit) isPayload()         {}

type PayrollDeposit struct {
	SourceIBAN      string          `json:"sourceIban"`
	DestinationIBAN string          `json:"destinationIban"`
	Amount          decimal.Decimal `json:"amount"`
	CompanyName     string          `json:"companyName"`
	CompanyTaxID    string          `json:"companyTaxId"`
}

func (PayrollDeposit) Kind() MovementKind { return MovementKindPayrollDeposit }
func (PayrollDeposit) isPayload()         {}

// CardPayment keeps the CVV only as a bcrypt hash taken at capture time. It is
// never checked again and never serialised.
type CardPayment struct {
	CardNumber   string          `json:"cardNumber"`
	MerchantName string          `json:"merchantName"`
	Amount       decimal.Decimal `json:"amount"`
	CVVHash      string          `json:"-"`
}

func (CardPayment) Kind() MovementKind { return MovementKindCardPayment }
func (CardPayment) isPayload()         {}

// Transfer is one leg of an account-to-account transfer. The origin leg carries
// the negated amount and points at the destination leg through
// CounterpartMovementID; the destination leg carries the positive amount.
type Transfer struct {
	SourceIBAN            string          `json:"sourceIban"`
	DestinationIBAN       string          `json:"destinationIban"`
	Amount                decimal.Decimal `json:"amount"`
	BeneficiaryName       string          `json:"beneficiaryName"`
	CounterpartMovementID *string         `json:"counterpartMovementId,omitempty"`
}

func (Transfer) Kind() MovementKind { return MovementKindTransfer }
func (Transfer) isPayload()         {}

// IsOrigin reports whether this is the debit leg of the transfer.
func (t Transfer) IsOrigin() bool {
	return t.Amount.IsNegative()
}
