package domain

import "github.com/shopspring/decimal"

type DirectDebitRequest struct {
	SourceIBAN      string
	DestinationIBAN string
	Amount          decimal.Decimal
	CreditorName    string
	CreditorID      string
	Periodicity     Periodicity
}

type PayrollDepositRequest struct {
	SourceIBAN      string
	DestinationIBAN string
	Amount          decimal.Decimal
	CompanyName     string
	CompanyTaxID    string
}

type CardPaymentRequest struct {
	CardNumber   string
	MerchantName string
	Amount       decimal.Decimal
	CVV          string
}

type TransferRequest struct {
	SourceIBAN      string
	DestinationIBAN string
	Amount          decimal.Decimal
	BeneficiaryName string
}

// TransferResult holds both legs of a transfer.
type TransferResult struct {
	Origin      Movement `json:"origin"`
	Destination Movement `json:"destination"`
}
