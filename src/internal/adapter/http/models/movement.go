package models

import (
	"github.com/api-sage/movement-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateDirectDebitRequest struct {
	SourceIBAN      string          `json:"sourceIban"`
	DestinationIBAN string          `json:"destinationIban"`
	Amount          decimal.Decimal `json:"amount"`
	CreditorName    string          `json:"creditorName"`
	CreditorID      string          `json:"creditorId"`
	Periodicity     string          `json:"periodicity"`
}

func (r CreateDirectDebitRequest) ToDomain() domain.DirectDebitRequest {
	return domain.DirectDebitRequest{
		SourceIBAN:      r.SourceIBAN,
		DestinationIBAN: r.DestinationIBAN,
		Amount:          r.Amount,
		CreditorName:    r.CreditorName,
		CreditorID:      r.CreditorID,
		Periodicity:     domain.Periodicity(r.Periodicity),
	}
}

type CreatePayrollDepositRequest struct {
	SourceIBAN      string          `json:"sourceIban"`
	DestinationIBAN string          `json:"destinationIban"`
	Amount          decimal.Decimal `json:"amount"`
	CompanyName     string          `json:"companyName"`
	CompanyTaxID    string          `json:"companyTaxId"`
}

func (r CreatePayrollDepositRequest) ToDomain() domain.PayrollDepositRequest {
	return domain.PayrollDepositRequest{
		SourceIBAN:      r.SourceIBAN,
		DestinationIBAN: r.DestinationIBAN,
		Amount:          r.Amount,
		CompanyName:     r.CompanyName,
		CompanyTaxID:    r.CompanyTaxID,
	}
}

type CreateCardPaymentRequest struct {
	CardNumber   string          `json:"cardNumber"`
	MerchantName string          `json:"merchantName"`
	Amount       decimal.Decimal `json:"amount"`
	CVV          string          `json:"cvv"`
}

func (r CreateCardPaymentRequest) ToDomain() domain.CardPaymentRequest {
	return domain.CardPaymentRequest{
		CardNumber:   r.CardNumber,
		MerchantName: r.MerchantName,
		Amount:       r.Amount,
		CVV:          r.CVV,
	}
}

type CreateTransferRequest struct {
	SourceIBAN      string          `json:"sourceIban"`
	DestinationIBAN string          `json:"destinationIban"`
	Amount          decimal.Decimal `json:"amount"`
	BeneficiaryName string          `json:"beneficiaryName"`
}

func (r CreateTransferRequest) ToDomain() domain.TransferRequest {
	return domain.TransferRequest{
		SourceIBAN:      r.SourceIBAN,
		DestinationIBAN: r.DestinationIBAN,
		Amount:          r.Amount,
		BeneficiaryName: r.BeneficiaryName,
	}
}
