package domain

import "github.com/shopspring/decimal"

// Account is owned by the external account store. The engine only reads it and
// writes balances back through the gateway.
type Account struct {
	ID         string
	IBAN       string
	OwnerID    string
	CardNumber *string
	Balance    decimal.Decimal
	Version    int64
}

func (a Account) IsLinkedToCard(cardNumber string) bool {
	return a.CardNumber != nil && *a.CardNumber == cardNumber
}

// Owner is the customer that holds accounts. UserID links it to the
// authenticated user behind it.
type Owner struct {
	ID     string
	UserID string
	Name   string
}

type Card struct {
	ID      string
	Number  string
	OwnerID string
}
