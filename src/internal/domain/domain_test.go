package domain

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovementJSONKeepsTransferCounterpart(t *testing.T) {
	counterpart := "dest-1"
	origin := Movement{
		ID:        "origin-1",
		OwnerID:   "owner-1",
		CreatedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		Payload: Transfer{
			SourceIBAN:            "ES9121000418450200051332",
			DestinationIBAN:       "ES6000491500051234567892",
			Amount:                decimal.RequireFromString("-25.50"),
			BeneficiaryName:       "Luis",
			CounterpartMovementID: &counterpart,
		},
	}

	data, err := json.Marshal(origin)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind":"TRANSFER"`)

	var decoded Movement
	require.NoError(t, json.Unmarshal(data, &decoded))

	transfer, ok := decoded.Transfer()
	require.True(t, ok)
	assert.True(t, transfer.IsOrigin())
	require.NotNil(t, transfer.CounterpartMovementID)
	assert.Equal(t, "dest-1", *transfer.CounterpartMovementID)
	assert.True(t, transfer.Amount.Equal(decimal.RequireFromString("-25.50")))
}

func TestCardPaymentNeverSerialisesCVVHash(t *testing.T) {
	movement := Movement{
		ID: "card-1",
		Payload: CardPayment{
			CardNumber:   "4539578763621486",
			MerchantName: "Bookshop",
			Amount:       decimal.NewFromInt(12),
			CVVHash:      "$2a$04$secret",
		},
	}

	data, err := json.Marshal(movement)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")
}

func TestDecodePayloadRejectsUnknownKind(t *testing.T) {
	_, err := DecodePayload("WIRE", []byte(`{}`))
	assert.EqualError(t, err, `unknown movement kind "WIRE"`)

	_, err = DecodePayload(MovementKindDirectDebit, []byte(`[`))
	assert.Error(t, err)
}

func TestErrorKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("create transfer: %w", NewError(ErrorInsufficientFunds, "not enough funds", "ES9121000418450200051332"))

	assert.Equal(t, ErrorInsufficientFunds, KindOf(err))
	assert.True(t, IsKind(err, ErrorInsufficientFunds))
	assert.False(t, IsKind(nil, ErrorInsufficientFunds))
	assert.Equal(t, ErrorKind(""), KindOf(fmt.Errorf("plain")))
	assert.Equal(t, "InsufficientFunds: not enough funds (ES9121000418450200051332)", err.(interface{ Unwrap() error }).Unwrap().Error())
}

func TestNotFoundKinds(t *testing.T) {
	assert.True(t, ErrorMovementNotFound.IsNotFound())
	assert.True(t, ErrorAccountNotFoundForCard.IsNotFound())
	assert.False(t, ErrorIbanOwnershipMismatch.IsNotFound())
	assert.False(t, ErrorConsistencyFault.IsNotFound())
}

func TestTransferStageTerminal(t *testing.T) {
	assert.False(t, TransferStagePending.IsTerminal())
	assert.False(t, TransferStageCredited.IsTerminal())
	assert.True(t, TransferStageCompensated.IsTerminal())
	assert.True(t, PeriodicityQuarterly.IsValid())
	assert.False(t, Periodicity("DAILY").IsValid())
}
