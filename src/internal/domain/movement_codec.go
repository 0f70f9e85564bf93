package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

type movementJSON struct {
	ID        string          `json:"id"`
	OwnerID   string          `json:"ownerId"`
	Kind      MovementKind    `json:"kind"`
	CreatedAt time.Time       `json:"createdAt"`
	Deleted   bool            `json:"deleted"`
	Payload   json.RawMessage `json:"payload"`
}

func (m Movement) MarshalJSON() ([]byte, error) {
	payload, err := EncodePayload(m.Payload)
	if err != nil {
		return nil, err
	}

	return json.Marshal(movementJSON{
		ID:        m.ID,
		OwnerID:   m.OwnerID,
		Kind:      m.Kind(),
		CreatedAt: m.CreatedAt,
		Deleted:   m.Deleted,
		Payload:   payload,
	})
}

func (m *Movement) UnmarshalJSON(data []byte) error {
	var raw movementJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	payload, err := DecodePayload(raw.Kind, raw.Payload)
	if err != nil {
		return err
	}

	*m = Movement{
		ID:        raw.ID,
		OwnerID:   raw.OwnerID,
		CreatedAt: raw.CreatedAt,
		Deleted:   raw.Deleted,
		Payload:   payload,
	}
	return nil
}

func EncodePayload(payload Payload) ([]byte, error) {
	if payload == nil {
		return []byte("null"), nil
	}
	return json.Marshal(payload)
}

// DecodePayload rebuilds the payload variant that matches kind.
func DecodePayload(kind MovementKind, raw []byte) (Payload, error) {
	switch kind {
	case MovementKindDirectDebit:
		var p DirectDebit
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode direct debit payload: %w", err)
		}
		return p, nil
	case MovementKindPayrollDeposit:
		var p PayrollDeposit
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode payroll deposit payload: %w", err)
		}
		return p, nil
	case MovementKindCardPayment:
		var p CardPayment
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode card payment payload: %w", err)
		}
		return p, nil
	case MovementKindTransfer:
		var p Transfer
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode transfer payload: %w", err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown movement kind %q", kind)
	}
}
