package domain

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	ErrorValidationFailed        ErrorKind = "ValidationFailed"
	ErrorOwnerNotFound           ErrorKind = "OwnerNotFound"
	ErrorAccountNotFound         ErrorKind = "AccountNotFound"
	ErrorCardNotFound            ErrorKind = "CardNotFound"
	ErrorNoAccountsForOwner      ErrorKind = "NoAccountsForOwner"
	ErrorAccountNotFoundForCard  ErrorKind = "AccountNotFoundForCard"
	ErrorMovementNotFound        ErrorKind = "MovementNotFound"
	ErrorIbanOwnershipMismatch   ErrorKind = "IbanOwnershipMismatch"
	ErrorNonPositiveAmount       ErrorKind = "NonPositiveAmount"
	ErrorInsufficientFunds       ErrorKind = "InsufficientFunds"
	ErrorDuplicateDirectDebit    ErrorKind = "DuplicateDirectDebit"
	ErrorRevocationWindowExpired ErrorKind = "RevocationWindowExpired"
	ErrorNotATransfer            ErrorKind = "NotATransfer"
	ErrorConsistencyFault        ErrorKind = "ConsistencyFault"
)

func (k ErrorKind) IsNotFound() bool {
	switch k {
	case ErrorOwnerNotFound, ErrorAccountNotFound, ErrorCardNotFound,
		ErrorNoAccountsForOwner, ErrorAccountNotFoundForCard, ErrorMovementNotFound:
		return true
	}
	return false
}

// Error is a business-rule violation. It is returned to the caller as is and
// must not be retried.
type Error struct {
	Kind    ErrorKind
	Message string
	Value   string
}

func (e *Error) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Value)
}

func NewError(kind ErrorKind, message string, value string) *Error {
	return &Error{Kind: kind, Message: message, Value: value}
}

func ValidationFailed(message string, value string) *Error {
	return NewError(ErrorValidationFailed, message, value)
}

// KindOf returns the kind of a business error, or "" for anything else.
func KindOf(err error) ErrorKind {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return ""
}

func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
