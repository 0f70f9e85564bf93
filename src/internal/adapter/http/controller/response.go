package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/api-sage/movement-ledger/src/internal/commons"
	"github.com/api-sage/movement-ledger/src/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// statusFor maps an engine error to the HTTP status returned to the caller.
func statusFor(err error) int {
	if errors.Is(err, commons.ErrConcurrentUpdate) {
		return http.StatusConflict
	}

	kind := domain.KindOf(err)
	switch {
	case kind == "":
		return http.StatusInternalServerError
	case kind.IsNotFound():
		return http.StatusNotFound
	}

	switch kind {
	case domain.ErrorValidationFailed, domain.ErrorNonPositiveAmount:
		return http.StatusBadRequest
	case domain.ErrorIbanOwnershipMismatch:
		return http.StatusForbidden
	case domain.ErrorInsufficientFunds, domain.ErrorDuplicateDirectDebit,
		domain.ErrorRevocationWindowExpired, domain.ErrorNotATransfer:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func errorResponse[T any](err error) commons.Response[T] {
	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		errs := []string{string(domainErr.Kind)}
		if domainErr.Value != "" {
			errs = append(errs, domainErr.Value)
		}
		return commons.ErrorResponse[T](domainErr.Message, errs...)
	}
	if errors.Is(err, commons.ErrConcurrentUpdate) {
		return commons.ErrorResponse[T]("account was modified concurrently, retry the request")
	}
	return commons.ErrorResponse[T]("internal error")
}
