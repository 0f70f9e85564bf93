// Package validators holds the pure checksum validators used before any
// movement touches an account.
package validators

import "github.com/api-sage/movement-ledger/src/internal/domain"

const (
	minIBANLength = 15
	maxIBANLength = 34
)

// IsValidIBAN applies the ISO 7064 mod-97 check. Only upper-case letters and
// digits are accepted.
func IsValidIBAN(iban string) bool {
	if len(iban) < minIBANLength || len(iban) > maxIBANLength {
		return false
	}
	for i := 0; i < len(iban); i++ {
		if !isDigit(iban[i]) && !isUpper(iban[i]) {
			return false
		}
	}

	rearranged := iban[4:] + iban[:4]

	// Folding digit by digit keeps the remainder small; the expanded number
	// would not fit in any machine integer.
	remainder := 0
	for i := 0; i < len(rearranged); i++ {
		ch := rearranged[i]
		if isDigit(ch) {
			remainder = (remainder*10 + int(ch-'0')) % 97
			continue
		}
		value := int(ch-'A') + 10
		remainder = (remainder*10 + value/10) % 97
		remainder = (remainder*10 + value%10) % 97
	}

	return remainder == 1
}

func ValidateIBAN(iban string) error {
	if !IsValidIBAN(iban) {
		return domain.ValidationFailed("invalid IBAN", iban)
	}
	return nil
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isUpper(ch byte) bool {
	return ch >= 'A' && ch <= 'Z'
}
