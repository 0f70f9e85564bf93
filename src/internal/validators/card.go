package validators

import "github.com/api-sage/movement-ledger/src/internal/domain"

const cardNumberLength = 16

// IsValidCardNumber accepts exactly sixteen ASCII digits passing the Luhn check.
func IsValidCardNumber(number string) bool {
	if len(number) != cardNumberLength {
		return false
	}

	sum := 0
	alternate := false
	for i := len(number) - 1; i >= 0; i-- {
		if !isDigit(number[i]) {
			return false
		}
		n := int(number[i] - '0')
		if alternate {
			n *= 2
			if n > 9 {
				n -= 9
			}
		}
		sum += n
		alternate = !alternate
	}

	return sum%10 == 0
}

func ValidateCardNumber(number string) error {
	if !IsValidCardNumber(number) {
		return domain.ValidationFailed("invalid card number", maskCardNumber(number))
	}
	return nil
}

func maskCardNumber(number string) string {
	if len(number) <= 4 {
		return number
	}
	masked := make([]byte, len(number))
	for i := range masked {
		masked[i] = '*'
	}
	copy(masked[len(number)-4:], number[len(number)-4:])
	return string(masked)
}
