package validators

import (
	"regexp"

	"github.com/api-sage/movement-ledger/src/internal/domain"
)

var cifPattern = regexp.MustCompile(`^[A-HJ-NP-SUVW][0-9]{7}[0-9A-J]$`)

const (
	cifDigitControlLetters  = "ABEH"
	cifLetterControlLetters = "KPQRSNW"
	cifControlLetters       = "JABCDEFGHI"
)

// IsValidCIF checks a Spanish company tax id: organisation letter, seven
// digit body and a control character that is a digit, a letter, or either
// depending on the organisation letter.
func IsValidCIF(cif string) bool {
	if len(cif) != 9 || !cifPattern.MatchString(cif) {
		return false
	}

	letter := cif[0]
	body := cif[1:8]
	control := cif[8]

	sum := 0
	for i := 0; i < len(body); i++ {
		digit := int(body[i] - '0')
		if i%2 == 0 {
			doubled := digit * 2
			sum += doubled/10 + doubled%10
			continue
		}
		sum += digit
	}

	unit := (10 - sum%10) % 10
	digitControl := byte('0' + unit)
	letterControl := cifControlLetters[unit]

	switch {
	case containsByte(cifDigitControlLetters, letter):
		return control == digitControl
	case containsByte(cifLetterControlLetters, letter):
		return control == letterControl
	default:
		return control == digitControl || control == letterControl
	}
}

func ValidateCIF(cif string) error {
	if !IsValidCIF(cif) {
		return domain.ValidationFailed("invalid CIF", cif)
	}
	return nil
}

func containsByte(set string, ch byte) bool {
	for i := 0; i < len(set); i++ {
		if set[i] == ch {
			return true
		}
	}
	return false
}
