package shortcode

import (
	"fmt"
	"strings"

	apperrors "github.com/Kosench/go-shortlink/internal/errors"
)

// InvalidCodeMessage is shown to users whose custom code was rejected.
var InvalidCodeMessage = fmt.Sprintf("custom code invalid: use %d-%d characters from a-z, A-Z, 0-9", MinLength, MaxLength)

func isAlphabetByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// ValidateCustomCode checks length and charset of a caller-supplied code.
func ValidateCustomCode(code string) error {
	if len(code) < MinLength || len(code) > MaxLength {
		return apperrors.NewValidationError("custom", InvalidCodeMessage,
			fmt.Errorf("length %d outside [%d, %d]: %w", len(code), MinLength, MaxLength, apperrors.ErrInvalidCode))
	}

	for i := 0; i < len(code); i++ {
		if !isAlphabetByte(code[i]) {
			return apperrors.NewValidationError("custom", InvalidCodeMessage,
				fmt.Errorf("character %q at %d not in alphabet: %w", code[i], i, apperrors.ErrInvalidCode))
		}
	}

	return nil
}

// ValidateOriginal only requires a non-empty value. Scheme and shape are
// not checked.
func ValidateOriginal(original string) error {
	if original == "" {
		return apperrors.NewValidationError("original", "please provide a valid url", apperrors.ErrEmptyOriginal)
	}
	return nil
}

// TrimInput strips surrounding whitespace. Inner characters are kept as
// submitted so that custom codes are validated exactly as entered.
func TrimInput(input string) string {
	return strings.TrimSpace(input)
}
