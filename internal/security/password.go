package security

import (
	"errors"
	"fmt"
	"unicode"
)

// ErrWeakPassword is returned when a password fails the policy; the message
// names the first missing requirement.
var ErrWeakPassword = errors.New("password does not meet requirements")

const minPasswordLength = 8

// ValidatePassword checks the password policy: at least 8 characters, with
// at least one digit, one uppercase letter, one lowercase letter, and one
// special character.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters long", ErrWeakPassword, minPasswordLength)
	}
	var digit, upper, lower, special bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		default:
			special = true
		}
	}
	switch {
	case !digit:
		return fmt.Errorf("%w: must contain at least one digit", ErrWeakPassword)
	case !upper:
		return fmt.Errorf("%w: must contain at least one uppercase letter", ErrWeakPassword)
	case !lower:
		return fmt.Errorf("%w: must contain at least one lowercase letter", ErrWeakPassword)
	case !special:
		return fmt.Errorf("%w: must contain at least one special character", ErrWeakPassword)
	}
	return nil
}
