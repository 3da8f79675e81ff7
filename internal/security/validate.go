package security

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MinPinLength      = 4
	MaxPinLength      = 6
	MinPasswordLength = 8
)

var (
	ErrValidation = errors.New("validation failed")

	ErrPinFormat        = errors.New("PIN must be 4 to 6 digits")
	ErrPinMismatch      = errors.New("PINs do not match")
	ErrPasswordShort    = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrPasswordCommon   = errors.New("password is too common")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPasswordReused   = errors.New("new password must differ from the current one")
	ErrPhraseMismatch   = errors.New("confirmation text does not match")
)

// ValidationError reports a recoverable problem with one input field.
// It matches ErrValidation and its Reason with errors.Is.
type ValidationError struct {
	Field  string
	Reason error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() []error {
	return []error{ErrValidation, e.Reason}
}

func invalid(field string, reason error) error {
	return &ValidationError{Field: field, Reason: reason}
}

// commonPasswords holds passwords rejected regardless of length.
var commonPasswords = map[string]struct{}{
	"password":     {},
	"password1":    {},
	"password123":  {},
	"12345678":     {},
	"123456789":    {},
	"1234567890":   {},
	"qwertyuiop":   {},
	"qwerty123":    {},
	"iloveyou":     {},
	"sunshine":     {},
	"princess":     {},
	"football":     {},
	"baseball":     {},
	"welcome1":     {},
	"letmein1":     {},
	"11111111":     {},
	"00000000":     {},
	"abc12345":     {},
	"trustno1":     {},
	"dreamjournal": {},
	"sweetdreams":  {},
}

// ValidatePIN checks the PIN format: 4 to 6 ASCII digits.
func ValidatePIN(pin string) error {
	if len(pin) < MinPinLength || len(pin) > MaxPinLength {
		return invalid("pin", ErrPinFormat)
	}
	for i := 0; i < len(pin); i++ {
		if pin[i] < '0' || pin[i] > '9' {
			return invalid("pin", ErrPinFormat)
		}
	}
	return nil
}

// ValidateNewPIN checks format and that the confirmation matches.
func ValidateNewPIN(pin, confirm string) error {
	if err := ValidatePIN(pin); err != nil {
		return err
	}
	if pin != confirm {
		return invalid("confirm_pin", ErrPinMismatch)
	}
	return nil
}

// ValidatePassword checks an encryption password against the policy.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return invalid("password", ErrPasswordShort)
	}
	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		return invalid("password", ErrPasswordCommon)
	}
	return nil
}

// ValidateNewPassword checks policy and confirmation for a new password.
func ValidateNewPassword(password, confirm string) error {
	if err := ValidatePassword(password); err != nil {
		return err
	}
	if password != confirm {
		return invalid("confirm_password", ErrPasswordMismatch)
	}
	return nil
}

// ValidatePasswordChange checks a new password against the policy and the old one.
func ValidatePasswordChange(oldPassword, newPassword, confirm string) error {
	if err := ValidateNewPassword(newPassword, confirm); err != nil {
		return err
	}
	if oldPassword == newPassword {
		return invalid("password", ErrPasswordReused)
	}
	return nil
}

// ValidatePhrase requires typed text to equal the expected phrase exactly.
func ValidatePhrase(typed, expected string) error {
	if typed != expected {
		return invalid("confirmation", ErrPhraseMismatch)
	}
	return nil
}
