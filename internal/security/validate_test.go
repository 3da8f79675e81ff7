package security

import (
	"errors"
	"testing"
)

func TestValidatePIN(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		shouldErr bool
	}{
		{"four digits", "4821", false},
		{"six digits", "482193", false},
		{"leading zeros", "0007", false},
		{"too short", "123", true},
		{"too long", "1234567", true},
		{"empty", "", true},
		{"letters", "12ab", true},
		{"spaces", "12 4", true},
		{"unicode digits", "١٢٣٤", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePIN(tt.input)
			if tt.shouldErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				if !errors.Is(err, ErrValidation) || !errors.Is(err, ErrPinFormat) {
					t.Errorf("expected validation error, got %v", err)
				}
				var ve *ValidationError
				if !errors.As(err, &ve) || ve.Field != "pin" {
					t.Errorf("expected pin field, got %v", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error for %q: %v", tt.input, err)
			}
		})
	}
}

func TestValidateNewPIN(t *testing.T) {
	if err := ValidateNewPIN("4821", "4821"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateNewPIN("4821", "4812"); !errors.Is(err, ErrPinMismatch) {
		t.Errorf("expected ErrPinMismatch, got %v", err)
	}
	if err := ValidateNewPIN("48", "48"); !errors.Is(err, ErrPinFormat) {
		t.Errorf("expected ErrPinFormat, got %v", err)
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"ok", "correct horse", nil},
		{"exactly minimum", "abcdefgh", nil},
		{"too short", "short", ErrPasswordShort},
		{"multibyte counted as runes", "ключ", ErrPasswordShort},
		{"common", "password123", ErrPasswordCommon},
		{"common any case", "PassWord1", ErrPasswordCommon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.input)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidatePasswordChange(t *testing.T) {
	if err := ValidatePasswordChange("old password", "new password", "new password"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidatePasswordChange("old password", "new password", "new passwort"); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("expected ErrPasswordMismatch, got %v", err)
	}
	if err := ValidatePasswordChange("same password", "same password", "same password"); !errors.Is(err, ErrPasswordReused) {
		t.Errorf("expected ErrPasswordReused, got %v", err)
	}
}

func TestValidatePhrase(t *testing.T) {
	if err := ValidatePhrase("DELETE", "DELETE"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	for _, typed := range []string{"delete", "DELETE ", "", "DELET"} {
		if err := ValidatePhrase(typed, "DELETE"); !errors.Is(err, ErrPhraseMismatch) {
			t.Errorf("%q: expected ErrPhraseMismatch, got %v", typed, err)
		}
	}
}
