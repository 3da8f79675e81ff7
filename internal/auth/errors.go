package auth

import "errors"

var (
	ErrPinMismatch      = errors.New("incorrect PIN")
	ErrWrongPassword    = errors.New("incorrect password or corrupted data")
	ErrInvalidState     = errors.New("operation not allowed in current lock state")
	ErrPasswordRequired = errors.New("PIN accepted, encryption password still required")
)
