package config

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidStorageConfig  = errors.New("invalid storage configuration")
	ErrInvalidSecurityConfig = errors.New("invalid security configuration")
)

func (c *Config) validate() error {
	if c.DataDir == "" || c.DBFile == "" {
		return ErrInvalidStorageConfig
	}

	switch c.Security.PinBackend {
	case PinBackendDB, PinBackendKeyring:
	default:
		return fmt.Errorf("%w: unknown pin backend %q", ErrInvalidSecurityConfig, c.Security.PinBackend)
	}

	if c.Security.ResetAfter <= 0 {
		return fmt.Errorf("%w: reset_after must be positive", ErrInvalidSecurityConfig)
	}
	if c.Security.RecoveryPromptAfter < 1 {
		return fmt.Errorf("%w: recovery_prompt_after must be at least 1", ErrInvalidSecurityConfig)
	}
	return nil
}
