package core

import (
	"context"
	"fmt"

	"github.com/illarion/dreamlock/internal/auth"
	"github.com/illarion/dreamlock/internal/recovery"
	"github.com/illarion/dreamlock/internal/rotation"
	"github.com/illarion/dreamlock/internal/security"
	"github.com/illarion/dreamlock/internal/storage"
)

// PinSet reports whether a PIN record exists.
func (j *Journal) PinSet() bool {
	return j.pins.IsSet()
}

// SetPIN sets or replaces the PIN. persistent is false when the PIN could
// only be kept in memory and will be gone after a restart.
func (j *Journal) SetPIN(pin, confirm string) (persistent bool, err error) {
	if err := j.requireUnlocked(); err != nil {
		return false, err
	}
	if err := security.ValidateNewPIN(pin, confirm); err != nil {
		return false, err
	}
	return j.pins.Save(pin)
}

// RemovePIN deletes the PIN and any pending reset timer. The current PIN
// must be supplied.
func (j *Journal) RemovePIN(currentPIN string) error {
	if err := j.requireUnlocked(); err != nil {
		return err
	}
	if !j.pins.IsSet() {
		return ErrNoPIN
	}
	if !j.pins.VerifyStored(currentPIN) {
		return auth.ErrPinMismatch
	}
	if err := j.pins.Remove(); err != nil {
		return err
	}
	return j.db.DeleteSetting(recovery.TimerKey)
}

// EnableEncryption turns encryption mode on: every existing record is
// encrypted with password and the password is kept for the session.
func (j *Journal) EnableEncryption(ctx context.Context, password, confirm string) (*rotation.Result, error) {
	if err := j.requireUnlocked(); err != nil {
		return nil, err
	}
	enabled, err := j.EncryptionEnabled()
	if err != nil {
		return nil, err
	}
	if enabled {
		return nil, ErrEncryptionEnabled
	}
	if err := security.ValidateNewPassword(password, confirm); err != nil {
		return nil, err
	}

	res, err := j.pipeline.EncryptAll(ctx, password)
	if err != nil {
		return nil, err
	}
	if err := j.db.SetBool(storage.SettingEncryptionEnabled, true); err != nil {
		return nil, fmt.Errorf("records encrypted but flag not saved: %w", err)
	}

	j.coord.Session().ReplacePassword(password)
	j.cache.clear()
	j.log.Info().Int("records", res.Rewritten()).Msg("encryption enabled")
	return res, nil
}

// DisableEncryption decrypts every record and turns encryption mode off.
// password is checked against the stored data first.
func (j *Journal) DisableEncryption(ctx context.Context, password string) (*rotation.Result, error) {
	if err := j.requireUnlocked(); err != nil {
		return nil, err
	}
	enabled, err := j.EncryptionEnabled()
	if err != nil {
		return nil, err
	}
	if !enabled {
		return nil, ErrEncryptionDisabled
	}

	res, err := j.pipeline.DecryptAll(ctx, password)
	if err != nil {
		return nil, err
	}
	if err := j.db.SetBool(storage.SettingEncryptionEnabled, false); err != nil {
		return nil, fmt.Errorf("records decrypted but flag not saved: %w", err)
	}

	j.coord.Session().ClearPassword()
	j.cache.clear()
	j.log.Info().Int("records", res.Rewritten()).Msg("encryption disabled")
	return res, nil
}

// ChangePassword re-encrypts every encrypted record under newPassword.
// A wrong current password aborts before anything is written. The database
// is compacted afterwards to drop the old blobs.
func (j *Journal) ChangePassword(ctx context.Context, currentPassword, newPassword, confirm string) (*rotation.Result, error) {
	if err := j.requireUnlocked(); err != nil {
		return nil, err
	}
	enabled, err := j.EncryptionEnabled()
	if err != nil {
		return nil, err
	}
	if !enabled {
		return nil, ErrEncryptionDisabled
	}
	if err := security.ValidatePasswordChange(currentPassword, newPassword, confirm); err != nil {
		return nil, err
	}

	res, err := j.pipeline.Rotate(ctx, currentPassword, newPassword)
	if err != nil {
		return nil, err
	}

	j.coord.Session().ReplacePassword(newPassword)
	j.cache.clear()

	if err := j.db.Compact(); err != nil {
		j.log.Warn().Err(err).Msg("compaction after password change failed")
	}
	return res, nil
}
