package keyring

import (
	"errors"

	"github.com/zalando/go-keyring"
)

const serviceName = "dreamlock"

// Backend stores values in the OS keyring. Each journal gets its own
// account so several journals on one machine do not collide.
type Backend struct {
	journalID string
}

// New returns a keyring backend scoped to journalID.
func New(journalID string) *Backend {
	return &Backend{journalID: journalID}
}

func (b *Backend) Name() string { return "keyring" }

func (b *Backend) account(key string) string {
	return b.journalID + "/" + key
}

// Get returns ok=false when nothing is stored for key.
func (b *Backend) Get(key string) (string, bool, error) {
	v, err := keyring.Get(serviceName, b.account(key))
	if errors.Is(err, keyring.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (b *Backend) Set(key, value string) error {
	return keyring.Set(serviceName, b.account(key), value)
}

// Delete removes key. Deleting a missing key is not an error.
func (b *Backend) Delete(key string) error {
	err := keyring.Delete(serviceName, b.account(key))
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// Available reports whether the OS keyring can be written to.
func Available() bool {
	const probe = "__probe__"
	if err := keyring.Set(serviceName, probe, "ok"); err != nil {
		return false
	}
	_ = keyring.Delete(serviceName, probe)
	return true
}
