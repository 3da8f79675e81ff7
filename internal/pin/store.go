package pin

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/illarion/dreamlock/internal/crypto"
	"github.com/illarion/dreamlock/internal/logger"
)

// RecordKey is the key the PIN record is stored under in every backend.
const RecordKey = "pin_hash"

var ErrEmptyPIN = errors.New("PIN is empty")

// Store manages the single PIN record. Reads try the primary backend first
// and then process memory; writes fall back to memory when the primary
// backend fails.
type Store struct {
	primary Backend
	memory  *MemoryBackend
	engine  *crypto.Engine
	log     *logger.Logger
}

// NewStore creates a Store. primary may be nil, in which case PINs live in
// memory only.
func NewStore(primary Backend, engine *crypto.Engine, log *logger.Logger) *Store {
	return &Store{
		primary: primary,
		memory:  NewMemoryBackend(),
		engine:  engine,
		log:     log.With("pin"),
	}
}

func (s *Store) backends() []Backend {
	if s.primary == nil {
		return []Backend{s.memory}
	}
	return []Backend{s.primary, s.memory}
}

// raw returns the stored value and the backend holding it
func (s *Store) raw() (string, Backend, bool) {
	for _, b := range s.backends() {
		v, ok, err := b.Get(RecordKey)
		if err != nil {
			s.log.Warn().Err(err).Str("backend", b.Name()).Msg("PIN backend read failed")
			continue
		}
		if ok && strings.TrimSpace(v) != "" {
			return v, b, true
		}
	}
	return "", nil, false
}

// IsSet reports whether a PIN record exists in any backend.
func (s *Store) IsSet() bool {
	_, _, ok := s.raw()
	return ok
}

// Location names the backend currently holding the PIN, or "" when unset.
func (s *Store) Location() string {
	_, b, ok := s.raw()
	if !ok {
		return ""
	}
	return b.Name()
}

// HashSecure hashes pin with salt, or a fresh salt when salt is nil.
func (s *Store) HashSecure(pin string, salt []byte) (hash, saltHex string, err error) {
	return HashSecure(s.engine, pin, salt)
}

// Save hashes pin in the secure format and persists it, replacing any
// previous record. persistent is false when the record only lives in memory
// and will be lost on restart.
func (s *Store) Save(pin string) (persistent bool, err error) {
	if pin == "" {
		return false, ErrEmptyPIN
	}

	hash, salt, err := s.HashSecure(pin, nil)
	if err != nil {
		return false, err
	}
	value := SecurePin{Hash: hash, Salt: salt, Version: VersionSecure}.Format()

	if s.primary != nil {
		err := s.primary.Set(RecordKey, value)
		if err == nil {
			_ = s.memory.Delete(RecordKey)
			s.log.Info().Str("backend", s.primary.Name()).Msg("PIN saved")
			return true, nil
		}
		s.log.Warn().Err(err).Str("backend", s.primary.Name()).Msg("PIN backend write failed, keeping PIN in memory")
	}

	if err := s.memory.Set(RecordKey, value); err != nil {
		return false, fmt.Errorf("failed to store PIN: %w", err)
	}
	return false, nil
}

// Load parses the stored record.
func (s *Store) Load() (Record, error) {
	v, _, ok := s.raw()
	if !ok {
		return nil, ErrNotSet
	}
	return Parse(v)
}

// Verify checks entered against rec. Empty input and nil records never match.
// The stored record is never rewritten here.
func (s *Store) Verify(entered string, rec Record) bool {
	if entered == "" || rec == nil {
		return false
	}

	switch r := rec.(type) {
	case LegacyPin:
		if r.Hash == "" {
			return false
		}
		return crypto.ConstantTimeCompare([]byte(LegacyHash(entered)), []byte(r.Hash))
	case SecurePin:
		salt, err := hex.DecodeString(r.Salt)
		if err != nil || len(salt) == 0 || r.Hash == "" {
			return false
		}
		hash, _, err := s.HashSecure(entered, salt)
		if err != nil {
			return false
		}
		return crypto.ConstantTimeCompare([]byte(hash), []byte(strings.ToLower(r.Hash)))
	default:
		return false
	}
}

// VerifyRaw parses a stored value and verifies entered against it.
func (s *Store) VerifyRaw(entered, stored string) bool {
	rec, err := Parse(stored)
	if err != nil {
		return false
	}
	return s.Verify(entered, rec)
}

// VerifyStored verifies entered against the current record.
func (s *Store) VerifyStored(entered string) bool {
	rec, err := s.Load()
	if err != nil {
		return false
	}
	return s.Verify(entered, rec)
}

// Remove deletes the PIN record from every backend.
func (s *Store) Remove() error {
	var errs []error
	for _, b := range s.backends() {
		if err := b.Delete(RecordKey); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", b.Name(), err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to remove PIN: %w", errors.Join(errs...))
	}
	s.log.Info().Msg("PIN removed")
	return nil
}
