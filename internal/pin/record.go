package pin

import (
	"encoding/json"
	"errors"
	"strings"
)

// VersionSecure tags records written by the salted PBKDF2 scheme.
const VersionSecure = "secure"

var ErrNotSet = errors.New("PIN not set")

// Record is a stored PIN credential: either LegacyPin or SecurePin.
// Values are produced by Parse and never re-inspected as raw strings.
type Record interface {
	// Format renders the record in its on-disk form.
	Format() string
	isRecord()
}

// LegacyPin is the historical unsalted hash. It is only ever read.
type LegacyPin struct {
	Hash string
}

func (LegacyPin) isRecord() {}

func (p LegacyPin) Format() string {
	b, _ := json.Marshal(p.Hash)
	return string(b)
}

// SecurePin is a hex PBKDF2-SHA256 hash with its hex salt.
type SecurePin struct {
	Hash    string `json:"hash"`
	Salt    string `json:"salt"`
	Version string `json:"version"`
}

func (SecurePin) isRecord() {}

func (p SecurePin) Format() string {
	if p.Version == "" {
		p.Version = VersionSecure
	}
	b, _ := json.Marshal(p)
	return string(b)
}

// Parse decodes a stored value. A value is secure only when it is a JSON
// object carrying both "hash" and "salt"; anything else is legacy. Legacy
// values stored as JSON strings are unquoted.
func Parse(raw string) (Record, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrNotSet
	}

	var secure struct {
		Hash    *string `json:"hash"`
		Salt    *string `json:"salt"`
		Version string  `json:"version"`
	}
	if err := json.Unmarshal([]byte(raw), &secure); err == nil && secure.Hash != nil && secure.Salt != nil {
		return SecurePin{Hash: *secure.Hash, Salt: *secure.Salt, Version: secure.Version}, nil
	}

	var quoted string
	if err := json.Unmarshal([]byte(raw), &quoted); err == nil {
		if quoted == "" {
			return nil, ErrNotSet
		}
		return LegacyPin{Hash: quoted}, nil
	}

	return LegacyPin{Hash: raw}, nil
}
