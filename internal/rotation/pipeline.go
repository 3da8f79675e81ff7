package rotation

import (
	"context"
	"errors"
	"fmt"

	"github.com/illarion/dreamlock/internal/crypto"
	"github.com/illarion/dreamlock/internal/logger"
	"github.com/illarion/dreamlock/internal/storage"
)

var (
	ErrRotationAborted = errors.New("password change aborted, nothing was modified")
	ErrEmptyPassword   = errors.New("password is empty")
)

// Store is the record store the pipeline reads and rewrites.
type Store interface {
	GetAll(store string) ([]storage.Record, error)
	PutBatch(batch map[string][]storage.Record) error
	FirstEncrypted() (*storage.Record, error)
}

// Cipher encrypts and decrypts record payloads.
type Cipher interface {
	Encrypt(plaintext, password string) ([]byte, error)
	Decrypt(blob []byte, password string) (string, error)
}

// StoreResult counts what happened to one store.
type StoreResult struct {
	Store     string
	Rewritten int
	Untouched int
}

// Result lists per-store counts in processing order.
type Result struct {
	Stores []StoreResult
}

// Rewritten returns the number of records rewritten across all stores.
func (r *Result) Rewritten() int {
	n := 0
	for _, s := range r.Stores {
		n += s.Rewritten
	}
	return n
}

// Pipeline transforms every record of the journal's record stores.
type Pipeline struct {
	store  Store
	cipher Cipher
	stores []string
	log    *logger.Logger
}

func New(store Store, cipher Cipher, log *logger.Logger) *Pipeline {
	return &Pipeline{
		store:  store,
		cipher: cipher,
		stores: storage.RecordStores,
		log:    log.With("rotation"),
	}
}

// transform maps one record to its replacement. changed=false leaves the
// record as is.
type transform func(rec storage.Record) (out storage.Record, changed bool, err error)

// Rotate re-encrypts every encrypted record from oldPassword to newPassword.
// Unencrypted records are untouched.
func (p *Pipeline) Rotate(ctx context.Context, oldPassword, newPassword string) (*Result, error) {
	if oldPassword == "" || newPassword == "" {
		return nil, ErrEmptyPassword
	}
	if err := p.precheck(oldPassword); err != nil {
		return nil, err
	}

	res, err := p.run(ctx, func(rec storage.Record) (storage.Record, bool, error) {
		if !rec.Encrypted {
			return rec, false, nil
		}
		plaintext, err := p.cipher.Decrypt(rec.Data, oldPassword)
		if err != nil {
			return rec, false, err
		}
		blob, err := p.cipher.Encrypt(plaintext, newPassword)
		if err != nil {
			return rec, false, err
		}
		return storage.Record{Key: rec.Key, Encrypted: true, Data: blob}, true, nil
	})
	if err != nil {
		return nil, err
	}

	p.log.Info().Int("records", res.Rewritten()).Msg("password rotated")
	return res, nil
}

// EncryptAll encrypts every plaintext record with password. Records that are
// already encrypted are left alone.
func (p *Pipeline) EncryptAll(ctx context.Context, password string) (*Result, error) {
	if password == "" {
		return nil, ErrEmptyPassword
	}
	return p.run(ctx, func(rec storage.Record) (storage.Record, bool, error) {
		if rec.Encrypted {
			return rec, false, nil
		}
		blob, err := p.cipher.Encrypt(string(rec.Data), password)
		if err != nil {
			return rec, false, err
		}
		return storage.Record{Key: rec.Key, Encrypted: true, Data: blob}, true, nil
	})
}

// DecryptAll turns every encrypted record back into plaintext. The password
// is checked first, like Rotate.
func (p *Pipeline) DecryptAll(ctx context.Context, password string) (*Result, error) {
	if password == "" {
		return nil, ErrEmptyPassword
	}
	if err := p.precheck(password); err != nil {
		return nil, err
	}
	return p.run(ctx, func(rec storage.Record) (storage.Record, bool, error) {
		if !rec.Encrypted {
			return rec, false, nil
		}
		plaintext, err := p.cipher.Decrypt(rec.Data, password)
		if err != nil {
			return rec, false, err
		}
		return storage.Record{Key: rec.Key, Data: []byte(plaintext)}, true, nil
	})
}

// precheck verifies password by trial decryption of the first encrypted
// record. A journal without encrypted records passes.
func (p *Pipeline) precheck(password string) error {
	rec, err := p.store.FirstEncrypted()
	if err != nil {
		return fmt.Errorf("failed to read records: %w", err)
	}
	if rec == nil {
		return nil
	}
	if _, err := p.cipher.Decrypt(rec.Data, password); err != nil {
		p.log.Warn().Msg("password pre-check failed")
		return fmt.Errorf("%w: %w", ErrRotationAborted, err)
	}
	return nil
}

func (p *Pipeline) run(ctx context.Context, fn transform) (*Result, error) {
	res := &Result{}
	batch := make(map[string][]storage.Record, len(p.stores))

	// Phase 1: prepare everything in memory
	for _, store := range p.stores {
		recs, err := p.store.GetAll(store)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", store, err)
		}

		sr := StoreResult{Store: store}
		var changed []storage.Record
		for _, rec := range recs {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrRotationAborted, err)
			}
			out, ok, err := fn(rec)
			if err != nil {
				p.log.Error().Str("store", store).Str("key", rec.Key).Msg("record transform failed")
				return nil, fmt.Errorf("%w: %s/%s: %w", ErrRotationAborted, store, rec.Key, err)
			}
			if !ok {
				sr.Untouched++
				continue
			}
			changed = append(changed, out)
			sr.Rewritten++
		}
		if len(changed) > 0 {
			batch[store] = changed
		}
		res.Stores = append(res.Stores, sr)
	}

	// Phase 2: write all stores at once
	if len(batch) == 0 {
		return res, nil
	}
	if err := p.store.PutBatch(batch); err != nil {
		return nil, fmt.Errorf("failed to write records: %w", err)
	}
	return res, nil
}

var _ Cipher = (*crypto.Engine)(nil)
