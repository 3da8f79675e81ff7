package core

import (
	"encoding/json"
	"fmt"

	"github.com/illarion/dreamlock/internal/storage"
)

// plaintextCache keeps decrypted record payloads for the unlocked session.
type plaintextCache struct {
	items map[string][]byte
}

func newPlaintextCache() *plaintextCache {
	return &plaintextCache{items: make(map[string][]byte)}
}

func cacheKey(store, key string) string {
	return store + "/" + key
}

func (c *plaintextCache) get(store, key string) ([]byte, bool) {
	v, ok := c.items[cacheKey(store, key)]
	return v, ok
}

func (c *plaintextCache) put(store, key string, data []byte) {
	c.items[cacheKey(store, key)] = data
}

func (c *plaintextCache) drop(store, key string) {
	delete(c.items, cacheKey(store, key))
}

func (c *plaintextCache) clear() {
	c.items = make(map[string][]byte)
}

func (c *plaintextCache) len() int {
	return len(c.items)
}

// wrap turns a plaintext payload into a stored record, encrypting it when
// encryption mode is on.
func (j *Journal) wrap(store, key string, plaintext []byte) (storage.Record, error) {
	enabled, err := j.EncryptionEnabled()
	if err != nil {
		return storage.Record{}, err
	}
	if !enabled {
		return storage.Record{Key: key, Data: plaintext}, nil
	}

	password, ok := j.coord.Session().Password()
	if !ok {
		return storage.Record{}, ErrLocked
	}
	blob, err := j.engine.Encrypt(string(plaintext), password)
	if err != nil {
		return storage.Record{}, err
	}
	return storage.Record{Key: key, Encrypted: true, Data: blob}, nil
}

// unwrap returns the plaintext payload of a stored record.
func (j *Journal) unwrap(store string, rec storage.Record) ([]byte, error) {
	if !rec.Encrypted {
		return rec.Data, nil
	}
	if data, ok := j.cache.get(store, rec.Key); ok {
		return data, nil
	}

	password, ok := j.coord.Session().Password()
	if !ok {
		return nil, ErrLocked
	}
	plaintext, err := j.engine.Decrypt(rec.Data, password)
	if err != nil {
		return nil, fmt.Errorf("%s/%s: %w", store, rec.Key, err)
	}
	data := []byte(plaintext)
	j.cache.put(store, rec.Key, data)
	return data, nil
}

func (j *Journal) putValue(store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s/%s: %w", store, key, err)
	}
	rec, err := j.wrap(store, key, data)
	if err != nil {
		return err
	}
	if err := j.db.Put(store, rec); err != nil {
		return err
	}
	if rec.Encrypted {
		j.cache.put(store, key, data)
	} else {
		j.cache.drop(store, key)
	}
	return nil
}

// getValue decodes one record into v. It returns storage.ErrNotFound for a
// missing key.
func (j *Journal) getValue(store, key string, v any) error {
	rec, err := j.db.Get(store, key)
	if err != nil {
		return err
	}
	data, err := j.unwrap(store, *rec)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func (j *Journal) deleteValue(store, key string) error {
	j.cache.drop(store, key)
	return j.db.Delete(store, key)
}

// eachValue decodes every record of a store. Records that cannot be
// decrypted are passed to skip when it is non-nil and fail the call
// otherwise.
func eachValue[T any](j *Journal, store string, skip func(key string, err error)) ([]T, error) {
	recs, err := j.db.GetAll(store)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		data, err := j.unwrap(store, rec)
		if err != nil {
			if skip != nil {
				skip(rec.Key, err)
				continue
			}
			return nil, err
		}
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("failed to decode %s/%s: %w", store, rec.Key, err)
		}
		out = append(out, v)
	}
	return out, nil
}
