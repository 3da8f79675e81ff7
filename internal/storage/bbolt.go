package storage

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/illarion/dreamlock/internal/crypto"
)

// Bucket names
var (
	SettingsBucket    = []byte(StoreSettings)    // Flags, PIN record, reset timer - unencrypted
	EntriesBucket     = []byte(StoreEntries)     // Journal entries
	GoalsBucket       = []byte(StoreGoals)       // Goals
	SuggestionsBucket = []byte(StoreSuggestions) // Autocomplete suggestion lists
)

// Settings keys
const (
	SettingVersion           = "version"
	SettingCreated           = "created"
	SettingModified          = "modified"
	SettingJournalID         = "journal_id"
	SettingEncryptionEnabled = "encryption_enabled"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrUnknownStore = errors.New("unknown store")
)

// Storage provides BBolt-based storage for dreamlock
type Storage struct {
	db *bolt.DB
}

// Open opens or creates a dreamlock database
func Open(path string) (*Storage, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}

// Path returns the database file path
func (s *Storage) Path() string {
	return s.db.Path()
}

// Initialize creates the bucket structure. Calling it on an initialized
// database only fills in what is missing.
func (s *Storage) Initialize() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{SettingsBucket, EntriesBucket, GoalsBucket, SuggestionsBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}

		settings := tx.Bucket(SettingsBucket)
		if settings.Get([]byte(SettingVersion)) != nil {
			return nil
		}
		if err := settings.Put([]byte(SettingVersion), []byte("1")); err != nil {
			return err
		}

		created, _ := time.Now().MarshalBinary()
		if err := settings.Put([]byte(SettingCreated), created); err != nil {
			return err
		}
		return settings.Put([]byte(SettingModified), created)
	})
}

// IsInitialized checks if the database has been initialized
func (s *Storage) IsInitialized() (bool, error) {
	var initialized bool
	err := s.db.View(func(tx *bolt.Tx) error {
		settings := tx.Bucket(SettingsBucket)
		if settings != nil && settings.Get([]byte(SettingVersion)) != nil {
			initialized = true
		}
		return nil
	})
	return initialized, err
}

// Get returns a single record from a store
func (s *Storage) Get(store, key string) (*Record, error) {
	if !IsRecordStore(store) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStore, store)
	}

	var rec *Record
	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(store))
		if bucket == nil {
			return fmt.Errorf("%s bucket not found", store)
		}
		data := bucket.Get([]byte(key))
		if data == nil {
			return ErrNotFound
		}
		var err error
		rec, err = decodeRecord(key, data)
		return err
	})
	return rec, err
}

// Put stores a record, replacing any previous value under the same key
func (s *Storage) Put(store string, rec Record) error {
	return s.PutAll(store, []Record{rec})
}

// PutAll stores records in a single transaction
func (s *Storage) PutAll(store string, recs []Record) error {
	return s.PutBatch(map[string][]Record{store: recs})
}

// PutBatch stores records for several stores in a single transaction.
// Stores are written in RecordStores order.
func (s *Storage) PutBatch(batch map[string][]Record) error {
	for store := range batch {
		if !IsRecordStore(store) {
			return fmt.Errorf("%w: %s", ErrUnknownStore, store)
		}
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		for _, store := range RecordStores {
			recs, ok := batch[store]
			if !ok {
				continue
			}
			bucket := tx.Bucket([]byte(store))
			if bucket == nil {
				return fmt.Errorf("%s bucket not found", store)
			}
			for _, rec := range recs {
				if rec.Key == "" {
					return fmt.Errorf("record key is empty")
				}
				data, err := encodeRecord(rec)
				if err != nil {
					return err
				}
				if err := bucket.Put([]byte(rec.Key), data); err != nil {
					return err
				}
			}
		}
		return touchModified(tx)
	})
}

// GetAll returns every record of a store in key order
func (s *Storage) GetAll(store string) ([]Record, error) {
	if !IsRecordStore(store) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStore, store)
	}

	var records []Record
	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(store))
		if bucket == nil {
			return fmt.Errorf("%s bucket not found", store)
		}
		return bucket.ForEach(func(k, v []byte) error {
			rec, err := decodeRecord(string(k), v)
			if err != nil {
				return err
			}
			records = append(records, *rec)
			return nil
		})
	})
	return records, err
}

// Delete removes a record from a store
func (s *Storage) Delete(store, key string) error {
	if !IsRecordStore(store) {
		return fmt.Errorf("%w: %s", ErrUnknownStore, store)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(store))
		if bucket == nil {
			return fmt.Errorf("%s bucket not found", store)
		}
		if err := bucket.Delete([]byte(key)); err != nil {
			return err
		}
		return touchModified(tx)
	})
}

// Count returns the number of records in a store
func (s *Storage) Count(store string) (int, error) {
	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(store))
		if bucket == nil {
			return nil
		}
		n = bucket.Stats().KeyN
		return nil
	})
	return n, err
}

// FirstEncrypted returns the first record flagged as encrypted across all
// record stores, or nil when there is none.
func (s *Storage) FirstEncrypted() (*Record, error) {
	var found *Record
	err := s.db.View(func(tx *bolt.Tx) error {
		for _, store := range RecordStores {
			bucket := tx.Bucket([]byte(store))
			if bucket == nil {
				continue
			}
			c := bucket.Cursor()
			for k, v := c.First(); k != nil; k, v = c.Next() {
				rec, err := decodeRecord(string(k), v)
				if err != nil {
					return err
				}
				if rec.Encrypted {
					found = rec
					return nil
				}
			}
		}
		return nil
	})
	return found, err
}

// GetSetting returns a settings value and whether it exists
func (s *Storage) GetSetting(key string) (string, bool, error) {
	var (
		value string
		ok    bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		settings := tx.Bucket(SettingsBucket)
		if settings == nil {
			return nil
		}
		data := settings.Get([]byte(key))
		if data == nil {
			return nil
		}
		value, ok = string(data), true
		return nil
	})
	return value, ok, err
}

// SetSetting stores a settings value
func (s *Storage) SetSetting(key, value string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		settings, err := tx.CreateBucketIfNotExists(SettingsBucket)
		if err != nil {
			return err
		}
		return settings.Put([]byte(key), []byte(value))
	})
}

// DeleteSetting removes a settings value
func (s *Storage) DeleteSetting(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		settings := tx.Bucket(SettingsBucket)
		if settings == nil {
			return nil
		}
		return settings.Delete([]byte(key))
	})
}

// GetBool reads a boolean flag, false when unset
func (s *Storage) GetBool(key string) (bool, error) {
	value, ok, err := s.GetSetting(key)
	if err != nil || !ok {
		return false, err
	}
	return value == "true", nil
}

// SetBool stores a boolean flag
func (s *Storage) SetBool(key string, value bool) error {
	if value {
		return s.SetSetting(key, "true")
	}
	return s.SetSetting(key, "false")
}

// GetModified retrieves the last modified timestamp
func (s *Storage) GetModified() (time.Time, error) {
	var modified time.Time
	err := s.db.View(func(tx *bolt.Tx) error {
		settings := tx.Bucket(SettingsBucket)
		if settings == nil {
			return fmt.Errorf("settings bucket not found")
		}
		data := settings.Get([]byte(SettingModified))
		if data == nil {
			return fmt.Errorf("modified time not found")
		}
		return modified.UnmarshalBinary(data)
	})
	return modified, err
}

// GetJournalID retrieves the journal ID from the settings bucket
func (s *Storage) GetJournalID() (string, error) {
	value, ok, err := s.GetSetting(SettingJournalID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("journal_id not found")
	}
	return value, nil
}

// GetOrCreateJournalID retrieves existing journal ID or generates a new one
func (s *Storage) GetOrCreateJournalID() (string, error) {
	journalID, err := s.GetJournalID()
	if err == nil {
		return journalID, nil
	}

	b, err := crypto.GenerateRandom(16)
	if err != nil {
		return "", fmt.Errorf("failed to generate journal ID: %w", err)
	}
	journalID = hex.EncodeToString(b)

	if err := s.SetSetting(SettingJournalID, journalID); err != nil {
		return "", err
	}
	return journalID, nil
}

// Wipe drops every bucket, settings included, and recreates an empty layout.
func (s *Storage) Wipe() error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		var names [][]byte
		if err := tx.ForEach(func(name []byte, _ *bolt.Bucket) error {
			names = append(names, append([]byte(nil), name...))
			return nil
		}); err != nil {
			return err
		}
		for _, name := range names {
			if err := tx.DeleteBucket(name); err != nil {
				return fmt.Errorf("failed to delete bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return s.Initialize()
}

// Compact creates a compacted copy of the database, removing unused space.
// This is useful after re-encryption or a wipe, when old blobs leave free pages behind.
func (s *Storage) Compact() error {
	srcPath := s.db.Path()
	tmpPath := srcPath + ".compact"

	dst, err := bolt.Open(tmpPath, 0600, nil)
	if err != nil {
		return fmt.Errorf("failed to create compact database: %w", err)
	}

	err = s.db.View(func(srcTx *bolt.Tx) error {
		return dst.Update(func(dstTx *bolt.Tx) error {
			return srcTx.ForEach(func(name []byte, srcBucket *bolt.Bucket) error {
				dstBucket, err := dstTx.CreateBucketIfNotExists(name)
				if err != nil {
					return err
				}
				return srcBucket.ForEach(func(k, v []byte) error {
					return dstBucket.Put(k, v)
				})
			})
		})
	})

	if err != nil {
		dst.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to copy data: %w", err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close compact database: %w", err)
	}

	if err := s.db.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close source database: %w", err)
	}

	backupPath := srcPath + ".backup"
	if err := os.Rename(srcPath, backupPath); err != nil {
		return fmt.Errorf("failed to backup original: %w", err)
	}
	if err := os.Rename(tmpPath, srcPath); err != nil {
		os.Rename(backupPath, srcPath) // rollback
		return fmt.Errorf("failed to replace database: %w", err)
	}
	os.Remove(backupPath)

	s.db, err = bolt.Open(srcPath, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return fmt.Errorf("failed to reopen database: %w", err)
	}

	return nil
}

func touchModified(tx *bolt.Tx) error {
	settings := tx.Bucket(SettingsBucket)
	if settings == nil {
		return nil
	}
	modified, _ := time.Now().MarshalBinary()
	return settings.Put([]byte(SettingModified), modified)
}

// envelope is the on-disk form of a Record
type envelope struct {
	Encrypted bool   `json:"encrypted"`
	Data      []byte `json:"data"`
}

func encodeRecord(rec Record) ([]byte, error) {
	data, err := json.Marshal(envelope{Encrypted: rec.Encrypted, Data: rec.Data})
	if err != nil {
		return nil, fmt.Errorf("failed to encode record %s: %w", rec.Key, err)
	}
	return data, nil
}

func decodeRecord(key string, data []byte) (*Record, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode record %s: %w", key, err)
	}
	return &Record{Key: key, Encrypted: env.Encrypted, Data: env.Data}, nil
}
