package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/illarion/dreamlock/internal/auth"
	"github.com/illarion/dreamlock/internal/crypto"
	"github.com/illarion/dreamlock/internal/keyring"
	"github.com/illarion/dreamlock/internal/logger"
	"github.com/illarion/dreamlock/internal/pin"
	"github.com/illarion/dreamlock/internal/recovery"
	"github.com/illarion/dreamlock/internal/rotation"
	"github.com/illarion/dreamlock/internal/storage"
)

const (
	DirPermSecure = 0700 // Directory: owner rwx only

	PinBackendDB      = "db"
	PinBackendKeyring = "keyring"
)

var (
	ErrNotInitialized     = errors.New("journal not initialized")
	ErrAlreadyExists      = errors.New("journal already exists")
	ErrLocked             = errors.New("journal is locked")
	ErrEncryptionEnabled  = errors.New("encryption is already enabled")
	ErrEncryptionDisabled = errors.New("encryption is not enabled")
	ErrNoPIN              = errors.New("no PIN is set")
)

// Options configure a Journal. Zero values select the defaults.
type Options struct {
	// Path is the journal database file.
	Path string
	// PinBackend is PinBackendDB (default) or PinBackendKeyring.
	PinBackend string
	// ResetAfter is the PIN reset timer delay.
	ResetAfter time.Duration
	// RecoveryThreshold is the number of failed attempts before recovery is offered.
	RecoveryThreshold int
	Engine            *crypto.Engine
	Now               func() time.Time
	Logger            *logger.Logger
}

// Journal is one open dream journal. It owns the storage, the credential
// stores and the lock state. It is not safe for concurrent use.
type Journal struct {
	path     string
	db       *storage.Storage
	engine   *crypto.Engine
	pins     *pin.Store
	coord    *auth.Coordinator
	recovery *recovery.Manager
	pipeline *rotation.Pipeline
	cache    *plaintextCache
	now      func() time.Time
	log      *logger.Logger
}

// Init creates a new, empty journal at opts.Path and opens it.
func Init(opts Options) (*Journal, error) {
	if _, err := os.Stat(opts.Path); err == nil {
		return nil, ErrAlreadyExists
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), DirPermSecure); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	db, err := storage.Open(opts.Path)
	if err != nil {
		return nil, err
	}
	if err := db.Initialize(); err != nil {
		db.Close()
		os.Remove(opts.Path)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if _, err := db.GetOrCreateJournalID(); err != nil {
		db.Close()
		os.Remove(opts.Path)
		return nil, err
	}
	db.Close()

	return Open(opts)
}

// Open opens an existing journal and computes its initial lock state.
func Open(opts Options) (*Journal, error) {
	if _, err := os.Stat(opts.Path); err != nil {
		return nil, ErrNotInitialized
	}

	db, err := storage.Open(opts.Path)
	if err != nil {
		return nil, err
	}
	initialized, err := db.IsInitialized()
	if err != nil || !initialized {
		db.Close()
		return nil, ErrNotInitialized
	}

	j, err := newJournal(db, opts)
	if err != nil {
		db.Close()
		return nil, err
	}
	if _, err := j.coord.Start(); err != nil {
		db.Close()
		return nil, err
	}

	j.log.Debug().Stringer("state", j.coord.State()).Msg("journal opened")
	return j, nil
}

func newJournal(db *storage.Storage, opts Options) (*Journal, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	engine := opts.Engine
	if engine == nil {
		engine = crypto.NewEngine()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	j := &Journal{
		path:   opts.Path,
		db:     db,
		engine: engine,
		cache:  newPlaintextCache(),
		now:    now,
		log:    log.With("journal"),
	}

	backend, err := j.pinBackend(opts.PinBackend)
	if err != nil {
		return nil, err
	}
	j.pins = pin.NewStore(backend, engine, log)
	j.coord = auth.NewCoordinator(j.pins, j, j, auth.NewSession(opts.RecoveryThreshold), log)
	j.recovery = recovery.NewManager(j.pins, db.Settings(), j, j, log, recovery.Options{
		ResetAfter:  opts.ResetAfter,
		Now:         now,
		OnRecovered: j.onRecovered,
	})
	j.pipeline = rotation.New(db, engine, log)
	return j, nil
}

func (j *Journal) pinBackend(name string) (pin.Backend, error) {
	switch name {
	case "", PinBackendDB:
		return j.db.Settings(), nil
	case PinBackendKeyring:
		id, err := j.db.GetOrCreateJournalID()
		if err != nil {
			return nil, err
		}
		return keyring.New(id), nil
	default:
		return nil, fmt.Errorf("unknown PIN backend %q", name)
	}
}

// Close drops the session and closes the database.
func (j *Journal) Close() error {
	j.cache.clear()
	j.coord.Session().OnLock()
	return j.db.Close()
}

// Path returns the journal database file.
func (j *Journal) Path() string {
	return j.path
}

// JournalID returns the random identifier of this journal.
func (j *Journal) JournalID() (string, error) {
	return j.db.GetJournalID()
}

// EncryptionEnabled reads the persisted encryption mode flag.
func (j *Journal) EncryptionEnabled() (bool, error) {
	return j.db.GetBool(storage.SettingEncryptionEnabled)
}

// CheckPassword verifies password by decrypting the first encrypted record.
// With no encrypted record on disk every password passes.
func (j *Journal) CheckPassword(password string) error {
	rec, err := j.db.FirstEncrypted()
	if err != nil {
		return err
	}
	if rec == nil {
		return nil
	}
	_, err = j.engine.Decrypt(rec.Data, password)
	return err
}

// Compact reclaims free pages in the database file.
func (j *Journal) Compact() error {
	return j.db.Compact()
}

func (j *Journal) requireUnlocked() error {
	if j.coord.State().Locked() {
		return ErrLocked
	}
	return nil
}
