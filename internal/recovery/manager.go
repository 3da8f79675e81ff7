package recovery

import (
	"errors"
	"fmt"
	"time"

	"github.com/illarion/dreamlock/internal/logger"
	"github.com/illarion/dreamlock/internal/security"
)

const (
	// DefaultEntryTitle is given to entries saved without a title.
	DefaultEntryTitle = "Untitled Dream"
	// RequiredTitles is the number of titles the challenge asks for.
	RequiredTitles = 3
	// DefaultResetAfter is the delay before a started timer removes the PIN.
	DefaultResetAfter = 72 * time.Hour
	// WipeConfirmationPhrase must be typed exactly to wipe the journal.
	WipeConfirmationPhrase = "DELETE MY JOURNAL"
	// TimerKey is the settings key holding the pending reset timer.
	TimerKey = "reset_timer"
)

var (
	ErrNotEligible      = errors.New("title recovery not available")
	ErrDuplicateTitles  = errors.New("titles must be three different entries")
	ErrTitlesMismatch   = errors.New("one or more titles do not match your entries")
	ErrPinNotSet        = errors.New("no PIN is set")
	ErrNoTimer          = errors.New("no reset timer pending")
	ErrTimerPending     = errors.New("reset timer already pending")
	ErrWipeNotConfirmed = errors.New("wipe not confirmed")
)

// Strategy identifies how access was recovered.
type Strategy int

const (
	StrategyTitles Strategy = iota + 1
	StrategyTimer
	StrategyWipe
)

func (s Strategy) String() string {
	switch s {
	case StrategyTitles:
		return "titles"
	case StrategyTimer:
		return "timer"
	case StrategyWipe:
		return "wipe"
	default:
		return "unknown"
	}
}

// Outcome describes a completed recovery and the message to show the user.
type Outcome struct {
	Strategy Strategy
	Message  string
}

// PinStore is the part of the PIN store recovery needs.
type PinStore interface {
	IsSet() bool
	VerifyStored(pin string) bool
	Remove() error
}

// Settings persists the reset timer.
type Settings interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// TitleSource lists the titles of the entries the caller can read.
type TitleSource interface {
	EntryTitles() ([]string, error)
}

// Wiper deletes every persisted store.
type Wiper interface {
	WipeAll() error
}

// Options tune a Manager. Zero values select the defaults.
type Options struct {
	ResetAfter time.Duration
	Now        func() time.Time
	// OnRecovered runs after every successful strategy.
	OnRecovered func(Outcome) error
}

// Manager runs the recovery strategies.
type Manager struct {
	pins     PinStore
	settings Settings
	titles   TitleSource
	wiper    Wiper
	log      *logger.Logger

	resetAfter  time.Duration
	now         func() time.Time
	onRecovered func(Outcome) error
}

func NewManager(pins PinStore, settings Settings, titles TitleSource, wiper Wiper, log *logger.Logger, opts Options) *Manager {
	m := &Manager{
		pins:        pins,
		settings:    settings,
		titles:      titles,
		wiper:       wiper,
		log:         log.With("recovery"),
		resetAfter:  opts.ResetAfter,
		now:         opts.Now,
		onRecovered: opts.OnRecovered,
	}
	if m.resetAfter <= 0 {
		m.resetAfter = DefaultResetAfter
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

// ResetAfter returns the configured timer delay.
func (m *Manager) ResetAfter() time.Duration {
	return m.resetAfter
}

func (m *Manager) finish(out Outcome) (*Outcome, error) {
	m.log.Info().Stringer("strategy", out.Strategy).Msg("recovery completed")
	if m.onRecovered != nil {
		if err := m.onRecovered(out); err != nil {
			return &out, fmt.Errorf("recovery completed but state update failed: %w", err)
		}
	}
	return &out, nil
}

// Wipe deletes the journal, the PIN and any timer. It requires an explicit
// confirmation and the exact WipeConfirmationPhrase.
func (m *Manager) Wipe(confirmed bool, phrase string) (*Outcome, error) {
	if !confirmed {
		return nil, ErrWipeNotConfirmed
	}
	if err := security.ValidatePhrase(phrase, WipeConfirmationPhrase); err != nil {
		return nil, err
	}

	if err := m.wiper.WipeAll(); err != nil {
		return nil, fmt.Errorf("failed to wipe journal: %w", err)
	}
	// the PIN may live outside the journal database
	if err := m.pins.Remove(); err != nil {
		return nil, fmt.Errorf("journal wiped but PIN removal failed: %w", err)
	}
	if err := m.settings.Delete(TimerKey); err != nil {
		return nil, fmt.Errorf("journal wiped but timer removal failed: %w", err)
	}

	m.log.Warn().Msg("journal wiped")
	return m.finish(Outcome{
		Strategy: StrategyWipe,
		Message:  "All journal data was deleted. You can start a new journal.",
	})
}

// clearPIN removes the PIN and any pending timer. The two deletions are
// separate writes.
func (m *Manager) clearPIN() error {
	if err := m.pins.Remove(); err != nil {
		return err
	}
	return m.settings.Delete(TimerKey)
}
