package core

import (
	"time"

	"github.com/illarion/dreamlock/internal/auth"
	"github.com/illarion/dreamlock/internal/git"
	"github.com/illarion/dreamlock/internal/storage"
)

// StatusInfo contains status information
type StatusInfo struct {
	Path              string
	State             auth.State
	PinSet            bool
	PinLocation       string
	EncryptionEnabled bool
	TimerPending      bool
	TimerExpiresAt    time.Time
	Entries           int
	Goals             int
	SuggestionLists   int
	LastModified      time.Time
	Algorithm         string
	KDFIterations     int
	GitStatus         *git.Status
}

// Status returns the current status (no credentials required)
func (j *Journal) Status() (*StatusInfo, error) {
	enabled, err := j.EncryptionEnabled()
	if err != nil {
		return nil, err
	}

	status := &StatusInfo{
		Path:              j.path,
		State:             j.coord.State(),
		PinSet:            j.pins.IsSet(),
		PinLocation:       j.pins.Location(),
		EncryptionEnabled: enabled,
		Algorithm:         "AES-256-GCM",
		KDFIterations:     j.engine.Iterations(),
	}

	// Not critical
	if modified, err := j.db.GetModified(); err == nil {
		status.LastModified = modified
	}
	if expires, pending, err := j.recovery.TimerStatus(); err == nil {
		status.TimerPending, status.TimerExpiresAt = pending, expires
	}

	counts := map[string]*int{
		storage.StoreEntries:     &status.Entries,
		storage.StoreGoals:       &status.Goals,
		storage.StoreSuggestions: &status.SuggestionLists,
	}
	for store, n := range counts {
		if *n, err = j.db.Count(store); err != nil {
			return nil, err
		}
	}

	if gs := git.CheckJournal(j.path); gs.IsRepo {
		status.GitStatus = gs
	}
	return status, nil
}
