package core

import (
	"time"

	"github.com/illarion/dreamlock/internal/recovery"
)

func (j *Journal) onRecovered(out recovery.Outcome) error {
	j.cache.clear()
	if out.Strategy == recovery.StrategyWipe {
		j.coord.Wiped()
		return nil
	}
	_, err := j.coord.CompleteRecovery()
	return err
}

// WipeAll deletes every record and setting and starts a fresh journal ID.
func (j *Journal) WipeAll() error {
	if err := j.db.Wipe(); err != nil {
		return err
	}
	_, err := j.db.GetOrCreateJournalID()
	return err
}

// RecoveryEligibility reports whether the title challenge can be offered.
func (j *Journal) RecoveryEligibility() (recovery.Eligibility, error) {
	return j.recovery.Eligibility()
}

// RecoverWithTitles removes the PIN when three entry titles are named.
func (j *Journal) RecoverWithTitles(titles [recovery.RequiredTitles]string) (*recovery.Outcome, error) {
	return j.recovery.SolveTitleChallenge(titles)
}

// StartResetTimer schedules PIN removal and returns the expiry time.
func (j *Journal) StartResetTimer() (time.Time, error) {
	return j.recovery.StartTimer()
}

// CheckResetTimer acts on an expired reset timer. It returns nil when there
// is nothing to report.
func (j *Journal) CheckResetTimer() (*recovery.Outcome, error) {
	return j.recovery.CheckTimer()
}

// CancelResetTimer deletes a pending timer after checking the current PIN.
func (j *Journal) CancelResetTimer(currentPIN string) error {
	return j.recovery.CancelTimer(currentPIN)
}

// ResetTimer returns the expiry of a pending timer.
func (j *Journal) ResetTimer() (time.Time, bool, error) {
	return j.recovery.TimerStatus()
}

// Wipe deletes the whole journal. It is the only way out when the
// encryption password is lost.
func (j *Journal) Wipe(confirmed bool, phrase string) (*recovery.Outcome, error) {
	out, err := j.recovery.Wipe(confirmed, phrase)
	if err != nil {
		return out, err
	}
	if err := j.db.Compact(); err != nil {
		j.log.Warn().Err(err).Msg("compaction after wipe failed")
	}
	return out, nil
}
