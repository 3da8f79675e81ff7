package core

import (
	"github.com/illarion/dreamlock/internal/auth"
)

// State returns the current lock state.
func (j *Journal) State() auth.State {
	return j.coord.State()
}

// Challenge returns the credential prompt to show while locked.
func (j *Journal) Challenge() auth.Challenge {
	return j.coord.Challenge()
}

// Requirements reports which credentials this journal needs.
func (j *Journal) Requirements() (auth.Requirements, error) {
	return j.coord.Requirements()
}

// UnlockWithPIN submits a PIN to the lock screen.
func (j *Journal) UnlockWithPIN(pin string) error {
	return j.coord.SubmitPIN(pin)
}

// UnlockWithPassword submits the encryption password to the lock screen.
func (j *Journal) UnlockWithPassword(password string) error {
	if err := j.coord.SubmitPassword(password); err != nil {
		return err
	}
	j.cache.clear()
	return nil
}

// SwitchChallenge toggles between PIN and password entry when both are set.
func (j *Journal) SwitchChallenge(to auth.Challenge) error {
	return j.coord.SwitchChallenge(to)
}

// Lock locks the journal and forgets the session password.
func (j *Journal) Lock() (auth.State, error) {
	j.cache.clear()
	return j.coord.Lock()
}

// ShouldOfferRecovery reports whether enough attempts failed to suggest
// the recovery options.
func (j *Journal) ShouldOfferRecovery() bool {
	return j.coord.Session().ShouldOfferRecovery()
}

// FailedAttempts returns the number of failed attempts since the last unlock.
func (j *Journal) FailedAttempts() int {
	return j.coord.Session().Failures()
}
