package auth

// DefaultRecoveryThreshold is the number of failed attempts after which
// recovery is offered.
const DefaultRecoveryThreshold = 3

// Session holds the in-memory state of one unlocked journal: the encryption
// password and the failed-attempt counter. It is never persisted.
type Session struct {
	password  string
	hasPass   bool
	failures  int
	threshold int
}

// NewSession creates an empty session. A threshold <= 0 uses
// DefaultRecoveryThreshold.
func NewSession(threshold int) *Session {
	if threshold <= 0 {
		threshold = DefaultRecoveryThreshold
	}
	return &Session{threshold: threshold}
}

// Password returns the session password and whether one is held.
func (s *Session) Password() (string, bool) {
	return s.password, s.hasPass
}

// HasPassword reports whether an encryption password is held.
func (s *Session) HasPassword() bool {
	return s.hasPass
}

// OnUnlock resets the failure counter. A non-empty password is retained for
// the rest of the session.
func (s *Session) OnUnlock(password string) {
	s.failures = 0
	if password != "" {
		s.password, s.hasPass = password, true
	}
}

// OnLock drops the password. The failure counter survives so repeated
// failures across lock cycles still surface recovery.
func (s *Session) OnLock() {
	s.clearPassword()
}

// OnWipe returns the session to its initial state.
func (s *Session) OnWipe() {
	s.clearPassword()
	s.failures = 0
}

// ReplacePassword swaps the held password after a successful rotation.
func (s *Session) ReplacePassword(password string) {
	s.password, s.hasPass = password, password != ""
}

// ClearPassword forgets the password without touching the counter.
func (s *Session) ClearPassword() {
	s.clearPassword()
}

func (s *Session) clearPassword() {
	s.password, s.hasPass = "", false
}

// RecordFailure increments the failure counter and returns the new count.
func (s *Session) RecordFailure() int {
	s.failures++
	return s.failures
}

// ResetFailures sets the failure counter back to zero.
func (s *Session) ResetFailures() {
	s.failures = 0
}

func (s *Session) Failures() int {
	return s.failures
}

// ShouldOfferRecovery reports whether enough attempts have failed to surface
// the recovery options. It is advisory only.
func (s *Session) ShouldOfferRecovery() bool {
	return s.failures >= s.threshold
}
