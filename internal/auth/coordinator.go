package auth

import (
	"errors"
	"fmt"

	"github.com/illarion/dreamlock/internal/crypto"
	"github.com/illarion/dreamlock/internal/logger"
)

// PinVerifier is the part of the PIN store the coordinator needs.
type PinVerifier interface {
	IsSet() bool
	VerifyStored(pin string) bool
}

// PasswordChecker verifies an encryption password by trial decryption.
// It returns crypto.ErrDecryptionFailed when the password is wrong and nil
// when it is accepted, including when nothing encrypted exists yet.
type PasswordChecker interface {
	CheckPassword(password string) error
}

// PasswordCheckerFunc adapts a function to PasswordChecker.
type PasswordCheckerFunc func(password string) error

func (f PasswordCheckerFunc) CheckPassword(password string) error {
	return f(password)
}

// EncryptionFlag reads the persisted encryption mode flag.
type EncryptionFlag interface {
	EncryptionEnabled() (bool, error)
}

// Coordinator owns the lock state of one journal. It is not safe for
// concurrent use; callers must not submit a credential while another
// submission is in flight.
type Coordinator struct {
	pins      PinVerifier
	passwords PasswordChecker
	flag      EncryptionFlag
	session   *Session
	log       *logger.Logger

	state     State
	challenge Challenge
}

// NewCoordinator creates a coordinator in the Unlocked state. Call Start to
// compute the real initial state.
func NewCoordinator(pins PinVerifier, passwords PasswordChecker, flag EncryptionFlag, session *Session, log *logger.Logger) *Coordinator {
	return &Coordinator{
		pins:      pins,
		passwords: passwords,
		flag:      flag,
		session:   session,
		log:       log.With("auth"),
	}
}

// Session returns the session owned by the coordinator.
func (c *Coordinator) Session() *Session {
	return c.session
}

func (c *Coordinator) State() State {
	return c.state
}

func (c *Coordinator) Challenge() Challenge {
	return c.challenge
}

// Requirements reads the current requirements from the PIN store and the
// encryption flag.
func (c *Coordinator) Requirements() (Requirements, error) {
	enabled, err := c.flag.EncryptionEnabled()
	if err != nil {
		return Requirements{}, fmt.Errorf("failed to read encryption flag: %w", err)
	}
	return ComputeRequirements(c.pins.IsSet(), enabled), nil
}

// Start computes the initial state, as when the journal is first opened.
func (c *Coordinator) Start() (State, error) {
	req, err := c.Requirements()
	if err != nil {
		return c.state, err
	}
	c.transition(req.LockedState())
	if c.state == Unlocked {
		c.session.OnUnlock("")
	}
	return c.state, nil
}

// SubmitPIN verifies pin. In LockedPinOnly a match unlocks. In LockedBoth a
// match only switches the prompt to the password and returns
// ErrPasswordRequired.
func (c *Coordinator) SubmitPIN(pin string) error {
	switch c.state {
	case LockedPinOnly, LockedBoth:
	default:
		return fmt.Errorf("%w: PIN entry in state %s", ErrInvalidState, c.state)
	}

	if !c.pins.VerifyStored(pin) {
		n := c.session.RecordFailure()
		c.log.Warn().Int("failures", n).Msg("PIN rejected")
		return ErrPinMismatch
	}

	if c.state == LockedBoth {
		c.session.ResetFailures()
		c.challenge = ChallengePassword
		return ErrPasswordRequired
	}

	c.session.OnUnlock("")
	c.transition(Unlocked)
	return nil
}

// SubmitPassword verifies password by trial decryption. On success the
// journal unlocks and the password is kept in the session.
func (c *Coordinator) SubmitPassword(password string) error {
	switch c.state {
	case LockedEncryptionOnly, LockedBoth:
	default:
		return fmt.Errorf("%w: password entry in state %s", ErrInvalidState, c.state)
	}

	if password == "" {
		c.session.RecordFailure()
		return ErrWrongPassword
	}

	if err := c.passwords.CheckPassword(password); err != nil {
		if errors.Is(err, crypto.ErrDecryptionFailed) {
			n := c.session.RecordFailure()
			c.log.Warn().Int("failures", n).Msg("password rejected")
			return fmt.Errorf("%w: %w", ErrWrongPassword, err)
		}
		return fmt.Errorf("failed to verify password: %w", err)
	}

	c.session.OnUnlock(password)
	c.transition(Unlocked)
	return nil
}

// SwitchChallenge changes the active prompt. Only LockedBoth offers a choice
// and the lock state never changes.
func (c *Coordinator) SwitchChallenge(to Challenge) error {
	if c.state != LockedBoth {
		return fmt.Errorf("%w: no alternative challenge in state %s", ErrInvalidState, c.state)
	}
	if to != ChallengePIN && to != ChallengePassword {
		return fmt.Errorf("%w: unknown challenge %d", ErrInvalidState, to)
	}
	c.challenge = to
	return nil
}

// Lock recomputes the locked substate from the current requirements and
// drops the session password.
func (c *Coordinator) Lock() (State, error) {
	req, err := c.Requirements()
	if err != nil {
		return c.state, err
	}
	c.session.OnLock()
	c.transition(req.LockedState())
	return c.state, nil
}

// CompleteRecovery is called after a recovery strategy removed the PIN.
// The journal unlocks unless encryption mode still demands a password the
// session does not hold.
func (c *Coordinator) CompleteRecovery() (State, error) {
	req, err := c.Requirements()
	if err != nil {
		return c.state, err
	}
	c.session.ResetFailures()

	if req.EncryptionRequired && !c.session.HasPassword() {
		c.transition(LockedEncryptionOnly)
		return c.state, nil
	}
	c.transition(Unlocked)
	return c.state, nil
}

// Wiped resets the session and state after all journal data was deleted.
func (c *Coordinator) Wiped() {
	c.session.OnWipe()
	c.transition(Unlocked)
}

func (c *Coordinator) transition(to State) {
	if c.state != to {
		c.log.Debug().Stringer("from", c.state).Stringer("to", to).Msg("lock state changed")
	}
	c.state = to
	c.challenge = defaultChallenge(to)
}
