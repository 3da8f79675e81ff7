package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illarion/dreamlock/internal/crypto"
	"github.com/illarion/dreamlock/internal/logger"
)

type fakePins struct {
	pin string
}

func (f *fakePins) IsSet() bool { return f.pin != "" }

func (f *fakePins) VerifyStored(pin string) bool { return f.pin != "" && pin == f.pin }

type fakeFlag struct {
	enabled bool
	err     error
}

func (f *fakeFlag) EncryptionEnabled() (bool, error) { return f.enabled, f.err }

type fixture struct {
	pins    *fakePins
	flag    *fakeFlag
	checked []string
	coord   *Coordinator
}

func newFixture(pin string, encryption bool, password string) *fixture {
	f := &fixture{pins: &fakePins{pin: pin}, flag: &fakeFlag{enabled: encryption}}
	checker := PasswordCheckerFunc(func(pw string) error {
		f.checked = append(f.checked, pw)
		if password != "" && pw != password {
			return crypto.ErrDecryptionFailed
		}
		return nil
	})
	f.coord = NewCoordinator(f.pins, checker, f.flag, NewSession(0), logger.Nop())
	return f
}

func TestComputeRequirements(t *testing.T) {
	tests := []struct {
		pinSet, encryption bool
		want               Requirements
		state              State
	}{
		{false, false, Requirements{}, Unlocked},
		{true, false, Requirements{PinRequired: true}, LockedPinOnly},
		{false, true, Requirements{EncryptionRequired: true}, LockedEncryptionOnly},
		{true, true, Requirements{EncryptionRequired: true, BothEnabled: true}, LockedBoth},
	}
	for _, tt := range tests {
		got := ComputeRequirements(tt.pinSet, tt.encryption)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.state, got.LockedState())
	}
}

func TestStart(t *testing.T) {
	tests := []struct {
		name       string
		pin        string
		encryption bool
		state      State
		challenge  Challenge
	}{
		{"nothing configured", "", false, Unlocked, ChallengeNone},
		{"pin only", "4821", false, LockedPinOnly, ChallengePIN},
		{"encryption only", "", true, LockedEncryptionOnly, ChallengePassword},
		{"both", "4821", true, LockedBoth, ChallengePassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.pin, tt.encryption, "")
			state, err := f.coord.Start()
			require.NoError(t, err)
			assert.Equal(t, tt.state, state)
			assert.Equal(t, tt.challenge, f.coord.Challenge())
		})
	}
}

func TestStartFlagError(t *testing.T) {
	f := newFixture("4821", false, "")
	f.flag.err = errors.New("disk gone")

	_, err := f.coord.Start()
	assert.Error(t, err)
}

func TestSubmitPIN_PinOnly(t *testing.T) {
	f := newFixture("4821", false, "")
	_, err := f.coord.Start()
	require.NoError(t, err)

	assert.ErrorIs(t, f.coord.SubmitPIN("1234"), ErrPinMismatch)
	assert.Equal(t, LockedPinOnly, f.coord.State())
	assert.Equal(t, 1, f.coord.Session().Failures())

	require.NoError(t, f.coord.SubmitPIN("4821"))
	assert.Equal(t, Unlocked, f.coord.State())
	assert.Equal(t, 0, f.coord.Session().Failures())
	assert.False(t, f.coord.Session().HasPassword())
}

func TestSubmitPIN_WrongState(t *testing.T) {
	f := newFixture("", true, "")
	_, err := f.coord.Start()
	require.NoError(t, err)

	assert.ErrorIs(t, f.coord.SubmitPIN("4821"), ErrInvalidState)

	f = newFixture("", false, "")
	_, _ = f.coord.Start()
	assert.ErrorIs(t, f.coord.SubmitPIN("4821"), ErrInvalidState)
}

func TestSubmitPIN_BothKeepsPasswordGate(t *testing.T) {
	f := newFixture("4821", true, "correct horse")
	_, err := f.coord.Start()
	require.NoError(t, err)

	require.NoError(t, f.coord.SwitchChallenge(ChallengePIN))
	err = f.coord.SubmitPIN("4821")
	assert.ErrorIs(t, err, ErrPasswordRequired)
	assert.Equal(t, LockedBoth, f.coord.State())
	assert.Equal(t, ChallengePassword, f.coord.Challenge())

	require.NoError(t, f.coord.SubmitPassword("correct horse"))
	assert.Equal(t, Unlocked, f.coord.State())
}

func TestSubmitPassword(t *testing.T) {
	f := newFixture("", true, "correct horse")
	_, err := f.coord.Start()
	require.NoError(t, err)

	err = f.coord.SubmitPassword("wrong password")
	assert.ErrorIs(t, err, ErrWrongPassword)
	assert.ErrorIs(t, err, crypto.ErrDecryptionFailed)
	assert.Equal(t, LockedEncryptionOnly, f.coord.State())
	assert.False(t, f.coord.Session().HasPassword())

	require.NoError(t, f.coord.SubmitPassword("correct horse"))
	assert.Equal(t, Unlocked, f.coord.State())
	pw, ok := f.coord.Session().Password()
	assert.True(t, ok)
	assert.Equal(t, "correct horse", pw)
}

func TestSubmitPassword_EmptyNeverChecked(t *testing.T) {
	f := newFixture("", true, "")
	_, _ = f.coord.Start()

	assert.ErrorIs(t, f.coord.SubmitPassword(""), ErrWrongPassword)
	assert.Empty(t, f.checked)

	// nothing encrypted on disk yet, any non-empty password is accepted
	require.NoError(t, f.coord.SubmitPassword("anything"))
	assert.Equal(t, Unlocked, f.coord.State())
}

func TestSubmitPassword_CheckerErrorIsNotAFailure(t *testing.T) {
	f := newFixture("", true, "")
	f.coord.passwords = PasswordCheckerFunc(func(string) error { return errors.New("io error") })
	_, _ = f.coord.Start()

	err := f.coord.SubmitPassword("anything")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrWrongPassword)
	assert.Equal(t, 0, f.coord.Session().Failures())
}

func TestSubmitPassword_WrongState(t *testing.T) {
	f := newFixture("4821", false, "")
	_, _ = f.coord.Start()
	assert.ErrorIs(t, f.coord.SubmitPassword("correct horse"), ErrInvalidState)
}

func TestSwitchChallenge(t *testing.T) {
	f := newFixture("4821", true, "")
	_, _ = f.coord.Start()

	require.NoError(t, f.coord.SwitchChallenge(ChallengePIN))
	assert.Equal(t, ChallengePIN, f.coord.Challenge())
	assert.Equal(t, LockedBoth, f.coord.State())
	require.NoError(t, f.coord.SwitchChallenge(ChallengePassword))
	assert.Equal(t, ChallengePassword, f.coord.Challenge())
	assert.ErrorIs(t, f.coord.SwitchChallenge(ChallengeNone), ErrInvalidState)

	f = newFixture("4821", false, "")
	_, _ = f.coord.Start()
	assert.ErrorIs(t, f.coord.SwitchChallenge(ChallengePassword), ErrInvalidState)
}

func TestLock(t *testing.T) {
	f := newFixture("", true, "correct horse")
	_, _ = f.coord.Start()
	require.NoError(t, f.coord.SubmitPassword("correct horse"))

	// a PIN was added while unlocked
	f.pins.pin = "4821"

	state, err := f.coord.Lock()
	require.NoError(t, err)
	assert.Equal(t, LockedBoth, state)
	assert.False(t, f.coord.Session().HasPassword())
}

func TestLock_NothingConfigured(t *testing.T) {
	f := newFixture("", false, "")
	_, _ = f.coord.Start()

	state, err := f.coord.Lock()
	require.NoError(t, err)
	assert.Equal(t, Unlocked, state)
}

func TestFailedAttemptsOfferRecovery(t *testing.T) {
	f := newFixture("4821", false, "")
	_, _ = f.coord.Start()

	for i := 0; i < DefaultRecoveryThreshold-1; i++ {
		_ = f.coord.SubmitPIN("0000")
		assert.False(t, f.coord.Session().ShouldOfferRecovery())
	}
	_ = f.coord.SubmitPIN("0000")
	assert.True(t, f.coord.Session().ShouldOfferRecovery())

	// no lockout: the right PIN still works
	require.NoError(t, f.coord.SubmitPIN("4821"))
	assert.False(t, f.coord.Session().ShouldOfferRecovery())
}

func TestCompleteRecovery(t *testing.T) {
	f := newFixture("4821", false, "")
	_, _ = f.coord.Start()
	_ = f.coord.SubmitPIN("0000")

	f.pins.pin = ""
	state, err := f.coord.CompleteRecovery()
	require.NoError(t, err)
	assert.Equal(t, Unlocked, state)
	assert.Equal(t, 0, f.coord.Session().Failures())
}

func TestCompleteRecovery_EncryptionStillRequired(t *testing.T) {
	f := newFixture("4821", true, "correct horse")
	_, _ = f.coord.Start()

	f.pins.pin = ""
	state, err := f.coord.CompleteRecovery()
	require.NoError(t, err)
	assert.Equal(t, LockedEncryptionOnly, state)
	assert.Equal(t, ChallengePassword, f.coord.Challenge())
}

func TestWiped(t *testing.T) {
	f := newFixture("", true, "correct horse")
	_, _ = f.coord.Start()
	require.NoError(t, f.coord.SubmitPassword("correct horse"))
	f.coord.Session().RecordFailure()

	f.coord.Wiped()
	assert.Equal(t, Unlocked, f.coord.State())
	assert.False(t, f.coord.Session().HasPassword())
	assert.Equal(t, 0, f.coord.Session().Failures())
}
