package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionLifecycle(t *testing.T) {
	s := NewSession(2)

	s.RecordFailure()
	assert.False(t, s.ShouldOfferRecovery())
	s.RecordFailure()
	assert.True(t, s.ShouldOfferRecovery())

	s.OnUnlock("pw1")
	assert.Equal(t, 0, s.Failures())
	pw, ok := s.Password()
	assert.True(t, ok)
	assert.Equal(t, "pw1", pw)

	s.ReplacePassword("pw2")
	pw, _ = s.Password()
	assert.Equal(t, "pw2", pw)

	s.RecordFailure()
	s.OnLock()
	assert.False(t, s.HasPassword())
	assert.Equal(t, 1, s.Failures())

	s.OnUnlock("pw3")
	s.RecordFailure()
	s.OnWipe()
	assert.False(t, s.HasPassword())
	assert.Equal(t, 0, s.Failures())
}

func TestSessionUnlockWithoutPasswordKeepsExisting(t *testing.T) {
	s := NewSession(0)
	s.OnUnlock("pw")
	s.OnUnlock("")

	assert.True(t, s.HasPassword())
}

func TestSessionDefaultThreshold(t *testing.T) {
	s := NewSession(-1)
	for i := 0; i < DefaultRecoveryThreshold; i++ {
		s.RecordFailure()
	}
	assert.True(t, s.ShouldOfferRecovery())
}
