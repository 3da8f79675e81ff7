package recovery

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/illarion/dreamlock/internal/auth"
)

// resetTimer is the persisted form of a pending reset.
type resetTimer struct {
	ExpiresAt int64 `json:"expiresAt"`
}

func (m *Manager) loadTimer() (*resetTimer, error) {
	raw, ok, err := m.settings.Get(TimerKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read reset timer: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var t resetTimer
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		return nil, fmt.Errorf("failed to parse reset timer: %w", err)
	}
	return &t, nil
}

// TimerStatus returns the expiry of the pending timer, if any.
func (m *Manager) TimerStatus() (expiresAt time.Time, pending bool, err error) {
	t, err := m.loadTimer()
	if err != nil || t == nil {
		return time.Time{}, false, err
	}
	return time.UnixMilli(t.ExpiresAt), true, nil
}

// StartTimer schedules PIN removal ResetAfter from now. Starting again while
// a timer is pending keeps the original expiry.
func (m *Manager) StartTimer() (time.Time, error) {
	if !m.pins.IsSet() {
		return time.Time{}, ErrPinNotSet
	}
	pending, err := m.loadTimer()
	if err != nil {
		return time.Time{}, err
	}
	if pending != nil {
		return time.UnixMilli(pending.ExpiresAt), ErrTimerPending
	}

	expires := m.now().Add(m.resetAfter)
	data, err := json.Marshal(resetTimer{ExpiresAt: expires.UnixMilli()})
	if err != nil {
		return time.Time{}, err
	}
	if err := m.settings.Set(TimerKey, string(data)); err != nil {
		return time.Time{}, fmt.Errorf("failed to store reset timer: %w", err)
	}

	m.log.Info().Time("expires_at", expires).Msg("reset timer started")
	return expires, nil
}

// CheckTimer removes the PIN when a pending timer has expired. It returns a
// nil Outcome when there is nothing to do. Expiry is only acted on here.
func (m *Manager) CheckTimer() (*Outcome, error) {
	t, err := m.loadTimer()
	if err != nil || t == nil {
		return nil, err
	}
	if m.now().UnixMilli() < t.ExpiresAt {
		return nil, nil
	}

	if err := m.clearPIN(); err != nil {
		return nil, fmt.Errorf("failed to remove PIN after timer expiry: %w", err)
	}
	return m.finish(Outcome{
		Strategy: StrategyTimer,
		Message: fmt.Sprintf("The %d-hour reset timer you started has expired and your PIN was removed. "+
			"Anyone with access to this device can now open the journal until you set a new PIN.", int(m.resetAfter.Hours())),
	})
}

// CancelTimer deletes a pending timer. The current PIN must be supplied.
func (m *Manager) CancelTimer(currentPIN string) error {
	t, err := m.loadTimer()
	if err != nil {
		return err
	}
	if t == nil {
		return ErrNoTimer
	}
	if !m.pins.VerifyStored(currentPIN) {
		return auth.ErrPinMismatch
	}
	if err := m.settings.Delete(TimerKey); err != nil {
		return fmt.Errorf("failed to cancel reset timer: %w", err)
	}
	m.log.Info().Msg("reset timer cancelled")
	return nil
}
