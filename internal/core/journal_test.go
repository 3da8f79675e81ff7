package core

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/zalando/go-keyring"

	"github.com/illarion/dreamlock/internal/auth"
	"github.com/illarion/dreamlock/internal/crypto"
	"github.com/illarion/dreamlock/internal/recovery"
	"github.com/illarion/dreamlock/internal/rotation"
	"github.com/illarion/dreamlock/internal/security"
	"github.com/illarion/dreamlock/internal/storage"
)

const (
	testPassword = "correct horse"
	newPassword  = "battery staple"
)

// tickingClock advances one second per call so entries sort predictably.
type tickingClock struct {
	t time.Time
}

func (c *tickingClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func testOptions(t *testing.T) (Options, *tickingClock) {
	t.Helper()
	clock := &tickingClock{t: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)}
	return Options{
		Path:   filepath.Join(t.TempDir(), "journal", "journal.db"),
		Engine: crypto.NewEngineWithIterations(1000),
		Now:    clock.now,
	}, clock
}

func newTestJournal(t *testing.T) (*Journal, Options, *tickingClock) {
	t.Helper()
	opts, clock := testOptions(t)
	j, err := Init(opts)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j, opts, clock
}

func reopen(t *testing.T, j *Journal, opts Options) *Journal {
	t.Helper()
	if err := j.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	j2, err := Open(opts)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { j2.Close() })
	return j2
}

func mustAdd(t *testing.T, j *Journal, title, content string, tags ...string) *Entry {
	t.Helper()
	e, err := j.AddEntry(NewEntry{Title: title, Content: content, Tags: tags})
	if err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}
	return e
}

func enableEncryption(t *testing.T, j *Journal) {
	t.Helper()
	if _, err := j.EnableEncryption(context.Background(), testPassword, testPassword); err != nil {
		t.Fatalf("EnableEncryption failed: %v", err)
	}
}

func TestInitAndOpen(t *testing.T) {
	opts, _ := testOptions(t)

	if _, err := Open(opts); err != ErrNotInitialized {
		t.Errorf("Expected ErrNotInitialized, got %v", err)
	}

	j, err := Init(opts)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer j.Close()

	if _, err := Init(opts); err != ErrAlreadyExists {
		t.Errorf("Expected ErrAlreadyExists, got %v", err)
	}
	if j.State() != auth.Unlocked {
		t.Errorf("New journal should be unlocked, got %s", j.State())
	}
	if id, err := j.JournalID(); err != nil || len(id) != 32 {
		t.Errorf("Unexpected journal ID %q: %v", id, err)
	}
}

func TestEntriesAndSuggestions(t *testing.T) {
	j, _, _ := newTestJournal(t)

	first := mustAdd(t, j, "Flying", "over the city", "Flight", " water ")
	mustAdd(t, j, "", "a blur", "flight")

	entries, err := j.Entries()
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Title != "Flying" || entries[1].Title != recovery.DefaultEntryTitle {
		t.Errorf("Unexpected titles: %q, %q", entries[0].Title, entries[1].Title)
	}

	got, err := j.Entry(first.ID[:8])
	if err != nil {
		t.Fatalf("Entry by prefix failed: %v", err)
	}
	if got.Content != "over the city" {
		t.Errorf("Unexpected content %q", got.Content)
	}
	if _, err := j.Entry("zzz"); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("Expected ErrEntryNotFound, got %v", err)
	}

	tags, err := j.Suggestions(SuggestionTags)
	if err != nil {
		t.Fatalf("Suggestions failed: %v", err)
	}
	if len(tags) != 2 || tags[0] != "flight" || tags[1] != "water" {
		t.Errorf("Unexpected tags %v", tags)
	}

	if err := j.DeleteEntry(first.ID); err != nil {
		t.Fatalf("DeleteEntry failed: %v", err)
	}
	if entries, _ := j.Entries(); len(entries) != 1 {
		t.Errorf("Expected 1 entry after delete, got %d", len(entries))
	}
}

func TestGoals(t *testing.T) {
	j, _, _ := newTestJournal(t)

	if _, err := j.AddGoal("  "); err != ErrEmptyGoal {
		t.Errorf("Expected ErrEmptyGoal, got %v", err)
	}
	g, err := j.AddGoal("Have a lucid dream")
	if err != nil {
		t.Fatalf("AddGoal failed: %v", err)
	}
	if _, err := j.CompleteGoal(g.ID); err != nil {
		t.Fatalf("CompleteGoal failed: %v", err)
	}
	goals, err := j.Goals()
	if err != nil || len(goals) != 1 || !goals[0].Done {
		t.Errorf("Unexpected goals %+v: %v", goals, err)
	}
}

func TestPINLockCycle(t *testing.T) {
	j, opts, _ := newTestJournal(t)
	mustAdd(t, j, "Flying", "over the city")

	if _, err := j.SetPIN("48", "48"); !errors.Is(err, security.ErrPinFormat) {
		t.Errorf("Expected PIN format error, got %v", err)
	}
	if _, err := j.SetPIN("4821", "4822"); !errors.Is(err, security.ErrValidation) {
		t.Errorf("Expected validation error, got %v", err)
	}
	persistent, err := j.SetPIN("4821", "4821")
	if err != nil || !persistent {
		t.Fatalf("SetPIN failed: %v persistent=%v", err, persistent)
	}

	state, err := j.Lock()
	if err != nil || state != auth.LockedPinOnly {
		t.Fatalf("Expected LockedPinOnly, got %s: %v", state, err)
	}
	if _, err := j.Entries(); err != ErrLocked {
		t.Errorf("Expected ErrLocked, got %v", err)
	}
	if err := j.UnlockWithPIN("1234"); !errors.Is(err, auth.ErrPinMismatch) {
		t.Errorf("Expected ErrPinMismatch, got %v", err)
	}
	if j.FailedAttempts() != 1 {
		t.Errorf("Expected 1 failed attempt, got %d", j.FailedAttempts())
	}
	if err := j.UnlockWithPIN("4821"); err != nil {
		t.Fatalf("UnlockWithPIN failed: %v", err)
	}

	// The PIN survives a restart
	j = reopen(t, j, opts)
	if j.State() != auth.LockedPinOnly {
		t.Errorf("Reopened journal should be PIN locked, got %s", j.State())
	}
	if err := j.UnlockWithPIN("4821"); err != nil {
		t.Fatalf("UnlockWithPIN after reopen failed: %v", err)
	}

	if err := j.RemovePIN("0000"); !errors.Is(err, auth.ErrPinMismatch) {
		t.Errorf("Expected ErrPinMismatch, got %v", err)
	}
	if err := j.RemovePIN("4821"); err != nil {
		t.Fatalf("RemovePIN failed: %v", err)
	}
	if state, _ := j.Lock(); state != auth.Unlocked {
		t.Errorf("Without credentials lock should leave journal unlocked, got %s", state)
	}
}

func TestLegacyPINStillUnlocks(t *testing.T) {
	j, opts, _ := newTestJournal(t)

	// PIN record written by an old release
	db := j.db
	if err := db.SetSetting("pin_hash", `"1604547"`); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}

	j = reopen(t, j, opts)
	if err := j.UnlockWithPIN("1234"); !errors.Is(err, auth.ErrPinMismatch) {
		t.Errorf("Expected ErrPinMismatch, got %v", err)
	}
	if err := j.UnlockWithPIN("4821"); err != nil {
		t.Fatalf("Legacy PIN rejected: %v", err)
	}
	raw, _, _ := j.db.GetSetting("pin_hash")
	if raw != `"1604547"` {
		t.Errorf("Verify must not rewrite the record, got %s", raw)
	}
}

func TestEncryptionMode(t *testing.T) {
	j, opts, _ := newTestJournal(t)
	e := mustAdd(t, j, "Flying", "over the city", "flight")

	if _, err := j.EnableEncryption(context.Background(), "short", "short"); !errors.Is(err, security.ErrPasswordShort) {
		t.Errorf("Expected short password error, got %v", err)
	}
	enableEncryption(t, j)
	if _, err := j.EnableEncryption(context.Background(), testPassword, testPassword); err != ErrEncryptionEnabled {
		t.Errorf("Expected ErrEncryptionEnabled, got %v", err)
	}

	// Existing and new records are encrypted on disk
	mustAdd(t, j, "The Lake", "cold water")
	for _, store := range storage.RecordStores {
		recs, _ := j.db.GetAll(store)
		for _, rec := range recs {
			if !rec.Encrypted {
				t.Errorf("%s/%s stored in plaintext", store, rec.Key)
			}
		}
	}

	j = reopen(t, j, opts)
	if j.State() != auth.LockedEncryptionOnly {
		t.Fatalf("Expected LockedEncryptionOnly, got %s", j.State())
	}
	err := j.UnlockWithPassword("wrong password")
	if !errors.Is(err, auth.ErrWrongPassword) || !errors.Is(err, crypto.ErrDecryptionFailed) {
		t.Errorf("Expected wrong password error, got %v", err)
	}
	if err := j.UnlockWithPassword(testPassword); err != nil {
		t.Fatalf("UnlockWithPassword failed: %v", err)
	}

	got, err := j.Entry(e.ID)
	if err != nil || got.Content != "over the city" {
		t.Errorf("Entry not readable after unlock: %+v %v", got, err)
	}

	if _, err := j.DisableEncryption(context.Background(), "wrong password"); !errors.Is(err, rotation.ErrRotationAborted) {
		t.Errorf("Expected ErrRotationAborted, got %v", err)
	}
	if _, err := j.DisableEncryption(context.Background(), testPassword); err != nil {
		t.Fatalf("DisableEncryption failed: %v", err)
	}
	if rec, _ := j.db.FirstEncrypted(); rec != nil {
		t.Errorf("Record %s still encrypted", rec.Key)
	}
	if state, _ := j.Lock(); state != auth.Unlocked {
		t.Errorf("Expected Unlocked without credentials, got %s", state)
	}
}

func TestBothCredentials(t *testing.T) {
	j, opts, _ := newTestJournal(t)
	mustAdd(t, j, "Flying", "over the city")
	enableEncryption(t, j)
	if _, err := j.SetPIN("4821", "4821"); err != nil {
		t.Fatalf("SetPIN failed: %v", err)
	}

	j = reopen(t, j, opts)
	if j.State() != auth.LockedBoth {
		t.Fatalf("Expected LockedBoth, got %s", j.State())
	}
	if err := j.SwitchChallenge(auth.ChallengePIN); err != nil {
		t.Fatalf("SwitchChallenge failed: %v", err)
	}
	if err := j.UnlockWithPIN("4821"); !errors.Is(err, auth.ErrPasswordRequired) {
		t.Errorf("Expected ErrPasswordRequired, got %v", err)
	}
	if j.State() != auth.LockedBoth {
		t.Errorf("PIN alone must not unlock, got %s", j.State())
	}
	if err := j.UnlockWithPassword(testPassword); err != nil {
		t.Fatalf("UnlockWithPassword failed: %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	j, opts, _ := newTestJournal(t)
	e := mustAdd(t, j, "Flying", "over the city", "flight")
	if _, err := j.AddGoal("fly"); err != nil {
		t.Fatalf("AddGoal failed: %v", err)
	}

	if _, err := j.ChangePassword(context.Background(), testPassword, newPassword, newPassword); err != ErrEncryptionDisabled {
		t.Errorf("Expected ErrEncryptionDisabled, got %v", err)
	}
	enableEncryption(t, j)

	ctx := context.Background()
	if _, err := j.ChangePassword(ctx, testPassword, newPassword, "mismatch1"); !errors.Is(err, security.ErrPasswordMismatch) {
		t.Errorf("Expected mismatch error, got %v", err)
	}
	if _, err := j.ChangePassword(ctx, "wrong password", newPassword, newPassword); !errors.Is(err, rotation.ErrRotationAborted) {
		t.Errorf("Expected ErrRotationAborted, got %v", err)
	}

	res, err := j.ChangePassword(ctx, testPassword, newPassword, newPassword)
	if err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}
	if res.Rewritten() != 3 {
		t.Errorf("Expected 3 records rewritten, got %d", res.Rewritten())
	}

	// Session continues with the new password
	if got, err := j.Entry(e.ID); err != nil || got.Title != "Flying" {
		t.Errorf("Entry unreadable after rotation: %v", err)
	}

	j = reopen(t, j, opts)
	if err := j.UnlockWithPassword(testPassword); !errors.Is(err, auth.ErrWrongPassword) {
		t.Errorf("Old password should fail, got %v", err)
	}
	if err := j.UnlockWithPassword(newPassword); err != nil {
		t.Fatalf("New password rejected: %v", err)
	}
}

func TestTitleRecovery(t *testing.T) {
	j, opts, _ := newTestJournal(t)
	mustAdd(t, j, "Flying", "a")
	mustAdd(t, j, "Falling", "b")
	if _, err := j.SetPIN("4821", "4821"); err != nil {
		t.Fatalf("SetPIN failed: %v", err)
	}
	j = reopen(t, j, opts)

	el, err := j.RecoveryEligibility()
	if err != nil || el.Available {
		t.Errorf("Recovery should be unavailable with 2 titles: %+v %v", el, err)
	}

	// Add a third entry while unlocked
	if err := j.UnlockWithPIN("4821"); err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}
	mustAdd(t, j, "The Lake", "c")
	mustAdd(t, j, "", "untitled")
	j.Lock()

	if _, err := j.RecoverWithTitles([3]string{"Flying", "Flying", "Falling"}); !errors.Is(err, recovery.ErrDuplicateTitles) {
		t.Errorf("Expected ErrDuplicateTitles, got %v", err)
	}
	out, err := j.RecoverWithTitles([3]string{"Falling", "The Lake", "Flying"})
	if err != nil {
		t.Fatalf("RecoverWithTitles failed: %v", err)
	}
	if out.Strategy != recovery.StrategyTitles {
		t.Errorf("Unexpected strategy %s", out.Strategy)
	}
	if j.State() != auth.Unlocked || j.PinSet() {
		t.Errorf("Expected unlocked without PIN, got %s pin=%v", j.State(), j.PinSet())
	}
}

func TestTitleRecoveryKeepsPasswordGate(t *testing.T) {
	j, opts, _ := newTestJournal(t)
	mustAdd(t, j, "Flying", "a")
	mustAdd(t, j, "Falling", "b")
	mustAdd(t, j, "The Lake", "c")
	enableEncryption(t, j)
	if _, err := j.SetPIN("4821", "4821"); err != nil {
		t.Fatalf("SetPIN failed: %v", err)
	}
	j = reopen(t, j, opts)

	// Encrypted titles are unreadable without the password
	el, err := j.RecoveryEligibility()
	if err != nil || el.Available {
		t.Errorf("Encrypted titles must not be offered: %+v %v", el, err)
	}
}

func TestResetTimer(t *testing.T) {
	j, opts, clock := newTestJournal(t)
	if _, err := j.SetPIN("4821", "4821"); err != nil {
		t.Fatalf("SetPIN failed: %v", err)
	}
	j = reopen(t, j, opts)

	expires, err := j.StartResetTimer()
	if err != nil {
		t.Fatalf("StartResetTimer failed: %v", err)
	}
	if out, err := j.CheckResetTimer(); out != nil || err != nil {
		t.Errorf("Timer fired early: %+v %v", out, err)
	}

	clock.t = expires.Add(time.Hour)
	if !j.PinSet() {
		t.Error("PIN must only be removed when the timer is checked")
	}

	out, err := j.CheckResetTimer()
	if err != nil || out == nil {
		t.Fatalf("Expected timer outcome: %+v %v", out, err)
	}
	if j.State() != auth.Unlocked || j.PinSet() {
		t.Errorf("Expected unlocked without PIN, got %s", j.State())
	}
}

func TestCancelResetTimer(t *testing.T) {
	j, _, _ := newTestJournal(t)
	if _, err := j.SetPIN("4821", "4821"); err != nil {
		t.Fatalf("SetPIN failed: %v", err)
	}
	if _, err := j.StartResetTimer(); err != nil {
		t.Fatalf("StartResetTimer failed: %v", err)
	}
	if err := j.CancelResetTimer("1111"); !errors.Is(err, auth.ErrPinMismatch) {
		t.Errorf("Expected ErrPinMismatch, got %v", err)
	}
	if err := j.CancelResetTimer("4821"); err != nil {
		t.Fatalf("CancelResetTimer failed: %v", err)
	}
	if _, pending, _ := j.ResetTimer(); pending {
		t.Error("Timer should be cancelled")
	}
}

func TestWipe(t *testing.T) {
	j, opts, _ := newTestJournal(t)
	mustAdd(t, j, "Flying", "a")
	enableEncryption(t, j)
	if _, err := j.SetPIN("4821", "4821"); err != nil {
		t.Fatalf("SetPIN failed: %v", err)
	}
	j = reopen(t, j, opts)
	oldID, _ := j.JournalID()

	if _, err := j.Wipe(true, "delete my journal"); !errors.Is(err, security.ErrPhraseMismatch) {
		t.Errorf("Expected phrase mismatch, got %v", err)
	}
	if _, err := j.Wipe(false, recovery.WipeConfirmationPhrase); !errors.Is(err, recovery.ErrWipeNotConfirmed) {
		t.Errorf("Expected ErrWipeNotConfirmed, got %v", err)
	}
	if j.State() != auth.LockedBoth {
		t.Fatalf("Failed wipe must not change state, got %s", j.State())
	}

	if _, err := j.Wipe(true, recovery.WipeConfirmationPhrase); err != nil {
		t.Fatalf("Wipe failed: %v", err)
	}
	if j.State() != auth.Unlocked || j.PinSet() {
		t.Errorf("Expected fresh unlocked journal, got %s pin=%v", j.State(), j.PinSet())
	}
	if enabled, _ := j.EncryptionEnabled(); enabled {
		t.Error("Encryption flag survived wipe")
	}
	if entries, _ := j.Entries(); len(entries) != 0 {
		t.Errorf("Entries survived wipe: %d", len(entries))
	}
	if newID, _ := j.JournalID(); newID == oldID || newID == "" {
		t.Errorf("Expected a new journal ID, got %q", newID)
	}
}

func TestStatus(t *testing.T) {
	j, _, _ := newTestJournal(t)
	mustAdd(t, j, "Flying", "a", "flight")
	if _, err := j.SetPIN("4821", "4821"); err != nil {
		t.Fatalf("SetPIN failed: %v", err)
	}

	s, err := j.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if !s.PinSet || s.PinLocation != PinBackendDB {
		t.Errorf("Unexpected PIN status: %v %q", s.PinSet, s.PinLocation)
	}
	if s.Entries != 1 || s.SuggestionLists != 1 || s.Goals != 0 {
		t.Errorf("Unexpected counts: %+v", s)
	}
	if s.EncryptionEnabled || s.TimerPending {
		t.Errorf("Unexpected flags: %+v", s)
	}
	if s.KDFIterations != 1000 {
		t.Errorf("Unexpected iterations %d", s.KDFIterations)
	}
}

func TestKeyringPINBackend(t *testing.T) {
	keyring.MockInit()
	opts, _ := testOptions(t)
	opts.PinBackend = PinBackendKeyring

	j, err := Init(opts)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer j.Close()

	if _, err := j.SetPIN("4821", "4821"); err != nil {
		t.Fatalf("SetPIN failed: %v", err)
	}
	if loc := j.pins.Location(); loc != PinBackendKeyring {
		t.Errorf("Expected PIN in keyring, got %q", loc)
	}
	if _, ok, _ := j.db.GetSetting("pin_hash"); ok {
		t.Error("PIN must not be written to the database")
	}
}

func TestKeyringUnavailableFallsBackToMemory(t *testing.T) {
	keyring.MockInitWithError(errors.New("no secret service"))
	t.Cleanup(keyring.MockInit)

	opts, _ := testOptions(t)
	opts.PinBackend = PinBackendKeyring
	j, err := Init(opts)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer j.Close()

	persistent, err := j.SetPIN("4821", "4821")
	if err != nil {
		t.Fatalf("SetPIN failed: %v", err)
	}
	if persistent {
		t.Error("PIN should be reported as memory only")
	}
	if j.pins.Location() != "memory" {
		t.Errorf("Expected memory location, got %q", j.pins.Location())
	}
}

func TestUnknownPinBackend(t *testing.T) {
	opts, _ := testOptions(t)
	opts.PinBackend = "floppy"
	if _, err := Init(opts); err == nil {
		t.Error("Expected error for unknown PIN backend")
	}
}
