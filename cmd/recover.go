package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/illarion/dreamlock/internal/auth"
	"github.com/illarion/dreamlock/internal/core"
	"github.com/illarion/dreamlock/internal/recovery"
)

// RecoverTitles removes a forgotten PIN when three entry titles are named
func RecoverTitles() {
	j := openJournal()
	defer j.Close()

	if !j.PinSet() {
		fmt.Println("No PIN is set")
		return
	}
	el, err := j.RecoveryEligibility()
	if err != nil {
		HandleError(err)
	}
	if !el.Available {
		fmt.Fprintf(os.Stderr, "Title recovery is not available: %s\n", el.Reason)
		fmt.Fprintln(os.Stderr, "Use 'dreamlock recover timer start' instead")
		os.Exit(1)
	}

	fmt.Printf("Enter the titles of %d different dreams from your journal.\n", recovery.RequiredTitles)
	var answers [recovery.RequiredTitles]string
	for i := range answers {
		line, err := core.ReadLine(fmt.Sprintf("Title %d: ", i+1))
		if err != nil {
			HandleError(err)
		}
		answers[i] = line
	}

	out, err := j.RecoverWithTitles(answers)
	switch {
	case errors.Is(err, recovery.ErrTitlesMismatch):
		fmt.Fprintln(os.Stderr, "Error: those titles do not match your journal")
		os.Exit(1)
	case errors.Is(err, recovery.ErrDuplicateTitles):
		fmt.Fprintln(os.Stderr, "Error: enter three different titles")
		os.Exit(1)
	case err != nil:
		HandleError(err)
	}
	reportRecovery(j, out)
}

// TimerStart schedules removal of a forgotten PIN
func TimerStart() {
	j := openJournal()
	defer j.Close()

	expires, err := j.StartResetTimer()
	switch {
	case errors.Is(err, recovery.ErrTimerPending):
		fmt.Printf("A reset timer is already running. The PIN will be removed after %s\n", expires.Local().Format(time.RFC1123))
		return
	case errors.Is(err, recovery.ErrPinNotSet):
		fmt.Println("No PIN is set")
		return
	case err != nil:
		HandleError(err)
	}
	fmt.Printf("✓ Reset timer started. The PIN will be removed after %s\n", expires.Local().Format(time.RFC1123))
	fmt.Println("Run any dreamlock command after that time to complete the reset.")
}

// TimerStatus reports a pending reset timer and completes it when expired
func TimerStatus() {
	j := openJournal()
	defer j.Close()

	out, err := j.CheckResetTimer()
	if err != nil {
		HandleError(err)
	}
	if out != nil {
		reportRecovery(j, out)
		return
	}

	expires, pending, err := j.ResetTimer()
	if err != nil {
		HandleError(err)
	}
	if !pending {
		fmt.Println("No reset timer is running")
		return
	}
	left := time.Until(expires).Round(time.Minute)
	fmt.Printf("PIN will be removed after %s (%s left)\n", expires.Local().Format(time.RFC1123), left)
}

// TimerCancel stops a pending reset timer. The current PIN is required.
func TimerCancel() {
	j := openJournal()
	defer j.Close()

	pin, _ := readPIN("Enter current PIN: ")
	err := j.CancelResetTimer(pin)
	if errors.Is(err, recovery.ErrNoTimer) {
		fmt.Println("No reset timer is running")
		return
	}
	if err != nil {
		HandleError(err)
	}
	fmt.Println("✓ Reset timer cancelled")
}

func reportRecovery(j *core.Journal, out *recovery.Outcome) {
	fmt.Println(out.Message)
	if j.State() == auth.LockedEncryptionOnly {
		fmt.Println("Your entries are still encrypted: the encryption password is needed to read them.")
	}
}
