package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/illarion/dreamlock/internal/auth"
	"github.com/illarion/dreamlock/internal/core"
)

// unlockJournal opens the journal and runs the lock screen until it is
// unlocked. An expired reset timer is acted on first. Secrets taken from
// the environment get a single attempt.
func unlockJournal() *core.Journal {
	j := openJournal()

	out, err := j.CheckResetTimer()
	if err != nil {
		j.Close()
		HandleError(err)
	}
	if out != nil {
		fmt.Println(out.Message)
	}

	for j.State().Locked() {
		var (
			err     error
			fromEnv bool
		)
		switch j.Challenge() {
		case auth.ChallengePIN:
			var pin string
			pin, fromEnv = readPIN("Enter PIN: ")
			err = j.UnlockWithPIN(pin)
		default:
			var password string
			password, fromEnv = readPassword("Enter encryption password: ")
			err = j.UnlockWithPassword(password)
		}

		switch {
		case err == nil:
		case errors.Is(err, auth.ErrPasswordRequired):
			fmt.Fprintln(os.Stderr, "PIN accepted. The encryption password is also required.")
		case errors.Is(err, auth.ErrPinMismatch), errors.Is(err, auth.ErrWrongPassword):
			if fromEnv || j.ShouldOfferRecovery() {
				if !fromEnv {
					printRecoveryHelp(j)
				}
				j.Close()
				HandleError(err)
			}
			fmt.Fprintf(os.Stderr, "Incorrect, try again (%d failed)\n", j.FailedAttempts())
		default:
			j.Close()
			HandleError(err)
		}
	}
	return j
}

// printRecoveryHelp lists the recovery options for the current lock state
func printRecoveryHelp(j *core.Journal) {
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Too many failed attempts.")

	switch j.State() {
	case auth.LockedPinOnly:
		fmt.Fprintln(os.Stderr, "Forgot your PIN?")
		if el, err := j.RecoveryEligibility(); err == nil && el.Available {
			fmt.Fprintln(os.Stderr, "  dreamlock recover titles        # name three of your dream titles")
		}
		fmt.Fprintln(os.Stderr, "  dreamlock recover timer start   # remove the PIN after a waiting period")
		fmt.Fprintln(os.Stderr, "  dreamlock wipe                  # delete all data and start over")
	default:
		fmt.Fprintln(os.Stderr, "A forgotten encryption password cannot be recovered.")
		fmt.Fprintln(os.Stderr, "  dreamlock wipe                  # delete all data and start over")
	}
	fmt.Fprintln(os.Stderr)
}
