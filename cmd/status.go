package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/illarion/dreamlock/internal/core"
)

// Status shows the state of the journal. No credentials are required.
func Status() {
	j, err := core.Open(journalOptions())
	if err == core.ErrNotInitialized {
		fmt.Printf("No journal found at %s\n", cfg.DBPath())
		fmt.Println("Run 'dreamlock init' to create one")
		return
	}
	if err != nil {
		HandleError(err)
	}
	defer j.Close()

	status, err := j.Status()
	if err != nil {
		HandleError(err)
	}

	fmt.Printf("Journal: %s\n", status.Path)
	if info, err := os.Stat(status.Path); err == nil {
		fmt.Printf("Size: %s\n", formatSize(info.Size()))
	}
	if !status.LastModified.IsZero() {
		fmt.Printf("Last modified: %s\n", status.LastModified.Local().Format(time.RFC3339))
	}
	fmt.Printf("Lock state: %s\n", status.State)

	fmt.Println()
	fmt.Println("Security:")
	if status.PinSet {
		fmt.Printf("  PIN: set (%s)\n", status.PinLocation)
	} else {
		fmt.Println("  PIN: not set")
	}
	if status.EncryptionEnabled {
		fmt.Printf("  Encryption: on (%s, PBKDF2-SHA256 %d iterations)\n", status.Algorithm, status.KDFIterations)
	} else {
		fmt.Println("  Encryption: off")
	}
	if status.TimerPending {
		fmt.Printf("  PIN reset timer: expires %s\n", status.TimerExpiresAt.Local().Format(time.RFC1123))
	}

	fmt.Println()
	fmt.Println("Contents:")
	fmt.Printf("  %d entries\n", status.Entries)
	fmt.Printf("  %d goals\n", status.Goals)
	fmt.Printf("  %d suggestion lists\n", status.SuggestionLists)

	if w := status.GitStatus.Warning(status.Path); w != "" {
		fmt.Printf("\nwarning: %s\n", w)
	}
}
