package cmd

import (
	"fmt"
	"os"
)

// Remove deletes entries from the journal
func Remove(ids []string) {
	if len(ids) == 0 {
		fmt.Fprintf(os.Stderr, "Error: rm requires at least one entry ID\n")
		fmt.Fprintf(os.Stderr, "Usage: dreamlock rm <id> [id...]\n")
		os.Exit(1)
	}

	j := unlockJournal()
	defer j.Close()

	for _, id := range ids {
		e, err := j.Entry(id)
		if err != nil {
			HandleError(err)
		}
		if err := j.DeleteEntry(e.ID); err != nil {
			HandleError(err)
		}
		fmt.Printf("removed: %s\n", e.Title)
	}

	// Reclaim the space of the deleted entries
	if err := j.Compact(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: compaction failed: %s\n", err)
	}
}
