package cmd

import (
	"fmt"

	"github.com/illarion/dreamlock/internal/core"
	"github.com/illarion/dreamlock/internal/git"
)

// Init creates a new journal
func Init() {
	j, err := core.Init(journalOptions())
	if err != nil {
		HandleError(err)
	}
	defer j.Close()

	fmt.Printf("✓ Initialized journal at %s\n", j.Path())

	if w := git.CheckJournal(j.Path()).Warning(j.Path()); w != "" {
		fmt.Printf("warning: %s\n", w)
	}

	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  dreamlock pin set        # protect the journal with a PIN")
	fmt.Println("  dreamlock encrypt on     # encrypt every entry with a password")
}
