package cmd

import (
	"fmt"
	"os"

	"github.com/illarion/dreamlock/internal/core"
)

// promptConflict shows the diff of a conflicting record and asks which
// version to keep.
func promptConflict(c core.Conflict) (core.ConflictResolution, error) {
	fmt.Printf("\nConflict: %s %q\n", c.Store, c.Title)
	fmt.Print(c.Diff)

	for {
		fmt.Print("[l] Keep local  [b] Use backup  [d] Show diff again: ")
		choice, err := core.ReadChoice()
		if err != nil {
			return core.ResolutionKeepLocal, err
		}
		switch choice {
		case "l":
			return core.ResolutionKeepLocal, nil
		case "b":
			return core.ResolutionUseImported, nil
		case "d":
			fmt.Print(c.Diff)
		default:
			fmt.Fprintln(os.Stderr, "Invalid choice")
		}
	}
}
