package cmd

import (
	"fmt"
	"strings"

	"github.com/illarion/dreamlock/internal/core"
	"github.com/illarion/dreamlock/internal/recovery"
)

// Wipe deletes every entry, goal and credential. No credentials are
// required, so this works when the encryption password is lost.
func Wipe(yes bool) {
	j := openJournal()
	defer j.Close()

	fmt.Println("This permanently deletes every dream, goal and setting in the journal.")
	fmt.Println("It cannot be undone.")

	confirmed := yes
	if !confirmed {
		answer, err := core.ReadLine("Continue? [y/N]: ")
		if err != nil {
			HandleError(err)
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		confirmed = answer == "y" || answer == "yes"
	}
	if !confirmed {
		fmt.Println("Cancelled")
		return
	}

	phrase, err := core.ReadLine(fmt.Sprintf("Type %q to confirm: ", recovery.WipeConfirmationPhrase))
	if err != nil {
		HandleError(err)
	}

	out, err := j.Wipe(confirmed, phrase)
	if err != nil {
		HandleError(err)
	}
	fmt.Println(out.Message)
}
