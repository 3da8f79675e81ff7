package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/illarion/dreamlock/internal/core"
)

// Add records a new dream. Without content arguments the text is read
// from stdin until EOF.
func Add(title string, tags []string, lucid bool, content []string) {
	text := strings.Join(content, " ")
	if text == "" {
		fmt.Fprintln(os.Stderr, "Describe your dream, then press Ctrl-D:")
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			HandleError(err)
		}
		text = strings.TrimSpace(string(data))
	}
	if text == "" {
		fmt.Fprintln(os.Stderr, "Error: entry is empty")
		os.Exit(1)
	}

	j := unlockJournal()
	defer j.Close()

	e, err := j.AddEntry(core.NewEntry{
		Title:   title,
		Content: text,
		Tags:    tags,
		Lucid:   lucid,
	})
	if err != nil {
		HandleError(err)
	}
	fmt.Printf("added: %s (%s)\n", e.Title, e.ID[:shortIDLen])
}

// SplitTags splits a comma separated tag flag
func SplitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ",")
}
