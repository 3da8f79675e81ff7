package cmd

import (
	"fmt"
	"strings"
	"time"
)

const shortIDLen = 8

// List shows the entries of the journal
func List(tag string) {
	j := unlockJournal()
	defer j.Close()

	entries, err := j.Entries()
	if err != nil {
		HandleError(err)
	}

	tag = strings.ToLower(strings.TrimSpace(tag))
	shown := 0
	for _, e := range entries {
		if tag != "" && !containsTag(e.Tags, tag) {
			continue
		}
		lucid := " "
		if e.Lucid {
			lucid = "*"
		}
		fmt.Printf("%s %s %s %s\n", e.ID[:shortIDLen], e.CreatedAt.Local().Format("2006-01-02"), lucid, e.Title)
		shown++
	}

	if shown == 0 {
		fmt.Println("No entries")
		return
	}
	fmt.Printf("\n%d entries (* lucid)\n", shown)
}

// Show prints one entry
func Show(id string) {
	j := unlockJournal()
	defer j.Close()

	e, err := j.Entry(id)
	if err != nil {
		HandleError(err)
	}

	fmt.Printf("%s\n", e.Title)
	fmt.Printf("%s\n", strings.Repeat("=", len([]rune(e.Title))))
	fmt.Printf("ID:      %s\n", e.ID)
	fmt.Printf("Date:    %s\n", e.CreatedAt.Local().Format(time.RFC1123))
	if len(e.Tags) > 0 {
		fmt.Printf("Tags:    %s\n", strings.Join(e.Tags, ", "))
	}
	if e.Lucid {
		fmt.Println("Lucid:   yes")
	}
	fmt.Println()
	fmt.Println(e.Content)
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
