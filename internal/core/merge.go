package core

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// MergeStrategy defines how to handle conflicts during backup import
type MergeStrategy int

const (
	StrategyAsk         MergeStrategy = iota // Ask the resolver for each conflict
	StrategyKeepLocal                        // Always keep the local record
	StrategyUseImported                      // Always take the imported record
	StrategyAbort                            // Abort on any conflict
)

// ParseMergeStrategy maps a CLI name to a strategy.
func ParseMergeStrategy(name string) (MergeStrategy, error) {
	switch name {
	case "", "ask":
		return StrategyAsk, nil
	case "keep-local":
		return StrategyKeepLocal, nil
	case "use-imported":
		return StrategyUseImported, nil
	case "abort":
		return StrategyAbort, nil
	default:
		return 0, fmt.Errorf("unknown merge strategy %q (use ask, keep-local, use-imported or abort)", name)
	}
}

// ConflictResolution defines the choice made for a specific conflict
type ConflictResolution int

const (
	ResolutionKeepLocal ConflictResolution = iota
	ResolutionUseImported
)

// Conflict describes a record that exists locally and in the backup with
// different content.
type Conflict struct {
	Store string
	ID    string
	Title string
	// Diff is a unified diff from the local to the imported version.
	Diff string
}

// Resolver decides a single conflict for StrategyAsk.
type Resolver func(c Conflict) (ConflictResolution, error)

func resolveConflict(c Conflict, strategy MergeStrategy, ask Resolver) (ConflictResolution, error) {
	switch strategy {
	case StrategyKeepLocal:
		return ResolutionKeepLocal, nil
	case StrategyUseImported:
		return ResolutionUseImported, nil
	case StrategyAbort:
		return ResolutionKeepLocal, fmt.Errorf("%w: %s %s", ErrImportConflict, c.Store, c.ID)
	}
	if ask == nil {
		return ResolutionKeepLocal, nil
	}
	return ask(c)
}

// entryText renders an entry the way it is shown in a diff.
func entryText(e Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", e.Title)
	if len(e.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(e.Tags, ", "))
	}
	if e.Lucid {
		b.WriteString("Lucid: yes\n")
	}
	b.WriteString("\n")
	b.WriteString(e.Content)
	if !strings.HasSuffix(e.Content, "\n") {
		b.WriteString("\n")
	}
	return b.String()
}

func goalText(g Goal) string {
	done := "no"
	if g.Done {
		done = "yes"
	}
	return fmt.Sprintf("Goal: %s\nDone: %s\n", g.Text, done)
}

// GenerateUnifiedDiff generates a unified diff using go-diff library.
// Returns an empty string if both versions are identical.
func GenerateUnifiedDiff(name, local, imported string) string {
	if local == imported {
		return ""
	}

	dmp := diffmatchpatch.New()

	// Line-mode diff for better output
	a, b, lineArray := dmp.DiffLinesToChars(local, imported)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	patches := dmp.PatchMake(local, diffs)
	if len(patches) == 0 {
		return ""
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("--- local/%s\n", name))
	result.WriteString(fmt.Sprintf("+++ backup/%s\n", name))
	result.WriteString(dmp.PatchToText(patches))

	return result.String()
}
