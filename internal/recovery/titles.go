package recovery

import (
	"fmt"
	"strings"
)

// Eligibility reports whether the title challenge can be offered.
type Eligibility struct {
	Available bool
	// Titles is the number of distinct eligible titles.
	Titles int
	// Reason explains why the challenge is unavailable.
	Reason string
}

func eligibleTitles(titles []string) map[string]struct{} {
	set := make(map[string]struct{}, len(titles))
	for _, t := range titles {
		if strings.TrimSpace(t) == "" || t == DefaultEntryTitle {
			continue
		}
		set[t] = struct{}{}
	}
	return set
}

// Eligibility checks the title challenge against the current entries.
func (m *Manager) Eligibility() (Eligibility, error) {
	titles, err := m.titles.EntryTitles()
	if err != nil {
		return Eligibility{}, fmt.Errorf("failed to read entry titles: %w", err)
	}
	n := len(eligibleTitles(titles))
	if n < RequiredTitles {
		return Eligibility{
			Titles: n,
			Reason: fmt.Sprintf("at least %d entries with their own titles are needed, found %d", RequiredTitles, n),
		}, nil
	}
	return Eligibility{Available: true, Titles: n}, nil
}

// SolveTitleChallenge removes the PIN when the three answers are pairwise
// distinct and each exactly matches an eligible entry title.
func (m *Manager) SolveTitleChallenge(answers [RequiredTitles]string) (*Outcome, error) {
	if !m.pins.IsSet() {
		return nil, ErrPinNotSet
	}

	titles, err := m.titles.EntryTitles()
	if err != nil {
		return nil, fmt.Errorf("failed to read entry titles: %w", err)
	}
	known := eligibleTitles(titles)
	if len(known) < RequiredTitles {
		return nil, fmt.Errorf("%w: at least %d entries with their own titles are needed", ErrNotEligible, RequiredTitles)
	}

	seen := make(map[string]struct{}, RequiredTitles)
	for _, a := range answers {
		if _, dup := seen[a]; dup {
			return nil, ErrDuplicateTitles
		}
		seen[a] = struct{}{}
	}
	for _, a := range answers {
		if _, ok := known[a]; !ok {
			m.log.Warn().Msg("title challenge failed")
			return nil, ErrTitlesMismatch
		}
	}

	if err := m.clearPIN(); err != nil {
		return nil, fmt.Errorf("failed to remove PIN: %w", err)
	}
	return m.finish(Outcome{
		Strategy: StrategyTitles,
		Message:  "Your PIN has been removed. Set a new one to protect your journal again.",
	})
}
