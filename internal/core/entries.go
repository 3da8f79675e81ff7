package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/illarion/dreamlock/internal/recovery"
	"github.com/illarion/dreamlock/internal/storage"
)

// SuggestionTags is the suggestion list fed by entry tags.
const SuggestionTags = "tags"

var (
	ErrEntryNotFound = errors.New("entry not found")
	ErrGoalNotFound  = errors.New("goal not found")
	ErrAmbiguousID   = errors.New("ID prefix matches more than one record")
	ErrEmptyGoal     = errors.New("goal text is empty")
)

// Entry is one recorded dream.
type Entry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags,omitempty"`
	Lucid     bool      `json:"lucid,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Goal is a dreaming goal the user tracks.
type Goal struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Done      bool      `json:"done,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewEntry describes an entry to add.
type NewEntry struct {
	Title   string
	Content string
	Tags    []string
	Lucid   bool
}

// AddEntry stores a new entry. An empty title becomes the default title.
// The entry's tags are added to the tag suggestions.
func (j *Journal) AddEntry(in NewEntry) (*Entry, error) {
	if err := j.requireUnlocked(); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = recovery.DefaultEntryTitle
	}
	now := j.now().UTC()
	e := &Entry{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   in.Content,
		Tags:      normalizeTags(in.Tags),
		Lucid:     in.Lucid,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := j.putValue(storage.StoreEntries, e.ID, e); err != nil {
		return nil, fmt.Errorf("failed to save entry: %w", err)
	}
	if len(e.Tags) > 0 {
		// The entry is saved; a stale suggestion list only affects completion.
		if err := j.AddSuggestions(SuggestionTags, e.Tags...); err != nil {
			j.log.Warn().Err(err).Str("id", e.ID).Msg("failed to index entry tags")
		}
	}

	j.log.Debug().Str("id", e.ID).Msg("entry added")
	return e, nil
}

// Entries lists all entries, oldest first.
func (j *Journal) Entries() ([]Entry, error) {
	if err := j.requireUnlocked(); err != nil {
		return nil, err
	}
	entries, err := eachValue[Entry](j, storage.StoreEntries, nil)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(a, b int) bool {
		return entries[a].CreatedAt.Before(entries[b].CreatedAt)
	})
	return entries, nil
}

// Entry returns the entry whose ID equals or uniquely starts with id.
func (j *Journal) Entry(id string) (*Entry, error) {
	if err := j.requireUnlocked(); err != nil {
		return nil, err
	}
	key, err := j.resolveID(storage.StoreEntries, id, ErrEntryNotFound)
	if err != nil {
		return nil, err
	}
	var e Entry
	if err := j.getValue(storage.StoreEntries, key, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// DeleteEntry removes an entry.
func (j *Journal) DeleteEntry(id string) error {
	if err := j.requireUnlocked(); err != nil {
		return err
	}
	key, err := j.resolveID(storage.StoreEntries, id, ErrEntryNotFound)
	if err != nil {
		return err
	}
	return j.deleteValue(storage.StoreEntries, key)
}

// EntryTitles lists the titles of every entry this session can read. It
// works while locked: plaintext entries are always readable and encrypted
// ones only when the session holds the password.
func (j *Journal) EntryTitles() ([]string, error) {
	entries, err := eachValue[Entry](j, storage.StoreEntries, func(key string, err error) {
		j.log.Debug().Str("id", key).Msg("skipping unreadable entry")
	})
	if err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(entries))
	for _, e := range entries {
		titles = append(titles, e.Title)
	}
	return titles, nil
}

// AddGoal stores a new goal.
func (j *Journal) AddGoal(text string) (*Goal, error) {
	if err := j.requireUnlocked(); err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyGoal
	}
	g := &Goal{ID: uuid.NewString(), Text: text, CreatedAt: j.now().UTC()}
	if err := j.putValue(storage.StoreGoals, g.ID, g); err != nil {
		return nil, fmt.Errorf("failed to save goal: %w", err)
	}
	return g, nil
}

// Goals lists all goals, oldest first.
func (j *Journal) Goals() ([]Goal, error) {
	if err := j.requireUnlocked(); err != nil {
		return nil, err
	}
	goals, err := eachValue[Goal](j, storage.StoreGoals, nil)
	if err != nil {
		return nil, err
	}
	sort.Slice(goals, func(a, b int) bool {
		return goals[a].CreatedAt.Before(goals[b].CreatedAt)
	})
	return goals, nil
}

// CompleteGoal marks a goal as done.
func (j *Journal) CompleteGoal(id string) (*Goal, error) {
	if err := j.requireUnlocked(); err != nil {
		return nil, err
	}
	key, err := j.resolveID(storage.StoreGoals, id, ErrGoalNotFound)
	if err != nil {
		return nil, err
	}
	var g Goal
	if err := j.getValue(storage.StoreGoals, key, &g); err != nil {
		return nil, err
	}
	g.Done = true
	if err := j.putValue(storage.StoreGoals, key, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// Suggestions returns an autocomplete list, empty when it does not exist.
func (j *Journal) Suggestions(list string) ([]string, error) {
	if err := j.requireUnlocked(); err != nil {
		return nil, err
	}
	var values []string
	err := j.getValue(storage.StoreSuggestions, list, &values)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	return values, err
}

// AddSuggestions merges values into an autocomplete list.
func (j *Journal) AddSuggestions(list string, values ...string) error {
	current, err := j.Suggestions(list)
	if err != nil {
		return err
	}
	merged := normalizeTags(append(current, values...))
	if len(merged) == len(current) {
		return nil
	}
	return j.putValue(storage.StoreSuggestions, list, merged)
}

// resolveID finds the single key equal to or starting with id.
func (j *Journal) resolveID(store, id string, notFound error) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", notFound
	}
	if _, err := j.db.Get(store, id); err == nil {
		return id, nil
	}

	recs, err := j.db.GetAll(store)
	if err != nil {
		return "", err
	}
	var match string
	for _, rec := range recs {
		if strings.HasPrefix(rec.Key, id) {
			if match != "" {
				return "", ErrAmbiguousID
			}
			match = rec.Key
		}
	}
	if match == "" {
		return "", notFound
	}
	return match, nil
}

// normalizeTags trims, lowercases, dedupes and sorts tags.
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	if len(out) == 0 {
		return nil
	}
	return out
}
