package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/illarion/dreamlock/internal/security"
	"github.com/illarion/dreamlock/internal/storage"
)

// BackupVersion is the bundle format written by Export.
const BackupVersion = 1

var (
	ErrBackupFormat   = errors.New("unsupported backup format")
	ErrImportConflict = errors.New("conflict detected, import aborted")
)

// bundle is the plaintext inside an exported backup.
type bundle struct {
	Version     int                 `json:"version"`
	ExportedAt  time.Time           `json:"exportedAt"`
	Entries     []Entry             `json:"entries"`
	Goals       []Goal              `json:"goals"`
	Suggestions map[string][]string `json:"suggestions,omitempty"`
}

// Export writes every entry, goal and suggestion list as one encrypted blob
// (salt ‖ nonce ‖ ciphertext) under password. The backup password follows
// the same policy as the encryption password.
func (j *Journal) Export(ctx context.Context, password string) ([]byte, error) {
	if err := j.requireUnlocked(); err != nil {
		return nil, err
	}
	if err := security.ValidatePassword(password); err != nil {
		return nil, err
	}

	b := bundle{Version: BackupVersion, ExportedAt: j.now().UTC()}

	var err error
	if b.Entries, err = j.Entries(); err != nil {
		return nil, err
	}
	if b.Goals, err = j.Goals(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	recs, err := j.db.GetAll(storage.StoreSuggestions)
	if err != nil {
		return nil, err
	}
	if len(recs) > 0 {
		b.Suggestions = make(map[string][]string, len(recs))
	}
	for _, rec := range recs {
		data, err := j.unwrap(storage.StoreSuggestions, rec)
		if err != nil {
			return nil, err
		}
		var values []string
		if err := json.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("failed to decode suggestions %s: %w", rec.Key, err)
		}
		b.Suggestions[rec.Key] = values
	}

	data, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}
	blob, err := j.engine.Encrypt(string(data), password)
	if err != nil {
		return nil, err
	}

	j.log.Info().Int("entries", len(b.Entries)).Int("goals", len(b.Goals)).Msg("backup exported")
	return blob, nil
}

// ImportOptions control how a backup is merged.
type ImportOptions struct {
	Strategy MergeStrategy
	// Resolver answers conflicts under StrategyAsk. Without one local
	// records are kept.
	Resolver Resolver
	// DryRun reports what would happen without writing.
	DryRun bool
}

// ImportResult summarises an import.
type ImportResult struct {
	Added     []string
	Updated   []string
	Unchanged []string
	Kept      []string // Conflicts resolved in favour of the local record
	Conflicts []Conflict
}

// Import decrypts a backup produced by Export and merges it into the
// journal. Conflicts are all resolved before the first write, so
// StrategyAbort leaves the journal untouched.
func (j *Journal) Import(ctx context.Context, blob []byte, password string, opts ImportOptions) (*ImportResult, error) {
	if err := j.requireUnlocked(); err != nil {
		return nil, err
	}

	plaintext, err := j.engine.Decrypt(blob, password)
	if err != nil {
		return nil, err
	}
	var b bundle
	if err := json.Unmarshal([]byte(plaintext), &b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackupFormat, err)
	}
	if b.Version != BackupVersion {
		return nil, fmt.Errorf("%w: version %d", ErrBackupFormat, b.Version)
	}

	res := &ImportResult{}
	var (
		entryWrites []Entry
		goalWrites  []Goal
	)

	for _, in := range b.Entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if in.ID == "" {
			continue
		}
		var local Entry
		err := j.getValue(storage.StoreEntries, in.ID, &local)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			res.Added = append(res.Added, in.ID)
			entryWrites = append(entryWrites, in)
			continue
		case err != nil:
			return nil, err
		}

		localText, importedText := entryText(local), entryText(in)
		if localText == importedText {
			res.Unchanged = append(res.Unchanged, in.ID)
			continue
		}
		c := Conflict{
			Store: storage.StoreEntries,
			ID:    in.ID,
			Title: in.Title,
			Diff:  GenerateUnifiedDiff(in.Title, localText, importedText),
		}
		res.Conflicts = append(res.Conflicts, c)
		resolution, err := resolveConflict(c, opts.Strategy, opts.Resolver)
		if err != nil {
			return res, err
		}
		if resolution == ResolutionUseImported {
			res.Updated = append(res.Updated, in.ID)
			entryWrites = append(entryWrites, in)
		} else {
			res.Kept = append(res.Kept, in.ID)
		}
	}

	for _, in := range b.Goals {
		if in.ID == "" {
			continue
		}
		var local Goal
		err := j.getValue(storage.StoreGoals, in.ID, &local)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			res.Added = append(res.Added, in.ID)
			goalWrites = append(goalWrites, in)
			continue
		case err != nil:
			return nil, err
		}
		if goalText(local) == goalText(in) {
			res.Unchanged = append(res.Unchanged, in.ID)
			continue
		}
		c := Conflict{
			Store: storage.StoreGoals,
			ID:    in.ID,
			Title: in.Text,
			Diff:  GenerateUnifiedDiff(in.ID, goalText(local), goalText(in)),
		}
		res.Conflicts = append(res.Conflicts, c)
		resolution, err := resolveConflict(c, opts.Strategy, opts.Resolver)
		if err != nil {
			return res, err
		}
		if resolution == ResolutionUseImported {
			res.Updated = append(res.Updated, in.ID)
			goalWrites = append(goalWrites, in)
		} else {
			res.Kept = append(res.Kept, in.ID)
		}
	}

	if opts.DryRun {
		return res, nil
	}

	for i := range entryWrites {
		if err := j.putValue(storage.StoreEntries, entryWrites[i].ID, &entryWrites[i]); err != nil {
			return res, fmt.Errorf("failed to import entry %s: %w", entryWrites[i].ID, err)
		}
	}
	for i := range goalWrites {
		if err := j.putValue(storage.StoreGoals, goalWrites[i].ID, &goalWrites[i]); err != nil {
			return res, fmt.Errorf("failed to import goal %s: %w", goalWrites[i].ID, err)
		}
	}
	for list, values := range b.Suggestions {
		if err := j.AddSuggestions(list, values...); err != nil {
			return res, err
		}
	}

	j.log.Info().Int("added", len(res.Added)).Int("updated", len(res.Updated)).
		Int("conflicts", len(res.Conflicts)).Msg("backup imported")
	return res, nil
}
