package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/illarion/dreamlock/internal/core"
	"github.com/illarion/dreamlock/internal/security"
)

// EnvBackupPassword supplies the backup password for scripted use.
const EnvBackupPassword = "DREAMLOCK_BACKUP_PASSWORD"

// Export writes an encrypted backup of the journal to path
func Export(ctx context.Context, path string, force bool) {
	if path == "" {
		fmt.Fprintln(os.Stderr, "Usage: dreamlock export [--force] <file>")
		os.Exit(1)
	}
	if _, err := os.Stat(path); err == nil && !force {
		fmt.Fprintf(os.Stderr, "Error: %s already exists (use --force to overwrite)\n", path)
		os.Exit(1)
	}

	j := unlockJournal()
	defer j.Close()

	password, confirm := readNewSecret(EnvBackupPassword, "Enter backup password: ", "Confirm backup password: ")
	if err := security.ValidateNewPassword(password, confirm); err != nil {
		HandleError(err)
	}

	blob, err := j.Export(ctx, password)
	if err != nil {
		HandleError(err)
	}
	if err := os.WriteFile(path, blob, FilePermSecure); err != nil {
		HandleError(fmt.Errorf("failed to write backup: %w", err))
	}
	fmt.Printf("✓ Backup written to %s (%s)\n", path, formatSize(int64(len(blob))))
}

// Import merges an encrypted backup into the journal
func Import(ctx context.Context, path, strategyName string, dryRun bool) {
	if path == "" {
		fmt.Fprintln(os.Stderr, "Usage: dreamlock import [--strategy ask|keep-local|use-imported|abort] [--dry-run] <file>")
		os.Exit(1)
	}
	strategy, err := core.ParseMergeStrategy(strategyName)
	if err != nil {
		HandleError(err)
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		HandleError(fmt.Errorf("failed to read backup: %w", err))
	}

	j := unlockJournal()
	defer j.Close()

	password := core.SecretFromEnv(EnvBackupPassword)
	if password == "" {
		if password, err = core.ReadSecret("Enter backup password: "); err != nil {
			HandleError(err)
		}
	}

	res, err := j.Import(ctx, blob, password, core.ImportOptions{
		Strategy: strategy,
		Resolver: promptConflict,
		DryRun:   dryRun,
	})
	if errors.Is(err, core.ErrImportConflict) {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintln(os.Stderr, "Nothing was imported")
		os.Exit(1)
	}
	if err != nil {
		HandleError(err)
	}

	if dryRun {
		fmt.Println("Dry run, nothing was written:")
	}
	fmt.Printf("added: %d\n", len(res.Added))
	fmt.Printf("updated: %d\n", len(res.Updated))
	fmt.Printf("unchanged: %d\n", len(res.Unchanged))
	if len(res.Kept) > 0 {
		fmt.Printf("kept local: %d\n", len(res.Kept))
	}
}
