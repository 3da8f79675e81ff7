package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/illarion/dreamlock/internal/auth"
	"github.com/illarion/dreamlock/internal/config"
	"github.com/illarion/dreamlock/internal/core"
	"github.com/illarion/dreamlock/internal/crypto"
	"github.com/illarion/dreamlock/internal/logger"
	"github.com/illarion/dreamlock/internal/recovery"
	"github.com/illarion/dreamlock/internal/rotation"
	"github.com/illarion/dreamlock/internal/security"
)

// FilePermSecure is used for exported backups.
const FilePermSecure = 0600

var (
	cfg = config.Defaults()
	log = logger.Nop()
)

// Setup sets the configuration and logger used by every command.
func Setup(c *config.Config, l *logger.Logger) {
	cfg = c
	log = l
}

func journalOptions() core.Options {
	return core.Options{
		Path:              cfg.DBPath(),
		PinBackend:        cfg.Security.PinBackend,
		ResetAfter:        cfg.Security.ResetAfter,
		RecoveryThreshold: cfg.Security.RecoveryPromptAfter,
		Logger:            log,
	}
}

// openJournal opens the configured journal without unlocking it.
func openJournal() *core.Journal {
	j, err := core.Open(journalOptions())
	if err != nil {
		HandleError(err)
	}
	return j
}

// readPIN returns the PIN from DREAMLOCK_PIN or prompts for it.
func readPIN(prompt string) (pin string, fromEnv bool) {
	if v := core.SecretFromEnv(core.EnvPIN); v != "" {
		return v, true
	}
	v, err := core.ReadSecret(prompt)
	if err != nil {
		HandleError(err)
	}
	return v, false
}

// readPassword returns the password from DREAMLOCK_PASSWORD or prompts for it.
func readPassword(prompt string) (password string, fromEnv bool) {
	if v := core.SecretFromEnv(core.EnvPassword); v != "" {
		return v, true
	}
	v, err := core.ReadSecret(prompt)
	if err != nil {
		HandleError(err)
	}
	return v, false
}

// readNewSecret reads a new secret and its confirmation. An environment
// value is used for both.
func readNewSecret(env, prompt, confirmPrompt string) (string, string) {
	if v := core.SecretFromEnv(env); v != "" {
		return v, v
	}
	secret, confirm, err := core.ReadSecretConfirm(prompt, confirmPrompt)
	if err != nil {
		HandleError(err)
	}
	return secret, confirm
}

// HandleError prints err in a user-friendly form and exits
func HandleError(err error) {
	printError(os.Stderr, err)
	log.Debug().Err(err).Msg("command failed")
	os.Exit(1)
}

// printError writes the user-facing message for err. Wrapping errors are
// matched before the errors they wrap.
func printError(w io.Writer, err error) {
	var verr *security.ValidationError

	switch {
	case errors.Is(err, core.ErrNotInitialized):
		fmt.Fprintf(w, "Error: no journal at %s\n", cfg.DBPath())
		fmt.Fprintf(w, "Run 'dreamlock init' first\n")
	case errors.Is(err, core.ErrAlreadyExists):
		fmt.Fprintf(w, "Error: a journal already exists at %s\n", cfg.DBPath())
		fmt.Fprintf(w, "Use 'dreamlock status' to see current state\n")
	case errors.As(err, &verr):
		fmt.Fprintf(w, "Error: %s\n", verr.Reason)
	case errors.Is(err, rotation.ErrRotationAborted):
		fmt.Fprintf(w, "Error: %s\n", err)
		fmt.Fprintf(w, "Nothing was changed\n")
	case errors.Is(err, auth.ErrWrongPassword), errors.Is(err, crypto.ErrDecryptionFailed):
		fmt.Fprintf(w, "Error: wrong password\n")
	case errors.Is(err, auth.ErrPinMismatch):
		fmt.Fprintf(w, "Error: wrong PIN\n")
	case errors.Is(err, core.ErrLocked):
		fmt.Fprintf(w, "Error: journal is locked\n")
	case errors.Is(err, recovery.ErrWipeNotConfirmed):
		fmt.Fprintf(w, "Cancelled\n")
	default:
		fmt.Fprintf(w, "Error: %s\n", err)
	}
}

// formatSize formats a file size in human-readable form
func formatSize(size int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case size >= GB:
		return fmt.Sprintf("%.1f GB", float64(size)/GB)
	case size >= MB:
		return fmt.Sprintf("%.1f MB", float64(size)/MB)
	case size >= KB:
		return fmt.Sprintf("%.1f KB", float64(size)/KB)
	default:
		return fmt.Sprintf("%d bytes", size)
	}
}
