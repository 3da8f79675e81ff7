package core

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"
	"syscall"

	"golang.org/x/term"
)

// Environment variables that supply secrets for scripted use.
const (
	EnvPassword = "DREAMLOCK_PASSWORD"
	EnvPIN      = "DREAMLOCK_PIN"
)

// ReadSecret reads a PIN or password from the terminal without echoing
func ReadSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)

	secret, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // New line after input

	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(secret), nil
}

// ReadSecretConfirm reads a secret twice. Comparing the two is left to the
// validators so a mismatch is reported as a validation error.
func ReadSecretConfirm(prompt, confirmPrompt string) (secret, confirm string, err error) {
	secret, err = ReadSecret(prompt)
	if err != nil {
		return "", "", err
	}
	confirm, err = ReadSecret(confirmPrompt)
	if err != nil {
		return "", "", err
	}
	return secret, confirm, nil
}

// SecretFromEnv returns the value of an environment variable, "" if unset.
func SecretFromEnv(name string) string {
	return os.Getenv(name)
}

// stdin is the one buffered reader over os.Stdin shared by every line
// read, so buffered input survives between prompts.
var stdin struct {
	mu   sync.Mutex
	file *os.File
	r    *bufio.Reader
}

func stdinReader() *bufio.Reader {
	stdin.mu.Lock()
	defer stdin.mu.Unlock()
	if stdin.r == nil || stdin.file != os.Stdin {
		stdin.file = os.Stdin
		stdin.r = bufio.NewReader(os.Stdin)
	}
	return stdin.r
}

// ReadLine reads one line of visible input.
func ReadLine(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	line, err := stdinReader().ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadChoice reads a single character choice from the terminal
func ReadChoice() (string, error) {
	// Try to use raw mode for single-key input
	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		// Fallback to regular input
		input, err := stdinReader().ReadString('\n')
		if err != nil && input == "" {
			return "", err
		}
		return strings.ToLower(strings.TrimSpace(input)), nil
	}
	defer func() { _ = term.Restore(int(os.Stdin.Fd()), oldState) }()

	buf := make([]byte, 1)
	if _, err := os.Stdin.Read(buf); err != nil {
		return "", err
	}

	choice := strings.ToLower(string(buf[0]))
	fmt.Fprintf(os.Stderr, "%s\r\n", choice) // Echo the choice
	return choice, nil
}
