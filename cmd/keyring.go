package cmd

import (
	"fmt"

	"github.com/illarion/dreamlock/internal/config"
	"github.com/illarion/dreamlock/internal/keyring"
)

// KeyringStatus reports whether the OS keyring can hold the PIN and
// where the PIN currently lives.
func KeyringStatus() {
	if keyring.Available() {
		fmt.Println("OS keyring: available")
	} else {
		fmt.Println("OS keyring: not available")
	}
	fmt.Printf("Configured PIN backend: %s\n", cfg.Security.PinBackend)

	j := openJournal()
	defer j.Close()

	status, err := j.Status()
	if err != nil {
		HandleError(err)
	}
	if !status.PinSet {
		fmt.Println("PIN: not set")
		return
	}
	fmt.Printf("PIN: stored in %s\n", status.PinLocation)

	if cfg.Security.PinBackend == config.PinBackendKeyring && status.PinLocation != config.PinBackendKeyring {
		fmt.Println("The keyring could not be used. Run 'dreamlock pin set' again once it is available.")
	}
}
