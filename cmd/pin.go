package cmd

import (
	"fmt"
	"os"
)

// EnvNewPIN supplies the new PIN for scripted 'pin set'.
const EnvNewPIN = "DREAMLOCK_NEW_PIN"

// PinSet sets or replaces the journal PIN
func PinSet() {
	j := unlockJournal()
	defer j.Close()

	pin, confirm := readNewSecret(EnvNewPIN, "Enter new PIN (4-6 digits): ", "Confirm PIN: ")
	persistent, err := j.SetPIN(pin, confirm)
	if err != nil {
		HandleError(err)
	}

	if !persistent {
		fmt.Fprintln(os.Stderr, "warning: the PIN could not be saved and only protects this session")
		return
	}
	fmt.Println("✓ PIN set")
}

// PinRemove removes the journal PIN after checking the current one
func PinRemove() {
	j := unlockJournal()
	defer j.Close()

	if !j.PinSet() {
		fmt.Println("No PIN is set")
		return
	}

	pin, _ := readPIN("Enter current PIN: ")
	if err := j.RemovePIN(pin); err != nil {
		HandleError(err)
	}
	fmt.Println("✓ PIN removed")
}
