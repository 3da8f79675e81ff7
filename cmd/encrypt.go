package cmd

import (
	"context"
	"fmt"

	"github.com/illarion/dreamlock/internal/core"
)

// EncryptOn enables encryption mode and encrypts every stored record
func EncryptOn(ctx context.Context) {
	j := unlockJournal()
	defer j.Close()

	fmt.Println("Choose an encryption password. It cannot be recovered:")
	fmt.Println("if you forget it, the only way back in is to wipe the journal.")
	password, confirm := readNewSecret(core.EnvPassword, "Enter password: ", "Confirm password: ")

	res, err := j.EnableEncryption(ctx, password, confirm)
	if err != nil {
		HandleError(err)
	}
	fmt.Printf("✓ Encryption enabled (%d records encrypted)\n", res.Rewritten())
}

// EncryptOff decrypts every record and disables encryption mode
func EncryptOff(ctx context.Context) {
	j := unlockJournal()
	defer j.Close()

	password, _ := readPassword("Enter encryption password to confirm: ")
	res, err := j.DisableEncryption(ctx, password)
	if err != nil {
		HandleError(err)
	}
	fmt.Printf("✓ Encryption disabled (%d records decrypted)\n", res.Rewritten())
}
