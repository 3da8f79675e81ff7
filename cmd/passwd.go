package cmd

import (
	"context"
	"fmt"
)

// EnvNewPassword supplies the new password for scripted 'passwd'.
const EnvNewPassword = "DREAMLOCK_NEW_PASSWORD"

// Passwd changes the encryption password and re-encrypts every record
func Passwd(ctx context.Context) {
	j := unlockJournal()
	defer j.Close()

	currentPassword, _ := readPassword("Enter current password: ")
	newPassword, confirm := readNewSecret(EnvNewPassword, "Enter new password: ", "Confirm new password: ")

	res, err := j.ChangePassword(ctx, currentPassword, newPassword, confirm)
	if err != nil {
		HandleError(err)
	}

	for _, s := range res.Stores {
		if s.Rewritten > 0 {
			fmt.Printf("  %s: %d re-encrypted\n", s.Store, s.Rewritten)
		}
	}
	fmt.Println("password changed successfully")
}
