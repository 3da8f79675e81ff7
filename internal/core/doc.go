// Package core provides the main dream journal operations.
//
// Journal ties the record store to the security packages:
//   - Open/Init: open a journal and compute its lock state
//   - UnlockWithPIN/UnlockWithPassword/Lock: drive the lock screen
//   - AddEntry/Entries/AddGoal/Suggestions: read and write records,
//     encrypting them transparently in encryption mode
//   - SetPIN/RemovePIN, EnableEncryption/DisableEncryption, ChangePassword
//   - RecoverWithTitles, Start/Check/CancelResetTimer, Wipe
//   - Export/Import: encrypted backups with conflict resolution
//
// Conflict resolution during import supports multiple strategies:
//   - Keep local version
//   - Use imported version (overwrite)
//   - Ask for each conflict, showing a unified diff
//   - Abort before anything is written
package core
