// Package recovery restores access when the PIN is forgotten and offers the
// destructive way out when the encryption password is.
//
// PIN recovery strategies:
//   - Title challenge: name three distinct existing entry titles exactly.
//     Entries still carrying DefaultEntryTitle do not count.
//   - Reset timer: once started, the PIN is removed the first time CheckTimer
//     runs at or after the expiry time. Nothing runs in the background, so a
//     journal that is never opened keeps its PIN past the expiry.
//
// A forgotten encryption password cannot be recovered. Wipe deletes the whole
// journal after the user typed WipeConfirmationPhrase.
//
// Every successful strategy reports an Outcome through the single hook passed
// to NewManager.
package recovery
