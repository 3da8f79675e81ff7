// Package git checks whether the journal database is exposed to git.
//
// Checks performed:
//   - Whether the data directory is inside a git work tree
//   - Whether the database file is tracked by git (should not be)
//   - Whether the database file is in .gitignore (should be)
//
// Even with encryption on, a tracked journal leaks entry counts, the PIN
// record and plaintext records from before encryption was enabled.
package git
