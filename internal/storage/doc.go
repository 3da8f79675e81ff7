// Package storage provides the BBolt database interface for dreamlock.
//
// Database structure uses four buckets:
//   - settings: encryption flag, PIN record, reset timer, timestamps (unencrypted)
//   - entries: journal entries
//   - goals: goals
//   - suggestions: autocomplete suggestion lists
//
// Records in the last three buckets are stored as a small JSON envelope
// carrying an "encrypted" tag next to the payload. Encrypting and tagging is
// the caller's job; storage never looks inside Data.
//
// BBolt provides ACID transactions, file locking, and corruption detection.
package storage
