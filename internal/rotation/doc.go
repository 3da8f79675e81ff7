// Package rotation rewrites the encrypted records of a journal under a new
// password, and converts a journal into or out of encryption mode.
//
// Every run has two phases. The first reads all record stores and prepares
// the new records in memory; nothing is written if any record fails. The
// second writes all stores in one transaction, entries first, then goals,
// then suggestions.
//
// Rotate checks the old password against one encrypted record before it
// reads anything else, so a wrong password aborts with zero writes.
package rotation
