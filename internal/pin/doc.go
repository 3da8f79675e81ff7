// Package pin stores and verifies the journal PIN.
//
// Two on-disk formats exist. Legacy records are a bare (or JSON-quoted)
// decimal string from an unsalted 32-bit hash; they are still accepted so a
// PIN set up long ago keeps working, but they are never written. Secure
// records are JSON:
//
//	{"hash":"<hex PBKDF2-SHA256>","salt":"<hex>","version":"secure"}
//
// Parse turns a stored value into a LegacyPin or SecurePin once, at the
// storage boundary. Only Store.Save upgrades a record; verification does not.
package pin
