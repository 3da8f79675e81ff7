// Package crypto provides cryptographic operations for dreamlock.
//
// Encryption uses AES-256-GCM with:
//   - 32-byte key derived from password via PBKDF2
//   - 16-byte random salt and 12-byte random nonce per encryption operation
//   - Authenticated encryption prevents tampering
//
// Blob layout, shared by stored records and exported backups:
//
//	[16-byte salt][12-byte nonce][ciphertext + 16-byte tag]
//
// Key derivation uses PBKDF2-HMAC-SHA256 with 100,000 iterations. The same
// primitive and constants hash PINs in package pin.
//
// Decryption never tells a wrong password apart from a damaged blob; both
// surface as ErrDecryptionFailed.
//
// Memory safety:
//   - Use ClearBytes() to zero sensitive data after use
//   - Call Encryptor.Destroy() when done with encryption operations
package crypto
