// Package auth decides which credentials a journal needs and drives the
// lock/unlock state machine.
//
// Requirements are derived from two facts: whether a PIN record exists and
// whether encryption mode is on.
//
//	PIN set, encryption off  -> LockedPinOnly
//	PIN unset, encryption on -> LockedEncryptionOnly
//	PIN set, encryption on   -> LockedBoth
//	neither                  -> Unlocked
//
// The encryption password is never stored. It is checked by trial
// decryption of one encrypted record and, once accepted, kept in the Session
// until the journal is locked or wiped.
//
// Failed attempts are counted only to decide when to offer recovery. There
// is no lockout.
package auth
