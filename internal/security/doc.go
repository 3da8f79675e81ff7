// Package security validates user-supplied secrets and confirmations before
// they reach the credential stores: PIN format, encryption password policy,
// and typed confirmation phrases for destructive actions.
//
// Every failure is a *ValidationError naming the offending field, so the UI
// can show it inline and let the user retry.
package security
