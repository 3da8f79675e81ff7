package auth

// State is the lock state of a journal.
type State int

const (
	Unlocked State = iota
	LockedPinOnly
	LockedEncryptionOnly
	LockedBoth
)

func (s State) String() string {
	switch s {
	case Unlocked:
		return "unlocked"
	case LockedPinOnly:
		return "locked (PIN)"
	case LockedEncryptionOnly:
		return "locked (password)"
	case LockedBoth:
		return "locked (PIN and password)"
	default:
		return "unknown"
	}
}

// Locked reports whether s is one of the locked states.
func (s State) Locked() bool {
	return s != Unlocked
}

// Challenge is the credential prompt currently shown for a locked journal.
type Challenge int

const (
	ChallengeNone Challenge = iota
	ChallengePIN
	ChallengePassword
)

func (c Challenge) String() string {
	switch c {
	case ChallengePIN:
		return "pin"
	case ChallengePassword:
		return "password"
	default:
		return "none"
	}
}

// Requirements lists what must be proven to unlock.
type Requirements struct {
	PinRequired        bool
	EncryptionRequired bool
	BothEnabled        bool
}

// ComputeRequirements derives requirements from the stored PIN and the
// encryption mode flag.
func ComputeRequirements(pinSet, encryptionEnabled bool) Requirements {
	return Requirements{
		PinRequired:        pinSet && !encryptionEnabled,
		EncryptionRequired: encryptionEnabled,
		BothEnabled:        pinSet && encryptionEnabled,
	}
}

// LockedState is the state a journal with these requirements enters on lock.
func (r Requirements) LockedState() State {
	switch {
	case r.BothEnabled:
		return LockedBoth
	case r.EncryptionRequired:
		return LockedEncryptionOnly
	case r.PinRequired:
		return LockedPinOnly
	default:
		return Unlocked
	}
}

// defaultChallenge is the prompt shown first in state s.
func defaultChallenge(s State) Challenge {
	switch s {
	case LockedPinOnly:
		return ChallengePIN
	case LockedEncryptionOnly, LockedBoth:
		return ChallengePassword
	default:
		return ChallengeNone
	}
}
