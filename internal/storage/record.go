package storage

// Logical store names
const (
	StoreSettings    = "settings"
	StoreEntries     = "entries"
	StoreGoals       = "goals"
	StoreSuggestions = "suggestions"
)

// RecordStores lists the stores holding user records, in processing order.
var RecordStores = []string{StoreEntries, StoreGoals, StoreSuggestions}

// Record is a single stored value. Data holds plaintext JSON when Encrypted
// is false and an encrypted blob (salt ‖ nonce ‖ ciphertext) otherwise.
type Record struct {
	Key       string
	Encrypted bool
	Data      []byte
}

// IsRecordStore reports whether name is one of RecordStores
func IsRecordStore(name string) bool {
	for _, s := range RecordStores {
		if s == name {
			return true
		}
	}
	return false
}
