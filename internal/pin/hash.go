package pin

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"unicode/utf16"

	"github.com/illarion/dreamlock/internal/crypto"
)

// LegacyHash reproduces the original 32-bit string hash (h = h*31 + c over
// UTF-16 code units, wrapping at int32) rendered in decimal. It exists only
// to verify PINs set up before salted hashes were introduced.
func LegacyHash(pin string) string {
	var h int32
	for _, cu := range utf16.Encode([]rune(pin)) {
		h = (h << 5) - h + int32(cu)
	}
	return strconv.FormatInt(int64(h), 10)
}

// HashSecure derives a comparable PIN hash with the engine's PBKDF2 settings.
// A nil salt draws a fresh one. Both results are hex encoded.
func HashSecure(engine *crypto.Engine, pin string, salt []byte) (hash, saltHex string, err error) {
	if salt == nil {
		salt, err = crypto.GenerateRandom(crypto.SaltSize)
		if err != nil {
			return "", "", fmt.Errorf("failed to generate PIN salt: %w", err)
		}
	}

	pw := []byte(pin)
	defer crypto.ClearBytes(pw)

	derived := engine.DeriveKey(pw, salt)
	defer crypto.ClearBytes(derived)

	return hex.EncodeToString(derived), hex.EncodeToString(salt), nil
}
