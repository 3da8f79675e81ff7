package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	SaltSize     = 16 // Salt size in bytes
	KeySize      = 32 // AES-256 key size
	NonceSize    = 12 // GCM nonce size
	TagSize      = 16 // GCM authentication tag size
	HeaderSize   = SaltSize + NonceSize
	DefaultIters = 100000 // PBKDF2 iterations, part of the blob format
)

var (
	ErrEncryptionFailed = errors.New("encryption failed")
	// ErrDecryptionFailed covers wrong passwords, truncated blobs and tampering alike.
	ErrDecryptionFailed = errors.New("incorrect password or corrupted data")
)

// KDF handles key derivation from passwords
type KDF struct {
	Salt       []byte
	Iterations int
}

// NewKDF creates a new KDF with a random salt
func NewKDF() (*KDF, error) {
	salt, err := GenerateRandom(SaltSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	return &KDF{
		Salt:       salt,
		Iterations: DefaultIters,
	}, nil
}

// DeriveKey derives an encryption key from a password
func (k *KDF) DeriveKey(password []byte) []byte {
	return pbkdf2.Key(password, k.Salt, k.Iterations, KeySize, sha256.New)
}

// Encryptor provides authenticated encryption with a fixed key
type Encryptor struct {
	key []byte
}

// NewEncryptor creates a new encryptor with the given key
func NewEncryptor(key []byte) *Encryptor {
	return &Encryptor{
		key: key,
	}
}

// Encrypt encrypts plaintext using AES-256-GCM and returns nonce ‖ ciphertext.
func (e *Encryptor) Encrypt(plaintext []byte) ([]byte, error) {
	gcm, err := e.gcm()
	if err != nil {
		return nil, err
	}

	nonce, err := GenerateRandom(NonceSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)

	result := make([]byte, NonceSize+len(ciphertext))
	copy(result, nonce)
	copy(result[NonceSize:], ciphertext)

	return result, nil
}

// Decrypt opens nonce ‖ ciphertext produced by Encrypt.
func (e *Encryptor) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < NonceSize+TagSize {
		return nil, ErrDecryptionFailed
	}

	gcm, err := e.gcm()
	if err != nil {
		return nil, err
	}

	nonce := ciphertext[:NonceSize]
	ciphertext = ciphertext[NonceSize:]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	return plaintext, nil
}

func (e *Encryptor) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(e.key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

// Destroy clears the encryptor's key from memory
func (e *Encryptor) Destroy() {
	ClearBytes(e.key)
}

// Engine encrypts string payloads under a password. Every blob carries its
// own salt and nonce: salt(16) ‖ nonce(12) ‖ ciphertext+tag.
type Engine struct {
	iterations int
}

// NewEngine returns an engine using DefaultIters.
func NewEngine() *Engine {
	return &Engine{iterations: DefaultIters}
}

// NewEngineWithIterations returns an engine with a custom PBKDF2 cost.
// Blobs produced with a non-default cost cannot be read by NewEngine.
func NewEngineWithIterations(iterations int) *Engine {
	if iterations <= 0 {
		iterations = DefaultIters
	}
	return &Engine{iterations: iterations}
}

// Iterations returns the PBKDF2 iteration count used by the engine.
func (g *Engine) Iterations() int {
	return g.iterations
}

// DeriveKey derives a KeySize key from password and salt.
func (g *Engine) DeriveKey(password, salt []byte) []byte {
	kdf := &KDF{Salt: salt, Iterations: g.iterations}
	return kdf.DeriveKey(password)
}

// Encrypt seals plaintext under a key derived from password with a fresh salt.
func (g *Engine) Encrypt(plaintext, password string) ([]byte, error) {
	kdf, err := NewKDF()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	}
	kdf.Iterations = g.iterations

	pw := []byte(password)
	defer ClearBytes(pw)

	enc := NewEncryptor(kdf.DeriveKey(pw))
	defer enc.Destroy()

	sealed, err := enc.Encrypt([]byte(plaintext))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	}

	blob := make([]byte, SaltSize+len(sealed))
	copy(blob, kdf.Salt)
	copy(blob[SaltSize:], sealed)
	return blob, nil
}

// Decrypt opens a blob produced by Encrypt. Any failure is ErrDecryptionFailed.
func (g *Engine) Decrypt(blob []byte, password string) (string, error) {
	if len(blob) < HeaderSize {
		return "", ErrDecryptionFailed
	}

	salt := blob[:SaltSize]
	pw := []byte(password)
	defer ClearBytes(pw)

	enc := NewEncryptor(g.DeriveKey(pw, salt))
	defer enc.Destroy()

	plaintext, err := enc.Decrypt(blob[SaltSize:])
	if err != nil {
		return "", ErrDecryptionFailed
	}
	defer ClearBytes(plaintext)

	return string(plaintext), nil
}

// ClearBytes securely clears a byte slice
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ConstantTimeCompare performs a constant-time comparison of two byte slices
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// GenerateRandom generates n random bytes
func GenerateRandom(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}
