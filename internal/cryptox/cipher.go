// Package cryptox implements field-level authenticated encryption for
// sensitive column values (traveler contact data, scooter serial numbers,
// audit log lines). Values are encrypted with AES-256-GCM under a single
// process-wide key loaded from a key file.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// KeySize is the length of the raw key file in bytes (AES-256).
const KeySize = 32

// ErrDecryptFailed marks a token that is malformed, truncated, not valid
// base64, or was produced under a different key. Decryption never yields
// wrong plaintext silently; any tampering surfaces as this error.
var ErrDecryptFailed = errors.New("decryption failed")

// LoadOrCreateKey reads the raw key bytes from path. If the file does not
// exist, a fresh random key is generated, persisted with owner-only
// permissions and returned. Any other read error is reported as-is.
//
// The caller is expected to invoke this once at startup and hand the
// resulting Cipher to every component that needs it; nothing regenerates
// the key mid-process.
func LoadOrCreateKey(path string) ([]byte, error) {
	key, err := os.ReadFile(path)
	if err == nil {
		if len(key) != KeySize {
			return nil, fmt.Errorf("key file %s: expected %d bytes, got %d", path, KeySize, len(key))
		}
		return key, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}

	key = make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create key directory: %w", err)
		}
	}
	if err := os.WriteFile(path, key, 0o600); err != nil {
		return nil, fmt.Errorf("failed to persist key file: %w", err)
	}
	return key, nil
}

// Cipher encrypts and decrypts individual string fields. It is safe for
// concurrent use; the underlying AEAD is read-only after construction.
type Cipher struct {
	aead cipher.AEAD
}

// New returns a Cipher for the given 32-byte key.
func New(key []byte) (*Cipher, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return &Cipher{aead: aead}, nil
}

// Encrypt seals plaintext with a fresh random nonce and returns the token
// as base64url(nonce || ciphertext || tag). Encrypting the same plaintext
// twice yields different tokens. Empty strings are valid input.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decrypt is the inverse of Encrypt. It returns ErrDecryptFailed for any
// token that cannot be authenticated under the cipher's key.
func (c *Cipher) Decrypt(token string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", ErrDecryptFailed
	}
	ns := c.aead.NonceSize()
	if len(raw) < ns {
		return "", ErrDecryptFailed
	}
	plaintext, err := c.aead.Open(nil, raw[:ns], raw[ns:], nil)
	if err != nil {
		return "", ErrDecryptFailed
	}
	return string(plaintext), nil
}
