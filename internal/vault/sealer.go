package vault

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const keyInfo = "tps40 service credential vault v1"

// ErrDecrypt is returned when a ciphertext cannot be authenticated,
// typically after ENC_KEY was rotated.
var ErrDecrypt = errors.New("credential decryption failed")

// Sealer performs authenticated encryption of credential secrets
// (XChaCha20-Poly1305 with a key derived from ENC_KEY via HKDF-SHA256).
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer derives the vault key from a hex encoded ENC_KEY (at least 16 bytes)
func NewSealer(encKeyHex string) (*Sealer, error) {
	raw, err := hex.DecodeString(encKeyHex)
	if err != nil {
		return nil, errors.New("invalid ENC_KEY format: expected hex")
	}
	if len(raw) < 16 {
		return nil, fmt.Errorf("ENC_KEY must be at least 16 bytes (32 hex chars), got %d", len(raw))
	}

	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, raw, nil, []byte(keyInfo)), key); err != nil {
		return nil, fmt.Errorf("failed to derive vault key: %w", err)
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	return &Sealer{aead: aead}, nil
}

// Seal encrypts plaintext; the output is nonce || ciphertext || tag
func (s *Sealer) Seal(plaintext string) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plaintext)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return s.aead.Seal(nonce, nonce, []byte(plaintext), nil), nil
}

// Open authenticates and decrypts a value produced by Seal
func (s *Sealer) Open(ciphertext []byte) (string, error) {
	if len(ciphertext) < s.aead.NonceSize()+s.aead.Overhead() {
		return "", ErrDecrypt
	}
	nonce, body := ciphertext[:s.aead.NonceSize()], ciphertext[s.aead.NonceSize():]
	plaintext, err := s.aead.Open(nil, nonce, body, nil)
	if err != nil {
		return "", ErrDecrypt
	}
	return string(plaintext), nil
}

// holdsSecret reports whether a stored ciphertext carries a non-empty secret
func holdsSecret(ciphertext []byte) bool {
	return len(ciphertext) > chacha20poly1305.NonceSizeX+chacha20poly1305.Overhead
}
