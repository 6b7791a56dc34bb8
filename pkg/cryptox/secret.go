package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrDecrypt is returned when a sealed value cannot be opened, typically
// because the master key changed.
var ErrDecrypt = errors.New("cryptox: cannot decrypt secret")

// SecretBox seals integration credentials (OAuth tokens, PATs, API tokens)
// with AES-256-GCM before they are written to the database.
//
// Sealed format: base64std([12-byte nonce][ciphertext][16-byte tag]).
type SecretBox struct {
	aead cipher.AEAD
}

// NewSecretBox derives the AES-256 key as SHA-256(keyMaterial).
func NewSecretBox(keyMaterial []byte) (*SecretBox, error) {
	if len(keyMaterial) == 0 {
		return nil, errors.New("cryptox: empty master key")
	}
	key := sha256.Sum256(keyMaterial)

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return &SecretBox{aead: aead}, nil
}

// LoadSecretBox picks the master key from, in order: the file at path, the
// envKey value, or a random ephemeral key. The bool reports whether the key
// is ephemeral; credentials sealed with one are lost on restart.
func LoadSecretBox(path, envKey string) (*SecretBox, bool, error) {
	var material []byte
	ephemeral := false

	switch {
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, false, fmt.Errorf("read master key file: %w", err)
		}
		material = []byte(strings.TrimSpace(string(data)))
	case envKey != "":
		material = []byte(envKey)
	default:
		material = make([]byte, 32)
		if _, err := rand.Read(material); err != nil {
			return nil, false, fmt.Errorf("generate ephemeral master key: %w", err)
		}
		ephemeral = true
	}

	box, err := NewSecretBox(material)
	return box, ephemeral, err
}

// Seal encrypts plaintext under a fresh random nonce.
func (b *SecretBox) Seal(plaintext []byte) (string, error) {
	nonce := make([]byte, b.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	out := b.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Open reverses Seal.
func (b *SecretBox) Open(sealed string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	ns := b.aead.NonceSize()
	if len(raw) < ns+b.aead.Overhead() {
		return nil, fmt.Errorf("%w: ciphertext too short", ErrDecrypt)
	}
	plain, err := b.aead.Open(nil, raw[:ns], raw[ns:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	return plain, nil
}
