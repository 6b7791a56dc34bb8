package store

import (
	"encoding/json"
	"fmt"

	"github.com/aussiebroadwan/workintel/internal/workintel/domain"
)

// CredentialSealer encrypts credential blobs at rest. *cryptox.SecretBox
// satisfies it.
type CredentialSealer interface {
	Seal(plaintext []byte) (string, error)
	Open(sealed string) ([]byte, error)
}

// SealCredentials serialises and encrypts c for storage.
func SealCredentials(s CredentialSealer, c domain.Credentials) (string, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal credentials: %w", err)
	}
	sealed, err := s.Seal(raw)
	if err != nil {
		return "", fmt.Errorf("seal credentials: %w", err)
	}
	return sealed, nil
}

// OpenCredentials reverses SealCredentials.
func OpenCredentials(s CredentialSealer, sealed string) (domain.Credentials, error) {
	var c domain.Credentials
	if sealed == "" {
		return c, nil
	}
	raw, err := s.Open(sealed)
	if err != nil {
		return c, fmt.Errorf("open credentials: %w", err)
	}
	if err := json.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("unmarshal credentials: %w", err)
	}
	return c, nil
}
