package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultStateTTL bounds how long a user may sit on a provider's consent
// screen before the callback is rejected.
const DefaultStateTTL = 10 * time.Minute

// StateClaims travel in the OAuth "state" parameter between the connect
// redirect and the provider callback.
type StateClaims struct {
	jwt.RegisteredClaims

	// Provider is the integration being connected ("github", "atlassian", ...).
	Provider string `json:"prv"`

	// TeamID is set when the connection is for a team rather than the user.
	TeamID string `json:"tid,omitempty"`

	// ReturnTo is the local path to land on after the callback.
	ReturnTo string `json:"rto,omitempty"`
}

// NewStateClaims builds claims for userID connecting provider.
func NewStateClaims(userID, provider, teamID, issuer string, ttl time.Duration, now time.Time) StateClaims {
	return StateClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewNonce(),
		},
		Provider: provider,
		TeamID:   teamID,
	}
}

// NewNonce returns a URL-safe random identifier for the "jti" claim.
func NewNonce() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateExpiry checks exp and nbf against now with a small leeway.
func (c *StateClaims) ValidateExpiry(now time.Time, leeway time.Duration) error {
	if c.ExpiresAt == nil || now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}
	return nil
}
