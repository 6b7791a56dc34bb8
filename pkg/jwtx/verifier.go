package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed     = errors.New("jwtx: malformed token")
	ErrAlgMismatch   = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig    = errors.New("jwtx: invalid signature")
	ErrIssuer        = errors.New("jwtx: issuer mismatch")
	ErrExpired       = errors.New("jwtx: token expired")
	ErrNotYetValid   = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim  = errors.New("jwtx: invalid claims")
	ErrSecretTooWeak = errors.New("jwtx: hmac secret must be at least 32 bytes")
)

// StateSigner signs and verifies OAuth state tokens with HS256. The secret
// never leaves the process; only this service reads its own states.
type StateSigner struct {
	secret []byte
	issuer string
	leeway time.Duration
	now    func() time.Time
}

// NewStateSigner returns a signer for secret (>= 32 bytes).
func NewStateSigner(secret []byte, issuer string) (*StateSigner, error) {
	if len(secret) < 32 {
		return nil, ErrSecretTooWeak
	}
	return &StateSigner{
		secret: secret,
		issuer: issuer,
		leeway: 30 * time.Second,
		now:    time.Now,
	}, nil
}

// Issuer is the iss value stamped into every state.
func (s *StateSigner) Issuer() string { return s.issuer }

// Now is the signer's clock, overridable in tests via WithClock.
func (s *StateSigner) Now() time.Time { return s.now() }

// WithClock returns a copy of s using now as its clock.
func (s *StateSigner) WithClock(now func() time.Time) *StateSigner {
	cp := *s
	cp.now = now
	return &cp
}

// Sign serialises c as a compact JWS.
func (s *StateSigner) Sign(c StateClaims) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	out, err := tok.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign state: %w", err)
	}
	return out, nil
}

// Verify checks signature, algorithm, issuer and expiry and returns the claims.
func (s *StateSigner) Verify(raw string) (StateClaims, error) {
	var c StateClaims

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	_, err := parser.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	})
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenMalformed):
		return StateClaims{}, ErrMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return StateClaims{}, ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return StateClaims{}, ErrAlgMismatch
	default:
		return StateClaims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if s.issuer != "" && c.Issuer != s.issuer {
		return StateClaims{}, ErrIssuer
	}
	if err := c.ValidateExpiry(s.now(), s.leeway); err != nil {
		return StateClaims{}, err
	}
	if c.Subject == "" || c.Provider == "" || c.ID == "" {
		return StateClaims{}, ErrInvalidClaim
	}
	return c, nil
}
