package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/workintel/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var secret = []byte("0123456789abcdef0123456789abcdef")

func TestStateRoundTrip(t *testing.T) {
	s, err := jwtx.NewStateSigner(secret, "workintel")
	require.NoError(t, err)

	now := time.Now()
	raw, err := s.Sign(jwtx.NewStateClaims("user-1", "github", "team-1", "workintel", jwtx.DefaultStateTTL, now))
	require.NoError(t, err)

	c, err := s.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "user-1", c.Subject)
	require.Equal(t, "github", c.Provider)
	require.Equal(t, "team-1", c.TeamID)
	require.NotEmpty(t, c.ID)
}

func TestStateRejections(t *testing.T) {
	s, err := jwtx.NewStateSigner(secret, "workintel")
	require.NoError(t, err)
	now := time.Now()

	t.Run("expired", func(t *testing.T) {
		raw, err := s.Sign(jwtx.NewStateClaims("u", "github", "", "workintel", time.Minute, now.Add(-time.Hour)))
		require.NoError(t, err)
		_, err = s.Verify(raw)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("clock override", func(t *testing.T) {
		raw, err := s.Sign(jwtx.NewStateClaims("u", "github", "", "workintel", time.Minute, now))
		require.NoError(t, err)
		_, err = s.WithClock(func() time.Time { return now.Add(2 * time.Minute) }).Verify(raw)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("other secret", func(t *testing.T) {
		other, err := jwtx.NewStateSigner([]byte(strings.Repeat("z", 32)), "workintel")
		require.NoError(t, err)
		raw, err := other.Sign(jwtx.NewStateClaims("u", "github", "", "workintel", time.Minute, now))
		require.NoError(t, err)
		_, err = s.Verify(raw)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		raw, err := s.Sign(jwtx.NewStateClaims("u", "github", "", "someone-else", time.Minute, now))
		require.NoError(t, err)
		_, err = s.Verify(raw)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("alg none", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwtx.NewStateClaims("u", "github", "", "workintel", time.Minute, now))
		raw, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = s.Verify(raw)
		require.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := s.Verify("not.a.jwt")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("missing provider", func(t *testing.T) {
		raw, err := s.Sign(jwtx.NewStateClaims("u", "", "", "workintel", time.Minute, now))
		require.NoError(t, err)
		_, err = s.Verify(raw)
		require.ErrorIs(t, err, jwtx.ErrInvalidClaim)
	})
}

func TestWeakSecret(t *testing.T) {
	_, err := jwtx.NewStateSigner([]byte("short"), "x")
	require.ErrorIs(t, err, jwtx.ErrSecretTooWeak)
}
