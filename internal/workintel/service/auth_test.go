package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignupAndResolveSession(t *testing.T) {
	e := newTestEnv(t)

	u, token, err := e.auth.Signup(e.ctx, "  Ann@Example.COM ", "Ann", "correct horse", SessionMeta{UserAgent: "test"})
	require.NoError(t, err)
	require.Equal(t, "ann@example.com", u.Email)
	require.NotEmpty(t, token)

	su, err := e.auth.ResolveSession(e.ctx, token)
	require.NoError(t, err)
	require.Equal(t, u.ID, su.UserID)
	require.Equal(t, "Ann", su.Name)
}

func TestSignupValidation(t *testing.T) {
	e := newTestEnv(t)
	e.signup("ann@example.com")

	t.Run("duplicate email ignores case", func(t *testing.T) {
		_, _, err := e.auth.Signup(e.ctx, "ANN@example.com", "", "correct horse", SessionMeta{})
		require.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("short password", func(t *testing.T) {
		_, _, err := e.auth.Signup(e.ctx, "ben@example.com", "", "short", SessionMeta{})
		require.ErrorIs(t, err, ErrWeakPassword)
	})

	t.Run("bad email", func(t *testing.T) {
		_, _, err := e.auth.Signup(e.ctx, "not-an-email", "", "correct horse", SessionMeta{})
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("name defaults to local part", func(t *testing.T) {
		u, _, err := e.auth.Signup(e.ctx, "cat@example.com", "  ", "correct horse", SessionMeta{})
		require.NoError(t, err)
		require.Equal(t, "cat", u.Name)
	})
}

func TestLogin(t *testing.T) {
	e := newTestEnv(t)
	u := e.signup("ann@example.com")

	got, token, err := e.auth.Login(e.ctx, "ANN@example.com", "correct horse", SessionMeta{})
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.NotEmpty(t, token)

	_, _, err = e.auth.Login(e.ctx, "ann@example.com", "wrong password", SessionMeta{})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = e.auth.Login(e.ctx, "nobody@example.com", "correct horse", SessionMeta{})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSessionExpiryAndLogout(t *testing.T) {
	e := newTestEnv(t)
	e.auth.SessionTTL = time.Hour

	_, token, err := e.auth.Signup(e.ctx, "ann@example.com", "", "correct horse", SessionMeta{})
	require.NoError(t, err)

	_, err = e.auth.ResolveSession(e.ctx, "unknown")
	require.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, e.auth.Logout(e.ctx, token))
	_, err = e.auth.ResolveSession(e.ctx, token)
	require.ErrorIs(t, err, ErrUnauthorized)
	require.NoError(t, e.auth.Logout(e.ctx, token), "logout is idempotent")

	_, token, err = e.auth.Login(e.ctx, "ann@example.com", "correct horse", SessionMeta{})
	require.NoError(t, err)
	e.advance(2 * time.Hour)
	_, err = e.auth.ResolveSession(e.ctx, token)
	require.ErrorIs(t, err, ErrUnauthorized)
}
