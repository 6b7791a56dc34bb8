package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/workintel/internal/workintel/domain"
	"github.com/aussiebroadwan/workintel/internal/workintel/store"
	"github.com/aussiebroadwan/workintel/pkg/cryptox"
	"github.com/aussiebroadwan/workintel/pkg/idx"
	"github.com/aussiebroadwan/workintel/pkg/slogx"
)

const (
	MinPasswordLength = 8
	maxPasswordLength = 256
	maxNameLength     = 100

	DefaultSessionTTL = 30 * 24 * time.Hour
)

// SessionMeta describes the browser a session is opened for.
type SessionMeta struct {
	UserAgent string
	IPAddress string
}

// AuthService manages local accounts and cookie sessions.
type AuthService struct {
	Store      store.Store
	Hasher     cryptox.Hasher
	SessionTTL time.Duration
	Clock      Clock

	dummyOnce sync.Once
	dummyHash string
}

func (s *AuthService) ttl() time.Duration {
	if s.SessionTTL <= 0 {
		return DefaultSessionTTL
	}
	return s.SessionTTL
}

// Signup creates an account and opens a session for it.
func (s *AuthService) Signup(ctx context.Context, email, name, password string, meta SessionMeta) (domain.User, string, error) {
	log := slogx.FromContext(ctx)

	email, err := normalizeEmail(email)
	if err != nil {
		return domain.User{}, "", err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	if len(name) > maxNameLength {
		return domain.User{}, "", fmt.Errorf("%w: name is too long", ErrInvalidInput)
	}
	if len(password) < MinPasswordLength {
		return domain.User{}, "", ErrWeakPassword
	}
	if len(password) > maxPasswordLength {
		return domain.User{}, "", fmt.Errorf("%w: password is too long", ErrInvalidInput)
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, "", err
	}

	now := s.Clock.now()
	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var token string
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrEmailTaken
			}
			return fmt.Errorf("create user: %w", err)
		}
		tok, err := s.openSession(ctx, tx, user.ID, meta, now)
		if err != nil {
			return err
		}
		token = tok
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			log.Info("signup with registered email")
		} else {
			log.Error("signup failed", slog.Any("error", err))
		}
		return domain.User{}, "", err
	}

	log.Info("user signed up", slog.String("user_id", user.ID))
	return user, token, nil
}

// Login checks credentials and opens a session. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string, meta SessionMeta) (domain.User, string, error) {
	log := slogx.FromContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return domain.User{}, "", ErrInvalidCredentials
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn the same argon2 cost as a real check.
			_ = s.Hasher.Verify(password, s.dummy())
			log.Info("login for unknown email")
			return domain.User{}, "", ErrInvalidCredentials
		}
		log.Error("failed to load user", slog.Any("error", err))
		return domain.User{}, "", err
	}

	if err := s.Hasher.Verify(password, user.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			log.Error("stored password hash unusable", slog.String("user_id", user.ID), slog.Any("error", err))
		} else {
			log.Info("login with wrong password", slog.String("user_id", user.ID))
		}
		return domain.User{}, "", ErrInvalidCredentials
	}

	token, err := s.openSession(ctx, s.Store, user.ID, meta, s.Clock.now())
	if err != nil {
		log.Error("failed to open session", slog.Any("error", err))
		return domain.User{}, "", err
	}

	log.Info("user logged in", slog.String("user_id", user.ID))
	return user, token, nil
}

// Logout deletes the session behind token. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	err := s.Store.Sessions().DeleteSession(ctx, cryptox.FingerprintToken(token))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// ResolveSession maps a cookie value to its user.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (domain.SessionUser, error) {
	if token == "" {
		return domain.SessionUser{}, ErrUnauthorized
	}
	sess, err := s.Store.Sessions().GetActiveSessionByTokenHash(ctx, cryptox.FingerprintToken(token), s.Clock.now())
	if errors.Is(err, store.ErrNotFound) {
		return domain.SessionUser{}, ErrUnauthorized
	}
	if err != nil {
		return domain.SessionUser{}, fmt.Errorf("get session: %w", err)
	}

	user, err := s.Store.Users().GetUserByID(ctx, sess.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.SessionUser{}, ErrUnauthorized
	}
	if err != nil {
		return domain.SessionUser{}, fmt.Errorf("get session user: %w", err)
	}
	return domain.SessionUser{UserID: user.ID, Email: user.Email, Name: user.Name}, nil
}

// GetUser returns the profile of userID.
func (s *AuthService) GetUser(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUnauthorized
	}
	return u, err
}

func (s *AuthService) openSession(ctx context.Context, st store.Store, userID string, meta SessionMeta, now time.Time) (string, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", err
	}
	sess := domain.Session{
		ID:        idx.New().String(),
		UserID:    userID,
		TokenHash: cryptox.FingerprintToken(token),
		UserAgent: truncate(meta.UserAgent, 256),
		IPAddress: meta.IPAddress,
		ExpiresAt: now.Add(s.ttl()),
		CreatedAt: now,
	}
	if err := st.Sessions().CreateSession(ctx, sess); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return token, nil
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.Hasher.Hash(cryptox.MustGenerateToken(cryptox.TokenSize128))
	})
	return s.dummyHash
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
