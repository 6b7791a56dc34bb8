// Package service holds the Work Intel use cases. Services are plain
// structs with exported dependencies, wired by the app package.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/aussiebroadwan/workintel/internal/workintel/domain"
	"github.com/aussiebroadwan/workintel/internal/workintel/store"
)

// Clock is the time source shared by services; nil means time.Now.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}

// normalizeEmail lower-cases and validates an address.
func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: invalid email address", ErrInvalidInput)
	}
	return email, nil
}

// membership returns the caller's membership. Non-members get
// ErrTeamNotFound so team ids do not leak.
func membership(ctx context.Context, st store.Store, teamID, userID string) (domain.TeamMember, error) {
	m, err := st.Members().GetMember(ctx, teamID, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.TeamMember{}, ErrTeamNotFound
	}
	if err != nil {
		return domain.TeamMember{}, fmt.Errorf("get membership: %w", err)
	}
	return m, nil
}

// requireAdmin is membership plus an admin check (ErrForbidden).
func requireAdmin(ctx context.Context, st store.Store, teamID, userID string) (domain.TeamMember, error) {
	m, err := membership(ctx, st, teamID, userID)
	if err != nil {
		return m, err
	}
	if m.Role != domain.RoleAdmin {
		return m, ErrForbidden
	}
	return m, nil
}
