package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/workintel/internal/workintel/domain"
	"github.com/aussiebroadwan/workintel/internal/workintel/store"
	"github.com/aussiebroadwan/workintel/pkg/cryptox"
	"github.com/aussiebroadwan/workintel/pkg/idx"
	"github.com/aussiebroadwan/workintel/pkg/slogx"
)

const DefaultInviteTTL = 7 * 24 * time.Hour

// CreatedInvite carries the raw token, which is only available at creation.
type CreatedInvite struct {
	Invite domain.TeamInvite
	Token  string
	URL    string
}

type InviteService struct {
	Store   store.Store
	BaseURL string
	TTL     time.Duration
	Clock   Clock
}

func (s *InviteService) ttl() time.Duration {
	if s.TTL <= 0 {
		return DefaultInviteTTL
	}
	return s.TTL
}

// InviteURL is the link sent to the invitee.
func (s *InviteService) InviteURL(token string) string {
	return strings.TrimSuffix(s.BaseURL, "/") + "/invite/" + token
}

// CreateInvite is admin only. Existing members cannot be invited again.
func (s *InviteService) CreateInvite(ctx context.Context, actorID, teamID, rawEmail string, role domain.TeamRole) (CreatedInvite, error) {
	log := slogx.FromContext(ctx)

	email, err := normalizeEmail(rawEmail)
	if err != nil {
		return CreatedInvite{}, err
	}
	if role == "" {
		role = domain.RoleMember
	}
	if !role.Valid() {
		return CreatedInvite{}, ErrInvalidRole
	}
	if _, err := requireAdmin(ctx, s.Store, teamID, actorID); err != nil {
		return CreatedInvite{}, err
	}

	if u, err := s.Store.Users().GetUserByEmail(ctx, email); err == nil {
		if _, err := s.Store.Members().GetMember(ctx, teamID, u.ID); err == nil {
			return CreatedInvite{}, ErrAlreadyMember
		} else if !errors.Is(err, store.ErrNotFound) {
			return CreatedInvite{}, fmt.Errorf("check membership: %w", err)
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		return CreatedInvite{}, fmt.Errorf("lookup invitee: %w", err)
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return CreatedInvite{}, err
	}

	now := s.Clock.now()
	inv := domain.TeamInvite{
		ID:        idx.New().String(),
		TeamID:    teamID,
		Email:     email,
		Role:      role,
		TokenHash: cryptox.FingerprintToken(token),
		InvitedBy: actorID,
		ExpiresAt: now.Add(s.ttl()),
		CreatedAt: now,
	}
	if err := s.Store.Invites().CreateInvite(ctx, inv); err != nil {
		log.Error("failed to create invite", slog.String("team_id", teamID), slog.Any("error", err))
		return CreatedInvite{}, fmt.Errorf("create invite: %w", err)
	}

	log.Info("invite created",
		slog.String("invite_id", inv.ID),
		slog.String("team_id", teamID),
		slog.String("role", string(role)),
		slog.Time("expires_at", inv.ExpiresAt),
	)
	return CreatedInvite{Invite: inv, Token: token, URL: s.InviteURL(token)}, nil
}

// ListInvites returns pending invites. Admin only.
func (s *InviteService) ListInvites(ctx context.Context, actorID, teamID string) ([]domain.TeamInvite, error) {
	if _, err := requireAdmin(ctx, s.Store, teamID, actorID); err != nil {
		return nil, err
	}
	invites, err := s.Store.Invites().ListPendingInvites(ctx, teamID, s.Clock.now())
	if err != nil {
		return nil, fmt.Errorf("list invites: %w", err)
	}
	return invites, nil
}

// RevokeInvite deletes an invite of teamID. Admin only.
func (s *InviteService) RevokeInvite(ctx context.Context, actorID, teamID, inviteID string) error {
	if _, err := requireAdmin(ctx, s.Store, teamID, actorID); err != nil {
		return err
	}
	err := s.Store.Invites().DeleteInvite(ctx, inviteID, teamID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrInviteNotFound
	}
	if err != nil {
		return fmt.Errorf("delete invite: %w", err)
	}
	slogx.FromContext(ctx).Info("invite revoked", slog.String("invite_id", inviteID), slog.String("team_id", teamID))
	return nil
}

// CheckInvite reports whether token could still be accepted by someone.
func (s *InviteService) CheckInvite(ctx context.Context, token string) (domain.TeamInvite, error) {
	inv, err := s.lookup(ctx, s.Store, token)
	if err != nil {
		return domain.TeamInvite{}, err
	}
	return inv, inviteState(inv, s.Clock.now())
}

// AcceptInvite adds userID to the invite's team. Membership and the
// accepted mark are written in one transaction. An existing member just
// consumes the invite.
func (s *InviteService) AcceptInvite(ctx context.Context, userID, token string) (domain.Team, error) {
	log := slogx.FromContext(ctx)
	now := s.Clock.now()

	var team domain.Team
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		inv, err := s.lookup(ctx, tx, token)
		if err != nil {
			return err
		}
		if err := inviteState(inv, now); err != nil {
			return err
		}

		user, err := tx.Users().GetUserByID(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrUnauthorized
		}
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}
		if !strings.EqualFold(user.Email, inv.Email) {
			log.Warn("invite accepted by wrong account", slog.String("invite_id", inv.ID))
			return ErrInviteEmailMismatch
		}

		err = tx.Members().AddMember(ctx, domain.TeamMember{
			TeamID:   inv.TeamID,
			UserID:   userID,
			Role:     inv.Role,
			JoinedAt: now,
		})
		if err != nil && !errors.Is(err, store.ErrAlreadyExists) {
			return fmt.Errorf("add member: %w", err)
		}

		if err := tx.Invites().MarkInviteAccepted(ctx, inv.ID, userID, now); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInviteAlreadyUsed
			}
			return fmt.Errorf("mark invite accepted: %w", err)
		}

		team, err = tx.Teams().GetTeamByID(ctx, inv.TeamID)
		if err != nil {
			return fmt.Errorf("get team: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Team{}, err
	}

	log.Info("invite accepted", slog.String("team_id", team.ID))
	return team, nil
}

func (s *InviteService) lookup(ctx context.Context, st store.Store, token string) (domain.TeamInvite, error) {
	if token == "" {
		return domain.TeamInvite{}, ErrInviteNotFound
	}
	inv, err := st.Invites().GetInviteByTokenHash(ctx, cryptox.FingerprintToken(token))
	if errors.Is(err, store.ErrNotFound) {
		return domain.TeamInvite{}, ErrInviteNotFound
	}
	if err != nil {
		return domain.TeamInvite{}, fmt.Errorf("get invite: %w", err)
	}
	return inv, nil
}

func inviteState(inv domain.TeamInvite, now time.Time) error {
	switch inv.Status(now) {
	case domain.InviteAccepted:
		return ErrInviteAlreadyUsed
	case domain.InviteExpired:
		return ErrInviteExpired
	}
	return nil
}
