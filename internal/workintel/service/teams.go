package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/workintel/internal/workintel/domain"
	"github.com/aussiebroadwan/workintel/internal/workintel/store"
	"github.com/aussiebroadwan/workintel/pkg/idx"
	"github.com/aussiebroadwan/workintel/pkg/slogx"
)

const maxTeamNameLength = 100

// TeamDetail is a team as shown to one of its members.
type TeamDetail struct {
	Team    domain.Team
	Role    domain.TeamRole
	Members []domain.TeamMemberView
}

type TeamService struct {
	Store store.Store
	Clock Clock
}

func teamName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len(name) > maxTeamNameLength {
		return "", fmt.Errorf("%w: name is too long", ErrInvalidInput)
	}
	return name, nil
}

// ListTeams returns the caller's teams with their role in each.
func (s *TeamService) ListTeams(ctx context.Context, userID string) ([]domain.TeamWithRole, error) {
	teams, err := s.Store.Teams().ListTeamsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return teams, nil
}

// CreateTeam creates a team with the caller as its first admin.
func (s *TeamService) CreateTeam(ctx context.Context, userID, rawName string) (domain.Team, error) {
	log := slogx.FromContext(ctx)

	name, err := teamName(rawName)
	if err != nil {
		return domain.Team{}, err
	}

	now := s.Clock.now()
	team := domain.Team{
		ID:        idx.New().String(),
		Name:      name,
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Teams().CreateTeam(ctx, team); err != nil {
			return fmt.Errorf("create team: %w", err)
		}
		return tx.Members().AddMember(ctx, domain.TeamMember{
			TeamID:   team.ID,
			UserID:   userID,
			Role:     domain.RoleAdmin,
			JoinedAt: now,
		})
	})
	if err != nil {
		log.Error("failed to create team", slog.Any("error", err))
		return domain.Team{}, err
	}

	log.Info("team created", slog.String("team_id", team.ID))
	return team, nil
}

// GetTeam returns the team and its members. Only members may look.
func (s *TeamService) GetTeam(ctx context.Context, userID, teamID string) (TeamDetail, error) {
	m, err := membership(ctx, s.Store, teamID, userID)
	if err != nil {
		return TeamDetail{}, err
	}
	team, err := s.Store.Teams().GetTeamByID(ctx, teamID)
	if errors.Is(err, store.ErrNotFound) {
		return TeamDetail{}, ErrTeamNotFound
	}
	if err != nil {
		return TeamDetail{}, fmt.Errorf("get team: %w", err)
	}
	members, err := s.Store.Members().ListMembers(ctx, teamID)
	if err != nil {
		return TeamDetail{}, fmt.Errorf("list members: %w", err)
	}
	return TeamDetail{Team: team, Role: m.Role, Members: members}, nil
}

// RenameTeam is admin only.
func (s *TeamService) RenameTeam(ctx context.Context, userID, teamID, rawName string) (domain.Team, error) {
	name, err := teamName(rawName)
	if err != nil {
		return domain.Team{}, err
	}
	if _, err := requireAdmin(ctx, s.Store, teamID, userID); err != nil {
		return domain.Team{}, err
	}
	if err := s.Store.Teams().RenameTeam(ctx, teamID, name); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Team{}, ErrTeamNotFound
		}
		return domain.Team{}, fmt.Errorf("rename team: %w", err)
	}
	return s.Store.Teams().GetTeamByID(ctx, teamID)
}

// DeleteTeam is admin only and removes everything the team owns.
func (s *TeamService) DeleteTeam(ctx context.Context, userID, teamID string) error {
	if _, err := requireAdmin(ctx, s.Store, teamID, userID); err != nil {
		return err
	}
	if err := s.Store.Teams().DeleteTeam(ctx, teamID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("delete team: %w", err)
	}
	slogx.FromContext(ctx).Info("team deleted", slog.String("team_id", teamID))
	return nil
}

// UpdateMemberRole is admin only. The last admin cannot be demoted.
func (s *TeamService) UpdateMemberRole(ctx context.Context, actorID, teamID, memberID string, role domain.TeamRole) error {
	if !role.Valid() {
		return ErrInvalidRole
	}
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := requireAdmin(ctx, tx, teamID, actorID); err != nil {
			return err
		}
		target, err := tx.Members().GetMember(ctx, teamID, memberID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrMemberNotFound
		}
		if err != nil {
			return fmt.Errorf("get member: %w", err)
		}
		if target.Role == role {
			return nil
		}
		if target.Role == domain.RoleAdmin {
			if err := ensureAnotherAdmin(ctx, tx, teamID); err != nil {
				return err
			}
		}
		return tx.Members().UpdateRole(ctx, teamID, memberID, role)
	})
}

// RemoveMember lets an admin remove anyone, and any member leave. The last
// admin can do neither to themself.
func (s *TeamService) RemoveMember(ctx context.Context, actorID, teamID, memberID string) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		actor, err := membership(ctx, tx, teamID, actorID)
		if err != nil {
			return err
		}
		if actorID != memberID && actor.Role != domain.RoleAdmin {
			return ErrForbidden
		}
		target, err := tx.Members().GetMember(ctx, teamID, memberID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrMemberNotFound
		}
		if err != nil {
			return fmt.Errorf("get member: %w", err)
		}
		if target.Role == domain.RoleAdmin {
			if err := ensureAnotherAdmin(ctx, tx, teamID); err != nil {
				return err
			}
		}
		return tx.Members().RemoveMember(ctx, teamID, memberID)
	})
}

func ensureAnotherAdmin(ctx context.Context, st store.Store, teamID string) error {
	n, err := st.Members().CountAdmins(ctx, teamID)
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if n <= 1 {
		return ErrLastAdmin
	}
	return nil
}
