package service

import (
	"testing"

	"github.com/aussiebroadwan/workintel/internal/workintel/domain"
	"github.com/stretchr/testify/require"
)

func TestCreateAndListTeams(t *testing.T) {
	e := newTestEnv(t)
	ann := e.signup("ann@example.com")

	_, err := e.teams.CreateTeam(e.ctx, ann.ID, "   ")
	require.ErrorIs(t, err, ErrInvalidInput)

	team := e.team(ann)
	teams, err := e.teams.ListTeams(e.ctx, ann.ID)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	require.Equal(t, domain.RoleAdmin, teams[0].Role)

	detail, err := e.teams.GetTeam(e.ctx, ann.ID, team.ID)
	require.NoError(t, err)
	require.Len(t, detail.Members, 1)
	require.Equal(t, domain.RoleAdmin, detail.Role)
}

func TestTeamAccessControl(t *testing.T) {
	e := newTestEnv(t)
	ann := e.signup("ann@example.com")
	ben := e.signup("ben@example.com")
	eve := e.signup("eve@example.com")
	team := e.team(ann)
	e.join(team, ann, ben, domain.RoleMember)

	t.Run("non-members do not see the team", func(t *testing.T) {
		_, err := e.teams.GetTeam(e.ctx, eve.ID, team.ID)
		require.ErrorIs(t, err, ErrTeamNotFound)
	})

	t.Run("members cannot rename or delete", func(t *testing.T) {
		_, err := e.teams.RenameTeam(e.ctx, ben.ID, team.ID, "Mine")
		require.ErrorIs(t, err, ErrForbidden)
		require.ErrorIs(t, e.teams.DeleteTeam(e.ctx, ben.ID, team.ID), ErrForbidden)
	})

	t.Run("admin renames", func(t *testing.T) {
		renamed, err := e.teams.RenameTeam(e.ctx, ann.ID, team.ID, "Infra")
		require.NoError(t, err)
		require.Equal(t, "Infra", renamed.Name)
	})

	t.Run("members cannot change roles", func(t *testing.T) {
		err := e.teams.UpdateMemberRole(e.ctx, ben.ID, team.ID, ben.ID, domain.RoleAdmin)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("members cannot remove others", func(t *testing.T) {
		require.ErrorIs(t, e.teams.RemoveMember(e.ctx, ben.ID, team.ID, ann.ID), ErrForbidden)
	})
}

func TestLastAdminIsProtected(t *testing.T) {
	e := newTestEnv(t)
	ann := e.signup("ann@example.com")
	ben := e.signup("ben@example.com")
	team := e.team(ann)
	e.join(team, ann, ben, domain.RoleMember)

	require.ErrorIs(t, e.teams.UpdateMemberRole(e.ctx, ann.ID, team.ID, ann.ID, domain.RoleMember), ErrLastAdmin)
	require.ErrorIs(t, e.teams.RemoveMember(e.ctx, ann.ID, team.ID, ann.ID), ErrLastAdmin)
	require.ErrorIs(t, e.teams.UpdateMemberRole(e.ctx, ann.ID, team.ID, ben.ID, "owner"), ErrInvalidRole)

	require.NoError(t, e.teams.UpdateMemberRole(e.ctx, ann.ID, team.ID, ben.ID, domain.RoleAdmin))
	require.NoError(t, e.teams.RemoveMember(e.ctx, ann.ID, team.ID, ann.ID), "ann may leave once ben is admin")

	_, err := e.teams.GetTeam(e.ctx, ann.ID, team.ID)
	require.ErrorIs(t, err, ErrTeamNotFound)
}

func TestMemberLeavesAndAdminRemoves(t *testing.T) {
	e := newTestEnv(t)
	ann := e.signup("ann@example.com")
	ben := e.signup("ben@example.com")
	cat := e.signup("cat@example.com")
	team := e.team(ann)
	e.join(team, ann, ben, domain.RoleMember)
	e.join(team, ann, cat, domain.RoleMember)

	require.NoError(t, e.teams.RemoveMember(e.ctx, ben.ID, team.ID, ben.ID))
	require.NoError(t, e.teams.RemoveMember(e.ctx, ann.ID, team.ID, cat.ID))
	require.ErrorIs(t, e.teams.RemoveMember(e.ctx, ann.ID, team.ID, cat.ID), ErrMemberNotFound)

	detail, err := e.teams.GetTeam(e.ctx, ann.ID, team.ID)
	require.NoError(t, err)
	require.Len(t, detail.Members, 1)
}

func TestDeleteTeam(t *testing.T) {
	e := newTestEnv(t)
	ann := e.signup("ann@example.com")
	team := e.team(ann)

	require.NoError(t, e.teams.DeleteTeam(e.ctx, ann.ID, team.ID))
	teams, err := e.teams.ListTeams(e.ctx, ann.ID)
	require.NoError(t, err)
	require.Empty(t, teams)
}
