package workintel_test

import (
	"testing"

	sdk "github.com/aussiebroadwan/workintel/pkg/workintelsdk"
	"github.com/stretchr/testify/require"
)

// TestTeamInviteFlow walks an admin creating a team, inviting a colleague,
// the colleague joining and the admin handing over the team.
func TestTeamInviteFlow(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()
	ctx := t.Context()

	admin := signup(t, baseURL, "ada@example.com")
	team, err := admin.CreateTeam(ctx, "Platform")
	require.NoError(t, err)
	require.Equal(t, "admin", team.Role)

	inv, err := admin.CreateInvite(ctx, team.ID, sdk.CreateInviteRequest{Email: "bob@example.com"})
	require.NoError(t, err)
	require.Contains(t, inv.InviteURL, "/invite/")
	require.Equal(t, "member", inv.Role)

	bob := signup(t, baseURL, "bob@example.com")
	joined, err := bob.AcceptInvite(ctx, inviteToken(inv.InviteURL))
	require.NoError(t, err)
	require.Equal(t, team.ID, joined.ID)

	// One-time token.
	_, err = bob.AcceptInvite(ctx, inviteToken(inv.InviteURL))
	require.Error(t, err)

	detail, err := admin.GetTeam(ctx, team.ID)
	require.NoError(t, err)
	require.Len(t, detail.Members, 2)

	var bobID string
	for _, m := range detail.Members {
		if m.Email == "bob@example.com" {
			bobID = m.UserID
		}
	}
	require.NotEmpty(t, bobID)

	_, err = bob.RenameTeam(ctx, team.ID, "Mine now")
	require.ErrorIs(t, err, sdk.ErrForbidden)

	_, err = admin.UpdateMemberRole(ctx, team.ID, bobID, "admin")
	require.NoError(t, err)
	renamed, err := bob.RenameTeam(ctx, team.ID, "Platform Eng")
	require.NoError(t, err)
	require.Equal(t, "Platform Eng", renamed.Name)

	require.NoError(t, bob.DeleteTeam(ctx, team.ID))
	teams, err := admin.ListTeams(ctx)
	require.NoError(t, err)
	require.Empty(t, teams)
}

// TestSessionSurvivesLoginLogout checks the cookie session round trip
// against the real binary and database file.
func TestSessionSurvivesLoginLogout(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()
	ctx := t.Context()

	c := signup(t, baseURL, "ada@example.com")
	me, err := c.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", me.Email)

	require.NoError(t, c.Logout(ctx))
	_, err = c.Me(ctx)
	require.ErrorIs(t, err, sdk.ErrUnauthorized)

	_, err = c.Login(ctx, "ada@example.com", "wrong password")
	require.ErrorIs(t, err, sdk.ErrUnauthorized)

	_, err = c.Login(ctx, "ada@example.com", testPassword)
	require.NoError(t, err)
	_, err = c.Me(ctx)
	require.NoError(t, err)
}

// With no providers connected the brief still renders, from the fallback
// summarizer.
func TestBriefWithoutIntegrations(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()
	ctx := t.Context()

	c := signup(t, baseURL, "ada@example.com")
	brief, err := c.GetBrief(ctx, false)
	require.NoError(t, err)
	require.NotEmpty(t, brief.Date)
	require.NotEmpty(t, brief.Summary)
	require.Empty(t, brief.PullRequests)

	again, err := c.GetBrief(ctx, false)
	require.NoError(t, err)
	require.True(t, again.Cached)
}
