package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aussiebroadwan/workintel/internal/workintel/domain"
	"github.com/aussiebroadwan/workintel/internal/workintel/store"
	"github.com/aussiebroadwan/workintel/internal/workintel/store/drivers/sqlite"
	"github.com/aussiebroadwan/workintel/pkg/cryptox"
	"github.com/aussiebroadwan/workintel/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()

	box, err := cryptox.NewSecretBox([]byte("store-test-key"))
	require.NoError(t, err)

	st, err := sqlite.NewStore(":memory:", sqlite.WithCredentialSealer(box))
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func seedUser(t *testing.T, st store.Store, email string) domain.User {
	t.Helper()
	now := time.Now().UTC()
	u := domain.User{ID: idx.New().String(), Email: email, Name: email, PasswordHash: "x", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

func seedTeam(t *testing.T, st store.Store, owner domain.User) domain.Team {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	team := domain.Team{ID: idx.New().String(), Name: "Platform", CreatedBy: owner.ID, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, st.Teams().CreateTeam(ctx, team))
	require.NoError(t, st.Members().AddMember(ctx, domain.TeamMember{TeamID: team.ID, UserID: owner.ID, Role: domain.RoleAdmin, JoinedAt: now}))
	return team
}

func TestMigrationsAreIdempotent(t *testing.T) {
	st := newStore(t)
	require.NoError(t, st.ApplyMigrations())

	v, dirty, err := st.MigrationVersion()
	require.NoError(t, err)
	require.False(t, dirty)
	require.EqualValues(t, 1, v)
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	u := seedUser(t, st, "Alice@Example.com")

	t.Run("email lookup is case-insensitive", func(t *testing.T) {
		got, err := st.Users().GetUserByEmail(ctx, "ALICE@example.COM")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
		require.Equal(t, "alice@example.com", got.Email)
	})

	t.Run("duplicate email", func(t *testing.T) {
		dup := u
		dup.ID = idx.New().String()
		dup.Email = "alice@EXAMPLE.com"
		require.ErrorIs(t, st.Users().CreateUser(ctx, dup), store.ErrAlreadyExists)
	})

	t.Run("github login", func(t *testing.T) {
		require.NoError(t, st.Users().UpdateGitHubLogin(ctx, u.ID, "alice-gh"))
		got, err := st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "alice-gh", got.GitHubLogin)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := st.Users().GetUserByID(ctx, "nope")
		require.ErrorIs(t, err, store.ErrNotFound)
		require.ErrorIs(t, st.Users().UpdateName(ctx, "nope", "x"), store.ErrNotFound)
	})
}

func TestSessions(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	u := seedUser(t, st, "a@example.com")
	now := time.Now().UTC()

	live := domain.Session{ID: idx.New().String(), UserID: u.ID, TokenHash: "live", ExpiresAt: now.Add(time.Hour), CreatedAt: now}
	dead := domain.Session{ID: idx.New().String(), UserID: u.ID, TokenHash: "dead", ExpiresAt: now.Add(-time.Minute), CreatedAt: now}
	require.NoError(t, st.Sessions().CreateSession(ctx, live))
	require.NoError(t, st.Sessions().CreateSession(ctx, dead))

	got, err := st.Sessions().GetActiveSessionByTokenHash(ctx, "live", now)
	require.NoError(t, err)
	require.Equal(t, u.ID, got.UserID)
	require.WithinDuration(t, live.ExpiresAt, got.ExpiresAt, time.Millisecond)

	_, err = st.Sessions().GetActiveSessionByTokenHash(ctx, "dead", now)
	require.ErrorIs(t, err, store.ErrNotFound)

	n, err := st.Sessions().DeleteExpiredSessions(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	require.NoError(t, st.Sessions().DeleteSession(ctx, "live"))
	_, err = st.Sessions().GetActiveSessionByTokenHash(ctx, "live", now)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestTeamsAndMembers(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	alice := seedUser(t, st, "alice@example.com")
	bob := seedUser(t, st, "bob@example.com")
	team := seedTeam(t, st, alice)

	require.NoError(t, st.Members().AddMember(ctx, domain.TeamMember{TeamID: team.ID, UserID: bob.ID, Role: domain.RoleMember, JoinedAt: time.Now()}))
	require.ErrorIs(t,
		st.Members().AddMember(ctx, domain.TeamMember{TeamID: team.ID, UserID: bob.ID, Role: domain.RoleMember, JoinedAt: time.Now()}),
		store.ErrAlreadyExists)

	teams, err := st.Teams().ListTeamsForUser(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	require.Equal(t, domain.RoleMember, teams[0].Role)
	require.Equal(t, 2, teams[0].MemberCount)

	members, err := st.Members().ListMembers(ctx, team.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	require.Equal(t, alice.ID, members[0].UserID, "admins first")

	n, err := st.Members().CountAdmins(ctx, team.ID)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	require.NoError(t, st.Members().UpdateRole(ctx, team.ID, bob.ID, domain.RoleAdmin))
	n, err = st.Members().CountAdmins(ctx, team.ID)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	require.NoError(t, st.Members().RemoveMember(ctx, team.ID, bob.ID))
	_, err = st.Members().GetMember(ctx, team.ID, bob.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, st.Teams().RenameTeam(ctx, team.ID, "Infra"))
	got, err := st.Teams().GetTeamByID(ctx, team.ID)
	require.NoError(t, err)
	require.Equal(t, "Infra", got.Name)

	require.NoError(t, st.Teams().DeleteTeam(ctx, team.ID))
	_, err = st.Members().GetMember(ctx, team.ID, alice.ID)
	require.ErrorIs(t, err, store.ErrNotFound, "members cascade with the team")
}

func TestInvites(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	alice := seedUser(t, st, "alice@example.com")
	bob := seedUser(t, st, "bob@example.com")
	team := seedTeam(t, st, alice)
	now := time.Now().UTC()

	pending := domain.TeamInvite{ID: idx.New().String(), TeamID: team.ID, Email: bob.Email, Role: domain.RoleMember,
		TokenHash: "h1", InvitedBy: alice.ID, ExpiresAt: now.Add(time.Hour), CreatedAt: now}
	expired := domain.TeamInvite{ID: idx.New().String(), TeamID: team.ID, Email: "carol@example.com", Role: domain.RoleMember,
		TokenHash: "h2", InvitedBy: alice.ID, ExpiresAt: now.Add(-time.Hour), CreatedAt: now}
	require.NoError(t, st.Invites().CreateInvite(ctx, pending))
	require.NoError(t, st.Invites().CreateInvite(ctx, expired))

	list, err := st.Invites().ListPendingInvites(ctx, team.ID, now)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, pending.ID, list[0].ID)

	got, err := st.Invites().GetInviteByTokenHash(ctx, "h2")
	require.NoError(t, err)
	require.Equal(t, domain.InviteExpired, got.Status(now))

	require.NoError(t, st.Invites().MarkInviteAccepted(ctx, pending.ID, bob.ID, now))
	require.ErrorIs(t, st.Invites().MarkInviteAccepted(ctx, pending.ID, bob.ID, now), store.ErrNotFound, "single use")

	got, err = st.Invites().GetInviteByTokenHash(ctx, "h1")
	require.NoError(t, err)
	require.Equal(t, bob.ID, got.AcceptedBy)
	require.Equal(t, domain.InviteAccepted, got.Status(now))

	n, err := st.Invites().DeleteExpiredInvites(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, n, "accepted invites are kept")

	require.ErrorIs(t, st.Invites().DeleteInvite(ctx, pending.ID, "other-team"), store.ErrNotFound)
}

func TestTeamIntegrationsAreEncrypted(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	alice := seedUser(t, st, "alice@example.com")
	team := seedTeam(t, st, alice)
	now := time.Now().UTC()

	ti := domain.TeamIntegration{
		ID: idx.New().String(), TeamID: team.ID, Provider: domain.ProviderGitHub, AuthMethod: domain.AuthPAT,
		Credentials: domain.Credentials{AccessToken: "ghp_supersecret"},
		Config:      domain.IntegrationConfig{Repos: []string{"acme/api"}},
		ConnectedBy: alice.ID, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, st.TeamIntegrations().UpsertTeamIntegration(ctx, ti))

	var raw string
	require.NoError(t, st.DB().QueryRowContext(ctx, `SELECT credentials FROM team_integrations WHERE id = ?`, ti.ID).Scan(&raw))
	require.NotContains(t, raw, "ghp_supersecret")

	got, err := st.TeamIntegrations().GetTeamIntegration(ctx, team.ID, domain.ProviderGitHub)
	require.NoError(t, err)
	require.Equal(t, "ghp_supersecret", got.Credentials.AccessToken)
	require.Equal(t, []string{"acme/api"}, got.Config.Repos)

	t.Run("upsert replaces credentials and keeps id", func(t *testing.T) {
		again := ti
		again.ID = idx.New().String()
		again.AuthMethod = domain.AuthOAuth
		again.Credentials = domain.Credentials{AccessToken: "gho_new", RefreshToken: "r"}
		require.NoError(t, st.TeamIntegrations().UpsertTeamIntegration(ctx, again))

		list, err := st.TeamIntegrations().ListTeamIntegrations(ctx, team.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, ti.ID, list[0].ID)
		require.Equal(t, domain.AuthOAuth, list[0].AuthMethod)
		require.Equal(t, "gho_new", list[0].Credentials.AccessToken)
	})

	t.Run("credentials and config updates", func(t *testing.T) {
		require.NoError(t, st.TeamIntegrations().UpdateTeamCredentials(ctx, ti.ID, domain.Credentials{AccessToken: "rotated"}))
		require.NoError(t, st.TeamIntegrations().UpdateTeamConfig(ctx, team.ID, domain.ProviderGitHub,
			domain.IntegrationConfig{Repos: []string{"acme/web"}}))

		got, err := st.TeamIntegrations().GetTeamIntegration(ctx, team.ID, domain.ProviderGitHub)
		require.NoError(t, err)
		require.Equal(t, "rotated", got.Credentials.AccessToken)
		require.Equal(t, []string{"acme/web"}, got.Config.Repos)
	})

	t.Run("visible to members via user lookup", func(t *testing.T) {
		list, err := st.TeamIntegrations().ListTeamIntegrationsForUser(ctx, alice.ID, domain.ProviderGitHub)
		require.NoError(t, err)
		require.Len(t, list, 1)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, st.TeamIntegrations().DeleteTeamIntegration(ctx, team.ID, domain.ProviderGitHub))
		require.ErrorIs(t, st.TeamIntegrations().DeleteTeamIntegration(ctx, team.ID, domain.ProviderGitHub), store.ErrNotFound)
	})

	t.Run("wrong key cannot read", func(t *testing.T) {
		require.NoError(t, st.TeamIntegrations().UpsertTeamIntegration(ctx, ti))

		other, err := cryptox.NewSecretBox([]byte("different"))
		require.NoError(t, err)
		_, err = store.OpenCredentials(other, mustRawCredentials(t, st, ti.TeamID))
		require.True(t, errors.Is(err, cryptox.ErrDecrypt))
	})
}

func mustRawCredentials(t *testing.T, st *sqlite.Store, teamID string) string {
	t.Helper()
	var raw string
	require.NoError(t, st.DB().QueryRow(`SELECT credentials FROM team_integrations WHERE team_id = ?`, teamID).Scan(&raw))
	return raw
}

func TestUserIntegrations(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	alice := seedUser(t, st, "alice@example.com")
	now := time.Now().UTC()

	ui := domain.UserIntegration{ID: idx.New().String(), UserID: alice.ID, Provider: domain.ProviderNylas,
		Credentials: domain.Credentials{AccessToken: "t", GrantID: "grant-1"}, AccountLabel: "alice@example.com",
		CreatedAt: now, UpdatedAt: now}
	require.NoError(t, st.UserIntegrations().UpsertUserIntegration(ctx, ui))

	got, err := st.UserIntegrations().GetUserIntegration(ctx, alice.ID, domain.ProviderNylas)
	require.NoError(t, err)
	require.Equal(t, "grant-1", got.Credentials.GrantID)

	require.NoError(t, st.UserIntegrations().UpdateUserCredentials(ctx, got.ID, domain.Credentials{AccessToken: "t2", GrantID: "grant-1"}))
	list, err := st.UserIntegrations().ListUserIntegrations(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "t2", list[0].Credentials.AccessToken)

	require.NoError(t, st.UserIntegrations().DeleteUserIntegration(ctx, alice.ID, domain.ProviderNylas))
	_, err = st.UserIntegrations().GetUserIntegration(ctx, alice.ID, domain.ProviderNylas)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestReports(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	alice := seedUser(t, st, "alice@example.com")
	team := seedTeam(t, st, alice)

	week := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	rep := domain.WeeklyReport{ID: idx.New().String(), TeamID: team.ID, WeekStart: week, WeekEnd: week.AddDate(0, 0, 7),
		Stats: domain.ReportStats{Commits: 3}, Summary: "first", GeneratedBy: alice.ID, CreatedAt: time.Now(), UpdatedAt: time.Now()}

	saved, err := st.Reports().UpsertReport(ctx, rep)
	require.NoError(t, err)
	require.Equal(t, rep.ID, saved.ID)
	require.Equal(t, week, saved.WeekStart)

	again := rep
	again.ID = idx.New().String()
	again.Summary = "second"
	again.Stats.Commits = 9
	saved, err = st.Reports().UpsertReport(ctx, again)
	require.NoError(t, err)
	require.Equal(t, rep.ID, saved.ID, "regenerating keeps the row")
	require.Equal(t, "second", saved.Summary)
	require.Equal(t, 9, saved.Stats.Commits)

	older := rep
	older.ID = idx.New().String()
	older.WeekStart = week.AddDate(0, 0, -7)
	older.WeekEnd = week
	_, err = st.Reports().UpsertReport(ctx, older)
	require.NoError(t, err)

	list, err := st.Reports().ListReports(ctx, team.ID, 12)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, week, list[0].WeekStart, "newest first")

	_, err = st.Reports().GetReport(ctx, "other-team", rep.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestTransactions(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	alice := seedUser(t, st, "alice@example.com")

	boom := errors.New("boom")
	err := st.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.Users().UpdateName(ctx, alice.ID, "changed"))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := st.Users().GetUserByID(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, alice.Name, got.Name, "rolled back")

	err = st.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Tx(ctx)
		return err
	})
	require.Error(t, err, "nested transactions are refused")
}
