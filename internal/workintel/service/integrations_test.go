package service

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/aussiebroadwan/workintel/internal/workintel/domain"
	"github.com/stretchr/testify/require"
)

func TestConnectGitHubToken(t *testing.T) {
	e := newTestEnv(t)
	ann := e.signup("ann@example.com")
	ben := e.signup("ben@example.com")
	team := e.team(ann)
	e.join(team, ann, ben, domain.RoleMember)

	e.mux.HandleFunc("GET /github/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer ghp_good" {
			writeTestJSON(w, http.StatusUnauthorized, map[string]string{"message": "Bad credentials"})
			return
		}
		writeTestJSON(w, http.StatusOK, map[string]any{"login": "annhub"})
	})

	t.Run("bad token", func(t *testing.T) {
		_, err := e.integrations.ConnectGitHubToken(e.ctx, ann.ID, team.ID, "ghp_bad", nil)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("bad repo", func(t *testing.T) {
		_, err := e.integrations.ConnectGitHubToken(e.ctx, ann.ID, team.ID, "ghp_good", []string{"not a repo"})
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("member cannot connect", func(t *testing.T) {
		_, err := e.integrations.ConnectGitHubToken(e.ctx, ben.ID, team.ID, "ghp_good", nil)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("admin connects", func(t *testing.T) {
		view, err := e.integrations.ConnectGitHubToken(e.ctx, ann.ID, team.ID, "ghp_good", []string{"acme/api", "ACME/api", " acme/web "})
		require.NoError(t, err)
		require.Equal(t, domain.AuthPAT, view.AuthMethod)
		require.Equal(t, []string{"acme/api", "acme/web"}, view.Config.Repos)
		require.Equal(t, ann.ID, view.ConnectedBy)
	})

	t.Run("members can list", func(t *testing.T) {
		list, err := e.integrations.ListTeamIntegrations(e.ctx, ben.ID, team.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, domain.ProviderGitHub, list[0].Provider)
	})

	t.Run("credentials are encrypted at rest and readable", func(t *testing.T) {
		ti, err := e.st.TeamIntegrations().GetTeamIntegration(e.ctx, team.ID, domain.ProviderGitHub)
		require.NoError(t, err)
		require.Equal(t, "ghp_good", ti.Credentials.AccessToken)
	})
}

func TestConnectJiraToken(t *testing.T) {
	e := newTestEnv(t)
	ann := e.signup("ann@example.com")
	team := e.team(ann)

	e.mux.HandleFunc("GET /rest/api/3/myself", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "ann@example.com" || pass != "jira-token" {
			writeTestJSON(w, http.StatusUnauthorized, map[string]any{"errorMessages": []string{"nope"}})
			return
		}
		writeTestJSON(w, http.StatusOK, map[string]any{"accountId": "abc", "emailAddress": user})
	})

	_, err := e.integrations.ConnectJiraToken(e.ctx, ann.ID, team.ID, e.srv.URL, "ann@example.com", "wrong", nil)
	require.ErrorIs(t, err, ErrInvalidToken)

	// Sites off the allow-list are refused before any request is made.
	var hits atomic.Int32
	internal := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer internal.Close()
	for _, site := range []string{internal.URL, "http://169.254.169.254", "https://localhost"} {
		_, err = e.integrations.ConnectJiraToken(e.ctx, ann.ID, team.ID, site, "ann@example.com", "jira-token", nil)
		require.ErrorIs(t, err, ErrInvalidInput, "site %s", site)
	}
	require.Zero(t, hits.Load())

	_, err = e.integrations.ConnectJiraToken(e.ctx, ann.ID, team.ID, e.srv.URL, "ann@example.com", "jira-token", []string{"eng-1"})
	require.ErrorIs(t, err, ErrInvalidInput)

	view, err := e.integrations.ConnectJiraToken(e.ctx, ann.ID, team.ID, e.srv.URL+"/", "ann@example.com", "jira-token", []string{"eng", "ops", "ENG"})
	require.NoError(t, err)
	require.Equal(t, []string{"ENG", "OPS"}, view.Config.JiraProjectKeys)
	require.Equal(t, e.srv.URL, view.AccountHint)
}

func TestUpdateAndDisconnectTeamIntegration(t *testing.T) {
	e := newTestEnv(t)
	ann := e.signup("ann@example.com")
	ben := e.signup("ben@example.com")
	team := e.team(ann)
	e.join(team, ann, ben, domain.RoleMember)

	_, err := e.integrations.UpdateTeamConfig(e.ctx, ann.ID, team.ID, domain.ProviderGitHub, []string{"acme/api"}, nil)
	require.ErrorIs(t, err, ErrIntegrationNotFound)

	e.connectTeamGitHub(team, ann, "acme/api")

	view, err := e.integrations.UpdateTeamConfig(e.ctx, ann.ID, team.ID, domain.ProviderGitHub, []string{"acme/web"}, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"acme/web"}, view.Config.Repos)

	_, err = e.integrations.UpdateTeamConfig(e.ctx, ann.ID, team.ID, domain.ProviderNylas, nil, nil)
	require.ErrorIs(t, err, ErrInvalidProvider)

	require.ErrorIs(t, e.integrations.DisconnectTeam(e.ctx, ben.ID, team.ID, domain.ProviderGitHub), ErrForbidden)
	require.NoError(t, e.integrations.DisconnectTeam(e.ctx, ann.ID, team.ID, domain.ProviderGitHub))
	require.ErrorIs(t, e.integrations.DisconnectTeam(e.ctx, ann.ID, team.ID, domain.ProviderGitHub), ErrIntegrationNotFound)
}

func TestTools(t *testing.T) {
	e := newTestEnv(t)
	ann := e.signup("ann@example.com")
	team := e.team(ann)
	e.connectTeamGitHub(team, ann, "acme/api")

	require.NoError(t, e.integrations.upsertUser(e.ctx, domain.UserIntegration{
		UserID:       ann.ID,
		Provider:     domain.ProviderNylas,
		Credentials:  domain.Credentials{AccessToken: "n", GrantID: "grant-1"},
		AccountLabel: "ann@example.com",
	}))

	tools, err := e.integrations.Tools(e.ctx, ann.ID)
	require.NoError(t, err)
	require.Len(t, tools, len(domain.Providers))

	byProvider := map[domain.Provider]Tool{}
	for _, tool := range tools {
		byProvider[tool.Provider] = tool
		require.True(t, tool.Configured)
	}

	gh := byProvider[domain.ProviderGitHub]
	require.True(t, gh.Connected)
	require.Equal(t, ScopeTeam, gh.Scope)
	require.True(t, gh.PATSupported)

	nylas := byProvider[domain.ProviderNylas]
	require.True(t, nylas.Connected)
	require.Equal(t, ScopeUser, nylas.Scope)
	require.Equal(t, "ann@example.com", nylas.AccountLabel)
	require.NotNil(t, nylas.ConnectedAt)

	require.False(t, byProvider[domain.ProviderJira].Connected)
	require.False(t, byProvider[domain.ProviderGoogleDrive].Connected)

	require.NoError(t, e.integrations.DisconnectUser(e.ctx, ann.ID, domain.ProviderNylas))
	require.ErrorIs(t, e.integrations.DisconnectUser(e.ctx, ann.ID, domain.ProviderNylas), ErrIntegrationNotFound)
}

func TestGitHubForTeamRequiresRepos(t *testing.T) {
	e := newTestEnv(t)
	ann := e.signup("ann@example.com")
	team := e.team(ann)

	_, _, err := e.integrations.GitHubForTeam(e.ctx, team.ID)
	require.ErrorIs(t, err, ErrGitHubNotConnected)

	e.connectTeamGitHub(team, ann)
	_, _, err = e.integrations.GitHubForTeam(e.ctx, team.ID)
	require.ErrorIs(t, err, ErrGitHubNotConnected)
}
