package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/workintel/internal/workintel/domain"
	"github.com/aussiebroadwan/workintel/internal/workintel/llm"
	"github.com/aussiebroadwan/workintel/internal/workintel/provider"
	"github.com/aussiebroadwan/workintel/internal/workintel/store/drivers/sqlite"
	"github.com/aussiebroadwan/workintel/pkg/cryptox"
	"github.com/aussiebroadwan/workintel/pkg/jwtx"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// testEnv wires every service against an in-memory database and one fake
// upstream server that stands in for all providers.
type testEnv struct {
	t   *testing.T
	ctx context.Context

	st  *sqlite.Store
	mux *http.ServeMux
	srv *httptest.Server

	mu  sync.Mutex
	now time.Time

	factory      *provider.Factory
	auth         *AuthService
	teams        *TeamService
	invites      *InviteService
	integrations *IntegrationService
	connect      *ConnectService
	briefs       *BriefService
	tasks        *TaskService
	reports      *ReportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	box, err := cryptox.NewSecretBox([]byte("service-test-key"))
	require.NoError(t, err)
	st, err := sqlite.NewStore(":memory:", sqlite.WithCredentialSealer(box))
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	e := &testEnv{
		t:   t,
		ctx: context.Background(),
		st:  st,
		mux: http.NewServeMux(),
		now: time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC), // a Monday
	}
	e.srv = httptest.NewServer(e.mux)
	t.Cleanup(e.srv.Close)

	clock := Clock(e.clock)

	reg := provider.NewOAuthRegistry(provider.OAuthSettings{BaseURL: "https://intel.test"})
	for _, p := range domain.Providers {
		reg.Register(&provider.OAuthApp{
			Slug:     provider.SlugFor(p),
			Provider: p,
			Config: &oauth2.Config{
				ClientID:     "client-" + string(p),
				ClientSecret: "secret",
				RedirectURL:  "https://intel.test/api/integrations/" + provider.SlugFor(p) + "/callback",
				Endpoint: oauth2.Endpoint{
					AuthURL:   e.srv.URL + "/oauth/authorize",
					TokenURL:  e.srv.URL + "/oauth/token/" + string(p),
					AuthStyle: oauth2.AuthStyleInParams,
				},
			},
		})
	}

	e.factory = provider.NewFactory(reg, provider.URLs{
		GitHubAPI:      e.srv.URL + "/github",
		AtlassianAPI:   e.srv.URL + "/atlassian",
		GoogleDriveAPI: e.srv.URL + "/drive",
		GoogleUserInfo: e.srv.URL + "/userinfo",
		NylasAPI:       e.srv.URL + "/nylas",
	}, "nyk_test")
	e.factory.HTTPClient = e.srv.Client()

	signer, err := jwtx.NewStateSigner([]byte("0123456789abcdef0123456789abcdef"), "workintel")
	require.NoError(t, err)
	signer = signer.WithClock(e.clock)

	e.auth = &AuthService{Store: st, Hasher: cryptox.Hasher{Pepper: "pepper"}, Clock: clock}
	e.teams = &TeamService{Store: st, Clock: clock}
	e.invites = &InviteService{Store: st, BaseURL: "https://intel.test", Clock: clock}
	e.integrations = &IntegrationService{
		Store:     st,
		Providers: e.factory,
		JiraSites: provider.NewJiraSites([]string{e.srv.URL}),
		Clock:     clock,
		Briefs:    NewBriefCache(time.Minute),
	}
	e.connect = &ConnectService{Integrations: e.integrations, Signer: signer}
	e.briefs = &BriefService{Integrations: e.integrations, Summarizer: llm.Fallback{}, Cache: e.integrations.Briefs, Clock: clock}
	e.tasks = NewTaskService(e.briefs, clock)
	e.reports = &ReportService{Store: st, Integrations: e.integrations, Summarizer: llm.Fallback{}, Clock: clock}
	return e
}

func (e *testEnv) clock() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.now
}

func (e *testEnv) advance(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = e.now.Add(d)
}

// handle registers a JSON responder on the fake upstream.
func (e *testEnv) handle(pattern string, status int, body any) {
	e.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		writeTestJSON(w, status, body)
	})
}

func writeTestJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (e *testEnv) signup(email string) domain.User {
	e.t.Helper()
	u, _, err := e.auth.Signup(e.ctx, email, "", "correct horse", SessionMeta{})
	require.NoError(e.t, err)
	return u
}

func (e *testEnv) team(owner domain.User) domain.Team {
	e.t.Helper()
	team, err := e.teams.CreateTeam(e.ctx, owner.ID, "Platform")
	require.NoError(e.t, err)
	return team
}

// join invites and accepts u into team as role.
func (e *testEnv) join(team domain.Team, admin, u domain.User, role domain.TeamRole) {
	e.t.Helper()
	inv, err := e.invites.CreateInvite(e.ctx, admin.ID, team.ID, u.Email, role)
	require.NoError(e.t, err)
	_, err = e.invites.AcceptInvite(e.ctx, u.ID, inv.Token)
	require.NoError(e.t, err)
}

// connectTeamGitHub stores a team PAT without going through verification.
func (e *testEnv) connectTeamGitHub(team domain.Team, admin domain.User, repos ...string) {
	e.t.Helper()
	_, err := e.integrations.upsertTeam(e.ctx, domain.TeamIntegration{
		TeamID:      team.ID,
		Provider:    domain.ProviderGitHub,
		AuthMethod:  domain.AuthPAT,
		Credentials: domain.Credentials{AccessToken: "ghp_team"},
		Config:      domain.IntegrationConfig{Repos: repos},
		ConnectedBy: admin.ID,
	})
	require.NoError(e.t, err)
}
