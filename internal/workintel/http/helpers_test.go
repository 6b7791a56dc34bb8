package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/workintel/internal/workintel/llm"
	"github.com/aussiebroadwan/workintel/internal/workintel/provider"
	"github.com/aussiebroadwan/workintel/internal/workintel/service"
	"github.com/aussiebroadwan/workintel/internal/workintel/store/drivers/sqlite"
	"github.com/aussiebroadwan/workintel/pkg/cryptox"
	"github.com/aussiebroadwan/workintel/pkg/httpx"
	"github.com/aussiebroadwan/workintel/pkg/jwtx"
	sdk "github.com/aussiebroadwan/workintel/pkg/workintelsdk"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://intel.test"

// testServer runs the full router against an in-memory database. GitHub is
// the only OAuth app configured; its API is a local fake.
type testServer struct {
	t   *testing.T
	ctx context.Context

	srv      *httptest.Server
	upstream *httptest.Server
	st       *sqlite.Store

	mu  sync.Mutex
	now time.Time
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	box, err := cryptox.NewSecretBox([]byte("http-test-key"))
	require.NoError(t, err)
	st, err := sqlite.NewStore(":memory:", sqlite.WithCredentialSealer(box))
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	ts := &testServer{
		t:   t,
		ctx: context.Background(),
		st:  st,
		now: time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC),
	}

	up := http.NewServeMux()
	up.HandleFunc("GET /github/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer ghp_good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"login": "octo", "id": 1})
	})
	ts.upstream = httptest.NewServer(up)
	t.Cleanup(ts.upstream.Close)

	clock := service.Clock(ts.clock)
	reg := provider.NewOAuthRegistry(provider.OAuthSettings{
		BaseURL:            testBaseURL,
		GitHubClientID:     "gh-client",
		GitHubClientSecret: "gh-secret",
	})
	factory := provider.NewFactory(reg, provider.URLs{GitHubAPI: ts.upstream.URL + "/github"}, "")
	factory.HTTPClient = ts.upstream.Client()

	signer, err := jwtx.NewStateSigner([]byte("0123456789abcdef0123456789abcdef"), "workintel")
	require.NoError(t, err)
	signer = signer.WithClock(ts.clock)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := NewRouter(testBaseURL, "test", st, httpx.CookieOptions{}, time.Hour, logger)
	r.AuthService = &service.AuthService{Store: st, Hasher: cryptox.Hasher{Pepper: "pepper"}, Clock: clock}
	r.TeamService = &service.TeamService{Store: st, Clock: clock}
	r.InviteService = &service.InviteService{Store: st, BaseURL: testBaseURL, Clock: clock}
	briefs := service.NewBriefCache(time.Minute)
	r.IntegrationService = &service.IntegrationService{Store: st, Providers: factory, Clock: clock, Briefs: briefs}
	r.ConnectService = &service.ConnectService{Integrations: r.IntegrationService, Signer: signer}
	r.BriefService = &service.BriefService{Integrations: r.IntegrationService, Summarizer: llm.Fallback{}, Cache: briefs, Clock: clock}
	r.TaskService = service.NewTaskService(r.BriefService, clock)
	r.ReportService = &service.ReportService{Store: st, Integrations: r.IntegrationService, Summarizer: llm.Fallback{}, Clock: clock}
	r.ApplyRoutes()

	ts.srv = httptest.NewServer(r)
	t.Cleanup(ts.srv.Close)
	return ts
}

func (ts *testServer) clock() time.Time {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.now
}

func (ts *testServer) advance(d time.Duration) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.now = ts.now.Add(d)
}

// client returns an SDK client signed up as email.
func (ts *testServer) client(email string) *sdk.Client {
	ts.t.Helper()
	c := sdk.NewClient(ts.srv.URL)
	_, err := c.Signup(ts.ctx, sdk.SignupRequest{Email: email, Name: strings.Split(email, "@")[0], Password: "correct horse"})
	require.NoError(ts.t, err)
	return c
}

// browser is a cookie-keeping client that never follows redirects.
func (ts *testServer) browser() *http.Client {
	ts.t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(ts.t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (ts *testServer) get(c *http.Client, path string) *http.Response {
	ts.t.Helper()
	res, err := c.Get(ts.srv.URL + path)
	require.NoError(ts.t, err)
	ts.t.Cleanup(func() { _ = res.Body.Close() })
	return res
}

func cookieNamed(res *http.Response, name string) *http.Cookie {
	for _, c := range res.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// tokenFromURL returns the last path segment of an invite link.
func tokenFromURL(link string) string {
	return link[strings.LastIndex(link, "/")+1:]
}
