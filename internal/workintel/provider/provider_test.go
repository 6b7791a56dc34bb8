package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/workintel/internal/workintel/domain"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTestClient(t *testing.T, srv *httptest.Server, header http.Header) *Client {
	t.Helper()
	c := NewClient("test", srv.URL, srv.Client(), header)
	c.initialInterval = time.Millisecond
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClientRetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			writeJSON(w, http.StatusBadGateway, map[string]string{"message": "upstream"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"ok": "yes"})
	}))
	defer srv.Close()

	var out map[string]string
	err := newTestClient(t, srv, nil).Get(context.Background(), "/x", nil, &out)
	require.NoError(t, err)
	require.Equal(t, "yes", out["ok"])
	require.EqualValues(t, 3, calls.Load())
}

func TestClientGivesUpAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"message": "slow down"})
	}))
	defer srv.Close()

	err := newTestClient(t, srv, nil).Get(context.Background(), "/x", nil, nil)
	require.True(t, IsStatus(err, http.StatusTooManyRequests))
	require.EqualValues(t, DefaultMaxAttempts, calls.Load())
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusNotFound, map[string]any{"errorMessages": []string{"Issue does not exist"}})
	}))
	defer srv.Close()

	err := newTestClient(t, srv, nil).Get(context.Background(), "/x", nil, nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	require.Equal(t, "Issue does not exist", apiErr.Message)
	require.EqualValues(t, 1, calls.Load())
}

func TestErrorMessageEnvelopes(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Bad credentials", errorMessage([]byte(`{"message":"Bad credentials"}`), 401))
	require.Equal(t, "quota", errorMessage([]byte(`{"error":{"message":"quota"}}`), 429))
	require.Equal(t, "invalid_grant", errorMessage([]byte(`{"error":"invalid_grant"}`), 400))
	require.Equal(t, "Bad Gateway (502)", errorMessage(nil, 502))
}

func TestGitHubSearchPullRequests(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search/issues", r.URL.Path)
		require.Equal(t, "is:pr review-requested:@me is:open", r.URL.Query().Get("q"))
		require.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
		require.Equal(t, "Bearer ghp_test", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{
			"items": []map[string]any{{
				"number":         42,
				"title":          "Fix flaky test",
				"html_url":       "https://github.com/acme/api/pull/42",
				"state":          "open",
				"user":           map[string]string{"login": "octo"},
				"updated_at":     "2026-10-19T08:00:00Z",
				"repository_url": "https://api.github.com/repos/acme/api",
			}},
		})
	}))
	defer srv.Close()

	f := NewFactory(nil, URLs{GitHubAPI: srv.URL}, "")
	f.HTTPClient = srv.Client()

	prs, err := f.GitHubToken(context.Background(), "ghp_test").SearchPullRequests(context.Background(), "review-requested:@me is:open", 10)
	require.NoError(t, err)
	require.Len(t, prs, 1)
	require.Equal(t, "acme/api", prs[0].Repo)
	require.Equal(t, 42, prs[0].Number)
	require.Equal(t, "octo", prs[0].Author)
}

func TestGitHubListPullRequestsStopsAtWindow(t *testing.T) {
	t.Parallel()

	since := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/repos/acme/api/pulls", r.URL.Path)
		require.Equal(t, "all", r.URL.Query().Get("state"))
		writeJSON(w, http.StatusOK, []map[string]any{
			{"number": 3, "user": map[string]string{"login": "a"}, "created_at": "2026-10-13T00:00:00Z", "updated_at": "2026-10-14T00:00:00Z", "merged_at": "2026-10-14T00:00:00Z"},
			{"number": 2, "user": map[string]string{"login": "b"}, "created_at": "2026-10-01T00:00:00Z", "updated_at": "2026-10-12T01:00:00Z"},
			{"number": 1, "user": map[string]string{"login": "c"}, "created_at": "2026-09-01T00:00:00Z", "updated_at": "2026-10-01T00:00:00Z"},
		})
	}))
	defer srv.Close()

	gh := NewGitHub(newTestClient(t, srv, nil))
	prs, err := gh.ListPullRequests(context.Background(), "acme/api", since)
	require.NoError(t, err)
	require.Len(t, prs, 2)
	require.NotNil(t, prs[0].MergedAt)
	require.Nil(t, prs[1].MergedAt)
}

func TestGitHubListPullRequestsReportsTruncation(t *testing.T) {
	t.Parallel()

	since := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	const total = 1500
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		var batch []map[string]any
		for n := (page - 1) * githubPerPage; n < page*githubPerPage && n < total; n++ {
			batch = append(batch, map[string]any{
				"number": total - n, "user": map[string]string{"login": "a"},
				"created_at": "2026-10-13T00:00:00Z", "updated_at": "2026-10-14T00:00:00Z",
			})
		}
		writeJSON(w, http.StatusOK, batch)
	}))
	defer srv.Close()

	prs, err := NewGitHub(newTestClient(t, srv, nil)).ListPullRequests(context.Background(), "acme/busy", since)
	require.ErrorIs(t, err, ErrTruncated)
	require.Len(t, prs, githubMaxPages*githubPerPage, "the pages read are still returned")
	require.Equal(t, int32(githubMaxPages), calls.Load())
}

func TestGitHubListCommits(t *testing.T) {
	t.Parallel()

	since := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	until := since.Add(7 * 24 * time.Hour)

	t.Run("excludes the until instant and keeps unlinked authors", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, since.Format(time.RFC3339), r.URL.Query().Get("since"))
			writeJSON(w, http.StatusOK, []map[string]any{
				{"sha": "a1", "author": map[string]string{"login": "octo"}, "commit": map[string]any{"author": map[string]string{"name": "Octo", "date": "2026-10-13T10:00:00Z"}}},
				{"sha": "b2", "author": nil, "commit": map[string]any{"author": map[string]string{"name": "Bot", "date": "2026-10-14T10:00:00Z"}}},
				{"sha": "c3", "author": nil, "commit": map[string]any{"author": map[string]string{"name": "Late", "date": until.Format(time.RFC3339)}}},
			})
		}))
		defer srv.Close()

		commits, err := NewGitHub(newTestClient(t, srv, nil)).ListCommits(context.Background(), "acme/api", since, until)
		require.NoError(t, err)
		require.Len(t, commits, 2)
		require.Equal(t, "octo", commits[0].AuthorLogin)
		require.Empty(t, commits[1].AuthorLogin)
		require.Equal(t, "Bot", commits[1].AuthorName)
	})

	t.Run("empty repository", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusConflict, map[string]string{"message": "Git Repository is empty."})
		}))
		defer srv.Close()

		commits, err := NewGitHub(newTestClient(t, srv, nil)).ListCommits(context.Background(), "acme/empty", since, until)
		require.NoError(t, err)
		require.Empty(t, commits)
	})
}

func TestGitHubListReviewsSkipsPending(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/repos/acme/api/pulls/7/reviews", r.URL.Path)
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": 1, "user": map[string]string{"login": "rev"}, "state": "APPROVED", "submitted_at": "2026-10-13T00:00:00Z"},
			{"id": 2, "user": map[string]string{"login": "draft"}, "state": "PENDING"},
		})
	}))
	defer srv.Close()

	reviews, err := NewGitHub(newTestClient(t, srv, nil)).ListReviews(context.Background(), "acme/api", 7)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	require.Equal(t, "rev", reviews[0].Reviewer)
}

func TestGitHubListReviewsPages(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := githubPerPage
		if r.URL.Query().Get("page") == "2" {
			n = 5
		}
		batch := make([]map[string]any, n)
		for i := range batch {
			batch[i] = map[string]any{"id": i, "user": map[string]string{"login": "rev"}, "state": "COMMENTED", "submitted_at": "2026-10-13T00:00:00Z"}
		}
		writeJSON(w, http.StatusOK, batch)
	}))
	defer srv.Close()

	reviews, err := NewGitHub(newTestClient(t, srv, nil)).ListReviews(context.Background(), "acme/api", 7)
	require.NoError(t, err)
	require.Len(t, reviews, githubPerPage+5)
}

func TestValidRepo(t *testing.T) {
	t.Parallel()

	require.True(t, ValidRepo("acme/api"))
	for _, s := range []string{"", "acme", "/api", "acme/", "acme/api/extra", "a cme/api"} {
		require.False(t, ValidRepo(s), s)
	}
}

func TestJiraSearchIssuesWithAPIToken(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rest/api/3/search/jql", r.URL.Path)
		require.Equal(t, AssignedOpenJQL, r.URL.Query().Get("jql"))
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "me@acme.io", user)
		require.Equal(t, "api-token", pass)
		writeJSON(w, http.StatusOK, map[string]any{
			"issues": []map[string]any{{
				"key": "ENG-1",
				"fields": map[string]any{
					"summary":  "Ship it",
					"status":   map[string]string{"name": "In Progress"},
					"priority": map[string]string{"name": "High"},
					"duedate":  "2026-10-20",
				},
			}},
		})
	}))
	defer srv.Close()

	f := NewFactory(nil, URLs{}, "")
	f.HTTPClient = srv.Client()
	jira, err := f.Jira(context.Background(), domain.AuthPAT, domain.Credentials{SiteURL: srv.URL, Email: "me@acme.io", AccessToken: "api-token"}, nil)
	require.NoError(t, err)

	issues, err := jira.SearchIssues(context.Background(), AssignedOpenJQL, 10)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	require.Equal(t, srv.URL+"/browse/ENG-1", issues[0].URL)
	require.Equal(t, "High", issues[0].Priority)
	require.NotNil(t, issues[0].DueAt)
}

func TestJiraOAuthRequiresCloudID(t *testing.T) {
	t.Parallel()

	_, err := NewFactory(nil, URLs{}, "").Jira(context.Background(), domain.AuthOAuth, domain.Credentials{AccessToken: "x"}, nil)
	require.ErrorIs(t, err, ErrNotConnected)
}

func TestAssignedJQL(t *testing.T) {
	t.Parallel()

	require.Equal(t, AssignedOpenJQL, AssignedJQL(nil))
	require.Equal(t, `project in ("ENG", "OPS") AND `+AssignedOpenJQL, AssignedJQL([]string{"ENG", "OPS"}))
}

func TestNormalizeSiteURL(t *testing.T) {
	t.Parallel()

	got, ok := NormalizeSiteURL("acme.atlassian.net/")
	require.True(t, ok)
	require.Equal(t, "https://acme.atlassian.net", got)

	_, ok = NormalizeSiteURL("")
	require.False(t, ok)
	_, ok = NormalizeSiteURL("ftp://acme")
	require.False(t, ok)
}

func TestJiraSites(t *testing.T) {
	t.Parallel()

	cloud := JiraSites{}
	site, ok := cloud.Normalize("Acme.atlassian.net")
	require.True(t, ok)
	require.Equal(t, "https://acme.atlassian.net", site)
	_, ok = cloud.Normalize("https://acme.jira.com/")
	require.True(t, ok)

	for _, raw := range []string{
		"http://169.254.169.254",
		"http://localhost:8080",
		"https://127.0.0.1",
		"http://acme.atlassian.net",
		"https://acme.atlassian.net:8443",
		"https://atlassian.net.evil.example",
		"https://evilatlassian.net",
		"https://user@acme.atlassian.net",
	} {
		_, ok := cloud.Normalize(raw)
		require.False(t, ok, "site %q", raw)
	}

	self := NewJiraSites([]string{"*.corp.example", "jira.lan.example", "http://jira.internal:8080/"})
	_, ok = self.Normalize("https://jira.eu.corp.example")
	require.True(t, ok)
	_, ok = self.Normalize("jira.lan.example")
	require.True(t, ok)
	site, ok = self.Normalize("http://jira.internal:8080")
	require.True(t, ok)
	require.Equal(t, "http://jira.internal:8080", site)
	_, ok = self.Normalize("http://jira.internal:9090")
	require.False(t, ok, "origins match exactly")
	_, ok = self.Normalize("http://jira.lan.example")
	require.False(t, ok, "host entries are https only")
}

func TestDriveRecentFiles(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/files", r.URL.Path)
		require.Contains(t, r.URL.Query().Get("q"), "trashed = false")
		require.Equal(t, "modifiedTime desc", r.URL.Query().Get("orderBy"))
		writeJSON(w, http.StatusOK, map[string]any{
			"files": []map[string]any{{
				"id": "f1", "name": "Roadmap", "mimeType": "application/vnd.google-apps.document",
				"webViewLink": "https://docs.google.com/d/f1", "modifiedTime": "2026-10-19T07:00:00Z",
				"lastModifyingUser": map[string]string{"displayName": "Ann"},
			}},
		})
	}))
	defer srv.Close()

	files, err := NewDrive(newTestClient(t, srv, nil), "").RecentFiles(context.Background(), time.Now().Add(-24*time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, "Ann", files[0].ModifiedBy)
}

func TestNylasMessagesAndEvents(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer nyk_key", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/v3/grants/g-1/messages":
			require.Equal(t, "true", r.URL.Query().Get("unread"))
			writeJSON(w, http.StatusOK, map[string]any{"data": []map[string]any{{
				"id": "m1", "subject": "Hello", "snippet": "hi", "date": 1760860800,
				"from": []map[string]string{{"name": "Bob", "email": "bob@acme.io"}},
			}}})
		case "/v3/grants/g-1/events":
			require.Equal(t, "primary", r.URL.Query().Get("calendar_id"))
			writeJSON(w, http.StatusOK, map[string]any{"data": []map[string]any{
				{"id": "e1", "title": "Standup", "participants": []map[string]string{{"email": "a@acme.io"}, {"email": "b@acme.io"}},
					"when": map[string]any{"start_time": 1760864400, "end_time": 1760866200}},
				{"id": "e2", "title": "Offsite", "when": map[string]any{"date": "2026-10-19"}},
				{"id": "e3", "title": "Gone", "status": "cancelled", "when": map[string]any{"start_time": 1, "end_time": 2}},
			}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewFactory(nil, URLs{NylasAPI: srv.URL}, "nyk_key")
	f.HTTPClient = srv.Client()
	n, err := f.Nylas(domain.Credentials{GrantID: "g-1"})
	require.NoError(t, err)

	msgs, err := n.UnreadMessages(context.Background(), "g-1", 5)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, "Bob <bob@acme.io>", msgs[0].From)

	day := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	events, err := n.EventsBetween(context.Background(), "g-1", day, day.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, 2, events[0].Participants)
	require.Equal(t, day, events[1].StartsAt)

	_, err = f.Nylas(domain.Credentials{})
	require.ErrorIs(t, err, ErrNotConnected)
}

func TestTokenSourcePersistsRefreshedToken(t *testing.T) {
	t.Parallel()

	var refreshes atomic.Int32
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		require.Equal(t, "r-1", r.PostForm.Get("refresh_token"))
		refreshes.Add(1)
		writeJSON(w, http.StatusOK, map[string]any{"access_token": "a-2", "token_type": "Bearer", "expires_in": 3600})
	}))
	defer tokenSrv.Close()

	cfg := &oauth2.Config{ClientID: "id", ClientSecret: "secret", Endpoint: oauth2.Endpoint{TokenURL: tokenSrv.URL, AuthStyle: oauth2.AuthStyleInParams}}
	stale := domain.Credentials{AccessToken: "a-1", RefreshToken: "r-1", Expiry: time.Now().Add(-time.Hour), SiteURL: "https://acme.atlassian.net"}

	var saved []domain.Credentials
	save := func(_ context.Context, c domain.Credentials) error {
		saved = append(saved, c)
		return nil
	}

	ctx := WithHTTPClient(context.Background(), tokenSrv.Client())
	ts := TokenSource(ctx, cfg, stale, save)

	tok, err := ts.Token()
	require.NoError(t, err)
	require.Equal(t, "a-2", tok.AccessToken)

	_, err = ts.Token()
	require.NoError(t, err)

	require.EqualValues(t, 1, refreshes.Load())
	require.Len(t, saved, 1)
	require.Equal(t, "a-2", saved[0].AccessToken)
	require.Equal(t, "r-1", saved[0].RefreshToken, "refresh token kept when not rotated")
	require.Equal(t, "https://acme.atlassian.net", saved[0].SiteURL)
	require.True(t, saved[0].Expiry.After(time.Now()))
}

func TestTokenSourceRefreshFailureIsPermanent(t *testing.T) {
	t.Parallel()

	var refreshes, apiCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/token" {
			refreshes.Add(1)
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_grant"})
			return
		}
		apiCalls.Add(1)
		writeJSON(w, http.StatusOK, map[string]string{})
	}))
	defer srv.Close()

	reg := &OAuthRegistry{apps: map[domain.Provider]*OAuthApp{}}
	reg.Register(&OAuthApp{Slug: SlugGoogleDrive, Provider: domain.ProviderGoogleDrive, Config: &oauth2.Config{
		ClientID: "id", ClientSecret: "s", Endpoint: oauth2.Endpoint{TokenURL: srv.URL + "/token", AuthStyle: oauth2.AuthStyleInParams},
	}})
	f := NewFactory(reg, URLs{GoogleDriveAPI: srv.URL}, "")
	f.HTTPClient = srv.Client()

	drive := f.Drive(context.Background(), domain.Credentials{AccessToken: "old", RefreshToken: "revoked", Expiry: time.Now().Add(-time.Minute)}, nil)
	_, err := drive.RecentFiles(context.Background(), time.Now(), 5)
	require.ErrorIs(t, err, ErrTokenRefresh)
	require.EqualValues(t, 0, apiCalls.Load())
}

func TestOAuthRegistry(t *testing.T) {
	t.Parallel()

	reg := NewOAuthRegistry(OAuthSettings{
		BaseURL:            "https://intel.acme.io/",
		GitHubClientID:     "gh",
		GitHubClientSecret: "gh-secret",
		GoogleClientID:     "g",
		GoogleClientSecret: "g-secret",
		NylasClientID:      "n",
		NylasAPIKey:        "nyk",
		NylasAPIURI:        "https://api.eu.nylas.com",
	})

	require.True(t, reg.Configured(domain.ProviderGitHub))
	require.False(t, reg.Configured(domain.ProviderJira))

	gh, _ := reg.App(domain.ProviderGitHub)
	require.Equal(t, "https://intel.acme.io/api/integrations/github/callback", gh.Config.RedirectURL)

	google, _ := reg.App(domain.ProviderGoogleDrive)
	authURL := google.AuthCodeURL("st")
	require.Contains(t, authURL, "access_type=offline")
	require.Contains(t, authURL, "prompt=consent")
	require.Contains(t, authURL, "state=st")

	nylas, _ := reg.App(domain.ProviderNylas)
	require.True(t, strings.HasPrefix(nylas.AuthCodeURL("st"), "https://api.eu.nylas.com/v3/connect/auth?"))

	p, ok := ProviderForSlug("atlassian")
	require.True(t, ok)
	require.Equal(t, domain.ProviderJira, p)
	require.Equal(t, "google-drive", SlugFor(domain.ProviderGoogleDrive))
	_, ok = ProviderForSlug("gitlab")
	require.False(t, ok)

	var nilReg *OAuthRegistry
	require.False(t, nilReg.Configured(domain.ProviderGitHub))
}

func TestTokenExtra(t *testing.T) {
	t.Parallel()

	tok := (&oauth2.Token{AccessToken: "a"}).WithExtra(map[string]any{"grant_id": "g-9", "email": "me@acme.io"})
	require.Equal(t, "g-9", TokenExtra(tok, "grant_id"))
	require.Empty(t, TokenExtra(tok, "missing"))
	require.Empty(t, TokenExtra(nil, "grant_id"))
}
