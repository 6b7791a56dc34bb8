package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/workintel/internal/workintel/domain"
	"github.com/aussiebroadwan/workintel/internal/workintel/provider"
	"github.com/stretchr/testify/require"
)

// briefFixture connects ann to Nylas (mail works, calendar is revoked) and
// a team GitHub token with one review request.
func briefFixture(t *testing.T) (*testEnv, domain.User, *atomic.Int32) {
	e := newTestEnv(t)
	ann := e.signup("ann@example.com")
	team := e.team(ann)
	e.connectTeamGitHub(team, ann, "acme/api")

	require.NoError(t, e.integrations.upsertUser(e.ctx, domain.UserIntegration{
		UserID:      ann.ID,
		Provider:    domain.ProviderNylas,
		Credentials: domain.Credentials{AccessToken: "n", GrantID: "grant-1"},
	}))

	var searches atomic.Int32
	e.mux.HandleFunc("GET /github/search/issues", func(w http.ResponseWriter, r *http.Request) {
		searches.Add(1)
		items := []map[string]any{}
		if strings.Contains(r.URL.Query().Get("q"), "review-requested:@me") {
			items = append(items, map[string]any{
				"number":         7,
				"title":          "Fix login",
				"html_url":       "https://github.com/acme/api/pull/7",
				"state":          "open",
				"user":           map[string]string{"login": "benhub"},
				"updated_at":     "2026-10-18T10:00:00Z",
				"repository_url": "https://api.github.com/repos/acme/api",
			})
		}
		writeTestJSON(w, http.StatusOK, map[string]any{"items": items})
	})
	e.mux.HandleFunc("GET /nylas/v3/grants/grant-1/messages", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer nyk_test" {
			writeTestJSON(w, http.StatusUnauthorized, map[string]string{})
			return
		}
		writeTestJSON(w, http.StatusOK, map[string]any{"data": []map[string]any{{
			"id":      "m1",
			"subject": "Quarterly plan",
			"snippet": "Draft attached",
			"from":    []map[string]string{{"name": "Ben", "email": "ben@example.com"}},
			"date":    time.Date(2026, 10, 19, 7, 30, 0, 0, time.UTC).Unix(),
		}}})
	})
	e.handle("GET /nylas/v3/grants/grant-1/events", http.StatusUnauthorized, map[string]any{
		"error": map[string]string{"type": "unauthorized", "message": "grant revoked"},
	})
	return e, ann, &searches
}

func TestBriefCollectsSourcesAndWarnings(t *testing.T) {
	e, ann, _ := briefFixture(t)

	b, err := e.briefs.Generate(e.ctx, ann.ID, BriefOptions{Location: time.UTC})
	require.NoError(t, err)

	require.Equal(t, "2026-10-19", b.Date)
	require.False(t, b.Cached)

	require.Len(t, b.Emails, 1)
	require.Equal(t, "Ben <ben@example.com>", b.Emails[0].From)

	require.Len(t, b.PullRequests, 1)
	require.Equal(t, domain.PRRoleReviewRequested, b.PullRequests[0].Role)
	require.Equal(t, "acme/api", b.PullRequests[0].Repo)

	require.Empty(t, b.Meetings)
	require.Empty(t, b.JiraTasks, "jira is not connected and is not a warning")
	require.Equal(t, []string{"calendar: unavailable (access revoked, reconnect required)"}, b.Warnings)

	require.Contains(t, b.Summary, "1 pull request waiting for your review")
	require.Contains(t, b.Summary, "acme/api#7: Fix login")
}

func TestBriefCacheAndRefresh(t *testing.T) {
	e, ann, searches := briefFixture(t)
	opts := BriefOptions{Location: time.UTC}

	_, err := e.briefs.Generate(e.ctx, ann.ID, opts)
	require.NoError(t, err)
	require.EqualValues(t, 2, searches.Load())

	b, err := e.briefs.Generate(e.ctx, ann.ID, opts)
	require.NoError(t, err)
	require.True(t, b.Cached)
	require.EqualValues(t, 2, searches.Load())

	b, err = e.briefs.Generate(e.ctx, ann.ID, BriefOptions{Location: time.UTC, Refresh: true})
	require.NoError(t, err)
	require.False(t, b.Cached)
	require.EqualValues(t, 4, searches.Load())

	e.advance(2 * time.Minute) // past the one minute test TTL
	b, err = e.briefs.Generate(e.ctx, ann.ID, opts)
	require.NoError(t, err)
	require.False(t, b.Cached)

	require.Equal(t, 1, e.briefs.Cache.DeleteUser(ann.ID))
	b, err = e.briefs.Generate(e.ctx, ann.ID, opts)
	require.NoError(t, err)
	require.False(t, b.Cached)
}

func TestBriefCacheDeleteUser(t *testing.T) {
	c := NewBriefCache(time.Minute)
	now := time.Now()
	sydney := time.FixedZone("AEST", 10*60*60)

	c.Put(briefKeyPrefix("ann")+time.UTC.String(), domain.Brief{}, now)
	c.Put(briefKeyPrefix("ann")+sydney.String(), domain.Brief{}, now)
	c.Put(briefKeyPrefix("anne")+time.UTC.String(), domain.Brief{}, now)

	require.Equal(t, 2, c.DeleteUser("ann"))
	require.Equal(t, 1, c.Len())
	_, ok := c.Get(briefKeyPrefix("anne")+time.UTC.String(), now)
	require.True(t, ok)
	require.Zero(t, c.DeleteUser("ann"))
}

func TestBriefCacheClearedWhenIntegrationsChange(t *testing.T) {
	t.Run("user disconnect", func(t *testing.T) {
		e, ann, _ := briefFixture(t)
		opts := BriefOptions{Location: time.UTC}

		_, err := e.briefs.Generate(e.ctx, ann.ID, opts)
		require.NoError(t, err)
		require.NoError(t, e.integrations.DisconnectUser(e.ctx, ann.ID, domain.ProviderNylas))

		b, err := e.briefs.Generate(e.ctx, ann.ID, opts)
		require.NoError(t, err)
		require.False(t, b.Cached)
		require.Empty(t, b.Emails)
	})

	t.Run("team change reaches every member", func(t *testing.T) {
		e, ann, _ := briefFixture(t)
		teams, err := e.teams.ListTeams(e.ctx, ann.ID)
		require.NoError(t, err)
		require.Len(t, teams, 1)
		bob := e.signup("bob@example.com")
		e.join(teams[0].Team, ann, bob, domain.RoleMember)

		sydney := time.FixedZone("AEST", 10*60*60)
		for _, opts := range []BriefOptions{{Location: time.UTC}, {Location: sydney}} {
			_, err := e.briefs.Generate(e.ctx, ann.ID, opts)
			require.NoError(t, err)
		}
		_, err = e.briefs.Generate(e.ctx, bob.ID, BriefOptions{Location: time.UTC})
		require.NoError(t, err)
		require.Equal(t, 3, e.briefs.Cache.Len())

		_, err = e.integrations.UpdateTeamConfig(e.ctx, ann.ID, teams[0].ID, domain.ProviderGitHub, []string{"acme/web"}, nil)
		require.NoError(t, err)
		require.Zero(t, e.briefs.Cache.Len())

		b, err := e.briefs.Generate(e.ctx, bob.ID, BriefOptions{Location: time.UTC})
		require.NoError(t, err)
		require.False(t, b.Cached)
	})
}

func TestBriefWithNothingConnected(t *testing.T) {
	e := newTestEnv(t)
	ann := e.signup("ann@example.com")

	b, err := e.briefs.Generate(e.ctx, ann.ID, BriefOptions{})
	require.NoError(t, err)
	require.True(t, b.Empty())
	require.Empty(t, b.Warnings)
	require.NotNil(t, b.Emails)
	require.Contains(t, b.Summary, "Nothing needs your attention")
}

func TestWarningReason(t *testing.T) {
	cases := map[string]struct {
		err  error
		want string
	}{
		"refresh":       {provider.ErrTokenRefresh, "reconnect required"},
		"incomplete":    {provider.ErrNotConnected, "reconnect required"},
		"timeout":       {context.DeadlineExceeded, "timed out"},
		"revoked":       {&provider.APIError{StatusCode: http.StatusForbidden}, "access revoked, reconnect required"},
		"rate limited":  {&provider.APIError{StatusCode: http.StatusTooManyRequests}, "rate limited"},
		"server error":  {&provider.APIError{StatusCode: http.StatusBadGateway}, "status 502"},
		"anything else": {errors.New("dial tcp: refused"), "request failed"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, tc.want, warningReason(tc.err))
		})
	}
}

func TestBriefCacheSweep(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	c := NewBriefCache(time.Minute)
	c.Put("a", domain.Brief{UserID: "a"}, now)
	c.Put("b", domain.Brief{UserID: "b"}, now.Add(30*time.Second))

	_, ok := c.Get("a", now.Add(59*time.Second))
	require.True(t, ok)

	require.Equal(t, 1, c.Sweep(now.Add(time.Minute)))
	require.Equal(t, 1, c.Len())
	_, ok = c.Get("a", now)
	require.False(t, ok)
}
