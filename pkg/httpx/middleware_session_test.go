package httpx_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/workintel/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func resolverFor(valid string) httpx.SessionResolver {
	return func(_ context.Context, token string) (httpx.Principal, error) {
		if token != valid {
			return httpx.Principal{}, errors.New("unknown session")
		}
		return httpx.Principal{UserID: "user-1", Email: "a@example.com"}, nil
	}
}

func TestSessionMiddleware(t *testing.T) {
	var seen httpx.Principal
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = httpx.PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	h := httpx.SessionMiddleware(resolverFor("good"))(inner)

	t.Run("api request without cookie is 401", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/teams", nil))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "unauthorized")
	})

	t.Run("page request redirects to login", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/settings?tab=tools", nil))

		require.Equal(t, http.StatusFound, rec.Code)
		require.Equal(t, "/login?next=%2Fsettings%3Ftab%3Dtools", rec.Header().Get("Location"))
	})

	t.Run("unknown token is 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/teams", nil)
		req.AddCookie(&http.Cookie{Name: httpx.SessionCookieName, Value: "bad"})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token reaches handler with principal", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/teams", nil)
		req.AddCookie(&http.Cookie{Name: httpx.SessionCookieName, Value: "good"})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, "user-1", seen.UserID)
	})
}

func TestOptionalSession(t *testing.T) {
	var signedIn bool
	h := httpx.OptionalSession(resolverFor("good"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, signedIn = httpx.PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	for _, tc := range []struct {
		cookie string
		want   bool
	}{{"", false}, {"bad", false}, {"good", true}} {
		req := httptest.NewRequest(http.MethodGet, "/invite/abc", nil)
		if tc.cookie != "" {
			req.AddCookie(&http.Cookie{Name: httpx.SessionCookieName, Value: tc.cookie})
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, tc.want, signedIn, "cookie %q", tc.cookie)
	}
}

func TestCookieOptions(t *testing.T) {
	rec := httptest.NewRecorder()
	httpx.CookieOptions{Secure: true}.SetCookie(rec, "c", "v", time.Hour)

	res := rec.Result()
	defer res.Body.Close()
	cookies := res.Cookies()
	require.Len(t, cookies, 1)
	require.True(t, cookies[0].HttpOnly)
	require.True(t, cookies[0].Secure)
	require.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	require.Equal(t, 3600, cookies[0].MaxAge)

	rec = httptest.NewRecorder()
	httpx.CookieOptions{}.ClearCookie(rec, "c")
	res = rec.Result()
	defer res.Body.Close()
	require.Equal(t, -1, res.Cookies()[0].MaxAge)
}

func TestSafeNext(t *testing.T) {
	require.Equal(t, "/teams/1", httpx.SafeNext("/teams/1"))
	require.Equal(t, "/", httpx.SafeNext("https://evil.example"))
	require.Equal(t, "/", httpx.SafeNext("//evil.example"))
	require.Equal(t, "/", httpx.SafeNext(""))
	require.Equal(t, "/teams/1?tab=reports", httpx.SafeNext("/teams/1?tab=reports"))

	// Tabs and newlines are stripped by browsers, backslashes become slashes.
	for _, next := range []string{"/\t/evil.example", "/\n/evil.example", "/\r\n/evil.example", "/\\evil.example", "/x\\..\\\\evil.example", "/\x7f/evil.example"} {
		require.Equal(t, "/", httpx.SafeNext(next), "next=%q", next)
	}
}

func TestSplitList(t *testing.T) {
	require.Equal(t, []string{"acme/api", "acme/web"}, httpx.SplitList(" acme/api, acme/web ,"))
	require.Nil(t, httpx.SplitList("  "))
}
