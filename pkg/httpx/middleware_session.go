package httpx

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aussiebroadwan/workintel/pkg/slogx"
)

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "work_intel_session"

// SessionResolver maps a raw session token to its user. Any error is
// treated as "not signed in".
type SessionResolver func(ctx context.Context, token string) (Principal, error)

// SessionMiddleware requires a valid session cookie. API requests (paths
// under /api/) without one get a 401 JSON body; page requests are sent to
// /login with the original path in ?next=.
func SessionMiddleware(resolve SessionResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			token := SessionToken(r)
			if token == "" {
				rejectUnauthenticated(w, r)
				return
			}

			p, err := resolve(ctx, token)
			if err != nil {
				log.Debug("session rejected", "err", err)
				rejectUnauthenticated(w, r)
				return
			}

			ctx = WithPrincipal(ctx, p)
			ctx = slogx.WithContext(ctx, log.With("user_id", p.UserID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalSession attaches the principal when the cookie is valid and lets
// every request through. Used by public pages that behave differently for
// signed-in users (/login, /invite/{token}).
func OptionalSession(resolve SessionResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := SessionToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			p, err := resolve(r.Context(), token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// SessionToken returns the session cookie value, if any.
func SessionToken(r *http.Request) string {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(c.Value)
}

// IsAPIRequest reports whether r targets the JSON API rather than a page.
func IsAPIRequest(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/")
}

func rejectUnauthenticated(w http.ResponseWriter, r *http.Request) {
	if IsAPIRequest(r) {
		WriteJSON(w, http.StatusUnauthorized, map[string]string{
			"error":             "unauthorized",
			"error_description": "sign in required",
		})
		return
	}
	http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
}

// CookieOptions controls the Secure flag for cookies the service sets.
type CookieOptions struct {
	Secure bool
}

// SetCookie writes an HttpOnly, SameSite=Lax cookie scoped to "/".
func (o CookieOptions) SetCookie(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires a cookie previously set with SetCookie.
func (o CookieOptions) ClearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
