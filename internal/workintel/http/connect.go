package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/aussiebroadwan/workintel/internal/workintel/service"
	"github.com/aussiebroadwan/workintel/pkg/httpx"
	"github.com/aussiebroadwan/workintel/pkg/idx"
	"github.com/aussiebroadwan/workintel/pkg/slogx"
)

// ConnectHandler runs the browser side of the OAuth flows. It never
// answers JSON: every outcome is a redirect to the settings page (or the
// team page for team connects) with ?connected= or ?error=.
type ConnectHandler struct {
	ConnectService *service.ConnectService
	BaseURL        string
}

func (h *ConnectHandler) returnTo(teamID string) string {
	base := strings.TrimSuffix(h.BaseURL, "/")
	if teamID != "" {
		return base + "/teams/" + url.PathEscape(teamID)
	}
	return base + "/settings"
}

// HandleConnect handles GET /api/integrations/{provider}/connect
//
//	@Summary		Start an OAuth connection
//	@Description	Redirects to the provider's consent screen with a signed state valid for 10 minutes.
//	@Description	With team_id the integration is connected for that team (admins only; GitHub and Atlassian).
//	@Tags			OAuth
//	@Param			provider	path	string	true	"github, atlassian, google-drive or nylas"
//	@Param			team_id		query	string	false	"Team to connect for"
//	@Success		302
//	@Security		SessionCookie
//	@Router			/api/integrations/{provider}/connect [get]
func (h *ConnectHandler) HandleConnect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := r.PathValue("provider")

	teamID := r.URL.Query().Get("team_id")
	if teamID != "" && !idx.Valid(teamID) {
		httpx.RedirectWithParam(w, r, h.returnTo(""), "error", "invalid_request")
		return
	}

	target, err := h.ConnectService.Begin(ctx, httpx.UserIDFromContext(ctx), slug, teamID)
	if err != nil {
		slogx.FromContext(ctx).Info("oauth connect refused", slog.String("provider", slug), slog.Any("error", err))
		httpx.RedirectWithParam(w, r, h.returnTo(teamID), "error", redirectCode(err, "server_error"))
		return
	}

	http.Redirect(w, r, target, http.StatusFound)
}

// HandleCallback handles GET /api/integrations/{provider}/callback
//
//	@Summary		OAuth callback
//	@Description	Verifies state, exchanges the code and stores the credentials, then redirects with ?connected={provider}.
//	@Description	Errors redirect with ?error=invalid_state|access_denied|exchange_failed|no_jira_site|provider_not_configured.
//	@Tags			OAuth
//	@Param			provider	path	string	true	"github, atlassian, google-drive or nylas"
//	@Param			code		query	string	false	"Authorization code"
//	@Param			state		query	string	true	"State from the connect redirect"
//	@Param			error		query	string	false	"Set by the provider when consent was declined"
//	@Success		302
//	@Security		SessionCookie
//	@Router			/api/integrations/{provider}/callback [get]
func (h *ConnectHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := r.PathValue("provider")
	q := r.URL.Query()

	// The team id decides where to send the browser, so read it before
	// anything else can fail. A bad state falls back to /settings.
	var teamID string
	if claims, err := h.ConnectService.ReadState(slug, q.Get("state")); err == nil {
		teamID = claims.TeamID
	}
	returnTo := h.returnTo(teamID)

	res, err := h.ConnectService.Complete(ctx, httpx.UserIDFromContext(ctx), slug, q.Get("code"), q.Get("state"), q.Get("error"))
	if err != nil {
		httpx.RedirectWithParam(w, r, returnTo, "error", redirectCode(err, "exchange_failed"))
		return
	}

	httpx.RedirectWithParam(w, r, h.returnTo(res.TeamID), "connected", res.Slug)
}
