package http

import (
	"net/http"

	"github.com/aussiebroadwan/workintel/internal/workintel/domain"
	"github.com/aussiebroadwan/workintel/internal/workintel/provider"
	"github.com/aussiebroadwan/workintel/internal/workintel/service"
	"github.com/aussiebroadwan/workintel/pkg/httpx"
	sdk "github.com/aussiebroadwan/workintel/pkg/workintelsdk"
)

// IntegrationsHandler manages stored integrations: team tokens and config,
// disconnects, and the tools overview.
type IntegrationsHandler struct {
	IntegrationService *service.IntegrationService
}

// providerParam accepts a route slug (google-drive, atlassian) or a
// provider name (google_drive, jira).
func providerParam(w http.ResponseWriter, r *http.Request) (domain.Provider, bool) {
	raw := r.PathValue("provider")
	if p, ok := provider.ProviderForSlug(raw); ok {
		return p, true
	}
	if p := domain.Provider(raw); p.Valid() {
		return p, true
	}
	writeServiceError(w, r, service.ErrInvalidProvider, "parse provider")
	return "", false
}

// HandleListTeam handles GET /api/teams/{teamID}/integrations
//
//	@Summary		Team integrations
//	@Description	Visible to every member. Credentials are never returned.
//	@Tags			Integrations
//	@Produce		json
//	@Param			teamID	path		string	true	"Team ID"
//	@Success		200		{object}	workintelsdk.TeamIntegrationListResponse
//	@Failure		404		{object}	workintelsdk.ErrorResponse
//	@Security		SessionCookie
//	@Router			/api/teams/{teamID}/integrations [get]
func (h *IntegrationsHandler) HandleListTeam(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(w, r, "teamID")
	if !ok {
		return
	}

	views, err := h.IntegrationService.ListTeamIntegrations(r.Context(), httpx.UserIDFromContext(r.Context()), teamID)
	if err != nil {
		writeServiceError(w, r, err, "list team integrations")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sdk.TeamIntegrationListResponse{Integrations: mapSlice(views, toIntegration)})
}

// HandleGitHubToken handles POST /api/teams/{teamID}/integrations/github/token
//
//	@Summary		Connect GitHub with a personal access token
//	@Description	The token is checked against GitHub before it is stored encrypted.
//	@Tags			Integrations
//	@Accept			json
//	@Produce		json
//	@Param			teamID	path		string							true	"Team ID"
//	@Param			request	body		workintelsdk.GitHubTokenRequest	true	"token, repos (owner/name)"
//	@Success		200		{object}	workintelsdk.TeamIntegrationResponse
//	@Failure		400		{object}	workintelsdk.ErrorResponse	"invalid_token, invalid repo"
//	@Failure		403		{object}	workintelsdk.ErrorResponse	"admin only"
//	@Failure		404		{object}	workintelsdk.ErrorResponse
//	@Security		SessionCookie
//	@Router			/api/teams/{teamID}/integrations/github/token [post]
func (h *IntegrationsHandler) HandleGitHubToken(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(w, r, "teamID")
	if !ok {
		return
	}

	var req sdk.GitHubTokenRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadJSON(w, err)
		return
	}

	view, err := h.IntegrationService.ConnectGitHubToken(r.Context(), httpx.UserIDFromContext(r.Context()), teamID, req.Token, req.Repos)
	if err != nil {
		writeServiceError(w, r, err, "connect github token")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toIntegration(view))
}

// HandleJiraToken handles POST /api/teams/{teamID}/integrations/jira/token
//
//	@Summary		Connect Jira with an API token
//	@Description	Verified with /rest/api/3/myself on the given site using basic auth. The site must be https Jira Cloud (*.atlassian.net, *.jira.com) or listed in WORKINTEL_JIRA_ALLOWED_SITES.
//	@Tags			Integrations
//	@Accept			json
//	@Produce		json
//	@Param			teamID	path		string							true	"Team ID"
//	@Param			request	body		workintelsdk.JiraTokenRequest	true	"site_url, email, api_token, project_keys"
//	@Success		200		{object}	workintelsdk.TeamIntegrationResponse
//	@Failure		400		{object}	workintelsdk.ErrorResponse	"invalid_token, invalid site"
//	@Failure		403		{object}	workintelsdk.ErrorResponse	"admin only"
//	@Failure		404		{object}	workintelsdk.ErrorResponse
//	@Security		SessionCookie
//	@Router			/api/teams/{teamID}/integrations/jira/token [post]
func (h *IntegrationsHandler) HandleJiraToken(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(w, r, "teamID")
	if !ok {
		return
	}

	var req sdk.JiraTokenRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadJSON(w, err)
		return
	}

	view, err := h.IntegrationService.ConnectJiraToken(r.Context(), httpx.UserIDFromContext(r.Context()),
		teamID, req.SiteURL, req.Email, req.APIToken, req.ProjectKeys)
	if err != nil {
		writeServiceError(w, r, err, "connect jira token")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toIntegration(view))
}

// HandleUpdateConfig handles PUT /api/teams/{teamID}/integrations/{provider}/config
//
//	@Summary		Set repos or project keys
//	@Tags			Integrations
//	@Accept			json
//	@Produce		json
//	@Param			teamID		path		string									true	"Team ID"
//	@Param			provider	path		string									true	"github or jira"
//	@Param			request		body		workintelsdk.IntegrationConfigRequest	true	"repos, project_keys"
//	@Success		200			{object}	workintelsdk.TeamIntegrationResponse
//	@Failure		400			{object}	workintelsdk.ErrorResponse
//	@Failure		403			{object}	workintelsdk.ErrorResponse	"admin only"
//	@Failure		404			{object}	workintelsdk.ErrorResponse	"not connected"
//	@Security		SessionCookie
//	@Router			/api/teams/{teamID}/integrations/{provider}/config [put]
func (h *IntegrationsHandler) HandleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(w, r, "teamID")
	if !ok {
		return
	}
	p, ok := providerParam(w, r)
	if !ok {
		return
	}

	var req sdk.IntegrationConfigRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadJSON(w, err)
		return
	}

	view, err := h.IntegrationService.UpdateTeamConfig(r.Context(), httpx.UserIDFromContext(r.Context()), teamID, p, req.Repos, req.ProjectKeys)
	if err != nil {
		writeServiceError(w, r, err, "update integration config")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toIntegration(view))
}

// HandleDisconnectTeam handles DELETE /api/teams/{teamID}/integrations/{provider}
//
//	@Summary		Disconnect a team integration
//	@Tags			Integrations
//	@Param			teamID		path	string	true	"Team ID"
//	@Param			provider	path	string	true	"github or jira"
//	@Success		204
//	@Failure		403	{object}	workintelsdk.ErrorResponse	"admin only"
//	@Failure		404	{object}	workintelsdk.ErrorResponse	"not connected"
//	@Security		SessionCookie
//	@Router			/api/teams/{teamID}/integrations/{provider} [delete]
func (h *IntegrationsHandler) HandleDisconnectTeam(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(w, r, "teamID")
	if !ok {
		return
	}
	p, ok := providerParam(w, r)
	if !ok {
		return
	}

	if err := h.IntegrationService.DisconnectTeam(r.Context(), httpx.UserIDFromContext(r.Context()), teamID, p); err != nil {
		writeServiceError(w, r, err, "disconnect team integration")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDisconnectUser handles DELETE /api/integrations/{provider}
//
//	@Summary		Disconnect my integration
//	@Tags			Integrations
//	@Param			provider	path	string	true	"github, atlassian, google-drive or nylas"
//	@Success		204
//	@Failure		404	{object}	workintelsdk.ErrorResponse	"not connected"
//	@Security		SessionCookie
//	@Router			/api/integrations/{provider} [delete]
func (h *IntegrationsHandler) HandleDisconnectUser(w http.ResponseWriter, r *http.Request) {
	p, ok := providerParam(w, r)
	if !ok {
		return
	}

	if err := h.IntegrationService.DisconnectUser(r.Context(), httpx.UserIDFromContext(r.Context()), p); err != nil {
		writeServiceError(w, r, err, "disconnect user integration")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleTools handles GET /api/tools
//
//	@Summary		Provider availability
//	@Description	One entry per provider: whether an OAuth app is configured and whether the caller (or one of their teams) is connected.
//	@Tags			Integrations
//	@Produce		json
//	@Success		200	{object}	workintelsdk.ToolsResponse
//	@Security		SessionCookie
//	@Router			/api/tools [get]
func (h *IntegrationsHandler) HandleTools(w http.ResponseWriter, r *http.Request) {
	tools, err := h.IntegrationService.Tools(r.Context(), httpx.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, "list tools")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sdk.ToolsResponse{Tools: mapSlice(tools, toTool)})
}
