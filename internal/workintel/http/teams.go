package http

import (
	"net/http"

	"github.com/aussiebroadwan/workintel/internal/workintel/domain"
	"github.com/aussiebroadwan/workintel/internal/workintel/service"
	"github.com/aussiebroadwan/workintel/pkg/httpx"
	sdk "github.com/aussiebroadwan/workintel/pkg/workintelsdk"
)

// TeamsHandler handles team and membership management.
type TeamsHandler struct {
	TeamService *service.TeamService
}

// HandleList handles GET /api/teams
//
//	@Summary		List my teams
//	@Tags			Teams
//	@Produce		json
//	@Success		200	{object}	workintelsdk.TeamListResponse
//	@Failure		401	{object}	workintelsdk.ErrorResponse
//	@Security		SessionCookie
//	@Router			/api/teams [get]
func (h *TeamsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	teams, err := h.TeamService.ListTeams(r.Context(), httpx.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, "list teams")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sdk.TeamListResponse{Teams: mapSlice(teams, toTeamWithRole)})
}

// HandleCreate handles POST /api/teams
//
//	@Summary		Create a team
//	@Description	The caller becomes the team's first admin.
//	@Tags			Teams
//	@Accept			json
//	@Produce		json
//	@Param			request	body		workintelsdk.CreateTeamRequest	true	"name"
//	@Success		201		{object}	workintelsdk.TeamResponse
//	@Failure		400		{object}	workintelsdk.ErrorResponse	"empty or too long name"
//	@Failure		401		{object}	workintelsdk.ErrorResponse
//	@Security		SessionCookie
//	@Router			/api/teams [post]
func (h *TeamsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req sdk.CreateTeamRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadJSON(w, err)
		return
	}

	team, err := h.TeamService.CreateTeam(r.Context(), httpx.UserIDFromContext(r.Context()), req.Name)
	if err != nil {
		writeServiceError(w, r, err, "create team")
		return
	}

	resp := toTeam(team)
	resp.Role = string(domain.RoleAdmin)
	resp.MemberCount = 1
	httpx.WriteJSON(w, http.StatusCreated, resp)
}

// HandleGet handles GET /api/teams/{teamID}
//
//	@Summary		Team with members
//	@Description	Non-members get 404 so team ids do not leak.
//	@Tags			Teams
//	@Produce		json
//	@Param			teamID	path		string	true	"Team ID"
//	@Success		200		{object}	workintelsdk.TeamDetailResponse
//	@Failure		404		{object}	workintelsdk.ErrorResponse
//	@Security		SessionCookie
//	@Router			/api/teams/{teamID} [get]
func (h *TeamsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(w, r, "teamID")
	if !ok {
		return
	}

	detail, err := h.TeamService.GetTeam(r.Context(), httpx.UserIDFromContext(r.Context()), teamID)
	if err != nil {
		writeServiceError(w, r, err, "get team")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTeamDetail(detail))
}

// HandleRename handles PATCH /api/teams/{teamID}
//
//	@Summary		Rename a team
//	@Tags			Teams
//	@Accept			json
//	@Produce		json
//	@Param			teamID	path		string							true	"Team ID"
//	@Param			request	body		workintelsdk.RenameTeamRequest	true	"name"
//	@Success		200		{object}	workintelsdk.TeamResponse
//	@Failure		400		{object}	workintelsdk.ErrorResponse
//	@Failure		403		{object}	workintelsdk.ErrorResponse	"admin only"
//	@Failure		404		{object}	workintelsdk.ErrorResponse
//	@Security		SessionCookie
//	@Router			/api/teams/{teamID} [patch]
func (h *TeamsHandler) HandleRename(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(w, r, "teamID")
	if !ok {
		return
	}

	var req sdk.RenameTeamRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadJSON(w, err)
		return
	}

	team, err := h.TeamService.RenameTeam(r.Context(), httpx.UserIDFromContext(r.Context()), teamID, req.Name)
	if err != nil {
		writeServiceError(w, r, err, "rename team")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTeam(team))
}

// HandleDelete handles DELETE /api/teams/{teamID}
//
//	@Summary		Delete a team
//	@Description	Removes the team with its members, invites, integrations and reports.
//	@Tags			Teams
//	@Param			teamID	path	string	true	"Team ID"
//	@Success		204
//	@Failure		403	{object}	workintelsdk.ErrorResponse	"admin only"
//	@Failure		404	{object}	workintelsdk.ErrorResponse
//	@Security		SessionCookie
//	@Router			/api/teams/{teamID} [delete]
func (h *TeamsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(w, r, "teamID")
	if !ok {
		return
	}

	if err := h.TeamService.DeleteTeam(r.Context(), httpx.UserIDFromContext(r.Context()), teamID); err != nil {
		writeServiceError(w, r, err, "delete team")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleUpdateMember handles PATCH /api/teams/{teamID}/members/{userID}
//
//	@Summary		Change a member's role
//	@Tags			Teams
//	@Accept			json
//	@Produce		json
//	@Param			teamID	path		string							true	"Team ID"
//	@Param			userID	path		string							true	"Member user ID"
//	@Param			request	body		workintelsdk.UpdateRoleRequest	true	"role: admin or member"
//	@Success		200		{object}	workintelsdk.MemberResponse
//	@Failure		400		{object}	workintelsdk.ErrorResponse	"invalid role"
//	@Failure		403		{object}	workintelsdk.ErrorResponse	"admin only"
//	@Failure		404		{object}	workintelsdk.ErrorResponse
//	@Failure		409		{object}	workintelsdk.ErrorResponse	"last_admin"
//	@Security		SessionCookie
//	@Router			/api/teams/{teamID}/members/{userID} [patch]
func (h *TeamsHandler) HandleUpdateMember(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(w, r, "teamID")
	if !ok {
		return
	}
	memberID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	var req sdk.UpdateRoleRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadJSON(w, err)
		return
	}

	ctx := r.Context()
	actorID := httpx.UserIDFromContext(ctx)
	if err := h.TeamService.UpdateMemberRole(ctx, actorID, teamID, memberID, domain.TeamRole(req.Role)); err != nil {
		writeServiceError(w, r, err, "update member role")
		return
	}

	detail, err := h.TeamService.GetTeam(ctx, actorID, teamID)
	if err != nil {
		writeServiceError(w, r, err, "get team")
		return
	}
	for _, m := range detail.Members {
		if m.UserID == memberID {
			httpx.WriteJSON(w, http.StatusOK, toMember(m))
			return
		}
	}
	writeServiceError(w, r, service.ErrMemberNotFound, "update member role")
}

// HandleRemoveMember handles DELETE /api/teams/{teamID}/members/{userID}
//
//	@Summary		Remove a member or leave
//	@Description	Admins may remove anyone; members may remove themselves. The last admin cannot leave.
//	@Tags			Teams
//	@Param			teamID	path	string	true	"Team ID"
//	@Param			userID	path	string	true	"Member user ID"
//	@Success		204
//	@Failure		403	{object}	workintelsdk.ErrorResponse
//	@Failure		404	{object}	workintelsdk.ErrorResponse
//	@Failure		409	{object}	workintelsdk.ErrorResponse	"last_admin"
//	@Security		SessionCookie
//	@Router			/api/teams/{teamID}/members/{userID} [delete]
func (h *TeamsHandler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(w, r, "teamID")
	if !ok {
		return
	}
	memberID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	if err := h.TeamService.RemoveMember(r.Context(), httpx.UserIDFromContext(r.Context()), teamID, memberID); err != nil {
		writeServiceError(w, r, err, "remove member")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
