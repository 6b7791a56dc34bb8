package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/aussiebroadwan/workintel/internal/workintel/domain"
	"github.com/aussiebroadwan/workintel/internal/workintel/service"
	"github.com/aussiebroadwan/workintel/pkg/httpx"
	"github.com/aussiebroadwan/workintel/pkg/slogx"
	sdk "github.com/aussiebroadwan/workintel/pkg/workintelsdk"
)

// InvitesHandler handles team invites: the admin API, JSON acceptance and
// the /invite/{token} link that invitees open in a browser.
type InvitesHandler struct {
	InviteService *service.InviteService
	Cookies       httpx.CookieOptions
}

// HandleCreate handles POST /api/teams/{teamID}/invites
//
//	@Summary		Invite someone to a team
//	@Description	Returns the invite link once; only a fingerprint of its token is stored. Only the invited email may accept.
//	@Tags			Invites
//	@Accept			json
//	@Produce		json
//	@Param			teamID	path		string								true	"Team ID"
//	@Param			request	body		workintelsdk.CreateInviteRequest	true	"email, role (default member)"
//	@Success		201		{object}	workintelsdk.InviteResponse
//	@Failure		400		{object}	workintelsdk.ErrorResponse	"invalid email or role"
//	@Failure		403		{object}	workintelsdk.ErrorResponse	"admin only"
//	@Failure		404		{object}	workintelsdk.ErrorResponse
//	@Failure		409		{object}	workintelsdk.ErrorResponse	"already_member"
//	@Security		SessionCookie
//	@Router			/api/teams/{teamID}/invites [post]
func (h *InvitesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(w, r, "teamID")
	if !ok {
		return
	}

	var req sdk.CreateInviteRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadJSON(w, err)
		return
	}

	created, err := h.InviteService.CreateInvite(r.Context(), httpx.UserIDFromContext(r.Context()), teamID, req.Email, domain.TeamRole(req.Role))
	if err != nil {
		writeServiceError(w, r, err, "create invite")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, sdk.InviteResponse{
		InviteID:  created.Invite.ID,
		InviteURL: created.URL,
		Email:     created.Invite.Email,
		Role:      string(created.Invite.Role),
		ExpiresAt: created.Invite.ExpiresAt,
	})
}

// HandleList handles GET /api/teams/{teamID}/invites
//
//	@Summary		Pending invites
//	@Description	Invites neither accepted nor expired.
//	@Tags			Invites
//	@Produce		json
//	@Param			teamID	path		string	true	"Team ID"
//	@Success		200		{object}	workintelsdk.InviteListResponse
//	@Failure		403		{object}	workintelsdk.ErrorResponse	"admin only"
//	@Failure		404		{object}	workintelsdk.ErrorResponse
//	@Security		SessionCookie
//	@Router			/api/teams/{teamID}/invites [get]
func (h *InvitesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(w, r, "teamID")
	if !ok {
		return
	}

	invites, err := h.InviteService.ListInvites(r.Context(), httpx.UserIDFromContext(r.Context()), teamID)
	if err != nil {
		writeServiceError(w, r, err, "list invites")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sdk.InviteListResponse{Invites: mapSlice(invites, toPendingInvite)})
}

// HandleRevoke handles DELETE /api/teams/{teamID}/invites/{inviteID}
//
//	@Summary		Revoke an invite
//	@Tags			Invites
//	@Param			teamID		path	string	true	"Team ID"
//	@Param			inviteID	path	string	true	"Invite ID"
//	@Success		204
//	@Failure		403	{object}	workintelsdk.ErrorResponse	"admin only"
//	@Failure		404	{object}	workintelsdk.ErrorResponse
//	@Security		SessionCookie
//	@Router			/api/teams/{teamID}/invites/{inviteID} [delete]
func (h *InvitesHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(w, r, "teamID")
	if !ok {
		return
	}
	inviteID, ok := pathID(w, r, "inviteID")
	if !ok {
		return
	}

	if err := h.InviteService.RevokeInvite(r.Context(), httpx.UserIDFromContext(r.Context()), teamID, inviteID); err != nil {
		writeServiceError(w, r, err, "revoke invite")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAccept handles POST /api/invites/accept
//
//	@Summary		Accept an invite
//	@Description	Joins the invite's team as the signed-in user. An existing member consumes the invite and keeps their role.
//	@Tags			Invites
//	@Accept			json
//	@Produce		json
//	@Param			request	body		workintelsdk.AcceptInviteRequest	true	"token"
//	@Success		200		{object}	workintelsdk.TeamResponse
//	@Failure		403		{object}	workintelsdk.ErrorResponse	"invite_email_mismatch"
//	@Failure		404		{object}	workintelsdk.ErrorResponse	"unknown token"
//	@Failure		409		{object}	workintelsdk.ErrorResponse	"invite_used"
//	@Failure		410		{object}	workintelsdk.ErrorResponse	"invite_expired"
//	@Security		SessionCookie
//	@Router			/api/invites/accept [post]
func (h *InvitesHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	var req sdk.AcceptInviteRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadJSON(w, err)
		return
	}
	if strings.TrimSpace(req.Token) == "" {
		sdk.ErrInvalidRequest.WithDescription("token is required").WriteError(w)
		return
	}

	team, err := h.InviteService.AcceptInvite(r.Context(), httpx.UserIDFromContext(r.Context()), req.Token)
	if err != nil {
		writeServiceError(w, r, err, "accept invite")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTeam(team))
}

// HandleLink handles GET /invite/{token}
//
// Signed-in users join straight away. Anyone else gets the token parked in
// the one-time pending_team_invite cookie and is sent to /login; signup or
// login then redeems it.
func (h *InvitesHandler) HandleLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	token := r.PathValue("token")

	if p, ok := httpx.PrincipalFromContext(ctx); ok {
		team, err := h.InviteService.AcceptInvite(ctx, p.UserID, token)
		if err != nil {
			log.Info("invite link rejected", slog.Any("error", err))
			httpx.RedirectWithParam(w, r, "/", "error", redirectCode(err, "invite_invalid"))
			return
		}
		http.Redirect(w, r, "/teams/"+url.PathEscape(team.ID), http.StatusFound)
		return
	}

	if _, err := h.InviteService.CheckInvite(ctx, token); err != nil {
		log.Info("invite link rejected", slog.Any("error", err))
		httpx.RedirectWithParam(w, r, "/", "error", redirectCode(err, "invite_invalid"))
		return
	}

	h.Cookies.SetCookie(w, PendingInviteCookie, token, PendingInviteTTL)
	http.Redirect(w, r, "/login?invite=1", http.StatusFound)
}
