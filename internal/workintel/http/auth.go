package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/aussiebroadwan/workintel/internal/workintel/domain"
	"github.com/aussiebroadwan/workintel/internal/workintel/service"
	"github.com/aussiebroadwan/workintel/pkg/httpx"
	"github.com/aussiebroadwan/workintel/pkg/slogx"
	sdk "github.com/aussiebroadwan/workintel/pkg/workintelsdk"
)

// AuthHandler serves signup, login, logout and the current user. Signup
// and login accept JSON (API clients) or a form post (the login pages).
type AuthHandler struct {
	AuthService   *service.AuthService
	InviteService *service.InviteService
	Cookies       httpx.CookieOptions
	SessionTTL    time.Duration
}

type credentialsForm struct {
	Email    string
	Name     string
	Password string
	Next     string
}

// readCredentials decodes either body kind. ok is false when a JSON body
// was malformed and the error has been written.
func readCredentials(w http.ResponseWriter, r *http.Request) (credentialsForm, bool) {
	if httpx.IsJSONRequest(r) {
		var req sdk.SignupRequest
		if err := httpx.DecodeJSON(w, r, &req); err != nil {
			writeBadJSON(w, err)
			return credentialsForm{}, false
		}
		return credentialsForm{Email: req.Email, Name: req.Name, Password: req.Password}, true
	}
	if err := r.ParseForm(); err != nil {
		return credentialsForm{}, true
	}
	return credentialsForm{
		Email:    r.PostFormValue("email"),
		Name:     r.PostFormValue("name"),
		Password: r.PostFormValue("password"),
		Next:     r.PostFormValue("next"),
	}, true
}

func sessionMeta(r *http.Request) service.SessionMeta {
	return service.SessionMeta{UserAgent: r.UserAgent(), IPAddress: httpx.ClientIP(r)}
}

// HandleSignup handles POST /api/auth/signup
//
//	@Summary		Create an account
//	@Description	Creates a local account and signs it in. A pending_team_invite cookie is redeemed for the new user.
//	@Description	Form posts redirect to next (or the joined team) instead of answering JSON.
//	@Tags			Auth
//	@Accept			json,x-www-form-urlencoded
//	@Produce		json
//	@Param			request	body		workintelsdk.SignupRequest	true	"email, name, password"
//	@Success		201		{object}	workintelsdk.UserResponse
//	@Failure		400		{object}	workintelsdk.ErrorResponse	"invalid_request, weak_password"
//	@Failure		409		{object}	workintelsdk.ErrorResponse	"email_taken"
//	@Failure		429		{object}	workintelsdk.ErrorResponse	"rate_limit_exceeded"
//	@Router			/api/auth/signup [post]
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	form, ok := readCredentials(w, r)
	if !ok {
		return
	}

	user, token, err := h.AuthService.Signup(r.Context(), form.Email, form.Name, form.Password, sessionMeta(r))
	if err != nil {
		if !httpx.IsJSONRequest(r) {
			redirectToForm(w, r, "/signup", form.Next, redirectCode(err, "server_error"))
			return
		}
		writeServiceError(w, r, err, "signup")
		return
	}

	h.signedIn(w, r, user, token, form.Next, http.StatusCreated)
}

// HandleLogin handles POST /api/auth/login
//
//	@Summary		Sign in
//	@Description	Checks email and password and sets the work_intel_session cookie. Wrong email and wrong password fail the same way.
//	@Tags			Auth
//	@Accept			json,x-www-form-urlencoded
//	@Produce		json
//	@Param			request	body		workintelsdk.LoginRequest	true	"email, password"
//	@Success		200		{object}	workintelsdk.UserResponse
//	@Failure		400		{object}	workintelsdk.ErrorResponse	"invalid_request"
//	@Failure		401		{object}	workintelsdk.ErrorResponse	"invalid_credentials"
//	@Failure		429		{object}	workintelsdk.ErrorResponse	"rate_limit_exceeded"
//	@Router			/api/auth/login [post]
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	form, ok := readCredentials(w, r)
	if !ok {
		return
	}

	user, token, err := h.AuthService.Login(r.Context(), form.Email, form.Password, sessionMeta(r))
	if err != nil {
		if !httpx.IsJSONRequest(r) {
			redirectToForm(w, r, "/login", form.Next, redirectCode(err, "server_error"))
			return
		}
		writeServiceError(w, r, err, "login")
		return
	}

	h.signedIn(w, r, user, token, form.Next, http.StatusOK)
}

// signedIn sets the session cookie, redeems a pending invite and answers
// in the request's style.
func (h *AuthHandler) signedIn(w http.ResponseWriter, r *http.Request, user domain.User, token, next string, status int) {
	h.Cookies.SetCookie(w, httpx.SessionCookieName, token, h.SessionTTL)

	joinedTeam, inviteErr := h.redeemPendingInvite(w, r, user.ID)

	if !httpx.IsJSONRequest(r) {
		switch {
		case inviteErr != "":
			httpx.RedirectWithParam(w, r, "/", "error", inviteErr)
		case joinedTeam != "":
			http.Redirect(w, r, "/teams/"+url.PathEscape(joinedTeam), http.StatusFound)
		default:
			http.Redirect(w, r, httpx.SafeNext(next), http.StatusFound)
		}
		return
	}

	resp := toUser(user)
	resp.JoinedTeamID = joinedTeam
	httpx.WriteJSON(w, status, resp)
}

// redeemPendingInvite accepts the invite remembered by /invite/{token}.
// The cookie is cleared whatever the outcome.
func (h *AuthHandler) redeemPendingInvite(w http.ResponseWriter, r *http.Request, userID string) (teamID, errCode string) {
	c, err := r.Cookie(PendingInviteCookie)
	if err != nil || c.Value == "" {
		return "", ""
	}
	h.Cookies.ClearCookie(w, PendingInviteCookie)

	log := slogx.FromContext(r.Context())
	team, err := h.InviteService.AcceptInvite(r.Context(), userID, c.Value)
	if err != nil {
		log.Warn("pending invite not accepted", slog.Any("error", err))
		return "", redirectCode(err, "invite_invalid")
	}
	log.Info("pending invite accepted", slog.String("team_id", team.ID))
	return team.ID, ""
}

func redirectToForm(w http.ResponseWriter, r *http.Request, page, next, code string) {
	target := page
	if next != "" {
		target += "?next=" + url.QueryEscape(httpx.SafeNext(next))
	}
	httpx.RedirectWithParam(w, r, target, "error", code)
}

// HandleLogout handles POST /api/auth/logout
//
//	@Summary		Sign out
//	@Description	Deletes the session and clears the cookie. Succeeds without a session. Form posts redirect to /login.
//	@Tags			Auth
//	@Success		204
//	@Router			/api/auth/logout [post]
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if token := httpx.SessionToken(r); token != "" {
		if err := h.AuthService.Logout(r.Context(), token); err != nil {
			slogx.FromContext(r.Context()).Error("failed to delete session", slog.Any("error", err))
		}
	}
	h.Cookies.ClearCookie(w, httpx.SessionCookieName)

	if !httpx.IsJSONRequest(r) && r.Header.Get("Accept") != "application/json" {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleMe handles GET /api/auth/me
//
//	@Summary		Current user
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	workintelsdk.UserResponse
//	@Failure		401	{object}	workintelsdk.ErrorResponse	"unauthorized"
//	@Security		SessionCookie
//	@Router			/api/auth/me [get]
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.AuthService.GetUser(r.Context(), httpx.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, "get user")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUser(user))
}
