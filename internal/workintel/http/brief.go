package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/aussiebroadwan/workintel/internal/workintel/service"
	"github.com/aussiebroadwan/workintel/pkg/httpx"
	sdk "github.com/aussiebroadwan/workintel/pkg/workintelsdk"
)

type BriefHandler struct {
	BriefService *service.BriefService
}

// briefOptions reads ?refresh= and ?tz= (an IANA zone name for the
// meeting day).
func briefOptions(r *http.Request) (service.BriefOptions, error) {
	q := r.URL.Query()
	opts := service.BriefOptions{}

	if raw := q.Get("refresh"); raw != "" {
		refresh, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, err
		}
		opts.Refresh = refresh
	}
	if tz := q.Get("tz"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return opts, err
		}
		opts.Location = loc
	}
	return opts, nil
}

// ServeHTTP godoc
//
//	@Summary		Daily brief
//	@Description	Unread email, pull requests awaiting review, today's meetings, open Jira issues and recently edited documents, with a summary.
//	@Description	Sources that fail are listed in warnings; the brief itself still succeeds. Cached per user unless refresh is set.
//	@Tags			Brief
//	@Produce		json
//	@Param			refresh	query		bool	false	"Bypass the cache"
//	@Param			tz		query		string	false	"IANA time zone for today's meetings"
//	@Success		200		{object}	workintelsdk.Brief
//	@Failure		400		{object}	workintelsdk.ErrorResponse	"bad refresh or tz"
//	@Failure		401		{object}	workintelsdk.ErrorResponse
//	@Failure		429		{object}	workintelsdk.ErrorResponse	"rate_limit_exceeded"
//	@Security		SessionCookie
//	@Router			/api/brief [get]
func (h *BriefHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	opts, err := briefOptions(r)
	if err != nil {
		sdk.ErrInvalidRequest.WithDescription("refresh must be a boolean and tz an IANA zone").WriteError(w)
		return
	}

	brief, err := h.BriefService.Generate(r.Context(), httpx.UserIDFromContext(r.Context()), opts)
	if err != nil {
		writeServiceError(w, r, err, "generate brief")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toBrief(brief))
}
