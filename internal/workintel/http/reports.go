package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/aussiebroadwan/workintel/internal/workintel/service"
	"github.com/aussiebroadwan/workintel/pkg/httpx"
	sdk "github.com/aussiebroadwan/workintel/pkg/workintelsdk"
)

type ReportsHandler struct {
	ReportService *service.ReportService
}

// now follows the service clock so the default week matches what the
// service aggregates.
func (h *ReportsHandler) now() time.Time {
	if h.ReportService.Clock != nil {
		return h.ReportService.Clock()
	}
	return time.Now()
}

// HandleGenerate handles POST /api/teams/{teamID}/reports
//
//	@Summary		Generate a weekly report
//	@Description	Aggregates pull requests, reviews and commits across the team's repositories for the week and stores it.
//	@Description	Generating a week again replaces its report. An empty body means the current week.
//	@Tags			Reports
//	@Accept			json
//	@Produce		json
//	@Param			teamID	path		string								true	"Team ID"
//	@Param			request	body		workintelsdk.GenerateReportRequest	false	"week_start (a Monday, YYYY-MM-DD)"
//	@Success		200		{object}	workintelsdk.ReportResponse
//	@Failure		400		{object}	workintelsdk.ErrorResponse	"invalid_week"
//	@Failure		404		{object}	workintelsdk.ErrorResponse
//	@Failure		409		{object}	workintelsdk.ErrorResponse	"github_not_connected"
//	@Failure		502		{object}	workintelsdk.ErrorResponse	"every repository failed"
//	@Security		SessionCookie
//	@Router			/api/teams/{teamID}/reports [post]
func (h *ReportsHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(w, r, "teamID")
	if !ok {
		return
	}

	var req sdk.GenerateReportRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil && !errors.Is(err, httpx.ErrEmptyBody) {
		writeBadJSON(w, err)
		return
	}

	weekStart, err := service.ParseWeekStart(req.WeekStart, h.now())
	if err != nil {
		writeServiceError(w, r, err, "parse week")
		return
	}

	report, err := h.ReportService.Generate(r.Context(), httpx.UserIDFromContext(r.Context()), teamID, weekStart)
	if err != nil {
		writeServiceError(w, r, err, "generate report")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toReport(report))
}

// HandleList handles GET /api/teams/{teamID}/reports
//
//	@Summary		Recent weekly reports
//	@Description	The latest 12 weeks, newest first.
//	@Tags			Reports
//	@Produce		json
//	@Param			teamID	path		string	true	"Team ID"
//	@Success		200		{object}	workintelsdk.ReportListResponse
//	@Failure		404		{object}	workintelsdk.ErrorResponse
//	@Security		SessionCookie
//	@Router			/api/teams/{teamID}/reports [get]
func (h *ReportsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(w, r, "teamID")
	if !ok {
		return
	}

	reports, err := h.ReportService.List(r.Context(), httpx.UserIDFromContext(r.Context()), teamID, service.DefaultReportListLimit)
	if err != nil {
		writeServiceError(w, r, err, "list reports")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sdk.ReportListResponse{Reports: mapSlice(reports, toReport)})
}

// HandleGet handles GET /api/teams/{teamID}/reports/{reportID}
//
//	@Summary		One weekly report
//	@Tags			Reports
//	@Produce		json
//	@Param			teamID		path		string	true	"Team ID"
//	@Param			reportID	path		string	true	"Report ID"
//	@Success		200			{object}	workintelsdk.ReportResponse
//	@Failure		404			{object}	workintelsdk.ErrorResponse
//	@Security		SessionCookie
//	@Router			/api/teams/{teamID}/reports/{reportID} [get]
func (h *ReportsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(w, r, "teamID")
	if !ok {
		return
	}
	reportID, ok := pathID(w, r, "reportID")
	if !ok {
		return
	}

	report, err := h.ReportService.Get(r.Context(), httpx.UserIDFromContext(r.Context()), teamID, reportID)
	if err != nil {
		writeServiceError(w, r, err, "get report")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toReport(report))
}
