package http

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/workintel/internal/workintel/service"
	"github.com/aussiebroadwan/workintel/pkg/httpx"
	"github.com/aussiebroadwan/workintel/pkg/slogx"
	sdk "github.com/aussiebroadwan/workintel/pkg/workintelsdk"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = map[string]*template.Template{}

func init() {
	for _, name := range []string{"login", "signup", "dashboard", "settings", "team"} {
		pageTemplates[name] = template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html"))
	}
}

// pageMessages turns ?error= and ?connected= codes into the banner text.
var pageMessages = map[string]string{
	"invalid_credentials":     "Wrong email or password.",
	"email_taken":             "An account with that email already exists.",
	"weak_password":           "Passwords need at least 8 characters.",
	"invalid_request":         "Please check the form and try again.",
	"invite_invalid":          "That invite link is not valid.",
	"invite_expired":          "That invite link has expired. Ask a team admin for a new one.",
	"invite_used":             "That invite link has already been used.",
	"invite_email_mismatch":   "That invite was sent to a different email address.",
	"provider_not_configured": "That tool is not set up on this server.",
	"invalid_provider":        "Unknown tool.",
	"invalid_state":           "The connection attempt expired or was not started here. Please try again.",
	"access_denied":           "Access was not granted.",
	"exchange_failed":         "The tool could not be connected. Please try again.",
	"no_jira_site":            "Your Atlassian account has no Jira site.",
	"forbidden":               "Only team admins can do that.",
	"server_error":            "Something went wrong. Please try again.",
}

type pageData struct {
	Title  string
	User   httpx.Principal
	Error  string
	Notice string
	Data   any
}

// PagesHandler renders the server-side HTML. Data comes from the same
// services as the API; the dashboard loads its brief with fetch.
type PagesHandler struct {
	TeamService        *service.TeamService
	IntegrationService *service.IntegrationService
}

func (h *PagesHandler) render(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	user, _ := httpx.PrincipalFromContext(r.Context())
	page := pageData{Title: title, User: user, Data: data}

	q := r.URL.Query()
	if code := q.Get("error"); code != "" {
		page.Error = pageMessages[code]
		if page.Error == "" {
			page.Error = pageMessages["server_error"]
		}
	}
	if p := q.Get("connected"); p != "" {
		page.Notice = "Connected " + p + "."
	}

	var buf bytes.Buffer
	if err := pageTemplates[name].ExecuteTemplate(&buf, "layout", page); err != nil {
		slogx.FromContext(r.Context()).Error("failed to render page", slog.String("page", name), slog.Any("error", err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	httpx.NoCache(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (h *PagesHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if _, ok := httpx.PrincipalFromContext(r.Context()); ok {
		http.Redirect(w, r, httpx.SafeNext(r.URL.Query().Get("next")), http.StatusFound)
		return
	}
	h.render(w, r, "login", "Sign in", map[string]any{
		"Next":   r.URL.Query().Get("next"),
		"Invite": r.URL.Query().Get("invite") != "",
	})
}

func (h *PagesHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	if _, ok := httpx.PrincipalFromContext(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	h.render(w, r, "signup", "Sign up", map[string]any{"Next": r.URL.Query().Get("next")})
}

func (h *PagesHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	teams, err := h.TeamService.ListTeams(r.Context(), httpx.UserIDFromContext(r.Context()))
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to list teams", slog.Any("error", err))
	}
	h.render(w, r, "dashboard", "Today", map[string]any{"Teams": mapSlice(teams, toTeamWithRole)})
}

func (h *PagesHandler) HandleSettings(w http.ResponseWriter, r *http.Request) {
	tools, err := h.IntegrationService.Tools(r.Context(), httpx.UserIDFromContext(r.Context()))
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to list tools", slog.Any("error", err))
	}
	h.render(w, r, "settings", "Settings", map[string]any{"Tools": mapSlice(tools, toTool)})
}

func (h *PagesHandler) HandleTeam(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := httpx.UserIDFromContext(ctx)

	detail, err := h.TeamService.GetTeam(ctx, userID, r.PathValue("teamID"))
	if err != nil {
		// Unknown and foreign teams look the same.
		httpx.RedirectWithParam(w, r, "/", "error", "forbidden")
		return
	}

	var integrations []sdk.TeamIntegrationResponse
	if views, err := h.IntegrationService.ListTeamIntegrations(ctx, userID, detail.Team.ID); err == nil {
		integrations = mapSlice(views, toIntegration)
	}

	h.render(w, r, "team", detail.Team.Name, map[string]any{
		"Team":         toTeamDetail(detail),
		"Integrations": integrations,
	})
}
