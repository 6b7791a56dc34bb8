package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/workintel/internal/workintel/service"
	"github.com/aussiebroadwan/workintel/internal/workintel/store"
	"github.com/aussiebroadwan/workintel/pkg/httpx"
	"github.com/aussiebroadwan/workintel/pkg/slogx"

	_ "github.com/aussiebroadwan/workintel/api/workintel" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// PendingInviteCookie carries an invite token across signup or login.
const PendingInviteCookie = "pending_team_invite"

// PendingInviteTTL bounds how long an unauthenticated invite click is remembered.
const PendingInviteTTL = time.Hour

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	baseURL      string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	cookies      httpx.CookieOptions
	sessionTTL   time.Duration

	store              store.Store
	AuthService        *service.AuthService
	TeamService        *service.TeamService
	InviteService      *service.InviteService
	IntegrationService *service.IntegrationService
	ConnectService     *service.ConnectService
	BriefService       *service.BriefService
	TaskService        *service.TaskService
	ReportService      *service.ReportService
}

func NewRouter(
	baseURL, buildVersion string,
	st store.Store,
	cookies httpx.CookieOptions,
	sessionTTL time.Duration,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		baseURL:      baseURL,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		cookies:      cookies,
		sessionTTL:   sessionTTL,
		store:        st,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerTeams()
	r.registerInvites()
	r.registerIntegrations()
	r.registerBrief()
	r.registerTasks()
	r.registerReports()
	r.registerPages()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpx.Chain(httpSwagger.Handler(), httpx.RateLimitByIP(httpx.PublicLimit)))
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Work Intel API
//	@version		0.1.0
//	@description	Daily briefs and weekly team reports built from GitHub, Jira, Google Drive and email activity.
//	@description
//	@description	Every /api route except /api/auth/* needs the work_intel_session cookie set by signup or login.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/workintel
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
//
//	@securityDefinitions.apikey	SessionCookie
//	@in							cookie
//	@name						work_intel_session
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// resolveSession adapts AuthService to the routing middleware.
func (r *Router) resolveSession(ctx context.Context, token string) (httpx.Principal, error) {
	u, err := r.AuthService.ResolveSession(ctx, token)
	if err != nil {
		return httpx.Principal{}, err
	}
	return httpx.Principal{UserID: u.UserID, Email: u.Email, Name: u.Name}, nil
}

// secured requires a session and rate limits per user.
func (r *Router) secured(h http.Handler, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.SessionMiddleware(r.resolveSession),
		httpx.RateLimitByUser(limit),
	)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		AuthService:   r.AuthService,
		InviteService: r.InviteService,
		Cookies:       r.cookies,
		SessionTTL:    r.sessionTTL,
	}

	// Signup and login are brute force targets: strict, keyed by IP + email
	r.Mux.Handle("POST /api/auth/signup",
		httpx.Chain(http.HandlerFunc(h.HandleSignup),
			httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "email"),
		),
	)
	r.Mux.Handle("POST /api/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "email"),
		),
	)

	// Logout works with or without a live session
	r.Mux.Handle("POST /api/auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("GET /api/auth/me", r.secured(http.HandlerFunc(h.HandleMe), httpx.LenientLimit))
}

func (r *Router) registerTeams() {
	h := &TeamsHandler{TeamService: r.TeamService}

	r.Mux.Handle("GET /api/teams", r.secured(http.HandlerFunc(h.HandleList), httpx.LenientLimit))
	r.Mux.Handle("POST /api/teams", r.secured(http.HandlerFunc(h.HandleCreate), httpx.ModerateLimit))
	r.Mux.Handle("GET /api/teams/{teamID}", r.secured(http.HandlerFunc(h.HandleGet), httpx.LenientLimit))
	r.Mux.Handle("PATCH /api/teams/{teamID}", r.secured(http.HandlerFunc(h.HandleRename), httpx.ModerateLimit))
	r.Mux.Handle("DELETE /api/teams/{teamID}", r.secured(http.HandlerFunc(h.HandleDelete), httpx.ModerateLimit))
	r.Mux.Handle("PATCH /api/teams/{teamID}/members/{userID}", r.secured(http.HandlerFunc(h.HandleUpdateMember), httpx.ModerateLimit))
	r.Mux.Handle("DELETE /api/teams/{teamID}/members/{userID}", r.secured(http.HandlerFunc(h.HandleRemoveMember), httpx.ModerateLimit))
}

func (r *Router) registerInvites() {
	h := &InvitesHandler{
		InviteService: r.InviteService,
		Cookies:       r.cookies,
	}

	r.Mux.Handle("POST /api/teams/{teamID}/invites", r.secured(http.HandlerFunc(h.HandleCreate), httpx.ModerateLimit))
	r.Mux.Handle("GET /api/teams/{teamID}/invites", r.secured(http.HandlerFunc(h.HandleList), httpx.LenientLimit))
	r.Mux.Handle("DELETE /api/teams/{teamID}/invites/{inviteID}", r.secured(http.HandlerFunc(h.HandleRevoke), httpx.ModerateLimit))
	r.Mux.Handle("POST /api/invites/accept", r.secured(http.HandlerFunc(h.HandleAccept), httpx.StrictLimit))

	// Invite links are opened logged out as often as logged in
	r.Mux.Handle("GET /invite/{token}",
		httpx.Chain(http.HandlerFunc(h.HandleLink),
			httpx.OptionalSession(r.resolveSession),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerIntegrations() {
	h := &IntegrationsHandler{IntegrationService: r.IntegrationService}
	c := &ConnectHandler{ConnectService: r.ConnectService, BaseURL: r.baseURL}

	base := "/api/teams/{teamID}/integrations"
	r.Mux.Handle("GET "+base, r.secured(http.HandlerFunc(h.HandleListTeam), httpx.LenientLimit))
	r.Mux.Handle("POST "+base+"/github/token", r.secured(http.HandlerFunc(h.HandleGitHubToken), httpx.ModerateLimit))
	r.Mux.Handle("POST "+base+"/jira/token", r.secured(http.HandlerFunc(h.HandleJiraToken), httpx.ModerateLimit))
	r.Mux.Handle("PUT "+base+"/{provider}/config", r.secured(http.HandlerFunc(h.HandleUpdateConfig), httpx.ModerateLimit))
	r.Mux.Handle("DELETE "+base+"/{provider}", r.secured(http.HandlerFunc(h.HandleDisconnectTeam), httpx.ModerateLimit))

	r.Mux.Handle("GET /api/integrations/{provider}/connect", r.secured(http.HandlerFunc(c.HandleConnect), httpx.ModerateLimit))
	r.Mux.Handle("GET /api/integrations/{provider}/callback", r.secured(http.HandlerFunc(c.HandleCallback), httpx.ModerateLimit))
	r.Mux.Handle("DELETE /api/integrations/{provider}", r.secured(http.HandlerFunc(h.HandleDisconnectUser), httpx.ModerateLimit))

	r.Mux.Handle("GET /api/tools", r.secured(http.HandlerFunc(h.HandleTools), httpx.LenientLimit))
}

func (r *Router) registerBrief() {
	h := &BriefHandler{BriefService: r.BriefService}

	// Each brief fans out to every provider and the LLM
	r.Mux.Handle("GET /api/brief", r.secured(h, httpx.StrictLimit))
}

func (r *Router) registerTasks() {
	h := &TasksHandler{TaskService: r.TaskService}

	r.Mux.Handle("GET /api/tasks", r.secured(http.HandlerFunc(h.HandleList), httpx.LenientLimit))
	r.Mux.Handle("POST /api/tasks", r.secured(http.HandlerFunc(h.HandleCreate), httpx.ModerateLimit))
	r.Mux.Handle("POST /api/tasks/from-brief", r.secured(http.HandlerFunc(h.HandleFromBrief), httpx.StrictLimit))
	r.Mux.Handle("PATCH /api/tasks/{id}", r.secured(http.HandlerFunc(h.HandleUpdate), httpx.ModerateLimit))
	r.Mux.Handle("DELETE /api/tasks/{id}", r.secured(http.HandlerFunc(h.HandleDelete), httpx.ModerateLimit))
}

func (r *Router) registerReports() {
	h := &ReportsHandler{ReportService: r.ReportService}

	r.Mux.Handle("POST /api/teams/{teamID}/reports", r.secured(http.HandlerFunc(h.HandleGenerate), httpx.StrictLimit))
	r.Mux.Handle("GET /api/teams/{teamID}/reports", r.secured(http.HandlerFunc(h.HandleList), httpx.LenientLimit))
	r.Mux.Handle("GET /api/teams/{teamID}/reports/{reportID}", r.secured(http.HandlerFunc(h.HandleGet), httpx.LenientLimit))
}

func (r *Router) registerPages() {
	h := &PagesHandler{
		TeamService:        r.TeamService,
		IntegrationService: r.IntegrationService,
	}

	public := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.OptionalSession(r.resolveSession),
			httpx.RateLimitByIP(httpx.LenientLimit),
		)
	}

	r.Mux.Handle("GET /login", public(h.HandleLogin))
	r.Mux.Handle("GET /signup", public(h.HandleSignup))

	r.Mux.Handle("GET /{$}", r.secured(http.HandlerFunc(h.HandleDashboard), httpx.LenientLimit))
	r.Mux.Handle("GET /settings", r.secured(http.HandlerFunc(h.HandleSettings), httpx.LenientLimit))
	r.Mux.Handle("GET /teams/{teamID}", r.secured(http.HandlerFunc(h.HandleTeam), httpx.LenientLimit))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}
