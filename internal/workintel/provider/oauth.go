package provider

import (
	"context"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/workintel/internal/workintel/domain"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

// Route segments used under /api/integrations/{slug}/...
const (
	SlugGitHub      = "github"
	SlugAtlassian   = "atlassian"
	SlugGoogleDrive = "google-drive"
	SlugNylas       = "nylas"
)

var slugProviders = map[string]domain.Provider{
	SlugGitHub:      domain.ProviderGitHub,
	SlugAtlassian:   domain.ProviderJira,
	SlugGoogleDrive: domain.ProviderGoogleDrive,
	SlugNylas:       domain.ProviderNylas,
}

// ProviderForSlug maps a route segment to its provider.
func ProviderForSlug(slug string) (domain.Provider, bool) {
	p, ok := slugProviders[slug]
	return p, ok
}

// SlugFor is the inverse of ProviderForSlug.
func SlugFor(p domain.Provider) string {
	for slug, prov := range slugProviders {
		if prov == p {
			return slug
		}
	}
	return string(p)
}

// AtlassianEndpoint is the 3LO authorization server for Jira Cloud.
var AtlassianEndpoint = oauth2.Endpoint{
	AuthURL:  "https://auth.atlassian.com/authorize",
	TokenURL: "https://auth.atlassian.com/oauth/token",
}

// NylasEndpoint returns the hosted-auth endpoints of a Nylas v3 region.
func NylasEndpoint(apiURI string) oauth2.Endpoint {
	base := strings.TrimSuffix(apiURI, "/")
	return oauth2.Endpoint{
		AuthURL:   base + "/v3/connect/auth",
		TokenURL:  base + "/v3/connect/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
}

// OAuthSettings are the client credentials read from the environment.
type OAuthSettings struct {
	BaseURL string

	GitHubClientID        string
	GitHubClientSecret    string
	AtlassianClientID     string
	AtlassianClientSecret string
	GoogleClientID        string
	GoogleClientSecret    string
	NylasClientID         string
	NylasAPIKey           string
	NylasAPIURI           string
}

// OAuthApp is one configured authorization-code client.
type OAuthApp struct {
	Slug     string
	Provider domain.Provider
	Config   *oauth2.Config

	authParams []oauth2.AuthCodeOption
}

// AuthCodeURL is where the browser is sent to grant access.
func (a *OAuthApp) AuthCodeURL(state string) string {
	return a.Config.AuthCodeURL(state, a.authParams...)
}

// Exchange trades an authorization code for a token. ctx may carry an
// oauth2.HTTPClient.
func (a *OAuthApp) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return a.Config.Exchange(ctx, code)
}

// OAuthRegistry holds the apps whose client id and secret are present.
type OAuthRegistry struct {
	apps map[domain.Provider]*OAuthApp
}

// NewOAuthRegistry registers every provider that has credentials.
func NewOAuthRegistry(s OAuthSettings) *OAuthRegistry {
	r := &OAuthRegistry{apps: make(map[domain.Provider]*OAuthApp)}
	callback := func(slug string) string {
		return strings.TrimSuffix(s.BaseURL, "/") + "/api/integrations/" + slug + "/callback"
	}

	if s.GitHubClientID != "" && s.GitHubClientSecret != "" {
		r.Register(&OAuthApp{
			Slug:     SlugGitHub,
			Provider: domain.ProviderGitHub,
			Config: &oauth2.Config{
				ClientID:     s.GitHubClientID,
				ClientSecret: s.GitHubClientSecret,
				Endpoint:     endpoints.GitHub,
				RedirectURL:  callback(SlugGitHub),
				Scopes:       []string{"repo", "read:user", "user:email"},
			},
		})
	}

	if s.AtlassianClientID != "" && s.AtlassianClientSecret != "" {
		r.Register(&OAuthApp{
			Slug:     SlugAtlassian,
			Provider: domain.ProviderJira,
			Config: &oauth2.Config{
				ClientID:     s.AtlassianClientID,
				ClientSecret: s.AtlassianClientSecret,
				Endpoint:     AtlassianEndpoint,
				RedirectURL:  callback(SlugAtlassian),
				Scopes:       []string{"read:jira-work", "read:jira-user", "offline_access"},
			},
			authParams: []oauth2.AuthCodeOption{
				oauth2.SetAuthURLParam("audience", "api.atlassian.com"),
				oauth2.SetAuthURLParam("prompt", "consent"),
			},
		})
	}

	if s.GoogleClientID != "" && s.GoogleClientSecret != "" {
		r.Register(&OAuthApp{
			Slug:     SlugGoogleDrive,
			Provider: domain.ProviderGoogleDrive,
			Config: &oauth2.Config{
				ClientID:     s.GoogleClientID,
				ClientSecret: s.GoogleClientSecret,
				Endpoint:     endpoints.Google,
				RedirectURL:  callback(SlugGoogleDrive),
				Scopes: []string{
					"https://www.googleapis.com/auth/drive.metadata.readonly",
					"https://www.googleapis.com/auth/userinfo.email",
				},
			},
			// Without consent Google only issues a refresh token the first time.
			authParams: []oauth2.AuthCodeOption{oauth2.AccessTypeOffline, oauth2.ApprovalForce},
		})
	}

	// Nylas hosted auth uses the API key as the client secret.
	if s.NylasClientID != "" && s.NylasAPIKey != "" {
		r.Register(&OAuthApp{
			Slug:     SlugNylas,
			Provider: domain.ProviderNylas,
			Config: &oauth2.Config{
				ClientID:     s.NylasClientID,
				ClientSecret: s.NylasAPIKey,
				Endpoint:     NylasEndpoint(s.NylasAPIURI),
				RedirectURL:  callback(SlugNylas),
			},
			authParams: []oauth2.AuthCodeOption{oauth2.SetAuthURLParam("access_type", "offline")},
		})
	}

	return r
}

// Register adds or replaces an app. Tests use it to point endpoints at
// local servers.
func (r *OAuthRegistry) Register(app *OAuthApp) {
	r.apps[app.Provider] = app
}

// App returns the app for p, if configured.
func (r *OAuthRegistry) App(p domain.Provider) (*OAuthApp, bool) {
	if r == nil {
		return nil, false
	}
	app, ok := r.apps[p]
	return app, ok
}

// Configured reports whether p can be connected through OAuth.
func (r *OAuthRegistry) Configured(p domain.Provider) bool {
	_, ok := r.App(p)
	return ok
}

// WithHTTPClient returns a context that makes oauth2 use hc for token
// exchange and refresh.
func WithHTTPClient(ctx context.Context, hc *http.Client) context.Context {
	if hc == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, hc)
}

// TokenExtra reads a string field from the raw token response, such as
// Nylas' grant_id and email.
func TokenExtra(tok *oauth2.Token, key string) string {
	if tok == nil {
		return ""
	}
	s, _ := tok.Extra(key).(string)
	return s
}
