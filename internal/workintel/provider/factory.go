package provider

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aussiebroadwan/workintel/internal/workintel/domain"
	"golang.org/x/oauth2"
)

// ErrNotConnected means the stored credentials cannot address the provider
// (missing grant, cloud id or site).
var ErrNotConnected = errors.New("provider: integration incomplete")

// URLs are the API roots. Tests point them at httptest servers.
type URLs struct {
	GitHubAPI      string
	AtlassianAPI   string
	GoogleDriveAPI string
	GoogleUserInfo string
	NylasAPI       string
}

// DefaultURLs returns the production roots; nylasAPI selects the region.
func DefaultURLs(nylasAPI string) URLs {
	if nylasAPI == "" {
		nylasAPI = DefaultNylasAPI
	}
	return URLs{
		GitHubAPI:      DefaultGitHubAPI,
		AtlassianAPI:   DefaultAtlassianAPI,
		GoogleDriveAPI: DefaultGoogleDriveAPI,
		GoogleUserInfo: DefaultGoogleUserInfo,
		NylasAPI:       nylasAPI,
	}
}

// Factory builds provider clients from stored credentials.
type Factory struct {
	OAuth       *OAuthRegistry
	URLs        URLs
	NylasAPIKey string

	// HTTPClient is the base transport for API calls, token exchange and
	// refresh.
	HTTPClient *http.Client
}

// NewFactory returns a Factory with a 30s base client.
func NewFactory(reg *OAuthRegistry, urls URLs, nylasAPIKey string) *Factory {
	return &Factory{
		OAuth:       reg,
		URLs:        urls,
		NylasAPIKey: nylasAPIKey,
		HTTPClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Context returns ctx prepared for oauth2 calls made on behalf of f.
func (f *Factory) Context(ctx context.Context) context.Context {
	return WithHTTPClient(ctx, f.HTTPClient)
}

func (f *Factory) oauthConfig(p domain.Provider, method domain.AuthMethod) *oauth2.Config {
	if method == domain.AuthPAT {
		return nil
	}
	if app, ok := f.OAuth.App(p); ok {
		return app.Config
	}
	return nil
}

func (f *Factory) bearerClient(ctx context.Context, p domain.Provider, method domain.AuthMethod, creds domain.Credentials, save CredentialSaver) *http.Client {
	ts := TokenSource(f.Context(ctx), f.oauthConfig(p, method), creds, save)
	return authClient(ctx, f.HTTPClient, ts)
}

// GitHub returns a client for a user or team GitHub integration.
func (f *Factory) GitHub(ctx context.Context, method domain.AuthMethod, creds domain.Credentials, save CredentialSaver) *GitHub {
	hc := f.bearerClient(ctx, domain.ProviderGitHub, method, creds, save)
	return NewGitHub(NewClient("github", f.URLs.GitHubAPI, hc, nil))
}

// GitHubToken returns a client for a raw token, e.g. a PAT being verified.
func (f *Factory) GitHubToken(ctx context.Context, token string) *GitHub {
	return f.GitHub(ctx, domain.AuthPAT, domain.Credentials{AccessToken: token}, nil)
}

// Jira returns a client for a Jira integration. API tokens talk to the site
// with basic auth; OAuth goes through the Atlassian gateway.
func (f *Factory) Jira(ctx context.Context, method domain.AuthMethod, creds domain.Credentials, save CredentialSaver) (*Jira, error) {
	if method == domain.AuthPAT {
		if creds.SiteURL == "" || creds.Email == "" {
			return nil, ErrNotConnected
		}
		return f.JiraBasic(creds.SiteURL, creds.Email, creds.AccessToken), nil
	}
	if creds.CloudID == "" {
		return nil, ErrNotConnected
	}
	hc := f.bearerClient(ctx, domain.ProviderJira, method, creds, save)
	c := NewClient("jira", JiraGatewayURL(f.URLs.AtlassianAPI, creds.CloudID), hc, nil)
	return NewJira(c, creds.SiteURL), nil
}

// JiraBasic returns a site client authenticated with an API token.
func (f *Factory) JiraBasic(siteURL, email, apiToken string) *Jira {
	h := http.Header{}
	h.Set("Authorization", BasicAuthHeader(email, apiToken))
	return NewJira(NewClient("jira", siteURL, f.HTTPClient, h), siteURL)
}

// AtlassianResources lists the Jira sites a fresh OAuth token can reach.
func (f *Factory) AtlassianResources(ctx context.Context, tok *oauth2.Token) ([]AtlassianResource, error) {
	hc := authClient(ctx, f.HTTPClient, oauth2.StaticTokenSource(tok))
	return AccessibleResources(ctx, NewClient("atlassian", f.URLs.AtlassianAPI, hc, nil))
}

// Drive returns a Google Drive client.
func (f *Factory) Drive(ctx context.Context, creds domain.Credentials, save CredentialSaver) *Drive {
	hc := f.bearerClient(ctx, domain.ProviderGoogleDrive, domain.AuthOAuth, creds, save)
	return NewDrive(NewClient("google_drive", f.URLs.GoogleDriveAPI, hc, nil), f.URLs.GoogleUserInfo)
}

// Nylas returns a client for the grant in creds. Requests authenticate
// with the application API key; the grant's own access token is the
// fallback when no key is configured.
func (f *Factory) Nylas(creds domain.Credentials) (*Nylas, error) {
	if creds.GrantID == "" {
		return nil, ErrNotConnected
	}
	bearer := f.NylasAPIKey
	if bearer == "" {
		bearer = creds.AccessToken
	}
	h := http.Header{}
	h.Set("Authorization", "Bearer "+bearer)
	return NewNylas(NewClient("nylas", f.URLs.NylasAPI, f.HTTPClient, h)), nil
}
