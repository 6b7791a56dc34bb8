package domain

import "time"

// Provider identifies an external system Work Intel reads from.
type Provider string

const (
	ProviderGitHub      Provider = "github"
	ProviderJira        Provider = "jira"
	ProviderGoogleDrive Provider = "google_drive"
	ProviderNylas       Provider = "nylas"
)

// Providers lists every provider in display order.
var Providers = []Provider{ProviderGitHub, ProviderJira, ProviderGoogleDrive, ProviderNylas}

func (p Provider) Valid() bool {
	switch p {
	case ProviderGitHub, ProviderJira, ProviderGoogleDrive, ProviderNylas:
		return true
	}
	return false
}

// TeamScoped reports whether p can be connected for a whole team. Drive
// and email are personal.
func (p Provider) TeamScoped() bool {
	return p == ProviderGitHub || p == ProviderJira
}

// DisplayName is the human label used on the settings page.
func (p Provider) DisplayName() string {
	switch p {
	case ProviderGitHub:
		return "GitHub"
	case ProviderJira:
		return "Jira"
	case ProviderGoogleDrive:
		return "Google Drive"
	case ProviderNylas:
		return "Email & Calendar"
	}
	return string(p)
}

type AuthMethod string

const (
	AuthOAuth AuthMethod = "oauth"
	AuthPAT   AuthMethod = "pat"
)

// Credentials are stored encrypted. Which fields are set depends on the
// provider and auth method.
type Credentials struct {
	AccessToken  string    `json:"access_token,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	Expiry       time.Time `json:"expiry,omitzero"`

	// Jira: Email+AccessToken form basic auth for API tokens; CloudID is
	// set for OAuth (3LO) connections.
	Email   string `json:"email,omitempty"`
	SiteURL string `json:"site_url,omitempty"`
	CloudID string `json:"cloud_id,omitempty"`

	// Nylas grant the API key acts on.
	GrantID string `json:"grant_id,omitempty"`
}

// IntegrationConfig holds what a team integration should read.
type IntegrationConfig struct {
	Repos           []string `json:"repos,omitempty"`             // "owner/name"
	JiraProjectKeys []string `json:"jira_project_keys,omitempty"` // "ENG", "OPS"
}

type TeamIntegration struct {
	ID          string
	TeamID      string
	Provider    Provider
	AuthMethod  AuthMethod
	Credentials Credentials
	Config      IntegrationConfig
	ConnectedBy string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type UserIntegration struct {
	ID           string
	UserID       string
	Provider     Provider
	Credentials  Credentials
	AccountLabel string // login or email shown in the UI
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
