package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/aussiebroadwan/workintel/internal/workintel/domain"
	"github.com/aussiebroadwan/workintel/internal/workintel/provider"
	"github.com/aussiebroadwan/workintel/internal/workintel/store"
	"github.com/aussiebroadwan/workintel/pkg/idx"
	"github.com/aussiebroadwan/workintel/pkg/slogx"
)

const maxConfigEntries = 50

// TeamIntegrationView is what members see. Credentials never leave the
// service.
type TeamIntegrationView struct {
	Provider    domain.Provider
	AuthMethod  domain.AuthMethod
	Config      domain.IntegrationConfig
	ConnectedBy string
	AccountHint string // Jira site, never a token
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Tool is one provider's status for the settings page.
type Tool struct {
	Provider     domain.Provider
	Name         string
	Configured   bool // OAuth app present
	PATSupported bool // team token connect available
	Connected    bool
	AccountLabel string
	ConnectedAt  *time.Time
	Scope        string // "user" or "team"
}

const (
	ScopeUser = "user"
	ScopeTeam = "team"
)

type IntegrationService struct {
	Store     store.Store
	Providers *provider.Factory
	JiraSites provider.JiraSites
	Clock     Clock

	// Briefs, when set, is cleared for everyone an integration change
	// affects so the next brief reads the new sources.
	Briefs *BriefCache
}

func viewOf(ti domain.TeamIntegration) TeamIntegrationView {
	return TeamIntegrationView{
		Provider:    ti.Provider,
		AuthMethod:  ti.AuthMethod,
		Config:      ti.Config,
		ConnectedBy: ti.ConnectedBy,
		AccountHint: ti.Credentials.SiteURL,
		CreatedAt:   ti.CreatedAt,
		UpdatedAt:   ti.UpdatedAt,
	}
}

// ListTeamIntegrations is open to any member.
func (s *IntegrationService) ListTeamIntegrations(ctx context.Context, userID, teamID string) ([]TeamIntegrationView, error) {
	if _, err := membership(ctx, s.Store, teamID, userID); err != nil {
		return nil, err
	}
	list, err := s.Store.TeamIntegrations().ListTeamIntegrations(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list team integrations: %w", err)
	}
	out := make([]TeamIntegrationView, 0, len(list))
	for _, ti := range list {
		out = append(out, viewOf(ti))
	}
	return out, nil
}

// cleanRepos validates and de-duplicates "owner/name" entries.
func cleanRepos(repos []string) ([]string, error) {
	out := make([]string, 0, len(repos))
	for _, r := range repos {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if !provider.ValidRepo(r) {
			return nil, fmt.Errorf("%w: %q is not owner/name", ErrInvalidInput, r)
		}
		if !slices.ContainsFunc(out, func(s string) bool { return strings.EqualFold(s, r) }) {
			out = append(out, r)
		}
	}
	if len(out) > maxConfigEntries {
		return nil, fmt.Errorf("%w: too many repositories", ErrInvalidInput)
	}
	return out, nil
}

// cleanProjectKeys upper-cases and validates Jira project keys.
func cleanProjectKeys(keys []string) ([]string, error) {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.ToUpper(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		for _, c := range k {
			if (c < 'A' || c > 'Z') && (c < '0' || c > '9') && c != '_' {
				return nil, fmt.Errorf("%w: %q is not a project key", ErrInvalidInput, k)
			}
		}
		if !slices.Contains(out, k) {
			out = append(out, k)
		}
	}
	if len(out) > maxConfigEntries {
		return nil, fmt.Errorf("%w: too many project keys", ErrInvalidInput)
	}
	return out, nil
}

// ConnectGitHubToken stores a personal access token for the team after
// checking it against GitHub.
func (s *IntegrationService) ConnectGitHubToken(ctx context.Context, actorID, teamID, token string, repos []string) (TeamIntegrationView, error) {
	log := slogx.FromContext(ctx)

	token = strings.TrimSpace(token)
	if token == "" {
		return TeamIntegrationView{}, fmt.Errorf("%w: token is required", ErrInvalidInput)
	}
	repos, err := cleanRepos(repos)
	if err != nil {
		return TeamIntegrationView{}, err
	}
	if _, err := requireAdmin(ctx, s.Store, teamID, actorID); err != nil {
		return TeamIntegrationView{}, err
	}

	gh, err := s.Providers.GitHubToken(ctx, token).CurrentUser(ctx)
	if err != nil {
		if provider.IsStatus(err, http.StatusUnauthorized) || provider.IsStatus(err, http.StatusForbidden) {
			return TeamIntegrationView{}, ErrInvalidToken
		}
		log.Error("github token verification failed", slog.Any("error", err))
		return TeamIntegrationView{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	ti, err := s.upsertTeam(ctx, domain.TeamIntegration{
		TeamID:      teamID,
		Provider:    domain.ProviderGitHub,
		AuthMethod:  domain.AuthPAT,
		Credentials: domain.Credentials{AccessToken: token, TokenType: "Bearer"},
		Config:      domain.IntegrationConfig{Repos: repos},
		ConnectedBy: actorID,
	})
	if err != nil {
		return TeamIntegrationView{}, err
	}
	log.Info("github token connected", slog.String("team_id", teamID), slog.String("github_login", gh.Login))
	return viewOf(ti), nil
}

// ConnectJiraToken stores Jira API-token credentials for the team after
// checking them with /myself.
func (s *IntegrationService) ConnectJiraToken(ctx context.Context, actorID, teamID, rawSite, rawEmail, apiToken string, projectKeys []string) (TeamIntegrationView, error) {
	log := slogx.FromContext(ctx)

	site, ok := s.JiraSites.Normalize(rawSite)
	if !ok {
		return TeamIntegrationView{}, fmt.Errorf("%w: site_url must be an https Jira Cloud site or an allowed self-hosted site", ErrInvalidInput)
	}
	email, err := normalizeEmail(rawEmail)
	if err != nil {
		return TeamIntegrationView{}, err
	}
	apiToken = strings.TrimSpace(apiToken)
	if apiToken == "" {
		return TeamIntegrationView{}, fmt.Errorf("%w: api_token is required", ErrInvalidInput)
	}
	keys, err := cleanProjectKeys(projectKeys)
	if err != nil {
		return TeamIntegrationView{}, err
	}
	if _, err := requireAdmin(ctx, s.Store, teamID, actorID); err != nil {
		return TeamIntegrationView{}, err
	}

	if _, err := s.Providers.JiraBasic(site, email, apiToken).Myself(ctx); err != nil {
		if provider.IsStatus(err, http.StatusUnauthorized) || provider.IsStatus(err, http.StatusForbidden) || provider.IsStatus(err, http.StatusNotFound) {
			return TeamIntegrationView{}, ErrInvalidToken
		}
		log.Error("jira token verification failed", slog.Any("error", err))
		return TeamIntegrationView{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	ti, err := s.upsertTeam(ctx, domain.TeamIntegration{
		TeamID:      teamID,
		Provider:    domain.ProviderJira,
		AuthMethod:  domain.AuthPAT,
		Credentials: domain.Credentials{AccessToken: apiToken, Email: email, SiteURL: site},
		Config:      domain.IntegrationConfig{JiraProjectKeys: keys},
		ConnectedBy: actorID,
	})
	if err != nil {
		return TeamIntegrationView{}, err
	}
	log.Info("jira token connected", slog.String("team_id", teamID), slog.String("site", site))
	return viewOf(ti), nil
}

// UpdateTeamConfig replaces which repos or projects a team integration
// reads. Admin only.
func (s *IntegrationService) UpdateTeamConfig(ctx context.Context, actorID, teamID string, p domain.Provider, repos, projectKeys []string) (TeamIntegrationView, error) {
	if !p.TeamScoped() {
		return TeamIntegrationView{}, ErrInvalidProvider
	}
	var cfg domain.IntegrationConfig
	var err error
	if cfg.Repos, err = cleanRepos(repos); err != nil {
		return TeamIntegrationView{}, err
	}
	if cfg.JiraProjectKeys, err = cleanProjectKeys(projectKeys); err != nil {
		return TeamIntegrationView{}, err
	}
	if _, err := requireAdmin(ctx, s.Store, teamID, actorID); err != nil {
		return TeamIntegrationView{}, err
	}

	if err := s.Store.TeamIntegrations().UpdateTeamConfig(ctx, teamID, p, cfg); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return TeamIntegrationView{}, ErrIntegrationNotFound
		}
		return TeamIntegrationView{}, fmt.Errorf("update config: %w", err)
	}
	s.forgetTeamBriefs(ctx, teamID)
	ti, err := s.Store.TeamIntegrations().GetTeamIntegration(ctx, teamID, p)
	if err != nil {
		return TeamIntegrationView{}, fmt.Errorf("get team integration: %w", err)
	}
	return viewOf(ti), nil
}

// DisconnectTeam removes a team integration. Admin only.
func (s *IntegrationService) DisconnectTeam(ctx context.Context, actorID, teamID string, p domain.Provider) error {
	if !p.TeamScoped() {
		return ErrInvalidProvider
	}
	if _, err := requireAdmin(ctx, s.Store, teamID, actorID); err != nil {
		return err
	}
	err := s.Store.TeamIntegrations().DeleteTeamIntegration(ctx, teamID, p)
	if errors.Is(err, store.ErrNotFound) {
		return ErrIntegrationNotFound
	}
	if err != nil {
		return fmt.Errorf("delete team integration: %w", err)
	}
	s.forgetTeamBriefs(ctx, teamID)
	slogx.FromContext(ctx).Info("team integration disconnected", slog.String("team_id", teamID), slog.String("provider", string(p)))
	return nil
}

// DisconnectUser removes the caller's own integration.
func (s *IntegrationService) DisconnectUser(ctx context.Context, userID string, p domain.Provider) error {
	err := s.Store.UserIntegrations().DeleteUserIntegration(ctx, userID, p)
	if errors.Is(err, store.ErrNotFound) {
		return ErrIntegrationNotFound
	}
	if err != nil {
		return fmt.Errorf("delete user integration: %w", err)
	}
	s.forgetUserBriefs(userID)
	slogx.FromContext(ctx).Info("user integration disconnected", slog.String("provider", string(p)))
	return nil
}

// Tools reports each provider's availability for the caller.
func (s *IntegrationService) Tools(ctx context.Context, userID string) ([]Tool, error) {
	own, err := s.Store.UserIntegrations().ListUserIntegrations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user integrations: %w", err)
	}

	tools := make([]Tool, 0, len(domain.Providers))
	for _, p := range domain.Providers {
		t := Tool{
			Provider:   p,
			Name:       p.DisplayName(),
			Configured: s.Providers != nil && s.Providers.OAuth.Configured(p),
			Scope:      ScopeUser,
		}
		if p.TeamScoped() {
			t.Scope = ScopeTeam
			t.PATSupported = true
		}

		if i := slices.IndexFunc(own, func(ui domain.UserIntegration) bool { return ui.Provider == p }); i >= 0 {
			connectedAt := own[i].UpdatedAt
			t.Connected = true
			t.Scope = ScopeUser
			t.AccountLabel = own[i].AccountLabel
			t.ConnectedAt = &connectedAt
		} else if p.TeamScoped() {
			team, err := s.Store.TeamIntegrations().ListTeamIntegrationsForUser(ctx, userID, p)
			if err != nil {
				return nil, fmt.Errorf("list team integrations: %w", err)
			}
			if len(team) > 0 {
				connectedAt := team[0].UpdatedAt
				t.Connected = true
				t.AccountLabel = team[0].Credentials.SiteURL
				t.ConnectedAt = &connectedAt
			}
		}
		tools = append(tools, t)
	}
	return tools, nil
}

func (s *IntegrationService) upsertTeam(ctx context.Context, ti domain.TeamIntegration) (domain.TeamIntegration, error) {
	now := s.Clock.now()
	ti.ID = idx.New().String()
	ti.CreatedAt = now
	ti.UpdatedAt = now
	if err := s.Store.TeamIntegrations().UpsertTeamIntegration(ctx, ti); err != nil {
		return domain.TeamIntegration{}, fmt.Errorf("upsert team integration: %w", err)
	}
	s.forgetTeamBriefs(ctx, ti.TeamID)
	saved, err := s.Store.TeamIntegrations().GetTeamIntegration(ctx, ti.TeamID, ti.Provider)
	if err != nil {
		return domain.TeamIntegration{}, fmt.Errorf("get team integration: %w", err)
	}
	return saved, nil
}

func (s *IntegrationService) upsertUser(ctx context.Context, ui domain.UserIntegration) error {
	now := s.Clock.now()
	ui.ID = idx.New().String()
	ui.CreatedAt = now
	ui.UpdatedAt = now
	if err := s.Store.UserIntegrations().UpsertUserIntegration(ctx, ui); err != nil {
		return fmt.Errorf("upsert user integration: %w", err)
	}
	s.forgetUserBriefs(ui.UserID)
	return nil
}

func (s *IntegrationService) forgetUserBriefs(userID string) {
	if s.Briefs != nil {
		s.Briefs.DeleteUser(userID)
	}
}

// forgetTeamBriefs clears every member's brief. A failed member lookup only
// leaves briefs to expire on their own.
func (s *IntegrationService) forgetTeamBriefs(ctx context.Context, teamID string) {
	if s.Briefs == nil {
		return
	}
	members, err := s.Store.Members().ListMembers(ctx, teamID)
	if err != nil {
		slogx.FromContext(ctx).Warn("could not clear team briefs", slog.String("team_id", teamID), slog.Any("error", err))
		return
	}
	for _, m := range members {
		s.Briefs.DeleteUser(m.UserID)
	}
}

func (s *IntegrationService) teamSaver(id string) provider.CredentialSaver {
	return func(ctx context.Context, c domain.Credentials) error {
		return s.Store.TeamIntegrations().UpdateTeamCredentials(ctx, id, c)
	}
}

func (s *IntegrationService) userSaver(id string) provider.CredentialSaver {
	return func(ctx context.Context, c domain.Credentials) error {
		return s.Store.UserIntegrations().UpdateUserCredentials(ctx, id, c)
	}
}

// userIntegration returns the caller's own integration, or ok=false.
func (s *IntegrationService) userIntegration(ctx context.Context, userID string, p domain.Provider) (domain.UserIntegration, bool, error) {
	ui, err := s.Store.UserIntegrations().GetUserIntegration(ctx, userID, p)
	if errors.Is(err, store.ErrNotFound) {
		return domain.UserIntegration{}, false, nil
	}
	if err != nil {
		return domain.UserIntegration{}, false, fmt.Errorf("get user integration: %w", err)
	}
	return ui, true, nil
}

// firstTeamIntegration returns one of the caller's teams' integrations.
func (s *IntegrationService) firstTeamIntegration(ctx context.Context, userID string, p domain.Provider) (domain.TeamIntegration, bool, error) {
	list, err := s.Store.TeamIntegrations().ListTeamIntegrationsForUser(ctx, userID, p)
	if err != nil {
		return domain.TeamIntegration{}, false, fmt.Errorf("list team integrations: %w", err)
	}
	if len(list) == 0 {
		return domain.TeamIntegration{}, false, nil
	}
	return list[0], true, nil
}

// GitHubForUser prefers the user's own connection, then a team's.
func (s *IntegrationService) GitHubForUser(ctx context.Context, userID string) (*provider.GitHub, bool, error) {
	ui, ok, err := s.userIntegration(ctx, userID, domain.ProviderGitHub)
	if err != nil {
		return nil, false, err
	}
	if ok {
		return s.Providers.GitHub(ctx, domain.AuthOAuth, ui.Credentials, s.userSaver(ui.ID)), true, nil
	}

	ti, ok, err := s.firstTeamIntegration(ctx, userID, domain.ProviderGitHub)
	if err != nil || !ok {
		return nil, false, err
	}
	return s.Providers.GitHub(ctx, ti.AuthMethod, ti.Credentials, s.teamSaver(ti.ID)), true, nil
}

// JiraForUser prefers the user's own connection, then a team's. The
// team's project keys narrow the search.
func (s *IntegrationService) JiraForUser(ctx context.Context, userID string) (*provider.Jira, []string, bool, error) {
	ui, ok, err := s.userIntegration(ctx, userID, domain.ProviderJira)
	if err != nil {
		return nil, nil, false, err
	}
	if ok {
		j, err := s.Providers.Jira(ctx, domain.AuthOAuth, ui.Credentials, s.userSaver(ui.ID))
		if err != nil {
			return nil, nil, false, err
		}
		return j, nil, true, nil
	}

	ti, ok, err := s.firstTeamIntegration(ctx, userID, domain.ProviderJira)
	if err != nil || !ok {
		return nil, nil, false, err
	}
	j, err := s.Providers.Jira(ctx, ti.AuthMethod, ti.Credentials, s.teamSaver(ti.ID))
	if err != nil {
		return nil, nil, false, err
	}
	return j, ti.Config.JiraProjectKeys, true, nil
}

// DriveForUser returns the caller's Drive client, if connected.
func (s *IntegrationService) DriveForUser(ctx context.Context, userID string) (*provider.Drive, bool, error) {
	ui, ok, err := s.userIntegration(ctx, userID, domain.ProviderGoogleDrive)
	if err != nil || !ok {
		return nil, false, err
	}
	return s.Providers.Drive(ctx, ui.Credentials, s.userSaver(ui.ID)), true, nil
}

// NylasForUser returns the caller's mail client and grant id, if connected.
func (s *IntegrationService) NylasForUser(ctx context.Context, userID string) (*provider.Nylas, string, bool, error) {
	ui, ok, err := s.userIntegration(ctx, userID, domain.ProviderNylas)
	if err != nil || !ok {
		return nil, "", false, err
	}
	n, err := s.Providers.Nylas(ui.Credentials)
	if err != nil {
		return nil, "", false, err
	}
	return n, ui.Credentials.GrantID, true, nil
}

// GitHubForTeam returns the team's GitHub client and repo list. Missing
// integration or empty repo list is ErrGitHubNotConnected.
func (s *IntegrationService) GitHubForTeam(ctx context.Context, teamID string) (*provider.GitHub, []string, error) {
	ti, err := s.Store.TeamIntegrations().GetTeamIntegration(ctx, teamID, domain.ProviderGitHub)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, ErrGitHubNotConnected
	}
	if err != nil {
		return nil, nil, fmt.Errorf("get team integration: %w", err)
	}
	if len(ti.Config.Repos) == 0 {
		return nil, nil, ErrGitHubNotConnected
	}
	return s.Providers.GitHub(ctx, ti.AuthMethod, ti.Credentials, s.teamSaver(ti.ID)), ti.Config.Repos, nil
}
