package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/workintel/internal/workintel/domain"
	"github.com/aussiebroadwan/workintel/internal/workintel/provider"
	"github.com/aussiebroadwan/workintel/pkg/jwtx"
	"github.com/aussiebroadwan/workintel/pkg/slogx"
	"golang.org/x/oauth2"
)

// ConnectResult tells the callback handler where to send the browser.
type ConnectResult struct {
	Provider domain.Provider
	Slug     string
	TeamID   string // empty for personal connections
	Label    string
}

// ConnectService runs the OAuth authorization-code flow for every
// provider. State is a short-lived HS256 token bound to the user.
type ConnectService struct {
	Integrations *IntegrationService
	Signer       *jwtx.StateSigner
}

func (s *ConnectService) registry() *provider.OAuthRegistry {
	return s.Integrations.Providers.OAuth
}

// Begin returns the provider URL to redirect to. A teamID connects the
// integration for that team and requires admin.
func (s *ConnectService) Begin(ctx context.Context, userID, slug, teamID string) (string, error) {
	p, ok := provider.ProviderForSlug(slug)
	if !ok {
		return "", ErrInvalidProvider
	}
	app, ok := s.registry().App(p)
	if !ok {
		return "", ErrProviderNotConfigured
	}
	if teamID != "" {
		if !p.TeamScoped() {
			return "", fmt.Errorf("%w: %s cannot be connected for a team", ErrInvalidInput, p.DisplayName())
		}
		if _, err := requireAdmin(ctx, s.Integrations.Store, teamID, userID); err != nil {
			return "", err
		}
	}

	claims := jwtx.NewStateClaims(userID, slug, teamID, s.Signer.Issuer(), jwtx.DefaultStateTTL, s.Signer.Now())
	state, err := s.Signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("sign state: %w", err)
	}

	slogx.FromContext(ctx).Info("oauth connect started", slog.String("provider", slug), slog.String("team_id", teamID))
	return app.AuthCodeURL(state), nil
}

// ReadState verifies a callback's state for slug and returns its claims
// without checking the session user. The handler uses it to pick the
// redirect target before anything else can fail.
func (s *ConnectService) ReadState(slug, rawState string) (jwtx.StateClaims, error) {
	claims, err := s.Signer.Verify(rawState)
	if err != nil || claims.Provider != slug {
		return jwtx.StateClaims{}, ErrInvalidState
	}
	return claims, nil
}

// Complete finishes a callback: verify state, exchange the code, look up
// the account, and store the credentials.
func (s *ConnectService) Complete(ctx context.Context, userID, slug, code, rawState, providerError string) (ConnectResult, error) {
	log := slogx.FromContext(ctx)

	p, ok := provider.ProviderForSlug(slug)
	if !ok {
		return ConnectResult{}, ErrInvalidProvider
	}
	res := ConnectResult{Provider: p, Slug: slug}

	claims, err := s.ReadState(slug, rawState)
	if err != nil {
		log.Warn("oauth callback with bad state", slog.String("provider", slug))
		return res, err
	}
	if claims.Subject != userID {
		log.Warn("oauth callback state belongs to another user", slog.String("provider", slug))
		return res, ErrInvalidState
	}
	res.TeamID = claims.TeamID

	if providerError != "" {
		log.Info("oauth consent declined", slog.String("provider", slug), slog.String("reason", providerError))
		return res, ErrAccessDenied
	}
	if code == "" {
		return res, ErrExchangeFailed
	}

	app, ok := s.registry().App(p)
	if !ok {
		return res, ErrProviderNotConfigured
	}
	if res.TeamID != "" {
		// Roles may have changed while the user was on the consent screen.
		if _, err := requireAdmin(ctx, s.Integrations.Store, res.TeamID, userID); err != nil {
			return res, err
		}
	}

	tok, err := app.Exchange(s.Integrations.Providers.Context(ctx), code)
	if err != nil {
		log.Error("oauth code exchange failed", slog.String("provider", slug), slog.Any("error", err))
		return res, ErrExchangeFailed
	}

	creds := provider.MergeToken(domain.Credentials{}, tok)
	label, err := s.describeAccount(ctx, p, tok, &creds)
	if err != nil {
		if !errors.Is(err, ErrNoJiraSite) {
			log.Error("oauth account lookup failed", slog.String("provider", slug), slog.Any("error", err))
		}
		return res, err
	}
	res.Label = label

	if res.TeamID != "" {
		_, err = s.Integrations.upsertTeam(ctx, domain.TeamIntegration{
			TeamID:      res.TeamID,
			Provider:    p,
			AuthMethod:  domain.AuthOAuth,
			Credentials: creds,
			Config:      s.keepConfig(ctx, res.TeamID, p),
			ConnectedBy: userID,
		})
	} else {
		err = s.Integrations.upsertUser(ctx, domain.UserIntegration{
			UserID:       userID,
			Provider:     p,
			Credentials:  creds,
			AccountLabel: label,
		})
	}
	if err != nil {
		log.Error("failed to store integration", slog.String("provider", slug), slog.Any("error", err))
		return res, ErrExchangeFailed
	}

	if p == domain.ProviderGitHub && label != "" {
		if err := s.Integrations.Store.Users().UpdateGitHubLogin(ctx, userID, label); err != nil {
			log.Error("failed to record github login", slog.Any("error", err))
		}
	}

	log.Info("oauth connect completed", slog.String("provider", slug), slog.String("team_id", res.TeamID))
	return res, nil
}

// describeAccount fills provider specific credential fields and returns
// the label shown in settings.
func (s *ConnectService) describeAccount(ctx context.Context, p domain.Provider, tok *oauth2.Token, creds *domain.Credentials) (string, error) {
	f := s.Integrations.Providers
	switch p {
	case domain.ProviderGitHub:
		u, err := f.GitHub(ctx, domain.AuthPAT, *creds, nil).CurrentUser(ctx)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrExchangeFailed, err)
		}
		return u.Login, nil

	case domain.ProviderJira:
		sites, err := f.AtlassianResources(ctx, tok)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrExchangeFailed, err)
		}
		if len(sites) == 0 {
			return "", ErrNoJiraSite
		}
		creds.CloudID = sites[0].ID
		creds.SiteURL = sites[0].URL
		return sites[0].URL, nil

	case domain.ProviderGoogleDrive:
		info, err := f.Drive(ctx, *creds, nil).UserInfo(ctx)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrExchangeFailed, err)
		}
		creds.Email = info.Email
		return info.Email, nil

	case domain.ProviderNylas:
		creds.GrantID = provider.TokenExtra(tok, "grant_id")
		creds.Email = provider.TokenExtra(tok, "email")
		if creds.GrantID == "" {
			return "", fmt.Errorf("%w: token response has no grant_id", ErrExchangeFailed)
		}
		return creds.Email, nil
	}
	return "", ErrInvalidProvider
}

// keepConfig carries repos and project keys across a reconnect.
func (s *ConnectService) keepConfig(ctx context.Context, teamID string, p domain.Provider) domain.IntegrationConfig {
	ti, err := s.Integrations.Store.TeamIntegrations().GetTeamIntegration(ctx, teamID, p)
	if err != nil {
		return domain.IntegrationConfig{}
	}
	return ti.Config
}
