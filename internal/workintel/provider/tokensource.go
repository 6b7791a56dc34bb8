package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/aussiebroadwan/workintel/internal/workintel/domain"
	"github.com/aussiebroadwan/workintel/pkg/slogx"
	"golang.org/x/oauth2"
)

// ErrTokenRefresh means the stored token expired and could not be renewed;
// the user has to reconnect.
var ErrTokenRefresh = errors.New("provider: token refresh failed")

// CredentialSaver persists credentials after a refresh.
type CredentialSaver func(ctx context.Context, creds domain.Credentials) error

// TokenFromCredentials converts stored credentials to an oauth2 token. A
// zero expiry means the token never expires.
func TokenFromCredentials(c domain.Credentials) *oauth2.Token {
	tokenType := c.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		TokenType:    tokenType,
		Expiry:       c.Expiry,
	}
}

// MergeToken copies tok into c. Providers that do not rotate refresh
// tokens omit them from refresh responses, so an empty one keeps the old.
func MergeToken(c domain.Credentials, tok *oauth2.Token) domain.Credentials {
	c.AccessToken = tok.AccessToken
	if tok.RefreshToken != "" {
		c.RefreshToken = tok.RefreshToken
	}
	c.TokenType = tok.TokenType
	c.Expiry = tok.Expiry
	return c
}

// persistingSource hands out tokens from base and writes back any token
// whose access token changed since the last call.
type persistingSource struct {
	ctx   context.Context
	base  oauth2.TokenSource
	creds domain.Credentials
	save  CredentialSaver

	mu   sync.Mutex
	last string
}

func (s *persistingSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenRefresh, err)
	}

	s.mu.Lock()
	changed := tok.AccessToken != s.last
	s.last = tok.AccessToken
	if changed {
		s.creds = MergeToken(s.creds, tok)
	}
	creds := s.creds
	s.mu.Unlock()

	if changed && s.save != nil {
		if err := s.save(s.ctx, creds); err != nil {
			// The token is still good for this request.
			slogx.FromContext(s.ctx).Error("persist refreshed token", "err", err)
		} else {
			slogx.FromContext(s.ctx).Info("oauth token refreshed")
		}
	}
	return tok, nil
}

// TokenSource returns a source that refreshes through cfg when the stored
// token has expired and saves the result. With a nil cfg (PATs, or a
// provider whose app is no longer configured) the stored token is used
// as-is.
func TokenSource(ctx context.Context, cfg *oauth2.Config, creds domain.Credentials, save CredentialSaver) oauth2.TokenSource {
	tok := TokenFromCredentials(creds)
	if cfg == nil || tok.RefreshToken == "" {
		return oauth2.StaticTokenSource(tok)
	}
	return &persistingSource{
		ctx:   ctx,
		base:  cfg.TokenSource(ctx, tok),
		creds: creds,
		save:  save,
		last:  tok.AccessToken,
	}
}

// authClient wraps ts in an oauth2 transport on top of base.
func authClient(ctx context.Context, base *http.Client, ts oauth2.TokenSource) *http.Client {
	return oauth2.NewClient(WithHTTPClient(ctx, base), ts)
}
