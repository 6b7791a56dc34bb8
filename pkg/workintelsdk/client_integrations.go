package workintelsdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ============================================================================
// Team integrations
// ============================================================================

func (c *Client) ListTeamIntegrations(ctx context.Context, teamID string) ([]TeamIntegrationResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, teamPath(teamID)+"/integrations", nil, nil)
	if err != nil {
		return nil, err
	}

	var out TeamIntegrationListResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}

	return out.Integrations, nil
}

// ConnectGitHubToken stores a personal access token for the team.
func (c *Client) ConnectGitHubToken(ctx context.Context, teamID string, req GitHubTokenRequest) (*TeamIntegrationResponse, error) {
	return c.teamIntegrationCall(ctx, http.MethodPost, teamPath(teamID)+"/integrations/github/token", req)
}

// ConnectJiraToken stores a Jira API token for the team.
func (c *Client) ConnectJiraToken(ctx context.Context, teamID string, req JiraTokenRequest) (*TeamIntegrationResponse, error) {
	return c.teamIntegrationCall(ctx, http.MethodPost, teamPath(teamID)+"/integrations/jira/token", req)
}

// UpdateIntegrationConfig replaces the repos or project keys a team
// integration reads.
func (c *Client) UpdateIntegrationConfig(ctx context.Context, teamID, provider string, req IntegrationConfigRequest) (*TeamIntegrationResponse, error) {
	path := teamPath(teamID) + "/integrations/" + url.PathEscape(provider) + "/config"
	return c.teamIntegrationCall(ctx, http.MethodPut, path, req)
}

func (c *Client) DisconnectTeamIntegration(ctx context.Context, teamID, provider string) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, teamPath(teamID)+"/integrations/"+url.PathEscape(provider), nil, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

func (c *Client) teamIntegrationCall(ctx context.Context, method, path string, in any) (*TeamIntegrationResponse, error) {
	resp, err := c.doJSON(ctx, method, path, in)
	if err != nil {
		return nil, err
	}

	var out TeamIntegrationResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}

	return &out, nil
}

// ============================================================================
// User integrations and OAuth
// ============================================================================

// ConnectURL starts the OAuth flow for slug (github, atlassian,
// google-drive, nylas) and returns where the server redirected to: the
// provider's authorize URL, or a settings page carrying ?error=.
func (c *Client) ConnectURL(ctx context.Context, slug, teamID string) (string, error) {
	path := "/api/integrations/" + url.PathEscape(slug) + "/connect"
	if teamID != "" {
		path += "?team_id=" + url.QueryEscape(teamID)
	}

	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusFound {
		return "", fmt.Errorf("connect %s: unexpected status %d", slug, resp.StatusCode)
	}

	return resp.Header.Get("Location"), nil
}

// DisconnectIntegration removes the caller's own integration for slug.
func (c *Client) DisconnectIntegration(ctx context.Context, slug string) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, "/api/integrations/"+url.PathEscape(slug), nil, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// Tools lists every provider with its state for the caller.
func (c *Client) Tools(ctx context.Context) ([]Tool, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/tools", nil, nil)
	if err != nil {
		return nil, err
	}

	var out ToolsResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}

	return out.Tools, nil
}
