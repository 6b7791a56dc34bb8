package workintelsdk

import (
	"context"
	"net/http"
	"net/url"
)

// ============================================================================
// Teams
// ============================================================================

func (c *Client) ListTeams(ctx context.Context) ([]TeamResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/teams", nil, nil)
	if err != nil {
		return nil, err
	}

	var out TeamListResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}

	return out.Teams, nil
}

// CreateTeam creates a team with the caller as its first admin.
func (c *Client) CreateTeam(ctx context.Context, name string) (*TeamResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/api/teams", CreateTeamRequest{Name: name})
	if err != nil {
		return nil, err
	}

	var team TeamResponse
	if err := decodeJSON(resp, &team, http.StatusCreated); err != nil {
		return nil, err
	}

	return &team, nil
}

func (c *Client) GetTeam(ctx context.Context, teamID string) (*TeamDetailResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, teamPath(teamID), nil, nil)
	if err != nil {
		return nil, err
	}

	var team TeamDetailResponse
	if err := decodeJSON(resp, &team, http.StatusOK); err != nil {
		return nil, err
	}

	return &team, nil
}

func (c *Client) RenameTeam(ctx context.Context, teamID, name string) (*TeamResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPatch, teamPath(teamID), RenameTeamRequest{Name: name})
	if err != nil {
		return nil, err
	}

	var team TeamResponse
	if err := decodeJSON(resp, &team, http.StatusOK); err != nil {
		return nil, err
	}

	return &team, nil
}

func (c *Client) DeleteTeam(ctx context.Context, teamID string) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, teamPath(teamID), nil, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// ============================================================================
// Members
// ============================================================================

func (c *Client) UpdateMemberRole(ctx context.Context, teamID, userID, role string) (*MemberResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPatch, teamPath(teamID)+"/members/"+url.PathEscape(userID), UpdateRoleRequest{Role: role})
	if err != nil {
		return nil, err
	}

	var member MemberResponse
	if err := decodeJSON(resp, &member, http.StatusOK); err != nil {
		return nil, err
	}

	return &member, nil
}

// RemoveMember removes userID from the team; members may remove themselves.
func (c *Client) RemoveMember(ctx context.Context, teamID, userID string) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, teamPath(teamID)+"/members/"+url.PathEscape(userID), nil, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// ============================================================================
// Invites
// ============================================================================

// CreateInvite issues an invite link for email. The returned InviteURL is
// the only place the token is ever shown.
func (c *Client) CreateInvite(ctx context.Context, teamID string, req CreateInviteRequest) (*InviteResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, teamPath(teamID)+"/invites", req)
	if err != nil {
		return nil, err
	}

	var invite InviteResponse
	if err := decodeJSON(resp, &invite, http.StatusCreated); err != nil {
		return nil, err
	}

	return &invite, nil
}

func (c *Client) ListInvites(ctx context.Context, teamID string) ([]PendingInvite, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, teamPath(teamID)+"/invites", nil, nil)
	if err != nil {
		return nil, err
	}

	var out InviteListResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}

	return out.Invites, nil
}

func (c *Client) RevokeInvite(ctx context.Context, teamID, inviteID string) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, teamPath(teamID)+"/invites/"+url.PathEscape(inviteID), nil, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// AcceptInvite joins the team behind token as the signed-in user.
func (c *Client) AcceptInvite(ctx context.Context, token string) (*TeamResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/api/invites/accept", AcceptInviteRequest{Token: token})
	if err != nil {
		return nil, err
	}

	var team TeamResponse
	if err := decodeJSON(resp, &team, http.StatusOK); err != nil {
		return nil, err
	}

	return &team, nil
}

func teamPath(teamID string) string {
	return "/api/teams/" + url.PathEscape(teamID)
}
