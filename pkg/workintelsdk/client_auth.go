package workintelsdk

import (
	"context"
	"net/http"
)

// Signup creates an account and stores the session cookie.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*UserResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/api/auth/signup", req)
	if err != nil {
		return nil, err
	}

	var user UserResponse
	if err := decodeJSON(resp, &user, http.StatusCreated); err != nil {
		return nil, err
	}

	return &user, nil
}

// Login signs in and stores the session cookie.
func (c *Client) Login(ctx context.Context, email, password string) (*UserResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	var user UserResponse
	if err := decodeJSON(resp, &user, http.StatusOK); err != nil {
		return nil, err
	}

	return &user, nil
}

// Logout ends the session. It succeeds even when no session exists.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// Me returns the signed-in user.
func (c *Client) Me(ctx context.Context) (*UserResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/auth/me", nil, nil)
	if err != nil {
		return nil, err
	}

	var user UserResponse
	if err := decodeJSON(resp, &user, http.StatusOK); err != nil {
		return nil, err
	}

	return &user, nil
}
