package domain

import "time"

type User struct {
	ID           string
	Email        string // stored lower-cased
	Name         string
	PasswordHash string // argon2id PHC string
	GitHubLogin  string // filled by the GitHub OAuth callback; maps report activity to members
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session is a signed-in browser. Only the fingerprint of the cookie value
// is stored.
type Session struct {
	ID        string
	UserID    string
	TokenHash string
	UserAgent string
	IPAddress string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// SessionUser is what the routing middleware resolves a cookie to.
type SessionUser struct {
	UserID string
	Email  string
	Name   string
}
