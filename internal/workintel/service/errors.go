package service

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")

	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrEmailTaken         = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrTeamNotFound   = errors.New("team not found")
	ErrMemberNotFound = errors.New("member not found")
	ErrLastAdmin      = errors.New("a team needs at least one admin")
	ErrAlreadyMember  = errors.New("user is already a member of this team")
	ErrInvalidRole    = errors.New("invalid role")

	ErrInviteNotFound      = errors.New("invite not found")
	ErrInviteExpired       = errors.New("invite has expired")
	ErrInviteAlreadyUsed   = errors.New("invite has already been used")
	ErrInviteEmailMismatch = errors.New("invite was issued to a different email address")

	ErrInvalidProvider       = errors.New("unknown provider")
	ErrIntegrationNotFound   = errors.New("integration not found")
	ErrProviderNotConfigured = errors.New("provider is not configured")
	ErrInvalidToken          = errors.New("provider rejected the token")
	ErrInvalidState          = errors.New("invalid oauth state")
	ErrAccessDenied          = errors.New("access denied by provider")
	ErrExchangeFailed        = errors.New("oauth code exchange failed")
	ErrNoJiraSite            = errors.New("no jira site available for this account")

	ErrGitHubNotConnected = errors.New("team has no github integration with repositories")
	ErrInvalidWeek        = errors.New("week_start must be a Monday (YYYY-MM-DD)")
	ErrReportNotFound     = errors.New("report not found")
	ErrUpstream           = errors.New("upstream provider failed")

	ErrTaskNotFound = errors.New("task not found")
)
