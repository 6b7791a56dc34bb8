package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/workintel/internal/workintel/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Sub-repositories hang off it so
// that a Tx exposes exactly the same surface and nested transactions can be
// refused in one place.
type Store interface {
	Users() Users
	Sessions() Sessions
	Teams() Teams
	Members() Members
	Invites() Invites
	TeamIntegrations() TeamIntegrations
	UserIntegrations() UserIntegrations
	Reports() Reports

	ApplyMigrations() error

	// Tx starts a read/write transaction. The caller MUST Commit or Rollback.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when it returns nil.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transactional store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	CreateUser(ctx context.Context, u domain.User) error
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail matches case-insensitively.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	UpdateName(ctx context.Context, userID, name string) error
	UpdateGitHubLogin(ctx context.Context, userID, login string) error
}

type Sessions interface {
	CreateSession(ctx context.Context, s domain.Session) error

	// GetActiveSessionByTokenHash ignores sessions expired at now.
	GetActiveSessionByTokenHash(ctx context.Context, hash string, now time.Time) (domain.Session, error)

	DeleteSession(ctx context.Context, hash string) error
	DeleteAllForUser(ctx context.Context, userID string) error

	// DeleteExpiredSessions returns how many rows were removed.
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

type Teams interface {
	CreateTeam(ctx context.Context, t domain.Team) error
	GetTeamByID(ctx context.Context, id string) (domain.Team, error)

	// ListTeamsForUser returns the user's teams with their role, by name.
	ListTeamsForUser(ctx context.Context, userID string) ([]domain.TeamWithRole, error)

	RenameTeam(ctx context.Context, id, name string) error

	// DeleteTeam cascades to members, invites, integrations and reports.
	DeleteTeam(ctx context.Context, id string) error
}

type Members interface {
	// AddMember returns ErrAlreadyExists when the user is already in the team.
	AddMember(ctx context.Context, m domain.TeamMember) error

	GetMember(ctx context.Context, teamID, userID string) (domain.TeamMember, error)
	ListMembers(ctx context.Context, teamID string) ([]domain.TeamMemberView, error)
	UpdateRole(ctx context.Context, teamID, userID string, role domain.TeamRole) error
	RemoveMember(ctx context.Context, teamID, userID string) error
	CountAdmins(ctx context.Context, teamID string) (int, error)
}

type Invites interface {
	CreateInvite(ctx context.Context, inv domain.TeamInvite) error

	// GetInviteByTokenHash returns the invite regardless of its state, so
	// callers can tell expired from used from unknown.
	GetInviteByTokenHash(ctx context.Context, hash string) (domain.TeamInvite, error)

	// ListPendingInvites returns invites neither accepted nor expired at now.
	ListPendingInvites(ctx context.Context, teamID string, now time.Time) ([]domain.TeamInvite, error)

	// MarkInviteAccepted only updates a not-yet-accepted invite; a second
	// call returns ErrNotFound.
	MarkInviteAccepted(ctx context.Context, inviteID, userID string, at time.Time) error

	DeleteInvite(ctx context.Context, inviteID, teamID string) error

	// DeleteExpiredInvites removes unaccepted invites expired at now.
	DeleteExpiredInvites(ctx context.Context, now time.Time) (int64, error)
}

type TeamIntegrations interface {
	// UpsertTeamIntegration keeps one row per (team, provider); a reconnect
	// replaces credentials, auth method and config.
	UpsertTeamIntegration(ctx context.Context, ti domain.TeamIntegration) error

	GetTeamIntegration(ctx context.Context, teamID string, p domain.Provider) (domain.TeamIntegration, error)
	ListTeamIntegrations(ctx context.Context, teamID string) ([]domain.TeamIntegration, error)

	// ListTeamIntegrationsForUser returns integrations of every team userID belongs to.
	ListTeamIntegrationsForUser(ctx context.Context, userID string, p domain.Provider) ([]domain.TeamIntegration, error)

	UpdateTeamCredentials(ctx context.Context, id string, c domain.Credentials) error
	UpdateTeamConfig(ctx context.Context, teamID string, p domain.Provider, cfg domain.IntegrationConfig) error
	DeleteTeamIntegration(ctx context.Context, teamID string, p domain.Provider) error
}

type UserIntegrations interface {
	// UpsertUserIntegration keeps one row per (user, provider).
	UpsertUserIntegration(ctx context.Context, ui domain.UserIntegration) error

	GetUserIntegration(ctx context.Context, userID string, p domain.Provider) (domain.UserIntegration, error)
	ListUserIntegrations(ctx context.Context, userID string) ([]domain.UserIntegration, error)
	UpdateUserCredentials(ctx context.Context, id string, c domain.Credentials) error
	DeleteUserIntegration(ctx context.Context, userID string, p domain.Provider) error
}

type Reports interface {
	// UpsertReport keeps one row per (team, week_start); regenerating
	// replaces stats and summary but keeps the original id.
	UpsertReport(ctx context.Context, r domain.WeeklyReport) (domain.WeeklyReport, error)

	// GetReport scopes the lookup to teamID.
	GetReport(ctx context.Context, teamID, id string) (domain.WeeklyReport, error)

	// ListReports returns the newest weeks first.
	ListReports(ctx context.Context, teamID string, limit int) ([]domain.WeeklyReport, error)
}
