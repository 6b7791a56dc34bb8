package domain

import "time"

type Team struct {
	ID        string
	Name      string
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type TeamRole string

const (
	RoleAdmin  TeamRole = "admin"
	RoleMember TeamRole = "member"
)

// Valid reports whether r is a known role.
func (r TeamRole) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

type TeamMember struct {
	TeamID   string
	UserID   string
	Role     TeamRole
	JoinedAt time.Time
}

// TeamMemberView joins a membership with the member's profile.
type TeamMemberView struct {
	TeamMember
	Email       string
	Name        string
	GitHubLogin string
}

// TeamWithRole is a team as seen by one of its members.
type TeamWithRole struct {
	Team
	Role        TeamRole
	MemberCount int
}
