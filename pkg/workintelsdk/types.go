package workintelsdk

import "time"

// ============================================================================
// Common
// ============================================================================

// ErrorResponse is the body of every error answer.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// HealthResponse is returned by /livez and /readyz (readyz adds Checks).
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
}

// ============================================================================
// Auth
// ============================================================================

type SignupRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse describes the signed-in user. JoinedTeamID is set when a
// pending invite cookie was redeemed during signup or login.
type UserResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	GitHubLogin  string `json:"github_login,omitempty"`
	JoinedTeamID string `json:"joined_team_id,omitempty"`
}

// ============================================================================
// Teams
// ============================================================================

type CreateTeamRequest struct {
	Name string `json:"name"`
}

type RenameTeamRequest struct {
	Name string `json:"name"`
}

type TeamResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Role        string    `json:"role,omitempty"`
	MemberCount int       `json:"member_count,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type TeamListResponse struct {
	Teams []TeamResponse `json:"teams"`
}

type MemberResponse struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	GitHubLogin string    `json:"github_login,omitempty"`
	JoinedAt    time.Time `json:"joined_at"`
}

type TeamDetailResponse struct {
	TeamResponse
	Members []MemberResponse `json:"members"`
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

// ============================================================================
// Invites
// ============================================================================

type CreateInviteRequest struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// InviteResponse carries the invite link. The token inside InviteURL is
// only ever shown here.
type InviteResponse struct {
	InviteID  string    `json:"invite_id"`
	InviteURL string    `json:"invite_url"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

type PendingInvite struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	InvitedBy string    `json:"invited_by"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

type InviteListResponse struct {
	Invites []PendingInvite `json:"invites"`
}

type AcceptInviteRequest struct {
	Token string `json:"token"`
}

// ============================================================================
// Integrations
// ============================================================================

type IntegrationConfig struct {
	Repos       []string `json:"repos"`
	ProjectKeys []string `json:"project_keys"`
}

type TeamIntegrationResponse struct {
	Provider    string            `json:"provider"`
	AuthMethod  string            `json:"auth_method"`
	Config      IntegrationConfig `json:"config"`
	ConnectedBy string            `json:"connected_by"`
	AccountHint string            `json:"account_hint,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type TeamIntegrationListResponse struct {
	Integrations []TeamIntegrationResponse `json:"integrations"`
}

type GitHubTokenRequest struct {
	Token string   `json:"token"`
	Repos []string `json:"repos"`
}

type JiraTokenRequest struct {
	SiteURL     string   `json:"site_url"`
	Email       string   `json:"email"`
	APIToken    string   `json:"api_token"`
	ProjectKeys []string `json:"project_keys"`
}

type IntegrationConfigRequest struct {
	Repos       []string `json:"repos"`
	ProjectKeys []string `json:"project_keys"`
}

// Tool is one provider's availability for the caller.
type Tool struct {
	Provider     string     `json:"provider"`
	Slug         string     `json:"slug"`
	Name         string     `json:"name"`
	Configured   bool       `json:"configured"`
	PATSupported bool       `json:"pat_supported"`
	Connected    bool       `json:"connected"`
	AccountLabel string     `json:"account_label,omitempty"`
	ConnectedAt  *time.Time `json:"connected_at,omitempty"`
	Scope        string     `json:"scope"`
}

type ToolsResponse struct {
	Tools []Tool `json:"tools"`
}

// ============================================================================
// Brief
// ============================================================================

type Brief struct {
	Date         string        `json:"date"`
	Summary      string        `json:"summary"`
	Emails       []Email       `json:"emails"`
	PullRequests []PullRequest `json:"pull_requests"`
	Meetings     []Meeting     `json:"meetings"`
	JiraTasks    []JiraTask    `json:"jira_tasks"`
	Documents    []Document    `json:"documents"`
	Warnings     []string      `json:"warnings"`
	GeneratedAt  time.Time     `json:"generated_at"`
	Cached       bool          `json:"cached"`
}

type Email struct {
	ID         string    `json:"id"`
	From       string    `json:"from"`
	Subject    string    `json:"subject"`
	Snippet    string    `json:"snippet"`
	ReceivedAt time.Time `json:"received_at"`
}

type PullRequest struct {
	Repo      string    `json:"repo"`
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Author    string    `json:"author"`
	Role      string    `json:"role"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Meeting struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Location  string    `json:"location,omitempty"`
	Attendees int       `json:"attendees"`
}

type JiraTask struct {
	Key      string     `json:"key"`
	Summary  string     `json:"summary"`
	Status   string     `json:"status"`
	Priority string     `json:"priority"`
	URL      string     `json:"url"`
	DueAt    *time.Time `json:"due_at,omitempty"`
}

type Document struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	MimeType   string    `json:"mime_type"`
	ModifiedAt time.Time `json:"modified_at"`
	ModifiedBy string    `json:"modified_by,omitempty"`
}

// ============================================================================
// Tasks
// ============================================================================

type Task struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Source    string     `json:"source,omitempty"`
	SourceURL string     `json:"source_url,omitempty"`
	Status    string     `json:"status"`
	Priority  string     `json:"priority"`
	DueAt     *time.Time `json:"due_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type TaskListResponse struct {
	Tasks []Task `json:"tasks"`
}

type CreateTaskRequest struct {
	Title     string     `json:"title"`
	Source    string     `json:"source,omitempty"`
	SourceURL string     `json:"source_url,omitempty"`
	Priority  string     `json:"priority,omitempty"`
	DueAt     *time.Time `json:"due_at,omitempty"`
}

// UpdateTaskRequest changes only the fields that are set.
type UpdateTaskRequest struct {
	Title    *string    `json:"title,omitempty"`
	Status   *string    `json:"status,omitempty"`
	Priority *string    `json:"priority,omitempty"`
	DueAt    *time.Time `json:"due_at,omitempty"`
}

// ============================================================================
// Weekly reports
// ============================================================================

type GenerateReportRequest struct {
	WeekStart string `json:"week_start,omitempty"` // YYYY-MM-DD, a Monday
}

type ReportStats struct {
	PullRequestsOpened int              `json:"pull_requests_opened"`
	PullRequestsMerged int              `json:"pull_requests_merged"`
	Reviews            int              `json:"reviews"`
	Commits            int              `json:"commits"`
	Members            []MemberActivity `json:"members"`
	Repos              []RepoActivity   `json:"repos"`
	Warnings           []string         `json:"warnings,omitempty"`
}

type MemberActivity struct {
	UserID             string `json:"user_id,omitempty"`
	Name               string `json:"name"`
	GitHubLogin        string `json:"github_login,omitempty"`
	PullRequestsOpened int    `json:"pull_requests_opened"`
	PullRequestsMerged int    `json:"pull_requests_merged"`
	Reviews            int    `json:"reviews"`
	Commits            int    `json:"commits"`
}

type RepoActivity struct {
	Repo               string `json:"repo"`
	PullRequestsOpened int    `json:"pull_requests_opened"`
	PullRequestsMerged int    `json:"pull_requests_merged"`
	Reviews            int    `json:"reviews"`
	Commits            int    `json:"commits"`
}

type ReportResponse struct {
	ID          string      `json:"id"`
	TeamID      string      `json:"team_id"`
	WeekStart   string      `json:"week_start"`
	WeekEnd     string      `json:"week_end"`
	Stats       ReportStats `json:"stats"`
	Summary     string      `json:"summary"`
	GeneratedBy string      `json:"generated_by"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type ReportListResponse struct {
	Reports []ReportResponse `json:"reports"`
}
