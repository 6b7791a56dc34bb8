package domain

import "time"

// Brief is the per-user daily digest shown on the dashboard.
type Brief struct {
	UserID       string            `json:"user_id"`
	Date         string            `json:"date"` // YYYY-MM-DD
	Summary      string            `json:"summary"`
	Emails       []EmailItem       `json:"emails"`
	PullRequests []PullRequestItem `json:"pull_requests"`
	Meetings     []MeetingItem     `json:"meetings"`
	JiraTasks    []JiraTaskItem    `json:"jira_tasks"`
	Documents    []DocumentItem    `json:"documents"`
	Warnings     []string          `json:"warnings"`
	GeneratedAt  time.Time         `json:"generated_at"`
	Cached       bool              `json:"cached"`
}

// Empty reports whether no source contributed anything.
func (b Brief) Empty() bool {
	return len(b.Emails)+len(b.PullRequests)+len(b.Meetings)+len(b.JiraTasks)+len(b.Documents) == 0
}

type EmailItem struct {
	ID         string    `json:"id"`
	From       string    `json:"from"`
	Subject    string    `json:"subject"`
	Snippet    string    `json:"snippet"`
	ReceivedAt time.Time `json:"received_at"`
}

type PullRequestItem struct {
	Repo      string    `json:"repo"`
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Author    string    `json:"author"`
	Role      string    `json:"role"` // "review_requested" or "author"
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	PRRoleReviewRequested = "review_requested"
	PRRoleAuthor          = "author"
)

type MeetingItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Location  string    `json:"location,omitempty"`
	Attendees int       `json:"attendees"`
}

type JiraTaskItem struct {
	Key      string     `json:"key"`
	Summary  string     `json:"summary"`
	Status   string     `json:"status"`
	Priority string     `json:"priority"`
	URL      string     `json:"url"`
	DueAt    *time.Time `json:"due_at,omitempty"`
}

type DocumentItem struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	MimeType   string    `json:"mime_type"`
	ModifiedAt time.Time `json:"modified_at"`
	ModifiedBy string    `json:"modified_by,omitempty"`
}
