package domain

import "time"

// ExternalContributor buckets activity by GitHub logins that do not belong
// to any team member.
const ExternalContributor = "external"

type WeeklyReport struct {
	ID          string
	TeamID      string
	WeekStart   time.Time // Monday 00:00 UTC
	WeekEnd     time.Time // exclusive, WeekStart + 7d
	Stats       ReportStats
	Summary     string
	GeneratedBy string
	CreatedAt   time.Time
	UpdatedAt   time.Time
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

// WeekStartOf returns the Monday 00:00 UTC of the week containing t.
func WeekStartOf(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7 // Monday=0
	return day.AddDate(0, 0, -offset)
}
