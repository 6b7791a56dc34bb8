package llm

import (
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/workintel/internal/workintel/domain"
)

// Items listed per section in prompts and fallbacks.
const promptItemsPerSection = 5

const briefSystem = `You are a concise executive assistant. Given a person's unread email,
pull requests, meetings, Jira tasks and recently edited documents for today,
write a short plain-text digest (at most 6 sentences) of what needs their
attention first. Mention concrete items by name. Do not invent items.`

const reportSystem = `You write weekly engineering team updates. Given aggregated GitHub
activity for one week, write 3-5 sentences covering throughput, who
contributed most, and anything unusual. Plain text, no headings, do not
invent numbers.`

// BriefPrompt builds the daily digest prompt for b.
func BriefPrompt(b domain.Brief) Prompt {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Date: %s\n", b.Date)

	fmt.Fprintf(&sb, "\nUnread emails (%d):\n", len(b.Emails))
	for _, e := range head(b.Emails) {
		fmt.Fprintf(&sb, "- from %s: %s\n", e.From, e.Subject)
	}
	fmt.Fprintf(&sb, "\nPull requests (%d):\n", len(b.PullRequests))
	for _, pr := range head(b.PullRequests) {
		fmt.Fprintf(&sb, "- [%s] %s#%d %s (by %s)\n", pr.Role, pr.Repo, pr.Number, pr.Title, pr.Author)
	}
	fmt.Fprintf(&sb, "\nMeetings today (%d):\n", len(b.Meetings))
	for _, m := range head(b.Meetings) {
		fmt.Fprintf(&sb, "- %s %s\n", m.StartsAt.Format("15:04 MST"), m.Title)
	}
	fmt.Fprintf(&sb, "\nJira tasks (%d):\n", len(b.JiraTasks))
	for _, t := range head(b.JiraTasks) {
		fmt.Fprintf(&sb, "- %s %s [%s, %s]\n", t.Key, t.Summary, t.Status, t.Priority)
	}
	fmt.Fprintf(&sb, "\nRecently edited documents (%d):\n", len(b.Documents))
	for _, d := range head(b.Documents) {
		fmt.Fprintf(&sb, "- %s\n", d.Name)
	}

	return Prompt{
		System:    briefSystem,
		User:      sb.String(),
		MaxTokens: 300,
		Fallback:  BriefFallback(b),
	}
}

// BriefFallback summarises b from counts and the top item of each section.
func BriefFallback(b domain.Brief) string {
	if b.Empty() {
		return "Nothing needs your attention right now. Connect more tools in Settings to get a fuller brief."
	}

	var parts []string
	reviews := 0
	for _, pr := range b.PullRequests {
		if pr.Role == domain.PRRoleReviewRequested {
			reviews++
		}
	}
	if reviews > 0 {
		parts = append(parts, plural(reviews, "pull request", "pull requests")+" waiting for your review")
	}
	if own := len(b.PullRequests) - reviews; own > 0 {
		parts = append(parts, plural(own, "open pull request", "open pull requests")+" of your own")
	}
	if n := len(b.Meetings); n > 0 {
		parts = append(parts, plural(n, "meeting", "meetings")+" today")
	}
	if n := len(b.JiraTasks); n > 0 {
		parts = append(parts, plural(n, "open Jira task", "open Jira tasks"))
	}
	if n := len(b.Emails); n > 0 {
		parts = append(parts, plural(n, "unread email", "unread emails"))
	}
	if n := len(b.Documents); n > 0 {
		parts = append(parts, plural(n, "recently edited document", "recently edited documents"))
	}

	out := "You have " + joinList(parts) + "."
	switch {
	case len(b.Meetings) > 0:
		out += fmt.Sprintf(" First up: %s at %s.", b.Meetings[0].Title, b.Meetings[0].StartsAt.Format("15:04"))
	case reviews > 0:
		for _, pr := range b.PullRequests {
			if pr.Role == domain.PRRoleReviewRequested {
				out += fmt.Sprintf(" Start with %s#%d: %s.", pr.Repo, pr.Number, pr.Title)
				break
			}
		}
	case len(b.JiraTasks) > 0:
		out += fmt.Sprintf(" Top task: %s %s.", b.JiraTasks[0].Key, b.JiraTasks[0].Summary)
	}
	return out
}

// WeeklyReportPrompt builds the team update prompt.
func WeeklyReportPrompt(teamName string, weekStart time.Time, stats domain.ReportStats) Prompt {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Team: %s\nWeek of %s\n\n", teamName, weekStart.Format(time.DateOnly))
	fmt.Fprintf(&sb, "Totals: %d PRs opened, %d merged, %d reviews, %d commits\n",
		stats.PullRequestsOpened, stats.PullRequestsMerged, stats.Reviews, stats.Commits)

	sb.WriteString("\nBy member:\n")
	for _, m := range stats.Members {
		fmt.Fprintf(&sb, "- %s: %d opened, %d merged, %d reviews, %d commits\n",
			m.Name, m.PullRequestsOpened, m.PullRequestsMerged, m.Reviews, m.Commits)
	}
	sb.WriteString("\nBy repository:\n")
	for _, r := range stats.Repos {
		fmt.Fprintf(&sb, "- %s: %d opened, %d merged, %d reviews, %d commits\n",
			r.Repo, r.PullRequestsOpened, r.PullRequestsMerged, r.Reviews, r.Commits)
	}

	return Prompt{
		System:    reportSystem,
		User:      sb.String(),
		MaxTokens: 400,
		Fallback:  WeeklyReportFallback(teamName, weekStart, stats),
	}
}

// WeeklyReportFallback states the totals and the most active member.
func WeeklyReportFallback(teamName string, weekStart time.Time, stats domain.ReportStats) string {
	out := fmt.Sprintf("%s, week of %s: %s opened, %d merged, %s, %s across %s.",
		teamName, weekStart.Format("Jan 2"),
		plural(stats.PullRequestsOpened, "pull request", "pull requests"),
		stats.PullRequestsMerged,
		plural(stats.Reviews, "review", "reviews"),
		plural(stats.Commits, "commit", "commits"),
		plural(len(stats.Repos), "repository", "repositories"))

	var top *domain.MemberActivity
	best := 0
	for i := range stats.Members {
		m := &stats.Members[i]
		if m.UserID == "" {
			continue
		}
		if score := m.PullRequestsOpened + m.PullRequestsMerged + m.Reviews + m.Commits; score > best {
			top, best = m, score
		}
	}
	if top != nil {
		out += fmt.Sprintf(" Most active: %s.", top.Name)
	}
	return out
}

func head[T any](items []T) []T {
	if len(items) > promptItemsPerSection {
		return items[:promptItemsPerSection]
	}
	return items
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}

func joinList(parts []string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
}
