package http

import (
	"time"

	"github.com/aussiebroadwan/workintel/internal/workintel/domain"
	"github.com/aussiebroadwan/workintel/internal/workintel/provider"
	"github.com/aussiebroadwan/workintel/internal/workintel/service"
	sdk "github.com/aussiebroadwan/workintel/pkg/workintelsdk"
)

// mapSlice converts every element and never returns nil, so lists encode
// as [] rather than null.
func mapSlice[S, D any](in []S, f func(S) D) []D {
	out := make([]D, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}

func toUser(u domain.User) sdk.UserResponse {
	return sdk.UserResponse{ID: u.ID, Email: u.Email, Name: u.Name, GitHubLogin: u.GitHubLogin}
}

func toTeam(t domain.Team) sdk.TeamResponse {
	return sdk.TeamResponse{ID: t.ID, Name: t.Name, CreatedAt: t.CreatedAt}
}

func toTeamWithRole(t domain.TeamWithRole) sdk.TeamResponse {
	out := toTeam(t.Team)
	out.Role = string(t.Role)
	out.MemberCount = t.MemberCount
	return out
}

func toMember(m domain.TeamMemberView) sdk.MemberResponse {
	return sdk.MemberResponse{
		UserID:      m.UserID,
		Email:       m.Email,
		Name:        m.Name,
		Role:        string(m.Role),
		GitHubLogin: m.GitHubLogin,
		JoinedAt:    m.JoinedAt,
	}
}

func toTeamDetail(d service.TeamDetail) sdk.TeamDetailResponse {
	team := toTeam(d.Team)
	team.Role = string(d.Role)
	team.MemberCount = len(d.Members)
	return sdk.TeamDetailResponse{TeamResponse: team, Members: mapSlice(d.Members, toMember)}
}

func toPendingInvite(inv domain.TeamInvite) sdk.PendingInvite {
	return sdk.PendingInvite{
		ID:        inv.ID,
		Email:     inv.Email,
		Role:      string(inv.Role),
		InvitedBy: inv.InvitedBy,
		ExpiresAt: inv.ExpiresAt,
		CreatedAt: inv.CreatedAt,
	}
}

func toIntegration(v service.TeamIntegrationView) sdk.TeamIntegrationResponse {
	return sdk.TeamIntegrationResponse{
		Provider:   string(v.Provider),
		AuthMethod: string(v.AuthMethod),
		Config: sdk.IntegrationConfig{
			Repos:       orEmpty(v.Config.Repos),
			ProjectKeys: orEmpty(v.Config.JiraProjectKeys),
		},
		ConnectedBy: v.ConnectedBy,
		AccountHint: v.AccountHint,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

func toTool(t service.Tool) sdk.Tool {
	return sdk.Tool{
		Provider:     string(t.Provider),
		Slug:         provider.SlugFor(t.Provider),
		Name:         t.Name,
		Configured:   t.Configured,
		PATSupported: t.PATSupported,
		Connected:    t.Connected,
		AccountLabel: t.AccountLabel,
		ConnectedAt:  t.ConnectedAt,
		Scope:        t.Scope,
	}
}

func toBrief(b domain.Brief) sdk.Brief {
	return sdk.Brief{
		Date:         b.Date,
		Summary:      b.Summary,
		Emails:       mapSlice(b.Emails, func(e domain.EmailItem) sdk.Email { return sdk.Email(e) }),
		PullRequests: mapSlice(b.PullRequests, func(p domain.PullRequestItem) sdk.PullRequest { return sdk.PullRequest(p) }),
		Meetings:     mapSlice(b.Meetings, func(m domain.MeetingItem) sdk.Meeting { return sdk.Meeting(m) }),
		JiraTasks:    mapSlice(b.JiraTasks, func(j domain.JiraTaskItem) sdk.JiraTask { return sdk.JiraTask(j) }),
		Documents:    mapSlice(b.Documents, func(d domain.DocumentItem) sdk.Document { return sdk.Document(d) }),
		Warnings:     orEmpty(b.Warnings),
		GeneratedAt:  b.GeneratedAt,
		Cached:       b.Cached,
	}
}

func toTask(t domain.Task) sdk.Task {
	return sdk.Task{
		ID:        t.ID,
		Title:     t.Title,
		Source:    t.Source,
		SourceURL: t.SourceURL,
		Status:    string(t.Status),
		Priority:  string(t.Priority),
		DueAt:     t.DueAt,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func toReport(r domain.WeeklyReport) sdk.ReportResponse {
	return sdk.ReportResponse{
		ID:        r.ID,
		TeamID:    r.TeamID,
		WeekStart: r.WeekStart.Format(time.DateOnly),
		WeekEnd:   r.WeekEnd.Format(time.DateOnly),
		Stats: sdk.ReportStats{
			PullRequestsOpened: r.Stats.PullRequestsOpened,
			PullRequestsMerged: r.Stats.PullRequestsMerged,
			Reviews:            r.Stats.Reviews,
			Commits:            r.Stats.Commits,
			Members:            mapSlice(r.Stats.Members, func(m domain.MemberActivity) sdk.MemberActivity { return sdk.MemberActivity(m) }),
			Repos:              mapSlice(r.Stats.Repos, func(a domain.RepoActivity) sdk.RepoActivity { return sdk.RepoActivity(a) }),
			Warnings:           r.Stats.Warnings,
		},
		Summary:     r.Summary,
		GeneratedBy: r.GeneratedBy,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
