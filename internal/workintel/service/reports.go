package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/workintel/internal/workintel/domain"
	"github.com/aussiebroadwan/workintel/internal/workintel/llm"
	"github.com/aussiebroadwan/workintel/internal/workintel/provider"
	"github.com/aussiebroadwan/workintel/internal/workintel/store"
	"github.com/aussiebroadwan/workintel/pkg/idx"
	"github.com/aussiebroadwan/workintel/pkg/slogx"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultReportListLimit = 12
	reportRepoParallelism  = 4
)

type ReportService struct {
	Store        store.Store
	Integrations *IntegrationService
	Summarizer   llm.Summarizer
	Clock        Clock
}

// ParseWeekStart parses YYYY-MM-DD and requires a Monday. Empty means the
// current week.
func ParseWeekStart(raw string, now time.Time) (time.Time, error) {
	if raw == "" {
		return domain.WeekStartOf(now), nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil || t.Weekday() != time.Monday {
		return time.Time{}, ErrInvalidWeek
	}
	return t, nil
}

// Generate aggregates the team's GitHub activity for the week starting at
// weekStart (a Monday, UTC) and stores it, replacing any earlier report
// for that week. Any member may generate.
func (s *ReportService) Generate(ctx context.Context, userID, teamID string, weekStart time.Time) (domain.WeeklyReport, error) {
	log := slogx.FromContext(ctx)

	if weekStart.Weekday() != time.Monday || !weekStart.Equal(domain.WeekStartOf(weekStart)) {
		return domain.WeeklyReport{}, ErrInvalidWeek
	}
	if _, err := membership(ctx, s.Store, teamID, userID); err != nil {
		return domain.WeeklyReport{}, err
	}
	team, err := s.Store.Teams().GetTeamByID(ctx, teamID)
	if err != nil {
		return domain.WeeklyReport{}, fmt.Errorf("get team: %w", err)
	}

	gh, repos, err := s.Integrations.GitHubForTeam(ctx, teamID)
	if err != nil {
		return domain.WeeklyReport{}, err
	}
	members, err := s.Store.Members().ListMembers(ctx, teamID)
	if err != nil {
		return domain.WeeklyReport{}, fmt.Errorf("list members: %w", err)
	}

	weekEnd := weekStart.AddDate(0, 0, 7)
	stats, err := aggregateWeek(ctx, gh, repos, members, weekStart, weekEnd)
	if err != nil {
		log.Error("weekly report aggregation failed", slog.String("team_id", teamID), slog.Any("error", err))
		return domain.WeeklyReport{}, err
	}

	summary, err := llm.SummarizeOrFallback(ctx, s.Summarizer, llm.WeeklyReportPrompt(team.Name, weekStart, stats))
	if err != nil {
		log.Warn("report summary fell back", slog.Any("error", err))
	}

	now := s.Clock.now()
	rep, err := s.Store.Reports().UpsertReport(ctx, domain.WeeklyReport{
		ID:          idx.New().String(),
		TeamID:      teamID,
		WeekStart:   weekStart,
		WeekEnd:     weekEnd,
		Stats:       stats,
		Summary:     summary,
		GeneratedBy: userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return domain.WeeklyReport{}, fmt.Errorf("store report: %w", err)
	}

	log.Info("weekly report generated",
		slog.String("team_id", teamID),
		slog.String("week_start", weekStart.Format(time.DateOnly)),
		slog.Int("repos", len(repos)),
		slog.Int("warnings", len(stats.Warnings)),
	)
	return rep, nil
}

// List returns the latest reports of a team. Members only.
func (s *ReportService) List(ctx context.Context, userID, teamID string, limit int) ([]domain.WeeklyReport, error) {
	if _, err := membership(ctx, s.Store, teamID, userID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > DefaultReportListLimit {
		limit = DefaultReportListLimit
	}
	reports, err := s.Store.Reports().ListReports(ctx, teamID, limit)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

// Get returns one report of the team. Members only.
func (s *ReportService) Get(ctx context.Context, userID, teamID, reportID string) (domain.WeeklyReport, error) {
	if _, err := membership(ctx, s.Store, teamID, userID); err != nil {
		return domain.WeeklyReport{}, err
	}
	rep, err := s.Store.Reports().GetReport(ctx, teamID, reportID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.WeeklyReport{}, ErrReportNotFound
	}
	if err != nil {
		return domain.WeeklyReport{}, fmt.Errorf("get report: %w", err)
	}
	return rep, nil
}

// repoWeek is what one repository contributed.
type repoWeek struct {
	repo    string
	opened  []string // author logins
	merged  []string
	reviews []string // reviewer logins
	commits []string // author logins, "" when unlinked

	truncated []string // listings cut short by the page limit
}

// aggregateWeek fetches every repo concurrently. A failing repo becomes a
// warning; if all fail the report fails.
func aggregateWeek(ctx context.Context, gh *provider.GitHub, repos []string, members []domain.TeamMemberView, start, end time.Time) (domain.ReportStats, error) {
	results := make([]*repoWeek, len(repos))
	var (
		mu       sync.Mutex
		warnings []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(reportRepoParallelism)
	for i, repo := range repos {
		g.Go(func() error {
			rw, err := fetchRepoWeek(gctx, gh, repo, start, end)
			if err != nil {
				slogx.FromContext(ctx).Warn("report repo failed", slog.String("repo", repo), slog.Any("error", err))
				mu.Lock()
				warnings = append(warnings, fmt.Sprintf("%s: %s", repo, warningReason(err)))
				mu.Unlock()
				return nil
			}
			results[i] = rw
			return nil
		})
	}
	_ = g.Wait()

	if len(warnings) == len(repos) {
		return domain.ReportStats{}, fmt.Errorf("%w: no repository could be read", ErrUpstream)
	}

	for _, rw := range results {
		if rw != nil && len(rw.truncated) > 0 {
			warnings = append(warnings, fmt.Sprintf("%s: too much activity, %s counts are a lower bound",
				rw.repo, strings.Join(rw.truncated, " and ")))
		}
	}

	stats := buildStats(results, members)
	slices.Sort(warnings)
	stats.Warnings = warnings
	return stats, nil
}

func fetchRepoWeek(ctx context.Context, gh *provider.GitHub, repo string, start, end time.Time) (*repoWeek, error) {
	rw := &repoWeek{repo: repo}
	in := func(t time.Time) bool { return !t.Before(start) && t.Before(end) }

	// ErrTruncated still carries the pages that were read.
	partial := func(what string, err error) error {
		if errors.Is(err, provider.ErrTruncated) {
			if !slices.Contains(rw.truncated, what) {
				rw.truncated = append(rw.truncated, what)
			}
			return nil
		}
		return err
	}

	prs, err := gh.ListPullRequests(ctx, repo, start)
	if err = partial("pull request", err); err != nil {
		return nil, err
	}
	for _, pr := range prs {
		if in(pr.CreatedAt) {
			rw.opened = append(rw.opened, pr.Author)
		}
		if pr.MergedAt != nil && in(*pr.MergedAt) {
			rw.merged = append(rw.merged, pr.Author)
		}
		// Reviews can only land on PRs touched since start.
		reviews, err := gh.ListReviews(ctx, repo, pr.Number)
		if err = partial("review", err); err != nil {
			return nil, err
		}
		for _, r := range reviews {
			if in(r.SubmittedAt) {
				rw.reviews = append(rw.reviews, r.Reviewer)
			}
		}
	}

	commits, err := gh.ListCommits(ctx, repo, start, end)
	if err = partial("commit", err); err != nil {
		return nil, err
	}
	for _, c := range commits {
		rw.commits = append(rw.commits, c.AuthorLogin)
	}
	return rw, nil
}

// buildStats folds per-repo activity into totals, per-member rows (keyed
// by github_login, everything else under "external") and per-repo rows.
func buildStats(results []*repoWeek, members []domain.TeamMemberView) domain.ReportStats {
	stats := domain.ReportStats{
		Members: make([]domain.MemberActivity, 0, len(members)+1),
		Repos:   []domain.RepoActivity{},
	}

	byLogin := make(map[string]int)
	for _, m := range members {
		stats.Members = append(stats.Members, domain.MemberActivity{
			UserID:      m.UserID,
			Name:        m.Name,
			GitHubLogin: m.GitHubLogin,
		})
		if m.GitHubLogin != "" {
			byLogin[strings.ToLower(m.GitHubLogin)] = len(stats.Members) - 1
		}
	}
	external := domain.MemberActivity{Name: domain.ExternalContributor}

	row := func(login string) *domain.MemberActivity {
		if i, ok := byLogin[strings.ToLower(login)]; ok && login != "" {
			return &stats.Members[i]
		}
		return &external
	}

	for _, rw := range results {
		if rw == nil {
			continue
		}
		stats.Repos = append(stats.Repos, domain.RepoActivity{
			Repo:               rw.repo,
			PullRequestsOpened: len(rw.opened),
			PullRequestsMerged: len(rw.merged),
			Reviews:            len(rw.reviews),
			Commits:            len(rw.commits),
		})
		stats.PullRequestsOpened += len(rw.opened)
		stats.PullRequestsMerged += len(rw.merged)
		stats.Reviews += len(rw.reviews)
		stats.Commits += len(rw.commits)

		for _, l := range rw.opened {
			row(l).PullRequestsOpened++
		}
		for _, l := range rw.merged {
			row(l).PullRequestsMerged++
		}
		for _, l := range rw.reviews {
			row(l).Reviews++
		}
		for _, l := range rw.commits {
			row(l).Commits++
		}
	}

	if external.PullRequestsOpened+external.PullRequestsMerged+external.Reviews+external.Commits > 0 {
		stats.Members = append(stats.Members, external)
	}
	return stats
}
