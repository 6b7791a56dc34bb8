package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/aussiebroadwan/workintel/internal/workintel/domain"
	"github.com/aussiebroadwan/workintel/internal/workintel/llm"
	"github.com/aussiebroadwan/workintel/internal/workintel/provider"
	"github.com/aussiebroadwan/workintel/pkg/slogx"
	"golang.org/x/sync/errgroup"
)

const (
	briefEmailLimit    = 15
	briefPRLimit       = 20
	briefJiraLimit     = 20
	briefDocumentLimit = 10
	briefDocumentAge   = 24 * time.Hour
	briefSourceTimeout = 20 * time.Second
)

// BriefOptions tune one brief request.
type BriefOptions struct {
	Refresh  bool
	Location *time.Location // day boundaries for meetings; nil = server local
}

// BriefService builds the daily digest from every connected source.
type BriefService struct {
	Integrations *IntegrationService
	Summarizer   llm.Summarizer
	Cache        *BriefCache
	Clock        Clock
}

// Generate returns the caller's brief, from cache unless opts.Refresh.
func (s *BriefService) Generate(ctx context.Context, userID string, opts BriefOptions) (domain.Brief, error) {
	log := slogx.FromContext(ctx)

	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	now := s.Clock.now()
	key := briefKeyPrefix(userID) + loc.String()

	if s.Cache != nil && !opts.Refresh {
		if b, ok := s.Cache.Get(key, now); ok {
			b.Cached = true
			return b, nil
		}
	}

	b := domain.Brief{
		UserID:       userID,
		Date:         now.In(loc).Format(time.DateOnly),
		Emails:       []domain.EmailItem{},
		PullRequests: []domain.PullRequestItem{},
		Meetings:     []domain.MeetingItem{},
		JiraTasks:    []domain.JiraTaskItem{},
		Documents:    []domain.DocumentItem{},
		Warnings:     []string{},
	}

	var mu sync.Mutex
	warn := func(source string, err error) {
		log.Warn("brief source failed", slog.String("source", source), slog.Any("error", err))
		mu.Lock()
		b.Warnings = append(b.Warnings, fmt.Sprintf("%s: unavailable (%s)", source, warningReason(err)))
		mu.Unlock()
	}

	// Sources never fail the group; each records its own warning.
	g, gctx := errgroup.WithContext(ctx)
	run := func(source string, fn func(ctx context.Context) error) {
		g.Go(func() error {
			sctx, cancel := context.WithTimeout(gctx, briefSourceTimeout)
			defer cancel()
			if err := fn(sctx); err != nil {
				warn(source, err)
			}
			return nil
		})
	}

	run("email", func(ctx context.Context) error {
		items, err := s.emails(ctx, userID)
		mu.Lock()
		b.Emails = append(b.Emails, items...)
		mu.Unlock()
		return err
	})
	run("github", func(ctx context.Context) error {
		items, err := s.pullRequests(ctx, userID)
		mu.Lock()
		b.PullRequests = append(b.PullRequests, items...)
		mu.Unlock()
		return err
	})
	run("calendar", func(ctx context.Context) error {
		items, err := s.meetings(ctx, userID, now.In(loc))
		mu.Lock()
		b.Meetings = append(b.Meetings, items...)
		mu.Unlock()
		return err
	})
	run("jira", func(ctx context.Context) error {
		items, err := s.jiraTasks(ctx, userID)
		mu.Lock()
		b.JiraTasks = append(b.JiraTasks, items...)
		mu.Unlock()
		return err
	})
	run("google_drive", func(ctx context.Context) error {
		items, err := s.documents(ctx, userID, now)
		mu.Lock()
		b.Documents = append(b.Documents, items...)
		mu.Unlock()
		return err
	})
	_ = g.Wait()
	slices.Sort(b.Warnings)

	summary, err := llm.SummarizeOrFallback(ctx, s.Summarizer, llm.BriefPrompt(b))
	if err != nil {
		log.Warn("brief summary fell back", slog.Any("error", err))
	}
	b.Summary = summary
	b.GeneratedAt = s.Clock.now()

	if s.Cache != nil {
		s.Cache.Put(key, b, now)
	}
	log.Info("brief generated",
		slog.Int("emails", len(b.Emails)),
		slog.Int("pull_requests", len(b.PullRequests)),
		slog.Int("meetings", len(b.Meetings)),
		slog.Int("jira_tasks", len(b.JiraTasks)),
		slog.Int("documents", len(b.Documents)),
		slog.Int("warnings", len(b.Warnings)),
	)
	return b, nil
}

func (s *BriefService) emails(ctx context.Context, userID string) ([]domain.EmailItem, error) {
	n, grant, ok, err := s.Integrations.NylasForUser(ctx, userID)
	if err != nil || !ok {
		return nil, err
	}
	msgs, err := n.UnreadMessages(ctx, grant, briefEmailLimit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.EmailItem, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, domain.EmailItem{ID: m.ID, From: m.From, Subject: m.Subject, Snippet: m.Snippet, ReceivedAt: m.ReceivedAt})
	}
	return out, nil
}

func (s *BriefService) meetings(ctx context.Context, userID string, localNow time.Time) ([]domain.MeetingItem, error) {
	n, grant, ok, err := s.Integrations.NylasForUser(ctx, userID)
	if err != nil || !ok {
		return nil, err
	}
	start := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, localNow.Location())
	end := start.AddDate(0, 0, 1)

	events, err := n.EventsBetween(ctx, grant, start, end)
	if err != nil {
		return nil, err
	}
	out := make([]domain.MeetingItem, 0, len(events))
	for _, e := range events {
		out = append(out, domain.MeetingItem{
			ID:        e.ID,
			Title:     e.Title,
			StartsAt:  e.StartsAt,
			EndsAt:    e.EndsAt,
			Location:  e.Location,
			Attendees: e.Participants,
		})
	}
	slices.SortFunc(out, func(a, b domain.MeetingItem) int { return a.StartsAt.Compare(b.StartsAt) })
	return out, nil
}

func (s *BriefService) pullRequests(ctx context.Context, userID string) ([]domain.PullRequestItem, error) {
	gh, ok, err := s.Integrations.GitHubForUser(ctx, userID)
	if err != nil || !ok {
		return nil, err
	}

	queries := []struct {
		role  string
		query string
	}{
		{domain.PRRoleReviewRequested, "review-requested:@me is:open archived:false"},
		{domain.PRRoleAuthor, "author:@me is:open archived:false"},
	}
	var out []domain.PullRequestItem
	for _, q := range queries {
		prs, err := gh.SearchPullRequests(ctx, q.query, briefPRLimit)
		if err != nil {
			return out, err
		}
		for _, pr := range prs {
			out = append(out, pullRequestItem(pr, q.role))
		}
	}
	return out, nil
}

func pullRequestItem(pr provider.GitHubPullRequest, role string) domain.PullRequestItem {
	return domain.PullRequestItem{
		Repo:      pr.Repo,
		Number:    pr.Number,
		Title:     pr.Title,
		URL:       pr.URL,
		Author:    pr.Author,
		Role:      role,
		UpdatedAt: pr.UpdatedAt,
	}
}

func (s *BriefService) jiraTasks(ctx context.Context, userID string) ([]domain.JiraTaskItem, error) {
	j, keys, ok, err := s.Integrations.JiraForUser(ctx, userID)
	if err != nil || !ok {
		return nil, err
	}
	issues, err := j.SearchIssues(ctx, provider.AssignedJQL(keys), briefJiraLimit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.JiraTaskItem, 0, len(issues))
	for _, is := range issues {
		out = append(out, domain.JiraTaskItem{
			Key:      is.Key,
			Summary:  is.Summary,
			Status:   is.Status,
			Priority: is.Priority,
			URL:      is.URL,
			DueAt:    is.DueAt,
		})
	}
	return out, nil
}

func (s *BriefService) documents(ctx context.Context, userID string, now time.Time) ([]domain.DocumentItem, error) {
	d, ok, err := s.Integrations.DriveForUser(ctx, userID)
	if err != nil || !ok {
		return nil, err
	}
	files, err := d.RecentFiles(ctx, now.Add(-briefDocumentAge), briefDocumentLimit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.DocumentItem, 0, len(files))
	for _, f := range files {
		out = append(out, domain.DocumentItem{
			ID:         f.ID,
			Name:       f.Name,
			URL:        f.URL,
			MimeType:   f.MimeType,
			ModifiedAt: f.ModifiedAt,
			ModifiedBy: f.ModifiedBy,
		})
	}
	return out, nil
}

// warningReason turns a source error into a short user-facing reason.
func warningReason(err error) string {
	var apiErr *provider.APIError
	switch {
	case errors.Is(err, provider.ErrTokenRefresh), errors.Is(err, provider.ErrNotConnected):
		return "reconnect required"
	case errors.Is(err, context.DeadlineExceeded):
		return "timed out"
	case errors.As(err, &apiErr):
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return "access revoked, reconnect required"
		case http.StatusTooManyRequests:
			return "rate limited"
		}
		return fmt.Sprintf("status %d", apiErr.StatusCode)
	}
	return "request failed"
}
