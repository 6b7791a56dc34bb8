package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultGitHubAPI = "https://api.github.com"

	githubPerPage  = 100
	githubMaxPages = 10
)

// ErrTruncated is returned alongside partial results when a listing still
// had items in range after githubMaxPages pages.
var ErrTruncated = errors.New("provider: results truncated at page limit")

// GitHub reads the REST v3 API.
type GitHub struct {
	c *Client
}

// NewGitHub wraps an already-authenticated client.
func NewGitHub(c *Client) *GitHub {
	c.Header.Set("Accept", "application/vnd.github+json")
	c.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	return &GitHub{c: c}
}

type GitHubUser struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type GitHubPullRequest struct {
	Repo      string
	Number    int
	Title     string
	URL       string
	State     string
	Author    string
	CreatedAt time.Time
	UpdatedAt time.Time
	MergedAt  *time.Time
}

type GitHubCommit struct {
	SHA         string
	AuthorLogin string // empty when the commit email is not linked to an account
	AuthorName  string
	Date        time.Time
}

type GitHubReview struct {
	ID          int64
	Reviewer    string
	State       string
	SubmittedAt time.Time
}

type githubAccount struct {
	Login string `json:"login"`
}

// ValidRepo reports whether s looks like "owner/name".
func ValidRepo(s string) bool {
	owner, name, ok := strings.Cut(s, "/")
	return ok && owner != "" && name != "" && !strings.ContainsAny(name, "/ ?#") && !strings.ContainsAny(owner, " ?#")
}

// CurrentUser returns the account the token belongs to. Used to verify
// PATs and to learn the login after OAuth.
func (g *GitHub) CurrentUser(ctx context.Context) (GitHubUser, error) {
	var u GitHubUser
	if err := g.c.Get(ctx, "/user", nil, &u); err != nil {
		return GitHubUser{}, err
	}
	return u, nil
}

// SearchPullRequests runs an issue search restricted to pull requests,
// e.g. "review-requested:@me is:open".
func (g *GitHub) SearchPullRequests(ctx context.Context, query string, limit int) ([]GitHubPullRequest, error) {
	if limit <= 0 || limit > githubPerPage {
		limit = githubPerPage
	}
	q := url.Values{}
	q.Set("q", "is:pr "+query)
	q.Set("sort", "updated")
	q.Set("order", "desc")
	q.Set("per_page", strconv.Itoa(limit))

	var resp struct {
		Items []struct {
			Number        int           `json:"number"`
			Title         string        `json:"title"`
			HTMLURL       string        `json:"html_url"`
			State         string        `json:"state"`
			User          githubAccount `json:"user"`
			CreatedAt     time.Time     `json:"created_at"`
			UpdatedAt     time.Time     `json:"updated_at"`
			RepositoryURL string        `json:"repository_url"`
		} `json:"items"`
	}
	if err := g.c.Get(ctx, "/search/issues", q, &resp); err != nil {
		return nil, err
	}

	out := make([]GitHubPullRequest, 0, len(resp.Items))
	for _, it := range resp.Items {
		out = append(out, GitHubPullRequest{
			Repo:      repoFromAPIURL(it.RepositoryURL),
			Number:    it.Number,
			Title:     it.Title,
			URL:       it.HTMLURL,
			State:     it.State,
			Author:    it.User.Login,
			CreatedAt: it.CreatedAt,
			UpdatedAt: it.UpdatedAt,
		})
	}
	return out, nil
}

// ListPullRequests pages through repo's pull requests, most recently
// updated first, stopping once they were last touched before since. Hitting
// the page limit first returns what was read and ErrTruncated.
func (g *GitHub) ListPullRequests(ctx context.Context, repo string, since time.Time) ([]GitHubPullRequest, error) {
	var out []GitHubPullRequest
	for page := 1; page <= githubMaxPages; page++ {
		q := url.Values{}
		q.Set("state", "all")
		q.Set("sort", "updated")
		q.Set("direction", "desc")
		q.Set("per_page", strconv.Itoa(githubPerPage))
		q.Set("page", strconv.Itoa(page))

		var batch []struct {
			Number    int           `json:"number"`
			Title     string        `json:"title"`
			HTMLURL   string        `json:"html_url"`
			State     string        `json:"state"`
			User      githubAccount `json:"user"`
			CreatedAt time.Time     `json:"created_at"`
			UpdatedAt time.Time     `json:"updated_at"`
			MergedAt  *time.Time    `json:"merged_at"`
		}
		if err := g.c.Get(ctx, "/repos/"+repo+"/pulls", q, &batch); err != nil {
			return nil, fmt.Errorf("list pulls %s: %w", repo, err)
		}

		for _, pr := range batch {
			if pr.UpdatedAt.Before(since) {
				return out, nil
			}
			out = append(out, GitHubPullRequest{
				Repo:      repo,
				Number:    pr.Number,
				Title:     pr.Title,
				URL:       pr.HTMLURL,
				State:     pr.State,
				Author:    pr.User.Login,
				CreatedAt: pr.CreatedAt,
				UpdatedAt: pr.UpdatedAt,
				MergedAt:  pr.MergedAt,
			})
		}
		if len(batch) < githubPerPage {
			return out, nil
		}
	}
	return out, fmt.Errorf("list pulls %s: %w", repo, ErrTruncated)
}

// ListCommits returns commits on the default branch in [since, until).
func (g *GitHub) ListCommits(ctx context.Context, repo string, since, until time.Time) ([]GitHubCommit, error) {
	var out []GitHubCommit
	for page := 1; page <= githubMaxPages; page++ {
		q := url.Values{}
		q.Set("since", since.UTC().Format(time.RFC3339))
		q.Set("until", until.UTC().Format(time.RFC3339))
		q.Set("per_page", strconv.Itoa(githubPerPage))
		q.Set("page", strconv.Itoa(page))

		var batch []struct {
			SHA    string         `json:"sha"`
			Author *githubAccount `json:"author"`
			Commit struct {
				Author struct {
					Name string    `json:"name"`
					Date time.Time `json:"date"`
				} `json:"author"`
			} `json:"commit"`
		}
		if err := g.c.Get(ctx, "/repos/"+repo+"/commits", q, &batch); err != nil {
			// An empty repository answers 409.
			if IsStatus(err, http.StatusConflict) {
				return out, nil
			}
			return nil, fmt.Errorf("list commits %s: %w", repo, err)
		}

		for _, c := range batch {
			// GitHub's until is inclusive.
			if !c.Commit.Author.Date.Before(until) {
				continue
			}
			commit := GitHubCommit{
				SHA:        c.SHA,
				AuthorName: c.Commit.Author.Name,
				Date:       c.Commit.Author.Date,
			}
			if c.Author != nil {
				commit.AuthorLogin = c.Author.Login
			}
			out = append(out, commit)
		}
		if len(batch) < githubPerPage {
			return out, nil
		}
	}
	return out, fmt.Errorf("list commits %s: %w", repo, ErrTruncated)
}

// ListReviews returns the submitted reviews of a pull request.
func (g *GitHub) ListReviews(ctx context.Context, repo string, number int) ([]GitHubReview, error) {
	path := fmt.Sprintf("/repos/%s/pulls/%d/reviews", repo, number)

	var out []GitHubReview
	for page := 1; page <= githubMaxPages; page++ {
		q := url.Values{}
		q.Set("per_page", strconv.Itoa(githubPerPage))
		q.Set("page", strconv.Itoa(page))

		var batch []struct {
			ID          int64         `json:"id"`
			User        githubAccount `json:"user"`
			State       string        `json:"state"`
			SubmittedAt time.Time     `json:"submitted_at"`
		}
		if err := g.c.Get(ctx, path, q, &batch); err != nil {
			return nil, fmt.Errorf("list reviews %s#%d: %w", repo, number, err)
		}

		for _, r := range batch {
			if r.State == "PENDING" {
				continue
			}
			out = append(out, GitHubReview{ID: r.ID, Reviewer: r.User.Login, State: r.State, SubmittedAt: r.SubmittedAt})
		}
		if len(batch) < githubPerPage {
			return out, nil
		}
	}
	return out, fmt.Errorf("list reviews %s#%d: %w", repo, number, ErrTruncated)
}

// repoFromAPIURL turns https://api.github.com/repos/o/n into "o/n".
func repoFromAPIURL(u string) string {
	_, rest, ok := strings.Cut(u, "/repos/")
	if !ok {
		return u
	}
	return rest
}
