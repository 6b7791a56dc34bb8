package provider

import (
	"context"
	"encoding/base64"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultAtlassianAPI = "https://api.atlassian.com"

	// AssignedOpenJQL selects the caller's unfinished issues.
	AssignedOpenJQL = "assignee = currentUser() AND statusCategory != Done ORDER BY priority DESC, updated DESC"
)

// Jira reads the Jira Cloud REST v3 API, either through the Atlassian
// gateway (OAuth) or directly on the site (API token).
type Jira struct {
	c       *Client
	siteURL string
}

// NewJira wraps an authenticated client. siteURL is used for browse links.
func NewJira(c *Client, siteURL string) *Jira {
	return &Jira{c: c, siteURL: strings.TrimSuffix(siteURL, "/")}
}

// JiraGatewayURL is the API base for an OAuth connection to cloudID.
func JiraGatewayURL(atlassianAPI, cloudID string) string {
	return strings.TrimSuffix(atlassianAPI, "/") + "/ex/jira/" + url.PathEscape(cloudID)
}

// BasicAuthHeader encodes Jira API-token credentials.
func BasicAuthHeader(email, token string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(email+":"+token))
}

// NormalizeSiteURL turns "acme.atlassian.net" or "https://acme.atlassian.net/"
// into "https://acme.atlassian.net".
func NormalizeSiteURL(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" || u.User != nil || (u.Scheme != "https" && u.Scheme != "http") {
		return "", false
	}
	return u.Scheme + "://" + strings.ToLower(u.Host), true
}

// cloudJiraHosts are always allowed.
var cloudJiraHosts = []string{"*.atlassian.net", "*.jira.com"}

// JiraSites is the set of sites API-token connections may point at. Jira
// Cloud is always allowed; extra entries cover self-hosted installs:
//
//	*.corp.example        any subdomain, https on the default port
//	jira.corp.example     that host, https on the default port
//	http://jira.lan:8080  exactly that origin
//
// The zero value allows Jira Cloud only.
type JiraSites struct {
	extra []string
}

// NewJiraSites returns the cloud defaults plus extra.
func NewJiraSites(extra []string) JiraSites {
	out := make([]string, 0, len(extra))
	for _, e := range extra {
		if e = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(e), "/")); e != "" {
			out = append(out, e)
		}
	}
	return JiraSites{extra: out}
}

// Normalize parses raw like NormalizeSiteURL and reports whether the site
// is allowed.
func (j JiraSites) Normalize(raw string) (string, bool) {
	site, ok := NormalizeSiteURL(raw)
	if !ok {
		return "", false
	}
	for _, e := range j.extra {
		if strings.Contains(e, "://") && e == site {
			return site, true
		}
	}

	u, _ := url.Parse(site)
	if u.Scheme != "https" || u.Port() != "" {
		return "", false
	}
	host := u.Hostname()
	for _, pattern := range slices.Concat(cloudJiraHosts, j.extra) {
		if strings.Contains(pattern, "://") {
			continue
		}
		if suffix, ok := strings.CutPrefix(pattern, "*."); ok {
			if strings.HasSuffix(host, "."+suffix) {
				return site, true
			}
			continue
		}
		if host == pattern {
			return site, true
		}
	}
	return "", false
}

type JiraUser struct {
	AccountID    string `json:"accountId"`
	EmailAddress string `json:"emailAddress"`
	DisplayName  string `json:"displayName"`
}

type JiraIssue struct {
	Key      string
	Summary  string
	Status   string
	Priority string
	URL      string
	DueAt    *time.Time
}

// AtlassianResource is a site the OAuth grant can reach.
type AtlassianResource struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	Name string `json:"name"`
}

// Myself returns the authenticated user. Used to verify API tokens.
func (j *Jira) Myself(ctx context.Context) (JiraUser, error) {
	var u JiraUser
	if err := j.c.Get(ctx, "/rest/api/3/myself", nil, &u); err != nil {
		return JiraUser{}, err
	}
	return u, nil
}

// AssignedJQL narrows AssignedOpenJQL to projectKeys when any are given.
func AssignedJQL(projectKeys []string) string {
	if len(projectKeys) == 0 {
		return AssignedOpenJQL
	}
	quoted := make([]string, 0, len(projectKeys))
	for _, k := range projectKeys {
		quoted = append(quoted, strconv.Quote(k))
	}
	return "project in (" + strings.Join(quoted, ", ") + ") AND " + AssignedOpenJQL
}

// SearchIssues runs jql and returns at most limit issues.
func (j *Jira) SearchIssues(ctx context.Context, jql string, limit int) ([]JiraIssue, error) {
	if limit <= 0 {
		limit = 20
	}
	q := url.Values{}
	q.Set("jql", jql)
	q.Set("maxResults", strconv.Itoa(limit))
	q.Set("fields", "summary,status,priority,duedate")

	var resp struct {
		Issues []struct {
			Key    string `json:"key"`
			Fields struct {
				Summary string `json:"summary"`
				Status  *struct {
					Name string `json:"name"`
				} `json:"status"`
				Priority *struct {
					Name string `json:"name"`
				} `json:"priority"`
				DueDate string `json:"duedate"`
			} `json:"fields"`
		} `json:"issues"`
	}
	if err := j.c.Get(ctx, "/rest/api/3/search/jql", q, &resp); err != nil {
		return nil, err
	}

	out := make([]JiraIssue, 0, len(resp.Issues))
	for _, is := range resp.Issues {
		issue := JiraIssue{
			Key:     is.Key,
			Summary: is.Fields.Summary,
			URL:     j.siteURL + "/browse/" + is.Key,
		}
		if is.Fields.Status != nil {
			issue.Status = is.Fields.Status.Name
		}
		if is.Fields.Priority != nil {
			issue.Priority = is.Fields.Priority.Name
		}
		if due, err := time.Parse(time.DateOnly, is.Fields.DueDate); err == nil {
			issue.DueAt = &due
		}
		out = append(out, issue)
	}
	return out, nil
}

// AccessibleResources lists the sites an OAuth token was granted for. c
// must point at the Atlassian API root.
func AccessibleResources(ctx context.Context, c *Client) ([]AtlassianResource, error) {
	var out []AtlassianResource
	if err := c.Get(ctx, "/oauth/token/accessible-resources", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
