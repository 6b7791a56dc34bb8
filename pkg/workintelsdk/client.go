package workintelsdk

import (
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

// SessionCookieName is the cookie the server issues on signup and login.
const SessionCookieName = "work_intel_session"

// Client talks to a Work Intel server as one browser would: it keeps the
// session cookie in a jar and never follows redirects, so OAuth connect
// URLs can be inspected.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client with an empty cookie jar.
func NewClient(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)

	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}
