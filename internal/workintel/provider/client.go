package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/workintel/pkg/slogx"
	"github.com/cenkalti/backoff"
)

// DefaultMaxAttempts bounds retries on 429 and 5xx responses.
const DefaultMaxAttempts = 3

// APIError is a non-2xx answer from a provider.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s api: status %d: %s", e.Provider, e.StatusCode, e.Message)
}

// Retryable reports whether the request may succeed if repeated.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// IsStatus reports whether err is an *APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// Client is the JSON-over-HTTPS plumbing shared by every provider.
type Client struct {
	Provider    string
	BaseURL     string
	HTTP        *http.Client
	Header      http.Header
	MaxAttempts int

	// initialInterval is shortened by tests.
	initialInterval time.Duration
}

// NewClient builds a Client. httpClient should already carry auth (an
// oauth2 transport, basic auth or an API key).
func NewClient(provider, baseURL string, httpClient *http.Client, header http.Header) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if header == nil {
		header = http.Header{}
	}
	return &Client{
		Provider:        provider,
		BaseURL:         strings.TrimSuffix(baseURL, "/"),
		HTTP:            httpClient,
		Header:          header,
		MaxAttempts:     DefaultMaxAttempts,
		initialInterval: 250 * time.Millisecond,
	}
}

// Get issues a GET and decodes the JSON body into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

// Post sends body as JSON and decodes the answer into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

// Do performs one logical request with retries on 429/5xx and network
// errors. Other failures return immediately.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("%s: encode request: %w", c.Provider, err)
		}
	}

	target := c.BaseURL + path
	if strings.HasPrefix(path, "https://") || strings.HasPrefix(path, "http://") {
		target = path
	}
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.initialInterval
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = 30 * time.Second

	attempts := max(c.MaxAttempts, 1)
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(attempts-1)), ctx)

	log := slogx.FromContext(ctx)
	op := func() error {
		err := c.once(ctx, method, target, payload, out)
		if err == nil {
			return nil
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.Retryable() {
			return backoff.Permanent(err)
		}
		if errors.Is(err, ErrTokenRefresh) {
			return backoff.Permanent(err)
		}
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		log.Warn("provider request retry", "provider", c.Provider, "path", path, "wait", wait, "err", err)
	}

	return backoff.RetryNotify(op, policy, notify)
}

func (c *Client) once(ctx context.Context, method, target string, payload []byte, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", c.Provider, err)
	}
	for k, vs := range c.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", c.Provider, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("%s: read response: %w", c.Provider, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Provider: c.Provider, StatusCode: resp.StatusCode, Message: errorMessage(raw, resp.StatusCode)}
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", c.Provider, err)
	}
	return nil
}

// errorMessage pulls a human message out of the usual error envelopes
// ({"message"}, {"error":{"message"}}, {"errorMessages":[...]}).
func errorMessage(raw []byte, status int) string {
	var env struct {
		Message       string          `json:"message"`
		Error         json.RawMessage `json:"error"`
		ErrorMessages []string        `json:"errorMessages"`
	}
	if json.Unmarshal(raw, &env) == nil {
		switch {
		case env.Message != "":
			return env.Message
		case len(env.ErrorMessages) > 0:
			return strings.Join(env.ErrorMessages, "; ")
		case len(env.Error) > 0:
			var nested struct {
				Message string `json:"message"`
			}
			if json.Unmarshal(env.Error, &nested) == nil && nested.Message != "" {
				return nested.Message
			}
			var s string
			if json.Unmarshal(env.Error, &s) == nil && s != "" {
				return s
			}
		}
	}
	if len(raw) > 0 && len(raw) < 200 {
		return strings.TrimSpace(string(raw))
	}
	return http.StatusText(status) + " (" + strconv.Itoa(status) + ")"
}
