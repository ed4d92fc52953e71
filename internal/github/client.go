// Package github provides a minimal client for the GitHub REST API, used to
// import a user's starred repositories as bookmarks.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL       = "https://api.github.com"
	defaultPerPage       = 100
	defaultRatePerSecond = 2 // stay well under GitHub's secondary rate limits
)

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// StarredRepo is the subset of the GitHub repository payload the importer
// cares about.
type StarredRepo struct {
	FullName    string `json:"full_name"`
	HTMLURL     string `json:"html_url"`
	Description string `json:"description"`
}

// Client is a GitHub API client.
type Client struct {
	token      string
	baseURL    string
	httpClient HTTPDoer
	limiter    *rate.Limiter
	perPage    int
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithBaseURL sets a custom API base URL.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = base
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		if doer != nil {
			c.httpClient = doer
		}
	}
}

// WithPerPage sets the page size used when listing stars.
func WithPerPage(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.perPage = n
		}
	}
}

// NewClient creates a new GitHub API client. The token is optional;
// unauthenticated requests work with lower rate limits.
func NewClient(token string, opts ...Option) *Client {
	client := &Client{
		token:      token,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(defaultRatePerSecond), defaultRatePerSecond),
		perPage:    defaultPerPage,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Starred returns every repository the user has starred, walking the
// paginated listing until a short page ends it.
func (c *Client) Starred(ctx context.Context, username string) ([]StarredRepo, error) {
	if username == "" {
		return nil, fmt.Errorf("github username is required")
	}

	var all []StarredRepo
	for page := 1; ; page++ {
		repos, err := c.starredPage(ctx, username, page)
		if err != nil {
			return nil, err
		}
		all = append(all, repos...)

		if len(repos) < c.perPage {
			break
		}
	}

	slog.Info("Fetched starred repositories", "user", username, "count", len(all))
	return all, nil
}

func (c *Client) starredPage(ctx context.Context, username string, page int) ([]StarredRepo, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait for GitHub: %w", err)
	}

	u := fmt.Sprintf("%s/users/%s/starred", c.baseURL, url.PathEscape(username))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	q := req.URL.Query()
	q.Set("per_page", strconv.Itoa(c.perPage))
	q.Set("page", strconv.Itoa(page))
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch starred page %d: %w", page, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusNotFound:
		return nil, fmt.Errorf("github user %q not found", username)
	case http.StatusForbidden, http.StatusTooManyRequests:
		return nil, fmt.Errorf("github API rate limit exceeded (status %d)", resp.StatusCode)
	default:
		return nil, fmt.Errorf("github API returned status %d", resp.StatusCode)
	}

	var repos []StarredRepo
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		return nil, fmt.Errorf("failed to decode starred page %d: %w", page, err)
	}

	slog.Debug("Fetched starred page", "user", username, "page", page, "repos", len(repos))
	return repos, nil
}
