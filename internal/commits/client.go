package commits

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"stationhub/internal/domain"
)

const (
	DefaultURL       = "https://api.github.com/repos/unitystation/unitystation/commits"
	DefaultUserAgent = "stationhub"
	acceptHeader     = "application/vnd.github.v3+json"
)

// HTTPClient is the subset of *http.Client the feed needs
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL overrides the commits endpoint
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.url = url
		}
	}
}

// WithHTTPClient overrides the HTTP client
func WithHTTPClient(h HTTPClient) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// Client fetches the repository commit feed from the GitHub API
type Client struct {
	url        string
	userAgent  string
	httpClient HTTPClient
}

// NewClient creates a commit feed client
func NewClient(opts ...Option) *Client {
	c := &Client{
		url:        DefaultURL,
		userAgent:  DefaultUserAgent,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchCommits makes a single request for the latest commits
func (c *Client) FetchCommits(ctx context.Context) ([]domain.Commit, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("commits: build request: %w", err)
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("commits: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("commits: unexpected status %d", resp.StatusCode)
	}

	var payload []apiCommit
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("commits: decode response: %w", err)
	}

	result := make([]domain.Commit, 0, len(payload))
	for _, ac := range payload {
		result = append(result, ac.toDomain())
	}
	return result, nil
}

// apiCommit is one element of the GitHub list-commits response
type apiCommit struct {
	SHA     string `json:"sha"`
	HTMLURL string `json:"html_url"`
	Commit  struct {
		Message string `json:"message"`
		Author  struct {
			Name  string `json:"name"`
			Email string `json:"email"`
			Date  string `json:"date"`
		} `json:"author"`
	} `json:"commit"`
}

func (ac apiCommit) toDomain() domain.Commit {
	title, _, _ := strings.Cut(ac.Commit.Message, "\n")
	return domain.Commit{
		SHA:     ac.SHA,
		Title:   strings.TrimSpace(title),
		Message: ac.Commit.Message,
		Author: domain.Author{
			Name:  ac.Commit.Author.Name,
			Email: ac.Commit.Author.Email,
			Date:  ac.Commit.Author.Date,
		},
		URL: ac.HTMLURL,
	}
}
