package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/thesavant42/ghfinder/internal/models"
)

const (
	DefaultBaseURL = "https://api.github.com"
	DefaultTimeout = 30 * time.Second
	userAgent      = "ghfinder/1.0"
	apiVersion     = "2022-11-28"
)

// ErrUserNotFound is returned when the profile endpoint answers 404
var ErrUserNotFound = errors.New("user not found")

// StatusError is returned for any other non-200 response
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GitHub API error (status %d): %s", e.StatusCode, e.Body)
}

// Client is an unauthenticated GitHub REST client
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *log.Logger
}

// NewClient creates a GitHub API client. A nil logger disables logging.
func NewClient(baseURL string, timeout time.Duration, logger *log.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// NewFileLogger opens logPath for appending and returns a logger writing to it
func NewFileLogger(logPath string) (*log.Logger, error) {
	if dir := filepath.Dir(logPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "API",
		Level:           log.DebugLevel,
	}), nil
}

// BaseURL returns the API root this client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchProfile fetches a user's public profile
func (c *Client) FetchProfile(ctx context.Context, login string) (*models.Profile, error) {
	endpoint := fmt.Sprintf("%s/users/%s", c.baseURL, url.PathEscape(login))

	var profile models.Profile
	if err := c.getJSON(ctx, endpoint, &profile); err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, login)
		}
		return nil, err
	}
	if profile.Login == "" {
		profile.Login = login
	}

	return &profile, nil
}

// FetchRepositories fetches the first page of a user's public repositories
func (c *Client) FetchRepositories(ctx context.Context, login string) ([]models.Repository, error) {
	endpoint := fmt.Sprintf("%s/users/%s/repos", c.baseURL, url.PathEscape(login))

	var repos []models.Repository
	if err := c.getJSON(ctx, endpoint, &repos); err != nil {
		return nil, err
	}
	if repos == nil {
		repos = []models.Repository{}
	}

	return repos, nil
}

// Search looks up a user's profile and then their repositories and returns one
// result describing both. The profile is only kept when it resolved; a failed
// repository fetch after a resolved profile yields OutcomePartial.
func (c *Client) Search(ctx context.Context, login string) models.SearchResult {
	result := models.SearchResult{Login: login}

	profile, err := c.FetchProfile(ctx, login)
	if err != nil {
		result.Err = err
		if errors.Is(err, ErrUserNotFound) {
			result.Outcome = models.OutcomeNotFound
		} else {
			result.Outcome = models.OutcomeFailed
		}
		return result
	}
	result.Profile = profile

	repos, err := c.FetchRepositories(ctx, login)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("Repository fetch failed after profile resolved", "login", login, "error", err)
		}
		result.Err = err
		result.Outcome = models.OutcomePartial
		result.Repositories = []models.Repository{}
		return result
	}

	result.Repositories = repos
	result.Outcome = models.OutcomeFound
	return result
}

// getJSON performs a GET request and decodes a 200 response body into out
func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("Failed to create request", "url", endpoint, "error", err)
		}
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)

	if c.logger != nil {
		c.logger.Info("GET", "endpoint", endpoint)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("Request failed", "url", endpoint, "error", err)
		}
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if c.logger != nil {
		remaining := resp.Header.Get("X-RateLimit-Remaining")
		reset := resp.Header.Get("X-RateLimit-Reset")
		c.logger.Debug("Rate limit", "remaining", remaining, "reset", reset, "status", resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if c.logger != nil {
			c.logger.Error("API error", "status", resp.StatusCode, "response", string(body))
		}
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if c.logger != nil {
			c.logger.Error("Failed to decode response", "url", endpoint, "error", err)
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// ProfileDomain returns the registrable domain of a profile's website, e.g.
// "https://blog.example.co.uk/about" -> "example.co.uk". It returns "" when the
// profile has no website or the host has no public suffix.
func ProfileDomain(p *models.Profile) string {
	if p == nil || strings.TrimSpace(p.Blog) == "" {
		return ""
	}
	root, err := ExtractRootDomain(p.Blog)
	if err != nil {
		return ""
	}
	return root
}
