// Package sync pulls user rosters from IGA platforms (JumpCloud,
// Okta and compatible APIs) and exposes them as user_access records
// for the report engine.
package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

const defaultPageSize = 100

// Config carries the IGA API connection settings.
type Config struct {
	BaseURL    string
	APIKey     string
	OrgID      string
	PageSize   int
	Timeout    time.Duration
	MaxRetries int
}

// Stats counts what a sync run did, for the operator log line.
type Stats struct {
	TotalUsers     int
	ActiveUsers    int
	SuspendedUsers int
	APICalls       int
}

// Client is an authenticated, retrying IGA API client.
type Client struct {
	http *retryablehttp.Client
	cfg  Config
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("sync: base URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("sync: API key is required")
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.MaxRetries
	rc.Logger = nil
	if cfg.Timeout > 0 {
		rc.HTTPClient.Timeout = cfg.Timeout
	}

	return &Client{http: rc, cfg: cfg}, nil
}

// userPage is one page of the systemusers listing. Different IGA
// platforms disagree on envelope naming, so both spellings of every
// key are accepted.
type userPage struct {
	Results    []apiUser `json:"results"`
	Data       []apiUser `json:"data"`
	NextCursor string    `json:"next_cursor"`
	NextAlt    string    `json:"nextCursor"`
}

func (p *userPage) users() []apiUser {
	if len(p.Results) > 0 {
		return p.Results
	}
	return p.Data
}

func (p *userPage) cursor() string {
	if p.NextCursor != "" {
		return p.NextCursor
	}
	return p.NextAlt
}

// ListUsers retrieves the full roster using cursor-based pagination.
func (c *Client) ListUsers(ctx context.Context) ([]User, *Stats, error) {
	logger := zerolog.Ctx(ctx)
	stats := &Stats{}

	var users []User
	cursor := ""
	for page := 1; ; page++ {
		body, err := c.fetchPage(ctx, cursor)
		if err != nil {
			return nil, stats, fmt.Errorf("fetch page %d: %w", page, err)
		}
		stats.APICalls++

		pageUsers := body.users()
		for _, raw := range pageUsers {
			user := parseUser(raw, time.Now().UTC())
			users = append(users, user)
			switch user.Status {
			case StatusActive:
				stats.ActiveUsers++
			case StatusSuspended, StatusDeprovisioned:
				stats.SuspendedUsers++
			}
		}
		logger.Debug().Int("page", page).Int("users", len(pageUsers)).Msg("processed roster page")

		cursor = body.cursor()
		if cursor == "" || len(pageUsers) == 0 {
			break
		}
	}

	stats.TotalUsers = len(users)
	logger.Info().
		Int("total", stats.TotalUsers).
		Int("active", stats.ActiveUsers).
		Int("suspended", stats.SuspendedUsers).
		Int("api_calls", stats.APICalls).
		Msg("user synchronization complete")
	return users, stats, nil
}

func (c *Client) fetchPage(ctx context.Context, cursor string) (*userPage, error) {
	endpoint, err := url.JoinPath(c.cfg.BaseURL, "systemusers")
	if err != nil {
		return nil, fmt.Errorf("build url: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "access-atlas-sync/1.0")
	if c.cfg.OrgID != "" {
		req.Header.Set("x-org-id", c.cfg.OrgID)
	}

	q := req.URL.Query()
	q.Set("limit", strconv.Itoa(c.cfg.PageSize))
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	req.URL.RawQuery = q.Encode()

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var page userPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode page: %w", err)
	}
	return &page, nil
}
