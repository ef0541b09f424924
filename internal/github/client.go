// Package github looks up a user's public repositories for profile pages.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"sync"
	"time"

	"github.com/shubham1542-dev/Dev-Connector/internal/platform/config"
	dErrors "github.com/shubham1542-dev/Dev-Connector/pkg/domain-errors"
	"github.com/shubham1542-dev/Dev-Connector/pkg/platform/circuit"
)

const breakerName = "github"

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9-]{0,38})$`)

// Repo is the subset of the GitHub repository payload shown on profiles.
type Repo struct {
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	HTMLURL     string    `json:"html_url"`
	Description string    `json:"description"`
	Language    string    `json:"language"`
	Stars       int       `json:"stargazers_count"`
	Watchers    int       `json:"watchers_count"`
	Forks       int       `json:"forks_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// BreakerObserver is told when the breaker opens or closes.
type BreakerObserver interface {
	SetBreakerOpen(name string, open bool)
}

type Client struct {
	http         *http.Client
	baseURL      string
	clientID     string
	clientSecret string
	logger       *slog.Logger
	observer     BreakerObserver

	breaker  *circuit.Breaker
	cooldown time.Duration
	now      func() time.Time

	mu       sync.Mutex
	openedAt time.Time
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithBreaker(b *circuit.Breaker, cooldown time.Duration) Option {
	return func(c *Client) {
		c.breaker = b
		c.cooldown = cooldown
	}
}

func WithObserver(o BreakerObserver) Option {
	return func(c *Client) { c.observer = o }
}

func New(cfg config.GitHubConfig, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		http:         &http.Client{Timeout: cfg.Timeout},
		baseURL:      cfg.BaseURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		logger:       logger,
		breaker:      circuit.New(breakerName, circuit.WithFailureThreshold(3), circuit.WithSuccessThreshold(1)),
		cooldown:     30 * time.Second,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Repos returns the user's five oldest repositories. A missing GitHub user is
// a not-found error; an unreachable or failing GitHub is unavailable.
func (c *Client) Repos(ctx context.Context, username string) ([]Repo, error) {
	if !usernamePattern.MatchString(username) {
		return nil, dErrors.New(dErrors.CodeNotFound, "no GitHub profile found")
	}
	if !c.allow() {
		return nil, dErrors.New(dErrors.CodeUnavailable, "GitHub is temporarily unavailable")
	}

	q := url.Values{}
	q.Set("per_page", "5")
	q.Set("sort", "created")
	q.Set("direction", "asc")
	endpoint := fmt.Sprintf("%s/users/%s/repos?%s", c.baseURL, url.PathEscape(username), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build GitHub request")
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "dev-connector")
	if c.clientID != "" {
		req.SetBasicAuth(c.clientID, c.clientSecret)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			// The caller went away; GitHub's health is unknown.
			return nil, dErrors.Wrap(ctx.Err(), dErrors.CodeUnavailable, "GitHub request cancelled")
		}
		c.failure(ctx, err)
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "GitHub is temporarily unavailable")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		c.success()
		return nil, dErrors.New(dErrors.CodeNotFound, "no GitHub profile found")
	case resp.StatusCode != http.StatusOK:
		err := fmt.Errorf("github responded %d", resp.StatusCode)
		c.failure(ctx, err)
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "GitHub is temporarily unavailable")
	}

	var repos []Repo
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		if ctx.Err() != nil {
			return nil, dErrors.Wrap(ctx.Err(), dErrors.CodeUnavailable, "GitHub request cancelled")
		}
		c.failure(ctx, err)
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "GitHub returned an unexpected payload")
	}
	c.success()
	return repos, nil
}

// allow lets calls through while closed, and one probe per cooldown while
// open.
func (c *Client) allow() bool {
	if !c.breaker.IsOpen() {
		return true
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.now().Sub(c.openedAt) < c.cooldown {
		return false
	}
	c.openedAt = c.now()
	return true
}

func (c *Client) failure(ctx context.Context, err error) {
	_, change := c.breaker.RecordFailure()
	if change.Opened {
		c.mu.Lock()
		c.openedAt = c.now()
		c.mu.Unlock()
		c.logger.WarnContext(ctx, "github circuit opened", "error", err)
		if c.observer != nil {
			c.observer.SetBreakerOpen(breakerName, true)
		}
	}
}

func (c *Client) success() {
	_, change := c.breaker.RecordSuccess()
	if change.Closed {
		c.logger.Info("github circuit closed")
		if c.observer != nil {
			c.observer.SetBreakerOpen(breakerName, false)
		}
	}
}
