package process

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/benjaminestes/robots"
)

// RobotsChecker answers whether a user agent may fetch a URL. Parsed
// robots.txt files are cached per robots URL for the checker's lifetime.
type RobotsChecker struct {
	client    *http.Client
	userAgent string

	mu    sync.Mutex
	cache map[string]*robots.Robots
}

func NewRobotsChecker(client *http.Client, userAgent string) *RobotsChecker {
	if client == nil {
		client = http.DefaultClient
	}
	return &RobotsChecker{
		client:    client,
		userAgent: userAgent,
		cache:     make(map[string]*robots.Robots),
	}
}

// Allowed reports whether url may be fetched. A robots.txt that cannot be
// located, fetched or parsed counts as allowing everything.
func (c *RobotsChecker) Allowed(ctx context.Context, url string) bool {
	r := c.check(ctx, url)
	if r == nil {
		return true
	}
	return r.Test(c.userAgent, url)
}

func (c *RobotsChecker) check(ctx context.Context, url string) (res *robots.Robots) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("panic in robots.txt parsing, assuming allowed", slog.String("url", url), slog.Any("panic", r))
			res = nil
		}
	}()

	robotsURL, err := robots.Locate(url)
	if err != nil {
		return nil
	}

	c.mu.Lock()
	if r, ok := c.cache[robotsURL]; ok {
		c.mu.Unlock()
		return r
	}
	c.mu.Unlock()

	r, err := c.getRobots(ctx, robotsURL)
	if err != nil {
		slog.Warn("failed to fetch robots.txt", slog.String("url", robotsURL), slog.Any("err", err))
		r = nil
	}

	c.mu.Lock()
	c.cache[robotsURL] = r
	c.mu.Unlock()
	return r
}

func (c *RobotsChecker) getRobots(ctx context.Context, url string) (*robots.Robots, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	slog.Debug("robots.txt response",
		slog.String("url", url),
		slog.Int("status_code", resp.StatusCode),
		slog.Int("body_length", len(body)),
	)

	return robots.From(resp.StatusCode, bytes.NewReader(body))
}
