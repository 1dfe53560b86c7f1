package corpus

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/devraulu/bamsearch/pkg/config"
	"github.com/devraulu/bamsearch/pkg/process"
)

// Fetcher returns the entity-decoded HTML of one result page.
type Fetcher interface {
	Fetch(ctx context.Context, term, corpus string, page int) (string, error)
}

// Client queries the Bonito concordance endpoint.
type Client struct {
	endpoint  string
	userAgent string
	http      *http.Client
	robots    *process.RobotsChecker
}

var _ Fetcher = (*Client)(nil)

func NewClient(cfg config.CorpusConfig) (*Client, error) {
	endpoint, err := process.NormalizeEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("could not normalize endpoint %q: %w", cfg.Endpoint, err)
	}

	hc := &http.Client{
		Timeout: cfg.GetTimeout(),
	}

	c := &Client{
		endpoint:  endpoint,
		userAgent: cfg.UserAgent,
		http:      hc,
	}
	if cfg.RespectRobots {
		c.robots = process.NewRobotsChecker(hc, cfg.UserAgent)
	}

	return c, nil
}

func (c *Client) Endpoint() string { return c.endpoint }

// PageURL builds the request URL for the given term, corpus and 1-based page.
func (c *Client) PageURL(term, corpus string, page int) string {
	params := url.Values{}
	params.Set("corpname", corpus)
	params.Set("iquery", term)
	params.Set("fromp", strconv.Itoa(page))

	sep := "?"
	if strings.Contains(c.endpoint, "?") {
		sep = "&"
	}
	return c.endpoint + sep + params.Encode()
}

func (c *Client) Fetch(ctx context.Context, term, corpus string, page int) (string, error) {
	if page < 1 {
		return "", fmt.Errorf("%w: page must be >= 1, got %d", ErrInvalidQuery, page)
	}

	u := c.PageURL(term, corpus, page)

	if c.robots != nil && !c.robots.Allowed(ctx, u) {
		return "", &TransportError{Page: page, Err: ErrDisallowed}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", &TransportError{Page: page, Err: err}
	}

	req.Header.Add("Accept", "text/html")
	if c.userAgent != "" {
		req.Header.Add("User-Agent", c.userAgent)
	}

	slog.Debug("fetching page", slog.String("url", u), slog.Int("page", page))

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &TransportError{Page: page, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &TransportError{Page: page, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Page: page, Err: err}
	}

	if !validateHTMLContentTypeHeader(resp) {
		return "", fmt.Errorf("%w: content type %q", ErrParse, resp.Header.Get("Content-Type"))
	}

	slog.Debug("page fetched",
		slog.Int("page", page),
		slog.Int("status_code", resp.StatusCode),
		slog.Int("body_length", len(body)),
	)

	return html.UnescapeString(string(body)), nil
}

// validateHTMLContentTypeHeader accepts a missing header; some Bonito
// deployments omit it.
func validateHTMLContentTypeHeader(resp *http.Response) bool {
	header := resp.Header.Get("Content-Type")
	if header == "" {
		return true
	}
	return strings.Contains(strings.ToLower(header), "html")
}
