package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/leenscore/leenscore/internal/model"
	"github.com/leenscore/leenscore/internal/worker"
)

// ErrDisallowed is returned when robots.txt forbids fetching the URL
var ErrDisallowed = errors.New("fetch disallowed by robots.txt")

// Fetcher retrieves the text content of submitted URLs so it can be analyzed
// like pasted text
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *robotsChecker
	limiter    *worker.Limiter
}

// Result is the fetched page reduced to analyzable content
type Result struct {
	Title    string
	Text     string
	FinalURL string
}

// NewFetcher creates a fetcher from HTTP configuration
func NewFetcher(cfg model.HTTPConfig) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	maxBytes := cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 2_000_000
	}

	var robots *robotsChecker
	if cfg.RespectRobots {
		robots = newRobotsChecker(cfg.UserAgent, timeout)
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  maxBytes,
		robots:    robots,
		limiter:   worker.NewLimiter(2, 3),
	}
}

// Fetch retrieves a URL and extracts its title and readable text
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Result, error) {
	if f.robots != nil && !f.robots.allowed(ctx, rawURL) {
		return nil, ErrDisallowed
	}

	if err := f.limiter.Wait(ctx, rawURL); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	title, text := extractText(string(body))
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("no readable text at %s", rawURL)
	}

	return &Result{
		Title:    title,
		Text:     text,
		FinalURL: resp.Request.URL.String(),
	}, nil
}
