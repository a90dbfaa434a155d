package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/leenscore/leenscore/internal/model"
)

const (
	defaultTimeout = 20 * time.Second
	retryDelay     = 1 * time.Second
	maxBodyBytes   = 4_000_000
)

// retrySleepFunc is the sleep function used before the retry (injectable for tests)
var retrySleepFunc = time.Sleep

// Client calls the external IA11 scoring engine. Every call carries a bounded
// timeout and at most one retry, taken only for transport-level failures.
type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
	limiter    *rate.Limiter
	sessions   *sessionStore
}

// NewClient creates an engine client from configuration.
// An empty base URL yields a client whose calls fail with NOT_CONFIGURED.
func NewClient(cfg model.EngineConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 5
	}

	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		timeout: timeout,
		httpClient: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
		sessions: newSessionStore(),
	}
}

// Configured reports whether an engine base URL is set
func (c *Client) Configured() bool {
	return c.baseURL != ""
}

// Score submits an analysis request to the engine and returns the raw
// response payload
func (c *Client) Score(ctx context.Context, req model.AnalysisRequest) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/v1/score", req)
}

// Analysis fetches a previously submitted analysis by id, used to resume a
// poll after the client reloaded
func (c *Client) Analysis(ctx context.Context, id string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/v1/analyses/"+id, nil)
}

// do issues the request with one conditional retry. Only TIMEOUT and
// NETWORK_ERROR classifications are retried, after a fixed delay; HTTP
// rejections surface immediately.
func (c *Client) do(ctx context.Context, method, path string, body interface{}) (json.RawMessage, error) {
	if !c.Configured() {
		return nil, &Error{Code: CodeNotConfigured, Message: "no engine base URL configured"}
	}

	payload, err := c.attempt(ctx, method, path, body)
	if err == nil {
		return payload, nil
	}

	engErr, ok := err.(*Error)
	if !ok {
		return nil, &Error{Code: CodeUnknownError, Message: err.Error()}
	}
	if !isRetryable(engErr) {
		return nil, engErr
	}

	retrySleepFunc(retryDelay)
	if ctx.Err() != nil {
		return nil, engErr
	}

	payload, err = c.attempt(ctx, method, path, body)
	if err == nil {
		return payload, nil
	}
	if engErr, ok := err.(*Error); ok {
		return nil, engErr
	}
	return nil, &Error{Code: CodeUnknownError, Message: err.Error()}
}

// attempt issues a single HTTP call with the configured timeout
func (c *Client) attempt(ctx context.Context, method, path string, body interface{}) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, classifyTransportError(err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Code: CodeUnknownError, Message: fmt.Sprintf("encode request: %v", err)}
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, &Error{Code: CodeUnknownError, Message: fmt.Sprintf("create request: %v", err)}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, classifyTransportError(err)
	}

	if resp.StatusCode >= 400 {
		return nil, &Error{
			Code:    HTTPCode(resp.StatusCode),
			Message: fmt.Sprintf("engine returned status %d", resp.StatusCode),
		}
	}

	if !json.Valid(data) {
		return nil, &Error{Code: CodeUnknownError, Message: "engine returned invalid JSON"}
	}

	return json.RawMessage(data), nil
}

// RememberAnalysis records the last analysis id for a session, allowing a
// reloaded client to resume polling
func (c *Client) RememberAnalysis(sessionID, analysisID string) {
	c.sessions.Remember(sessionID, analysisID)
}

// LastAnalysis returns the last analysis id recorded for a session
func (c *Client) LastAnalysis(sessionID string) (string, bool) {
	return c.sessions.Last(sessionID)
}
