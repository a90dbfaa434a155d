package storage

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/leenscore/leenscore/internal/engine"
	"github.com/leenscore/leenscore/internal/model"
)

// Client uploads processed screenshots to the object storage backend.
// Transport failures carry the same code taxonomy as the engine client so
// the API surface stays uniform.
type Client struct {
	baseURL    string
	apiKey     string
	bucket     string
	httpClient *http.Client
}

// UploadResult describes a stored object
type UploadResult struct {
	PublicURL string `json:"publicUrl"`
	Path      string `json:"path"`
}

// NewClient creates a storage client from configuration
func NewClient(cfg model.StorageConfig) *Client {
	bucket := cfg.Bucket
	if bucket == "" {
		bucket = "screenshots"
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		bucket:  bucket,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Configured reports whether a storage base URL is set
func (c *Client) Configured() bool {
	return c.baseURL != ""
}

// Upload stores a blob and returns its public URL and storage path
func (c *Client) Upload(ctx context.Context, data []byte, contentType string) (*UploadResult, error) {
	if !c.Configured() {
		return nil, &engine.Error{Code: engine.CodeNotConfigured, Message: "no storage base URL configured"}
	}

	path := objectPath(contentType)
	url := fmt.Sprintf("%s/object/%s/%s", c.baseURL, c.bucket, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &engine.Error{Code: engine.CodeNetworkError, Message: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode >= 400 {
		return nil, &engine.Error{
			Code:    engine.HTTPCode(resp.StatusCode),
			Message: fmt.Sprintf("storage returned status %d", resp.StatusCode),
		}
	}

	return &UploadResult{
		PublicURL: fmt.Sprintf("%s/object/public/%s/%s", c.baseURL, c.bucket, path),
		Path:      path,
	}, nil
}

// Delete removes a stored object, reporting whether the object is gone
func (c *Client) Delete(ctx context.Context, path string) (bool, error) {
	if !c.Configured() {
		return false, &engine.Error{Code: engine.CodeNotConfigured, Message: "no storage base URL configured"}
	}

	url := fmt.Sprintf("%s/object/%s/%s", c.baseURL, c.bucket, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return false, fmt.Errorf("create delete request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, &engine.Error{Code: engine.CodeNetworkError, Message: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	// 404 counts as deleted: the object is gone either way
	return resp.StatusCode < 400 || resp.StatusCode == http.StatusNotFound, nil
}

// objectPath builds a unique storage path for an upload
func objectPath(contentType string) string {
	ext := ".jpg"
	if contentType == "image/png" {
		ext = ".png"
	}

	random := make([]byte, 8)
	_, _ = rand.Read(random)

	return fmt.Sprintf("uploads/%d-%s%s", time.Now().UnixNano(), hex.EncodeToString(random), ext)
}
