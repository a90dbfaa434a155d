package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DiskCache persists analysis results across restarts as one JSON file per
// entry. Expired entries are removed lazily on read.
type DiskCache struct {
	dir        string
	defaultTTL time.Duration
}

// NewDiskCache creates a disk cache rooted at dir
func NewDiskCache(dir string, defaultTTL time.Duration) *DiskCache {
	return &DiskCache{
		dir:        dir,
		defaultTTL: defaultTTL,
	}
}

type diskEntry struct {
	Payload   []byte    `json:"payload"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Get retrieves a cached result, deleting it if expired
func (c *DiskCache) Get(key string) ([]byte, bool) {
	path := c.entryPath(key)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var entry diskEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		_ = os.Remove(path)
		return nil, false
	}

	if time.Now().After(entry.ExpiresAt) {
		_ = os.Remove(path)
		return nil, false
	}

	return entry.Payload, true
}

// Set stores a result, falling back to the default TTL when ttl is zero
func (c *DiskCache) Set(key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.defaultTTL
	}

	data, err := json.Marshal(diskEntry{
		Payload:   value,
		ExpiresAt: time.Now().Add(ttl),
	})
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	if err := os.WriteFile(c.entryPath(key), data, 0o644); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}

	return nil
}

// Delete removes a cached result
func (c *DiskCache) Delete(key string) error {
	return os.Remove(c.entryPath(key))
}

// Clear removes the entire cache directory
func (c *DiskCache) Clear() error {
	return os.RemoveAll(c.dir)
}

func (c *DiskCache) entryPath(key string) string {
	return filepath.Join(c.dir, key+".json")
}
