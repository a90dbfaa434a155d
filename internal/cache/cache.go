package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/leenscore/leenscore/internal/model"
)

// Cache defines the interface for analysis-result caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key builds the cache key for an analysis request. Identical submissions in
// the same language hit the same entry, so repeat requests never re-bill the
// analysis backend.
func Key(req model.AnalysisRequest) string {
	lang := req.Language
	if lang == "" {
		lang = "en"
	}

	payload := fmt.Sprintf("%s|%s|%s|%s|%s", req.Kind(), lang, req.Content, req.URL, req.ImageURL)
	hash := sha256.Sum256([]byte(payload))
	return "leenscore:v1:" + hex.EncodeToString(hash[:])
}
